package metadata

const (
	/** @brief Placeholder owner standing for the item the metadata file belongs to. */
	PlaceholderItem string = "[item]"
	/** @brief Alias of PlaceholderItem accepted by older metadata files. */
	PlaceholderName string = "[name]"
)

/** @brief The kind of a geometry record, which is also its line prefix. */
type GeometryKind string

const (
	GeometryKindHitbox    GeometryKind = "hitbox"
	GeometryKindReference GeometryKind = "reference"
)

/**
 * @brief Auxiliary, non-pixel data attached to an atlas entry and expressed
 * in that entry's local coordinate space. Implemented by Hitbox and
 * ReferencePoint only.
 */
type GeometryItem interface {
	Kind() GeometryKind
	/** @brief The name of the atlas item this record belongs to. */
	Owner() string
	/** @brief Returns an independent copy with the owner replaced. */
	WithOwner(owner string) GeometryItem

	geometryItem()
}

/**
 * @brief A typed box active from StartFrame onwards.
 */
type Hitbox struct {
	OwnerName  string
	StartFrame int
	BoxType    string
	X          int
	Y          int
	Width      int
	Height     int
}

func (h Hitbox) Kind() GeometryKind { return GeometryKindHitbox }
func (h Hitbox) Owner() string      { return h.OwnerName }

func (h Hitbox) WithOwner(owner string) GeometryItem {
	h.OwnerName = owner
	return h
}

func (Hitbox) geometryItem() {}

/**
 * @brief A named anchor position (e.g. a hand or muzzle point).
 */
type ReferencePoint struct {
	OwnerName string
	X         int
	Y         int
}

func (r ReferencePoint) Kind() GeometryKind { return GeometryKindReference }
func (r ReferencePoint) Owner() string      { return r.OwnerName }

func (r ReferencePoint) WithOwner(owner string) GeometryItem {
	r.OwnerName = owner
	return r
}

func (ReferencePoint) geometryItem() {}

// IsPlaceholder reports whether owner is one of the placeholder tokens.
func IsPlaceholder(owner string) bool {
	return owner == PlaceholderItem || owner == PlaceholderName
}

// ResolveOwner returns name when owner is a placeholder, owner otherwise.
func ResolveOwner(owner, name string) string {
	if IsPlaceholder(owner) {
		return name
	}
	return owner
}
