package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type (metadata sidecars). */
	ResourceTypeText ResourceType = iota
	/** @brief Image resource type. */
	ResourceTypeImage
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeText:
		return "text"
	case ResourceTypeImage:
		return "image"
	}
	return "unknown"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The type of loader that produced the resource. */
	Type ResourceType
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/**
 * @brief Parameters used when loading a metadata sidecar.
 */
type TextResourceParams struct {
	/** @brief The name placeholders resolve to; empty for directory-level files. */
	Context string
}

/**
 * @brief A parsed metadata sidecar.
 */
type TextResourceData struct {
	Items []GeometryItem
	/** @brief Number of malformed lines that were dropped. */
	Skipped int
}
