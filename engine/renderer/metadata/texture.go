package metadata

import (
	"image"

	"github.com/spaghettifunk/anima-atlas/engine/math"
)

const (
	/** @brief Framerate used when an animation directory carries no numeric suffix. */
	DEFAULT_FRAMERATE int = 12
	/** @brief Name of the per-directory sidecar geometry file. */
	DEFAULT_METADATA_FILENAME string = "metadata.txt"
)

/**
 * @brief The fields shared by every entry placed in the atlas.
 */
type AtlasItem struct {
	/** @brief Slash separated path relative to the source root, no extension. */
	Name string
	/** @brief Assigned atlas origin. Set once by the packer. */
	X int
	Y int
	/** @brief Geometry records, in attachment order. */
	Geometry []GeometryItem
}

/**
 * @brief A single loose image.
 */
type StaticTexture struct {
	AtlasItem
	/** @brief The file the image was decoded from. */
	Path   string
	Width  int
	Height int
	/** @brief The decoded pixels. Nil until loaded. */
	Image image.Image
}

func (t *StaticTexture) Region() math.Rect {
	return math.NewRect(t.X, t.Y, t.Width, t.Height)
}

/**
 * @brief An ordered run of same-sized frames laid out in one atlas row.
 */
type AnimationSequence struct {
	AtlasItem
	/** @brief Frame files in playback order. */
	FramePaths []string
	FrameCount int
	/** @brief Frame size; the maximum over all frames. */
	Width     int
	Height    int
	Framerate int
	/** @brief Decoded frames, all Width x Height once normalized. */
	Frames []image.Image
}

// RowWidth is the horizontal space the whole sequence occupies.
func (a *AnimationSequence) RowWidth() int {
	return a.Width * a.FrameCount
}

func (a *AnimationSequence) Region() math.Rect {
	return math.NewRect(a.X, a.Y, a.RowWidth(), a.Height)
}

// FrameOrigin returns the atlas position of frame i.
func (a *AnimationSequence) FrameOrigin(i int) image.Point {
	return image.Pt(a.X+i*a.Width, a.Y)
}
