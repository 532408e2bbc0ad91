package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/math"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

const (
	MIN_ATLAS_WIDTH int = 256
	MAX_ATLAS_WIDTH int = 16384
)

// AtlasPacker assigns atlas coordinates: one row per animation, then static
// textures on shelves below them.
type AtlasPacker struct {
	minWidth int
	maxWidth int
}

// Layout is the outcome of one packing pass.
type Layout struct {
	Width  int
	Height int
	// Overflows names the animations and static textures wider than Width.
	Overflows []string
	// UsedArea is the summed area of every placed region, clipped to the atlas.
	UsedArea int
}

func NewAtlasPacker(minWidth, maxWidth int) (*AtlasPacker, error) {
	if !math.IsPowerOfTwo(minWidth) || !math.IsPowerOfTwo(maxWidth) {
		return nil, fmt.Errorf("%w: atlas widths must be powers of two, got min=%d max=%d", core.ErrInvalidConfig, minWidth, maxWidth)
	}
	if minWidth > maxWidth {
		return nil, fmt.Errorf("%w: min atlas width %d exceeds max %d", core.ErrInvalidConfig, minWidth, maxWidth)
	}
	return &AtlasPacker{minWidth: minWidth, maxWidth: maxWidth}, nil
}

// AtlasWidth picks the smallest power of two, at least the minimum width,
// that fits the widest animation row, capped at the maximum width.
func (p *AtlasPacker) AtlasWidth(animations []*metadata.AnimationSequence) int {
	widest := 0
	for _, a := range animations {
		widest = max(widest, a.RowWidth())
	}
	if widest < p.minWidth {
		return p.minWidth
	}
	return math.PowerOfTwoAtLeast(p.minWidth, widest, p.maxWidth)
}

// Pack sets X and Y on every item. Order is taken from the slices as given;
// items are never reordered.
func (p *AtlasPacker) Pack(animations []*metadata.AnimationSequence, statics []*metadata.StaticTexture) *Layout {
	layout := &Layout{Width: p.AtlasWidth(animations)}
	core.LogDebug("using atlas width of %dpx", layout.Width)

	currentY := 0
	for _, anim := range animations {
		if w := anim.RowWidth(); w > layout.Width {
			core.LogWarn("animation %s is too wide (%dpx) for atlas width (%dpx), letting it overflow", anim.Name, w, layout.Width)
			layout.Overflows = append(layout.Overflows, anim.Name)
		}
		anim.X = 0
		anim.Y = currentY
		currentY += anim.Height
	}

	currentX := 0
	rowHeight := 0
	for _, tex := range statics {
		if tex.Width > layout.Width {
			core.LogWarn("texture %s is too wide (%dpx) for atlas width (%dpx), letting it overflow", tex.Name, tex.Width, layout.Width)
			layout.Overflows = append(layout.Overflows, tex.Name)
		}
		if currentX+tex.Width > layout.Width {
			currentX = 0
			currentY += rowHeight
			rowHeight = 0
		}
		tex.X = currentX
		tex.Y = currentY
		currentX += tex.Width
		rowHeight = max(rowHeight, tex.Height)
	}

	layout.Height = currentY + rowHeight
	bounds := math.NewRect(0, 0, layout.Width, layout.Height)
	for _, anim := range animations {
		layout.UsedArea += anim.Region().Intersect(bounds).Area()
	}
	for _, tex := range statics {
		layout.UsedArea += tex.Region().Intersect(bounds).Area()
	}
	return layout
}
