package renderer

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"golang.org/x/image/draw"

	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

// AtlasRenderer composites packed items into a single RGBA image.
type AtlasRenderer struct {
	encoder png.Encoder
}

func NewAtlasRenderer() *AtlasRenderer {
	return &AtlasRenderer{
		encoder: png.Encoder{CompressionLevel: png.BestCompression},
	}
}

// Render draws every animation frame at its frame origin and every static
// texture at its position onto a transparent width x height canvas.
// Animations are drawn first, then statics, each in slice order.
func (r *AtlasRenderer) Render(width, height int, animations []*metadata.AnimationSequence, statics []*metadata.StaticTexture) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: atlas size %dx%d", core.ErrNoAssets, width, height)
	}
	atlas := image.NewNRGBA(image.Rect(0, 0, width, height))

	for _, anim := range animations {
		if len(anim.Frames) != anim.FrameCount {
			return nil, fmt.Errorf("animation %s: %d frames loaded, %d expected", anim.Name, len(anim.Frames), anim.FrameCount)
		}
		for i, frame := range anim.Frames {
			blit(atlas, frame, anim.FrameOrigin(i))
		}
	}
	for _, tex := range statics {
		if tex.Image == nil {
			return nil, fmt.Errorf("texture %s was not loaded", tex.Name)
		}
		blit(atlas, tex.Image, image.Pt(tex.X, tex.Y))
	}
	return atlas, nil
}

// blit copies src with its top-left corner at at. Pixels outside dst are
// clipped.
func blit(dst draw.Image, src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, src, b.Min, draw.Src)
}

func (r *AtlasRenderer) Encode(w io.Writer, img image.Image) error {
	return r.encoder.Encode(w, img)
}

// WriteOutputs writes the atlas image and the manifest as a pair. Both are
// first written and synced to pending files next to their destinations;
// neither replaces its destination unless both were written successfully.
func (r *AtlasRenderer) WriteOutputs(atlasPath, manifestPath string, img image.Image, writeManifest func(io.Writer) error) error {
	atlas, err := pendingOutput(atlasPath)
	if err != nil {
		return fmt.Errorf("writing atlas: %w", err)
	}
	defer atlas.Cleanup()
	if err := r.Encode(atlas, img); err != nil {
		return fmt.Errorf("writing atlas: %w", err)
	}

	manifest, err := pendingOutput(manifestPath)
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	defer manifest.Cleanup()
	if err := writeManifest(manifest); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	if err := atlas.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing atlas: %w", err)
	}
	if err := manifest.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}

func pendingOutput(dest string) (*renameio.PendingFile, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return renameio.NewPendingFile(dest, renameio.WithTempDir(dir), renameio.WithStaticPermissions(0o644))
}
