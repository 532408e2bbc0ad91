package loaders

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// ResizeMode selects how frames smaller than their sequence are enlarged.
type ResizeMode string

const (
	// ResizePad copies the frame to the top-left of a transparent canvas.
	ResizePad ResizeMode = "pad"
	// ResizeScale stretches the frame with Catmull-Rom resampling.
	ResizeScale ResizeMode = "scale"
)

func ParseResizeMode(s string) (ResizeMode, error) {
	switch m := ResizeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ResizePad, ResizeScale:
		return m, nil
	case "":
		return ResizePad, nil
	}
	return "", fmt.Errorf("unknown resize mode %q (want %q or %q)", s, ResizePad, ResizeScale)
}

// MaxSize returns the largest width and the largest height over frames.
func MaxSize(frames []image.Image) (int, int) {
	var w, h int
	for _, f := range frames {
		b := f.Bounds()
		w = max(w, b.Dx())
		h = max(h, b.Dy())
	}
	return w, h
}

// NormalizeFrames brings every frame to exactly w x h. Frames are only ever
// enlarged. It returns the indices of the frames that were changed.
func NormalizeFrames(frames []image.Image, w, h int, mode ResizeMode) []int {
	var resized []int
	for i, f := range frames {
		b := f.Bounds()
		if b.Dx() == w && b.Dy() == h {
			continue
		}
		frames[i] = resizeFrame(f, w, h, mode)
		resized = append(resized, i)
	}
	return resized
}

func resizeFrame(src image.Image, w, h int, mode ResizeMode) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	switch mode {
	case ResizeScale:
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	default:
		draw.Draw(dst, image.Rect(0, 0, b.Dx(), b.Dy()), src, b.Min, draw.Src)
	}
	return dst
}
