// Package testbed writes small asset trees used by the tests and by the
// sample mage target.
package testbed

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Palette gives every generated image a distinct, opaque colour.
var Palette = []color.NRGBA{
	{R: 0xe6, G: 0x39, B: 0x46, A: 0xff},
	{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
	{R: 0xe9, G: 0xc4, B: 0x6a, A: 0xff},
	{R: 0x26, G: 0x46, B: 0x53, A: 0xff},
	{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff},
	{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
}

// SolidImage returns a w x h image filled with c.
func SolidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// WritePNG encodes a solid w x h image to path, creating parent directories.
func WritePNG(path string, w, h int, c color.Color) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, SolidImage(w, h, c)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Image describes one generated PNG, relative to the tree root.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Tree is a set of images and text files to create under a root.
type Tree struct {
	Images []Image
	Files  map[string]string
}

func (t Tree) Write(root string) error {
	for i, img := range t.Images {
		if err := WritePNG(filepath.Join(root, filepath.FromSlash(img.Path)), img.Width, img.Height, Palette[i%len(Palette)]); err != nil {
			return err
		}
	}
	for p, content := range t.Files {
		if err := WriteText(filepath.Join(root, filepath.FromSlash(p)), content); err != nil {
			return err
		}
	}
	return nil
}

// SampleTree is a small game asset tree: a walk cycle, a punch animation with
// hitboxes at 24 fps, a resized frame, and loose props sharing a metadata file.
func SampleTree() Tree {
	return Tree{
		Images: []Image{
			{Path: "hero/walk/walk1.png", Width: 32, Height: 32},
			{Path: "hero/walk/walk2.png", Width: 32, Height: 32},
			{Path: "hero/walk/walk3.png", Width: 32, Height: 32},
			{Path: "hero/punch24/punch1.png", Width: 48, Height: 40},
			{Path: "hero/punch24/punch2.png", Width: 40, Height: 40},
			{Path: "props/crate.png", Width: 24, Height: 24},
			{Path: "props/barrel.png", Width: 20, Height: 28},
			{Path: "idle.png", Width: 16, Height: 16},
		},
		Files: map[string]string{
			"hero/punch24/metadata.txt": "# punch hitboxes\n" +
				"hitbox:[item]:0:hurt:4:4:20:30\n" +
				"hitbox:[name]:1:attack:30:10:16:8\n" +
				"reference:[item]:24:2\n",
			"props/metadata.txt": "hitbox:[item]:solid:0:0:20:20\n" +
				"hitbox:crate:0:top:0:0:24:4\n" +
				"hitbox:crate:not-a-number\n",
		},
	}
}
