package loaders

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrDecodeFailed, path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrDecodeFailed, path, err)
	}

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrDecodeFailed, path, err)
	}

	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil && p.ForceNRGBA {
		img = toNRGBA(img)
	}

	b := img.Bounds()
	return &metadata.Resource{
		Name:     "image",
		Type:     metadata.ResourceTypeImage,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data: &metadata.ImageResourceData{
			Width:  b.Dx(),
			Height: b.Dy(),
			Pixels: img,
		},
	}, nil
}

func (tl *TextureLoader) Unload(*metadata.Resource) error {
	return nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
