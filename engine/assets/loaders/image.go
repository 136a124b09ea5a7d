package loaders

import (
	"fmt"
	"image"
	"io"

	// Register the decoders image.Decode dispatches to.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/texture"
)

// ImageParams controls how a decoded image is laid out for upload.
type ImageParams struct {
	// FlipY stores the bottom row first, which is where GL expects row 0.
	FlipY bool
	// Mipmaps builds the full chain down to 1x1.
	Mipmaps bool
}

// Image is a decoded picture packed as tightly aligned unsigned bytes.
type Image struct {
	Width  int
	Height int
	Format metadata.TextureFormat
	// Levels holds level 0 followed by any generated mip levels.
	Levels [][]byte
}

type ImageLoader struct{}

// Decode reads any registered image format from r.
func (il *ImageLoader) Decode(r io.Reader, params ImageParams) (*Image, error) {
	img, kind, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", core.ErrInvalidArgument, err)
	}
	core.LogDebug("decoded %s image %v", kind, img.Bounds())
	return il.Convert(img, params), nil
}

// Convert packs img into the texture format closest to its colour model.
func (il *ImageLoader) Convert(img image.Image, params ImageParams) *Image {
	format := formatOf(img)
	b := img.Bounds()
	out := &Image{Width: b.Dx(), Height: b.Dy(), Format: format}

	base := canvas(format, b.Dx(), b.Dy())
	draw.Draw(base, base.Bounds(), img, b.Min, draw.Src)
	out.Levels = append(out.Levels, pack(base, format, params.FlipY))

	if params.Mipmaps {
		for level := 1; level < texture.MaxLevels(out.Width, out.Height); level++ {
			w, h := texture.LevelSize(out.Width, out.Height, level)
			dst := canvas(format, w, h)
			draw.ApproxBiLinear.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
			out.Levels = append(out.Levels, pack(dst, format, params.FlipY))
		}
	}
	return out
}

func formatOf(img image.Image) metadata.TextureFormat {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return metadata.TextureFormatLuminance
	case *image.Alpha, *image.Alpha16:
		return metadata.TextureFormatAlpha
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return metadata.TextureFormatRGB
	}
	return metadata.TextureFormatRGBA
}

func canvas(format metadata.TextureFormat, w, h int) draw.Image {
	r := image.Rect(0, 0, w, h)
	switch format {
	case metadata.TextureFormatLuminance:
		return image.NewGray(r)
	case metadata.TextureFormatAlpha:
		return image.NewAlpha(r)
	}
	return image.NewNRGBA(r)
}

func pack(img draw.Image, format metadata.TextureFormat, flip bool) []byte {
	var pix []byte
	var stride, bpp int
	switch m := img.(type) {
	case *image.Gray:
		pix, stride, bpp = m.Pix, m.Stride, 1
	case *image.Alpha:
		pix, stride, bpp = m.Pix, m.Stride, 1
	case *image.NRGBA:
		pix, stride, bpp = m.Pix, m.Stride, 4
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	comps := format.Components()
	out := make([]byte, 0, w*h*comps)
	for y := 0; y < h; y++ {
		row := y
		if flip {
			row = h - 1 - y
		}
		line := pix[row*stride : row*stride+w*bpp]
		if comps == bpp {
			out = append(out, line...)
			continue
		}
		// RGB drops the alpha byte of each NRGBA pixel.
		for x := 0; x < w; x++ {
			out = append(out, line[x*bpp:x*bpp+comps]...)
		}
	}
	return out
}
