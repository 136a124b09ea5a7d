package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

func gradient(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 9, A: alpha})
		}
	}
	return img
}

func TestConvertPicksFormat(t *testing.T) {
	var il ImageLoader

	opaque := il.Convert(gradient(4, 2, 255), ImageParams{})
	assert.Equal(t, metadata.TextureFormatRGB, opaque.Format)
	require.Len(t, opaque.Levels, 1)
	assert.Len(t, opaque.Levels[0], 4*2*3)
	// Pixel (1,0) follows pixel (0,0) without its alpha byte.
	assert.Equal(t, []byte{0, 0, 9, 1, 0, 9}, opaque.Levels[0][:6])

	translucent := il.Convert(gradient(4, 2, 128), ImageParams{})
	assert.Equal(t, metadata.TextureFormatRGBA, translucent.Format)
	assert.Equal(t, []byte{0, 0, 9, 128}, translucent.Levels[0][:4])

	gray := il.Convert(image.NewGray(image.Rect(0, 0, 3, 3)), ImageParams{})
	assert.Equal(t, metadata.TextureFormatLuminance, gray.Format)
	assert.Len(t, gray.Levels[0], 9)

	alpha := il.Convert(image.NewAlpha(image.Rect(0, 0, 2, 2)), ImageParams{})
	assert.Equal(t, metadata.TextureFormatAlpha, alpha.Format)
}

func TestConvertFlipsRows(t *testing.T) {
	var il ImageLoader
	img := il.Convert(gradient(2, 3, 255), ImageParams{FlipY: true})
	// First stored row is the last image row, y == 2.
	assert.Equal(t, byte(2), img.Levels[0][1])
	assert.Equal(t, byte(0), img.Levels[0][len(img.Levels[0])-2])
}

func TestConvertBuildsMipChain(t *testing.T) {
	var il ImageLoader
	img := il.Convert(gradient(8, 2, 255), ImageParams{Mipmaps: true})
	require.Len(t, img.Levels, 4)
	sizes := []int{8 * 2, 4 * 1, 2 * 1, 1}
	for i, n := range sizes {
		assert.Len(t, img.Levels[i], n*3, "level %d", i)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var il ImageLoader
	_, err := il.Decode(bytes.NewReader([]byte("not an image")), ImageParams{})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestTextureLoaderDecodesFiles(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(4, 4, 255)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), buf.Bytes(), 0o644))
	buf.Reset()
	require.NoError(t, bmp.Encode(&buf, gradient(2, 2, 255)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.bmp"), buf.Bytes(), 0o644))

	var tl TextureLoader
	img, err := tl.Decode(filepath.Join(dir, "a.png"), ImageParams{})
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)

	img, err = tl.Decode(filepath.Join(dir, "b.bmp"), ImageParams{})
	require.NoError(t, err)
	assert.Equal(t, metadata.TextureFormatRGB, img.Format)

	_, err = tl.Decode(filepath.Join(dir, "model.obj"), ImageParams{})
	assert.Error(t, err)
	_, err = tl.Decode(filepath.Join(dir, "missing.png"), ImageParams{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.True(t, Supported("x.TIFF"))
	assert.False(t, Supported("x.tga"))
}
