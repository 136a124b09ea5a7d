package texture

import (
	"fmt"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

// Texture2D is a texture with a single image source.
type Texture2D struct {
	*Texture
}

var _ Resource = (*Texture2D)(nil)

func NewTexture2D() *Texture2D {
	t := &Texture2D{}
	t.Texture = newTexture(t, metadata.TextureType2d, 1, nil)
	return t
}

// NewTexture2DFromSource is NewTexture2D followed by SetSource.
func NewTexture2DFromSource(mipMode metadata.MipMode, format metadata.TextureFormat, src Source) (*Texture2D, error) {
	t := NewTexture2D()
	if err := t.SetSource(mipMode, format, src); err != nil {
		return nil, err
	}
	return t, nil
}

// SetSource replaces the image. A nil source clears it.
func (t *Texture2D) SetSource(mipMode metadata.MipMode, format metadata.TextureFormat, src Source) error {
	if src == nil {
		return t.SetSources(mipMode, format, nil, 0)
	}
	return t.SetSources(mipMode, format, []Source{src}, 1)
}

// Source returns the image, or nil.
func (t *Texture2D) Source() Source {
	if s := t.Sources(); len(s) > 0 {
		return s[0]
	}
	return nil
}

// CubeFace names the six slots of a cube map in GL target order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ

	cubeFaces = 6
)

// TextureCubicEnvironmentMap is a cube map. Its six faces must all be
// square and the same size.
type TextureCubicEnvironmentMap struct {
	*Texture
}

var _ Resource = (*TextureCubicEnvironmentMap)(nil)

func NewTextureCubicEnvironmentMap() *TextureCubicEnvironmentMap {
	t := &TextureCubicEnvironmentMap{}
	t.Texture = newTexture(t, metadata.TextureTypeCube, cubeFaces, checkCubeFaces)
	return t
}

func checkCubeFaces(sources []Source) error {
	if len(sources) != 0 && len(sources) != cubeFaces {
		return fmt.Errorf("%w: cube map needs %d faces, got %d", core.ErrInvalidArgument, cubeFaces, len(sources))
	}
	for i, s := range sources {
		w, h := s.Width(), s.Height()
		if w != h {
			return fmt.Errorf("%w: cube face %d is %dx%d, not square", core.ErrInvalidArgument, i, w, h)
		}
		if w != sources[0].Width() {
			return fmt.Errorf("%w: cube face %d is %d wide, face 0 is %d", core.ErrInvalidArgument, i, w, sources[0].Width())
		}
	}
	return nil
}

// Face returns the source of one face, or nil.
func (t *TextureCubicEnvironmentMap) Face(f CubeFace) Source {
	s := t.Sources()
	if int(f) < 0 || int(f) >= len(s) {
		return nil
	}
	return s[f]
}
