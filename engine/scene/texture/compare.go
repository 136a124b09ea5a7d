package texture

import (
	"github.com/google/uuid"

	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/state"
)

// sortKey is a snapshot of the fields textures are ordered by.
type sortKey struct {
	typ         metadata.TextureType
	minFilter   metadata.MinFilter
	magFilter   metadata.MagFilter
	mipMode     metadata.MipMode
	anisotropic metadata.AnisotropicMode
	anisoDegree float32
	format      metadata.TextureFormat
	width       int
	height      int
	boundary    [3]metadata.BoundaryMode
	priority    float32
	compareMode metadata.CompareMode
	compareFunc metadata.CompareFunction
	depthMode   metadata.DepthTextureMode
	borderColor [4]float32
	sources     []uuid.UUID
}

func (t *Texture) sortKey() sortKey {
	t.mu.RLock()
	defer t.mu.RUnlock()
	k := sortKey{
		typ:         t.typ,
		minFilter:   t.minFilter,
		magFilter:   t.magFilter,
		mipMode:     t.mipMode,
		anisotropic: t.anisotropic,
		anisoDegree: t.anisoDegree,
		format:      t.format,
		width:       t.width,
		height:      t.height,
		boundary:    t.boundary,
		priority:    t.priority,
		compareMode: t.compareMode,
		compareFunc: t.compareFunc,
		depthMode:   t.depthMode,
		borderColor: t.borderColor,
		sources:     make([]uuid.UUID, len(t.sources)),
	}
	for i, s := range t.sources {
		k.sources[i] = s.ID()
	}
	return k
}

// Compare orders textures by type, filters, mip mode, anisotropy, format
// and size, boundary modes, priority (higher first), the depth compare
// fields for depth textures, border color, and finally source identity.
// Two textures built from distinct but byte-identical sources are not
// equal.
func (t *Texture) Compare(other Resource) int {
	if other == nil {
		return 1
	}
	o := other.base()
	if o == t {
		return 0
	}
	a, b := t.sortKey(), o.sortKey()

	c := state.Chain(
		state.Compare(a.typ, b.typ),
		state.Compare(a.minFilter, b.minFilter),
		state.Compare(a.magFilter, b.magFilter),
		state.Compare(a.mipMode, b.mipMode),
		state.Compare(a.anisotropic, b.anisotropic),
		state.Compare(a.anisoDegree, b.anisoDegree),
		state.Compare(a.format, b.format),
		state.Compare(a.width, b.width),
		state.Compare(a.height, b.height),
		state.CompareSlices(a.boundary[:], b.boundary[:]),
		state.Compare(b.priority, a.priority),
	)
	if c != 0 {
		return c
	}
	if a.format == metadata.TextureFormatDepthComponent {
		c = state.Chain(
			state.Compare(a.compareMode, b.compareMode),
			state.Compare(a.compareFunc, b.compareFunc),
			state.Compare(a.depthMode, b.depthMode),
		)
		if c != 0 {
			return c
		}
	}
	if c = state.CompareSlices(a.borderColor[:], b.borderColor[:]); c != 0 {
		return c
	}

	if c = state.Compare(len(a.sources), len(b.sources)); c != 0 {
		return c
	}
	for i := range a.sources {
		if c = state.CompareSlices(a.sources[i][:], b.sources[i][:]); c != 0 {
			return c
		}
	}
	return 0
}

func (t *Texture) Equal(other Resource) bool {
	return t.Compare(other) == 0
}
