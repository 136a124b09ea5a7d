// Package texture holds texture nodes: their image sources, the GL
// parameters they carry, and the per-context upload state that keeps each
// context's copy in step with the CPU side.
//
// A texture goes through the same cycle in every context it is rendered
// on. The first Render allocates a GL name with every dirty bit set.
// Parameter and image changes set their own bit in all contexts, and the
// next Render in a context re-issues only what that context is missing.
// Sub-image writes on an ImageSource are queued per context and applied
// after any full upload.
package texture

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/math"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/cache"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

// Resource is what the renderer and the state sorter see of a texture.
type Resource interface {
	Render(ctx *gl.Context)
	PostRender(ctx *gl.Context)
	Cleanup(ctx *gl.Context)
	HasTransparency() bool
	Compare(other Resource) int
	Equal(other Resource) bool

	base() *Texture
}

// texState is one context's bookkeeping: pending writes per source slot.
type texState struct {
	queues []*updateQueue
}

func (s *texState) queue(slot int) *updateQueue {
	for len(s.queues) <= slot {
		s.queues = append(s.queues, newUpdateQueue())
	}
	return s.queues[slot]
}

func (s *texState) clear() {
	for _, q := range s.queues {
		q.clear()
	}
}

type sourceCheck func(sources []Source) error

// Texture is the state shared by every texture type. Concrete types embed
// it and decide how many source slots exist and what they must satisfy.
type Texture struct {
	core.Node

	owner    interface{}
	typ      metadata.TextureType
	slots    int
	validate sourceCheck

	mu          sync.RWMutex
	mipMode     metadata.MipMode
	format      metadata.TextureFormat
	width       int
	height      int
	sources     []Source
	multipass   bool
	minFilter   metadata.MinFilter
	magFilter   metadata.MagFilter
	boundary    [3]metadata.BoundaryMode
	borderColor [4]float32
	priority    float32
	anisotropic metadata.AnisotropicMode
	anisoDegree float32
	compareMode metadata.CompareMode
	compareFunc metadata.CompareFunction
	depthMode   metadata.DepthTextureMode
	strategy    metadata.UpdateStrategy
	observer    SourceObserver

	textures *cache.Resource[texState]
	// allocFailed is set after a failed name allocation has been logged.
	allocFailed atomic.Bool
}

var _ ImageListener = (*Texture)(nil)

// SourceObserver hears about every SetSources on a texture it watches.
// owner is the concrete texture, next the slots now in use.
type SourceObserver interface {
	SourcesChanged(owner interface{}, old, next []Source)
}

// SetSourceObserver installs o, replacing any previous observer. nil
// removes it.
func (t *Texture) SetSourceObserver(o SourceObserver) {
	t.mu.Lock()
	t.observer = o
	t.mu.Unlock()
}

func newTexture(owner interface{}, typ metadata.TextureType, slots int, validate sourceCheck) *Texture {
	return &Texture{
		owner:       owner,
		typ:         typ,
		slots:       slots,
		validate:    validate,
		minFilter:   metadata.MinFilterBaseLevelLinear,
		magFilter:   metadata.MagFilterBaseLevelLinear,
		priority:    1,
		anisoDegree: 1,
		textures:    cache.NewTextures[texState](),
	}
}

func (t *Texture) base() *Texture { return t }

// SetSources replaces the first count image slots. Listeners move from the
// old image sources to the new ones and every context re-uploads in full.
func (t *Texture) SetSources(mipMode metadata.MipMode, format metadata.TextureFormat, sources []Source, count int) error {
	if count < 0 || count > len(sources) || count > t.slots {
		return fmt.Errorf("%w: %d sources requested, %d given, %d slots", core.ErrInvalidArgument, count, len(sources), t.slots)
	}
	for i, s := range sources[:count] {
		if s == nil {
			return fmt.Errorf("%w: source %d is nil", core.ErrInvalidArgument, i)
		}
	}
	if t.validate != nil {
		if err := t.validate(sources[:count]); err != nil {
			return err
		}
	}
	if err := t.CheckDataWrite(t.owner); err != nil {
		return err
	}

	next := slices.Clone(sources[:count])
	t.mu.Lock()
	old := t.sources
	t.sources = next
	t.mipMode = mipMode
	t.format = format
	t.resize()
	observer := t.observer
	t.mu.Unlock()

	for _, s := range old {
		if img, ok := s.(*ImageSource); ok && !slices.Contains(next, s) {
			img.removeListener(t)
		}
	}
	for _, s := range next {
		if img, ok := s.(*ImageSource); ok {
			img.addListener(t)
		}
	}

	t.textures.Each(func(e *cache.Entry[texState]) {
		e.State.clear()
		e.Dirty |= cache.DirtyImage | cache.DirtyParams
	})
	if observer != nil {
		observer.SourcesChanged(t.owner, old, slices.Clone(next))
	}
	return nil
}

// resize recomputes the cached size from the first source. Callers hold
// t.mu.
func (t *Texture) resize() {
	t.width, t.height, t.multipass = 0, 0, false
	if len(t.sources) > 0 {
		t.width, t.height = t.sources[0].Width(), t.sources[0].Height()
	}
	for _, s := range t.sources {
		if _, ok := s.(*MultipassSource); ok {
			t.multipass = true
		}
	}
}

// SubImageUpdated queues the write for every context that already holds a
// complete image. Contexts due for a full upload pick it up from the
// source pixels.
func (t *Texture) SubImageUpdated(src *ImageSource, r UpdateRegion) {
	t.mu.RLock()
	strategy := t.strategy
	var slots []int
	for i, s := range t.sources {
		if s == Source(src) {
			slots = append(slots, i)
		}
	}
	t.mu.RUnlock()
	if len(slots) == 0 {
		return
	}

	t.textures.Each(func(e *cache.Entry[texState]) {
		if e.Dirty&cache.DirtyImage != 0 {
			return
		}
		for _, slot := range slots {
			e.State.queue(slot).add(r, strategy)
		}
	})
}

// CanReplace runs the slot rules over the sources as they would be once
// src takes the new size.
func (t *Texture) CanReplace(src *ImageSource, width, height int, format metadata.TextureFormat) error {
	if t.validate == nil {
		return nil
	}
	t.mu.RLock()
	next := slices.Clone(t.sources)
	t.mu.RUnlock()
	for i, s := range next {
		if s == Source(src) {
			next[i] = resized{ImageSource: src, width: width, height: height, format: format}
		}
	}
	return t.validate(next)
}

// ImageReplaced schedules a full upload in every context.
func (t *Texture) ImageReplaced(src *ImageSource) {
	t.mu.Lock()
	t.resize()
	t.mu.Unlock()
	t.textures.Each(func(e *cache.Entry[texState]) {
		e.State.clear()
		e.Dirty |= cache.DirtyImage
	})
}

// setParam runs a parameter change under the write rules and marks the
// parameters stale everywhere.
func (t *Texture) setParam(apply func()) error {
	if err := t.CheckDataWrite(t.owner); err != nil {
		return err
	}
	t.mu.Lock()
	apply()
	t.mu.Unlock()
	t.textures.MarkDirty(cache.DirtyParams)
	return nil
}

func (t *Texture) SetMinFilter(f metadata.MinFilter) error {
	if f < metadata.MinFilterFastest || f > metadata.MinFilterLinearMipmapLinear {
		return fmt.Errorf("%w: min filter %d", core.ErrInvalidArgument, f)
	}
	return t.setParam(func() { t.minFilter = f })
}

func (t *Texture) SetMagFilter(f metadata.MagFilter) error {
	if f < metadata.MagFilterFastest || f > metadata.MagFilterBaseLevelLinear {
		return fmt.Errorf("%w: mag filter %d", core.ErrInvalidArgument, f)
	}
	return t.setParam(func() { t.magFilter = f })
}

func (t *Texture) setBoundary(axis int, m metadata.BoundaryMode) error {
	if m < metadata.BoundaryModeWrap || m > metadata.BoundaryModeMirroredRepeat {
		return fmt.Errorf("%w: boundary mode %d", core.ErrInvalidArgument, m)
	}
	return t.setParam(func() { t.boundary[axis] = m })
}

func (t *Texture) SetBoundaryModeS(m metadata.BoundaryMode) error { return t.setBoundary(0, m) }
func (t *Texture) SetBoundaryModeT(m metadata.BoundaryMode) error { return t.setBoundary(1, m) }

// SetBoundaryModeR only has an effect on cube maps.
func (t *Texture) SetBoundaryModeR(m metadata.BoundaryMode) error { return t.setBoundary(2, m) }

func (t *Texture) SetBorderColor(r, g, b, a float32) error {
	return t.setParam(func() { t.borderColor = [4]float32{r, g, b, a} })
}

// SetPriority sets the residency hint. Values are clamped to [0, 1].
func (t *Texture) SetPriority(p float32) error {
	return t.setParam(func() { t.priority = math.Clamp(p, 0, 1) })
}

func (t *Texture) SetAnisotropicFilterMode(m metadata.AnisotropicMode) error {
	if m != metadata.AnisotropicModeNone && m != metadata.AnisotropicModeSingle {
		return fmt.Errorf("%w: anisotropic mode %d", core.ErrInvalidArgument, m)
	}
	return t.setParam(func() { t.anisotropic = m })
}

// SetAnisotropicFilterDegree sets the requested degree, at least 1. The
// driver maximum caps it at render time.
func (t *Texture) SetAnisotropicFilterDegree(degree float32) error {
	if degree < 1 {
		return fmt.Errorf("%w: anisotropic degree %g", core.ErrInvalidArgument, degree)
	}
	return t.setParam(func() { t.anisoDegree = degree })
}

func (t *Texture) SetDepthCompareMode(m metadata.CompareMode) error {
	if m != metadata.CompareModeNone && m != metadata.CompareModeRToTexture {
		return fmt.Errorf("%w: compare mode %d", core.ErrInvalidArgument, m)
	}
	return t.setParam(func() { t.compareMode = m })
}

func (t *Texture) SetDepthCompareFunction(f metadata.CompareFunction) error {
	if f < metadata.CompareFunctionLessEqual || f > metadata.CompareFunctionNever {
		return fmt.Errorf("%w: compare function %d", core.ErrInvalidArgument, f)
	}
	return t.setParam(func() { t.compareFunc = f })
}

func (t *Texture) SetDepthFormat(m metadata.DepthTextureMode) error {
	if m < metadata.DepthTextureModeLuminance || m > metadata.DepthTextureModeAlpha {
		return fmt.Errorf("%w: depth texture mode %d", core.ErrInvalidArgument, m)
	}
	return t.setParam(func() { t.depthMode = m })
}

// SetUpdateStrategy changes how pending sub-image writes accumulate. Writes
// already queued are filtered through the new strategy.
func (t *Texture) SetUpdateStrategy(s metadata.UpdateStrategy) error {
	if s < metadata.UpdateStrategyRetainAll || s > metadata.UpdateStrategyDiscardOverwritten {
		return fmt.Errorf("%w: update strategy %d", core.ErrInvalidArgument, s)
	}
	if err := t.CheckDataWrite(t.owner); err != nil {
		return err
	}
	t.mu.Lock()
	t.strategy = s
	t.mu.Unlock()
	t.textures.Each(func(e *cache.Entry[texState]) {
		for _, q := range e.State.queues {
			q.restrategize(s)
		}
	})
	return nil
}

func (t *Texture) Type() metadata.TextureType { return t.typ }

func (t *Texture) Width() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.width
}

func (t *Texture) Height() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.height
}

func (t *Texture) Format() metadata.TextureFormat {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.format
}

func (t *Texture) MipMode() metadata.MipMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mipMode
}

func (t *Texture) Sources() []Source {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.sources)
}

// HasMultipassSource reports whether any slot is filled by rendering.
func (t *Texture) HasMultipassSource() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.multipass
}

func (t *Texture) MinFilter() metadata.MinFilter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.minFilter
}

func (t *Texture) MagFilter() metadata.MagFilter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.magFilter
}

// BoundaryModes returns the S, T and R modes.
func (t *Texture) BoundaryModes() (metadata.BoundaryMode, metadata.BoundaryMode, metadata.BoundaryMode) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.boundary[0], t.boundary[1], t.boundary[2]
}

func (t *Texture) BorderColor() [4]float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.borderColor
}

func (t *Texture) Priority() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.priority
}

func (t *Texture) AnisotropicFilter() (metadata.AnisotropicMode, float32) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.anisotropic, t.anisoDegree
}

func (t *Texture) DepthCompare() (metadata.CompareMode, metadata.CompareFunction, metadata.DepthTextureMode) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.compareMode, t.compareFunc, t.depthMode
}

func (t *Texture) UpdateStrategy() metadata.UpdateStrategy {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strategy
}

// HasTransparency reports whether the texture format carries alpha. Pixel
// values are never inspected.
func (t *Texture) HasTransparency() bool {
	return t.Format().HasAlpha()
}

// PendingUpdates returns the writes context id has yet to apply to slot.
func (t *Texture) PendingUpdates(id gl.ContextID, slot int) []UpdateRegion {
	e := t.textures.Lookup(id)
	if e == nil {
		return nil
	}
	e.Lock()
	defer e.Unlock()
	if slot < 0 || slot >= len(e.State.queues) {
		return nil
	}
	return e.State.queues[slot].pending()
}

// TextureContexts lists the contexts currently holding a texture name.
func (t *Texture) TextureContexts() []gl.ContextID {
	return t.textures.Contexts()
}

// Cleanup deletes the texture name held for ctx. Calling it for a context
// that never rendered the texture does nothing.
func (t *Texture) Cleanup(ctx *gl.Context) {
	t.textures.Release(ctx)
}
