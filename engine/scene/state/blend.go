package state

import (
	"fmt"
	"sync"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

// BlendAttributes controls how fragments are combined with the framebuffer.
// Source and destination factors may be given separately for the alpha
// channel, in which case the imaging subset is required.
type BlendAttributes struct {
	core.Node

	mu          sync.RWMutex
	srcRGB      gl.Enum
	dstRGB      gl.Enum
	srcAlpha    gl.Enum
	dstAlpha    gl.Enum
	equation    gl.Enum
	color       [4]float32
	useSeparate bool
}

func NewBlendAttributes() *BlendAttributes {
	return &BlendAttributes{
		srcRGB:   gl.ONE,
		dstRGB:   gl.ZERO,
		srcAlpha: gl.ONE,
		dstAlpha: gl.ZERO,
		equation: gl.FUNC_ADD,
	}
}

func validSourceFactor(f gl.Enum) bool {
	switch f {
	case gl.ZERO, gl.ONE, gl.DST_COLOR, gl.ONE_MINUS_DST_COLOR,
		gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.DST_ALPHA, gl.ONE_MINUS_DST_ALPHA,
		gl.SRC_ALPHA_SATURATE, gl.CONSTANT_COLOR, gl.ONE_MINUS_CONSTANT_COLOR,
		gl.CONSTANT_ALPHA, gl.ONE_MINUS_CONSTANT_ALPHA:
		return true
	}
	return false
}

func validDestinationFactor(f gl.Enum) bool {
	switch f {
	case gl.ZERO, gl.ONE, gl.SRC_COLOR, gl.ONE_MINUS_SRC_COLOR,
		gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.DST_ALPHA, gl.ONE_MINUS_DST_ALPHA,
		gl.CONSTANT_COLOR, gl.ONE_MINUS_CONSTANT_COLOR,
		gl.CONSTANT_ALPHA, gl.ONE_MINUS_CONSTANT_ALPHA:
		return true
	}
	return false
}

// SetSourceMode sets the RGB source factor, and the alpha one too unless
// separate factors are in use.
func (b *BlendAttributes) SetSourceMode(f gl.Enum) error {
	if !validSourceFactor(f) {
		return fmt.Errorf("%w: blend source factor 0x%X", core.ErrInvalidArgument, f)
	}
	if err := b.CheckDataWrite(b); err != nil {
		return err
	}
	b.mu.Lock()
	b.srcRGB = f
	if !b.useSeparate {
		b.srcAlpha = f
	}
	b.mu.Unlock()
	return nil
}

func (b *BlendAttributes) SetDestinationMode(f gl.Enum) error {
	if !validDestinationFactor(f) {
		return fmt.Errorf("%w: blend destination factor 0x%X", core.ErrInvalidArgument, f)
	}
	if err := b.CheckDataWrite(b); err != nil {
		return err
	}
	b.mu.Lock()
	b.dstRGB = f
	if !b.useSeparate {
		b.dstAlpha = f
	}
	b.mu.Unlock()
	return nil
}

// SetAlphaModes sets separate alpha factors and turns on separate blending.
func (b *BlendAttributes) SetAlphaModes(src, dst gl.Enum) error {
	if !validSourceFactor(src) {
		return fmt.Errorf("%w: blend alpha source factor 0x%X", core.ErrInvalidArgument, src)
	}
	if !validDestinationFactor(dst) {
		return fmt.Errorf("%w: blend alpha destination factor 0x%X", core.ErrInvalidArgument, dst)
	}
	if err := b.CheckDataWrite(b); err != nil {
		return err
	}
	b.mu.Lock()
	b.srcAlpha = src
	b.dstAlpha = dst
	b.useSeparate = true
	b.mu.Unlock()
	return nil
}

// SetSeparateAlphaBlend toggles separate alpha factors. Turning it off
// makes the alpha factors follow the RGB ones again.
func (b *BlendAttributes) SetSeparateAlphaBlend(enable bool) error {
	if err := b.CheckDataWrite(b); err != nil {
		return err
	}
	b.mu.Lock()
	b.useSeparate = enable
	if !enable {
		b.srcAlpha = b.srcRGB
		b.dstAlpha = b.dstRGB
	}
	b.mu.Unlock()
	return nil
}

func (b *BlendAttributes) SetBlendEquation(mode gl.Enum) error {
	switch mode {
	case gl.FUNC_ADD, gl.FUNC_SUBTRACT, gl.FUNC_REVERSE_SUBTRACT, gl.MIN, gl.MAX:
	default:
		return fmt.Errorf("%w: blend equation 0x%X", core.ErrInvalidArgument, mode)
	}
	if err := b.CheckDataWrite(b); err != nil {
		return err
	}
	b.mu.Lock()
	b.equation = mode
	b.mu.Unlock()
	return nil
}

func (b *BlendAttributes) SetBlendColor(r, g, bl, a float32) error {
	if err := b.CheckDataWrite(b); err != nil {
		return err
	}
	b.mu.Lock()
	b.color = [4]float32{r, g, bl, a}
	b.mu.Unlock()
	return nil
}

func (b *BlendAttributes) SourceMode() gl.Enum {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.srcRGB
}

func (b *BlendAttributes) DestinationMode() gl.Enum {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dstRGB
}

func (b *BlendAttributes) AlphaModes() (gl.Enum, gl.Enum) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.srcAlpha, b.dstAlpha
}

func (b *BlendAttributes) BlendEquation() gl.Enum {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.equation
}

func (b *BlendAttributes) BlendColor() [4]float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.color
}

// Render enables blending. The equation, constant colour and separate
// factors belong to the imaging subset and are skipped without it.
func (b *BlendAttributes) Render(ctx *gl.Context) {
	caps := ctx.Probe()
	b.mu.RLock()
	defer b.mu.RUnlock()

	f := ctx.GL
	f.Enable(gl.BLEND)
	if caps.ImagingSubset() {
		f.BlendEquation(b.equation)
		f.BlendColor(b.color[0], b.color[1], b.color[2], b.color[3])
		if b.useSeparate {
			f.BlendFuncSeparate(b.srcRGB, b.dstRGB, b.srcAlpha, b.dstAlpha)
			return
		}
	}
	f.BlendFunc(b.srcRGB, b.dstRGB)
}

// PostRender restores the default blend state.
func (b *BlendAttributes) PostRender(ctx *gl.Context) {
	ctx.GL.Disable(gl.BLEND)
	if ctx.Caps.ImagingSubset() {
		ctx.GL.BlendEquation(gl.FUNC_ADD)
	}
	ctx.GL.BlendFunc(gl.ONE, gl.ZERO)
}

// Cleanup does nothing: blend state holds no GL objects.
func (b *BlendAttributes) Cleanup(*gl.Context) {}

// Compare orders by RGB factors, alpha factors, equation, separate flag and
// finally the constant colour.
func (b *BlendAttributes) Compare(other *BlendAttributes) int {
	if b == other {
		return 0
	}
	if other == nil {
		return 1
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	return Chain(
		Compare(b.srcRGB, other.srcRGB),
		Compare(b.dstRGB, other.dstRGB),
		Compare(b.srcAlpha, other.srcAlpha),
		Compare(b.dstAlpha, other.dstAlpha),
		Compare(b.equation, other.equation),
		CompareBools(b.useSeparate, other.useSeparate),
		CompareSlices(b.color[:], other.color[:]),
	)
}

func (b *BlendAttributes) Equal(other *BlendAttributes) bool {
	return b.Compare(other) == 0
}
