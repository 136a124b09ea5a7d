package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl/glfake"
)

type denyAll struct{}

func (denyAll) IsDataWritePermitted(interface{}) bool   { return false }
func (denyAll) IsBoundsWritePermitted(interface{}) bool { return false }

func TestCompareHelpers(t *testing.T) {
	assert.Equal(t, -1, Compare(1, 2))
	assert.Equal(t, 1, Compare(float32(2.5), 1))
	assert.Equal(t, 0, Compare("a", "a"))

	assert.Equal(t, 1, CompareBools(true, false))
	assert.Equal(t, -1, CompareBools(false, true))
	assert.Equal(t, 0, CompareBools(true, true))

	assert.Equal(t, -1, CompareSlices([]int{9}, []int{1, 2}))
	assert.Equal(t, 1, CompareSlices([]int{1, 3}, []int{1, 2}))
	assert.Equal(t, 0, CompareSlices[float32](nil, []float32{}))

	assert.Equal(t, -1, Chain(0, 0, -1, 1))
	assert.Equal(t, 0, Chain())
}

func TestBlendValidation(t *testing.T) {
	b := NewBlendAttributes()
	assert.ErrorIs(t, b.SetSourceMode(gl.SRC_COLOR), core.ErrInvalidArgument)
	assert.ErrorIs(t, b.SetDestinationMode(gl.SRC_ALPHA_SATURATE), core.ErrInvalidArgument)
	assert.ErrorIs(t, b.SetBlendEquation(gl.ONE), core.ErrInvalidArgument)
	assert.Equal(t, gl.Enum(gl.ONE), b.SourceMode())

	require.NoError(t, b.SetSourceMode(gl.SRC_ALPHA))
	require.NoError(t, b.SetDestinationMode(gl.ONE_MINUS_SRC_ALPHA))
	src, dst := b.AlphaModes()
	assert.Equal(t, gl.Enum(gl.SRC_ALPHA), src)
	assert.Equal(t, gl.Enum(gl.ONE_MINUS_SRC_ALPHA), dst)
}

func TestBlendTiming(t *testing.T) {
	b := NewBlendAttributes()
	b.SetLive(denyAll{})
	assert.ErrorIs(t, b.SetSourceMode(gl.SRC_ALPHA), core.ErrInvalidWriteTiming)
	assert.Equal(t, gl.Enum(gl.ONE), b.SourceMode())

	b.ClearLive()
	assert.NoError(t, b.SetSourceMode(gl.SRC_ALPHA))
}

func TestBlendRender(t *testing.T) {
	fake := glfake.New()
	ctx := gl.NewContext(0, fake, gl.NewCapabilities(core.CapabilityConfig{}))

	b := NewBlendAttributes()
	require.NoError(t, b.SetAlphaModes(gl.ONE, gl.ONE))
	b.Render(ctx)
	assert.Equal(t, 1, fake.Count("BlendFuncSeparate"))
	assert.Equal(t, 1, fake.Count("BlendEquation"))

	b.PostRender(ctx)
	assert.Equal(t, 1, fake.Count("Disable"))

	// Without the imaging subset only the plain function is issued.
	plain := glfake.New()
	plain.Extensions = ""
	ctx = gl.NewContext(0, plain, gl.NewCapabilities(core.CapabilityConfig{}))
	b.Render(ctx)
	assert.Zero(t, plain.Count("BlendFuncSeparate"))
	assert.Equal(t, 1, plain.Count("BlendFunc"))
}

func TestBlendOrdering(t *testing.T) {
	a := NewBlendAttributes()
	b := NewBlendAttributes()
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Compare(a))

	require.NoError(t, b.SetSourceMode(gl.SRC_ALPHA))
	assert.Equal(t, a.Compare(b), -b.Compare(a))
	assert.NotEqual(t, 0, a.Compare(b))
	assert.False(t, a.Equal(b))

	require.NoError(t, a.SetSourceMode(gl.SRC_ALPHA))
	require.NoError(t, a.SetBlendColor(0, 0, 0, 1))
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, 1, a.Compare(nil))
}
