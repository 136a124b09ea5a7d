package shader

import (
	"encoding/json"
	"strings"
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

func TestUniformOrderIsInsertionOrder(t *testing.T) {
	a := NewArguments()
	require.NoError(t, a.SetUniformFloat("zeta", 1, []float32{1}))
	require.NoError(t, a.SetUniformInt("alpha", 2, []int32{1, 2}))
	require.NoError(t, a.SetUniformMatrix("mid", 2, make([]float32, 4), false))
	// Overwriting keeps the original slot.
	require.NoError(t, a.SetUniformFloat("zeta", 3, []float32{1, 2, 3}))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, a.Names())

	require.NoError(t, a.RemoveUniform("alpha"))
	require.NoError(t, a.RemoveUniform("missing"))
	assert.Equal(t, []string{"zeta", "mid"}, a.Names())
}

func TestUniformValidation(t *testing.T) {
	a := NewArguments()
	assert.ErrorIs(t, a.SetUniformFloat("v", 5, make([]float32, 5)), core.ErrInvalidArgument)
	assert.ErrorIs(t, a.SetUniformFloat("v", 3, make([]float32, 4)), core.ErrInvalidArgument)
	assert.ErrorIs(t, a.SetUniformInt("v", 1, nil), core.ErrInvalidArgument)
	assert.ErrorIs(t, a.SetUniformMatrix("m", 3, make([]float32, 8), false), core.ErrInvalidArgument)
	assert.ErrorIs(t, a.SetUniformMatrix("m", 5, make([]float32, 25), false), core.ErrInvalidArgument)
	assert.ErrorIs(t, a.SetUniformSampler("s", -1), core.ErrInvalidArgument)
	assert.ErrorIs(t, a.SetUniformFloat("", 1, []float32{1}), core.ErrInvalidArgument)
	assert.Empty(t, a.Names())
}

func TestTypedGetters(t *testing.T) {
	a := NewArguments()
	require.NoError(t, a.SetUniformFloat("color", 4, []float32{1, 0, 0, 1}))
	require.NoError(t, a.SetUniformSampler("tex", 2))
	require.NoError(t, a.SetUniformMatrix("mvp", 4, make([]float32, 32), true))

	values, size, err := a.UniformFloat("color")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 1}, values)
	assert.Equal(t, 4, size)

	ints, _, err := a.UniformInt("tex")
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, ints)

	m, dim, transpose, err := a.UniformMatrix("mvp")
	require.NoError(t, err)
	assert.Len(t, m, 32)
	assert.Equal(t, 4, dim)
	assert.True(t, transpose)
	u, err := a.Uniform("mvp")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Count)

	_, _, err = a.UniformInt("color")
	assert.ErrorIs(t, err, core.ErrInvalidFieldType)
	_, _, err = a.UniformFloat("mvp")
	assert.ErrorIs(t, err, core.ErrInvalidFieldType)
	_, _, err = a.UniformFloat("nothing")
	assert.ErrorIs(t, err, core.ErrUnknownUniform)

	// Returned slices are copies.
	values[0] = 9
	again, _, _ := a.UniformFloat("color")
	assert.Equal(t, float32(1), again[0])
}

func TestWriteTiming(t *testing.T) {
	a := NewArguments()
	require.NoError(t, a.SetUniformFloat("v", 1, []float32{1}))
	a.SetLive(denyAll{})
	assert.ErrorIs(t, a.SetUniformFloat("v", 1, []float32{2}), core.ErrInvalidWriteTiming)
	assert.ErrorIs(t, a.RemoveUniform("v"), core.ErrInvalidWriteTiming)
	v, _, err := a.UniformFloat("v")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, v)
}

func TestRenderPushesInOrder(t *testing.T) {
	fake := glfake.New()
	ctx := gl.NewContext(0, fake, gl.NewCapabilities(core.CapabilityConfig{}))
	a := NewArguments()
	require.NoError(t, a.SetUniformMatrix("mvp", 4, make([]float32, 16), false))
	require.NoError(t, a.SetUniformFloat("tint", 3, []float32{1, 1, 0}))
	require.NoError(t, a.SetUniformSampler("tex", 1))

	a.Render(ctx, 7)
	lookups := fake.CallsNamed("GetUniformLocation")
	require.Len(t, lookups, 3)
	assert.Equal(t, []interface{}{uint32(7), "mvp"}, lookups[0].Args)
	assert.Equal(t, "tint", lookups[1].Args[1])
	assert.Equal(t, "tex", lookups[2].Args[1])

	require.Len(t, fake.CallsNamed("UniformMatrixfv"), 1)
	fv := fake.CallsNamed("Uniformfv")[0].Args
	assert.Equal(t, int32(3), fv[1])
	assert.Equal(t, int32(1), fv[2])
	iv := fake.CallsNamed("Uniformiv")[0].Args
	assert.Equal(t, []int32{1}, iv[3])
}

func TestMarshalJSON(t *testing.T) {
	a := NewArguments()
	require.NoError(t, a.SetUniformInt("b", 1, []int32{4}))
	require.NoError(t, a.SetUniformFloat("a", 2, []float32{0.5, 1}))

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":{"type":1,"size":1,"count":1,"ints":[4]},"a":{"type":0,"size":2,"count":1,"floats":[0.5,1]}}`, string(out))
	assert.Less(t, strings.Index(string(out), `"b"`), strings.Index(string(out), `"a"`))
}

