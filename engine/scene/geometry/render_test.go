package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/math"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl/glfake"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

func newContext(id gl.ContextID, caps *gl.Capabilities) (*gl.Context, *glfake.GL) {
	fake := glfake.New()
	if caps == nil {
		caps = gl.NewCapabilities(core.CapabilityConfig{})
	}
	ctx := gl.NewContext(id, fake, caps)
	ctx.Stats = core.NewMetrics()
	return ctx, fake
}

func triangle() *TriangleArray {
	g := NewTriangleArray()
	_ = g.SetVertices(3, []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0}, 3)
	return g
}

func TestRenderUploadsOnlyWhenChanged(t *testing.T) {
	g := triangle()
	ctx, fake := newContext(0, nil)

	g.Render(ctx)
	g.PostRender(ctx)
	assert.Equal(t, 1, fake.Count("GenBuffer"))
	assert.Equal(t, 1, fake.Count("BufferData"))
	require.Len(t, fake.CallsNamed("DrawArrays"), 1)
	assert.Equal(t, []interface{}{gl.TRIANGLES, int32(0), int32(3)}, fake.CallsNamed("DrawArrays")[0].Args)

	// Buffer object bound, so pointers carry offsets only.
	vp := fake.CallsNamed("VertexPointer")[0].Args
	assert.Equal(t, int32(3), vp[0])
	assert.Equal(t, false, vp[3])
	assert.Equal(t, 0, vp[4])

	g.Render(ctx)
	assert.Equal(t, 1, fake.Count("BufferData"))
	assert.Zero(t, fake.Count("BufferSubData"))

	// Same size reuses the store.
	require.NoError(t, g.SetVertices(3, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3))
	g.Render(ctx)
	assert.Equal(t, 1, fake.Count("BufferData"))
	assert.Equal(t, 1, fake.Count("BufferSubData"))

	// A new channel grows it.
	require.NoError(t, g.SetNormals([]float32{0, 0, 1, 0, 0, 1, 0, 0, 1}))
	g.Render(ctx)
	assert.Equal(t, 2, fake.Count("BufferData"))
	assert.Equal(t, 1, fake.Count("GenBuffer"))

	buf, ok := fake.Buffer(1)
	require.True(t, ok)
	assert.Len(t, buf, g.BufferSize(4))
	assert.Equal(t, float32(1), floatAt(buf, 36, 2))

	buffers, _, _ := ctx.Stats.Uploads()
	assert.Equal(t, int64(3), buffers)

	// Every enable is matched by a disable.
	assert.Equal(t, fake.Count("EnableClientState"), fake.Count("DisableClientState"))
}

func TestRenderPerContext(t *testing.T) {
	caps := gl.NewCapabilities(core.CapabilityConfig{})
	g := triangle()
	a, fa := newContext(0, caps)
	b, fb := newContext(3, caps)

	g.Render(a)
	g.Render(b)
	assert.Equal(t, 1, fa.Count("BufferData"))
	assert.Equal(t, 1, fb.Count("BufferData"))
	assert.ElementsMatch(t, []gl.ContextID{0, 3}, g.BufferContexts())

	// A change dirties every context.
	require.NoError(t, g.SetFogCoordinates([]float32{1, 2, 3}))
	g.Render(a)
	assert.Equal(t, 2, fa.Count("BufferData"))
	assert.Equal(t, 1, fb.Count("BufferData"))
	g.Render(b)
	assert.Equal(t, 2, fb.Count("BufferData"))

	g.Cleanup(a)
	assert.Equal(t, 0, fa.LiveBuffers())
	assert.Equal(t, 1, fb.LiveBuffers())
	assert.Equal(t, []gl.ContextID{3}, g.BufferContexts())

	// Cleaning a context twice is harmless.
	g.Cleanup(a)
	assert.Equal(t, 1, fa.Count("DeleteBuffer"))
}

func TestRenderWithoutBufferObjects(t *testing.T) {
	caps := gl.NewCapabilities(core.CapabilityConfig{DisableBufferObjects: true})
	ctx, fake := newContext(0, caps)
	g := triangle()

	g.Render(ctx)
	assert.Zero(t, fake.Count("GenBuffer"))
	assert.Equal(t, true, fake.CallsNamed("VertexPointer")[0].Args[3])
	assert.Equal(t, 1, fake.Count("DrawArrays"))
}

func TestRenderFallsBackWhenBufferAllocationFails(t *testing.T) {
	caps := gl.NewCapabilities(core.CapabilityConfig{})
	ctx, fake := newContext(0, caps)
	fake.FailBuffers = true
	g := triangle()

	g.Render(ctx)
	assert.False(t, caps.BufferObjects())
	assert.Zero(t, fake.Count("BufferData"))
	assert.Equal(t, true, fake.CallsNamed("VertexPointer")[0].Args[3])
	assert.Equal(t, 1, fake.Count("DrawArrays"))

	// The switch is permanent for every context.
	other, fo := newContext(1, caps)
	triangle().Render(other)
	assert.Zero(t, fo.Count("GenBuffer"))
}

func TestRenderNothingWithoutVertices(t *testing.T) {
	ctx, fake := newContext(0, nil)
	NewTriangleArray().Render(ctx)
	NewIndexedTriangleArray().Render(ctx)
	assert.Zero(t, fake.Count("EnableClientState"))
	assert.Zero(t, fake.Count("DrawArrays"))
	assert.Zero(t, fake.Count("DrawElements"))
}

func TestRenderTextureUnitsAndColors(t *testing.T) {
	caps := gl.NewCapabilities(core.CapabilityConfig{MaxTextureUnits: 2})
	ctx, fake := newContext(0, caps)
	g := triangle()
	types := []metadata.TextureCoordinateType{metadata.TextureCoordinate2d, metadata.TextureCoordinate2d, metadata.TextureCoordinate2d}
	require.NoError(t, g.SetTextureCoordinates(types, [][]float32{floats(6, 0), floats(6, 0), floats(6, 0)}, 3))
	require.NoError(t, g.SetSingleColor(true, []float32{1, 0.5, 0.25, 1}))

	g.Render(ctx)
	assert.Equal(t, 2, fake.Count("TexCoordPointer"))
	assert.Len(t, g.Layout(caps.MaxTextureUnits()).TextureUnits, 2)
	assert.Zero(t, fake.Count("ColorPointer"))
	require.Len(t, fake.CallsNamed("Color4f"), 1)
	assert.Equal(t, []interface{}{float32(1), float32(0.5), float32(0.25), float32(1)}, fake.CallsNamed("Color4f")[0].Args)
	assert.Equal(t, gl.TEXTURE0, fake.CallsNamed("ClientActiveTexture")[2].Args[0])
}

func TestRenderVertexAttributes(t *testing.T) {
	ctx, fake := newContext(0, nil)
	g := triangle()
	require.NoError(t, g.SetShortAttributes(2, 2, make([]int16, 6), true, false))
	require.NoError(t, g.SetFloatAttributes(40, 1, floats(3, 0), false))

	g.Render(ctx)
	// Index 40 is past the driver limit and skipped.
	require.Len(t, fake.CallsNamed("VertexAttribPointer"), 1)
	args := fake.CallsNamed("VertexAttribPointer")[0].Args
	assert.Equal(t, uint32(2), args[0])
	assert.Equal(t, gl.UNSIGNED_SHORT, args[2])
	assert.Equal(t, true, args[3])
	assert.Equal(t, 36, args[6])
	assert.Equal(t, 1, fake.Count("DisableVertexAttribArray"))
}

func TestStripRendering(t *testing.T) {
	ctx, fake := newContext(0, nil)
	g := NewTriangleStripArray()
	require.NoError(t, g.SetVertices(2, floats(14, 0), 7))
	require.NoError(t, g.SetStripCount([]int{4, 3, 5}, 3))

	g.Render(ctx)
	draws := fake.CallsNamed("DrawArrays")
	// The last strip runs past the vertex data.
	require.Len(t, draws, 2)
	assert.Equal(t, []interface{}{gl.TRIANGLE_STRIP, int32(0), int32(4)}, draws[0].Args)
	assert.Equal(t, []interface{}{gl.TRIANGLE_STRIP, int32(4), int32(3)}, draws[1].Args)

	assert.ErrorIs(t, g.SetStripCount([]int{3, -1}, 2), core.ErrInvalidArgument)
	assert.ErrorIs(t, g.SetStripCount([]int{3}, 2), core.ErrInvalidArgument)
	assert.Equal(t, []int{4, 3, 5}, g.StripCount())
}

func TestIndexedGeometry(t *testing.T) {
	g := NewIndexedTriangleArray()
	require.NoError(t, g.SetVertices(3, floats(30, 0), 10))

	assert.ErrorIs(t, g.SetIndices([]int32{0, 1, 10}, 3), core.ErrInvalidArgument)
	assert.ErrorIs(t, g.SetIndices([]int32{0, -1, 2}, 3), core.ErrInvalidArgument)
	assert.ErrorIs(t, g.SetIndices([]int32{0, 1}, 3), core.ErrInvalidArgument)

	require.NoError(t, g.SetIndices([]int32{0, 1, 3, 3, 2, 1, 9}, 6))
	assert.Equal(t, []int32{0, 1, 3, 3, 2, 1}, g.Indices())
	assert.Equal(t, 4, g.RequiredCount())
	assert.Equal(t, 4*3*4, g.BufferSize(0))
	assert.Equal(t, 24, g.IndexBufferSize())

	// Channels only need to cover the referenced vertices.
	require.NoError(t, g.SetNormals(floats(12, 0)))
	// Shrinking the vertices below the highest index is refused.
	assert.ErrorIs(t, g.SetVertices(3, floats(9, 0), 3), core.ErrInvalidArgument)

	ctx, fake := newContext(0, nil)
	g.Render(ctx)
	elems := fake.CallsNamed("DrawElements")
	require.Len(t, elems, 1)
	assert.Equal(t, []interface{}{gl.TRIANGLES, int32(6), gl.UNSIGNED_INT, false, 0}, elems[0].Args)
	// One vertex and one element buffer.
	assert.Equal(t, 2, fake.Count("BufferData"))
	assert.Equal(t, 2, fake.LiveBuffers())

	g.Render(ctx)
	assert.Equal(t, 2, fake.Count("BufferData"))

	require.NoError(t, g.SetIndices([]int32{2, 1, 0}, 3))
	g.Render(ctx)
	// The element buffer shrank, the vertex buffer did too.
	assert.Equal(t, 4, fake.Count("BufferData"))

	g.Cleanup(ctx)
	assert.Zero(t, fake.LiveBuffers())
}

func TestIndexedFanRendering(t *testing.T) {
	caps := gl.NewCapabilities(core.CapabilityConfig{DisableBufferObjects: true})
	ctx, fake := newContext(0, caps)
	g := NewIndexedTriangleFanArray()
	require.NoError(t, g.SetVertices(3, floats(15, 0), 5))
	require.NoError(t, g.SetIndices([]int32{0, 1, 2, 3, 0, 3, 4}, 7))
	require.NoError(t, g.SetFanCount([]int{4, 3}, 2))

	g.Render(ctx)
	elems := fake.CallsNamed("DrawElements")
	require.Len(t, elems, 2)
	assert.Equal(t, []interface{}{gl.TRIANGLE_FAN, int32(4), gl.UNSIGNED_INT, true, 0}, elems[0].Args)
	assert.Equal(t, []interface{}{gl.TRIANGLE_FAN, int32(3), gl.UNSIGNED_INT, true, 16}, elems[1].Args)
}

func TestPicking(t *testing.T) {
	g := NewTriangleArray()
	require.NoError(t, g.SetVertices(3, []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0}, 3))
	down := math.NewVec3(0, 0, -1)

	p, hit, err := g.PickLineRay(math.NewVec3(0, 0, 5), down, false)
	require.NoError(t, err)
	require.True(t, hit)
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 0, p.Z, 1e-6)

	_, hit, err = g.PickLineRay(math.NewVec3(5, 5, 5), down, true)
	require.NoError(t, err)
	assert.False(t, hit)

	// The segment stops short of the plane.
	_, hit, err = g.PickLineSegment(math.NewVec3(0, 0, 5), math.NewVec3(0, 0, 2), false)
	require.NoError(t, err)
	assert.False(t, hit)
	_, hit, err = g.PickLineSegment(math.NewVec3(0, 0, 5), math.NewVec3(0, 0, -2), false)
	require.NoError(t, err)
	assert.True(t, hit)

	g.SetPickable(false)
	_, _, err = g.PickLineRay(math.NewVec3(0, 0, 5), down, false)
	assert.ErrorIs(t, err, core.ErrNotPickable)

	points := NewPointArray()
	require.NoError(t, points.SetVertices(3, []float32{0, 0, 0}, 1))
	_, hit, err = points.PickLineRay(math.NewVec3(0, 0, 5), down, false)
	require.NoError(t, err)
	assert.False(t, hit)
}
