package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

func region(x, y, w, h int) UpdateRegion {
	return UpdateRegion{X: x, Y: y, Width: w, Height: h}
}

func TestRegionContains(t *testing.T) {
	outer := region(0, 0, 4, 4)
	assert.True(t, outer.Contains(region(1, 1, 2, 2)))
	assert.True(t, outer.Contains(outer))
	assert.False(t, outer.Contains(region(3, 3, 2, 2)))
	assert.False(t, region(1, 1, 2, 2).Contains(outer))

	other := outer
	other.Level = 1
	assert.False(t, outer.Contains(other))
}

func TestQueueRetainAll(t *testing.T) {
	q := newUpdateQueue()
	for i := 0; i < 6; i++ {
		q.add(region(i, 0, 1, 1), metadata.UpdateStrategyRetainAll)
	}
	q.add(region(0, 0, 8, 8), metadata.UpdateStrategyRetainAll)
	assert.Len(t, q.pending(), 7)

	var xs []int
	assert.Equal(t, 7, q.drain(func(r UpdateRegion) { xs = append(xs, r.Width) }))
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 8}, xs)
	assert.Empty(t, q.pending())
}

func TestQueueRetainLast(t *testing.T) {
	q := newUpdateQueue()
	q.add(region(0, 0, 4, 4), metadata.UpdateStrategyRetainLast)
	q.add(region(9, 9, 1, 1), metadata.UpdateStrategyRetainLast)
	assert.Equal(t, []UpdateRegion{region(9, 9, 1, 1)}, q.pending())
	q.add(region(2, 2, 1, 1), metadata.UpdateStrategyRetainLast)
	assert.Equal(t, []UpdateRegion{region(2, 2, 1, 1)}, q.pending())
}

func TestQueueDiscardOverwritten(t *testing.T) {
	q := newUpdateQueue()
	a := region(1, 1, 2, 2)
	c := region(6, 6, 2, 2)
	q.add(a, metadata.UpdateStrategyDiscardOverwritten)
	q.add(c, metadata.UpdateStrategyDiscardOverwritten)

	// Partial overlap keeps both.
	partial := region(2, 2, 4, 4)
	q.add(partial, metadata.UpdateStrategyDiscardOverwritten)
	assert.Equal(t, []UpdateRegion{a, c, partial}, q.pending())

	b := region(0, 0, 4, 4)
	q.add(b, metadata.UpdateStrategyDiscardOverwritten)
	assert.Equal(t, []UpdateRegion{c, partial, b}, q.pending())
}

func TestQueueRestrategize(t *testing.T) {
	q := newUpdateQueue()
	q.add(region(1, 1, 1, 1), metadata.UpdateStrategyRetainAll)
	q.add(region(0, 0, 4, 4), metadata.UpdateStrategyRetainAll)
	q.add(region(5, 5, 1, 1), metadata.UpdateStrategyRetainAll)

	q.restrategize(metadata.UpdateStrategyDiscardOverwritten)
	assert.Equal(t, []UpdateRegion{region(0, 0, 4, 4), region(5, 5, 1, 1)}, q.pending())

	q.restrategize(metadata.UpdateStrategyRetainLast)
	assert.Equal(t, []UpdateRegion{region(5, 5, 1, 1)}, q.pending())
}

func TestSubImageUpdatesReachRenderedContexts(t *testing.T) {
	tex, src := texture2D(t, metadata.TextureFormatAlpha)
	ctx, fake := newContext(0, nil)

	// Before the first render a write is covered by the full upload.
	require.NoError(t, src.UpdateSubImage(0, 0, 2, 2, 0, make([]byte, 4)))
	tex.Render(ctx)
	assert.Zero(t, fake.Count("TexSubImage2D"))

	require.NoError(t, src.UpdateSubImage(1, 1, 2, 2, 0, make([]byte, 4)))
	require.NoError(t, src.UpdateSubImage(0, 0, 4, 4, 0, make([]byte, 16)))
	assert.Len(t, tex.PendingUpdates(0, 0), 2)

	tex.Render(ctx)
	subs := fake.CallsNamed("TexSubImage2D")
	require.Len(t, subs, 2)
	assert.Equal(t, []interface{}{gl.TEXTURE_2D, int32(0), int32(1), int32(1), int32(2), int32(2), gl.ALPHA, gl.UNSIGNED_BYTE, 4}, subs[0].Args)
	assert.Equal(t, 1, fake.Count("TexImage2D"))
	assert.Empty(t, tex.PendingUpdates(0, 0))
	_, _, writes := ctx.Stats.Uploads()
	assert.Equal(t, int64(2), writes)

	// Nothing left to apply.
	tex.Render(ctx)
	assert.Len(t, fake.CallsNamed("TexSubImage2D"), 2)
}

func TestSubImageUpdatesFollowStrategy(t *testing.T) {
	tex, src := texture2D(t, metadata.TextureFormatAlpha)
	ctx, fake := newContext(0, nil)
	tex.Render(ctx)

	require.NoError(t, tex.SetUpdateStrategy(metadata.UpdateStrategyDiscardOverwritten))
	require.NoError(t, src.UpdateSubImage(1, 1, 1, 1, 0, []byte{1}))
	require.NoError(t, src.UpdateSubImage(6, 6, 1, 1, 0, []byte{2}))
	require.NoError(t, src.UpdateSubImage(0, 0, 4, 4, 0, make([]byte, 16)))
	pending := tex.PendingUpdates(0, 0)
	require.Len(t, pending, 2)
	assert.Equal(t, 6, pending[0].X)

	require.NoError(t, tex.SetUpdateStrategy(metadata.UpdateStrategyRetainLast))
	pending = tex.PendingUpdates(0, 0)
	require.Len(t, pending, 1)
	assert.Equal(t, 4, pending[0].Width)

	tex.Render(ctx)
	assert.Equal(t, 1, fake.Count("TexSubImage2D"))
}

func TestSubImageUpdatesPerContext(t *testing.T) {
	caps := gl.NewCapabilities(core.CapabilityConfig{})
	tex, src := texture2D(t, metadata.TextureFormatAlpha)
	a, fa := newContext(0, caps)
	b, fb := newContext(1, caps)
	tex.Render(a)
	tex.Render(b)

	require.NoError(t, src.UpdateSubImage(0, 0, 1, 1, 0, []byte{7}))
	tex.Render(a)
	assert.Equal(t, 1, fa.Count("TexSubImage2D"))
	// B has not drained its copy.
	assert.Len(t, tex.PendingUpdates(1, 0), 1)
	tex.Render(b)
	assert.Equal(t, 1, fb.Count("TexSubImage2D"))
}

func TestReplacedSourceReuploads(t *testing.T) {
	tex, src := texture2D(t, metadata.TextureFormatAlpha)
	ctx, fake := newContext(0, nil)
	tex.Render(ctx)
	require.NoError(t, src.UpdateSubImage(0, 0, 1, 1, 0, []byte{7}))

	require.NoError(t, src.Replace(16, 16, metadata.TextureFormatAlpha, make([]byte, 256)))
	assert.Equal(t, 16, tex.Width())
	assert.Empty(t, tex.PendingUpdates(0, 0))

	tex.Render(ctx)
	assert.Equal(t, 2, fake.Count("TexImage2D"))
	assert.Zero(t, fake.Count("TexSubImage2D"))

	// A source dropped from the texture stops reporting to it.
	require.NoError(t, tex.SetSource(metadata.MipModeBaseLevel, metadata.TextureFormatAlpha, image(t, 2, 2, metadata.TextureFormatAlpha, 1)))
	tex.Render(ctx)
	require.NoError(t, src.UpdateSubImage(0, 0, 1, 1, 0, []byte{7}))
	assert.Empty(t, tex.PendingUpdates(0, 0))
}
