package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl/glfake"
)

func newContext(id gl.ContextID) (*gl.Context, *glfake.GL) {
	fake := glfake.New()
	return gl.NewContext(id, fake, gl.NewCapabilities(core.CapabilityConfig{})), fake
}

func TestAcquireCreatesOncePerContext(t *testing.T) {
	r := NewTextures[struct{}]()
	ctx, fake := newContext(0)

	e, created, err := r.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DirtyAll, e.Dirty)
	assert.NotZero(t, e.Handle)

	again, created, err := r.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, e, again)
	assert.Equal(t, 1, fake.Count("GenTexture"))
}

func TestTakeClearsOnlyRequestedBits(t *testing.T) {
	e := &Entry[int]{Dirty: DirtyImage | DirtyParams}
	assert.Equal(t, DirtyParams, e.Take(DirtyParams|DirtyData))
	assert.Equal(t, DirtyImage, e.Dirty)
	assert.Equal(t, Flags(0), e.Take(DirtyParams))
}

func TestMarkDirtyReachesEveryContext(t *testing.T) {
	r := NewBuffers[int]()
	a, _ := newContext(0)
	b, _ := newContext(3)

	ea, _, err := r.Acquire(a)
	require.NoError(t, err)
	eb, _, err := r.Acquire(b)
	require.NoError(t, err)
	ea.Take(DirtyAll)
	eb.Take(DirtyAll)

	r.MarkDirty(DirtyData)
	assert.Equal(t, DirtyData, ea.Dirty)
	assert.Equal(t, DirtyData, eb.Dirty)

	ea.Take(DirtyAll)
	eb.Take(DirtyAll)
	r.MarkContextDirty(3, DirtyParams)
	assert.Equal(t, Flags(0), ea.Dirty)
	assert.Equal(t, DirtyParams, eb.Dirty)

	// Unknown context is ignored.
	r.MarkContextDirty(9, DirtyParams)
	assert.Equal(t, []gl.ContextID{0, 3}, r.Contexts())
}

func TestReleaseOnlyAffectsItsContext(t *testing.T) {
	r := NewTextures[struct{}]()
	a, fakeA := newContext(0)
	b, fakeB := newContext(1)

	ea, _, err := r.Acquire(a)
	require.NoError(t, err)
	eb, _, err := r.Acquire(b)
	require.NoError(t, err)
	handleB := eb.Handle

	r.Release(a)
	assert.Equal(t, 1, fakeA.Count("DeleteTexture"))
	assert.Zero(t, fakeB.Count("DeleteTexture"))
	assert.Zero(t, ea.Handle)
	assert.Nil(t, r.Lookup(0))

	still := r.Lookup(1)
	require.NotNil(t, still)
	assert.Equal(t, handleB, still.Handle)
	assert.True(t, fakeB.TextureLive(handleB))

	// Releasing again, or a context that never acquired, does nothing.
	r.Release(a)
	c, fakeC := newContext(7)
	r.Release(c)
	assert.Equal(t, 1, fakeA.Count("DeleteTexture"))
	assert.Zero(t, fakeC.Count("DeleteTexture"))
}

func TestAcquireFailureStoresNothing(t *testing.T) {
	r := NewBuffers[int]()
	ctx, fake := newContext(2)
	fake.FailBuffers = true

	e, created, err := r.Acquire(ctx)
	assert.Nil(t, e)
	assert.False(t, created)
	assert.True(t, errors.Is(err, ErrAllocationFailed))
	assert.Empty(t, r.Contexts())
}

func TestEachVisitsLiveEntries(t *testing.T) {
	r := NewBuffers[int]()
	a, _ := newContext(0)
	b, _ := newContext(2)
	_, _, err := r.Acquire(a)
	require.NoError(t, err)
	_, _, err = r.Acquire(b)
	require.NoError(t, err)

	var seen []gl.ContextID
	r.Each(func(e *Entry[int]) {
		e.State++
		seen = append(seen, e.Context)
	})
	assert.Equal(t, []gl.ContextID{0, 2}, seen)
	assert.Equal(t, 1, r.Lookup(2).State)
}
