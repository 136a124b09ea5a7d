package geometry

import (
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSameContent(t *testing.T) {
	a, b := triangle(), triangle()
	assert.Zero(t, a.Compare(b))
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))

	require.NoError(t, b.SetVertices(3, []float32{-1, -1, 0, 1, -1, 0, 0, 2, 0}, 3))
	c := a.Compare(b)
	assert.NotZero(t, c)
	assert.Equal(t, -c, b.Compare(a))
	assert.False(t, a.Equal(b))
}

func TestCompareKindsFirst(t *testing.T) {
	tri := triangle()
	quad := NewQuadArray()
	require.NoError(t, quad.SetVertices(3, []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0}, 3))
	assert.NotZero(t, tri.Compare(quad))
	assert.Equal(t, -tri.Compare(quad), quad.Compare(tri))

	assert.Equal(t, 1, tri.Compare(nil))
}

func TestCompareIndicesAndCounts(t *testing.T) {
	a, b := NewIndexedTriangleArray(), NewIndexedTriangleArray()
	for _, g := range []*IndexedTriangleArray{a, b} {
		require.NoError(t, g.SetVertices(3, floats(12, 0), 4))
	}
	require.NoError(t, a.SetIndices([]int32{0, 1, 2}, 3))
	require.NoError(t, b.SetIndices([]int32{0, 1, 2}, 3))
	assert.True(t, a.Equal(b))
	require.NoError(t, b.SetIndices([]int32{0, 1, 3}, 3))
	assert.Less(t, a.Compare(b), 0)

	s, u := NewTriangleStripArray(), NewTriangleStripArray()
	for _, g := range []*TriangleStripArray{s, u} {
		require.NoError(t, g.SetVertices(3, floats(18, 0), 6))
	}
	require.NoError(t, s.SetStripCount([]int{3, 3}, 2))
	require.NoError(t, u.SetStripCount([]int{6}, 1))
	assert.NotZero(t, s.Compare(u))
}

func TestCompareBothWaysWhileWriting(t *testing.T) {
	a, b := NewIndexedTriangleArray(), NewIndexedTriangleArray()
	for _, g := range []*IndexedTriangleArray{a, b} {
		require.NoError(t, g.SetVertices(3, floats(12, 0), 4))
		require.NoError(t, g.SetIndices([]int32{0, 1, 2}, 3))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(3)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					a.Compare(b)
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					b.Compare(a)
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					_ = a.SetIndices([]int32{0, 1, int32(2 + j%2)}, 3)
					_ = b.SetIndices([]int32{0, 1, int32(3 - j%2)}, 3)
				}
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("compare did not finish")
	}
	assert.Equal(t, a.Compare(b), -b.Compare(a))
}

func TestCompareAttributes(t *testing.T) {
	a, b := triangle(), triangle()
	require.NoError(t, a.SetIntAttributes(1, 1, []int32{1, 2, 3}, false, true))
	require.NoError(t, b.SetIntAttributes(1, 1, []int32{1, 2, 3}, false, true))
	assert.True(t, a.Equal(b))

	require.NoError(t, b.SetIntAttributes(1, 1, []int32{1, 2, 4}, false, true))
	assert.False(t, a.Equal(b))

	require.NoError(t, b.SetIntAttributes(1, 1, []int32{1, 2, 3}, false, false))
	assert.False(t, a.Equal(b))
}

// Compare must agree with content equality and be antisymmetric for any
// pair of geometry.
func TestCompareAgreesWithContent(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	values := []float32{0, 1}
	build := func() (*TriangleArray, []float32, []float32) {
		g := NewTriangleArray()
		coords := make([]float32, 9)
		for i := range coords {
			coords[i] = values[rng.IntN(len(values))]
		}
		require.NoError(t, g.SetVertices(3, coords, 3))
		var normals []float32
		if rng.IntN(2) == 0 {
			normals = make([]float32, 9)
			for i := range normals {
				normals[i] = values[rng.IntN(len(values))]
			}
			require.NoError(t, g.SetNormals(normals))
		}
		return g, coords, normals
	}

	for i := 0; i < 300; i++ {
		a, ac, an := build()
		b, bc, bn := build()
		same := slices.Equal(ac, bc) && slices.Equal(an, bn) && (an == nil) == (bn == nil)
		assert.Equal(t, same, a.Compare(b) == 0)
		assert.Equal(t, same, a.Equal(b))
		assert.Equal(t, a.Compare(b), -b.Compare(a))
	}
}
