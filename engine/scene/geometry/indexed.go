package geometry

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sync"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/math"
	"github.com/j3d/aviatrix3d-sub002/engine/picking"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/cache"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

const indexSize = 4

// IndexedVertexGeometry adds an index list to VertexGeometry. Only the
// vertices up to the highest index are required in every channel and
// uploaded.
type IndexedVertexGeometry struct {
	*VertexGeometry

	// Guarded by VertexGeometry.mu.
	indices    []int32
	numIndices int

	elements *cache.Resource[bufferState]

	idxMu    sync.Mutex
	idxBytes []byte
	idxValid bool
}

func newIndexedVertexGeometry(owner interface{}, intersect intersectFunc) *IndexedVertexGeometry {
	g := newVertexGeometry(owner, intersect)
	g.indexed = true
	return &IndexedVertexGeometry{
		VertexGeometry: g,
		elements:       cache.NewBuffers[bufferState](),
	}
}

// SetIndices replaces the index list with the first numValid entries of
// indices. Every index must refer to a valid vertex.
func (g *IndexedVertexGeometry) SetIndices(indices []int32, numValid int) error {
	if numValid < 0 || numValid > len(indices) {
		return fmt.Errorf("%w: %d indices requested, %d given", core.ErrInvalidArgument, numValid, len(indices))
	}
	if err := g.CheckBoundsWrite(g.owner); err != nil {
		return err
	}

	vg := g.VertexGeometry
	vg.mu.Lock()
	maxIndex := int32(-1)
	for i, idx := range indices[:numValid] {
		if idx < 0 || int(idx) >= vg.numCoords {
			vg.mu.Unlock()
			return fmt.Errorf("%w: index %d at %d outside [0,%d)", core.ErrInvalidArgument, idx, i, vg.numCoords)
		}
		maxIndex = max(maxIndex, idx)
	}
	g.indices = slices.Clone(indices[:numValid])
	g.numIndices = numValid
	vg.indexSpan = int(maxIndex) + 1
	vg.mu.Unlock()

	g.idxMu.Lock()
	g.idxValid = false
	g.idxMu.Unlock()
	g.elements.MarkDirty(cache.DirtyData)
	// The required vertex count may have moved.
	vg.changed()
	return nil
}

func (g *IndexedVertexGeometry) Indices() []int32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.indices)
}

func (g *IndexedVertexGeometry) NumIndices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.numIndices
}

// IndexBufferSize is the byte size of the packed index buffer.
func (g *IndexedVertexGeometry) IndexBufferSize() int {
	return g.NumIndices() * indexSize
}

func (g *IndexedVertexGeometry) packedIndices() []byte {
	g.idxMu.Lock()
	defer g.idxMu.Unlock()
	if g.idxValid {
		return g.idxBytes
	}

	g.mu.RLock()
	buf := make([]byte, len(g.indices)*indexSize)
	for i, idx := range g.indices {
		binary.NativeEndian.PutUint32(buf[i*indexSize:], uint32(idx))
	}
	g.mu.RUnlock()

	g.idxBytes = buf
	g.idxValid = true
	return buf
}

// bindIndices returns what to pass as the DrawElements index pointer: nil
// when an element buffer is bound, the packed indices otherwise.
func (g *IndexedVertexGeometry) bindIndices(ctx *gl.Context, data []byte, useVBO bool) ([]byte, bool) {
	if !useVBO || !ctx.Caps.BufferObjects() {
		return data, false
	}
	e, _, err := g.elements.Acquire(ctx)
	if err != nil {
		ctx.Caps.DisableBufferObjects(err.Error())
		return data, false
	}
	e.Lock()
	defer e.Unlock()

	ctx.GL.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, e.Handle)
	if e.Take(cache.DirtyData) != 0 {
		if e.State.size != len(data) {
			ctx.GL.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data), data, gl.STATIC_DRAW)
			e.State.size = len(data)
		} else {
			ctx.GL.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, data)
		}
		ctx.CountBufferUpload()
	}
	return nil, true
}

// drawElements draws all indices, or the given runs of them when counts is
// not nil.
func (g *IndexedVertexGeometry) drawElements(ctx *gl.Context, mode gl.Enum, group int, counts []int) {
	n := g.NumIndices()
	if n == 0 {
		return
	}
	b, ok := g.beginArrays(ctx)
	if !ok {
		return
	}
	indices, vbo := g.bindIndices(ctx, g.packedIndices(), b.vbo)

	f := ctx.GL
	if counts == nil {
		if n -= n % group; n > 0 {
			f.DrawElements(mode, int32(n), gl.UNSIGNED_INT, indices, 0)
		}
	} else {
		first := 0
		for _, c := range counts {
			if first+c > n {
				break
			}
			f.DrawElements(mode, int32(c), gl.UNSIGNED_INT, indices, first*indexSize)
			first += c
		}
	}

	if vbo {
		f.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	}
	g.endArrays(ctx, b)
}

// Cleanup deletes the vertex and element buffers held for ctx.
func (g *IndexedVertexGeometry) Cleanup(ctx *gl.Context) {
	g.VertexGeometry.Cleanup(ctx)
	g.elements.Release(ctx)
}

// IndexedLineArray draws index pairs as lines. Picks never hit.
type IndexedLineArray struct {
	*IndexedVertexGeometry
}

func NewIndexedLineArray() *IndexedLineArray {
	a := &IndexedLineArray{}
	a.IndexedVertexGeometry = newIndexedVertexGeometry(a, nil)
	return a
}

func (a *IndexedLineArray) Render(ctx *gl.Context) {
	a.drawElements(ctx, gl.LINES, 2, nil)
}

func (a *IndexedLineArray) sortKey() sortKey {
	return sortKey{kind: kindIndexedLines, core: a.VertexGeometry, indices: a.indices}
}

// IndexedTriangleArray draws index triples as triangles.
type IndexedTriangleArray struct {
	*IndexedVertexGeometry
}

func NewIndexedTriangleArray() *IndexedTriangleArray {
	a := &IndexedTriangleArray{}
	a.IndexedVertexGeometry = newIndexedVertexGeometry(a, a.intersect)
	return a
}

func (a *IndexedTriangleArray) Render(ctx *gl.Context) {
	a.drawElements(ctx, gl.TRIANGLES, 3, nil)
}

func (a *IndexedTriangleArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	return picking.RayIndexedTriangleArray(r, a.coords, a.vertexDim, a.indices, a.numIndices, findAny)
}

func (a *IndexedTriangleArray) sortKey() sortKey {
	return sortKey{kind: kindIndexedTriangles, core: a.VertexGeometry, indices: a.indices}
}

// IndexedQuadArray draws index quadruples as quads.
type IndexedQuadArray struct {
	*IndexedVertexGeometry
}

func NewIndexedQuadArray() *IndexedQuadArray {
	a := &IndexedQuadArray{}
	a.IndexedVertexGeometry = newIndexedVertexGeometry(a, a.intersect)
	return a
}

func (a *IndexedQuadArray) Render(ctx *gl.Context) {
	a.drawElements(ctx, gl.QUADS, 4, nil)
}

func (a *IndexedQuadArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	return picking.RayIndexedQuadArray(r, a.coords, a.vertexDim, a.indices, a.numIndices, findAny)
}

func (a *IndexedQuadArray) sortKey() sortKey {
	return sortKey{kind: kindIndexedQuads, core: a.VertexGeometry, indices: a.indices}
}

// IndexedTriangleStripArray draws runs of indices as triangle strips.
type IndexedTriangleStripArray struct {
	*IndexedVertexGeometry
	strips stripCounts
}

func NewIndexedTriangleStripArray() *IndexedTriangleStripArray {
	a := &IndexedTriangleStripArray{}
	a.IndexedVertexGeometry = newIndexedVertexGeometry(a, a.intersect)
	return a
}

// SetStripCount sets the index count of each of the first num strips.
func (a *IndexedTriangleStripArray) SetStripCount(counts []int, num int) error {
	return a.strips.set(a.VertexGeometry, counts, num)
}

func (a *IndexedTriangleStripArray) StripCount() []int {
	return a.strips.get(a.VertexGeometry)
}

func (a *IndexedTriangleStripArray) Render(ctx *gl.Context) {
	counts := a.StripCount()
	if counts == nil {
		return
	}
	a.drawElements(ctx, gl.TRIANGLE_STRIP, 1, counts)
}

func (a *IndexedTriangleStripArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	runs := validRuns(a.strips.counts, a.numIndices)
	return picking.RayIndexedTriangleStripArray(r, a.coords, a.vertexDim, a.indices, runs, findAny)
}

func (a *IndexedTriangleStripArray) sortKey() sortKey {
	return sortKey{kind: kindIndexedTriangleStrips, core: a.VertexGeometry, indices: a.indices, counts: a.strips.counts}
}

// IndexedTriangleFanArray draws runs of indices as triangle fans.
type IndexedTriangleFanArray struct {
	*IndexedVertexGeometry
	fans stripCounts
}

func NewIndexedTriangleFanArray() *IndexedTriangleFanArray {
	a := &IndexedTriangleFanArray{}
	a.IndexedVertexGeometry = newIndexedVertexGeometry(a, a.intersect)
	return a
}

// SetFanCount sets the index count of each of the first num fans.
func (a *IndexedTriangleFanArray) SetFanCount(counts []int, num int) error {
	return a.fans.set(a.VertexGeometry, counts, num)
}

func (a *IndexedTriangleFanArray) FanCount() []int {
	return a.fans.get(a.VertexGeometry)
}

func (a *IndexedTriangleFanArray) Render(ctx *gl.Context) {
	counts := a.FanCount()
	if counts == nil {
		return
	}
	a.drawElements(ctx, gl.TRIANGLE_FAN, 1, counts)
}

func (a *IndexedTriangleFanArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	runs := validRuns(a.fans.counts, a.numIndices)
	return picking.RayIndexedTriangleFanArray(r, a.coords, a.vertexDim, a.indices, runs, findAny)
}

func (a *IndexedTriangleFanArray) sortKey() sortKey {
	return sortKey{kind: kindIndexedTriangleFans, core: a.VertexGeometry, indices: a.indices, counts: a.fans.counts}
}
