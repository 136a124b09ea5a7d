package geometry

import (
	"fmt"
	"slices"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/math"
	"github.com/j3d/aviatrix3d-sub002/engine/picking"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

// PointArray draws every vertex as a point. Points have no area, so picks
// never hit.
type PointArray struct {
	*VertexGeometry
}

func NewPointArray() *PointArray {
	a := &PointArray{}
	a.VertexGeometry = newVertexGeometry(a, nil)
	return a
}

func (a *PointArray) Render(ctx *gl.Context) {
	a.drawArrays(ctx, gl.POINTS, a.ValidVertexCount(), nil)
}

func (a *PointArray) sortKey() sortKey {
	return sortKey{kind: kindPoints, core: a.VertexGeometry}
}

// LineArray draws vertex pairs as independent lines. Picks never hit.
type LineArray struct {
	*VertexGeometry
}

func NewLineArray() *LineArray {
	a := &LineArray{}
	a.VertexGeometry = newVertexGeometry(a, nil)
	return a
}

func (a *LineArray) Render(ctx *gl.Context) {
	n := a.ValidVertexCount()
	a.drawArrays(ctx, gl.LINES, n-n%2, nil)
}

func (a *LineArray) sortKey() sortKey {
	return sortKey{kind: kindLines, core: a.VertexGeometry}
}

// TriangleArray draws every three vertices as a triangle.
type TriangleArray struct {
	*VertexGeometry
}

func NewTriangleArray() *TriangleArray {
	a := &TriangleArray{}
	a.VertexGeometry = newVertexGeometry(a, a.intersect)
	return a
}

func (a *TriangleArray) Render(ctx *gl.Context) {
	n := a.ValidVertexCount()
	a.drawArrays(ctx, gl.TRIANGLES, n-n%3, nil)
}

func (a *TriangleArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	g := a.VertexGeometry
	return picking.RayTriangleArray(r, g.coords, g.vertexDim, g.numCoords/3, findAny)
}

func (a *TriangleArray) sortKey() sortKey {
	return sortKey{kind: kindTriangles, core: a.VertexGeometry}
}

// QuadArray draws every four vertices as a quad.
type QuadArray struct {
	*VertexGeometry
}

func NewQuadArray() *QuadArray {
	a := &QuadArray{}
	a.VertexGeometry = newVertexGeometry(a, a.intersect)
	return a
}

func (a *QuadArray) Render(ctx *gl.Context) {
	n := a.ValidVertexCount()
	a.drawArrays(ctx, gl.QUADS, n-n%4, nil)
}

func (a *QuadArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	g := a.VertexGeometry
	return picking.RayQuadArray(r, g.coords, g.vertexDim, g.numCoords/4, findAny)
}

func (a *QuadArray) sortKey() sortKey {
	return sortKey{kind: kindQuads, core: a.VertexGeometry}
}

// stripCounts is the run length bookkeeping shared by strip and fan
// primitives. Guarded by the owning geometry's lock.
type stripCounts struct {
	counts []int
}

func (s *stripCounts) set(g *VertexGeometry, counts []int, num int) error {
	if num < 0 || num > len(counts) {
		return fmt.Errorf("%w: %d strip counts requested, %d given", core.ErrInvalidArgument, num, len(counts))
	}
	for i := 0; i < num; i++ {
		if counts[i] < 0 {
			return fmt.Errorf("%w: strip %d has %d vertices", core.ErrInvalidArgument, i, counts[i])
		}
	}
	if err := g.CheckBoundsWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	s.counts = slices.Clone(counts[:num])
	g.mu.Unlock()
	return nil
}

func (s *stripCounts) get(g *VertexGeometry) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(s.counts)
}

// TriangleStripArray draws runs of vertices as triangle strips.
type TriangleStripArray struct {
	*VertexGeometry
	strips stripCounts
}

func NewTriangleStripArray() *TriangleStripArray {
	a := &TriangleStripArray{}
	a.VertexGeometry = newVertexGeometry(a, a.intersect)
	return a
}

// SetStripCount sets the vertex count of each of the first num strips.
// Strips are laid end to end in the coordinate array.
func (a *TriangleStripArray) SetStripCount(counts []int, num int) error {
	return a.strips.set(a.VertexGeometry, counts, num)
}

func (a *TriangleStripArray) StripCount() []int {
	return a.strips.get(a.VertexGeometry)
}

func (a *TriangleStripArray) Render(ctx *gl.Context) {
	a.drawArrays(ctx, gl.TRIANGLE_STRIP, 0, a.StripCount())
}

func (a *TriangleStripArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	g := a.VertexGeometry
	return picking.RayTriangleStripArray(r, g.coords, g.vertexDim, validRuns(a.strips.counts, g.numCoords), findAny)
}

func (a *TriangleStripArray) sortKey() sortKey {
	return sortKey{kind: kindTriangleStrips, core: a.VertexGeometry, counts: a.strips.counts}
}

// TriangleFanArray draws runs of vertices as triangle fans.
type TriangleFanArray struct {
	*VertexGeometry
	fans stripCounts
}

func NewTriangleFanArray() *TriangleFanArray {
	a := &TriangleFanArray{}
	a.VertexGeometry = newVertexGeometry(a, a.intersect)
	return a
}

// SetFanCount sets the vertex count of each of the first num fans.
func (a *TriangleFanArray) SetFanCount(counts []int, num int) error {
	return a.fans.set(a.VertexGeometry, counts, num)
}

func (a *TriangleFanArray) FanCount() []int {
	return a.fans.get(a.VertexGeometry)
}

func (a *TriangleFanArray) Render(ctx *gl.Context) {
	a.drawArrays(ctx, gl.TRIANGLE_FAN, 0, a.FanCount())
}

func (a *TriangleFanArray) intersect(r math.Ray, findAny bool) (math.Vec3, bool) {
	g := a.VertexGeometry
	return picking.RayTriangleFanArray(r, g.coords, g.vertexDim, validRuns(a.fans.counts, g.numCoords), findAny)
}

func (a *TriangleFanArray) sortKey() sortKey {
	return sortKey{kind: kindTriangleFans, core: a.VertexGeometry, counts: a.fans.counts}
}

// validRuns trims runs that extend past limit vertices.
func validRuns(counts []int, limit int) []int {
	total := 0
	for i, c := range counts {
		if total+c > limit {
			return counts[:i]
		}
		total += c
	}
	return counts
}
