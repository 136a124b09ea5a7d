// Package geometry holds vertex based geometry: the CPU side arrays, the
// packed buffer they are uploaded from, and the primitive types that draw
// and pick against them.
//
// Every primitive type owns a *VertexGeometry (or *IndexedVertexGeometry)
// that carries the shared state; the primitive only decides how to draw
// and how to intersect.
package geometry

import (
	"github.com/j3d/aviatrix3d-sub002/engine/math"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

// Geometry is what the renderer and the state sorter see.
type Geometry interface {
	// Render uploads anything stale for ctx and draws.
	Render(ctx *gl.Context)
	// PostRender undoes any state Render left behind.
	PostRender(ctx *gl.Context)
	// Cleanup frees every GL object held for ctx.
	Cleanup(ctx *gl.Context)
	// BufferSize is the packed vertex buffer size in bytes when at most
	// maxTextureUnits texture units are used. Zero or less means no cap.
	BufferSize(maxTextureUnits int) int
	Bounds() math.Extents3D

	PickLineRay(origin, direction math.Vec3, findAny bool) (math.Vec3, bool, error)
	PickLineSegment(start, end math.Vec3, findAny bool) (math.Vec3, bool, error)

	Compare(other Geometry) int
	Equal(other Geometry) bool
}

type kind int

const (
	kindPoints kind = iota
	kindLines
	kindTriangles
	kindQuads
	kindTriangleStrips
	kindTriangleFans
	kindIndexedLines
	kindIndexedTriangles
	kindIndexedQuads
	kindIndexedTriangleStrips
	kindIndexedTriangleFans
)

// sortable is implemented by every primitive in this package.
// sortKey must be called with the geometry's read lock held.
type sortable interface {
	base() *VertexGeometry
	sortKey() sortKey
}

type sortKey struct {
	kind    kind
	core    *VertexGeometry
	indices []int32
	counts  []int
}

var (
	_ Geometry = (*PointArray)(nil)
	_ Geometry = (*LineArray)(nil)
	_ Geometry = (*TriangleArray)(nil)
	_ Geometry = (*QuadArray)(nil)
	_ Geometry = (*TriangleStripArray)(nil)
	_ Geometry = (*TriangleFanArray)(nil)
	_ Geometry = (*IndexedLineArray)(nil)
	_ Geometry = (*IndexedTriangleArray)(nil)
	_ Geometry = (*IndexedQuadArray)(nil)
	_ Geometry = (*IndexedTriangleStripArray)(nil)
	_ Geometry = (*IndexedTriangleFanArray)(nil)
)
