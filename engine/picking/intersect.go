// Package picking tests rays and line segments against the packed
// coordinate arrays used by vertex geometry.
//
// Polygons are triangles or quads. Coordinates may have 2 or 3 components
// per vertex; 2D coordinates lie in the z=0 plane. Every scan returns the
// hit closest to the ray origin unless findAny is set, in which case the
// first hit found ends the scan.
package picking

import (
	"github.com/j3d/aviatrix3d-sub002/engine/math"
)

// RayPolygon intersects r with a planar convex or concave polygon of three
// or more vertices and returns the hit point.
func RayPolygon(r math.Ray, poly []math.Vec3) (math.Vec3, bool) {
	if len(poly) < 3 {
		return math.Vec3{}, false
	}

	normal := math.FaceNormal(poly[0], poly[1], poly[2])
	if normal.LengthSquared() == 0 {
		return math.Vec3{}, false
	}

	nDotD := normal.Dot(r.Direction)
	if nDotD == 0 {
		return math.Vec3{}, false
	}

	t := (normal.Dot(poly[0]) - normal.Dot(r.Origin)) / nDotD
	if t < 0 {
		return math.Vec3{}, false
	}

	hit := r.Origin.Add(r.Direction.MulScalar(t))
	if r.Segment && hit.DistanceSquared(r.Origin) > r.Direction.LengthSquared() {
		return math.Vec3{}, false
	}

	// Flatten onto the plane that loses the least area and move the hit
	// point to the origin, then count edge crossings of the +u axis.
	axis := normal.DominantAxis()
	centre := hit.DropAxis(axis)
	crossings := 0
	prev := poly[len(poly)-1].DropAxis(axis).Sub(centre)
	for _, p := range poly {
		cur := p.DropAxis(axis).Sub(centre)
		if (prev.Y > 0) != (cur.Y > 0) {
			// u of the edge where it crosses v = 0.
			u := prev.X + (0-prev.Y)*(cur.X-prev.X)/(cur.Y-prev.Y)
			if u > 0 {
				crossings++
			}
		}
		prev = cur
	}

	if crossings%2 == 0 {
		return math.Vec3{}, false
	}
	return hit, true
}

// RayTriangle is RayPolygon for a single triangle.
func RayTriangle(r math.Ray, a, b, c math.Vec3) (math.Vec3, bool) {
	poly := [3]math.Vec3{a, b, c}
	return RayPolygon(r, poly[:])
}

// RayQuad is RayPolygon for a single quad.
func RayQuad(r math.Ray, a, b, c, d math.Vec3) (math.Vec3, bool) {
	poly := [4]math.Vec3{a, b, c, d}
	return RayPolygon(r, poly[:])
}

// polygonSource fills dst with the vertices of polygon i and returns it, or
// returns nil to skip the polygon.
type polygonSource func(i int, dst []math.Vec3) []math.Vec3

func scan(r math.Ray, count int, findAny bool, next polygonSource) (math.Vec3, bool) {
	var (
		buf     [4]math.Vec3
		best    math.Vec3
		bestD   = math.K_INFINITY
		haveHit bool
	)
	for i := 0; i < count; i++ {
		poly := next(i, buf[:0])
		if poly == nil {
			continue
		}
		hit, ok := RayPolygon(r, poly)
		if !ok {
			continue
		}
		if findAny {
			return hit, true
		}
		if d := hit.DistanceSquared(r.Origin); !haveHit || d < bestD {
			best, bestD, haveHit = hit, d, true
		}
	}
	return best, haveHit
}

func vertex(coords []float32, dim, i int) math.Vec3 {
	return math.NewVec3FromCoords(coords, dim, i)
}

// RayTriangleArray scans numTris independent triangles.
func RayTriangleArray(r math.Ray, coords []float32, dim, numTris int, findAny bool) (math.Vec3, bool) {
	return scan(r, numTris, findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		base := i * 3
		return append(dst, vertex(coords, dim, base), vertex(coords, dim, base+1), vertex(coords, dim, base+2))
	})
}

// RayQuadArray scans numQuads independent quads.
func RayQuadArray(r math.Ray, coords []float32, dim, numQuads int, findAny bool) (math.Vec3, bool) {
	return scan(r, numQuads, findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		base := i * 4
		return append(dst,
			vertex(coords, dim, base), vertex(coords, dim, base+1),
			vertex(coords, dim, base+2), vertex(coords, dim, base+3))
	})
}

// stripTriangles lists the first vertex index of every triangle in a set
// of strips or fans laid end to end.
func stripTriangles(counts []int) (starts []int, firsts []int) {
	offset := 0
	for _, n := range counts {
		for j := 0; j+2 < n; j++ {
			starts = append(starts, offset+j)
			firsts = append(firsts, offset)
		}
		offset += n
	}
	return starts, firsts
}

// RayTriangleStripArray scans triangle strips whose vertex counts are
// given by stripCounts.
func RayTriangleStripArray(r math.Ray, coords []float32, dim int, stripCounts []int, findAny bool) (math.Vec3, bool) {
	starts, _ := stripTriangles(stripCounts)
	return scan(r, len(starts), findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		s := starts[i]
		return append(dst, vertex(coords, dim, s), vertex(coords, dim, s+1), vertex(coords, dim, s+2))
	})
}

// RayTriangleFanArray scans triangle fans whose vertex counts are given by
// fanCounts.
func RayTriangleFanArray(r math.Ray, coords []float32, dim int, fanCounts []int, findAny bool) (math.Vec3, bool) {
	starts, firsts := stripTriangles(fanCounts)
	return scan(r, len(starts), findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		s := starts[i]
		return append(dst, vertex(coords, dim, firsts[i]), vertex(coords, dim, s+1), vertex(coords, dim, s+2))
	})
}

// RayIndexedTriangleArray scans the triangles formed by the first
// numIndices entries of indices.
func RayIndexedTriangleArray(r math.Ray, coords []float32, dim int, indices []int32, numIndices int, findAny bool) (math.Vec3, bool) {
	return scan(r, numIndices/3, findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		base := i * 3
		return append(dst,
			vertex(coords, dim, int(indices[base])),
			vertex(coords, dim, int(indices[base+1])),
			vertex(coords, dim, int(indices[base+2])))
	})
}

// RayIndexedQuadArray scans the quads formed by the first numIndices
// entries of indices.
func RayIndexedQuadArray(r math.Ray, coords []float32, dim int, indices []int32, numIndices int, findAny bool) (math.Vec3, bool) {
	return scan(r, numIndices/4, findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		base := i * 4
		return append(dst,
			vertex(coords, dim, int(indices[base])),
			vertex(coords, dim, int(indices[base+1])),
			vertex(coords, dim, int(indices[base+2])),
			vertex(coords, dim, int(indices[base+3])))
	})
}

// RayIndexedTriangleStripArray scans strips laid end to end in indices.
func RayIndexedTriangleStripArray(r math.Ray, coords []float32, dim int, indices []int32, stripCounts []int, findAny bool) (math.Vec3, bool) {
	starts, _ := stripTriangles(stripCounts)
	return scan(r, len(starts), findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		s := starts[i]
		return append(dst,
			vertex(coords, dim, int(indices[s])),
			vertex(coords, dim, int(indices[s+1])),
			vertex(coords, dim, int(indices[s+2])))
	})
}

// RayIndexedTriangleFanArray scans fans laid end to end in indices.
func RayIndexedTriangleFanArray(r math.Ray, coords []float32, dim int, indices []int32, fanCounts []int, findAny bool) (math.Vec3, bool) {
	starts, firsts := stripTriangles(fanCounts)
	return scan(r, len(starts), findAny, func(i int, dst []math.Vec3) []math.Vec3 {
		s := starts[i]
		return append(dst,
			vertex(coords, dim, int(indices[firsts[i]])),
			vertex(coords, dim, int(indices[s+1])),
			vertex(coords, dim, int(indices[s+2])))
	})
}
