package math

import "github.com/chewxy/math32"

/**
 * @brief Returns the unnormalized face normal of the triangle a, b, c. The
 * result is the zero vector for a degenerate triangle.
 */
func FaceNormal(a, b, c Vec3) Vec3 {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	return edge1.Cross(edge2)
}

/**
 * @brief Computes the axis aligned extents of the first count vertices of
 * a packed coordinate array. An empty array yields zero extents.
 */
func ExtentsOf(coords []float32, dim, count int) Extents3D {
	if count == 0 || dim < 2 {
		return Extents3D{}
	}
	ext := Extents3D{
		Min: Vec3{K_INFINITY, K_INFINITY, K_INFINITY},
		Max: Vec3{-K_INFINITY, -K_INFINITY, -K_INFINITY},
	}
	for i := 0; i < count; i++ {
		p := NewVec3FromCoords(coords, dim, i)
		ext.Min.X = math32.Min(ext.Min.X, p.X)
		ext.Min.Y = math32.Min(ext.Min.Y, p.Y)
		ext.Min.Z = math32.Min(ext.Min.Z, p.Z)
		ext.Max.X = math32.Max(ext.Max.X, p.X)
		ext.Max.Y = math32.Max(ext.Max.Y, p.Y)
		ext.Max.Z = math32.Max(ext.Max.Z, p.Z)
	}
	return ext
}

/**
 * @brief Returns the center point of the extents.
 */
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}
