package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief A ray or, when Segment is set, a bounded line segment used for
 * picking. For a segment Direction spans the whole segment, so its length
 * is the segment length.
 */
type Ray struct {
	/** @brief The start point. */
	Origin Vec3
	/** @brief The direction, or the vector from start to end of a segment. */
	Direction Vec3
	/** @brief Whether hits past Origin+Direction are rejected. */
	Segment bool
}
