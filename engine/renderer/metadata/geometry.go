package metadata

import "github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"

/**
 * @brief Bit set describing which channels a vertex geometry carries.
 */
type VertexFormat uint32

const (
	/** @brief Coordinates are set. */
	VertexFormatCoordinates VertexFormat = 1 << iota
	/** @brief Per-vertex normals are set. */
	VertexFormatNormals
	/** @brief At least one texture coordinate set is present. */
	VertexFormatTextured
	/** @brief Colours have three components. */
	VertexFormatColor3
	/** @brief Colours have four components. */
	VertexFormatColor4
	/** @brief A single colour applies to every vertex. */
	VertexFormatColorSingle
	/** @brief Per-vertex fog coordinates are set. */
	VertexFormatFog
	/** @brief Per-vertex secondary colours are set. */
	VertexFormatSecondaryColor
	/** @brief At least one generic shader attribute is set. */
	VertexFormatAttributes

	VertexFormatColorMask = VertexFormatColor3 | VertexFormatColor4 | VertexFormatColorSingle
)

func (f VertexFormat) Has(bits VertexFormat) bool {
	return f&bits == bits
}

/** @brief Components per texture coordinate set. */
type TextureCoordinateType int

const (
	TextureCoordinateSingle TextureCoordinateType = 1
	TextureCoordinate2d     TextureCoordinateType = 2
	TextureCoordinate3d     TextureCoordinateType = 3
	TextureCoordinate4d     TextureCoordinateType = 4
)

/** @brief Element type of a generic shader attribute. */
type AttributeType int

const (
	AttributeTypeFloat AttributeType = iota
	AttributeTypeDouble
	AttributeTypeInt
	AttributeTypeShort
	AttributeTypeByte
)

/** @brief Bytes per element. */
func (a AttributeType) Size() int {
	switch a {
	case AttributeTypeDouble:
		return 8
	case AttributeTypeShort:
		return 2
	case AttributeTypeByte:
		return 1
	}
	return 4
}

/** @brief The GL element type, honouring signedness for integer types. */
func (a AttributeType) GL(signed bool) gl.Enum {
	switch a {
	case AttributeTypeDouble:
		return gl.DOUBLE
	case AttributeTypeInt:
		if signed {
			return gl.INT
		}
		return gl.UNSIGNED_INT
	case AttributeTypeShort:
		if signed {
			return gl.SHORT
		}
		return gl.UNSIGNED_SHORT
	case AttributeTypeByte:
		if signed {
			return gl.BYTE
		}
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

func (a AttributeType) String() string {
	switch a {
	case AttributeTypeDouble:
		return "double"
	case AttributeTypeInt:
		return "int"
	case AttributeTypeShort:
		return "short"
	case AttributeTypeByte:
		return "byte"
	}
	return "float"
}
