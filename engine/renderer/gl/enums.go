package gl

// Enum mirrors the GLenum values the core issues. Values match the OpenGL
// headers so an implementation may pass them straight through.
type Enum = uint32

const (
	NONE          Enum = 0
	ZERO          Enum = 0
	ONE           Enum = 1
	NO_ERROR      Enum = 0
	OUT_OF_MEMORY Enum = 0x0505

	// Primitive modes.
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006
	QUADS          Enum = 0x0007

	// Data types.
	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406
	DOUBLE         Enum = 0x140A

	// Client arrays.
	VERTEX_ARRAY          Enum = 0x8074
	NORMAL_ARRAY          Enum = 0x8075
	COLOR_ARRAY           Enum = 0x8076
	TEXTURE_COORD_ARRAY   Enum = 0x8078
	FOG_COORD_ARRAY       Enum = 0x8457
	SECONDARY_COLOR_ARRAY Enum = 0x845E

	// Buffer objects.
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8

	// Texture units and targets.
	TEXTURE0                    Enum = 0x84C0
	TEXTURE_2D                  Enum = 0x0DE1
	TEXTURE_CUBE_MAP            Enum = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X Enum = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_X Enum = 0x8516
	TEXTURE_CUBE_MAP_POSITIVE_Y Enum = 0x8517
	TEXTURE_CUBE_MAP_NEGATIVE_Y Enum = 0x8518
	TEXTURE_CUBE_MAP_POSITIVE_Z Enum = 0x8519
	TEXTURE_CUBE_MAP_NEGATIVE_Z Enum = 0x851A

	// Texture parameters.
	TEXTURE_MAG_FILTER             Enum = 0x2800
	TEXTURE_MIN_FILTER             Enum = 0x2801
	TEXTURE_WRAP_S                 Enum = 0x2802
	TEXTURE_WRAP_T                 Enum = 0x2803
	TEXTURE_WRAP_R                 Enum = 0x8072
	TEXTURE_BORDER_COLOR           Enum = 0x1004
	TEXTURE_PRIORITY               Enum = 0x8066
	TEXTURE_MAX_ANISOTROPY_EXT     Enum = 0x84FE
	MAX_TEXTURE_MAX_ANISOTROPY_EXT Enum = 0x84FF
	DEPTH_TEXTURE_MODE             Enum = 0x884B
	TEXTURE_COMPARE_MODE           Enum = 0x884C
	TEXTURE_COMPARE_FUNC           Enum = 0x884D
	COMPARE_R_TO_TEXTURE           Enum = 0x884E
	GENERATE_MIPMAP                Enum = 0x8191

	// Filters.
	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703

	// Wrap modes.
	CLAMP           Enum = 0x2900
	REPEAT          Enum = 0x2901
	CLAMP_TO_BORDER Enum = 0x812D
	CLAMP_TO_EDGE   Enum = 0x812F
	MIRRORED_REPEAT Enum = 0x8370

	// Pixel formats.
	DEPTH_COMPONENT Enum = 0x1902
	ALPHA           Enum = 0x1906
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908
	LUMINANCE       Enum = 0x1909
	LUMINANCE_ALPHA Enum = 0x190A
	INTENSITY       Enum = 0x8049
	BGR             Enum = 0x80E0
	BGRA            Enum = 0x80E1

	// Comparison functions.
	NEVER    Enum = 0x0200
	LESS     Enum = 0x0201
	EQUAL    Enum = 0x0202
	LEQUAL   Enum = 0x0203
	GREATER  Enum = 0x0204
	NOTEQUAL Enum = 0x0205
	GEQUAL   Enum = 0x0206
	ALWAYS   Enum = 0x0207

	// Blending.
	BLEND                    Enum = 0x0BE2
	SRC_COLOR                Enum = 0x0300
	ONE_MINUS_SRC_COLOR      Enum = 0x0301
	SRC_ALPHA                Enum = 0x0302
	ONE_MINUS_SRC_ALPHA      Enum = 0x0303
	DST_ALPHA                Enum = 0x0304
	ONE_MINUS_DST_ALPHA      Enum = 0x0305
	DST_COLOR                Enum = 0x0306
	ONE_MINUS_DST_COLOR      Enum = 0x0307
	SRC_ALPHA_SATURATE       Enum = 0x0308
	CONSTANT_COLOR           Enum = 0x8001
	ONE_MINUS_CONSTANT_COLOR Enum = 0x8002
	CONSTANT_ALPHA           Enum = 0x8003
	ONE_MINUS_CONSTANT_ALPHA Enum = 0x8004
	FUNC_ADD                 Enum = 0x8006
	MIN                      Enum = 0x8007
	MAX                      Enum = 0x8008
	FUNC_SUBTRACT            Enum = 0x800A
	FUNC_REVERSE_SUBTRACT    Enum = 0x800B

	// Pixel store.
	UNPACK_ALIGNMENT Enum = 0x0CF5

	// Queries.
	VENDOR             Enum = 0x1F00
	RENDERER           Enum = 0x1F01
	VERSION            Enum = 0x1F02
	EXTENSIONS         Enum = 0x1F03
	MAX_TEXTURE_SIZE   Enum = 0x0D33
	MAX_TEXTURE_UNITS  Enum = 0x84E2
	MAX_VERTEX_ATTRIBS Enum = 0x8869
	POINT_SPRITE       Enum = 0x8861

	// Frame setup.
	COLOR_BUFFER_BIT uint32 = 0x00004000
	DEPTH_BUFFER_BIT uint32 = 0x00000100
	DEPTH_TEST       Enum   = 0x0B71
	MODELVIEW        Enum   = 0x1700
	PROJECTION       Enum   = 0x1701
)
