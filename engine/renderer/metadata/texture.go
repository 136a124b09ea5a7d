package metadata

import "github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"

/**
 * @brief Represents various types of textures.
 */
type TextureType int

const (
	/** @brief A standard two-dimensional texture. */
	TextureType2d TextureType = iota
	/** @brief A cube texture, used for environment maps. */
	TextureTypeCube
)

/** @brief The GL target the texture type binds to. */
func (t TextureType) Target() gl.Enum {
	if t == TextureTypeCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

/** @brief The pixel layout of a texture or of one of its sources. */
type TextureFormat int

const (
	TextureFormatRGB TextureFormat = iota
	TextureFormatRGBA
	/** @brief Two components, intensity then alpha. */
	TextureFormatIntensityAlpha
	TextureFormatIntensity
	TextureFormatLuminance
	/** @brief A single alpha component. */
	TextureFormatAlpha
	TextureFormatDepthComponent
	TextureFormatBGR
	TextureFormatBGRA
)

/** @brief The GL pixel format used for uploads. */
func (f TextureFormat) GL() gl.Enum {
	switch f {
	case TextureFormatRGBA:
		return gl.RGBA
	case TextureFormatIntensityAlpha:
		return gl.LUMINANCE_ALPHA
	case TextureFormatIntensity:
		return gl.INTENSITY
	case TextureFormatLuminance:
		return gl.LUMINANCE
	case TextureFormatAlpha:
		return gl.ALPHA
	case TextureFormatDepthComponent:
		return gl.DEPTH_COMPONENT
	case TextureFormatBGR:
		return gl.BGR
	case TextureFormatBGRA:
		return gl.BGRA
	}
	return gl.RGB
}

/** @brief The internal format handed to TexImage2D. */
func (f TextureFormat) InternalFormat() int32 {
	switch f {
	case TextureFormatBGR:
		return int32(gl.RGB)
	case TextureFormatBGRA:
		return int32(gl.RGBA)
	case TextureFormatIntensity:
		return int32(gl.INTENSITY)
	}
	return int32(f.GL())
}

/** @brief Bytes per pixel for unsigned byte data. */
func (f TextureFormat) Components() int {
	switch f {
	case TextureFormatRGBA, TextureFormatBGRA:
		return 4
	case TextureFormatRGB, TextureFormatBGR:
		return 3
	case TextureFormatIntensityAlpha:
		return 2
	}
	return 1
}

/** @brief Reports whether the format carries an alpha channel. */
func (f TextureFormat) HasAlpha() bool {
	switch f {
	case TextureFormatRGBA, TextureFormatBGRA, TextureFormatIntensityAlpha, TextureFormatAlpha:
		return true
	}
	return false
}

/** @brief Whether only the base level or a full mipmap chain is used. */
type MipMode int

const (
	MipModeBaseLevel MipMode = iota
	MipModeMipmap
)

/** @brief Represents supported minification filtering modes. */
type MinFilter int

const (
	MinFilterFastest MinFilter = iota
	MinFilterNicest
	/** @brief Nearest-neighbor filtering on the base level. */
	MinFilterBaseLevelPoint
	/** @brief Linear filtering on the base level. */
	MinFilterBaseLevelLinear
	MinFilterMultiLevelPoint
	MinFilterMultiLevelLinear
	MinFilterNearestMipmapNearest
	MinFilterNearestMipmapLinear
	MinFilterLinearMipmapNearest
	MinFilterLinearMipmapLinear
)

/** @brief The GL filter for the mode. Fastest and Nicest depend on whether mipmaps exist. */
func (f MinFilter) GL(mip MipMode) gl.Enum {
	switch f {
	case MinFilterFastest, MinFilterBaseLevelPoint:
		return gl.NEAREST
	case MinFilterNicest:
		if mip == MipModeMipmap {
			return gl.LINEAR_MIPMAP_LINEAR
		}
		return gl.LINEAR
	case MinFilterBaseLevelLinear:
		return gl.LINEAR
	case MinFilterMultiLevelPoint, MinFilterNearestMipmapNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case MinFilterNearestMipmapLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	case MinFilterLinearMipmapNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	}
	return gl.LINEAR_MIPMAP_LINEAR
}

/** @brief Represents supported magnification filtering modes. */
type MagFilter int

const (
	MagFilterFastest MagFilter = iota
	MagFilterNicest
	MagFilterBaseLevelPoint
	MagFilterBaseLevelLinear
)

/** @brief The GL filter for the mode. */
func (f MagFilter) GL() gl.Enum {
	switch f {
	case MagFilterFastest, MagFilterBaseLevelPoint:
		return gl.NEAREST
	}
	return gl.LINEAR
}

/** @brief How texture coordinates outside [0, 1] are resolved on one axis. */
type BoundaryMode int

const (
	BoundaryModeWrap BoundaryMode = iota
	BoundaryModeClamp
	BoundaryModeClampToEdge
	BoundaryModeClampToBoundary
	BoundaryModeMirroredRepeat
)

func (b BoundaryMode) GL() gl.Enum {
	switch b {
	case BoundaryModeClamp:
		return gl.CLAMP
	case BoundaryModeClampToEdge:
		return gl.CLAMP_TO_EDGE
	case BoundaryModeClampToBoundary:
		return gl.CLAMP_TO_BORDER
	case BoundaryModeMirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return gl.REPEAT
}

type AnisotropicMode int

const (
	AnisotropicModeNone AnisotropicMode = iota
	AnisotropicModeSingle
)

/** @brief Depth texture comparison, only meaningful for depth formats. */
type CompareMode int

const (
	CompareModeNone CompareMode = iota
	/** @brief Compare the R texture coordinate against the stored depth. */
	CompareModeRToTexture
)

type CompareFunction int

const (
	CompareFunctionLessEqual CompareFunction = iota
	CompareFunctionGreaterEqual
	CompareFunctionLess
	CompareFunctionGreater
	CompareFunctionEqual
	CompareFunctionNotEqual
	CompareFunctionAlways
	CompareFunctionNever
)

func (c CompareFunction) GL() gl.Enum {
	switch c {
	case CompareFunctionGreaterEqual:
		return gl.GEQUAL
	case CompareFunctionLess:
		return gl.LESS
	case CompareFunctionGreater:
		return gl.GREATER
	case CompareFunctionEqual:
		return gl.EQUAL
	case CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case CompareFunctionAlways:
		return gl.ALWAYS
	case CompareFunctionNever:
		return gl.NEVER
	}
	return gl.LEQUAL
}

/** @brief How a depth texture is presented to the texture environment. */
type DepthTextureMode int

const (
	DepthTextureModeLuminance DepthTextureMode = iota
	DepthTextureModeIntensity
	DepthTextureModeAlpha
)

func (d DepthTextureMode) GL() gl.Enum {
	switch d {
	case DepthTextureModeIntensity:
		return gl.INTENSITY
	case DepthTextureModeAlpha:
		return gl.ALPHA
	}
	return gl.LUMINANCE
}

/** @brief How pending sub-image updates accumulate between renders. */
type UpdateStrategy int

const (
	/** @brief Every queued region is applied, in order. */
	UpdateStrategyRetainAll UpdateStrategy = iota
	/** @brief Only the most recent region is kept. */
	UpdateStrategyRetainLast
	/** @brief A new region removes the pending ones it fully covers. */
	UpdateStrategyDiscardOverwritten
)

func (s UpdateStrategy) String() string {
	switch s {
	case UpdateStrategyRetainLast:
		return "retain-last"
	case UpdateStrategyDiscardOverwritten:
		return "discard-overwritten"
	}
	return "retain-all"
}

/** @brief Parses the names used in configuration files. */
func ParseUpdateStrategy(s string) (UpdateStrategy, bool) {
	switch s {
	case "retain-all":
		return UpdateStrategyRetainAll, true
	case "retain-last":
		return UpdateStrategyRetainLast, true
	case "discard-overwritten":
		return UpdateStrategyDiscardOverwritten, true
	}
	return UpdateStrategyRetainAll, false
}
