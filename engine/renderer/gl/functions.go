// Package gl describes the slice of the OpenGL API that scene nodes issue
// while rendering. Nodes never talk to a binding directly; they receive a
// Context whose Functions are backed by a real driver (see package opengl)
// or by a recording fake in tests.
package gl

// Functions is the set of GL entry points used by the scene core.
//
// Pointer-style calls take a byte slice and an offset. When a buffer object
// is bound to the matching target, data is nil and offset is a byte offset
// into that buffer. Otherwise data is client memory and offset indexes it.
type Functions interface {
	GetString(name Enum) string
	GetInteger(name Enum) int32
	GetFloat(name Enum) float32
	GetError() Enum

	Enable(cap Enum)
	Disable(cap Enum)
	EnableClientState(array Enum)
	DisableClientState(array Enum)
	ActiveTexture(unit Enum)
	ClientActiveTexture(unit Enum)

	Color3f(r, g, b float32)
	Color4f(r, g, b, a float32)

	VertexPointer(size int32, typ Enum, stride int32, data []byte, offset int)
	NormalPointer(typ Enum, stride int32, data []byte, offset int)
	ColorPointer(size int32, typ Enum, stride int32, data []byte, offset int)
	SecondaryColorPointer(size int32, typ Enum, stride int32, data []byte, offset int)
	FogCoordPointer(typ Enum, stride int32, data []byte, offset int)
	TexCoordPointer(size int32, typ Enum, stride int32, data []byte, offset int)
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride int32, data []byte, offset int)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)

	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, typ Enum, indices []byte, offset int)

	GenBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target Enum, id uint32)
	BufferData(target Enum, size int, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)

	GenTexture() uint32
	DeleteTexture(id uint32)
	BindTexture(target Enum, id uint32)
	TexParameteri(target, pname Enum, param int32)
	TexParameterf(target, pname Enum, param float32)
	TexParameterfv(target, pname Enum, params []float32)
	TexImage2D(target Enum, level, internalFormat, width, height int32, format, typ Enum, pixels []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, typ Enum, pixels []byte)
	CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int32)
	PixelStorei(pname Enum, param int32)

	BlendFunc(src, dst Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BlendEquation(mode Enum)
	BlendColor(r, g, b, a float32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	MatrixMode(mode Enum)
	LoadIdentity()
	Ortho(left, right, bottom, top, near, far float64)
	Rotatef(angle, x, y, z float32)

	GetUniformLocation(program uint32, name string) int32
	Uniformfv(location int32, size int32, count int32, values []float32)
	Uniformiv(location int32, size int32, count int32, values []int32)
	UniformMatrixfv(location int32, dim int32, count int32, transpose bool, values []float32)
}
