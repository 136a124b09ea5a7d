// Package opengl backs gl.Functions with the go-gl OpenGL 2.1 binding. The
// binding must have been initialised (gl.Init) with a context current on
// the calling thread before any Functions method is used.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	agl "github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

type Functions struct{}

var _ agl.Functions = (*Functions)(nil)

// Init loads the GL entry points for the context current on this thread
// and logs what driver we got.
func Init() (*Functions, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	f := &Functions{}
	core.LogInfo("OpenGL vendor %s renderer %s version %s",
		f.GetString(agl.VENDOR), f.GetString(agl.RENDERER), f.GetString(agl.VERSION))
	return f, nil
}

// pointer turns the (data, offset) pair used throughout agl.Functions into
// what the C API wants: an offset into the bound buffer when data is nil,
// client memory otherwise.
func pointer(data []byte, offset int) unsafe.Pointer {
	if data == nil {
		return gl.PtrOffset(offset)
	}
	if offset >= len(data) {
		return nil
	}
	return unsafe.Pointer(&data[offset])
}

func bytesPointer(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func (*Functions) GetString(name agl.Enum) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (*Functions) GetInteger(name agl.Enum) int32 {
	var v int32
	gl.GetIntegerv(name, &v)
	return v
}

func (*Functions) GetFloat(name agl.Enum) float32 {
	var v float32
	gl.GetFloatv(name, &v)
	return v
}

func (*Functions) GetError() agl.Enum { return gl.GetError() }

func (*Functions) Enable(c agl.Enum)              { gl.Enable(c) }
func (*Functions) Disable(c agl.Enum)             { gl.Disable(c) }
func (*Functions) EnableClientState(a agl.Enum)   { gl.EnableClientState(a) }
func (*Functions) DisableClientState(a agl.Enum)  { gl.DisableClientState(a) }
func (*Functions) ActiveTexture(u agl.Enum)       { gl.ActiveTexture(u) }
func (*Functions) ClientActiveTexture(u agl.Enum) { gl.ClientActiveTexture(u) }
func (*Functions) Color3f(r, g, b float32)        { gl.Color3f(r, g, b) }
func (*Functions) Color4f(r, g, b, a float32)     { gl.Color4f(r, g, b, a) }

func (*Functions) VertexPointer(size int32, typ agl.Enum, stride int32, data []byte, offset int) {
	gl.VertexPointer(size, typ, stride, pointer(data, offset))
}

func (*Functions) NormalPointer(typ agl.Enum, stride int32, data []byte, offset int) {
	gl.NormalPointer(typ, stride, pointer(data, offset))
}

func (*Functions) ColorPointer(size int32, typ agl.Enum, stride int32, data []byte, offset int) {
	gl.ColorPointer(size, typ, stride, pointer(data, offset))
}

func (*Functions) SecondaryColorPointer(size int32, typ agl.Enum, stride int32, data []byte, offset int) {
	gl.SecondaryColorPointer(size, typ, stride, pointer(data, offset))
}

func (*Functions) FogCoordPointer(typ agl.Enum, stride int32, data []byte, offset int) {
	gl.FogCoordPointer(typ, stride, pointer(data, offset))
}

func (*Functions) TexCoordPointer(size int32, typ agl.Enum, stride int32, data []byte, offset int) {
	gl.TexCoordPointer(size, typ, stride, pointer(data, offset))
}

func (*Functions) VertexAttribPointer(index uint32, size int32, typ agl.Enum, normalized bool, stride int32, data []byte, offset int) {
	gl.VertexAttribPointer(index, size, typ, normalized, stride, pointer(data, offset))
}

func (*Functions) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (*Functions) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (*Functions) DrawArrays(mode agl.Enum, first, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (*Functions) DrawElements(mode agl.Enum, count int32, typ agl.Enum, indices []byte, offset int) {
	gl.DrawElements(mode, count, typ, pointer(indices, offset))
}

func (*Functions) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (*Functions) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (*Functions) BindBuffer(target agl.Enum, id uint32) { gl.BindBuffer(target, id) }

func (*Functions) BufferData(target agl.Enum, size int, data []byte, usage agl.Enum) {
	gl.BufferData(target, size, bytesPointer(data), usage)
}

func (*Functions) BufferSubData(target agl.Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(target, offset, len(data), bytesPointer(data))
}

func (*Functions) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (*Functions) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (*Functions) BindTexture(target agl.Enum, id uint32) { gl.BindTexture(target, id) }

func (*Functions) TexParameteri(target, pname agl.Enum, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*Functions) TexParameterf(target, pname agl.Enum, param float32) {
	gl.TexParameterf(target, pname, param)
}

func (*Functions) TexParameterfv(target, pname agl.Enum, params []float32) {
	if len(params) == 0 {
		return
	}
	gl.TexParameterfv(target, pname, &params[0])
}

func (*Functions) TexImage2D(target agl.Enum, level, internalFormat, width, height int32, format, typ agl.Enum, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, typ, bytesPointer(pixels))
}

func (*Functions) TexSubImage2D(target agl.Enum, level, x, y, width, height int32, format, typ agl.Enum, pixels []byte) {
	gl.TexSubImage2D(target, level, x, y, width, height, format, typ, bytesPointer(pixels))
}

func (*Functions) CopyTexSubImage2D(target agl.Enum, level, xoffset, yoffset, x, y, width, height int32) {
	gl.CopyTexSubImage2D(target, level, xoffset, yoffset, x, y, width, height)
}

func (*Functions) PixelStorei(pname agl.Enum, param int32) { gl.PixelStorei(pname, param) }

func (*Functions) BlendFunc(src, dst agl.Enum) { gl.BlendFunc(src, dst) }

func (*Functions) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha agl.Enum) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (*Functions) BlendEquation(mode agl.Enum)    { gl.BlendEquation(mode) }
func (*Functions) BlendColor(r, g, b, a float32) { gl.BlendColor(r, g, b, a) }

func (*Functions) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*Functions) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (*Functions) Clear(mask uint32)                  { gl.Clear(mask) }
func (*Functions) MatrixMode(mode agl.Enum)           { gl.MatrixMode(mode) }
func (*Functions) LoadIdentity()                      { gl.LoadIdentity() }
func (*Functions) Rotatef(angle, x, y, z float32)     { gl.Rotatef(angle, x, y, z) }

func (*Functions) Ortho(left, right, bottom, top, near, far float64) {
	gl.Ortho(left, right, bottom, top, near, far)
}

func (*Functions) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Functions) Uniformfv(location int32, size int32, count int32, values []float32) {
	if len(values) == 0 {
		return
	}
	switch size {
	case 1:
		gl.Uniform1fv(location, count, &values[0])
	case 2:
		gl.Uniform2fv(location, count, &values[0])
	case 3:
		gl.Uniform3fv(location, count, &values[0])
	case 4:
		gl.Uniform4fv(location, count, &values[0])
	}
}

func (*Functions) Uniformiv(location int32, size int32, count int32, values []int32) {
	if len(values) == 0 {
		return
	}
	switch size {
	case 1:
		gl.Uniform1iv(location, count, &values[0])
	case 2:
		gl.Uniform2iv(location, count, &values[0])
	case 3:
		gl.Uniform3iv(location, count, &values[0])
	case 4:
		gl.Uniform4iv(location, count, &values[0])
	}
}

func (*Functions) UniformMatrixfv(location int32, dim int32, count int32, transpose bool, values []float32) {
	if len(values) == 0 {
		return
	}
	switch dim {
	case 2:
		gl.UniformMatrix2fv(location, count, transpose, &values[0])
	case 3:
		gl.UniformMatrix3fv(location, count, transpose, &values[0])
	case 4:
		gl.UniformMatrix4fv(location, count, transpose, &values[0])
	}
}
