// Package glfake is a recording stand-in for a GL driver. It keeps enough
// state (buffer contents, live object names, bindings) for tests to check
// what a node uploaded, and counts every call by name.
package glfake

import (
	"fmt"
	"sync"

	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

type Call struct {
	Name string
	Args []interface{}
}

type GL struct {
	Version    string
	Extensions string
	Integers   map[gl.Enum]int32
	Floats     map[gl.Enum]float32
	// FailBuffers makes GenBuffer hand out the invalid name 0.
	FailBuffers bool
	// FailTextures does the same for GenTexture.
	FailTextures bool

	mu          sync.Mutex
	calls       []Call
	counts      map[string]int
	nextBuffer  uint32
	nextTexture uint32
	buffers     map[uint32][]byte
	bound       map[gl.Enum]uint32
	textures    map[uint32]bool
	uniforms    map[string]int32
}

var _ gl.Functions = (*GL)(nil)

// New returns a fake reporting a GL 2.1 driver with anisotropic filtering,
// the imaging subset and four texture units.
func New() *GL {
	return &GL{
		Version:    "2.1.0 glfake",
		Extensions: "GL_EXT_texture_filter_anisotropic GL_ARB_imaging GL_ARB_vertex_buffer_object",
		Integers: map[gl.Enum]int32{
			gl.MAX_TEXTURE_UNITS:  4,
			gl.MAX_VERTEX_ATTRIBS: 16,
			gl.MAX_TEXTURE_SIZE:   4096,
		},
		Floats: map[gl.Enum]float32{
			gl.MAX_TEXTURE_MAX_ANISOTROPY_EXT: 16,
		},
		counts:   make(map[string]int),
		buffers:  make(map[uint32][]byte),
		bound:    make(map[gl.Enum]uint32),
		textures: make(map[uint32]bool),
		uniforms: make(map[string]int32),
	}
}

func (f *GL) record(name string, args ...interface{}) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: args})
	f.counts[name]++
	f.mu.Unlock()
}

// Count returns how many times the named entry point was called.
func (f *GL) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[name]
}

// Calls returns a copy of the call log.
func (f *GL) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsNamed returns the logged calls to one entry point, in order.
func (f *GL) CallsNamed(name string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the call log and counters but keeps object state.
func (f *GL) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.counts = make(map[string]int)
	f.mu.Unlock()
}

// CountTexParameter counts texture parameter calls of any form that set
// pname.
func (f *GL) CountTexParameter(pname gl.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		switch c.Name {
		case "TexParameteri", "TexParameterf", "TexParameterfv":
			if c.Args[1] == pname {
				n++
			}
		}
	}
	return n
}

// Buffer returns the current contents of buffer object id.
func (f *GL) Buffer(id uint32) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.buffers[id]
	return b, ok
}

// LiveTextures returns the number of texture names not yet deleted.
func (f *GL) LiveTextures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.textures)
}

// LiveBuffers returns the number of buffer names not yet deleted.
func (f *GL) LiveBuffers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buffers)
}

// TextureLive reports whether texture id exists.
func (f *GL) TextureLive(id uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textures[id]
}

func (f *GL) GetString(name gl.Enum) string {
	f.record("GetString", name)
	switch name {
	case gl.VERSION:
		return f.Version
	case gl.EXTENSIONS:
		return f.Extensions
	case gl.VENDOR:
		return "glfake"
	case gl.RENDERER:
		return "glfake recorder"
	}
	return ""
}

func (f *GL) GetInteger(name gl.Enum) int32 {
	f.record("GetInteger", name)
	return f.Integers[name]
}

func (f *GL) GetFloat(name gl.Enum) float32 {
	f.record("GetFloat", name)
	return f.Floats[name]
}

func (f *GL) GetError() gl.Enum {
	f.record("GetError")
	return gl.NO_ERROR
}

func (f *GL) Enable(c gl.Enum)                 { f.record("Enable", c) }
func (f *GL) Disable(c gl.Enum)                { f.record("Disable", c) }
func (f *GL) EnableClientState(a gl.Enum)      { f.record("EnableClientState", a) }
func (f *GL) DisableClientState(a gl.Enum)     { f.record("DisableClientState", a) }
func (f *GL) ActiveTexture(u gl.Enum)          { f.record("ActiveTexture", u) }
func (f *GL) ClientActiveTexture(u gl.Enum)    { f.record("ClientActiveTexture", u) }
func (f *GL) Color3f(r, g, b float32)          { f.record("Color3f", r, g, b) }
func (f *GL) Color4f(r, g, b, a float32)       { f.record("Color4f", r, g, b, a) }
func (f *GL) EnableVertexAttribArray(i uint32) { f.record("EnableVertexAttribArray", i) }
func (f *GL) DisableVertexAttribArray(i uint32) {
	f.record("DisableVertexAttribArray", i)
}

func (f *GL) VertexPointer(size int32, typ gl.Enum, stride int32, data []byte, offset int) {
	f.record("VertexPointer", size, typ, stride, data != nil, offset)
}

func (f *GL) NormalPointer(typ gl.Enum, stride int32, data []byte, offset int) {
	f.record("NormalPointer", typ, stride, data != nil, offset)
}

func (f *GL) ColorPointer(size int32, typ gl.Enum, stride int32, data []byte, offset int) {
	f.record("ColorPointer", size, typ, stride, data != nil, offset)
}

func (f *GL) SecondaryColorPointer(size int32, typ gl.Enum, stride int32, data []byte, offset int) {
	f.record("SecondaryColorPointer", size, typ, stride, data != nil, offset)
}

func (f *GL) FogCoordPointer(typ gl.Enum, stride int32, data []byte, offset int) {
	f.record("FogCoordPointer", typ, stride, data != nil, offset)
}

func (f *GL) TexCoordPointer(size int32, typ gl.Enum, stride int32, data []byte, offset int) {
	f.record("TexCoordPointer", size, typ, stride, data != nil, offset)
}

func (f *GL) VertexAttribPointer(index uint32, size int32, typ gl.Enum, normalized bool, stride int32, data []byte, offset int) {
	f.record("VertexAttribPointer", index, size, typ, normalized, stride, data != nil, offset)
}

func (f *GL) DrawArrays(mode gl.Enum, first, count int32) {
	f.record("DrawArrays", mode, first, count)
}

func (f *GL) DrawElements(mode gl.Enum, count int32, typ gl.Enum, indices []byte, offset int) {
	f.record("DrawElements", mode, count, typ, indices != nil, offset)
}

func (f *GL) GenBuffer() uint32 {
	f.record("GenBuffer")
	if f.FailBuffers {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextBuffer++
	f.buffers[f.nextBuffer] = nil
	return f.nextBuffer
}

func (f *GL) DeleteBuffer(id uint32) {
	f.record("DeleteBuffer", id)
	f.mu.Lock()
	delete(f.buffers, id)
	f.mu.Unlock()
}

func (f *GL) BindBuffer(target gl.Enum, id uint32) {
	f.record("BindBuffer", target, id)
	f.mu.Lock()
	f.bound[target] = id
	f.mu.Unlock()
}

func (f *GL) BufferData(target gl.Enum, size int, data []byte, usage gl.Enum) {
	f.record("BufferData", target, size, usage)
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, size)
	copy(buf, data)
	f.buffers[f.bound[target]] = buf
}

func (f *GL) BufferSubData(target gl.Enum, offset int, data []byte) {
	f.record("BufferSubData", target, offset, len(data))
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := f.buffers[f.bound[target]]
	if offset+len(data) > len(buf) {
		panic(fmt.Sprintf("glfake: BufferSubData overflow: %d+%d > %d", offset, len(data), len(buf)))
	}
	copy(buf[offset:], data)
}

func (f *GL) GenTexture() uint32 {
	f.record("GenTexture")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailTextures {
		return 0
	}
	f.nextTexture++
	f.textures[f.nextTexture] = true
	return f.nextTexture
}

func (f *GL) DeleteTexture(id uint32) {
	f.record("DeleteTexture", id)
	f.mu.Lock()
	delete(f.textures, id)
	f.mu.Unlock()
}

func (f *GL) BindTexture(target gl.Enum, id uint32) {
	f.record("BindTexture", target, id)
}

func (f *GL) TexParameteri(target, pname gl.Enum, param int32) {
	f.record("TexParameteri", target, pname, param)
}

func (f *GL) TexParameterf(target, pname gl.Enum, param float32) {
	f.record("TexParameterf", target, pname, param)
}

func (f *GL) TexParameterfv(target, pname gl.Enum, params []float32) {
	f.record("TexParameterfv", target, pname, append([]float32(nil), params...))
}

func (f *GL) TexImage2D(target gl.Enum, level, internalFormat, width, height int32, format, typ gl.Enum, pixels []byte) {
	f.record("TexImage2D", target, level, internalFormat, width, height, format, typ, len(pixels))
}

func (f *GL) TexSubImage2D(target gl.Enum, level, x, y, width, height int32, format, typ gl.Enum, pixels []byte) {
	f.record("TexSubImage2D", target, level, x, y, width, height, format, typ, len(pixels))
}

func (f *GL) CopyTexSubImage2D(target gl.Enum, level, xoffset, yoffset, x, y, width, height int32) {
	f.record("CopyTexSubImage2D", target, level, xoffset, yoffset, x, y, width, height)
}

func (f *GL) PixelStorei(pname gl.Enum, param int32) { f.record("PixelStorei", pname, param) }

func (f *GL) BlendFunc(src, dst gl.Enum) { f.record("BlendFunc", src, dst) }

func (f *GL) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gl.Enum) {
	f.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (f *GL) BlendEquation(mode gl.Enum)    { f.record("BlendEquation", mode) }
func (f *GL) BlendColor(r, g, b, a float32) { f.record("BlendColor", r, g, b, a) }

func (f *GL) Viewport(x, y, width, height int32) { f.record("Viewport", x, y, width, height) }
func (f *GL) ClearColor(r, g, b, a float32)      { f.record("ClearColor", r, g, b, a) }
func (f *GL) Clear(mask uint32)                  { f.record("Clear", mask) }
func (f *GL) MatrixMode(mode gl.Enum)            { f.record("MatrixMode", mode) }
func (f *GL) LoadIdentity()                      { f.record("LoadIdentity") }
func (f *GL) Rotatef(angle, x, y, z float32)     { f.record("Rotatef", angle, x, y, z) }

func (f *GL) Ortho(left, right, bottom, top, near, far float64) {
	f.record("Ortho", left, right, bottom, top, near, far)
}

func (f *GL) GetUniformLocation(program uint32, name string) int32 {
	f.record("GetUniformLocation", program, name)
	f.mu.Lock()
	defer f.mu.Unlock()
	loc, ok := f.uniforms[name]
	if !ok {
		loc = int32(len(f.uniforms))
		f.uniforms[name] = loc
	}
	return loc
}

func (f *GL) Uniformfv(location int32, size int32, count int32, values []float32) {
	f.record("Uniformfv", location, size, count, append([]float32(nil), values...))
}

func (f *GL) Uniformiv(location int32, size int32, count int32, values []int32) {
	f.record("Uniformiv", location, size, count, append([]int32(nil), values...))
}

func (f *GL) UniformMatrixfv(location int32, dim int32, count int32, transpose bool, values []float32) {
	f.record("UniformMatrixfv", location, dim, count, transpose, append([]float32(nil), values...))
}
