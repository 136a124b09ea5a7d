// Package platform opens glfw windows, each with its own OpenGL 2.1
// context.
package platform

import (
	"runtime"
	"slices"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/opengl"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	windows []*Window
	// fns is shared: the go-gl entry points are loaded once per process.
	fns *opengl.Functions
}

// Window is a glfw window and the GL context that came with it. Contexts
// are not shared, so every window holds its own textures and buffers.
type Window struct {
	handle *glfw.Window
	fns    *opengl.Functions
}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) Startup() error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}
	startTime = glfw.GetTime()
	return nil
}

// CreateWindow opens a window at (x, y). Its context is left detached so
// any thread may make it current.
func (p *Platform) CreateWindow(title string, x, y, width, height int) (*Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	handle, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return nil, err
	}
	handle.MakeContextCurrent()
	if p.fns == nil {
		if p.fns, err = opengl.Init(); err != nil {
			handle.Destroy()
			return nil, err
		}
	}
	glfw.SwapInterval(1)
	glfw.DetachCurrentContext()

	handle.SetKeyCallback(keyCallback)
	handle.SetPos(x, y)
	handle.Show()

	w := &Window{handle: handle, fns: p.fns}
	p.windows = append(p.windows, w)
	return w, nil
}

// DestroyWindow closes w. Its context must not be current anywhere.
func (p *Platform) DestroyWindow(w *Window) {
	i := slices.Index(p.windows, w)
	if i < 0 {
		return
	}
	p.windows = slices.Delete(p.windows, i, i+1)
	w.handle.Destroy()
}

func (p *Platform) Shutdown() error {
	for _, w := range p.windows {
		w.handle.Destroy()
	}
	p.windows = nil
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. It returns false once
// every window has been asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	for _, w := range p.windows {
		if !w.ShouldClose() {
			return true
		}
	}
	return false
}

// Sleep blocks for ms milliseconds.
func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

// GetAbsoluteTime is the number of seconds since Startup.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (w *Window) MakeCurrent()      { w.handle.MakeContextCurrent() }
func (w *Window) ReleaseCurrent()   { glfw.DetachCurrentContext() }
func (w *Window) SwapBuffers()      { w.handle.SwapBuffers() }
func (w *Window) ShouldClose() bool { return w.handle.ShouldClose() }
func (w *Window) GL() gl.Functions  { return w.fns }

func (w *Window) FramebufferSize() (int, int) {
	return w.handle.GetFramebufferSize()
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}
