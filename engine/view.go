package engine

import (
	"slices"
	"sync"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

// Surface is a drawable that owns a GL context, normally a window.
type Surface interface {
	// MakeCurrent binds the context to the calling thread.
	MakeCurrent()
	// ReleaseCurrent unbinds whatever context the calling thread holds.
	ReleaseCurrent()
	SwapBuffers()
	FramebufferSize() (int, int)
	GL() gl.Functions
}

// Node is anything a view can draw: textures, geometry, render state.
type Node interface {
	SetLive(h core.UpdateHandler)
	ClearLive()
	Render(ctx *gl.Context)
	PostRender(ctx *gl.Context)
	Cleanup(ctx *gl.Context)
}

// View draws an ordered list of nodes into one surface. Nodes render in
// the order they were attached and post-render in reverse, so state nodes
// go before the geometry they apply to.
type View struct {
	surface Surface
	ctx     *gl.Context

	mu         sync.Mutex
	nodes      []Node
	retired    []Node
	clearColor [4]float32
	width      int
	height     int
}

// Context is the GL context the view renders through.
func (v *View) Context() *gl.Context { return v.ctx }

func (v *View) Surface() Surface { return v.surface }

func (v *View) SetClearColor(r, g, b, a float32) {
	v.mu.Lock()
	v.clearColor = [4]float32{r, g, b, a}
	v.mu.Unlock()
}

// Nodes lists the attached nodes in draw order.
func (v *View) Nodes() []Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.nodes)
}

func (v *View) has(n Node) bool {
	return slices.Contains(v.nodes, n)
}

// take returns the draw list and the nodes to clean up this frame.
func (v *View) take() ([]Node, []Node, [4]float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	retired := v.retired
	v.retired = nil
	return slices.Clone(v.nodes), retired, v.clearColor
}

// resized records the framebuffer size and reports whether it changed.
func (v *View) resized(w, h int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if w == v.width && h == v.height {
		return false
	}
	v.width, v.height = w, h
	return true
}
