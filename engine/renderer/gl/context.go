package gl

import "github.com/j3d/aviatrix3d-sub002/engine/core"

// ContextID is the opaque identifier the frame driver assigns to a GL
// context when it is created. Every per-context table is keyed by it.
type ContextID uint32

// Context is what a scene node receives on every Render, PostRender and
// Cleanup call. GL must only be used from the thread currently driving
// that context.
type Context struct {
	ID   ContextID
	GL   Functions
	Caps *Capabilities
	// Stats is optional; when set nodes report their uploads to it.
	Stats *core.Metrics
}

func NewContext(id ContextID, fns Functions, caps *Capabilities) *Context {
	return &Context{
		ID:   id,
		GL:   fns,
		Caps: caps,
	}
}

// Probe makes sure the process-wide capabilities have been queried. Only
// the first call from any context reaches the driver.
func (c *Context) Probe() *Capabilities {
	c.Caps.Probe(c.GL)
	return c.Caps
}

// CountBufferUpload records a vertex or index buffer upload.
func (c *Context) CountBufferUpload() {
	if c.Stats != nil {
		c.Stats.CountBufferUpload()
	}
}

// CountTextureUpload records a full texture image upload.
func (c *Context) CountTextureUpload() {
	if c.Stats != nil {
		c.Stats.CountTextureUpload()
	}
}

// CountSubImageWrite records one applied sub-image region.
func (c *Context) CountSubImageWrite() {
	if c.Stats != nil {
		c.Stats.CountSubImageWrite()
	}
}
