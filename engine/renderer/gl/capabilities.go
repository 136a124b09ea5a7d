package gl

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
)

// Capabilities is the process-wide record of what the graphics driver
// supports. It is created once at startup, handed by pointer to every
// context, and probed exactly once no matter how many contexts or nodes
// ask for it. After probing only buffer-object support can change, and it
// can only ever be switched off.
type Capabilities struct {
	once   sync.Once
	config core.CapabilityConfig
	probed atomic.Bool

	major, minor int
	extensions   map[string]bool

	multiTexture     bool
	maxTextureUnits  int
	bufferObjects    atomic.Bool
	pointSprites     bool
	imagingSubset    bool
	anisotropic      bool
	maxAnisotropy    float32
	cubeMaps         bool
	depthTextures    bool
	shadows          bool
	secondaryColor   bool
	fogCoordinates   bool
	vertexAttribs    bool
	maxVertexAttribs int
}

func NewCapabilities(cfg core.CapabilityConfig) *Capabilities {
	return &Capabilities{config: cfg}
}

// Probe queries the driver the first time it is called and is a no-op
// afterwards.
func (c *Capabilities) Probe(f Functions) {
	c.once.Do(func() {
		c.probe(f)
		c.probed.Store(true)
	})
}

// Probed reports whether Probe has completed.
func (c *Capabilities) Probed() bool {
	return c.probed.Load()
}

func (c *Capabilities) probe(f Functions) {
	c.major, c.minor = parseVersion(f.GetString(VERSION))
	c.extensions = make(map[string]bool)
	for _, ext := range strings.Fields(f.GetString(EXTENSIONS)) {
		c.extensions[ext] = true
	}

	c.multiTexture = c.atLeast(1, 3) || c.extensions["GL_ARB_multitexture"]
	c.maxTextureUnits = 1
	if c.multiTexture {
		if n := int(f.GetInteger(MAX_TEXTURE_UNITS)); n > 0 {
			c.maxTextureUnits = n
		}
	}
	if c.config.DisableMultiTexture && c.multiTexture {
		c.multiTexture = false
		c.maxTextureUnits = 1
		core.LogWarn("multi-texture support disabled by configuration")
	}
	if c.config.MaxTextureUnits > 0 && c.config.MaxTextureUnits < c.maxTextureUnits {
		c.maxTextureUnits = c.config.MaxTextureUnits
	}
	if !c.multiTexture {
		core.LogWarn("multi-texture not available, only texture unit 0 will be used")
	}

	vbo := c.atLeast(1, 5) || c.extensions["GL_ARB_vertex_buffer_object"]
	if c.config.DisableBufferObjects && vbo {
		vbo = false
		core.LogWarn("buffer objects disabled by configuration")
	} else if !vbo {
		core.LogWarn("buffer objects not available, geometry will use client arrays")
	}
	c.bufferObjects.Store(vbo)

	c.pointSprites = c.atLeast(2, 0) || c.extensions["GL_ARB_point_sprite"]
	c.imagingSubset = c.extensions["GL_ARB_imaging"]
	c.anisotropic = c.extensions["GL_EXT_texture_filter_anisotropic"]
	if c.anisotropic {
		c.maxAnisotropy = f.GetFloat(MAX_TEXTURE_MAX_ANISOTROPY_EXT)
	}
	c.cubeMaps = c.atLeast(1, 3) || c.extensions["GL_ARB_texture_cube_map"]
	c.depthTextures = c.atLeast(1, 4) || c.extensions["GL_ARB_depth_texture"]
	c.shadows = c.atLeast(1, 4) || c.extensions["GL_ARB_shadow"]
	c.secondaryColor = c.atLeast(1, 4) || c.extensions["GL_EXT_secondary_color"]
	c.fogCoordinates = c.atLeast(1, 4) || c.extensions["GL_EXT_fog_coord"]
	c.vertexAttribs = c.atLeast(2, 0) || c.extensions["GL_ARB_vertex_shader"]
	if c.vertexAttribs {
		c.maxVertexAttribs = int(f.GetInteger(MAX_VERTEX_ATTRIBS))
	}

	core.LogInfo("GL %d.%d: %d texture units, vbo=%t, aniso=%.1f, attribs=%d",
		c.major, c.minor, c.maxTextureUnits, vbo, c.maxAnisotropy, c.maxVertexAttribs)
}

func (c *Capabilities) atLeast(major, minor int) bool {
	return c.major > major || (c.major == major && c.minor >= minor)
}

// parseVersion pulls "major.minor" off the front of a GL_VERSION string
// such as "2.1.0 NVIDIA 550.54".
func parseVersion(s string) (int, int) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 1, 1
	}
	parts := strings.SplitN(fields[0], ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 1, 1
	}
	minor := 0
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil {
			minor = m
		}
	}
	return major, minor
}

// DisableBufferObjects permanently switches geometry to the client array
// path. The first call logs why; later calls are silent.
func (c *Capabilities) DisableBufferObjects(reason string) {
	if c.bufferObjects.CompareAndSwap(true, false) {
		core.LogWarn("disabling buffer objects for the rest of the process: %s", reason)
	}
}

func (c *Capabilities) HasExtension(name string) bool { return c.extensions[name] }
func (c *Capabilities) Version() (int, int)           { return c.major, c.minor }
func (c *Capabilities) MultiTexture() bool            { return c.multiTexture }
func (c *Capabilities) MaxTextureUnits() int          { return c.maxTextureUnits }
func (c *Capabilities) BufferObjects() bool           { return c.bufferObjects.Load() }
func (c *Capabilities) PointSprites() bool            { return c.pointSprites }
func (c *Capabilities) ImagingSubset() bool           { return c.imagingSubset }
func (c *Capabilities) Anisotropic() bool             { return c.anisotropic }
func (c *Capabilities) MaxAnisotropy() float32        { return c.maxAnisotropy }
func (c *Capabilities) CubeMaps() bool                { return c.cubeMaps }
func (c *Capabilities) DepthTextures() bool           { return c.depthTextures }
func (c *Capabilities) Shadows() bool                 { return c.shadows }
func (c *Capabilities) SecondaryColor() bool          { return c.secondaryColor }
func (c *Capabilities) FogCoordinates() bool          { return c.fogCoordinates }
func (c *Capabilities) VertexAttribs() bool           { return c.vertexAttribs }
func (c *Capabilities) MaxVertexAttribs() int         { return c.maxVertexAttribs }
