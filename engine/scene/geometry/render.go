package geometry

import (
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/cache"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

// boundArrays records what beginArrays enabled so endArrays can undo it.
type boundArrays struct {
	vbo       bool
	data      []byte
	normals   bool
	units     []int
	colors    bool
	secondary bool
	fog       bool
	attribs   []uint32
}

// beginArrays uploads the packed buffer if ctx has a stale copy and points
// every client array at it. With buffer objects unavailable the same bytes
// are passed as client memory. It returns false when there is nothing to
// draw.
func (g *VertexGeometry) beginArrays(ctx *gl.Context) (*boundArrays, bool) {
	caps := ctx.Probe()
	data, layout := g.packedData(caps.MaxTextureUnits())
	if layout.Vertices == 0 || layout.Coordinates < 0 {
		return nil, false
	}

	b := &boundArrays{data: data}
	if caps.BufferObjects() && g.uploadVertices(ctx, data) {
		b.vbo = true
		b.data = nil
	}
	g.describe(ctx, layout, b)
	return b, true
}

func (g *VertexGeometry) uploadVertices(ctx *gl.Context, data []byte) bool {
	e, _, err := g.buffers.Acquire(ctx)
	if err != nil {
		ctx.Caps.DisableBufferObjects(err.Error())
		return false
	}
	e.Lock()
	defer e.Unlock()

	ctx.GL.BindBuffer(gl.ARRAY_BUFFER, e.Handle)
	if e.Take(cache.DirtyData) == 0 {
		return true
	}
	if e.State.size != len(data) {
		ctx.GL.BufferData(gl.ARRAY_BUFFER, len(data), data, gl.STATIC_DRAW)
		e.State.size = len(data)
	} else {
		ctx.GL.BufferSubData(gl.ARRAY_BUFFER, 0, data)
	}
	ctx.CountBufferUpload()
	return true
}

func (g *VertexGeometry) describe(ctx *gl.Context, l Layout, b *boundArrays) {
	f := ctx.GL
	caps := ctx.Caps

	g.mu.RLock()
	defer g.mu.RUnlock()

	f.EnableClientState(gl.VERTEX_ARRAY)
	f.VertexPointer(int32(g.vertexDim), gl.FLOAT, 0, b.data, l.Coordinates)

	if l.Normals >= 0 {
		f.EnableClientState(gl.NORMAL_ARRAY)
		f.NormalPointer(gl.FLOAT, 0, b.data, l.Normals)
		b.normals = true
	}

	for _, u := range l.TextureUnits {
		if caps.MultiTexture() {
			f.ClientActiveTexture(gl.TEXTURE0 + gl.Enum(u.Unit))
		}
		f.EnableClientState(gl.TEXTURE_COORD_ARRAY)
		f.TexCoordPointer(int32(u.Components), gl.FLOAT, 0, b.data, u.Offset)
		b.units = append(b.units, u.Unit)
	}
	if len(b.units) > 0 && caps.MultiTexture() {
		f.ClientActiveTexture(gl.TEXTURE0)
	}

	switch {
	case g.format.Has(metadata.VertexFormatColorSingle | metadata.VertexFormatColor4):
		f.Color4f(g.colors[0], g.colors[1], g.colors[2], g.colors[3])
	case g.format.Has(metadata.VertexFormatColorSingle):
		f.Color3f(g.colors[0], g.colors[1], g.colors[2])
	case l.Colors >= 0:
		f.EnableClientState(gl.COLOR_ARRAY)
		f.ColorPointer(int32(g.colorSize()), gl.FLOAT, 0, b.data, l.Colors)
		b.colors = true
	}

	if l.SecondaryColors >= 0 && caps.SecondaryColor() {
		f.EnableClientState(gl.SECONDARY_COLOR_ARRAY)
		f.SecondaryColorPointer(3, gl.FLOAT, 0, b.data, l.SecondaryColors)
		b.secondary = true
	}

	if l.FogCoordinates >= 0 && caps.FogCoordinates() {
		f.EnableClientState(gl.FOG_COORD_ARRAY)
		f.FogCoordPointer(gl.FLOAT, 0, b.data, l.FogCoordinates)
		b.fog = true
	}

	if len(l.Attributes) > 0 && caps.VertexAttribs() {
		for _, a := range l.Attributes {
			if int(a.Index) >= caps.MaxVertexAttribs() {
				core.LogDebug("skipping vertex attribute %d, driver has %d", a.Index, caps.MaxVertexAttribs())
				continue
			}
			f.EnableVertexAttribArray(a.Index)
			f.VertexAttribPointer(a.Index, int32(a.Size), a.Type.GL(a.Signed), a.Normalize, 0, b.data, a.Offset)
			b.attribs = append(b.attribs, a.Index)
		}
	}
}

func (g *VertexGeometry) endArrays(ctx *gl.Context, b *boundArrays) {
	f := ctx.GL

	for _, idx := range b.attribs {
		f.DisableVertexAttribArray(idx)
	}
	if b.fog {
		f.DisableClientState(gl.FOG_COORD_ARRAY)
	}
	if b.secondary {
		f.DisableClientState(gl.SECONDARY_COLOR_ARRAY)
	}
	if b.colors {
		f.DisableClientState(gl.COLOR_ARRAY)
	}
	multi := ctx.Caps.MultiTexture()
	for i := len(b.units) - 1; i >= 0; i-- {
		if multi {
			f.ClientActiveTexture(gl.TEXTURE0 + gl.Enum(b.units[i]))
		}
		f.DisableClientState(gl.TEXTURE_COORD_ARRAY)
	}
	if len(b.units) > 0 && multi {
		f.ClientActiveTexture(gl.TEXTURE0)
	}
	if b.normals {
		f.DisableClientState(gl.NORMAL_ARRAY)
	}
	f.DisableClientState(gl.VERTEX_ARRAY)

	if b.vbo {
		f.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
}

// drawArrays draws the first count vertices, or the given runs when counts
// is not nil.
func (g *VertexGeometry) drawArrays(ctx *gl.Context, mode gl.Enum, count int, counts []int) {
	b, ok := g.beginArrays(ctx)
	if !ok {
		return
	}
	if counts == nil {
		if count > 0 {
			ctx.GL.DrawArrays(mode, 0, int32(count))
		}
	} else {
		limit := g.ValidVertexCount()
		first := 0
		for _, c := range counts {
			if first+c > limit {
				break
			}
			ctx.GL.DrawArrays(mode, int32(first), int32(c))
			first += c
		}
	}
	g.endArrays(ctx, b)
}

// PostRender is a no-op; Render leaves no array state enabled.
func (g *VertexGeometry) PostRender(ctx *gl.Context) {}

// Cleanup deletes the vertex buffer held for ctx. Calling it for a context
// that never rendered the geometry does nothing.
func (g *VertexGeometry) Cleanup(ctx *gl.Context) {
	g.buffers.Release(ctx)
}

// BufferContexts lists the contexts currently holding a vertex buffer.
func (g *VertexGeometry) BufferContexts() []gl.ContextID {
	return g.buffers.Contexts()
}
