package texture

import (
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/cache"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

func (t *Texture) supported(caps *gl.Capabilities) bool {
	return t.typ != metadata.TextureTypeCube || caps.CubeMaps()
}

// faceTarget is the upload target of a source slot.
func (t *Texture) faceTarget(slot int) gl.Enum {
	if t.typ == metadata.TextureTypeCube {
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X + gl.Enum(slot)
	}
	return gl.TEXTURE_2D
}

// Render binds the texture in ctx, bringing that context's copy up to
// date first: parameters if they changed, the full image if it changed,
// then any queued sub-image writes.
func (t *Texture) Render(ctx *gl.Context) {
	caps := ctx.Probe()
	if !t.supported(caps) || len(t.Sources()) == 0 {
		return
	}
	e, _, err := t.textures.Acquire(ctx)
	if err != nil {
		if t.allocFailed.CompareAndSwap(false, true) {
			core.LogError("texture: %v", err)
		}
		return
	}
	t.allocFailed.Store(false)
	e.Lock()
	defer e.Unlock()

	f := ctx.GL
	target := t.typ.Target()
	f.Enable(target)
	f.BindTexture(target, e.Handle)

	dirty := e.Take(cache.DirtyParams | cache.DirtyImage)

	t.mu.RLock()
	defer t.mu.RUnlock()
	if dirty&cache.DirtyParams != 0 {
		t.applyParams(f, caps, target)
	}
	if dirty&cache.DirtyImage != 0 {
		t.upload(f, target)
		e.State.clear()
		ctx.CountTextureUpload()
	}
	for slot, q := range e.State.queues {
		face := t.faceTarget(slot)
		q.drain(func(r UpdateRegion) {
			f.TexSubImage2D(face, int32(r.Level), int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height),
				r.Format.GL(), gl.UNSIGNED_BYTE, r.Pixels)
			ctx.CountSubImageWrite()
		})
	}
}

// PostRender disables the texture target again.
func (t *Texture) PostRender(ctx *gl.Context) {
	if !t.supported(ctx.Probe()) {
		return
	}
	ctx.GL.Disable(t.typ.Target())
}

func (t *Texture) minFilterGL() gl.Enum {
	f := t.minFilter.GL(t.mipMode)
	if t.mipMode == metadata.MipModeMipmap {
		return f
	}
	// Without mip levels a mipmapped filter leaves the texture incomplete.
	switch f {
	case gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST_MIPMAP_LINEAR:
		return gl.NEAREST
	case gl.LINEAR_MIPMAP_NEAREST, gl.LINEAR_MIPMAP_LINEAR:
		return gl.LINEAR
	}
	return f
}

// applyParams issues every texture parameter. Callers hold t.mu.
func (t *Texture) applyParams(f gl.Functions, caps *gl.Capabilities, target gl.Enum) {
	f.TexParameteri(target, gl.TEXTURE_MIN_FILTER, int32(t.minFilterGL()))
	f.TexParameteri(target, gl.TEXTURE_MAG_FILTER, int32(t.magFilter.GL()))
	f.TexParameteri(target, gl.TEXTURE_WRAP_S, int32(t.boundary[0].GL()))
	f.TexParameteri(target, gl.TEXTURE_WRAP_T, int32(t.boundary[1].GL()))
	if t.typ == metadata.TextureTypeCube {
		f.TexParameteri(target, gl.TEXTURE_WRAP_R, int32(t.boundary[2].GL()))
	}
	f.TexParameterfv(target, gl.TEXTURE_BORDER_COLOR, t.borderColor[:])
	f.TexParameterf(target, gl.TEXTURE_PRIORITY, t.priority)

	if t.anisotropic == metadata.AnisotropicModeSingle && caps.Anisotropic() {
		f.TexParameterf(target, gl.TEXTURE_MAX_ANISOTROPY_EXT, min(t.anisoDegree, caps.MaxAnisotropy()))
	}

	if t.format == metadata.TextureFormatDepthComponent && caps.DepthTextures() {
		f.TexParameteri(target, gl.DEPTH_TEXTURE_MODE, int32(t.depthMode.GL()))
		if caps.Shadows() {
			if t.compareMode == metadata.CompareModeRToTexture {
				f.TexParameteri(target, gl.TEXTURE_COMPARE_MODE, int32(gl.COMPARE_R_TO_TEXTURE))
				f.TexParameteri(target, gl.TEXTURE_COMPARE_FUNC, int32(t.compareFunc.GL()))
			} else {
				f.TexParameteri(target, gl.TEXTURE_COMPARE_MODE, int32(gl.NONE))
			}
		}
	}
}

// upload sends every source in full. Image sources send each mip level
// they carry, halving the size per level; when mipmapping is on and a
// chain is incomplete the driver generates the rest. Multipass sources
// only get storage. Callers hold t.mu.
func (t *Texture) upload(f gl.Functions, target gl.Enum) {
	mip := t.mipMode == metadata.MipModeMipmap
	if mip {
		generate := false
		for _, s := range t.sources {
			img, ok := s.(*ImageSource)
			if !ok || img.Levels() < MaxLevels(img.Width(), img.Height()) {
				generate = true
			}
		}
		if generate {
			f.TexParameteri(target, gl.GENERATE_MIPMAP, 1)
		}
	}

	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	internal := t.format.InternalFormat()
	for slot, s := range t.sources {
		face := t.faceTarget(slot)
		switch src := s.(type) {
		case *ImageSource:
			src.eachLevel(func(level, w, h int, format metadata.TextureFormat, data []byte) {
				if level > 0 && !mip {
					return
				}
				f.TexImage2D(face, int32(level), internal, int32(w), int32(h), format.GL(), gl.UNSIGNED_BYTE, data)
			})
		default:
			f.TexImage2D(face, 0, internal, int32(s.Width()), int32(s.Height()), s.Format().GL(), gl.UNSIGNED_BYTE, nil)
		}
	}
}

// CopyFromFramebuffer copies the framebuffer rectangle of every multipass
// slot into the texture in ctx. It does nothing until the texture has been
// rendered in ctx.
func (t *Texture) CopyFromFramebuffer(ctx *gl.Context) {
	e := t.textures.Lookup(ctx.ID)
	if e == nil {
		return
	}
	e.Lock()
	defer e.Unlock()
	if e.Handle == 0 {
		return
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.multipass {
		return
	}
	target := t.typ.Target()
	ctx.GL.BindTexture(target, e.Handle)
	for slot, s := range t.sources {
		mp, ok := s.(*MultipassSource)
		if !ok {
			continue
		}
		x, y := mp.Origin()
		ctx.GL.CopyTexSubImage2D(t.faceTarget(slot), 0, 0, 0, int32(x), int32(y), int32(mp.Width()), int32(mp.Height()))
		ctx.CountSubImageWrite()
	}
}
