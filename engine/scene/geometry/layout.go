package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

const floatSize = 4

// TextureUnitLayout places one texture unit's coordinates.
type TextureUnitLayout struct {
	Unit       int
	Set        int
	Components int
	Offset     int
}

// AttributeLayout places one generic attribute channel.
type AttributeLayout struct {
	Index     uint32
	Size      int
	Type      metadata.AttributeType
	Normalize bool
	Signed    bool
	Offset    int
}

// Layout describes the packed vertex buffer. Channels are contiguous
// blocks, not interleaved, in this order: coordinates, normals, texture
// units in unit order, per-vertex colours, secondary colours, fog
// coordinates, then generic attributes in insertion order. Every block
// holds Vertices tuples. Offsets of absent channels are -1.
type Layout struct {
	Size            int
	Vertices        int
	Coordinates     int
	Normals         int
	TextureUnits    []TextureUnitLayout
	Colors          int
	SecondaryColors int
	FogCoordinates  int
	Attributes      []AttributeLayout
}

// computeLayout must be called with g.mu held.
func (g *VertexGeometry) computeLayout(maxTextureUnits int) Layout {
	n := g.requiredCount()
	l := Layout{
		Vertices:        n,
		Coordinates:     -1,
		Normals:         -1,
		Colors:          -1,
		SecondaryColors: -1,
		FogCoordinates:  -1,
	}
	off := 0
	block := func(comps, elemSize int) int {
		at := off
		off += n * comps * elemSize
		return at
	}

	if g.format.Has(metadata.VertexFormatCoordinates) {
		l.Coordinates = block(g.vertexDim, floatSize)
	}
	if g.format.Has(metadata.VertexFormatNormals) {
		l.Normals = block(3, floatSize)
	}
	units := len(g.setMap)
	if maxTextureUnits > 0 && units > maxTextureUnits {
		units = maxTextureUnits
	}
	for unit := 0; unit < units; unit++ {
		set := g.setMap[unit]
		if set >= len(g.texSets) {
			continue
		}
		comps := int(g.texSets[set].typ)
		l.TextureUnits = append(l.TextureUnits, TextureUnitLayout{
			Unit:       unit,
			Set:        set,
			Components: comps,
			Offset:     block(comps, floatSize),
		})
	}
	if g.colors != nil && !g.format.Has(metadata.VertexFormatColorSingle) {
		l.Colors = block(g.colorSize(), floatSize)
	}
	if g.format.Has(metadata.VertexFormatSecondaryColor) {
		l.SecondaryColors = block(3, floatSize)
	}
	if g.format.Has(metadata.VertexFormatFog) {
		l.FogCoordinates = block(1, floatSize)
	}
	for _, a := range g.attribs {
		l.Attributes = append(l.Attributes, AttributeLayout{
			Index:     a.index,
			Size:      a.size,
			Type:      a.typ,
			Normalize: a.normalize,
			Signed:    a.signed,
			Offset:    block(a.size, a.typ.Size()),
		})
	}
	l.Size = off
	return l
}

func (g *VertexGeometry) colorSize() int {
	if g.format.Has(metadata.VertexFormatColor4) {
		return 4
	}
	return 3
}

// BufferSize is the byte size of the packed vertex buffer.
func (g *VertexGeometry) BufferSize(maxTextureUnits int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.computeLayout(maxTextureUnits).Size
}

// Layout returns the offsets BufferSize adds up.
func (g *VertexGeometry) Layout(maxTextureUnits int) Layout {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.computeLayout(maxTextureUnits)
}

// FillBuffer packs every channel into dst following Layout and returns the
// layout used. dst must be at least BufferSize bytes.
func (g *VertexGeometry) FillBuffer(dst []byte, maxTextureUnits int) (Layout, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	l := g.computeLayout(maxTextureUnits)
	if len(dst) < l.Size {
		return l, fmt.Errorf("%w: buffer of %d bytes, layout needs %d", core.ErrInvalidArgument, len(dst), l.Size)
	}
	g.fill(dst, l)
	return l, nil
}

// fill must be called with g.mu held.
func (g *VertexGeometry) fill(dst []byte, l Layout) {
	n := l.Vertices
	if l.Coordinates >= 0 {
		putFloats(dst[l.Coordinates:], g.coords, n*g.vertexDim)
	}
	if l.Normals >= 0 {
		putFloats(dst[l.Normals:], g.normals, n*3)
	}
	for _, u := range l.TextureUnits {
		putFloats(dst[u.Offset:], g.texSets[u.Set].data, n*u.Components)
	}
	if l.Colors >= 0 {
		putFloats(dst[l.Colors:], g.colors, n*g.colorSize())
	}
	if l.SecondaryColors >= 0 {
		putFloats(dst[l.SecondaryColors:], g.secondary, n*3)
	}
	if l.FogCoordinates >= 0 {
		putFloats(dst[l.FogCoordinates:], g.fog, n)
	}
	for i, al := range l.Attributes {
		a := g.attribs[i]
		count := n * a.size
		a.encode(dst[al.Offset:al.Offset+count*a.typ.Size()], count)
	}
}

// putFloats writes count floats in native byte order, zero filling past
// the end of src.
func putFloats(dst []byte, src []float32, count int) {
	valid := min(len(src), count)
	for i := 0; i < valid; i++ {
		binary.NativeEndian.PutUint32(dst[i*floatSize:], math32.Float32bits(src[i]))
	}
	clear(dst[valid*floatSize : count*floatSize])
}

// packedData returns the cached packed buffer for maxTextureUnits,
// rebuilding it after a change. The returned slice is shared and must not
// be modified.
func (g *VertexGeometry) packedData(maxTextureUnits int) ([]byte, Layout) {
	g.packMu.Lock()
	defer g.packMu.Unlock()

	if g.packValid && g.packedUnits == maxTextureUnits {
		return g.packed, g.layout
	}

	g.mu.RLock()
	l := g.computeLayout(maxTextureUnits)
	// A fresh slice so a context still reading the old one is unaffected.
	g.packed = make([]byte, l.Size)
	g.fill(g.packed, l)
	g.mu.RUnlock()

	g.layout = l
	g.packedUnits = maxTextureUnits
	g.packValid = true
	return g.packed, l
}
