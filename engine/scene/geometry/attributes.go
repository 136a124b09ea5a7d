package geometry

import (
	"encoding/binary"
	"fmt"
	stdmath "math"
	"slices"

	"github.com/chewxy/math32"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

// attribute is one generic vertex attribute channel. values holds a
// []float32, []float64, []int32, []int16 or []byte matching typ.
type attribute struct {
	index     uint32
	size      int
	typ       metadata.AttributeType
	normalize bool
	signed    bool
	values    interface{}
}

func (a *attribute) len() int {
	switch v := a.values.(type) {
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []int32:
		return len(v)
	case []int16:
		return len(v)
	case []byte:
		return len(v)
	}
	return 0
}

// encode writes the first n elements in native byte order into dst, which
// must hold n*typ.Size() bytes. Missing elements are zero.
func (a *attribute) encode(dst []byte, n int) {
	clear(dst)
	switch v := a.values.(type) {
	case []float32:
		for i := 0; i < n && i < len(v); i++ {
			binary.NativeEndian.PutUint32(dst[i*4:], math32.Float32bits(v[i]))
		}
	case []float64:
		for i := 0; i < n && i < len(v); i++ {
			binary.NativeEndian.PutUint64(dst[i*8:], stdmath.Float64bits(v[i]))
		}
	case []int32:
		for i := 0; i < n && i < len(v); i++ {
			binary.NativeEndian.PutUint32(dst[i*4:], uint32(v[i]))
		}
	case []int16:
		for i := 0; i < n && i < len(v); i++ {
			binary.NativeEndian.PutUint16(dst[i*2:], uint16(v[i]))
		}
	case []byte:
		copy(dst, v[:min(n, len(v))])
	}
}

func (a *attribute) bytes() []byte {
	n := a.len()
	out := make([]byte, n*a.typ.Size())
	a.encode(out, n)
	return out
}

// setAttribute adds or replaces the channel at index, keeping the position
// of a replaced channel so buffer layout follows first insertion. A size
// of -1 removes the channel.
func (g *VertexGeometry) setAttribute(index uint32, size int, typ metadata.AttributeType, values interface{}, normalize, signed bool) error {
	if size != -1 && (size < 1 || size > 4) {
		return fmt.Errorf("%w: attribute %d size %d not in [1,4]", core.ErrInvalidArgument, index, size)
	}
	if err := g.CheckDataWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	pos := slices.IndexFunc(g.attribs, func(a *attribute) bool { return a.index == index })
	if size == -1 {
		if pos < 0 {
			g.mu.Unlock()
			return nil
		}
		g.attribs = slices.Delete(g.attribs, pos, pos+1)
	} else {
		a := &attribute{
			index:     index,
			size:      size,
			typ:       typ,
			normalize: normalize,
			signed:    signed,
			values:    values,
		}
		if need := g.requiredCount() * size; a.len() < need {
			g.mu.Unlock()
			return channelError(fmt.Sprintf("%s attribute %d", typ, index), a.len(), need)
		}
		if pos < 0 {
			g.attribs = append(g.attribs, a)
		} else {
			g.attribs[pos] = a
		}
	}
	if len(g.attribs) == 0 {
		g.format &^= metadata.VertexFormatAttributes
	} else {
		g.format |= metadata.VertexFormatAttributes
	}
	g.mu.Unlock()

	g.changed()
	return nil
}

// SetFloatAttributes sets generic attribute index to size floats per
// vertex. A size of -1 removes it.
func (g *VertexGeometry) SetFloatAttributes(index uint32, size int, values []float32, normalize bool) error {
	return g.setAttribute(index, size, metadata.AttributeTypeFloat, slices.Clone(values), normalize, true)
}

func (g *VertexGeometry) SetDoubleAttributes(index uint32, size int, values []float64, normalize bool) error {
	return g.setAttribute(index, size, metadata.AttributeTypeDouble, slices.Clone(values), normalize, true)
}

// SetIntAttributes sets integer attributes. When signed is false the bits
// are sent as unsigned.
func (g *VertexGeometry) SetIntAttributes(index uint32, size int, values []int32, normalize, signed bool) error {
	return g.setAttribute(index, size, metadata.AttributeTypeInt, slices.Clone(values), normalize, signed)
}

func (g *VertexGeometry) SetShortAttributes(index uint32, size int, values []int16, normalize, signed bool) error {
	return g.setAttribute(index, size, metadata.AttributeTypeShort, slices.Clone(values), normalize, signed)
}

func (g *VertexGeometry) SetByteAttributes(index uint32, size int, values []byte, normalize, signed bool) error {
	return g.setAttribute(index, size, metadata.AttributeTypeByte, slices.Clone(values), normalize, signed)
}

// AttributeIndices lists attribute indices in insertion order.
func (g *VertexGeometry) AttributeIndices() []uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]uint32, len(g.attribs))
	for i, a := range g.attribs {
		out[i] = a.index
	}
	return out
}

// AttributeInfo returns the size, element type and flags of one channel.
func (g *VertexGeometry) AttributeInfo(index uint32) (size int, typ metadata.AttributeType, normalize, signed bool, err error) {
	a, err := g.findAttribute(index)
	if err != nil {
		return 0, 0, false, false, err
	}
	return a.size, a.typ, a.normalize, a.signed, nil
}

func (g *VertexGeometry) findAttribute(index uint32) (*attribute, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, a := range g.attribs {
		if a.index == index {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: no attribute at index %d", core.ErrInvalidArgument, index)
}

func attributeValues[T any](g *VertexGeometry, index uint32) ([]T, error) {
	a, err := g.findAttribute(index)
	if err != nil {
		return nil, err
	}
	v, ok := a.values.([]T)
	if !ok {
		return nil, fmt.Errorf("%w: attribute %d holds %s data", core.ErrInvalidFieldType, index, a.typ)
	}
	return slices.Clone(v), nil
}

func (g *VertexGeometry) FloatAttributes(index uint32) ([]float32, error) {
	return attributeValues[float32](g, index)
}

func (g *VertexGeometry) DoubleAttributes(index uint32) ([]float64, error) {
	return attributeValues[float64](g, index)
}

func (g *VertexGeometry) IntAttributes(index uint32) ([]int32, error) {
	return attributeValues[int32](g, index)
}

func (g *VertexGeometry) ShortAttributes(index uint32) ([]int16, error) {
	return attributeValues[int16](g, index)
}

func (g *VertexGeometry) ByteAttributes(index uint32) ([]byte, error) {
	return attributeValues[byte](g, index)
}
