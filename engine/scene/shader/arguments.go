// Package shader holds the uniform values handed to a linked GLSL program.
package shader

import (
	"fmt"
	"slices"
	"sync"

	"github.com/iancoleman/orderedmap"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

type UniformType int

const (
	UniformFloat UniformType = iota
	UniformInt
	UniformMatrix
)

func (t UniformType) String() string {
	switch t {
	case UniformInt:
		return "int"
	case UniformMatrix:
		return "matrix"
	}
	return "float"
}

// Uniform is one named value. Size is the vector width, or the matrix
// dimension for matrices; Count is how many elements the array holds.
type Uniform struct {
	Type      UniformType `json:"type"`
	Size      int         `json:"size"`
	Count     int         `json:"count"`
	Transpose bool        `json:"transpose,omitempty"`
	Floats    []float32   `json:"floats,omitempty"`
	Ints      []int32     `json:"ints,omitempty"`
}

// Arguments is an ordered table of uniforms. Uniforms are pushed to the
// program in the order they were first set.
type Arguments struct {
	core.Node

	mu       sync.RWMutex
	uniforms *orderedmap.OrderedMap
}

func NewArguments() *Arguments {
	return &Arguments{uniforms: orderedmap.New()}
}

func elementCount(name string, n, width int) (int, error) {
	if n == 0 || n%width != 0 {
		return 0, fmt.Errorf("%w: uniform %q has %d values for width %d", core.ErrInvalidArgument, name, n, width)
	}
	return n / width, nil
}

func (a *Arguments) set(name string, u Uniform) error {
	if name == "" {
		return fmt.Errorf("%w: empty uniform name", core.ErrInvalidArgument)
	}
	if err := a.CheckDataWrite(a); err != nil {
		return err
	}
	a.mu.Lock()
	a.uniforms.Set(name, u)
	a.mu.Unlock()
	return nil
}

// SetUniformFloat sets a float vector uniform of width size (1 to 4). The
// number of values must be a multiple of size.
func (a *Arguments) SetUniformFloat(name string, size int, values []float32) error {
	if size < 1 || size > 4 {
		return fmt.Errorf("%w: uniform %q size %d", core.ErrInvalidArgument, name, size)
	}
	count, err := elementCount(name, len(values), size)
	if err != nil {
		return err
	}
	return a.set(name, Uniform{Type: UniformFloat, Size: size, Count: count, Floats: slices.Clone(values)})
}

// SetUniformInt is SetUniformFloat for integer and sampler uniforms.
func (a *Arguments) SetUniformInt(name string, size int, values []int32) error {
	if size < 1 || size > 4 {
		return fmt.Errorf("%w: uniform %q size %d", core.ErrInvalidArgument, name, size)
	}
	count, err := elementCount(name, len(values), size)
	if err != nil {
		return err
	}
	return a.set(name, Uniform{Type: UniformInt, Size: size, Count: count, Ints: slices.Clone(values)})
}

// SetUniformSampler binds a sampler uniform to a texture unit.
func (a *Arguments) SetUniformSampler(name string, unit int) error {
	if unit < 0 {
		return fmt.Errorf("%w: uniform %q texture unit %d", core.ErrInvalidArgument, name, unit)
	}
	return a.SetUniformInt(name, 1, []int32{int32(unit)})
}

// SetUniformMatrix sets one or more dim x dim matrices (dim 2 to 4).
func (a *Arguments) SetUniformMatrix(name string, dim int, values []float32, transpose bool) error {
	if dim < 2 || dim > 4 {
		return fmt.Errorf("%w: uniform %q matrix dimension %d", core.ErrInvalidArgument, name, dim)
	}
	count, err := elementCount(name, len(values), dim*dim)
	if err != nil {
		return err
	}
	return a.set(name, Uniform{Type: UniformMatrix, Size: dim, Count: count, Transpose: transpose, Floats: slices.Clone(values)})
}

// RemoveUniform forgets a uniform. Removing an unknown name is a no-op.
func (a *Arguments) RemoveUniform(name string) error {
	if err := a.CheckDataWrite(a); err != nil {
		return err
	}
	a.mu.Lock()
	a.uniforms.Delete(name)
	a.mu.Unlock()
	return nil
}

// Names lists the uniforms in the order they were first set.
func (a *Arguments) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.uniforms.Keys())
}

// Uniform returns a copy of a uniform.
func (a *Arguments) Uniform(name string) (Uniform, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.uniforms.Get(name)
	if !ok {
		return Uniform{}, fmt.Errorf("%w: %q", core.ErrUnknownUniform, name)
	}
	u := v.(Uniform)
	u.Floats = slices.Clone(u.Floats)
	u.Ints = slices.Clone(u.Ints)
	return u, nil
}

func (a *Arguments) typed(name string, want UniformType) (Uniform, error) {
	u, err := a.Uniform(name)
	if err != nil {
		return Uniform{}, err
	}
	if u.Type != want {
		return Uniform{}, fmt.Errorf("%w: uniform %q is %s, not %s", core.ErrInvalidFieldType, name, u.Type, want)
	}
	return u, nil
}

// UniformFloat returns the values and vector width of a float uniform.
func (a *Arguments) UniformFloat(name string) ([]float32, int, error) {
	u, err := a.typed(name, UniformFloat)
	return u.Floats, u.Size, err
}

func (a *Arguments) UniformInt(name string) ([]int32, int, error) {
	u, err := a.typed(name, UniformInt)
	return u.Ints, u.Size, err
}

// UniformMatrix returns the values, dimension and transpose flag of a
// matrix uniform.
func (a *Arguments) UniformMatrix(name string) ([]float32, int, bool, error) {
	u, err := a.typed(name, UniformMatrix)
	return u.Floats, u.Size, u.Transpose, err
}

// Render pushes every uniform to program, which must be current in ctx.
// Names the program does not use are skipped.
func (a *Arguments) Render(ctx *gl.Context, program uint32) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f := ctx.GL
	for _, name := range a.uniforms.Keys() {
		v, _ := a.uniforms.Get(name)
		u := v.(Uniform)
		loc := f.GetUniformLocation(program, name)
		if loc < 0 {
			core.LogDebug("program %d has no uniform %q", program, name)
			continue
		}
		switch u.Type {
		case UniformFloat:
			f.Uniformfv(loc, int32(u.Size), int32(u.Count), u.Floats)
		case UniformInt:
			f.Uniformiv(loc, int32(u.Size), int32(u.Count), u.Ints)
		case UniformMatrix:
			f.UniformMatrixfv(loc, int32(u.Size), int32(u.Count), u.Transpose, u.Floats)
		}
	}
}

// MarshalJSON dumps the table in uniform order.
func (a *Arguments) MarshalJSON() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.uniforms.MarshalJSON()
}
