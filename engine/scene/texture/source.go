package texture

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

// Source is one image slot of a texture.
type Source interface {
	// ID identifies the source object. Two sources holding identical
	// pixels still have different ids.
	ID() uuid.UUID
	Width() int
	Height() int
	Format() metadata.TextureFormat
}

// ImageListener is told about changes to an ImageSource it registered
// with.
type ImageListener interface {
	// CanReplace is asked before Replace commits. A non-nil error aborts
	// the replacement with nothing changed.
	CanReplace(src *ImageSource, width, height int, format metadata.TextureFormat) error
	SubImageUpdated(src *ImageSource, r UpdateRegion)
	ImageReplaced(src *ImageSource)
}

// UpdateRegion is one pending sub-image write.
type UpdateRegion struct {
	X, Y          int
	Width, Height int
	Level         int
	Format        metadata.TextureFormat
	Pixels        []byte
}

// Contains reports whether r fully covers o on the same mip level.
func (r UpdateRegion) Contains(o UpdateRegion) bool {
	return r.Level == o.Level &&
		r.X <= o.X && r.Y <= o.Y &&
		r.X+r.Width >= o.X+o.Width &&
		r.Y+r.Height >= o.Y+o.Height
}

// LevelSize returns the dimensions of a mip level of a base image.
func LevelSize(width, height, level int) (int, int) {
	return max(width>>level, 1), max(height>>level, 1)
}

// MaxLevels is the length of a full mip chain down to 1x1.
func MaxLevels(width, height int) int {
	n := 1
	for d := max(width, height); d > 1; d >>= 1 {
		n++
	}
	return n
}

// ImageSource is a CPU side pixel buffer with an optional chain of
// pre-built mip levels. Pixels are unsigned bytes in the source format.
type ImageSource struct {
	core.Node

	id uuid.UUID

	mu        sync.RWMutex
	width     int
	height    int
	format    metadata.TextureFormat
	levels    [][]byte
	listeners []ImageListener
}

var _ Source = (*ImageSource)(nil)

// NewImageSource validates and copies the given levels. levels[0] is the
// base image; each further level must be half the size of the previous
// one, down to 1x1.
func NewImageSource(width, height int, format metadata.TextureFormat, levels ...[]byte) (*ImageSource, error) {
	copied, err := checkLevels(width, height, format, levels)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("image source id: %w", err)
	}
	return &ImageSource{
		id:     id,
		width:  width,
		height: height,
		format: format,
		levels: copied,
	}, nil
}

func checkLevels(width, height int, format metadata.TextureFormat, levels [][]byte) ([][]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", core.ErrInvalidArgument, width, height)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no image data", core.ErrInvalidArgument)
	}
	if n := MaxLevels(width, height); len(levels) > n {
		return nil, fmt.Errorf("%w: %d mip levels for a %dx%d image, at most %d", core.ErrInvalidArgument, len(levels), width, height, n)
	}
	out := make([][]byte, len(levels))
	for i, data := range levels {
		w, h := LevelSize(width, height, i)
		need := w * h * format.Components()
		if len(data) < need {
			return nil, fmt.Errorf("%w: level %d has %d bytes, need %d", core.ErrInvalidArgument, i, len(data), need)
		}
		out[i] = slices.Clone(data[:need])
	}
	return out, nil
}

func (s *ImageSource) ID() uuid.UUID { return s.id }

func (s *ImageSource) Width() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width
}

func (s *ImageSource) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height
}

func (s *ImageSource) Format() metadata.TextureFormat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format
}

// Levels returns how many mip levels the source carries.
func (s *ImageSource) Levels() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.levels)
}

// Pixels returns a copy of one level.
func (s *ImageSource) Pixels(level int) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if level < 0 || level >= len(s.levels) {
		return nil
	}
	return slices.Clone(s.levels[level])
}

// eachLevel calls fn with the read lock held. fn must not keep data.
func (s *ImageSource) eachLevel(fn func(level, width, height int, format metadata.TextureFormat, data []byte)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, data := range s.levels {
		w, h := LevelSize(s.width, s.height, i)
		fn(i, w, h, s.format, data)
	}
}

// UpdateSubImage writes a rectangle of pixels into one level and queues
// the same write for every texture using this source.
func (s *ImageSource) UpdateSubImage(x, y, width, height, level int, pixels []byte) error {
	s.mu.Lock()
	if level < 0 || level >= len(s.levels) {
		s.mu.Unlock()
		return fmt.Errorf("%w: mip level %d of %d", core.ErrInvalidArgument, level, len(s.levels))
	}
	lw, lh := LevelSize(s.width, s.height, level)
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > lw || y+height > lh {
		s.mu.Unlock()
		return fmt.Errorf("%w: region %d,%d %dx%d outside %dx%d", core.ErrInvalidArgument, x, y, width, height, lw, lh)
	}
	comps := s.format.Components()
	row := width * comps
	if len(pixels) < row*height {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d bytes for a %dx%d region", core.ErrInvalidArgument, len(pixels), width, height)
	}
	if err := s.CheckDataWrite(s); err != nil {
		s.mu.Unlock()
		return err
	}

	dst := s.levels[level]
	for j := 0; j < height; j++ {
		start := ((y+j)*lw + x) * comps
		copy(dst[start:start+row], pixels[j*row:(j+1)*row])
	}
	region := UpdateRegion{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Level:  level,
		Format: s.format,
		Pixels: slices.Clone(pixels[:row*height]),
	}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.SubImageUpdated(s, region)
	}
	return nil
}

// Replace swaps the whole image, possibly changing its size. Textures
// using the source re-upload it in full. A texture that cannot hold the
// new size, such as a cube map given a non-square face, refuses it.
func (s *ImageSource) Replace(width, height int, format metadata.TextureFormat, levels ...[]byte) error {
	copied, err := checkLevels(width, height, format, levels)
	if err != nil {
		return err
	}
	if err := s.CheckDataWrite(s); err != nil {
		return err
	}
	s.mu.RLock()
	current := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, l := range current {
		if err := l.CanReplace(s, width, height, format); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.width, s.height, s.format = width, height, format
	s.levels = copied
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.ImageReplaced(s)
	}
	return nil
}

func (s *ImageSource) addListener(l ImageListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.listeners, l) {
		s.listeners = append(s.listeners, l)
	}
}

func (s *ImageSource) removeListener(l ImageListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = slices.DeleteFunc(s.listeners, func(o ImageListener) bool { return o == l })
}

// resized stands in for an ImageSource at the size it is about to take.
type resized struct {
	*ImageSource
	width, height int
	format        metadata.TextureFormat
}

func (r resized) Width() int                     { return r.width }
func (r resized) Height() int                    { return r.height }
func (r resized) Format() metadata.TextureFormat { return r.format }

// MultipassSource is an image produced by rendering: the texture reserves
// storage for it and copies a framebuffer rectangle in on request.
type MultipassSource struct {
	id     uuid.UUID
	x, y   int
	width  int
	height int
	format metadata.TextureFormat
}

var _ Source = (*MultipassSource)(nil)

// NewMultipassSource describes the framebuffer rectangle at x,y that will
// be copied into the texture.
func NewMultipassSource(x, y, width, height int, format metadata.TextureFormat) (*MultipassSource, error) {
	if width <= 0 || height <= 0 || x < 0 || y < 0 {
		return nil, fmt.Errorf("%w: framebuffer region %d,%d %dx%d", core.ErrInvalidArgument, x, y, width, height)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("multipass source id: %w", err)
	}
	return &MultipassSource{id: id, x: x, y: y, width: width, height: height, format: format}, nil
}

func (s *MultipassSource) ID() uuid.UUID                  { return s.id }
func (s *MultipassSource) Width() int                     { return s.width }
func (s *MultipassSource) Height() int                    { return s.height }
func (s *MultipassSource) Format() metadata.TextureFormat { return s.format }

// Origin is the lower left corner of the copied framebuffer rectangle.
func (s *MultipassSource) Origin() (int, int) { return s.x, s.y }
