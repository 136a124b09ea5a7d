package geometry

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/math"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/cache"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

type textureSet struct {
	typ  metadata.TextureCoordinateType
	data []float32
}

// intersectFunc tests a ray against the primitive's polygons. It is called
// with the geometry read lock held.
type intersectFunc func(r math.Ray, findAny bool) (math.Vec3, bool)

type bufferState struct {
	size int
}

// VertexGeometry is the state shared by every vertex based primitive.
//
// Setters copy their input. Per-vertex channels must hold at least
// RequiredCount tuples; the coordinate count itself is set by SetVertices.
// Changes are refused with core.ErrInvalidWriteTiming while the owning
// primitive is live and its update handler does not permit them.
type VertexGeometry struct {
	core.Node

	owner     interface{}
	intersect intersectFunc
	// seq fixes the order two geometries are locked in when compared.
	seq uint64

	mu          sync.RWMutex
	format      metadata.VertexFormat
	vertexDim   int
	numCoords   int
	coords      []float32
	normals     []float32
	colors      []float32
	secondary   []float32
	fog         []float32
	texSets     []textureSet
	setMap      []int
	explicitMap bool
	attribs     []*attribute
	bounds      math.Extents3D
	pickable    bool

	// Set by indexed primitives: the number of leading vertices the
	// indices reference.
	indexed   bool
	indexSpan int

	buffers *cache.Resource[bufferState]

	packMu      sync.Mutex
	packed      []byte
	layout      Layout
	packedUnits int
	packValid   bool
}

var geometrySeq atomic.Uint64

func newVertexGeometry(owner interface{}, intersect intersectFunc) *VertexGeometry {
	return &VertexGeometry{
		owner:     owner,
		intersect: intersect,
		seq:       geometrySeq.Add(1),
		pickable:  true,
		buffers:   cache.NewBuffers[bufferState](),
	}
}

func (g *VertexGeometry) base() *VertexGeometry { return g }

// changed invalidates the packed buffer and every context's copy of it.
func (g *VertexGeometry) changed() {
	g.packMu.Lock()
	g.packValid = false
	g.packMu.Unlock()
	g.buffers.MarkDirty(cache.DirtyData)
}

// requiredCount must be called with g.mu held.
func (g *VertexGeometry) requiredCount() int {
	if g.indexed {
		return g.indexSpan
	}
	return g.numCoords
}

// RequiredCount is the number of vertices every per-vertex channel must
// cover: the vertex count, or for indexed geometry the highest referenced
// index plus one.
func (g *VertexGeometry) RequiredCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.requiredCount()
}

func channelError(name string, got, need int) error {
	return fmt.Errorf("%w: %s array has %d values, need at least %d", core.ErrInvalidArgument, name, got, need)
}

// SetVertices replaces the coordinates with the first numValid vertices of
// coords, each dim components wide. A numValid of zero clears them.
func (g *VertexGeometry) SetVertices(dim int, coords []float32, numValid int) error {
	if dim < 2 || dim > 4 {
		return fmt.Errorf("%w: vertex dimension %d not in [2,4]", core.ErrInvalidArgument, dim)
	}
	if numValid < 0 {
		return fmt.Errorf("%w: negative vertex count %d", core.ErrInvalidArgument, numValid)
	}
	if numValid*dim > len(coords) {
		return channelError("coordinate", len(coords), numValid*dim)
	}
	if err := g.CheckBoundsWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	if g.indexed && numValid != 0 && numValid < g.indexSpan {
		g.mu.Unlock()
		return fmt.Errorf("%w: %d vertices but indices reference %d", core.ErrInvalidArgument, numValid, g.indexSpan)
	}
	if numValid == 0 {
		g.coords = nil
		g.numCoords = 0
		g.vertexDim = dim
		g.format &^= metadata.VertexFormatCoordinates
		g.bounds = math.Extents3D{}
	} else {
		g.coords = slices.Clone(coords[:numValid*dim])
		g.numCoords = numValid
		g.vertexDim = dim
		g.format |= metadata.VertexFormatCoordinates
		g.bounds = math.ExtentsOf(g.coords, dim, numValid)
	}
	g.mu.Unlock()

	g.changed()
	return nil
}

// Vertices returns a copy of the valid coordinates.
func (g *VertexGeometry) Vertices() []float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.coords)
}

func (g *VertexGeometry) VertexDimension() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertexDim
}

func (g *VertexGeometry) ValidVertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.numCoords
}

// setChannel validates and stores one per-vertex float channel. A nil
// array clears it.
func (g *VertexGeometry) setChannel(name string, dst *[]float32, bit metadata.VertexFormat, comps int, values []float32) error {
	if err := g.CheckDataWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	if values == nil {
		*dst = nil
		g.format &^= bit
		g.mu.Unlock()
		g.changed()
		return nil
	}
	if need := g.requiredCount() * comps; len(values) < need {
		g.mu.Unlock()
		return channelError(name, len(values), need)
	}
	*dst = slices.Clone(values)
	g.format |= bit
	g.mu.Unlock()

	g.changed()
	return nil
}

// SetNormals sets one 3 component normal per vertex.
func (g *VertexGeometry) SetNormals(normals []float32) error {
	return g.setChannel("normal", &g.normals, metadata.VertexFormatNormals, 3, normals)
}

// SetSecondaryColors sets one RGB secondary colour per vertex.
func (g *VertexGeometry) SetSecondaryColors(colors []float32) error {
	return g.setChannel("secondary colour", &g.secondary, metadata.VertexFormatSecondaryColor, 3, colors)
}

// SetFogCoordinates sets one fog coordinate per vertex.
func (g *VertexGeometry) SetFogCoordinates(coords []float32) error {
	return g.setChannel("fog coordinate", &g.fog, metadata.VertexFormatFog, 1, coords)
}

// SetColors sets one RGB or RGBA colour per vertex. A nil array clears
// colours, including a single colour.
func (g *VertexGeometry) SetColors(hasAlpha bool, colors []float32) error {
	return g.setColors(hasAlpha, colors, false)
}

// SetSingleColor sets one RGB or RGBA colour used for every vertex.
func (g *VertexGeometry) SetSingleColor(hasAlpha bool, color []float32) error {
	return g.setColors(hasAlpha, color, true)
}

func (g *VertexGeometry) setColors(hasAlpha bool, colors []float32, single bool) error {
	comps := 3
	if hasAlpha {
		comps = 4
	}
	if single && colors != nil && len(colors) < comps {
		return channelError("colour", len(colors), comps)
	}
	if err := g.CheckDataWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	if colors == nil {
		g.colors = nil
		g.format &^= metadata.VertexFormatColorMask
		g.mu.Unlock()
		g.changed()
		return nil
	}
	if !single {
		if need := g.requiredCount() * comps; len(colors) < need {
			g.mu.Unlock()
			return channelError("colour", len(colors), need)
		}
		g.colors = slices.Clone(colors)
	} else {
		g.colors = slices.Clone(colors[:comps])
	}
	g.format &^= metadata.VertexFormatColorMask
	if hasAlpha {
		g.format |= metadata.VertexFormatColor4
	} else {
		g.format |= metadata.VertexFormatColor3
	}
	if single {
		g.format |= metadata.VertexFormatColorSingle
	}
	g.mu.Unlock()

	g.changed()
	return nil
}

func (g *VertexGeometry) Normals() []float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.normals)
}

// Colors returns the colours, whether they carry alpha, and whether they
// are a single colour.
func (g *VertexGeometry) Colors() ([]float32, bool, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.colors), g.format.Has(metadata.VertexFormatColor4), g.format.Has(metadata.VertexFormatColorSingle)
}

func (g *VertexGeometry) SecondaryColors() []float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.secondary)
}

func (g *VertexGeometry) FogCoordinates() []float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.fog)
}

// SetTextureCoordinates replaces every texture coordinate set with the
// first numSets entries of types and sets. Unless a set map was given with
// SetTextureSetMap, texture unit i uses set i.
func (g *VertexGeometry) SetTextureCoordinates(types []metadata.TextureCoordinateType, sets [][]float32, numSets int) error {
	if numSets < 0 {
		return fmt.Errorf("%w: negative texture set count %d", core.ErrInvalidArgument, numSets)
	}
	if len(types) < numSets || len(sets) < numSets {
		return fmt.Errorf("%w: %d texture sets requested but %d types and %d arrays given",
			core.ErrInvalidArgument, numSets, len(types), len(sets))
	}
	for i := 0; i < numSets; i++ {
		if types[i] < metadata.TextureCoordinateSingle || types[i] > metadata.TextureCoordinate4d {
			return fmt.Errorf("%w: texture set %d has %d components", core.ErrInvalidArgument, i, types[i])
		}
	}
	if err := g.CheckDataWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	req := g.requiredCount()
	for i := 0; i < numSets; i++ {
		if need := req * int(types[i]); len(sets[i]) < need {
			g.mu.Unlock()
			return channelError(fmt.Sprintf("texture set %d", i), len(sets[i]), need)
		}
	}
	g.texSets = g.texSets[:0]
	for i := 0; i < numSets; i++ {
		g.texSets = append(g.texSets, textureSet{typ: types[i], data: slices.Clone(sets[i])})
	}
	if numSets == 0 {
		g.texSets = nil
		g.format &^= metadata.VertexFormatTextured
	} else {
		g.format |= metadata.VertexFormatTextured
	}
	if !g.explicitMap {
		g.setMap = identityMap(numSets)
	}
	g.mu.Unlock()

	g.changed()
	return nil
}

func identityMap(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// SetTextureSetMap maps texture unit i to coordinate set setMap[i] for the
// first numValid units. Several units may share a set. A numValid of zero
// returns to the one set per unit mapping. Units mapped to a set that does
// not exist are skipped when rendering.
func (g *VertexGeometry) SetTextureSetMap(setMap []int, numValid int) error {
	if numValid < 0 || numValid > len(setMap) {
		return fmt.Errorf("%w: set map length %d, %d valid", core.ErrInvalidArgument, len(setMap), numValid)
	}
	for i := 0; i < numValid; i++ {
		if setMap[i] < 0 {
			return fmt.Errorf("%w: texture unit %d mapped to set %d", core.ErrInvalidArgument, i, setMap[i])
		}
	}
	if err := g.CheckDataWrite(g.owner); err != nil {
		return err
	}

	g.mu.Lock()
	if numValid == 0 {
		g.explicitMap = false
		g.setMap = identityMap(len(g.texSets))
	} else {
		g.explicitMap = true
		g.setMap = slices.Clone(setMap[:numValid])
	}
	g.mu.Unlock()

	g.changed()
	return nil
}

func (g *VertexGeometry) TextureSetMap() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.setMap)
}

func (g *VertexGeometry) NumTextureSets() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.texSets)
}

// TextureCoordinates returns the component count and a copy of one set.
func (g *VertexGeometry) TextureCoordinates(set int) (metadata.TextureCoordinateType, []float32, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if set < 0 || set >= len(g.texSets) {
		return 0, nil, fmt.Errorf("%w: texture set %d of %d", core.ErrInvalidArgument, set, len(g.texSets))
	}
	ts := g.texSets[set]
	return ts.typ, slices.Clone(ts.data), nil
}

// VertexFormat reports which channels are present.
func (g *VertexGeometry) VertexFormat() metadata.VertexFormat {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.format
}

// Bounds is the axis aligned box around the valid coordinates.
func (g *VertexGeometry) Bounds() math.Extents3D {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.bounds
}

func (g *VertexGeometry) SetPickable(pickable bool) {
	g.mu.Lock()
	g.pickable = pickable
	g.mu.Unlock()
}

func (g *VertexGeometry) IsPickable() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pickable
}

// PickLineRay intersects the ray origin + t*direction, t >= 0, with the
// geometry and returns the closest hit, or any hit when findAny is set.
func (g *VertexGeometry) PickLineRay(origin, direction math.Vec3, findAny bool) (math.Vec3, bool, error) {
	return g.pick(math.Ray{Origin: origin, Direction: direction}, findAny)
}

// PickLineSegment is PickLineRay limited to the segment from start to end.
func (g *VertexGeometry) PickLineSegment(start, end math.Vec3, findAny bool) (math.Vec3, bool, error) {
	return g.pick(math.Ray{Origin: start, Direction: end.Sub(start), Segment: true}, findAny)
}

func (g *VertexGeometry) pick(r math.Ray, findAny bool) (math.Vec3, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.pickable {
		return math.Vec3{}, false, core.ErrNotPickable
	}
	if g.numCoords == 0 || g.intersect == nil {
		return math.Vec3{}, false, nil
	}
	hit, ok := g.intersect(r, findAny)
	return hit, ok, nil
}

// Compare orders geometry by primitive type, vertex format, vertex count
// and dimension, then channel contents, then indices and strip counts.
func (g *VertexGeometry) Compare(other Geometry) int {
	self, ok := g.owner.(sortable)
	if !ok {
		return 0
	}
	return compareGeometry(self, other)
}

func (g *VertexGeometry) Equal(other Geometry) bool {
	return g.Compare(other) == 0
}
