package geometry

import (
	"github.com/j3d/aviatrix3d-sub002/engine/scene/state"
)

func compareGeometry(a sortable, other Geometry) int {
	if other == nil {
		return 1
	}
	b, ok := other.(sortable)
	if !ok {
		// Foreign geometry sorts after ours.
		return -1
	}
	ga, gb := a.base(), b.base()
	if ga == gb {
		return 0
	}
	// Lock in creation order so Compare(a, b) and Compare(b, a) cannot
	// deadlock behind a waiting writer.
	first, second := ga, gb
	if second.seq < first.seq {
		first, second = second, first
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()

	ka, kb := a.sortKey(), b.sortKey()
	if c := state.Compare(ka.kind, kb.kind); c != 0 {
		return c
	}

	if c := state.Compare(ga.format, gb.format); c != 0 {
		return c
	}
	if c := state.Compare(ga.numCoords, gb.numCoords); c != 0 {
		return c
	}
	if c := state.Compare(ga.vertexDim, gb.vertexDim); c != 0 {
		return c
	}
	for _, pair := range [][2][]float32{
		{ga.coords, gb.coords},
		{ga.normals, gb.normals},
		{ga.colors, gb.colors},
		{ga.secondary, gb.secondary},
		{ga.fog, gb.fog},
	} {
		if c := state.CompareSlices(pair[0], pair[1]); c != 0 {
			return c
		}
	}
	if c := state.CompareSlices(ga.setMap, gb.setMap); c != 0 {
		return c
	}
	if c := compareTextureSets(ga.texSets, gb.texSets); c != 0 {
		return c
	}
	if c := compareAttributes(ga.attribs, gb.attribs); c != 0 {
		return c
	}
	if c := state.CompareSlices(ka.indices, kb.indices); c != 0 {
		return c
	}
	return state.CompareSlices(ka.counts, kb.counts)
}

func compareTextureSets(a, b []textureSet) int {
	if c := state.Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := state.Compare(a[i].typ, b[i].typ); c != 0 {
			return c
		}
		if c := state.CompareSlices(a[i].data, b[i].data); c != 0 {
			return c
		}
	}
	return 0
}

func compareAttributes(a, b []*attribute) int {
	if c := state.Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		x, y := a[i], b[i]
		if c := state.Chain(
			state.Compare(x.index, y.index),
			state.Compare(x.size, y.size),
			state.Compare(x.typ, y.typ),
			state.CompareBools(x.normalize, y.normalize),
			state.CompareBools(x.signed, y.signed),
		); c != 0 {
			return c
		}
		if c := state.CompareSlices(x.bytes(), y.bytes()); c != 0 {
			return c
		}
	}
	return 0
}
