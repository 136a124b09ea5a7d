// Package cache keeps the per-context half of a scene resource: the GL name
// a context allocated for it and which parts of its payload that context
// has not seen yet.
//
// One logical resource (a texture, a vertex buffer) may be realised on any
// number of contexts. Each context gets its own Entry, created on first use
// and destroyed only through Release on that same context, because GL names
// cannot be moved between contexts.
package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
)

// ErrAllocationFailed is returned by Acquire when the driver handed back the
// invalid name 0.
var ErrAllocationFailed = errors.New("gl object allocation failed")

// Flags says which parts of a resource's payload are stale in a context.
type Flags uint8

const (
	DirtyData Flags = 1 << iota
	DirtyImage
	DirtyParams

	DirtyAll = DirtyData | DirtyImage | DirtyParams
)

// Entry is one context's view of a resource. Render paths lock it for the
// duration of their work in that context.
type Entry[T any] struct {
	sync.Mutex
	Context gl.ContextID
	Handle  uint32
	Dirty   Flags
	// State is whatever extra per-context bookkeeping the owner needs.
	State T
}

// Take clears and returns the requested dirty bits. The caller must hold
// the entry lock.
func (e *Entry[T]) Take(mask Flags) Flags {
	f := e.Dirty & mask
	e.Dirty &^= mask
	return f
}

// AllocFunc creates a GL object in the current context.
type AllocFunc func(f gl.Functions) uint32

// FreeFunc deletes a GL object created by the matching AllocFunc.
type FreeFunc func(f gl.Functions, handle uint32)

// Resource maps context ids to entries. Ids are the small integers handed
// out by core.ContextRegistry, so the table is a plain slice.
type Resource[T any] struct {
	mu      sync.Mutex
	entries []*Entry[T]
	alloc   AllocFunc
	free    FreeFunc
}

func New[T any](alloc AllocFunc, free FreeFunc) *Resource[T] {
	return &Resource[T]{
		alloc: alloc,
		free:  free,
	}
}

// NewBuffers returns a table of buffer objects.
func NewBuffers[T any]() *Resource[T] {
	return New[T](
		func(f gl.Functions) uint32 { return f.GenBuffer() },
		func(f gl.Functions, h uint32) { f.DeleteBuffer(h) },
	)
}

// NewTextures returns a table of texture objects.
func NewTextures[T any]() *Resource[T] {
	return New[T](
		func(f gl.Functions) uint32 { return f.GenTexture() },
		func(f gl.Functions, h uint32) { f.DeleteTexture(h) },
	)
}

// Acquire returns the entry for ctx, allocating a GL object on the first
// call in that context. A new entry starts with every dirty bit set so the
// caller uploads everything. Nothing is stored when allocation fails.
func (r *Resource[T]) Acquire(ctx *gl.Context) (*Entry[T], bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := int(ctx.ID)
	if id < len(r.entries) && r.entries[id] != nil {
		return r.entries[id], false, nil
	}

	handle := r.alloc(ctx.GL)
	if handle == 0 {
		return nil, false, fmt.Errorf("%w: context %d", ErrAllocationFailed, ctx.ID)
	}
	for len(r.entries) <= id {
		r.entries = append(r.entries, nil)
	}
	e := &Entry[T]{
		Context: ctx.ID,
		Handle:  handle,
		Dirty:   DirtyAll,
	}
	r.entries[id] = e
	return e, true, nil
}

// Lookup returns the entry for id without allocating, or nil.
func (r *Resource[T]) Lookup(id gl.ContextID) *Entry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(id) >= len(r.entries) {
		return nil
	}
	return r.entries[id]
}

// MarkDirty sets flags on every context the resource lives in. Contexts
// that have not acquired it yet start fully dirty anyway.
func (r *Resource[T]) MarkDirty(flags Flags) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e == nil {
			continue
		}
		e.Lock()
		e.Dirty |= flags
		e.Unlock()
	}
}

// MarkContextDirty sets flags on a single context's entry, if it exists.
func (r *Resource[T]) MarkContextDirty(id gl.ContextID, flags Flags) {
	if e := r.Lookup(id); e != nil {
		e.Lock()
		e.Dirty |= flags
		e.Unlock()
	}
}

// Each calls fn on every live entry with the entry lock held.
func (r *Resource[T]) Each(fn func(e *Entry[T])) {
	r.mu.Lock()
	entries := make([]*Entry[T], 0, len(r.entries))
	for _, e := range r.entries {
		if e != nil {
			entries = append(entries, e)
		}
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.Lock()
		fn(e)
		e.Unlock()
	}
}

// Release deletes the GL object held for ctx through ctx itself and forgets
// the entry. Other contexts are untouched. Releasing a context that never
// acquired the resource is a no-op.
func (r *Resource[T]) Release(ctx *gl.Context) {
	r.mu.Lock()
	id := int(ctx.ID)
	if id >= len(r.entries) || r.entries[id] == nil {
		r.mu.Unlock()
		return
	}
	e := r.entries[id]
	r.entries[id] = nil
	r.mu.Unlock()

	e.Lock()
	r.free(ctx.GL, e.Handle)
	e.Handle = 0
	e.Unlock()
}

// Contexts lists the contexts currently holding an entry, ascending.
func (r *Resource[T]) Contexts() []gl.ContextID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]gl.ContextID, 0, len(r.entries))
	for i, e := range r.entries {
		if e != nil {
			ids = append(ids, gl.ContextID(i))
		}
	}
	return ids
}
