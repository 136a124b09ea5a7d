package core

import (
	"fmt"
	"sync"
)

// ContextRegistry hands out the small integer identifiers used to key every
// per-context resource table. Released identifiers are reused lowest first,
// which keeps the tables dense.
type ContextRegistry struct {
	mu     sync.Mutex
	owners []interface{}
}

func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{}
}

// Acquire returns a free identifier and records owner against it.
func (r *ContextRegistry) Acquire(owner interface{}) uint32 {
	if owner == nil {
		owner = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.owners {
		// Existing free spot. Take it.
		if r.owners[i] == nil {
			r.owners[i] = owner
			return uint32(i)
		}
	}
	r.owners = append(r.owners, owner)
	return uint32(len(r.owners) - 1)
}

// Release makes id available again.
func (r *ContextRegistry) Release(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(id) >= len(r.owners) {
		return fmt.Errorf("%w: context id %d out of range (max=%d)", ErrInvalidArgument, id, len(r.owners))
	}
	if r.owners[id] == nil {
		return fmt.Errorf("%w: context id %d", ErrContextReleased, id)
	}
	r.owners[id] = nil
	return nil
}

// Owner returns whatever was registered with id, or nil.
func (r *ContextRegistry) Owner(id uint32) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(id) >= len(r.owners) {
		return nil
	}
	return r.owners[id]
}

// Active lists the identifiers currently in use, in ascending order.
func (r *ContextRegistry) Active() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint32, 0, len(r.owners))
	for i, o := range r.owners {
		if o != nil {
			ids = append(ids, uint32(i))
		}
	}
	return ids
}
