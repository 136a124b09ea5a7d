package core

import (
	"fmt"
	"sync"
)

// UpdateHandler is the authority that decides when live scene objects may
// be changed. The frame driver grants writes during its update phase and
// refuses them while any context is rendering.
type UpdateHandler interface {
	// IsDataWritePermitted reports whether obj may change data that does
	// not affect its bounds (colours, normals, texture pixels...).
	IsDataWritePermitted(obj interface{}) bool
	// IsBoundsWritePermitted reports whether obj may change data that
	// affects its bounds (coordinates, indices...).
	IsBoundsWritePermitted(obj interface{}) bool
}

// Node holds the liveness state shared by every scene object. A node that
// is not live can always be written; a live node defers to its handler.
type Node struct {
	mu      sync.RWMutex
	handler UpdateHandler
	live    bool
}

// SetLive attaches the node to a running scene.
func (n *Node) SetLive(h UpdateHandler) {
	n.mu.Lock()
	n.handler = h
	n.live = true
	n.mu.Unlock()
}

// ClearLive detaches the node from its scene.
func (n *Node) ClearLive() {
	n.mu.Lock()
	n.handler = nil
	n.live = false
	n.mu.Unlock()
}

func (n *Node) IsLive() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.live
}

// CheckDataWrite returns ErrInvalidWriteTiming when obj is live and its
// handler does not currently permit data writes.
func (n *Node) CheckDataWrite(obj interface{}) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.live && n.handler != nil && !n.handler.IsDataWritePermitted(obj) {
		return fmt.Errorf("%w: data change outside the update phase", ErrInvalidWriteTiming)
	}
	return nil
}

// CheckBoundsWrite is CheckDataWrite for changes that move the bounds.
func (n *Node) CheckBoundsWrite(obj interface{}) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.live && n.handler != nil && !n.handler.IsBoundsWritePermitted(obj) {
		return fmt.Errorf("%w: bounds change outside the update phase", ErrInvalidWriteTiming)
	}
	return nil
}
