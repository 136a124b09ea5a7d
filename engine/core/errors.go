package core

import (
	"errors"
)

var (
	// ErrInvalidArgument is returned when a size, range or enumerated
	// argument is malformed. Nothing is modified when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidWriteTiming is returned when a live node is modified outside
	// of the update phase granted by its UpdateHandler.
	ErrInvalidWriteTiming = errors.New("write not permitted at this time")
	// ErrNotPickable is returned when a pick request reaches an object that
	// has been flagged as not pickable.
	ErrNotPickable = errors.New("object is not pickable")
	// ErrInvalidFieldType is returned by typed getters when the stored value
	// has a different element type.
	ErrInvalidFieldType = errors.New("invalid field type")
	// ErrUnknownUniform is returned when a named uniform has never been set.
	ErrUnknownUniform = errors.New("unknown uniform")
	// ErrContextReleased is returned when a context id is used after it has
	// been handed back to the registry.
	ErrContextReleased = errors.New("context has been released")
)
