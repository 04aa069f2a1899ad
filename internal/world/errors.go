package world

import (
	"errors"
	"fmt"
)

// Domain errors for world mutations.
var (
	// ErrInvalidMass indicates a movable body with a zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("world: movable body needs a positive finite mass")

	// ErrInvalidGeometry indicates a non-finite position or a non-positive size.
	ErrInvalidGeometry = errors.New("world: invalid square geometry")

	// ErrForceIndex indicates a force index outside the force list.
	ErrForceIndex = errors.New("world: force index out of range")
)

// ForceIndexError reports which index was requested and how many forces exist.
type ForceIndexError struct {
	Index int
	Len   int
}

func (e *ForceIndexError) Error() string {
	return fmt.Sprintf("%v: index %d, have %d", ErrForceIndex, e.Index, e.Len)
}

func (e *ForceIndexError) Unwrap() error {
	return ErrForceIndex
}
