package slist

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a required list or iterator handle is nil.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAllocationFailed is returned when the allocator could not provide memory.
	// The allocator's error is wrapped alongside it.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrOutOfRange is returned when an index does not name a reachable position.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNotFound is returned by Find when no element matches.
	ErrNotFound = errors.New("value not found")

	// ErrStaleIterator is returned when the list changed shape after the iterator was created.
	ErrStaleIterator = errors.New("stale iterator")

	// ErrClosed is returned when using a closed iterator.
	ErrClosed = errors.New("iterator is closed")

	// ErrDestroyed is returned when using a destroyed list.
	ErrDestroyed = errors.New("list is destroyed")

	// ErrCorrupted is returned when the chain is longer than the nodes the list owns,
	// which only happens if the chain has a cycle.
	ErrCorrupted = errors.New("list chain is corrupted")
)

// IndexError reports an index that does not correspond to a position in the list.
//
// errors.Is(err, ErrOutOfRange) reports true for an *IndexError.
type IndexError struct {
	Op    string
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range", e.Op, e.Index)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }

func allocationError(err error) error {
	return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
}
