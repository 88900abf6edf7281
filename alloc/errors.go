package alloc

import "errors"

var (
	// ErrNilFunc is returned when a nil primitive is registered.
	ErrNilFunc = errors.New("alloc: nil function")

	// ErrInvalidSize is returned when a requested size is not positive or
	// exceeds what the allocator can serve.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrAllocationFailed is returned when a governed allocation is refused.
	ErrAllocationFailed = errors.New("alloc: allocation failed")

	// ErrDoubleRelease is returned when a block is released twice.
	ErrDoubleRelease = errors.New("alloc: block already released")

	// ErrForeignBlock is returned when a block was not handed out by this allocator.
	ErrForeignBlock = errors.New("alloc: block not owned by allocator")

	// ErrPoolExhausted is returned when a pool reached its chunk limit.
	ErrPoolExhausted = errors.New("alloc: pool exhausted")

	// ErrPoolClosed is returned when using a closed pool.
	ErrPoolClosed = errors.New("alloc: pool is closed")
)
