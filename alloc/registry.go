package alloc

import "sync"

// Registry holds an allocate slot and a release slot.
//
// Both slots start out with the Heap primitives and always hold a valid
// function: registering nil is rejected and leaves the previous function in
// place. The zero value is ready to use.
//
// A Registry is an ordinary value. Give each list (or group of lists) the
// registry it should use via slist.WithAllocator instead of sharing one
// process-wide.
type Registry struct {
	mu       sync.RWMutex
	allocate AllocateFunc
	release  ReleaseFunc
}

// NewRegistry returns a Registry with the Heap primitives installed.
func NewRegistry() *Registry {
	return &Registry{
		allocate: Heap{}.Allocate,
		release:  Heap{}.Release,
	}
}

// RegisterAllocate installs fn as the allocation primitive.
func (r *Registry) RegisterAllocate(fn AllocateFunc) error {
	if fn == nil {
		return ErrNilFunc
	}
	r.mu.Lock()
	r.allocate = fn
	r.mu.Unlock()
	return nil
}

// RegisterRelease installs fn as the release primitive.
func (r *Registry) RegisterRelease(fn ReleaseFunc) error {
	if fn == nil {
		return ErrNilFunc
	}
	r.mu.Lock()
	r.release = fn
	r.mu.Unlock()
	return nil
}

// Allocate routes through the current allocation primitive.
func (r *Registry) Allocate(size int) ([]byte, error) {
	r.mu.RLock()
	fn := r.allocate
	r.mu.RUnlock()
	if fn == nil {
		return Heap{}.Allocate(size)
	}
	return fn(size)
}

// Release routes through the current release primitive.
func (r *Registry) Release(buf []byte) error {
	r.mu.RLock()
	fn := r.release
	r.mu.RUnlock()
	if fn == nil {
		return Heap{}.Release(buf)
	}
	return fn(buf)
}

var _ Allocator = (*Registry)(nil)
