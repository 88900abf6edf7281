package alloc

// Allocator acquires and releases blocks of memory.
//
// Allocate returns a block of exactly size bytes. Release takes back a block
// previously returned by Allocate on the same Allocator, unmodified in length.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Release(buf []byte) error
}

// AllocateFunc is the allocation primitive held by a Registry slot.
type AllocateFunc func(size int) ([]byte, error)

// ReleaseFunc is the release primitive held by a Registry slot.
type ReleaseFunc func(buf []byte) error

// Heap allocates from the Go heap. Release is a no-op; the garbage
// collector reclaims blocks once they are unreachable.
type Heap struct{}

// Allocate returns a zeroed block of size bytes.
func (Heap) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return make([]byte, size), nil
}

// Release implements Allocator.
func (Heap) Release([]byte) error {
	return nil
}

var _ Allocator = Heap{}
