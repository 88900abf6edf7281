package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/slist/internal/conv"
	"github.com/hupe1980/slist/resource"
)

// Budget wraps an Allocator and charges every block against a
// resource.Controller. Allocations the controller refuses fail fast with
// ErrAllocationFailed wrapping the controller's error.
//
// Several Budget allocators may share one Controller to enforce a single
// limit across independent allocators.
//
// The charged size is remembered per block, so Release refunds what Allocate
// charged even if the caller hands back a re-sliced block.
type Budget struct {
	next Allocator
	rc   *resource.Controller

	mu      sync.Mutex
	charged map[*byte]int64 // keyed by block start
}

// NewBudget wraps next. A nil next governs Heap allocations; a nil
// controller disables all limits.
func NewBudget(next Allocator, rc *resource.Controller) *Budget {
	if next == nil {
		next = Heap{}
	}
	return &Budget{next: next, rc: rc, charged: make(map[*byte]int64)}
}

// Allocate implements Allocator.
func (b *Budget) Allocate(size int) ([]byte, error) {
	n, err := conv.IntToInt64(size)
	if err != nil || n == 0 {
		return nil, ErrInvalidSize
	}

	if err := b.rc.AcquireAllocation(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	if err := b.rc.AcquireMemory(n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	buf, err := b.next.Allocate(size)
	if err != nil {
		b.rc.ReleaseMemory(n)
		return nil, err
	}

	b.mu.Lock()
	b.charged[unsafe.SliceData(buf)] = n
	b.mu.Unlock()
	return buf, nil
}

// Release implements Allocator. The budget is refunded only when the
// wrapped allocator accepts the block. Blocks this Budget never charged are
// passed through without a refund.
func (b *Budget) Release(buf []byte) error {
	if err := b.next.Release(buf); err != nil {
		return err
	}

	key := unsafe.SliceData(buf)
	b.mu.Lock()
	n, ok := b.charged[key]
	delete(b.charged, key)
	b.mu.Unlock()

	if ok {
		b.rc.ReleaseMemory(n)
	}
	return nil
}

// Controller returns the controller charged by this allocator.
func (b *Budget) Controller() *resource.Controller {
	return b.rc
}

var _ Allocator = (*Budget)(nil)
