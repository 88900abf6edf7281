package testutil

import (
	"errors"
	"sync/atomic"

	"github.com/hupe1980/slist/alloc"
)

// ErrInjected is returned by allocations a FailingAllocator refuses.
var ErrInjected = errors.New("injected allocation failure")

// FailingAllocator wraps an allocator and refuses selected allocations.
type FailingAllocator struct {
	next  alloc.Allocator
	calls atomic.Int64
	fail  func(call int64, size int) bool
}

// FailAfter lets the first n allocations through and refuses every later one.
func FailAfter(n int64, next alloc.Allocator) *FailingAllocator {
	return FailWhen(func(call int64, _ int) bool { return call > n }, next)
}

// FailWhen refuses allocation number call (1-based) when fail returns true.
func FailWhen(fail func(call int64, size int) bool, next alloc.Allocator) *FailingAllocator {
	if next == nil {
		next = alloc.Heap{}
	}
	return &FailingAllocator{next: next, fail: fail}
}

// Allocate implements alloc.Allocator.
func (f *FailingAllocator) Allocate(size int) ([]byte, error) {
	if f.fail(f.calls.Add(1), size) {
		return nil, ErrInjected
	}
	return f.next.Allocate(size)
}

// Release implements alloc.Allocator.
func (f *FailingAllocator) Release(buf []byte) error {
	return f.next.Release(buf)
}

// Calls returns the number of Allocate calls seen.
func (f *FailingAllocator) Calls() int64 {
	return f.calls.Load()
}

var _ alloc.Allocator = (*FailingAllocator)(nil)
