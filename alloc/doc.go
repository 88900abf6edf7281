// Package alloc provides the pluggable memory primitives used by slist.
//
// Every record a list owns (the list record, each node, each iterator
// record) is acquired through an Allocator and handed back through the same
// Allocator. Callers substitute arena, pool, budgeted or instrumented
// allocators without touching the list code.
//
// # Allocators
//
//   - Heap: Go heap allocation, release left to the garbage collector (default)
//   - Registry: an allocate slot and a release slot, replaceable at run time
//   - Funcs: adapts a function pair to the Allocator interface
//   - Counting: wraps another allocator and counts live blocks and bytes
//   - Budget: wraps another allocator and charges a resource.Controller
//   - Pool: fixed-size blocks carved from heap or off-heap chunks
//
// # Composition
//
// Allocators wrap each other:
//
//	pool, _ := alloc.NewPool(alloc.DefaultBlockSize, alloc.WithOffHeap())
//	defer pool.Close()
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
//	counting := alloc.NewCounting(alloc.NewBudget(pool, rc))
//
//	l, _ := slist.New(slist.WithAllocator(counting))
//
// # Thread Safety
//
// All allocators in this package are safe for concurrent use.
package alloc
