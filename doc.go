// Package slist provides a singly-linked list of uint32 values whose memory
// primitives are supplied by the caller.
//
// # Quick Start
//
//	l, err := slist.New()
//	if err != nil { ... }
//	defer l.Destroy()
//
//	_ = l.InsertFront(10)    // [10]
//	_ = l.InsertEnd(80)      // [10 80]
//	_ = l.InsertAt(1, 20)    // [10 20 80]
//
//	idx, err := l.Find(20)   // 1, nil
//	_ = l.Remove(0)          // [20 80]
//
// # Pluggable Allocation
//
// The list record, every node and every iterator record are acquired from the
// alloc.Allocator passed with WithAllocator and released back to it. The
// default is alloc.Heap. Pools, off-heap memory, budgets and instrumentation
// are provided by the alloc package and compose:
//
//	pool, _ := alloc.NewPool(alloc.DefaultBlockSize, alloc.WithOffHeap())
//	defer pool.Close()
//
//	counting := alloc.NewCounting(pool)
//	l, _ := slist.New(slist.WithAllocator(counting))
//	// ...
//	_ = l.Destroy()
//	fmt.Println(counting.Live()) // 0
//
// # Errors
//
// Operations return explicit errors instead of sentinel values:
//
//   - ErrInvalidArgument: nil list or iterator
//   - ErrAllocationFailed: the allocator refused (wraps the allocator's error)
//   - *IndexError (errors.Is ErrOutOfRange): index does not name a position
//   - ErrNotFound: Find miss
//   - ErrStaleIterator: the list changed shape under an iterator
//
// A failing insert or remove leaves the list exactly as it was.
//
// # Iterators
//
// NewIterator returns a forward cursor starting at any index. Iterators do not
// own nodes and are invalidated by any structural change to their list;
// invalidation is detected through the list's generation counter and reported
// by Err instead of reading freed nodes.
//
// # Thread Safety
//
// A List and its iterators must be used by one goroutine at a time. The
// allocators in package alloc are safe for concurrent use and may be shared
// between lists owned by different goroutines.
package slist
