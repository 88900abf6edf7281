// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// MapAnon returns read-write memory outside the Go garbage collector's
// control. The pool allocator carves fixed-size node blocks out of such
// mappings when off-heap mode is enabled.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advice is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure
// no goroutine touches Bytes() after Close returns.
package mmap
