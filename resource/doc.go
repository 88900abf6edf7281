// Package resource implements the Controller that governs allocator memory.
//
// The Controller provides two fail-fast checks that a governed allocator
// runs before handing out memory:
//
//   - Memory: track and cap the bytes outstanding across every allocator
//     sharing the controller (weighted semaphore)
//   - Allocation rate: cap the number of allocations per second (token bucket)
//
// # Memory Management
//
// AcquireMemory never blocks. It returns ErrMemoryLimitExceeded if the
// limit would be exceeded and leaves the usage untouched:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 20, // 1MB limit
//	})
//
//	if err := rc.AcquireMemory(64); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides what to do
//	}
//	defer rc.ReleaseMemory(64)
//
// # Allocation Rate
//
//	rc := resource.NewController(resource.Config{
//	    AllocationsPerSec: 10_000,
//	})
//
//	if err := rc.AcquireAllocation(); err != nil {
//	    // ErrRateLimited
//	}
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional governance without nil checks everywhere.
package resource
