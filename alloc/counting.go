package alloc

import (
	"fmt"
	"sync/atomic"
)

// CountingStats is a snapshot of Counting state.
type CountingStats struct {
	Allocations     int64 // successful Allocate calls
	Releases        int64 // successful Release calls
	AllocFailures   int64
	ReleaseFailures int64
	LiveBlocks      int64 // Allocations - Releases
	LiveBytes       int64
	PeakLiveBytes   int64
}

// Counting wraps an Allocator and records what flows through it.
// It is the instrumented allocator used to observe leaks.
type Counting struct {
	next Allocator

	allocations     atomic.Int64
	releases        atomic.Int64
	allocFailures   atomic.Int64
	releaseFailures atomic.Int64
	liveBytes       atomic.Int64
	peakLiveBytes   atomic.Int64
}

// NewCounting wraps next. A nil next counts Heap allocations.
func NewCounting(next Allocator) *Counting {
	if next == nil {
		next = Heap{}
	}
	return &Counting{next: next}
}

// Allocate implements Allocator.
func (c *Counting) Allocate(size int) ([]byte, error) {
	buf, err := c.next.Allocate(size)
	if err != nil {
		c.allocFailures.Add(1)
		return nil, err
	}

	c.allocations.Add(1)
	live := c.liveBytes.Add(int64(len(buf)))
	for {
		peak := c.peakLiveBytes.Load()
		if live <= peak || c.peakLiveBytes.CompareAndSwap(peak, live) {
			break
		}
	}
	return buf, nil
}

// Release implements Allocator.
func (c *Counting) Release(buf []byte) error {
	if err := c.next.Release(buf); err != nil {
		c.releaseFailures.Add(1)
		return err
	}
	c.releases.Add(1)
	c.liveBytes.Add(-int64(len(buf)))
	return nil
}

// Live returns the number of blocks allocated and not yet released.
func (c *Counting) Live() int64 {
	return c.allocations.Load() - c.releases.Load()
}

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() CountingStats {
	allocs := c.allocations.Load()
	releases := c.releases.Load()
	return CountingStats{
		Allocations:     allocs,
		Releases:        releases,
		AllocFailures:   c.allocFailures.Load(),
		ReleaseFailures: c.releaseFailures.Load(),
		LiveBlocks:      allocs - releases,
		LiveBytes:       c.liveBytes.Load(),
		PeakLiveBytes:   c.peakLiveBytes.Load(),
	}
}

func (c *Counting) String() string {
	s := c.Stats()
	return fmt.Sprintf(
		"Counting{allocs: %d, releases: %d, live: %d blocks / %d B, peak: %d B, failures: %d/%d}",
		s.Allocations,
		s.Releases,
		s.LiveBlocks,
		s.LiveBytes,
		s.PeakLiveBytes,
		s.AllocFailures,
		s.ReleaseFailures,
	)
}

var _ Allocator = (*Counting)(nil)
