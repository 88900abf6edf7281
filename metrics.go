package slist

import (
	"errors"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordRemove is called after each remove operation.
	RecordRemove(duration time.Duration, err error)

	// RecordFind is called after each find operation.
	// err is ErrNotFound on a miss.
	RecordFind(duration time.Duration, err error)

	// RecordIterator is called after each iterator construction.
	RecordIterator(err error)

	// RecordDestroy is called once per list teardown with the number of
	// nodes released.
	RecordDestroy(nodes int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error) {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error) {}
func (NoopMetricsCollector) RecordFind(time.Duration, error)   {}
func (NoopMetricsCollector) RecordIterator(error)              {}
func (NoopMetricsCollector) RecordDestroy(int, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	RemoveCount      atomic.Int64
	RemoveErrors     atomic.Int64
	FindCount        atomic.Int64
	FindMisses       atomic.Int64
	IteratorCount    atomic.Int64
	IteratorErrors   atomic.Int64
	DestroyCount     atomic.Int64
	DestroyErrors    atomic.Int64
	NodesReleased    atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(duration time.Duration, err error) {
	b.FindCount.Add(1)
	if errors.Is(err, ErrNotFound) {
		b.FindMisses.Add(1)
	}
}

// RecordIterator implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIterator(err error) {
	b.IteratorCount.Add(1)
	if err != nil {
		b.IteratorErrors.Add(1)
	}
}

// RecordDestroy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDestroy(nodes int, err error) {
	b.DestroyCount.Add(1)
	b.NodesReleased.Add(int64(nodes))
	if err != nil {
		b.DestroyErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: b.getAvgInsertNanos(),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		FindCount:      b.FindCount.Load(),
		FindMisses:     b.FindMisses.Load(),
		IteratorCount:  b.IteratorCount.Load(),
		IteratorErrors: b.IteratorErrors.Load(),
		DestroyCount:   b.DestroyCount.Load(),
		DestroyErrors:  b.DestroyErrors.Load(),
		NodesReleased:  b.NodesReleased.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgInsertNanos() int64 {
	count := b.InsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.InsertTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	RemoveCount    int64
	RemoveErrors   int64
	FindCount      int64
	FindMisses     int64
	IteratorCount  int64
	IteratorErrors int64
	DestroyCount   int64
	DestroyErrors  int64
	NodesReleased  int64
}
