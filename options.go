package slist

import (
	"log/slog"

	"github.com/hupe1980/slist/alloc"
)

type options struct {
	allocator        alloc.Allocator
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a List.
type Option func(*options)

// WithAllocator configures the allocator every list record, node and iterator
// record is acquired from and released to.
//
// If nil is passed, alloc.Heap is used.
//
// Example with a fixed-block pool:
//
//	pool, _ := alloc.NewPool(alloc.DefaultBlockSize)
//	defer pool.Close()
//	l, _ := slist.New(slist.WithAllocator(pool))
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = alloc.Heap{}
		}
		o.allocator = a
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &slist.BasicMetricsCollector{}
//	l, _ := slist.New(slist.WithMetricsCollector(metrics))
//	// ... use l ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, errors: %d\n", stats.InsertCount, stats.InsertErrors)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := slist.NewJSONLogger(slog.LevelDebug)
//	l, _ := slist.New(slist.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		allocator:        alloc.Heap{},
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
