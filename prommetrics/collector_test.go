package prommetrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slist"
	"github.com/hupe1980/slist/alloc"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	l, err := slist.New(slist.WithMetricsCollector(c))
	require.NoError(t, err)

	require.NoError(t, l.InsertFront(1))
	require.NoError(t, l.InsertEnd(2))
	require.Error(t, l.InsertAt(9, 3))
	_, err = l.Find(5)
	require.ErrorIs(t, err, slist.ErrNotFound)
	require.NoError(t, l.Remove(0))
	_, err = l.NewIterator(0)
	require.NoError(t, err)
	require.NoError(t, l.Destroy())

	assert.InDelta(t, 2, testutil.ToFloat64(c.ops.WithLabelValues("insert", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ops.WithLabelValues("insert", "out_of_range")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ops.WithLabelValues("find", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ops.WithLabelValues("remove", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ops.WithLabelValues("iterator", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ops.WithLabelValues("destroy", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.nodesReleased), 0)

	// Four insert/remove/find series carry a histogram.
	assert.Equal(t, 4, testutil.CollectAndCount(c.opLatency))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}

func TestCollector_WatchAllocator(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	counting := alloc.NewCounting(nil)
	require.NoError(t, c.WatchAllocator("heap", counting))

	l, err := slist.New(slist.WithAllocator(counting), slist.WithMetricsCollector(c))
	require.NoError(t, err)
	require.NoError(t, l.InsertFront(1))
	require.NoError(t, l.InsertFront(2))

	expected := `
# HELP slist_allocator_live_blocks Blocks allocated and not yet released
# TYPE slist_allocator_live_blocks gauge
slist_allocator_live_blocks{allocator="heap"} 3
# HELP slist_allocator_live_bytes Bytes allocated and not yet released
# TYPE slist_allocator_live_bytes gauge
slist_allocator_live_bytes{allocator="heap"} 20
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"slist_allocator_live_blocks", "slist_allocator_live_bytes"))

	require.NoError(t, l.Destroy())

	expected = `
# HELP slist_allocator_live_blocks Blocks allocated and not yet released
# TYPE slist_allocator_live_blocks gauge
slist_allocator_live_blocks{allocator="heap"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"slist_allocator_live_blocks"))
}

func TestCollector_WatchAllocatorRollsBack(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	// Occupy the last metric so registration fails part way through.
	conflict := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "allocator",
		Name:        "allocation_failures_total",
		Help:        "Allocate calls that failed",
		ConstLabels: prometheus.Labels{"allocator": "heap"},
	})
	require.NoError(t, reg.Register(conflict))

	counting := alloc.NewCounting(nil)
	err = c.WatchAllocator("heap", counting)
	var are prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &are)

	n, err := testutil.GatherAndCount(reg, "slist_allocator_live_blocks", "slist_allocator_live_bytes")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Once the conflict is gone the same name registers cleanly.
	require.True(t, reg.Unregister(conflict))
	require.NoError(t, c.WatchAllocator("heap", counting))
}

func TestNew_RollsBackOnConflict(t *testing.T) {
	reg := prometheus.NewRegistry()

	conflict := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "destroy_nodes_released_total",
		Help:      "Nodes released by list teardown",
	})
	require.NoError(t, reg.Register(conflict))

	_, err := New(reg)
	require.Error(t, err)

	require.True(t, reg.Unregister(conflict))
	_, err = New(reg)
	require.NoError(t, err)
}
