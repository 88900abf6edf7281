package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slist/resource"
)

func TestBudget_MemoryLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
	b := NewBudget(nil, rc)

	first, err := b.Allocate(8)
	require.NoError(t, err)
	second, err := b.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, int64(16), rc.MemoryUsage())

	_, err = b.Allocate(8)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	require.NoError(t, b.Release(first))
	assert.Equal(t, int64(8), rc.MemoryUsage())

	third, err := b.Allocate(8)
	require.NoError(t, err)

	require.NoError(t, b.Release(second))
	require.NoError(t, b.Release(third))
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.Same(t, rc, b.Controller())
}

func TestBudget_RateLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{AllocationsPerSec: 1, AllocationBurst: 1})
	b := NewBudget(Heap{}, rc)

	_, err := b.Allocate(8)
	require.NoError(t, err)

	_, err = b.Allocate(8)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrRateLimited)
}

func TestBudget_RefundsOnInnerFailure(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	p, err := NewPool(8)
	require.NoError(t, err)
	defer p.Close()

	b := NewBudget(p, rc)

	// Pool rejects requests above its block size.
	_, err = b.Allocate(16)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestBudget_NoRefundOnRejectedRelease(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	p, err := NewPool(8)
	require.NoError(t, err)
	defer p.Close()

	b := NewBudget(p, rc)
	buf, err := b.Allocate(8)
	require.NoError(t, err)

	require.NoError(t, b.Release(buf))
	assert.ErrorIs(t, b.Release(buf), ErrDoubleRelease)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestBudget_InvalidSize(t *testing.T) {
	b := NewBudget(nil, nil)

	_, err := b.Allocate(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = b.Allocate(-4)
	assert.ErrorIs(t, err, ErrInvalidSize)

	// Without a controller the budget is unlimited.
	buf, err := b.Allocate(1 << 10)
	require.NoError(t, err)
	assert.NoError(t, b.Release(buf))
}

func TestBudget_RefundsChargedSize(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	p, err := NewPool(8)
	require.NoError(t, err)
	defer p.Close()

	b := NewBudget(p, rc)
	buf, err := b.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), rc.MemoryUsage())

	// A shortened block still refunds the full charge.
	require.NoError(t, b.Release(buf[:4]))
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestBudget_UnchargedBlock(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
	b := NewBudget(nil, rc)

	charged, err := b.Allocate(8)
	require.NoError(t, err)

	require.NoError(t, b.Release(make([]byte, 8)))
	assert.Equal(t, int64(8), rc.MemoryUsage())

	require.NoError(t, b.Release(charged))
	assert.Equal(t, int64(0), rc.MemoryUsage())
}
