package alloc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slist/internal/mem"
)

func TestPool_New(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := NewPool(0)
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, DefaultBlockSize, p.BlockSize())
		s := p.Stats()
		assert.Equal(t, 0, s.Chunks)
		assert.False(t, s.OffHeap)
	})

	t.Run("block id space", func(t *testing.T) {
		_, err := NewPool(8, WithBlocksPerChunk(1<<20), WithMaxChunks(1<<20))
		assert.ErrorIs(t, err, ErrInvalidSize)
	})
}

func TestPool_AllocateRelease(t *testing.T) {
	p, err := NewPool(8, WithBlocksPerChunk(4))
	require.NoError(t, err)
	defer p.Close()

	buf, err := p.Allocate(8)
	require.NoError(t, err)
	assert.Len(t, buf, 8)
	assert.Equal(t, 8, cap(buf))

	small, err := p.Allocate(4)
	require.NoError(t, err)
	assert.Len(t, small, 4)
	assert.Equal(t, 4, cap(small))

	s := p.Stats()
	assert.Equal(t, 1, s.Chunks)
	assert.Equal(t, 4, s.Capacity)
	assert.Equal(t, uint64(2), s.Outstanding)

	require.NoError(t, p.Release(buf))
	require.NoError(t, p.Release(small))
	assert.Equal(t, uint64(0), p.Stats().Outstanding)
}

func TestPool_ReuseZeroesBlocks(t *testing.T) {
	p, err := NewPool(8, WithBlocksPerChunk(1))
	require.NoError(t, err)
	defer p.Close()

	buf, err := p.Allocate(8)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 0xFF
	}
	require.NoError(t, p.Release(buf))

	again, err := p.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), again)
	assert.Equal(t, 1, p.Stats().Chunks)
}

func TestPool_HeapChunksAligned(t *testing.T) {
	p, err := NewPool(8, WithBlocksPerChunk(8))
	require.NoError(t, err)
	defer p.Close()

	// The first block handed out is the start of a fresh chunk.
	buf, err := p.Allocate(8)
	require.NoError(t, err)
	assert.True(t, mem.IsAligned(buf))
}

func TestPool_Grows(t *testing.T) {
	p, err := NewPool(8, WithBlocksPerChunk(2))
	require.NoError(t, err)
	defer p.Close()

	bufs := make([][]byte, 0, 5)
	for range 5 {
		buf, err := p.Allocate(8)
		require.NoError(t, err)
		bufs = append(bufs, buf)
	}
	assert.Equal(t, 3, p.Stats().Chunks)

	for _, buf := range bufs {
		require.NoError(t, p.Release(buf))
	}
	assert.Equal(t, uint64(5), p.Stats().Releases)
}

func TestPool_Errors(t *testing.T) {
	t.Run("invalid size", func(t *testing.T) {
		p, err := NewPool(8)
		require.NoError(t, err)
		defer p.Close()

		_, err = p.Allocate(0)
		assert.ErrorIs(t, err, ErrInvalidSize)
		_, err = p.Allocate(9)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("double release", func(t *testing.T) {
		p, err := NewPool(8)
		require.NoError(t, err)
		defer p.Close()

		buf, err := p.Allocate(8)
		require.NoError(t, err)
		require.NoError(t, p.Release(buf))
		assert.ErrorIs(t, p.Release(buf), ErrDoubleRelease)
	})

	t.Run("foreign block", func(t *testing.T) {
		p, err := NewPool(8)
		require.NoError(t, err)
		defer p.Close()

		buf, err := p.Allocate(8)
		require.NoError(t, err)

		assert.ErrorIs(t, p.Release(make([]byte, 8)), ErrForeignBlock)
		assert.ErrorIs(t, p.Release(nil), ErrForeignBlock)
		// Misaligned view into a real block.
		assert.ErrorIs(t, p.Release(buf[1:]), ErrForeignBlock)
	})

	t.Run("exhausted", func(t *testing.T) {
		p, err := NewPool(8, WithBlocksPerChunk(2), WithMaxChunks(1))
		require.NoError(t, err)
		defer p.Close()

		_, err = p.Allocate(8)
		require.NoError(t, err)
		_, err = p.Allocate(8)
		require.NoError(t, err)
		_, err = p.Allocate(8)
		assert.ErrorIs(t, err, ErrPoolExhausted)
	})

	t.Run("closed", func(t *testing.T) {
		p, err := NewPool(8)
		require.NoError(t, err)

		buf, err := p.Allocate(8)
		require.NoError(t, err)

		require.NoError(t, p.Close())
		require.NoError(t, p.Close())

		_, err = p.Allocate(8)
		assert.ErrorIs(t, err, ErrPoolClosed)
		assert.ErrorIs(t, p.Release(buf), ErrPoolClosed)
	})
}

func TestPool_OffHeap(t *testing.T) {
	p, err := NewPool(8, WithOffHeap(), WithBlocksPerChunk(1024))
	require.NoError(t, err)

	bufs := make([][]byte, 0, 2048)
	for i := range 2048 {
		buf, err := p.Allocate(8)
		require.NoError(t, err)
		buf[0] = byte(i)
		bufs = append(bufs, buf)
	}

	s := p.Stats()
	assert.True(t, s.OffHeap)
	assert.Equal(t, 2, s.Chunks)

	for i, buf := range bufs {
		assert.Equal(t, byte(i), buf[0])
		require.NoError(t, p.Release(buf))
	}
	assert.Contains(t, p.String(), "offheap: true")
	require.NoError(t, p.Close())
}

func TestPool_Concurrent(t *testing.T) {
	p, err := NewPool(8, WithBlocksPerChunk(16))
	require.NoError(t, err)
	defer p.Close()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				buf, err := p.Allocate(8)
				if err != nil {
					t.Error(err)
					return
				}
				if err := p.Release(buf); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	s := p.Stats()
	assert.Equal(t, uint64(0), s.Outstanding)
	assert.Equal(t, uint64(1600), s.Allocations)
}

func BenchmarkPool_AllocateRelease(b *testing.B) {
	p, err := NewPool(8)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	b.ReportAllocs()
	for b.Loop() {
		buf, _ := p.Allocate(8)
		_ = p.Release(buf)
	}
}
