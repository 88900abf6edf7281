package alloc

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/slist/internal/conv"
	"github.com/hupe1980/slist/internal/mem"
	"github.com/hupe1980/slist/internal/mmap"
)

const (
	// DefaultBlockSize fits one list node.
	DefaultBlockSize = 8
	// DefaultBlocksPerChunk is the number of blocks carved from one chunk.
	DefaultBlocksPerChunk = 512
	// DefaultMaxChunks limits pool growth.
	DefaultMaxChunks = 65536
)

// PoolStats tracks pool usage.
type PoolStats struct {
	BlockSize   int
	Chunks      int    // chunks currently held
	Capacity    int    // blocks across all chunks
	Outstanding uint64 // blocks handed out and not yet released
	Allocations uint64 // historical
	Releases    uint64 // historical
	OffHeap     bool
}

type poolChunk struct {
	data    []byte
	mapping *mmap.Mapping // nil for heap chunks
	base    uintptr
}

// Pool is a fixed-block allocator. Every block has the same size; requests
// up to that size are served from a free list refilled one chunk at a time.
//
// Chunks come from cache-line aligned Go heap buffers, or from anonymous mappings outside the
// garbage collector with WithOffHeap. Off-heap blocks must never hold Go
// pointers; list nodes only hold integers.
//
// Outstanding blocks are tracked in a roaring bitmap, so releasing a block
// twice or releasing memory the pool never handed out is reported instead of
// corrupting the free list.
type Pool struct {
	mu sync.Mutex

	blockSize int
	perChunk  int
	maxChunks int
	offHeap   bool

	chunks      []*poolChunk
	free        []uint32
	outstanding *roaring.Bitmap
	closed      bool

	allocations uint64
	releases    uint64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithBlocksPerChunk sets how many blocks each chunk holds.
func WithBlocksPerChunk(n int) PoolOption {
	return func(p *Pool) {
		p.perChunk = n
	}
}

// WithMaxChunks caps the number of chunks the pool may hold.
func WithMaxChunks(n int) PoolOption {
	return func(p *Pool) {
		p.maxChunks = n
	}
}

// WithOffHeap backs chunks with anonymous memory mappings.
func WithOffHeap() PoolOption {
	return func(p *Pool) {
		p.offHeap = true
	}
}

// NewPool creates a Pool serving blocks of blockSize bytes.
// A non-positive blockSize selects DefaultBlockSize.
func NewPool(blockSize int, opts ...PoolOption) (*Pool, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	p := &Pool{
		blockSize:   blockSize,
		perChunk:    DefaultBlocksPerChunk,
		maxChunks:   DefaultMaxChunks,
		outstanding: roaring.New(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if p.perChunk <= 0 {
		p.perChunk = DefaultBlocksPerChunk
	}
	if p.maxChunks <= 0 {
		p.maxChunks = DefaultMaxChunks
	}

	// Block ids are uint32 roaring members.
	if uint64(p.perChunk)*uint64(p.maxChunks) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d chunks of %d blocks exceed block id space", ErrInvalidSize, p.maxChunks, p.perChunk)
	}
	if p.blockSize > math.MaxInt/p.perChunk {
		return nil, fmt.Errorf("%w: chunk of %d x %d bytes", ErrInvalidSize, p.perChunk, p.blockSize)
	}

	return p, nil
}

// Allocate returns a zeroed block of size bytes.
// size must be in (0, BlockSize].
func (p *Pool) Allocate(size int) ([]byte, error) {
	if size <= 0 || size > p.blockSize {
		return nil, ErrInvalidSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	if len(p.free) == 0 {
		if err := p.grow(); err != nil {
			return nil, err
		}
	}

	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.outstanding.Add(id)
	p.allocations++

	block := p.block(id)
	clear(block)
	return block[:size:size], nil
}

// Release returns a block to the free list.
func (p *Pool) Release(buf []byte) error {
	if len(buf) == 0 {
		return ErrForeignBlock
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}

	id, err := p.blockID(buf)
	if err != nil {
		return err
	}
	if !p.outstanding.CheckedRemove(id) {
		return ErrDoubleRelease
	}

	p.free = append(p.free, id)
	p.releases++
	return nil
}

// grow appends one chunk and pushes its blocks on the free list.
// Must be called with p.mu held.
func (p *Pool) grow() error {
	if len(p.chunks) >= p.maxChunks {
		return ErrPoolExhausted
	}

	size := p.blockSize * p.perChunk
	c := &poolChunk{}

	if p.offHeap {
		m, err := mmap.MapAnon(size)
		if err != nil {
			return fmt.Errorf("failed to map anonymous memory for chunk: %w", err)
		}
		// Nodes are reached by following links, not sequentially.
		if err := m.Advise(mmap.AccessRandom); err != nil {
			return errors.Join(fmt.Errorf("failed to advise chunk mapping: %w", err), m.Close())
		}
		c.mapping = m
		c.data = m.Bytes()
	} else {
		c.data = mem.AllocAligned(size)
	}
	c.base = uintptr(unsafe.Pointer(unsafe.SliceData(c.data))) //nolint:gosec // address arithmetic maps blocks back to chunks

	idx := len(p.chunks)
	p.chunks = append(p.chunks, c)

	// Push in reverse so the lowest block of the chunk is handed out first.
	first := uint32(idx * p.perChunk) //nolint:gosec // bounded by NewPool
	for i := p.perChunk - 1; i >= 0; i-- {
		p.free = append(p.free, first+uint32(i)) //nolint:gosec // i < perChunk
	}
	return nil
}

func (p *Pool) block(id uint32) []byte {
	chunk := p.chunks[int(id)/p.perChunk]
	off := (int(id) % p.perChunk) * p.blockSize
	return chunk.data[off : off+p.blockSize : off+p.blockSize]
}

// blockID maps a block handed out by Allocate back to its id.
func (p *Pool) blockID(buf []byte) (uint32, error) {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // address arithmetic maps blocks back to chunks

	for idx, c := range p.chunks {
		if addr < c.base || addr >= c.base+uintptr(len(c.data)) {
			continue
		}
		off, err := conv.UintptrToUint32(addr - c.base)
		if err != nil {
			return 0, ErrForeignBlock
		}
		bs := uint32(p.blockSize) //nolint:gosec // blockSize fits a chunk offset
		if off%bs != 0 {
			return 0, ErrForeignBlock
		}
		return uint32(idx*p.perChunk) + off/bs, nil //nolint:gosec // bounded by NewPool
	}
	return 0, ErrForeignBlock
}

// BlockSize returns the size of every block.
func (p *Pool) BlockSize() int {
	return p.blockSize
}

// Stats returns the current pool statistics.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{
		BlockSize:   p.blockSize,
		Chunks:      len(p.chunks),
		Capacity:    len(p.chunks) * p.perChunk,
		Outstanding: p.outstanding.GetCardinality(),
		Allocations: p.allocations,
		Releases:    p.releases,
		OffHeap:     p.offHeap,
	}
}

// Close drops every chunk and unmaps off-heap memory. Blocks still
// outstanding become invalid. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, c := range p.chunks {
		if c.mapping != nil {
			if err := c.mapping.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	p.chunks = nil
	p.free = nil
	p.outstanding.Clear()

	return errors.Join(errs...)
}

func (p *Pool) String() string {
	s := p.Stats()
	return fmt.Sprintf(
		"Pool{block: %d B, chunks: %d, capacity: %d, outstanding: %d, allocs: %d, releases: %d, offheap: %t}",
		s.BlockSize,
		s.Chunks,
		s.Capacity,
		s.Outstanding,
		s.Allocations,
		s.Releases,
		s.OffHeap,
	)
}

var _ Allocator = (*Pool)(nil)
