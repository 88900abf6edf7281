package arena

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/slist/alloc"
	"github.com/hupe1980/slist/internal/conv"
)

// NodeSize is the size of one node record in bytes.
const NodeSize = 8

const (
	valueOffset = 0
	nextOffset  = 4
)

// ErrBadRef is returned for the null ref, a freed ref or a ref never handed out.
var ErrBadRef = errors.New("arena: bad node ref")

// Ref identifies a node slot. The zero Ref is Nil.
type Ref uint32

// Nil is the null ref.
const Nil Ref = 0

// Stats tracks arena usage.
type Stats struct {
	Allocs    uint64 // historical
	Frees     uint64 // historical
	Live      uint64 // nodes currently held
	Slots     int    // slot table size
	FreeSlots int    // slots waiting for reuse
}

// Arena is a node store. It is not safe for concurrent use.
type Arena struct {
	alloc alloc.Allocator
	slots [][]byte // slot i holds ref i+1
	free  []Ref
	live  *roaring.Bitmap

	allocs uint64
	frees  uint64
}

// New creates an Arena drawing node blocks from a.
// A nil allocator selects alloc.Heap.
func New(a alloc.Allocator) *Arena {
	if a == nil {
		a = alloc.Heap{}
	}
	return &Arena{
		alloc: a,
		live:  roaring.New(),
	}
}

// Alloc acquires a node holding value with a Nil successor.
// Errors from the allocator are returned unchanged.
func (a *Arena) Alloc(value uint32) (Ref, error) {
	block, err := a.alloc.Allocate(NodeSize)
	if err != nil {
		return Nil, err
	}
	if len(block) < NodeSize {
		short := fmt.Errorf("arena: allocator returned %d bytes, need %d", len(block), NodeSize)
		return Nil, errors.Join(short, a.alloc.Release(block))
	}

	ref, err := a.slotFor(block)
	if err != nil {
		return Nil, errors.Join(err, a.alloc.Release(block))
	}

	binary.LittleEndian.PutUint32(block[valueOffset:], value)
	binary.LittleEndian.PutUint32(block[nextOffset:], uint32(Nil))

	a.live.Add(uint32(ref))
	a.allocs++
	return ref, nil
}

func (a *Arena) slotFor(block []byte) (Ref, error) {
	if n := len(a.free); n > 0 {
		ref := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[ref-1] = block
		return ref, nil
	}

	id, err := conv.IntToUint32(len(a.slots) + 1)
	if err != nil {
		return Nil, err
	}
	a.slots = append(a.slots, block)
	return Ref(id), nil
}

// Free releases the node's block back to the allocator and retires the ref.
// The ref is retired even when the allocator rejects the block; the
// allocator's error is returned.
func (a *Arena) Free(ref Ref) error {
	if !a.Valid(ref) {
		return fmt.Errorf("%w: %d", ErrBadRef, ref)
	}

	block := a.slots[ref-1]
	a.slots[ref-1] = nil
	a.live.Remove(uint32(ref))
	a.free = append(a.free, ref)
	a.frees++

	return a.alloc.Release(block)
}

// FreeAll frees every live node, returning the joined release errors.
func (a *Arena) FreeAll() error {
	if a.live.IsEmpty() {
		return nil
	}

	var errs []error
	for _, id := range a.live.ToArray() {
		if err := a.Free(Ref(id)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Valid reports whether ref names a live node.
func (a *Arena) Valid(ref Ref) bool {
	return ref != Nil && a.live.Contains(uint32(ref))
}

// Value returns the node's value, or 0 for a dead ref.
func (a *Arena) Value(ref Ref) uint32 {
	if !a.Valid(ref) {
		return 0
	}
	return binary.LittleEndian.Uint32(a.slots[ref-1][valueOffset:])
}

// Next returns the node's successor, or Nil for a dead ref.
func (a *Arena) Next(ref Ref) Ref {
	if !a.Valid(ref) {
		return Nil
	}
	return Ref(binary.LittleEndian.Uint32(a.slots[ref-1][nextOffset:]))
}

// SetNext links ref to next. next may be Nil.
func (a *Arena) SetNext(ref, next Ref) error {
	if !a.Valid(ref) {
		return fmt.Errorf("%w: %d", ErrBadRef, ref)
	}
	binary.LittleEndian.PutUint32(a.slots[ref-1][nextOffset:], uint32(next))
	return nil
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return int(a.live.GetCardinality()) //nolint:gosec // bounded by the uint32 slot space
}

// Allocator returns the allocator backing the arena.
func (a *Arena) Allocator() alloc.Allocator {
	return a.alloc
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		Allocs:    a.allocs,
		Frees:     a.frees,
		Live:      a.live.GetCardinality(),
		Slots:     len(a.slots),
		FreeSlots: len(a.free),
	}
}

func (a *Arena) String() string {
	s := a.Stats()
	return fmt.Sprintf(
		"Arena{live: %d, slots: %d, free slots: %d, allocs: %d, frees: %d}",
		s.Live,
		s.Slots,
		s.FreeSlots,
		s.Allocs,
		s.Frees,
	)
}
