package slist

import (
	"encoding/binary"
	"errors"

	"github.com/hupe1980/slist/internal/arena"
)

// iteratorRecordSize is the size of the iterator record: the current ref.
const iteratorRecordSize = 4

// Iterator is a forward cursor over a List.
//
// It references the list's nodes without owning them. Any insert, remove or
// Destroy on the list after the iterator was created makes it stale: Next
// returns false and Err reports ErrStaleIterator.
//
//	it, err := l.NewIterator(0)
//	if err != nil { ... }
//	defer it.Close()
//
//	for ok := true; ok; ok = it.Next() {
//	    fmt.Println(it.Index(), it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	list   *List
	record []byte // current ref
	value  uint32
	index  int
	gen    uint64
	done   bool
	closed bool
	err    error
}

// NewIterator creates an iterator positioned at start.
//
// It fails with an *IndexError if start does not name an element, including
// on an empty list, and with ErrAllocationFailed if the iterator record cannot
// be allocated. A failed call leaves nothing allocated.
func (l *List) NewIterator(start int) (*Iterator, error) {
	if err := l.check(); err != nil {
		return nil, err
	}

	it, err := l.newIterator(start)
	l.metrics.RecordIterator(err)
	l.logger.LogIterator(start, err)
	return it, err
}

func (l *List) newIterator(start int) (*Iterator, error) {
	if start < 0 {
		return nil, &IndexError{Op: "iterator", Index: start}
	}

	record, err := l.allocator.Allocate(iteratorRecordSize)
	if err != nil {
		return nil, allocationError(err)
	}

	cur := l.walk(start)
	if cur == arena.Nil {
		outOfRange := &IndexError{Op: "iterator", Index: start}
		if err := l.allocator.Release(record); err != nil {
			return nil, errors.Join(outOfRange, err)
		}
		return nil, outOfRange
	}

	it := &Iterator{
		list:   l,
		record: record,
		index:  start,
		gen:    l.gen,
	}
	it.moveTo(cur)
	return it, nil
}

func (it *Iterator) current() arena.Ref {
	return arena.Ref(binary.LittleEndian.Uint32(it.record))
}

func (it *Iterator) moveTo(ref arena.Ref) {
	binary.LittleEndian.PutUint32(it.record, uint32(ref))
	it.value = it.list.arena.Value(ref)
}

// Next advances to the following element and reports whether there was one.
//
// It returns false at the last element and keeps returning false after
// that. It also returns false when the iterator is nil, closed or not
// obtained from NewIterator, or the list was mutated since the iterator was
// created; Err tells these cases apart.
func (it *Iterator) Next() bool {
	if it == nil {
		return false
	}
	if it.list == nil {
		it.err = ErrInvalidArgument
		return false
	}
	if it.closed {
		it.err = ErrClosed
		return false
	}
	if it.done {
		return false
	}

	l := it.list
	if l.destroyed || l.gen != it.gen {
		it.err = ErrStaleIterator
		it.done = true
		return false
	}

	next := l.arena.Next(it.current())
	if next == arena.Nil {
		it.done = true
		return false
	}

	it.moveTo(next)
	it.index++
	return true
}

// Err returns the reason the last Next call returned false, or nil if the
// iterator simply reached the end.
func (it *Iterator) Err() error {
	if it == nil {
		return ErrInvalidArgument
	}
	return it.err
}

// Value returns the element at the current position, as cached on the last
// successful move.
func (it *Iterator) Value() uint32 {
	if it == nil {
		return 0
	}
	return it.value
}

// Index returns the current position, counted from head when the iterator
// was created.
func (it *Iterator) Index() int {
	if it == nil {
		return 0
	}
	return it.index
}

// Close releases the iterator record. The nodes it references belong to the
// list and are left alone.
func (it *Iterator) Close() error {
	if it == nil || it.list == nil {
		return ErrInvalidArgument
	}
	if it.closed {
		return ErrClosed
	}

	it.closed = true
	it.done = true
	record := it.record
	it.record = nil
	return it.list.allocator.Release(record)
}
