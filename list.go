package slist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/hupe1980/slist/alloc"
	"github.com/hupe1980/slist/internal/arena"
)

// listRecordSize is the size of the list record: the head ref.
const listRecordSize = 4

var listIDs atomic.Uint64

// List is a singly-linked list of uint32 values.
//
// Every record the list owns is acquired from and released to its allocator.
// A List must be created with New; operations on a zero List fail with
// ErrInvalidArgument. A List is not safe for concurrent use.
type List struct {
	id        uint64
	allocator alloc.Allocator
	arena     *arena.Arena
	record    []byte // head ref
	length    int
	gen       uint64
	destroyed bool

	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty list.
// It fails with ErrAllocationFailed if the list record cannot be allocated.
func New(optFns ...Option) (*List, error) {
	o := applyOptions(optFns)
	id := listIDs.Add(1)
	logger := o.logger.WithList(id)

	record, err := o.allocator.Allocate(listRecordSize)
	if err != nil {
		err = allocationError(err)
		logger.LogCreate(err)
		return nil, err
	}

	l := &List{
		id:        id,
		allocator: o.allocator,
		arena:     arena.New(o.allocator),
		record:    record,
		logger:    logger,
		metrics:   o.metricsCollector,
	}
	l.setHead(arena.Nil)

	logger.LogCreate(nil)
	return l, nil
}

// ID returns the process-unique identifier used to tag log records.
func (l *List) ID() uint64 {
	if l == nil {
		return 0
	}
	return l.id
}

func (l *List) check() error {
	if l == nil {
		return ErrInvalidArgument
	}
	if l.destroyed {
		return ErrDestroyed
	}
	if l.arena == nil || l.record == nil {
		return ErrInvalidArgument
	}
	return nil
}

func (l *List) head() arena.Ref {
	return arena.Ref(binary.LittleEndian.Uint32(l.record))
}

func (l *List) setHead(ref arena.Ref) {
	binary.LittleEndian.PutUint32(l.record, uint32(ref))
}

// mutated records a structural change, invalidating live iterators.
func (l *List) mutated() {
	l.gen++
}

// walk returns the node n steps from head, or Nil if the chain ends first.
func (l *List) walk(n int) arena.Ref {
	cur := l.head()
	for i := 0; cur != arena.Nil && i < n; i++ {
		cur = l.arena.Next(cur)
	}
	return cur
}

// Destroy releases every node, then the list record.
// An empty list releases only the list record. Release errors do not stop
// the teardown; they are joined and returned once everything was attempted.
// The list is unusable afterwards.
func (l *List) Destroy() error {
	if err := l.check(); err != nil {
		return err
	}

	var errs []error
	nodes := 0

	cur := l.head()
	for cur != arena.Nil {
		next := l.arena.Next(cur)
		if err := l.arena.Free(cur); err != nil {
			errs = append(errs, err)
		}
		nodes++
		cur = next
	}
	l.setHead(arena.Nil)

	// Nodes unreachable from head can only exist after a release failure
	// mid-operation; they are still owned by the list.
	if orphans := l.arena.Len(); orphans > 0 {
		nodes += orphans
		if err := l.arena.FreeAll(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := l.allocator.Release(l.record); err != nil {
		errs = append(errs, err)
	}
	l.record = nil
	l.length = 0
	l.destroyed = true
	l.mutated()

	err := errors.Join(errs...)
	l.metrics.RecordDestroy(nodes, err)
	l.logger.LogDestroy(nodes, err)
	return err
}

// Size counts the nodes reachable from head.
func (l *List) Size() (int, error) {
	if err := l.check(); err != nil {
		return 0, err
	}

	limit := l.arena.Len()
	n := 0
	for cur := l.head(); cur != arena.Nil; cur = l.arena.Next(cur) {
		n++
		if n > limit {
			return 0, ErrCorrupted
		}
	}
	return n, nil
}

// Len returns the number of elements without walking the chain.
// It returns 0 for a nil or destroyed list.
func (l *List) Len() int {
	if l == nil || l.destroyed {
		return 0
	}
	return l.length
}

// Generation returns the structural mutation counter. It increases on every
// successful insert and remove and on Destroy.
func (l *List) Generation() uint64 {
	if l == nil {
		return 0
	}
	return l.gen
}

// InsertFront prepends v in O(1).
func (l *List) InsertFront(v uint32) error {
	if err := l.check(); err != nil {
		return err
	}
	start := time.Now()
	err := l.insertAt(0, v)
	l.observeInsert("front", 0, v, start, err)
	return err
}

// InsertEnd appends v in O(n).
func (l *List) InsertEnd(v uint32) error {
	if err := l.check(); err != nil {
		return err
	}
	start := time.Now()
	index := l.length
	err := l.insertEnd(v)
	l.observeInsert("end", index, v, start, err)
	return err
}

// InsertAt inserts v so that it occupies position index afterwards.
//
// index 0 prepends and index == Size() appends. A larger or negative index
// fails with an *IndexError and leaves the list unchanged.
func (l *List) InsertAt(index int, v uint32) error {
	if err := l.check(); err != nil {
		return err
	}
	start := time.Now()
	err := l.insertAt(index, v)
	l.observeInsert("at", index, v, start, err)
	return err
}

func (l *List) observeInsert(op string, index int, v uint32, start time.Time, err error) {
	l.metrics.RecordInsert(time.Since(start), err)
	l.logger.LogInsert(op, index, v, err)
}

func (l *List) newNode(v uint32) (arena.Ref, error) {
	ref, err := l.arena.Alloc(v)
	if err != nil {
		return arena.Nil, allocationError(err)
	}
	return ref, nil
}

func (l *List) insertEnd(v uint32) error {
	ref, err := l.newNode(v)
	if err != nil {
		return err
	}

	head := l.head()
	if head == arena.Nil {
		l.setHead(ref)
	} else {
		tail := head
		for next := l.arena.Next(tail); next != arena.Nil; next = l.arena.Next(tail) {
			tail = next
		}
		if err := l.arena.SetNext(tail, ref); err != nil {
			return errors.Join(err, l.arena.Free(ref))
		}
	}

	l.length++
	l.mutated()
	return nil
}

func (l *List) insertAt(index int, v uint32) error {
	if index < 0 {
		return &IndexError{Op: "insert", Index: index}
	}

	ref, err := l.newNode(v)
	if err != nil {
		return err
	}

	if index == 0 {
		if err := l.arena.SetNext(ref, l.head()); err != nil {
			return errors.Join(err, l.arena.Free(ref))
		}
		l.setHead(ref)
		l.length++
		l.mutated()
		return nil
	}

	// Stopping one short of index lets index == Size() append.
	prev := l.walk(index - 1)
	if prev == arena.Nil {
		outOfRange := &IndexError{Op: "insert", Index: index}
		if err := l.arena.Free(ref); err != nil {
			return errors.Join(outOfRange, err)
		}
		return outOfRange
	}

	if err := l.arena.SetNext(ref, l.arena.Next(prev)); err != nil {
		return errors.Join(err, l.arena.Free(ref))
	}
	if err := l.arena.SetNext(prev, ref); err != nil {
		return errors.Join(err, l.arena.Free(ref))
	}

	l.length++
	l.mutated()
	return nil
}

// Remove unlinks and releases the element at index.
// An index that does not name an element fails with an *IndexError and
// leaves the list unchanged.
func (l *List) Remove(index int) error {
	if err := l.check(); err != nil {
		return err
	}
	start := time.Now()
	err := l.remove(index)
	l.metrics.RecordRemove(time.Since(start), err)
	l.logger.LogRemove(index, err)
	return err
}

func (l *List) remove(index int) error {
	if index < 0 {
		return &IndexError{Op: "remove", Index: index}
	}

	var target arena.Ref

	if index == 0 {
		target = l.head()
		if target == arena.Nil {
			return &IndexError{Op: "remove", Index: index}
		}
		l.setHead(l.arena.Next(target))
	} else {
		prev := l.walk(index - 1)
		if prev == arena.Nil {
			return &IndexError{Op: "remove", Index: index}
		}
		target = l.arena.Next(prev)
		if target == arena.Nil {
			return &IndexError{Op: "remove", Index: index}
		}
		if err := l.arena.SetNext(prev, l.arena.Next(target)); err != nil {
			return err
		}
	}

	l.length--
	l.mutated()

	// The node is already unlinked; a release error does not undo the removal.
	return l.arena.Free(target)
}

// Find returns the index of the first element equal to v.
// It fails with ErrNotFound if there is none.
func (l *List) Find(v uint32) (int, error) {
	if err := l.check(); err != nil {
		return 0, err
	}

	start := time.Now()
	index, err := l.find(v)
	l.metrics.RecordFind(time.Since(start), err)
	return index, err
}

func (l *List) find(v uint32) (int, error) {
	index := 0
	for cur := l.head(); cur != arena.Nil; cur = l.arena.Next(cur) {
		if l.arena.Value(cur) == v {
			return index, nil
		}
		index++
	}
	return 0, ErrNotFound
}

// Get returns the element at index.
func (l *List) Get(index int) (uint32, error) {
	if err := l.check(); err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, &IndexError{Op: "get", Index: index}
	}

	cur := l.walk(index)
	if cur == arena.Nil {
		return 0, &IndexError{Op: "get", Index: index}
	}
	return l.arena.Value(cur), nil
}

// Values returns the elements in order.
// It returns nil for a nil or destroyed list.
func (l *List) Values() []uint32 {
	if l.check() != nil {
		return nil
	}

	values := make([]uint32, 0, l.length)
	for cur := l.head(); cur != arena.Nil; cur = l.arena.Next(cur) {
		values = append(values, l.arena.Value(cur))
	}
	return values
}

// All returns an iterator over index/value pairs.
// The list must not be mutated while ranging over it.
func (l *List) All() iter.Seq2[int, uint32] {
	return func(yield func(int, uint32) bool) {
		if l.check() != nil {
			return
		}
		index := 0
		for cur := l.head(); cur != arena.Nil; cur = l.arena.Next(cur) {
			if !yield(index, l.arena.Value(cur)) {
				return
			}
			index++
		}
	}
}

func (l *List) String() string {
	if l == nil {
		return "<nil>"
	}
	if l.destroyed {
		return "<destroyed>"
	}
	return fmt.Sprint(l.Values())
}
