package slist_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/slist"
	"github.com/hupe1980/slist/alloc"
	"github.com/hupe1980/slist/resource"
)

// Example demonstrates building a list and walking it with an iterator.
func Example() {
	l, err := slist.New()
	if err != nil {
		log.Fatal(err)
	}
	defer l.Destroy()

	for _, v := range []uint32{10, 20, 40} {
		_ = l.InsertFront(v)
	}
	_ = l.InsertEnd(80)
	_ = l.InsertEnd(100)

	fmt.Println(l)

	it, err := l.NewIterator(2)
	if err != nil {
		log.Fatal(err)
	}
	defer it.Close()

	for ok := true; ok; ok = it.Next() {
		fmt.Println(it.Index(), it.Value())
	}
	// Output:
	// [40 20 10 80 100]
	// 2 10
	// 3 80
	// 4 100
}

// Example_registry demonstrates plugging custom allocation primitives.
func Example_registry() {
	var allocs, releases int

	r := alloc.NewRegistry()
	_ = r.RegisterAllocate(func(size int) ([]byte, error) {
		allocs++
		return make([]byte, size), nil
	})
	_ = r.RegisterRelease(func([]byte) error {
		releases++
		return nil
	})

	if err := r.RegisterAllocate(nil); errors.Is(err, alloc.ErrNilFunc) {
		fmt.Println("nil primitive rejected")
	}

	l, err := slist.New(slist.WithAllocator(r))
	if err != nil {
		log.Fatal(err)
	}
	_ = l.InsertEnd(1)
	_ = l.InsertEnd(2)
	_ = l.Destroy()

	fmt.Println(allocs, releases)
	// Output:
	// nil primitive rejected
	// 3 3
}

// Example_budget demonstrates capping the memory a list may hold.
func Example_budget() {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 20})

	l, err := slist.New(slist.WithAllocator(alloc.NewBudget(nil, rc)))
	if err != nil {
		log.Fatal(err)
	}
	defer l.Destroy()

	for v := uint32(1); ; v++ {
		if err := l.InsertEnd(v); err != nil {
			fmt.Println(errors.Is(err, resource.ErrMemoryLimitExceeded))
			break
		}
	}
	fmt.Println(l, rc.MemoryUsage())
	// Output:
	// true
	// [1 2] 20
}

// Example_insertAt demonstrates positional inserts and their bounds.
func Example_insertAt() {
	l, _ := slist.New()
	defer l.Destroy()

	_ = l.InsertAt(0, 1)
	_ = l.InsertAt(1, 3)
	_ = l.InsertAt(1, 2)

	err := l.InsertAt(5, 9)

	var ie *slist.IndexError
	if errors.As(err, &ie) {
		fmt.Println("out of range:", ie.Index)
	}
	fmt.Println(l)
	// Output:
	// out of range: 5
	// [1 2 3]
}
