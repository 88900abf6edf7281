// Package arena stores list nodes in allocator-provided blocks addressed by
// stable refs.
//
// A node is an 8-byte record: the value at bytes [0,4) and the ref of the
// following node at [4,8), both little-endian. The block for each node comes
// from the alloc.Allocator the arena was created with and goes back to it when
// the node is freed.
//
// # Refs
//
// Ref 0 is the null ref. Every other ref names a slot in the arena's slot
// table. Slots are recycled after Free, so a ref kept past Free may later
// name an unrelated node; the list guards its iterators with a generation
// counter instead of holding on to freed refs.
//
// # Safety
//
// A roaring bitmap tracks live slots. Freeing a ref twice, or freeing a ref
// that was never handed out, returns ErrBadRef instead of releasing memory
// twice. Accessors on a dead ref return zero values rather than panicking.
package arena
