package alloc

// Funcs adapts an allocate/release function pair to the Allocator interface.
type Funcs struct {
	AllocateFn AllocateFunc
	ReleaseFn  ReleaseFunc
}

// FromFuncs builds an Allocator from a function pair.
// Both functions are required.
func FromFuncs(allocate AllocateFunc, release ReleaseFunc) (*Funcs, error) {
	if allocate == nil || release == nil {
		return nil, ErrNilFunc
	}
	return &Funcs{AllocateFn: allocate, ReleaseFn: release}, nil
}

// Allocate implements Allocator.
func (f *Funcs) Allocate(size int) ([]byte, error) {
	if f == nil || f.AllocateFn == nil {
		return nil, ErrNilFunc
	}
	return f.AllocateFn(size)
}

// Release implements Allocator.
func (f *Funcs) Release(buf []byte) error {
	if f == nil || f.ReleaseFn == nil {
		return ErrNilFunc
	}
	return f.ReleaseFn(buf)
}

var _ Allocator = (*Funcs)(nil)
