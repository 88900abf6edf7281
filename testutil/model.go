package testutil

import "slices"

// Model is a slice-backed reference for list behavior.
type Model struct {
	values []uint32
}

// Values returns a copy of the elements in order.
func (m *Model) Values() []uint32 {
	return slices.Clone(m.values)
}

// Len returns the number of elements.
func (m *Model) Len() int {
	return len(m.values)
}

// InsertAt inserts v at index and reports whether index was in [0, Len()].
func (m *Model) InsertAt(index int, v uint32) bool {
	if index < 0 || index > len(m.values) {
		return false
	}
	m.values = slices.Insert(m.values, index, v)
	return true
}

// Remove deletes the element at index and reports whether it existed.
func (m *Model) Remove(index int) bool {
	if index < 0 || index >= len(m.values) {
		return false
	}
	m.values = slices.Delete(m.values, index, index+1)
	return true
}

// Find returns the index of the first v, or -1.
func (m *Model) Find(v uint32) int {
	return slices.Index(m.values, v)
}
