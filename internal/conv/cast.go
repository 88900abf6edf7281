package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("conv: integer overflow")

// IntToUint32 converts int to uint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// IntToInt64 converts int to int64, rejecting negative values.
// Sizes handed to memory budgets are never negative.
func IntToInt64(v int) (int64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: negative size %d", ErrOverflow, v)
	}
	return int64(v), nil
}

// UintptrToUint32 converts an address difference to uint32.
func UintptrToUint32(v uintptr) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}
