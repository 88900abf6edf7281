// Package conv provides checked integer conversions.
//
// Node refs, block indexes and sizes cross between Go's platform-dependent
// int and the fixed 32-bit widths used in node records and bitmaps. These
// helpers reject values that would silently wrap.
package conv
