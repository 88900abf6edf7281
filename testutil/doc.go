// Package testutil provides helpers for testing list behavior: a seeded RNG,
// a slice-backed reference model and fault-injecting allocators.
package testutil
