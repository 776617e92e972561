// Package portalloc hands out port numbers for concurrent tool invocations.
//
// Ports advance by a fixed step because each simulation instance binds a
// small range of adjacent ports internally. The counter never resets, so
// ranges cannot overlap across parallel suites.
package portalloc

import (
	"go.uber.org/atomic"
)

const (
	// DefaultBase is the first port handed out by the package allocator.
	DefaultBase = 9000
	// DefaultStep is the gap between consecutive allocations.
	DefaultStep = 10
)

// Allocator hands out non-overlapping port numbers.
type Allocator struct {
	next *atomic.Uint32
	step uint32
}

// NewAllocator creates an allocator starting at base and advancing by step.
func NewAllocator(base uint16, step uint16) *Allocator {
	return &Allocator{
		next: atomic.NewUint32(uint32(base)),
		step: uint32(step),
	}
}

// Next returns a fresh port and advances the counter.
func (a *Allocator) Next() uint16 {
	return uint16(a.next.Add(a.step) - a.step)
}

var global = NewAllocator(DefaultBase, DefaultStep)

// Next returns a fresh port from the package-level allocator.
func Next() uint16 {
	return global.Next()
}
