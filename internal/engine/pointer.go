package engine

import (
	"tempo/pkg/geometry"
)

// PointerTracker records the most recently observed pointer position for
// the whole screen, independent of any widget's own hit accounting.
// Measured offsets captured at drag start go stale when a pane scrolls
// mid-drag; the tracker is the live source of truth instead.
type PointerTracker struct {
	pos   geometry.Point
	valid bool
}

// NewPointerTracker creates an empty tracker.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// Seed primes the tracker from the activating event at gesture start.
func (t *PointerTracker) Seed(p geometry.Point) {
	t.pos = p
	t.valid = true
}

// Observe records a pointer-move event.
func (t *PointerTracker) Observe(p geometry.Point) {
	t.pos = p
	t.valid = true
}

// Pos returns the latest observed position. The bool is false until the
// first Seed or Observe.
func (t *PointerTracker) Pos() (geometry.Point, bool) {
	return t.pos, t.valid
}

// Reset clears the tracker between gestures.
func (t *PointerTracker) Reset() {
	t.pos = geometry.Point{}
	t.valid = false
}
