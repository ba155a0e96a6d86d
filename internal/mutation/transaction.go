package mutation

// Transaction is the snapshot-then-patch discipline made explicit:
// capture state, apply an optimistic edit, then either Commit (discard the
// snapshot) or Rollback (restore it verbatim). A finished transaction is
// inert; Rollback after Commit does nothing.
type Transaction[T any] struct {
	snapshot T
	restore  func(T)
	done     bool
}

// Begin captures the current state.
func Begin[T any](capture func() T, restore func(T)) *Transaction[T] {
	return &Transaction[T]{snapshot: capture(), restore: restore}
}

// Commit discards the snapshot, keeping the applied edit.
func (t *Transaction[T]) Commit() {
	t.done = true
}

// Rollback restores the captured state.
func (t *Transaction[T]) Rollback() {
	if t.done {
		return
	}
	t.restore(t.snapshot)
	t.done = true
}
