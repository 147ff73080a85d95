package library

// Mode is the batch-action state derived from selection cardinality.
type Mode int

const (
	Idle Mode = iota
	Active
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	if m == Active {
		return "active"
	}
	return "idle"
}

// BatchCoordinator drives the selection-mode lifecycle: chrome creation on
// the first selected manga, refresh on every count change, teardown when
// the selection empties. The mode itself is recomputed from the selection
// on demand rather than stored, so it can never disagree with it.
type BatchCoordinator struct {
	selection *Selection
	chrome    ActionModeHost
	created   bool
}

// NewBatchCoordinator creates a coordinator over the given selection.
func NewBatchCoordinator(selection *Selection, chrome ActionModeHost) *BatchCoordinator {
	return &BatchCoordinator{selection: selection, chrome: chrome}
}

// Mode derives the current batch mode from the selection size.
func (b *BatchCoordinator) Mode() Mode {
	if b.selection.Len() > 0 {
		return Active
	}
	return Idle
}

// SelectionChanged re-derives the mode and synchronizes the chrome with
// it. Registered as the selection's change observer.
func (b *BatchCoordinator) SelectionChanged() {
	n := b.selection.Len()
	if n == 0 {
		b.destroyIfNeeded()
		return
	}
	b.createIfNeeded()
	b.chrome.InvalidateActionMode(n, n == 1)
}

// Exit leaves batch mode by clearing the selection; the resulting change
// notification tears down the chrome.
func (b *BatchCoordinator) Exit() {
	b.selection.Clear()
	// Clear is a no-op on an empty selection, so make sure stray chrome
	// never survives an exit.
	b.destroyIfNeeded()
}

func (b *BatchCoordinator) createIfNeeded() {
	if b.created {
		return
	}
	b.created = true
	b.chrome.CreateActionMode()
}

func (b *BatchCoordinator) destroyIfNeeded() {
	if !b.created {
		return
	}
	b.created = false
	b.chrome.DestroyActionMode()
}
