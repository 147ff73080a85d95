package library

import "github.com/mizue/hondana/internal/domain"

// applySnapshot handles one library snapshot: refresh the empty-library
// indicator, reconcile the tab row, prune stale selection entries and
// republish the filtered view. Runs on the engine goroutine.
func (e *Engine) applySnapshot(snap domain.Snapshot) {
	e.snapshot = snap
	e.hasSnapshot = true

	e.renderer.SetEmptyLibrary(snap.Empty())
	e.tabs.SetCategories(snap.Categories)

	// Selected manga that vanished from the library are dropped silently;
	// the resulting change notification tears batch mode down if the
	// selection emptied.
	e.selection.Prune(snap.MangaIDs())

	e.republish()
}

// republish recomputes the per-category visible map from the current
// snapshot and filter state and delivers it downstream. Filter changes
// never wait for a new snapshot.
func (e *Engine) republish() {
	if !e.hasSnapshot {
		return
	}
	e.renderer.PublishView(View{
		Categories: e.snapshot.Categories,
		Visible:    FilterSnapshot(e.snapshot, e.filters),
	})
}
