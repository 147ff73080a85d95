package domain

import (
	"context"
	"io"
)

// SnapshotSource delivers library snapshots. The returned channel emits the
// current snapshot immediately and a fresh one after every library mutation;
// rapid mutations may be coalesced so that only the latest snapshot is
// observed. The cancel func releases the subscription.
type SnapshotSource interface {
	Subscribe() (<-chan Snapshot, func())
}

// LibraryWriter performs bulk mutations against the library store. Results
// surface through the next snapshot, never through return values beyond the
// error.
type LibraryWriter interface {
	// SetMangaCategories replaces each manga's category memberships with
	// exactly the given set. Memberships not in the set are removed.
	SetMangaCategories(ctx context.Context, mangaIDs []int64, categoryIDs []int) error

	// DeleteManga removes the given manga from the library.
	DeleteManga(ctx context.Context, mangaIDs []int64) error
}

// CoverUpdater stores a replacement cover image for a manga. The engine does
// not interpret the stream format.
type CoverUpdater interface {
	UpdateCover(ctx context.Context, r io.Reader, manga Manga) error
}

// FilePicker requests a single-image selection from the user. The request is
// asynchronous; the host delivers either a content handle or a cancellation
// back into the engine, tagged with the correlation token.
type FilePicker interface {
	PickImage(token int)
}

// Dialogs hosts the user-facing confirmation surfaces for destructive and
// multi-choice operations. Accept callbacks are invoked at most once, from
// the host's goroutine; cancellation simply never invokes them.
type Dialogs interface {
	// ConfirmDelete asks the user to confirm removing count manga.
	ConfirmDelete(count int, accept func())

	// PickCategories shows a multi-select picker over the given categories
	// with the preselected IDs checked. Accept delivers the chosen IDs.
	PickCategories(choices []Category, preselected []int, accept func(chosen []int))

	// OpenCategoryEditor navigates to the category CRUD surface.
	OpenCategoryEditor()
}

// Notifier emits short user-visible notices.
type Notifier interface {
	Notify(msg string)
}

// PreferenceStore is the persisted key/value backing for user preferences.
// Watch channels emit the current value immediately and again after every
// change, coalescing rapid writes to the latest value.
type PreferenceStore interface {
	FilterDownloaded() bool
	SetFilterDownloaded(v bool)

	FilterUnread() bool
	SetFilterUnread(v bool)

	Columns(o Orientation) int
	SetColumns(o Orientation, n int)
	WatchColumns(o Orientation) (<-chan int, func())

	LastUsedCategory() int
	SetLastUsedCategory(pos int)

	DisplayMode() DisplayMode
	SetDisplayMode(m DisplayMode)

	SyncEnabled() bool
	WatchSyncEnabled() (<-chan bool, func())

	SearchQuery() string
	SetSearchQuery(q string)
}
