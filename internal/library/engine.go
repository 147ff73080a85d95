package library

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mizue/hondana/internal/domain"
)

// User-visible notices emitted by the engine.
const (
	noticeFavoriteFirst = "Add the manga to your library first"
	noticeCoverFailed   = "Could not update the cover"
	noticeCoverUpdated  = "Cover updated"
	noticeUpdateFailed  = "Library update failed"
)

// Config seeds the engine with its persisted defaults, enumerated
// explicitly instead of read from ambient global state.
type Config struct {
	SearchDefault           string
	FilterDownloadedDefault bool
	FilterUnreadDefault     bool
	PortraitColumns         int
	LandscapeColumns        int
	LastUsedCategory        int
	SyncEnabled             bool
	Orientation             domain.Orientation
}

// Collaborators bundles the external boundaries the engine talks to.
type Collaborators struct {
	Source  domain.SnapshotSource
	Writer  domain.LibraryWriter
	Covers  domain.CoverUpdater
	Files   domain.FilePicker
	Dialogs domain.Dialogs
	Notify  domain.Notifier
	Prefs   domain.PreferenceStore
}

type coverRequest struct {
	token int
	manga domain.Manga
}

// Engine is the library view synchronization engine. All state transitions
// are serialized onto a single goroutine started by Start; the exported
// methods post work onto it and return immediately, so any goroutine may
// call them. After Stop no posted work runs and no callback touches state.
type Engine struct {
	cfg      Config
	co       Collaborators
	renderer Renderer
	logger   *slog.Logger

	events chan func()
	quit   chan struct{}
	done   chan struct{}
	stop   sync.Once

	// Everything below is owned by the engine goroutine.
	ctx         context.Context
	filters     FilterState
	selection   *Selection
	tabs        *TabController
	batch       *BatchCoordinator
	layout      *LayoutController
	snapshot    domain.Snapshot
	hasSnapshot bool

	resumed      bool
	pendingQuery string
	hasPending   bool

	coverToken   int
	pendingCover *coverRequest

	snapCh     <-chan domain.Snapshot
	cancelSnap func()
	syncCh     <-chan bool
	cancelSync func()
}

// NewEngine creates an engine. The chrome host may be the same value as
// the renderer when one object implements both contracts.
func NewEngine(cfg Config, co Collaborators, renderer Renderer, chrome ActionModeHost, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      cfg,
		co:       co,
		renderer: renderer,
		logger:   logger,
		events:   make(chan func(), 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		filters: FilterState{
			Query:          cfg.SearchDefault,
			DownloadedOnly: cfg.FilterDownloadedDefault,
			UnreadOnly:     cfg.FilterUnreadDefault,
		},
		resumed: true,
	}
	e.selection = NewSelection(func() { e.batch.SelectionChanged() })
	e.batch = NewBatchCoordinator(e.selection, chrome)
	e.tabs = NewTabController(renderer, co.Prefs, cfg.LastUsedCategory)
	cols := cfg.PortraitColumns
	if cfg.Orientation == domain.Landscape {
		cols = cfg.LandscapeColumns
	}
	e.layout = NewLayoutController(co.Prefs, e.tabs, renderer, cfg.Orientation, cols)
	return e
}

// Start subscribes to the snapshot, column and sync-flag streams and spins
// up the engine goroutine. It must be called exactly once.
func (e *Engine) Start(ctx context.Context) {
	e.ctx = ctx
	e.renderer.SetSyncActionVisible(e.cfg.SyncEnabled)
	e.snapCh, e.cancelSnap = e.co.Source.Subscribe()
	e.syncCh, e.cancelSync = e.co.Prefs.WatchSyncEnabled()
	e.layout.Attach()
	go e.loop(ctx)
}

// Stop tears the engine down: all subscriptions are cancelled, the
// selection is cleared and the goroutine exits. Safe to call more than
// once. Blocks until teardown completes.
func (e *Engine) Stop() {
	e.stop.Do(func() { close(e.quit) })
	<-e.done
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)
	defer e.teardown()
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.quit:
			return
		case fn := <-e.events:
			fn()
		case snap, ok := <-e.snapCh:
			if ok {
				e.applySnapshot(snap)
			}
		case n, ok := <-e.layout.Watch():
			if ok {
				e.layout.OnValue(n)
			}
		case v, ok := <-e.syncCh:
			if ok {
				e.renderer.SetSyncActionVisible(v)
			}
		}
	}
}

func (e *Engine) teardown() {
	if e.cancelSnap != nil {
		e.cancelSnap()
	}
	if e.cancelSync != nil {
		e.cancelSync()
	}
	e.layout.Detach()
	e.batch.Exit()
	e.pendingCover = nil
}

// post schedules fn onto the engine goroutine. Work posted after teardown
// is dropped.
func (e *Engine) post(fn func()) {
	select {
	case e.events <- fn:
	case <-e.done:
	}
}

// Pause marks the engine detached: search text changes are buffered
// (last value wins) instead of applied.
func (e *Engine) Pause() {
	e.post(func() { e.resumed = false })
}

// Resume marks the engine attached again and applies any search text
// buffered while detached.
func (e *Engine) Resume() {
	e.post(func() {
		e.resumed = true
		if e.hasPending {
			e.hasPending = false
			e.applyQuery(e.pendingQuery)
		}
	})
}

// SetSearchQuery updates the search text. While detached the last value
// is buffered and applied on resume, not dropped.
func (e *Engine) SetSearchQuery(query string) {
	e.post(func() {
		if !e.resumed {
			e.pendingQuery = query
			e.hasPending = true
			return
		}
		e.applyQuery(query)
	})
}

func (e *Engine) applyQuery(query string) {
	e.filters.Query = query
	e.co.Prefs.SetSearchQuery(query)
	e.republish()
}

// ToggleDownloadedFilter flips the downloaded-only filter, persists it and
// recomputes the view from the current snapshot.
func (e *Engine) ToggleDownloadedFilter() {
	e.post(func() {
		e.filters.DownloadedOnly = !e.filters.DownloadedOnly
		e.co.Prefs.SetFilterDownloaded(e.filters.DownloadedOnly)
		e.republish()
	})
}

// ToggleUnreadFilter flips the unread-only filter, persists it and
// recomputes the view from the current snapshot.
func (e *Engine) ToggleUnreadFilter() {
	e.post(func() {
		e.filters.UnreadOnly = !e.filters.UnreadOnly
		e.co.Prefs.SetFilterUnread(e.filters.UnreadOnly)
		e.republish()
	})
}

// ClearFilters resets both boolean filters, persists them and recomputes
// the view.
func (e *Engine) ClearFilters() {
	e.post(func() {
		e.filters.DownloadedOnly = false
		e.filters.UnreadOnly = false
		e.co.Prefs.SetFilterDownloaded(false)
		e.co.Prefs.SetFilterUnread(false)
		e.republish()
	})
}

// ToggleSelection adds the manga to the selection, or removes it if
// already selected.
func (e *Engine) ToggleSelection(m domain.Manga) {
	e.post(func() { e.selection.Toggle(m) })
}

// ClearSelection leaves batch mode, discarding the selection and its
// chrome.
func (e *Engine) ClearSelection() {
	e.post(func() { e.batch.Exit() })
}

// SelectTab focuses the tab at the given position.
func (e *Engine) SelectTab(position int) {
	e.post(func() { e.tabs.SetActive(position) })
}

// SetOrientation re-resolves which per-orientation column preference is
// observed. A resulting column change forces exactly one rebuild.
func (e *Engine) SetOrientation(o domain.Orientation) {
	e.post(func() { e.layout.SetOrientation(o) })
}

// SwapDisplayMode toggles grid/list display, persists it and forces a
// content rebuild so item heights are recomputed.
func (e *Engine) SwapDisplayMode() {
	e.post(func() {
		m := e.co.Prefs.DisplayMode().Swap()
		e.co.Prefs.SetDisplayMode(m)
		e.tabs.Rebuild(true)
	})
}

// EditCategories navigates to the external category CRUD surface; the
// engine picks up the result through the next snapshot.
func (e *Engine) EditCategories() {
	e.post(func() { e.co.Dialogs.OpenCategoryEditor() })
}
