package library

import "github.com/mizue/hondana/internal/domain"

// LayoutController tracks the per-orientation column-count preference and
// forces a full content rebuild when it changes. The initial read at
// attach time only populates the value; rebuilds happen on changes alone.
type LayoutController struct {
	prefs    domain.PreferenceStore
	tabs     *TabController
	renderer Renderer

	orientation domain.Orientation
	columns     int
	seed        int

	watch     <-chan int
	cancel    func()
	skipFirst bool
}

// NewLayoutController creates a detached controller for the given
// orientation. A positive seed is applied on the first attach in place
// of the preference read, so callers can hand over a value resolved at
// startup.
func NewLayoutController(prefs domain.PreferenceStore, tabs *TabController, renderer Renderer, o domain.Orientation, seed int) *LayoutController {
	return &LayoutController{
		prefs:       prefs,
		tabs:        tabs,
		renderer:    renderer,
		orientation: o,
		seed:        seed,
	}
}

// Attach reads the current column count and subscribes to changes. The
// subscription's first emission mirrors the value just read and must not
// trigger a rebuild.
func (l *LayoutController) Attach() {
	if l.seed > 0 {
		l.columns = l.seed
		l.seed = 0
	} else {
		l.columns = l.prefs.Columns(l.orientation)
	}
	l.renderer.SetColumns(l.columns)
	l.watch, l.cancel = l.prefs.WatchColumns(l.orientation)
	l.skipFirst = true
}

// Detach cancels the active subscription.
func (l *LayoutController) Detach() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.watch = nil
}

// Watch exposes the active subscription channel for the engine loop.
// Nil while detached.
func (l *LayoutController) Watch() <-chan int { return l.watch }

// Columns returns the currently applied column count.
func (l *LayoutController) Columns() int { return l.columns }

// OnValue handles one emission from the watch channel.
func (l *LayoutController) OnValue(n int) {
	first := l.skipFirst
	l.skipFirst = false
	if n == l.columns {
		return
	}
	l.columns = n
	l.renderer.SetColumns(n)
	if first {
		return
	}
	l.tabs.Rebuild(true)
}

// SetOrientation re-resolves which per-orientation preference is observed.
// If the newly resolved column count differs from the applied one, exactly
// one forced rebuild is triggered.
func (l *LayoutController) SetOrientation(o domain.Orientation) {
	if o == l.orientation {
		return
	}
	attached := l.watch != nil
	l.Detach()
	l.orientation = o

	n := l.prefs.Columns(o)
	if attached {
		l.watch, l.cancel = l.prefs.WatchColumns(o)
		l.skipFirst = true
	}
	if n != l.columns {
		l.columns = n
		l.renderer.SetColumns(n)
		l.tabs.Rebuild(true)
	}
}
