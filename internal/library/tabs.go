package library

import "github.com/mizue/hondana/internal/domain"

// View is the per-tab render model delivered to the presentation boundary:
// for each category, the manga that pass the current filters, in library
// order. Renderers may read it but never mutate engine state through it.
type View struct {
	Categories []domain.Category
	Visible    map[int][]domain.Manga // category ID -> visible manga
}

// Renderer is the presentation boundary for the tabbed library view. All
// methods are invoked from the engine goroutine and must not block;
// implementations hand the work off to their own event loop.
type Renderer interface {
	// SetTabs replaces the tab row. The tab bar is hidden entirely when
	// visible is false (category count <= 1).
	SetTabs(categories []domain.Category, active int, visible bool)

	// ScrollToTab re-applies the scroll indicator for the given position.
	// Implementations must defer the actual scroll until the view has
	// been laid out; applying it immediately reads stale geometry.
	ScrollToTab(position int)

	// RecreateContent discards and rebuilds every tab's content view.
	// Required after a column-count change to recompute item heights.
	RecreateContent()

	// PublishView delivers the filtered per-category render model.
	PublishView(v View)

	// SetEmptyLibrary toggles the empty-library indicator.
	SetEmptyLibrary(empty bool)

	// SetColumns updates the number of items per row.
	SetColumns(n int)

	// SetSyncActionVisible toggles the library-sync action's visibility.
	SetSyncActionVisible(visible bool)
}

// ActionModeHost owns the contextual action chrome shown while a batch
// selection is active.
type ActionModeHost interface {
	CreateActionMode()

	// InvalidateActionMode refreshes the chrome: the selected count in the
	// title and whether the change-cover action is enabled (exactly one
	// manga selected).
	InvalidateActionMode(count int, coverEnabled bool)

	DestroyActionMode()
}

// TabController owns the ordered category list and the mapping from tab
// position to per-category content. Owned by the engine goroutine.
type TabController struct {
	renderer   Renderer
	prefs      domain.PreferenceStore
	categories []domain.Category
	active     int
}

// NewTabController creates a controller with the restored active position.
func NewTabController(renderer Renderer, prefs domain.PreferenceStore, restoredActive int) *TabController {
	return &TabController{
		renderer: renderer,
		prefs:    prefs,
		active:   restoredActive,
	}
}

// SetCategories replaces the ordered category list. The active tab's
// category identity is preserved when it survives the update; otherwise
// the persisted last-used index is restored, clamped to the valid range.
func (t *TabController) SetCategories(categories []domain.Category) {
	prevID, hadActive := 0, false
	if len(t.categories) > 0 && t.active >= 0 && t.active < len(t.categories) {
		prevID = t.categories[t.active].ID
		hadActive = true
	}

	t.categories = categories

	if hadActive {
		if idx := indexOfCategory(categories, prevID); idx >= 0 {
			t.active = idx
		} else {
			t.active = clamp(t.prefs.LastUsedCategory(), len(categories))
		}
	} else {
		t.active = clamp(t.active, len(categories))
	}

	t.renderer.SetTabs(categories, t.active, t.Visible())
	t.renderer.ScrollToTab(t.active)
}

// Rebuild refreshes the tabbed view. With forceRecreate the per-tab
// content views are discarded and rebuilt; otherwise they are reused and
// only their data is refreshed. The active tab never changes.
func (t *TabController) Rebuild(forceRecreate bool) {
	t.renderer.SetTabs(t.categories, t.active, t.Visible())
	if forceRecreate {
		t.renderer.RecreateContent()
	}
	t.renderer.ScrollToTab(t.active)
}

// SetActive focuses the tab at the given position and persists it as the
// last-used category.
func (t *TabController) SetActive(position int) {
	position = clamp(position, len(t.categories))
	if position == t.active {
		return
	}
	t.active = position
	t.prefs.SetLastUsedCategory(position)
	t.renderer.SetTabs(t.categories, t.active, t.Visible())
	t.renderer.ScrollToTab(t.active)
}

// Active returns the focused tab position.
func (t *TabController) Active() int { return t.active }

// ActiveCategory returns the category at the focused position.
func (t *TabController) ActiveCategory() (domain.Category, bool) {
	if t.active < 0 || t.active >= len(t.categories) {
		return domain.Category{}, false
	}
	return t.categories[t.active], true
}

// Categories returns the ordered category list. The slice must be treated
// as read-only.
func (t *TabController) Categories() []domain.Category { return t.categories }

// Visible reports whether the tab bar should be shown at all. A bar with
// a single tab is pointless.
func (t *TabController) Visible() bool { return len(t.categories) > 1 }

func indexOfCategory(categories []domain.Category, id int) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func clamp(pos, n int) int {
	if n == 0 {
		return 0
	}
	if pos < 0 {
		return 0
	}
	if pos >= n {
		return n - 1
	}
	return pos
}
