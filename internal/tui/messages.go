package tui

import (
	"github.com/mizue/hondana/internal/domain"
	"github.com/mizue/hondana/internal/library"
)

// Messages posted into the Bubble Tea loop by the engine boundary.

// TabsMsg replaces the tab row.
type TabsMsg struct {
	Categories []domain.Category
	Active     int
	Visible    bool
}

// ScrollTabMsg re-applies the tab scroll indicator on the next layout pass.
type ScrollTabMsg struct {
	Position int
}

// RecreateContentMsg discards all per-tab content state (cursors, scroll
// offsets) so it is rebuilt with fresh geometry.
type RecreateContentMsg struct{}

// ViewMsg delivers the filtered per-category render model.
type ViewMsg struct {
	View library.View
}

// EmptyLibraryMsg toggles the empty-library indicator.
type EmptyLibraryMsg struct {
	Empty bool
}

// ColumnsMsg updates the grid column count.
type ColumnsMsg struct {
	Columns int
}

// SyncVisibleMsg toggles the sync action's visibility.
type SyncVisibleMsg struct {
	Visible bool
}

// ActionModeMsg drives the batch-action chrome lifecycle.
type ActionModeMsg struct {
	Op           ActionModeOp
	Count        int
	CoverEnabled bool
}

// ActionModeOp selects the chrome operation.
type ActionModeOp int

const (
	ActionModeCreate ActionModeOp = iota
	ActionModeInvalidate
	ActionModeDestroy
)

// NoticeMsg shows a short user-visible notice.
type NoticeMsg struct {
	Text string
}

// noticeExpiredMsg clears a shown notice.
type noticeExpiredMsg struct {
	seq int
}

// ConfirmDeleteMsg opens the delete confirmation dialog.
type ConfirmDeleteMsg struct {
	Count  int
	Accept func()
}

// PickCategoriesMsg opens the move-to-categories multi-select picker.
type PickCategoriesMsg struct {
	Choices     []domain.Category
	Preselected []int
	Accept      func(chosen []int)
}

// PickFileMsg opens the cover file prompt for the given correlation token.
type PickFileMsg struct {
	Token int
}

// OpenCategoryEditorMsg switches to the category CRUD surface.
type OpenCategoryEditorMsg struct{}
