package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizue/hondana/internal/domain"
	"github.com/mizue/hondana/internal/library"
)

// sender is the part of *tea.Program the boundary needs. Send is safe to
// call from any goroutine.
type sender interface {
	Send(msg tea.Msg)
}

// Boundary adapts the engine's presentation contracts onto the Bubble Tea
// loop. Every method converts the call into a message and returns
// immediately, so the engine goroutine never blocks on the UI.
type Boundary struct {
	program sender
}

// NewBoundary creates a detached boundary; Bind must be called with the
// running program before the engine starts.
func NewBoundary() *Boundary {
	return &Boundary{}
}

// Bind attaches the boundary to the program that will receive messages.
func (b *Boundary) Bind(p sender) { b.program = p }

func (b *Boundary) send(msg tea.Msg) {
	if b.program != nil {
		b.program.Send(msg)
	}
}

// === library.Renderer ===

func (b *Boundary) SetTabs(categories []domain.Category, active int, visible bool) {
	b.send(TabsMsg{Categories: categories, Active: active, Visible: visible})
}

func (b *Boundary) ScrollToTab(position int) {
	b.send(ScrollTabMsg{Position: position})
}

func (b *Boundary) RecreateContent() {
	b.send(RecreateContentMsg{})
}

func (b *Boundary) PublishView(v library.View) {
	b.send(ViewMsg{View: v})
}

func (b *Boundary) SetEmptyLibrary(empty bool) {
	b.send(EmptyLibraryMsg{Empty: empty})
}

func (b *Boundary) SetColumns(n int) {
	b.send(ColumnsMsg{Columns: n})
}

func (b *Boundary) SetSyncActionVisible(visible bool) {
	b.send(SyncVisibleMsg{Visible: visible})
}

// === library.ActionModeHost ===

func (b *Boundary) CreateActionMode() {
	b.send(ActionModeMsg{Op: ActionModeCreate})
}

func (b *Boundary) InvalidateActionMode(count int, coverEnabled bool) {
	b.send(ActionModeMsg{Op: ActionModeInvalidate, Count: count, CoverEnabled: coverEnabled})
}

func (b *Boundary) DestroyActionMode() {
	b.send(ActionModeMsg{Op: ActionModeDestroy})
}

// === domain.Dialogs ===

func (b *Boundary) ConfirmDelete(count int, accept func()) {
	b.send(ConfirmDeleteMsg{Count: count, Accept: accept})
}

func (b *Boundary) PickCategories(choices []domain.Category, preselected []int, accept func(chosen []int)) {
	b.send(PickCategoriesMsg{Choices: choices, Preselected: preselected, Accept: accept})
}

func (b *Boundary) OpenCategoryEditor() {
	b.send(OpenCategoryEditorMsg{})
}

// === domain.Notifier ===

func (b *Boundary) Notify(msg string) {
	b.send(NoticeMsg{Text: msg})
}

// === domain.FilePicker ===

func (b *Boundary) PickImage(token int) {
	b.send(PickFileMsg{Token: token})
}
