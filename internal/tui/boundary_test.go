package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizue/hondana/internal/domain"
	"github.com/mizue/hondana/internal/library"
)

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestBoundaryConvertsCallsToMessages(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{}
	b := NewBoundary()
	b.Bind(rec)

	cats := []domain.Category{{ID: 1, Name: "Reading"}}
	b.SetTabs(cats, 0, true)
	b.ScrollToTab(0)
	b.RecreateContent()
	b.PublishView(library.View{Categories: cats})
	b.SetEmptyLibrary(false)
	b.SetColumns(3)
	b.SetSyncActionVisible(true)
	b.Notify("hello")
	b.PickImage(7)

	require.Len(t, rec.msgs, 9)
	assert.Equal(t, TabsMsg{Categories: cats, Active: 0, Visible: true}, rec.msgs[0])
	assert.Equal(t, ScrollTabMsg{Position: 0}, rec.msgs[1])
	assert.IsType(t, RecreateContentMsg{}, rec.msgs[2])
	assert.Equal(t, EmptyLibraryMsg{Empty: false}, rec.msgs[4])
	assert.Equal(t, ColumnsMsg{Columns: 3}, rec.msgs[5])
	assert.Equal(t, SyncVisibleMsg{Visible: true}, rec.msgs[6])
	assert.Equal(t, NoticeMsg{Text: "hello"}, rec.msgs[7])
	assert.Equal(t, PickFileMsg{Token: 7}, rec.msgs[8])
}

func TestBoundaryActionModeLifecycle(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{}
	b := NewBoundary()
	b.Bind(rec)

	b.CreateActionMode()
	b.InvalidateActionMode(2, false)
	b.DestroyActionMode()

	require.Len(t, rec.msgs, 3)
	assert.Equal(t, ActionModeMsg{Op: ActionModeCreate}, rec.msgs[0])
	assert.Equal(t, ActionModeMsg{Op: ActionModeInvalidate, Count: 2}, rec.msgs[1])
	assert.Equal(t, ActionModeMsg{Op: ActionModeDestroy}, rec.msgs[2])
}

func TestBoundaryUnboundDropsMessages(t *testing.T) {
	t.Parallel()

	b := NewBoundary()
	// Calls before Bind must not panic.
	b.Notify("dropped")
	b.SetColumns(2)
}

func TestBoundaryDialogCallbacks(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{}
	b := NewBoundary()
	b.Bind(rec)

	var confirmed bool
	b.ConfirmDelete(3, func() { confirmed = true })

	require.Len(t, rec.msgs, 1)
	msg, ok := rec.msgs[0].(ConfirmDeleteMsg)
	require.True(t, ok)
	assert.Equal(t, 3, msg.Count)
	msg.Accept()
	assert.True(t, confirmed)

	var chosen []int
	b.PickCategories([]domain.Category{{ID: 2}}, []int{2}, func(ids []int) { chosen = ids })
	pick, ok := rec.msgs[1].(PickCategoriesMsg)
	require.True(t, ok)
	assert.Equal(t, []int{2}, pick.Preselected)
	pick.Accept([]int{2, 5})
	assert.Equal(t, []int{2, 5}, chosen)
}
