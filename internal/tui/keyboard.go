package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizue/hondana/internal/domain"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSearchInput:
		return m.handleSearchKey(msg)
	case stateConfirmDelete:
		return m.handleConfirmKey(msg)
	case statePickCategories:
		return m.handlePickerKey(msg)
	case statePickFile:
		return m.handleFilePromptKey(msg)
	case stateCategoryEditor:
		return m.handleEditorKey(msg)
	case stateGlobalSearch:
		return m.handleGlobalSearchKey(msg)
	case stateHelp:
		m.state = stateBrowsing
		return m, nil
	default:
		return m.handleBrowsingKey(msg)
	}
}

func (m *Model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevTab):
		m.engine.SelectTab(m.activeTab - 1)
	case key.Matches(msg, m.keys.NextTab):
		m.engine.SelectTab(m.activeTab + 1)

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-max(m.columns, 1))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(max(m.columns, 1))
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.ToggleSelect):
		if manga, ok := m.cursorManga(); ok {
			m.selected[manga.ID] = !m.selected[manga.ID]
			if !m.selected[manga.ID] {
				delete(m.selected, manga.ID)
			}
			m.engine.ToggleSelection(manga)
		}

	case key.Matches(msg, m.keys.Move):
		m.engine.MoveSelectedToCategories()
	case key.Matches(msg, m.keys.Delete):
		m.engine.DeleteSelected()
	case key.Matches(msg, m.keys.EditCover):
		m.engine.ChangeSelectedCover()

	case key.Matches(msg, m.keys.Escape):
		if m.actionMode {
			m.engine.ClearSelection()
		}

	case key.Matches(msg, m.keys.Search):
		m.searchOpen = true
		m.searchInput.Focus()
		m.state = stateSearchInput
		return m, textinput.Blink

	case key.Matches(msg, m.keys.GlobalSearch):
		m.openGlobalSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.FilterDownload):
		m.engine.ToggleDownloadedFilter()
	case key.Matches(msg, m.keys.FilterUnread):
		m.engine.ToggleUnreadFilter()
	case key.Matches(msg, m.keys.ClearFilters):
		m.engine.ClearFilters()

	case key.Matches(msg, m.keys.SwapDisplay):
		m.engine.SwapDisplayMode()

	case key.Matches(msg, m.keys.Rotate):
		m.orientation = rotated(m.orientation)
		m.engine.SetOrientation(m.orientation)

	case key.Matches(msg, m.keys.MoreColumns):
		m.prefs.SetColumns(m.orientation, m.prefs.Columns(m.orientation)+1)
	case key.Matches(msg, m.keys.FewerColumns):
		m.prefs.SetColumns(m.orientation, m.prefs.Columns(m.orientation)-1)

	case key.Matches(msg, m.keys.Categories):
		m.engine.EditCategories()

	case key.Matches(msg, m.keys.Help):
		m.state = stateHelp
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	id, ok := m.activeCategoryID()
	if !ok {
		return
	}
	n := len(m.view.Visible[id])
	if n == 0 {
		return
	}
	cur := m.cursors[id] + delta
	if cur < 0 {
		cur = 0
	}
	if cur >= n {
		cur = n - 1
	}
	m.cursors[id] = cur
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.searchOpen = false
		m.state = stateBrowsing
		m.engine.SetSearchQuery("")
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.searchInput.Blur()
		m.state = stateBrowsing
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != before {
		m.engine.SetSearchQuery(v)
	}
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := m.confirm
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.confirm = nil
		m.state = stateBrowsing
		if confirm != nil && confirm.Accept != nil {
			confirm.Accept()
		}
	case "n", "esc":
		m.confirm = nil
		m.state = stateBrowsing
	}
	return m, nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.picker
	if p == nil {
		m.state = stateBrowsing
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case key.Matches(msg, m.keys.ToggleSelect):
		if p.cursor < len(p.choices) {
			id := p.choices[p.cursor].ID
			p.checked[id] = !p.checked[id]
		}
	case msg.Type == tea.KeyEnter:
		chosen := make([]int, 0, len(p.choices))
		for _, c := range p.choices {
			if p.checked[c.ID] {
				chosen = append(chosen, c.ID)
			}
		}
		m.picker = nil
		m.state = stateBrowsing
		p.accept(chosen)
	case key.Matches(msg, m.keys.Escape):
		m.picker = nil
		m.state = stateBrowsing
	}
	return m, nil
}

func (m *Model) handleFilePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.filePrompt.Blur()
		m.state = stateBrowsing
		m.engine.CancelCoverFile(m.fileToken)
		return m, nil
	case msg.Type == tea.KeyEnter:
		path := strings.TrimSpace(m.filePrompt.Value())
		if path == "" {
			return m, nil
		}
		f, err := os.Open(path)
		if err != nil {
			m.logger.Error("failed to open cover file", "path", path, "error", err)
			return m, m.showNotice(fmt.Sprintf("Cannot open %s", path))
		}
		m.filePrompt.Blur()
		m.state = stateBrowsing
		m.engine.DeliverCoverFile(m.fileToken, f)
		return m, nil
	}

	var cmd tea.Cmd
	m.filePrompt, cmd = m.filePrompt.Update(msg)
	return m, cmd
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.editor
	if ed == nil {
		m.state = stateBrowsing
		return m, nil
	}

	if ed.mode != editorList {
		switch {
		case key.Matches(msg, m.keys.Escape):
			ed.mode = editorList
			ed.input.Blur()
			return m, nil
		case msg.Type == tea.KeyEnter:
			name := strings.TrimSpace(ed.input.Value())
			if name == "" {
				return m, nil
			}
			ctx := context.Background()
			var err error
			if ed.mode == editorAdd {
				_, err = m.cats.CreateCategory(ctx, name)
			} else if ed.cursor < len(ed.items) {
				err = m.cats.RenameCategory(ctx, ed.items[ed.cursor].ID, name)
			}
			var cmd tea.Cmd
			if err != nil {
				m.logger.Error("category edit failed", "error", err)
				cmd = m.showNotice("Category update failed")
			}
			ed.mode = editorList
			ed.input.Blur()
			ed.items = m.editableCategories()
			return m, cmd
		}
		var cmd tea.Cmd
		ed.input, cmd = ed.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.editor = nil
		m.state = stateBrowsing
	case key.Matches(msg, m.keys.Up):
		if ed.cursor > 0 {
			ed.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if ed.cursor < len(ed.items)-1 {
			ed.cursor++
		}
	case msg.String() == "a":
		ed.mode = editorAdd
		ed.input.SetValue("")
		ed.input.Focus()
		return m, textinput.Blink
	case msg.String() == "r":
		if ed.cursor < len(ed.items) {
			ed.mode = editorRename
			ed.input.SetValue(ed.items[ed.cursor].Name)
			ed.input.Focus()
			return m, textinput.Blink
		}
	case msg.String() == "D":
		if ed.cursor < len(ed.items) {
			if err := m.cats.DeleteCategory(context.Background(), ed.items[ed.cursor].ID); err != nil {
				m.logger.Error("category delete failed", "error", err)
				return m, m.showNotice("Category delete failed")
			}
			ed.items = m.editableCategories()
			if ed.cursor >= len(ed.items) && ed.cursor > 0 {
				ed.cursor--
			}
		}
	case msg.String() == "K":
		if ed.cursor > 0 && ed.cursor < len(ed.items) {
			ed.items[ed.cursor-1], ed.items[ed.cursor] = ed.items[ed.cursor], ed.items[ed.cursor-1]
			ed.cursor--
			return m, m.applyCategoryOrder(ed)
		}
	case msg.String() == "J":
		if ed.cursor >= 0 && ed.cursor < len(ed.items)-1 {
			ed.items[ed.cursor], ed.items[ed.cursor+1] = ed.items[ed.cursor+1], ed.items[ed.cursor]
			ed.cursor++
			return m, m.applyCategoryOrder(ed)
		}
	}
	return m, nil
}

// applyCategoryOrder persists the editor's current item order.
func (m *Model) applyCategoryOrder(ed *categoryEditor) tea.Cmd {
	ids := make([]int, len(ed.items))
	for i, c := range ed.items {
		ids[i] = c.ID
	}
	if err := m.cats.SetCategoryOrder(context.Background(), ids); err != nil {
		m.logger.Error("category reorder failed", "error", err)
		return m.showNotice("Category update failed")
	}
	return nil
}

func (m *Model) openGlobalSearch() {
	input := textinput.New()
	input.Placeholder = "Search everywhere..."
	input.CharLimit = 128
	input.Focus()
	m.global = &globalSearch{input: input}
	m.state = stateGlobalSearch
	// The library view is detached while the overlay is up; search text
	// changes buffer until resume.
	m.engine.Pause()
}

func (m *Model) closeGlobalSearch() {
	m.global = nil
	m.state = stateBrowsing
	m.engine.Resume()
}

func (m *Model) handleGlobalSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.global
	if g == nil {
		m.state = stateBrowsing
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeGlobalSearch()
		return m, nil
	case msg.Type == tea.KeyEnter:
		if g.cursor < len(g.results) {
			target := g.results[g.cursor].CategoryID
			m.closeGlobalSearch()
			for pos, c := range m.categories {
				if c.ID == target {
					m.engine.SelectTab(pos)
					break
				}
			}
		} else {
			m.closeGlobalSearch()
		}
		return m, nil
	case msg.Type == tea.KeyUp:
		if g.cursor > 0 {
			g.cursor--
		}
		return m, nil
	case msg.Type == tea.KeyDown:
		if g.cursor < len(g.results)-1 {
			g.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := g.input.Value()
	g.input, cmd = g.input.Update(msg)
	if v := g.input.Value(); v != before {
		g.cursor = 0
		g.results = nil
		if snap, err := m.reader.Snapshot(); err == nil {
			g.results = m.searcher.Search(snap, v)
		}
	}
	return m, cmd
}

func rotated(o domain.Orientation) domain.Orientation {
	if o == domain.Portrait {
		return domain.Landscape
	}
	return domain.Portrait
}
