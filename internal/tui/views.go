package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mizue/hondana/internal/domain"
	"github.com/mizue/hondana/internal/tui/styles"
)

const maxSearchResults = 10

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	if m.tabsVisible {
		b.WriteString(m.renderTabs())
		b.WriteString("\n")
	}

	switch m.state {
	case stateConfirmDelete:
		b.WriteString(m.renderConfirm())
	case statePickCategories:
		b.WriteString(m.renderPicker())
	case statePickFile:
		b.WriteString(m.renderFilePrompt())
	case stateCategoryEditor:
		b.WriteString(m.renderEditor())
	case stateGlobalSearch:
		b.WriteString(m.renderGlobalSearch())
	case stateHelp:
		b.WriteString(m.renderHelp())
	default:
		b.WriteString(m.renderContent())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderTabs draws the category tab row, honoring a deferred scroll
// request now that the geometry is known.
func (m *Model) renderTabs() string {
	if m.pendingTabScroll >= 0 {
		m.applyTabScroll(m.pendingTabScroll)
		m.pendingTabScroll = -1
	}

	var cells []string
	for i := m.tabOffset; i < len(m.categories); i++ {
		c := m.categories[i]
		label := c.Name
		if n := len(m.view.Visible[c.ID]); n > 0 {
			label = fmt.Sprintf("%s %d", c.Name, n)
		}
		if i == m.activeTab {
			cells = append(cells, styles.ActiveTabStyle.Render(label))
		} else {
			cells = append(cells, styles.InactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if lipgloss.Width(row) > m.width {
		row = lipgloss.NewStyle().MaxWidth(m.width).Render(row)
	}
	return row
}

// applyTabScroll slides the tab window so the given position is visible.
func (m *Model) applyTabScroll(position int) {
	if position < 0 || position >= len(m.categories) {
		return
	}
	if position < m.tabOffset {
		m.tabOffset = position
		return
	}
	for m.tabOffset < position {
		width := 0
		for i := m.tabOffset; i <= position; i++ {
			width += lipgloss.Width(styles.InactiveTabStyle.Render(m.categories[i].Name)) + 2
		}
		if width <= m.width {
			break
		}
		m.tabOffset++
	}
}

func (m *Model) renderContent() string {
	if m.emptyLibrary {
		return styles.DimStyle.Render("Your library is empty")
	}

	items := m.activeItems()
	if len(items) == 0 {
		return styles.DimStyle.Render("No manga match the current filters")
	}

	id, _ := m.activeCategoryID()
	cursor := m.cursors[id]
	if cursor >= len(items) {
		cursor = len(items) - 1
	}

	if m.prefs.DisplayMode() == domain.DisplayList {
		return m.renderList(items, cursor)
	}
	return m.renderGrid(items, cursor)
}

func (m *Model) renderGrid(items []domain.Manga, cursor int) string {
	cols := max(m.columns, 1)
	cellWidth := max(m.width/cols-2, 8)

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		var cells []string
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCell(items[i], i == cursor, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderCell(manga domain.Manga, focused bool, width int) string {
	title := truncate(manga.Title, width)
	body := styles.TitleStyle.Render(title) + "\n" + styles.DimStyle.Render(m.itemFlags(manga))

	style := styles.CellStyle
	if m.selected[manga.ID] {
		style = styles.SelectedCellStyle
	}
	if focused {
		style = styles.CursorCellStyle
	}
	return style.Width(width).Render(body)
}

func (m *Model) renderList(items []domain.Manga, cursor int) string {
	var b strings.Builder
	for i, manga := range items {
		prefix := "  "
		if i == cursor {
			prefix = styles.AccentStyle.Render("> ")
		}
		mark := ""
		if m.selected[manga.ID] {
			mark = styles.AccentStyle.Render(styles.CheckedChar) + " "
		}
		line := fmt.Sprintf("%s%s%s  %s", prefix, mark, manga.Title, styles.DimStyle.Render(m.itemFlags(manga)))
		b.WriteString(line)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) itemFlags(manga domain.Manga) string {
	var flags []string
	if manga.Favorite {
		flags = append(flags, styles.FavoriteChar)
	}
	if manga.Downloaded {
		flags = append(flags, styles.DownloadedChar)
	}
	if manga.HasUnread() {
		flags = append(flags, fmt.Sprintf("%s %d", styles.UnreadChar, manga.Unread))
	}
	return strings.Join(flags, " ")
}

func (m *Model) renderStatus() string {
	if m.notice != "" {
		return styles.NoticeStyle.Render(m.notice)
	}
	if m.actionMode {
		actions := "m move · D delete · esc cancel"
		if m.coverEnabled {
			actions = "m move · D delete · e cover · esc cancel"
		}
		return styles.ActionModeStyle.Render(fmt.Sprintf("%d selected", m.actionCount)) +
			"  " + styles.DimStyle.Render(actions)
	}

	var parts []string
	if m.searchOpen || m.searchInput.Value() != "" {
		parts = append(parts, styles.AccentStyle.Render("/"+m.searchInput.Value()))
		if m.state == stateSearchInput {
			parts = append(parts, m.searchInput.View())
		}
	}
	if m.prefs.FilterDownloaded() {
		parts = append(parts, styles.AccentStyle.Render("downloaded"))
	}
	if m.prefs.FilterUnread() {
		parts = append(parts, styles.AccentStyle.Render("unread"))
	}
	parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("%s · %d cols", m.orientation, m.columns)))
	if m.syncVisible {
		parts = append(parts, styles.DimStyle.Render("sync"))
	}
	parts = append(parts, styles.DimStyle.Render("? help"))
	return strings.Join(parts, "  ")
}

func (m *Model) renderConfirm() string {
	if m.confirm == nil {
		return ""
	}
	text := fmt.Sprintf("Delete %d manga from the library? (y/n)", m.confirm.Count)
	return styles.DialogStyle.Render(styles.ErrorStyle.Render(text))
}

func (m *Model) renderPicker() string {
	p := m.picker
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Move to categories"))
	b.WriteString("\n\n")
	for i, c := range p.choices {
		box := styles.UncheckedChar
		if p.checked[c.ID] {
			box = styles.CheckedChar
		}
		line := fmt.Sprintf("%s %s", box, c.Name)
		if i == p.cursor {
			line = styles.AccentStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("space toggle · enter confirm · esc cancel"))
	return styles.DialogStyle.Render(b.String())
}

func (m *Model) renderFilePrompt() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Select cover image"))
	b.WriteString("\n\n")
	b.WriteString(m.filePrompt.View())
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("enter confirm · esc cancel"))
	return styles.DialogStyle.Render(b.String())
}

func (m *Model) renderEditor() string {
	ed := m.editor
	if ed == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Categories"))
	b.WriteString("\n\n")
	if len(ed.items) == 0 {
		b.WriteString(styles.DimStyle.Render("No categories yet"))
		b.WriteString("\n")
	}
	for i, c := range ed.items {
		line := c.Name
		if i == ed.cursor {
			line = styles.AccentStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if ed.mode != editorList {
		b.WriteString(ed.input.View())
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("enter save · esc back"))
	} else {
		b.WriteString(styles.DimStyle.Render("a add · r rename · D delete · K/J move · esc close"))
	}
	return styles.DialogStyle.Render(b.String())
}

func (m *Model) renderGlobalSearch() string {
	g := m.global
	if g == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Global search"))
	b.WriteString("\n\n")
	b.WriteString(g.input.View())
	b.WriteString("\n\n")

	query := g.input.Value()
	shown := min(len(g.results), maxSearchResults)
	for i := 0; i < shown; i++ {
		r := g.results[i]
		title := highlightMatches(r.Manga.Title, query)
		category := ""
		if c, ok := m.categoryByID(r.CategoryID); ok {
			category = styles.DimStyle.Render(" · " + c.Name)
		}
		if i == g.cursor {
			b.WriteString(styles.AccentStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(title)
		b.WriteString(category)
		b.WriteString("\n")
	}
	if len(g.results) == 0 && query != "" {
		b.WriteString(styles.DimStyle.Render("No matches"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter jump to category · esc close"))
	return styles.DialogStyle.Render(b.String())
}

// highlightMatches emphasizes the characters of title that the query
// matched.
func highlightMatches(title, query string) string {
	if query == "" {
		return title
	}
	matches := fuzzy.Find(query, []string{title})
	if len(matches) == 0 {
		return title
	}
	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}
	var b strings.Builder
	for i, r := range title {
		if matched[i] {
			b.WriteString(styles.AccentStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) renderHelp() string {
	lines := []string{
		styles.TitleStyle.Render("Keys"),
		"",
		"[ / ]       switch category",
		"hjkl        move cursor",
		"space       select manga",
		"m           move selection to categories",
		"D           delete selection",
		"e           change cover (single selection)",
		"/           filter by title",
		"d, u, f     downloaded / unread / clear filters",
		"g           global search",
		"s           grid or list",
		"o           rotate orientation",
		"+ / -       columns per row",
		"C           edit categories",
		"q           quit",
	}
	return styles.DialogStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) categoryByID(id int) (domain.Category, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func truncate(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
