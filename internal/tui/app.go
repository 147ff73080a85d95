package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizue/hondana/internal/domain"
	"github.com/mizue/hondana/internal/library"
	"github.com/mizue/hondana/internal/search"
)

// uiState represents which surface currently has input focus.
type uiState int

const (
	stateBrowsing uiState = iota
	stateSearchInput
	stateConfirmDelete
	statePickCategories
	statePickFile
	stateCategoryEditor
	stateGlobalSearch
	stateHelp
)

// EngineControls is the slice of the engine the TUI drives. All methods
// are asynchronous and safe to call from the update loop.
type EngineControls interface {
	SelectTab(position int)
	SetSearchQuery(query string)
	ToggleDownloadedFilter()
	ToggleUnreadFilter()
	ClearFilters()
	ToggleSelection(m domain.Manga)
	ClearSelection()
	MoveSelectedToCategories()
	DeleteSelected()
	ChangeSelectedCover()
	DeliverCoverFile(token int, rc io.ReadCloser)
	CancelCoverFile(token int)
	SetOrientation(o domain.Orientation)
	SwapDisplayMode()
	EditCategories()
	Pause()
	Resume()
}

// CategoryStore is the category CRUD surface backing the editor.
type CategoryStore interface {
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	RenameCategory(ctx context.Context, id int, name string) error
	DeleteCategory(ctx context.Context, id int) error
	SetCategoryOrder(ctx context.Context, orderedIDs []int) error
}

// SnapshotReader supplies the unfiltered corpus for global search and the
// category editor.
type SnapshotReader interface {
	Snapshot() (domain.Snapshot, error)
}

// categoryPicker is the move-to-categories multi-select dialog state.
type categoryPicker struct {
	choices []domain.Category
	checked map[int]bool
	cursor  int
	accept  func(chosen []int)
}

// editorMode selects what the category editor is doing.
type editorMode int

const (
	editorList editorMode = iota
	editorAdd
	editorRename
)

// categoryEditor is the category CRUD dialog state.
type categoryEditor struct {
	items  []domain.Category
	cursor int
	mode   editorMode
	input  textinput.Model
}

// globalSearch is the fuzzy search overlay state.
type globalSearch struct {
	input   textinput.Model
	results []search.Result
	cursor  int
}

// Model is the main Bubble Tea model for the application.
type Model struct {
	engine   EngineControls
	cats     CategoryStore
	reader   SnapshotReader
	prefs    domain.PreferenceStore
	searcher *search.Service
	keys     KeyMap
	logger   *slog.Logger

	width  int
	height int
	state  uiState

	// Library view state, fed exclusively by engine messages.
	categories       []domain.Category
	activeTab        int
	tabsVisible      bool
	tabOffset        int
	pendingTabScroll int
	view             library.View
	emptyLibrary     bool
	columns          int
	syncVisible      bool
	orientation      domain.Orientation

	// Per-category cursor positions; discarded on content recreation.
	cursors map[int]int

	// Mirror of the engine selection for rendering check marks.
	selected     map[int64]bool
	actionMode   bool
	actionCount  int
	coverEnabled bool

	searchInput textinput.Model
	searchOpen  bool

	notice    string
	noticeSeq int

	confirm    *ConfirmDeleteMsg
	picker     *categoryPicker
	filePrompt textinput.Model
	fileToken  int
	editor     *categoryEditor
	global     *globalSearch
}

// NewModel creates the application model.
func NewModel(engine EngineControls, cats CategoryStore, reader SnapshotReader, prefs domain.PreferenceStore, searcher *search.Service, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	si := textinput.New()
	si.Placeholder = "Search library..."
	si.CharLimit = 128

	fp := textinput.New()
	fp.Placeholder = "Path to cover image..."
	fp.CharLimit = 512

	return &Model{
		engine:           engine,
		cats:             cats,
		reader:           reader,
		prefs:            prefs,
		searcher:         searcher,
		keys:             DefaultKeyMap(),
		logger:           logger,
		pendingTabScroll: -1,
		cursors:          make(map[int]int),
		selected:         make(map[int64]bool),
		searchInput:      si,
		filePrompt:       fp,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TabsMsg:
		m.categories = msg.Categories
		m.activeTab = msg.Active
		m.tabsVisible = msg.Visible
		return m, nil

	case ScrollTabMsg:
		// Deferred: applied during the next render, once geometry is
		// known.
		m.pendingTabScroll = msg.Position
		return m, nil

	case RecreateContentMsg:
		m.cursors = make(map[int]int)
		return m, nil

	case ViewMsg:
		m.view = msg.View
		m.clampCursors()
		return m, nil

	case EmptyLibraryMsg:
		m.emptyLibrary = msg.Empty
		return m, nil

	case ColumnsMsg:
		m.columns = msg.Columns
		return m, nil

	case SyncVisibleMsg:
		m.syncVisible = msg.Visible
		return m, nil

	case ActionModeMsg:
		return m.handleActionMode(msg)

	case NoticeMsg:
		return m, m.showNotice(msg.Text)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case ConfirmDeleteMsg:
		m.confirm = &msg
		m.state = stateConfirmDelete
		return m, nil

	case PickCategoriesMsg:
		checked := make(map[int]bool, len(msg.Preselected))
		for _, id := range msg.Preselected {
			checked[id] = true
		}
		m.picker = &categoryPicker{
			choices: msg.Choices,
			checked: checked,
			accept:  msg.Accept,
		}
		m.state = statePickCategories
		return m, nil

	case PickFileMsg:
		m.fileToken = msg.Token
		m.filePrompt.SetValue("")
		m.filePrompt.Focus()
		m.state = statePickFile
		return m, textinput.Blink

	case OpenCategoryEditorMsg:
		m.openCategoryEditor()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleActionMode(msg ActionModeMsg) (tea.Model, tea.Cmd) {
	switch msg.Op {
	case ActionModeCreate:
		m.actionMode = true
	case ActionModeInvalidate:
		m.actionCount = msg.Count
		m.coverEnabled = msg.CoverEnabled
	case ActionModeDestroy:
		m.actionMode = false
		m.actionCount = 0
		m.coverEnabled = false
		m.selected = make(map[int64]bool)
	}
	return m, nil
}

// showNotice displays text in the status line and schedules its expiry.
// The sequence number keeps a later notice from being cleared early.
func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// activeCategoryID returns the category shown on the focused tab.
func (m *Model) activeCategoryID() (int, bool) {
	if m.activeTab < 0 || m.activeTab >= len(m.categories) {
		return 0, false
	}
	return m.categories[m.activeTab].ID, true
}

// activeItems returns the visible manga for the focused tab.
func (m *Model) activeItems() []domain.Manga {
	id, ok := m.activeCategoryID()
	if !ok {
		return nil
	}
	return m.view.Visible[id]
}

// cursorManga returns the manga under the cursor on the focused tab.
func (m *Model) cursorManga() (domain.Manga, bool) {
	items := m.activeItems()
	if len(items) == 0 {
		return domain.Manga{}, false
	}
	id, _ := m.activeCategoryID()
	cur := m.cursors[id]
	if cur >= len(items) {
		cur = len(items) - 1
	}
	return items[cur], true
}

// clampCursors keeps every per-category cursor inside the refreshed data.
func (m *Model) clampCursors() {
	for id, cur := range m.cursors {
		n := len(m.view.Visible[id])
		if n == 0 {
			m.cursors[id] = 0
		} else if cur >= n {
			m.cursors[id] = n - 1
		}
	}
}

func (m *Model) openCategoryEditor() {
	items := m.editableCategories()
	input := textinput.New()
	input.Placeholder = "Category name..."
	input.CharLimit = 64
	m.editor = &categoryEditor{items: items, input: input}
	m.state = stateCategoryEditor
}

// editableCategories lists the real (non-default) categories from the
// latest store snapshot.
func (m *Model) editableCategories() []domain.Category {
	snap, err := m.reader.Snapshot()
	if err != nil {
		m.logger.Error("failed to read snapshot for editor", "error", err)
		return nil
	}
	items := make([]domain.Category, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		if !c.IsDefault() {
			items = append(items, c)
		}
	}
	return items
}
