package library

import (
	"context"
	"io"
	"sync"

	"github.com/mizue/hondana/internal/domain"
)

// fakeRenderer records every presentation-boundary call.
type fakeRenderer struct {
	mu          sync.Mutex
	tabs        []tabCall
	scrolls     []int
	recreates   int
	views       []View
	empty       []bool
	columns     []int
	syncVisible []bool
}

type tabCall struct {
	categories []domain.Category
	active     int
	visible    bool
}

func (r *fakeRenderer) SetTabs(categories []domain.Category, active int, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs = append(r.tabs, tabCall{categories: categories, active: active, visible: visible})
}

func (r *fakeRenderer) ScrollToTab(position int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls = append(r.scrolls, position)
}

func (r *fakeRenderer) RecreateContent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recreates++
}

func (r *fakeRenderer) PublishView(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *fakeRenderer) SetEmptyLibrary(empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.empty = append(r.empty, empty)
}

func (r *fakeRenderer) SetColumns(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns = append(r.columns, n)
}

func (r *fakeRenderer) SetSyncActionVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncVisible = append(r.syncVisible, visible)
}

func (r *fakeRenderer) lastTabs() (tabCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tabs) == 0 {
		return tabCall{}, false
	}
	return r.tabs[len(r.tabs)-1], true
}

func (r *fakeRenderer) lastView() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return View{}, false
	}
	return r.views[len(r.views)-1], true
}

func (r *fakeRenderer) recreateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recreates
}

// fakeChrome records the action-mode chrome lifecycle.
type fakeChrome struct {
	mu          sync.Mutex
	creates     int
	destroys    int
	invalidates []invalidateCall
}

type invalidateCall struct {
	count        int
	coverEnabled bool
}

func (c *fakeChrome) CreateActionMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates++
}

func (c *fakeChrome) InvalidateActionMode(count int, coverEnabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidates = append(c.invalidates, invalidateCall{count: count, coverEnabled: coverEnabled})
}

func (c *fakeChrome) DestroyActionMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroys++
}

func (c *fakeChrome) counts() (creates, destroys int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creates, c.destroys
}

// fakePrefs is an in-memory domain.PreferenceStore.
type fakePrefs struct {
	mu         sync.Mutex
	downloaded bool
	unread     bool
	sync       bool
	lastUsed   int
	query      string
	mode       domain.DisplayMode
	cols       map[domain.Orientation]int
	colSubs    map[domain.Orientation][]chan int
	syncSubs   []chan bool
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{
		cols:    map[domain.Orientation]int{domain.Portrait: 2, domain.Landscape: 4},
		colSubs: make(map[domain.Orientation][]chan int),
	}
}

func (p *fakePrefs) FilterDownloaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.downloaded
}

func (p *fakePrefs) SetFilterDownloaded(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.downloaded = v
}

func (p *fakePrefs) FilterUnread() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

func (p *fakePrefs) SetFilterUnread(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unread = v
}

func (p *fakePrefs) Columns(o domain.Orientation) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cols[o]
}

func (p *fakePrefs) SetColumns(o domain.Orientation, n int) {
	p.mu.Lock()
	p.cols[o] = n
	subs := append([]chan int(nil), p.colSubs[o]...)
	p.mu.Unlock()
	for _, ch := range subs {
		pushInt(ch, n)
	}
}

func (p *fakePrefs) WatchColumns(o domain.Orientation) (<-chan int, func()) {
	ch := make(chan int, 1)
	p.mu.Lock()
	ch <- p.cols[o]
	p.colSubs[o] = append(p.colSubs[o], ch)
	p.mu.Unlock()
	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		subs := p.colSubs[o]
		for i, c := range subs {
			if c == ch {
				p.colSubs[o] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

func (p *fakePrefs) LastUsedCategory() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUsed
}

func (p *fakePrefs) SetLastUsedCategory(pos int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastUsed = pos
}

func (p *fakePrefs) DisplayMode() domain.DisplayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *fakePrefs) SetDisplayMode(m domain.DisplayMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
}

func (p *fakePrefs) SyncEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sync
}

func (p *fakePrefs) WatchSyncEnabled() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	p.mu.Lock()
	ch <- p.sync
	p.syncSubs = append(p.syncSubs, ch)
	p.mu.Unlock()
	return ch, func() {}
}

func (p *fakePrefs) SearchQuery() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

func (p *fakePrefs) SetSearchQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = q
}

func pushInt(ch chan int, v int) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// fakeSource feeds snapshots into the engine.
type fakeSource struct {
	ch        chan domain.Snapshot
	cancelled bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan domain.Snapshot, 8)}
}

func (s *fakeSource) Subscribe() (<-chan domain.Snapshot, func()) {
	return s.ch, func() { s.cancelled = true }
}

func (s *fakeSource) push(snap domain.Snapshot) { s.ch <- snap }

// fakeWriter records bulk mutations.
type fakeWriter struct {
	mu      sync.Mutex
	moves   []moveCall
	deletes [][]int64
	err     error
}

type moveCall struct {
	mangaIDs    []int64
	categoryIDs []int
}

func (w *fakeWriter) SetMangaCategories(_ context.Context, mangaIDs []int64, categoryIDs []int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.moves = append(w.moves, moveCall{mangaIDs: mangaIDs, categoryIDs: categoryIDs})
	return w.err
}

func (w *fakeWriter) DeleteManga(_ context.Context, mangaIDs []int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deletes = append(w.deletes, mangaIDs)
	return w.err
}

// fakeCovers records cover updates.
type fakeCovers struct {
	mu      sync.Mutex
	updates []int64
	err     error
}

func (c *fakeCovers) UpdateCover(_ context.Context, r io.Reader, manga domain.Manga) error {
	io.Copy(io.Discard, r)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, manga.ID)
	return c.err
}

// fakeFiles records file-picker requests.
type fakeFiles struct {
	mu     sync.Mutex
	tokens []int
}

func (f *fakeFiles) PickImage(token int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
}

func (f *fakeFiles) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.tokens...)
}

// fakeDialogs auto-accepts everything and records what it saw.
type fakeDialogs struct {
	mu          sync.Mutex
	deleteCount int
	pickChoices []domain.Category
	preselected []int
	chosen      []int // Delivered to the accept callback
	editorOpens int
}

func (d *fakeDialogs) ConfirmDelete(count int, accept func()) {
	d.mu.Lock()
	d.deleteCount = count
	d.mu.Unlock()
	accept()
}

func (d *fakeDialogs) PickCategories(choices []domain.Category, preselected []int, accept func(chosen []int)) {
	d.mu.Lock()
	d.pickChoices = choices
	d.preselected = preselected
	chosen := append([]int(nil), d.chosen...)
	d.mu.Unlock()
	accept(chosen)
}

func (d *fakeDialogs) OpenCategoryEditor() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editorOpens++
}

// fakeNotifier records notices.
type fakeNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *fakeNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, msg)
}

func (n *fakeNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}
