package prefs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/mizue/hondana/internal/domain"
)

// Preference keys
const (
	keyFilterDownloaded = "filter.downloaded"
	keyFilterUnread     = "filter.unread"
	keyPortraitColumns  = "columns.portrait"
	keyLandscapeColumns = "columns.landscape"
	keyLastUsedCategory = "last_used_category"
	keyDisplayMode      = "display_mode"
	keySyncEnabled      = "sync.enabled"
	keySearchQuery      = "search_query"
)

// Defaults
const (
	defaultPortraitColumns  = 2
	defaultLandscapeColumns = 4
)

// Store is a viper-backed preference store. Reads are served from the
// loaded config; every write is persisted to the file and fanned out to
// watchers of that key, last value wins. Viper itself is not safe for
// concurrent use, so every access to it holds s.mu; the engine goroutine
// and the UI goroutine both touch the store.
type Store struct {
	mu     sync.RWMutex // Guards v and the watcher registries
	v      *viper.Viper
	path   string
	logger *slog.Logger

	intSubs  map[string]map[int]chan int
	boolSubs map[string]map[int]chan bool
	nextSub  int
}

// Open loads (or initializes) the preference file at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault(keyFilterDownloaded, false)
	v.SetDefault(keyFilterUnread, false)
	v.SetDefault(keyPortraitColumns, defaultPortraitColumns)
	v.SetDefault(keyLandscapeColumns, defaultLandscapeColumns)
	v.SetDefault(keyLastUsedCategory, 0)
	v.SetDefault(keyDisplayMode, "grid")
	v.SetDefault(keySyncEnabled, false)
	v.SetDefault(keySearchQuery, "")

	// A missing file is fine, defaults apply.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading preferences: %w", err)
	}

	return &Store{
		v:        v,
		path:     path,
		logger:   logger,
		intSubs:  make(map[string]map[int]chan int),
		boolSubs: make(map[string]map[int]chan bool),
	}, nil
}

// persist writes the config out. Callers hold s.mu.
func (s *Store) persist() {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		s.logger.Error("failed to persist preferences", "path", s.path, "error", err)
	}
}

// === domain.PreferenceStore ===

func (s *Store) FilterDownloaded() bool { return s.getBool(keyFilterDownloaded) }

func (s *Store) SetFilterDownloaded(v bool) { s.setBool(keyFilterDownloaded, v) }

func (s *Store) FilterUnread() bool { return s.getBool(keyFilterUnread) }

func (s *Store) SetFilterUnread(v bool) { s.setBool(keyFilterUnread, v) }

func (s *Store) Columns(o domain.Orientation) int {
	return s.getInt(columnsKey(o))
}

func (s *Store) SetColumns(o domain.Orientation, n int) {
	if n < 1 {
		n = 1
	}
	s.setInt(columnsKey(o), n)
}

// WatchColumns emits the current column count for the orientation
// immediately, then again after every change, coalescing rapid writes.
func (s *Store) WatchColumns(o domain.Orientation) (<-chan int, func()) {
	return s.watchInt(columnsKey(o))
}

func (s *Store) LastUsedCategory() int { return s.getInt(keyLastUsedCategory) }

func (s *Store) SetLastUsedCategory(pos int) { s.setInt(keyLastUsedCategory, pos) }

func (s *Store) DisplayMode() domain.DisplayMode {
	if s.getString(keyDisplayMode) == "list" {
		return domain.DisplayList
	}
	return domain.DisplayGrid
}

func (s *Store) SetDisplayMode(m domain.DisplayMode) {
	val := "grid"
	if m == domain.DisplayList {
		val = "list"
	}
	s.setString(keyDisplayMode, val)
}

func (s *Store) SyncEnabled() bool { return s.getBool(keySyncEnabled) }

// SetSyncEnabled flips the library-sync feature flag.
func (s *Store) SetSyncEnabled(v bool) { s.setBool(keySyncEnabled, v) }

// WatchSyncEnabled emits the current flag immediately, then on changes.
func (s *Store) WatchSyncEnabled() (<-chan bool, func()) {
	return s.watchBool(keySyncEnabled)
}

// SearchQuery returns the persisted search text, restored across engine
// restarts.
func (s *Store) SearchQuery() string { return s.getString(keySearchQuery) }

// SetSearchQuery persists the search text.
func (s *Store) SetSearchQuery(q string) { s.setString(keySearchQuery, q) }

// === guarded viper access ===

func (s *Store) getBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

func (s *Store) getInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt(key)
}

func (s *Store) getString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(key)
}

func (s *Store) setString(key, val string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, val)
	s.persist()
}

func (s *Store) setInt(key string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, n)
	s.persist()
	for _, ch := range s.intSubs[key] {
		pushLatestInt(ch, n)
	}
}

func (s *Store) setBool(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, v)
	s.persist()
	for _, ch := range s.boolSubs[key] {
		pushLatestBool(ch, v)
	}
}

// === watch plumbing ===

func (s *Store) watchInt(key string) (<-chan int, func()) {
	ch := make(chan int, 1)

	s.mu.Lock()
	ch <- s.v.GetInt(key)
	id := s.nextSub
	s.nextSub++
	if s.intSubs[key] == nil {
		s.intSubs[key] = make(map[int]chan int)
	}
	s.intSubs[key][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.intSubs[key], id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) watchBool(key string) (<-chan bool, func()) {
	ch := make(chan bool, 1)

	s.mu.Lock()
	ch <- s.v.GetBool(key)
	id := s.nextSub
	s.nextSub++
	if s.boolSubs[key] == nil {
		s.boolSubs[key] = make(map[int]chan bool)
	}
	s.boolSubs[key][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.boolSubs[key], id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func pushLatestInt(ch chan int, v int) {
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

func pushLatestBool(ch chan bool, v bool) {
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

func columnsKey(o domain.Orientation) string {
	if o == domain.Landscape {
		return keyLandscapeColumns
	}
	return keyPortraitColumns
}
