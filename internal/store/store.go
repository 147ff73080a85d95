package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mizue/hondana/internal/domain"
)

// Bucket names
var (
	bucketCategories = []byte("categories")
	bucketManga      = []byte("manga")
	bucketMembership = []byte("membership")
	bucketCovers     = []byte("covers")
)

// maxCoverBytes caps how much of a cover stream is persisted.
const maxCoverBytes = 8 << 20

// LibraryStore persists the library in BoltDB and publishes a fresh
// snapshot to subscribers after every mutation. It implements
// domain.SnapshotSource, domain.LibraryWriter and domain.CoverUpdater.
type LibraryStore struct {
	db     *bolt.DB
	logger *slog.Logger

	mu      sync.Mutex // Protects subscribers
	subs    map[int]chan domain.Snapshot
	nextSub int
}

// Open opens (or creates) the library database at path.
func Open(path string, logger *slog.Logger) (*LibraryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketCategories, bucketManga, bucketMembership, bucketCovers} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &LibraryStore{
		db:     db,
		logger: logger,
		subs:   make(map[int]chan domain.Snapshot),
	}, nil
}

// Close closes the database. Active subscriptions stop receiving updates.
func (s *LibraryStore) Close() error {
	return s.db.Close()
}

// Subscribe returns a channel that carries the current snapshot
// immediately and a fresh one after every mutation, coalescing rapid
// mutations to the latest snapshot.
func (s *LibraryStore) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	if snap, err := s.Snapshot(); err == nil {
		pushLatest(ch, snap)
	} else {
		s.logger.Error("failed to read initial snapshot", "error", err)
	}

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

// publish recomputes the snapshot and fans it out, last value wins.
func (s *LibraryStore) publish() {
	snap, err := s.Snapshot()
	if err != nil {
		s.logger.Error("failed to build snapshot", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		pushLatest(ch, snap)
	}
}

// pushLatest delivers v on a capacity-1 channel, replacing any
// undelivered value.
func pushLatest(ch chan domain.Snapshot, v domain.Snapshot) {
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

// Snapshot builds an immutable view of the whole library. Manga that
// belong to no category land in the synthetic default bucket, which is
// included only while it has items.
func (s *LibraryStore) Snapshot() (domain.Snapshot, error) {
	var (
		categories []domain.Category
		manga      []domain.Manga
		members    = make(map[int64][]int)
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketCategories).ForEach(func(_, v []byte) error {
			var c domain.Category
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			categories = append(categories, c)
			return nil
		}); err != nil {
			return err
		}
		if err := tx.Bucket(bucketManga).ForEach(func(_, v []byte) error {
			var m domain.Manga
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			manga = append(manga, m)
			return nil
		}); err != nil {
			return err
		}
		return tx.Bucket(bucketMembership).ForEach(func(k, v []byte) error {
			id, err := strconv.ParseInt(string(k), 10, 64)
			if err != nil {
				return err
			}
			var cats []int
			if err := json.Unmarshal(v, &cats); err != nil {
				return err
			}
			members[id] = cats
			return nil
		})
	})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to load library: %w", err)
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return categories[i].ID < categories[j].ID
	})
	sort.Slice(manga, func(i, j int) bool {
		if manga[i].Title != manga[j].Title {
			return manga[i].Title < manga[j].Title
		}
		return manga[i].ID < manga[j].ID
	})

	known := make(map[int]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	items := make(map[int][]domain.Manga)
	var defaulted []domain.Manga
	for _, m := range manga {
		placed := false
		for _, catID := range members[m.ID] {
			if known[catID] {
				items[catID] = append(items[catID], m)
				placed = true
			}
		}
		if !placed {
			defaulted = append(defaulted, m)
		}
	}

	all := categories
	if len(defaulted) > 0 {
		items[domain.DefaultCategoryID] = defaulted
		all = append([]domain.Category{{ID: domain.DefaultCategoryID, Name: "Default"}}, categories...)
	}

	return domain.Snapshot{Categories: all, Items: items}, nil
}

// === domain.LibraryWriter ===

// SetMangaCategories replaces each manga's memberships with exactly the
// given category set. The default bucket cannot be a destination.
func (s *LibraryStore) SetMangaCategories(ctx context.Context, mangaIDs []int64, categoryIDs []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, id := range categoryIDs {
		if id == domain.DefaultCategoryID {
			return domain.ErrDefaultCategory
		}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		membership := tx.Bucket(bucketMembership)
		mangaBucket := tx.Bucket(bucketManga)
		encoded, err := json.Marshal(categoryIDs)
		if err != nil {
			return err
		}
		for _, id := range mangaIDs {
			key := []byte(strconv.FormatInt(id, 10))
			if mangaBucket.Get(key) == nil {
				return fmt.Errorf("manga %d: %w", id, domain.ErrMangaNotFound)
			}
			if len(categoryIDs) == 0 {
				if err := membership.Delete(key); err != nil {
					return err
				}
				continue
			}
			if err := membership.Put(key, encoded); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set manga categories: %w", err)
	}
	s.logger.Debug("moved manga to categories", "count", len(mangaIDs), "categories", categoryIDs)
	s.publish()
	return nil
}

// DeleteManga removes the given manga along with their memberships and
// stored covers.
func (s *LibraryStore) DeleteManga(ctx context.Context, mangaIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, id := range mangaIDs {
			key := []byte(strconv.FormatInt(id, 10))
			if err := tx.Bucket(bucketManga).Delete(key); err != nil {
				return err
			}
			if err := tx.Bucket(bucketMembership).Delete(key); err != nil {
				return err
			}
			if err := tx.Bucket(bucketCovers).Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete manga: %w", err)
	}
	s.logger.Info("deleted manga", "count", len(mangaIDs))
	s.publish()
	return nil
}

// === domain.CoverUpdater ===

// UpdateCover stores a replacement cover image for the manga. The stream
// format is opaque to the store.
func (s *LibraryStore) UpdateCover(ctx context.Context, r io.Reader, manga domain.Manga) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(io.LimitReader(r, maxCoverBytes))
	if err != nil {
		return fmt.Errorf("failed to read cover stream: %w", err)
	}
	key := []byte(strconv.FormatInt(manga.ID, 10))
	err = s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketManga).Get(key) == nil {
			return domain.ErrMangaNotFound
		}
		return tx.Bucket(bucketCovers).Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to store cover: %w", err)
	}
	s.logger.Debug("stored cover", "mangaID", manga.ID, "bytes", len(data))
	s.publish()
	return nil
}

// Cover returns the stored cover bytes for a manga, if any.
func (s *LibraryStore) Cover(mangaID int64) ([]byte, bool) {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCovers).Get([]byte(strconv.FormatInt(mangaID, 10))); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	return data, data != nil
}
