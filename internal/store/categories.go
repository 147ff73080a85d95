package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/mizue/hondana/internal/domain"
)

// CreateCategory appends a new category at the end of the ordering.
func (s *LibraryStore) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, err
	}
	var created domain.Category
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCategories)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		maxOrder := 0
		if err := bucket.ForEach(func(_, v []byte) error {
			var c domain.Category
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			if c.Order > maxOrder {
				maxOrder = c.Order
			}
			return nil
		}); err != nil {
			return err
		}
		created = domain.Category{ID: int(seq), Name: name, Order: maxOrder + 1}
		return putJSON(bucket, strconv.Itoa(created.ID), created)
	})
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	s.logger.Info("created category", "id", created.ID, "name", name)
	s.publish()
	return created, nil
}

// RenameCategory changes a category's display name.
func (s *LibraryStore) RenameCategory(ctx context.Context, id int, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == domain.DefaultCategoryID {
		return domain.ErrDefaultCategory
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCategories)
		key := []byte(strconv.Itoa(id))
		v := bucket.Get(key)
		if v == nil {
			return domain.ErrCategoryNotFound
		}
		var c domain.Category
		if err := json.Unmarshal(v, &c); err != nil {
			return err
		}
		c.Name = name
		return putJSON(bucket, string(key), c)
	})
	if err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}
	s.publish()
	return nil
}

// DeleteCategory removes a category. Membership rows referencing it are
// trimmed; manga left with no categories fall back to the default bucket
// on the next snapshot.
func (s *LibraryStore) DeleteCategory(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == domain.DefaultCategoryID {
		return domain.ErrDefaultCategory
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCategories)
		key := []byte(strconv.Itoa(id))
		if bucket.Get(key) == nil {
			return domain.ErrCategoryNotFound
		}
		if err := bucket.Delete(key); err != nil {
			return err
		}
		// Collect affected rows first; buckets must not be mutated
		// during iteration.
		membership := tx.Bucket(bucketMembership)
		updates := make(map[string][]int)
		if err := membership.ForEach(func(k, v []byte) error {
			var cats []int
			if err := json.Unmarshal(v, &cats); err != nil {
				return err
			}
			trimmed := make([]int, 0, len(cats))
			for _, c := range cats {
				if c != id {
					trimmed = append(trimmed, c)
				}
			}
			if len(trimmed) != len(cats) {
				updates[string(k)] = trimmed
			}
			return nil
		}); err != nil {
			return err
		}
		for k, trimmed := range updates {
			if len(trimmed) == 0 {
				if err := membership.Delete([]byte(k)); err != nil {
					return err
				}
				continue
			}
			if err := putJSON(membership, k, trimmed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.logger.Info("deleted category", "id", id)
	s.publish()
	return nil
}

// SetCategoryOrder applies a complete new ordering. IDs absent from the
// list keep their position relative to each other after the listed ones.
func (s *LibraryStore) SetCategoryOrder(ctx context.Context, orderedIDs []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rank := make(map[int]int, len(orderedIDs))
	for i, id := range orderedIDs {
		rank[id] = i + 1
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketCategories)
		var all []domain.Category
		if err := bucket.ForEach(func(_, v []byte) error {
			var c domain.Category
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			all = append(all, c)
			return nil
		}); err != nil {
			return err
		}
		next := len(orderedIDs) + 1
		for _, c := range all {
			if r, ok := rank[c.ID]; ok {
				c.Order = r
			} else {
				c.Order = next
				next++
			}
			if err := putJSON(bucket, strconv.Itoa(c.ID), c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder categories: %w", err)
	}
	s.publish()
	return nil
}

// PutManga inserts or updates a manga. A zero ID allocates a new one.
func (s *LibraryStore) PutManga(ctx context.Context, m domain.Manga) (domain.Manga, error) {
	if err := ctx.Err(); err != nil {
		return domain.Manga{}, err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketManga)
		if m.ID == 0 {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			m.ID = int64(seq)
		}
		return putJSON(bucket, strconv.FormatInt(m.ID, 10), m)
	})
	if err != nil {
		return domain.Manga{}, fmt.Errorf("failed to store manga: %w", err)
	}
	s.publish()
	return m, nil
}

func putJSON(bucket *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(key), data)
}
