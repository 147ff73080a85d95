package library

import (
	"sort"

	"github.com/mizue/hondana/internal/domain"
)

// Selection tracks the manga currently chosen for a batch action. It is
// owned by the engine goroutine and must not be shared. Every mutation
// notifies the registered observer so the batch mode can be re-derived.
type Selection struct {
	items    map[int64]domain.Manga
	onChange func()
}

// NewSelection creates an empty selection. onChange fires after every
// mutation that altered the contents; it may be nil.
func NewSelection(onChange func()) *Selection {
	return &Selection{
		items:    make(map[int64]domain.Manga),
		onChange: onChange,
	}
}

// Toggle adds the manga if absent and removes it if present.
func (s *Selection) Toggle(m domain.Manga) {
	if _, ok := s.items[m.ID]; ok {
		delete(s.items, m.ID)
	} else {
		s.items[m.ID] = m
	}
	s.notify()
}

// Clear empties the selection.
func (s *Selection) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = make(map[int64]domain.Manga)
	s.notify()
}

// Contains reports whether the manga with the given ID is selected.
func (s *Selection) Contains(id int64) bool {
	_, ok := s.items[id]
	return ok
}

// Len returns the number of selected manga.
func (s *Selection) Len() int {
	return len(s.items)
}

// Items returns the selected manga ordered by ID.
func (s *Selection) Items() []domain.Manga {
	out := make([]domain.Manga, 0, len(s.items))
	for _, m := range s.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Prune drops entries whose IDs are absent from the given set, keeping
// the selection a subset of the latest snapshot. Returns true if any
// entry was removed.
func (s *Selection) Prune(present map[int64]struct{}) bool {
	changed := false
	for id := range s.items {
		if _, ok := present[id]; !ok {
			delete(s.items, id)
			changed = true
		}
	}
	if changed {
		s.notify()
	}
	return changed
}

func (s *Selection) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// CommonCategories returns the categories every given manga belongs to in
// the snapshot, in category order, excluding the synthetic default bucket.
// An empty manga list yields an empty result.
func CommonCategories(items []domain.Manga, snap domain.Snapshot) []domain.Category {
	if len(items) == 0 {
		return nil
	}
	var common []domain.Category
	for _, c := range snap.Categories {
		if c.IsDefault() {
			continue
		}
		all := true
		for _, m := range items {
			if !snap.Contains(c.ID, m.ID) {
				all = false
				break
			}
		}
		if all {
			common = append(common, c)
		}
	}
	return common
}
