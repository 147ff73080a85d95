package domain

// Snapshot is an atomic view of the whole library: the ordered categories
// plus the manga belonging to each one. Instances are immutable value
// objects; a new snapshot replaces the previous one wholesale, and
// consumers must never mix data from two snapshots.
type Snapshot struct {
	Categories []Category
	Items      map[int][]Manga // category ID -> ordered manga
}

// Empty reports whether the library holds no manga at all.
func (s Snapshot) Empty() bool {
	for _, items := range s.Items {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// MangaIDs returns the set of manga identifiers present anywhere in the
// snapshot. Used to prune stale selection entries.
func (s Snapshot) MangaIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, items := range s.Items {
		for _, m := range items {
			ids[m.ID] = struct{}{}
		}
	}
	return ids
}

// Contains reports whether a manga with the given ID is present in the
// category with the given ID.
func (s Snapshot) Contains(categoryID int, mangaID int64) bool {
	for _, m := range s.Items[categoryID] {
		if m.ID == mangaID {
			return true
		}
	}
	return false
}

// CategoryByID returns the category with the given ID, if present.
func (s Snapshot) CategoryByID(id int) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
