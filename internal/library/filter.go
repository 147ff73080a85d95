package library

import (
	"strings"

	"github.com/mizue/hondana/internal/domain"
)

// FilterState holds the three independent view filters. All active
// predicates are ANDed; the zero value matches everything.
type FilterState struct {
	Query          string // case-insensitive substring match, "" matches all
	DownloadedOnly bool
	UnreadOnly     bool
}

// Active reports whether any filter narrows the view.
func (f FilterState) Active() bool {
	return f.Query != "" || f.DownloadedOnly || f.UnreadOnly
}

func matchesSearch(m domain.Manga, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(m.Title), q) ||
		strings.Contains(strings.ToLower(m.Author), q)
}

func matchesDownloaded(m domain.Manga) bool { return m.Downloaded }

func matchesUnread(m domain.Manga) bool { return m.HasUnread() }

// Visible reports whether a manga passes every active filter. Pure and
// deterministic for a given (manga, state) pair.
func Visible(m domain.Manga, f FilterState) bool {
	if !matchesSearch(m, f.Query) {
		return false
	}
	if f.DownloadedOnly && !matchesDownloaded(m) {
		return false
	}
	if f.UnreadOnly && !matchesUnread(m) {
		return false
	}
	return true
}

// FilterSnapshot derives the visible per-category map from a snapshot.
// The snapshot itself is never mutated; item order within each category
// is preserved.
func FilterSnapshot(snap domain.Snapshot, f FilterState) map[int][]domain.Manga {
	visible := make(map[int][]domain.Manga, len(snap.Items))
	for catID, items := range snap.Items {
		kept := make([]domain.Manga, 0, len(items))
		for _, m := range items {
			if Visible(m, f) {
				kept = append(kept, m)
			}
		}
		visible[catID] = kept
	}
	return visible
}
