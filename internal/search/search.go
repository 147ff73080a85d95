package search

import (
	"log/slog"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mizue/hondana/internal/domain"
)

// Result is one global-search hit with its ranking distance
// (lower = better).
type Result struct {
	Manga      domain.Manga
	CategoryID int // First category the manga appears under
	Distance   int
}

// Service performs ranked fuzzy search across a whole library snapshot,
// independent of the per-tab substring filter.
type Service struct {
	logger *slog.Logger
}

// NewService creates a search service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Search matches the query against every manga title in the snapshot and
// returns hits ordered best-first. An empty query returns nothing.
func (s *Service) Search(snap domain.Snapshot, query string) []Result {
	if query == "" {
		return nil
	}

	type entry struct {
		manga      domain.Manga
		categoryID int
	}
	var (
		entries []entry
		titles  []string
		seen    = make(map[int64]bool)
	)
	for _, c := range snap.Categories {
		for _, m := range snap.Items[c.ID] {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			entries = append(entries, entry{manga: m, categoryID: c.ID})
			titles = append(titles, m.Title)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	results := make([]Result, 0, len(ranks))
	for _, r := range ranks {
		e := entries[r.OriginalIndex]
		results = append(results, Result{
			Manga:      e.manga,
			CategoryID: e.categoryID,
			Distance:   r.Distance,
		})
	}
	s.logger.Debug("global search", "query", query, "hits", len(results))
	return results
}
