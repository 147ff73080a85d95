package library

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizue/hondana/internal/domain"
)

func TestSelectionToggleInvolution(t *testing.T) {
	t.Parallel()

	s := NewSelection(nil)
	m := domain.Manga{ID: 7, Title: "Berserk"}

	s.Toggle(m)
	require.True(t, s.Contains(7))
	require.Equal(t, 1, s.Len())

	s.Toggle(m)
	require.False(t, s.Contains(7))
	require.Equal(t, 0, s.Len())
}

func TestSelectionItemsOrderedByID(t *testing.T) {
	t.Parallel()

	s := NewSelection(nil)
	s.Toggle(domain.Manga{ID: 30, Title: "C"})
	s.Toggle(domain.Manga{ID: 10, Title: "A"})
	s.Toggle(domain.Manga{ID: 20, Title: "B"})

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int64{10, 20, 30}, mangaIDs(items))
}

func TestSelectionClear(t *testing.T) {
	t.Parallel()

	var changes int
	s := NewSelection(func() { changes++ })

	// Clearing an empty selection is silent.
	s.Clear()
	assert.Equal(t, 0, changes)

	s.Toggle(domain.Manga{ID: 1})
	s.Toggle(domain.Manga{ID: 2})
	require.Equal(t, 2, changes)

	s.Clear()
	assert.Equal(t, 3, changes)
	assert.Equal(t, 0, s.Len())
}

func TestSelectionPrune(t *testing.T) {
	t.Parallel()

	var changes int
	s := NewSelection(func() { changes++ })
	s.Toggle(domain.Manga{ID: 1})
	s.Toggle(domain.Manga{ID: 2})
	s.Toggle(domain.Manga{ID: 3})
	changes = 0

	present := map[int64]struct{}{1: {}, 3: {}}
	require.True(t, s.Prune(present))
	assert.Equal(t, 1, changes, "one notification per prune, not per entry")
	assert.Equal(t, []int64{1, 3}, mangaIDs(s.Items()))

	// Pruning with everything present changes nothing and stays silent.
	require.False(t, s.Prune(present))
	assert.Equal(t, 1, changes)
}

func TestCommonCategories(t *testing.T) {
	t.Parallel()

	snap := domain.Snapshot{
		Categories: []domain.Category{
			{ID: 0, Name: "Default"},
			{ID: 1, Name: "Reading", Order: 1},
			{ID: 2, Name: "Favorites", Order: 2},
			{ID: 3, Name: "Done", Order: 3},
		},
		Items: map[int][]domain.Manga{
			0: {{ID: 100}},
			1: {{ID: 10}, {ID: 11}},
			2: {{ID: 10}, {ID: 11}, {ID: 12}},
			3: {{ID: 11}},
		},
	}

	tests := []struct {
		name  string
		items []domain.Manga
		want  []domain.Category
	}{
		{
			name:  "empty selection",
			items: nil,
			want:  nil,
		},
		{
			name:  "single manga lists all its categories",
			items: []domain.Manga{{ID: 11}},
			want: []domain.Category{
				{ID: 1, Name: "Reading", Order: 1},
				{ID: 2, Name: "Favorites", Order: 2},
				{ID: 3, Name: "Done", Order: 3},
			},
		},
		{
			name:  "intersection across manga",
			items: []domain.Manga{{ID: 10}, {ID: 11}},
			want: []domain.Category{
				{ID: 1, Name: "Reading", Order: 1},
				{ID: 2, Name: "Favorites", Order: 2},
			},
		},
		{
			name:  "default bucket never appears",
			items: []domain.Manga{{ID: 100}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CommonCategories(tt.items, snap)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("common categories mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
