package prefs

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizue/hondana/internal/adapter"
	"github.com/mizue/hondana/internal/domain"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := Open(path, adapter.NullLogger())
	require.NoError(t, err)
	return s, path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)

	assert.False(t, s.FilterDownloaded())
	assert.False(t, s.FilterUnread())
	assert.Equal(t, 2, s.Columns(domain.Portrait))
	assert.Equal(t, 4, s.Columns(domain.Landscape))
	assert.Equal(t, 0, s.LastUsedCategory())
	assert.Equal(t, domain.DisplayGrid, s.DisplayMode())
	assert.False(t, s.SyncEnabled())
	assert.Empty(t, s.SearchQuery())
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	s, path := openTestStore(t)

	s.SetFilterDownloaded(true)
	s.SetColumns(domain.Portrait, 3)
	s.SetLastUsedCategory(2)
	s.SetDisplayMode(domain.DisplayList)
	s.SetSyncEnabled(true)
	s.SetSearchQuery("one piece")

	reopened, err := Open(path, adapter.NullLogger())
	require.NoError(t, err)

	assert.True(t, reopened.FilterDownloaded())
	assert.False(t, reopened.FilterUnread())
	assert.Equal(t, 3, reopened.Columns(domain.Portrait))
	assert.Equal(t, 4, reopened.Columns(domain.Landscape))
	assert.Equal(t, 2, reopened.LastUsedCategory())
	assert.Equal(t, domain.DisplayList, reopened.DisplayMode())
	assert.True(t, reopened.SyncEnabled())
	assert.Equal(t, "one piece", reopened.SearchQuery())
}

func TestSetColumnsFloor(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	s.SetColumns(domain.Portrait, 0)
	assert.Equal(t, 1, s.Columns(domain.Portrait), "column count never drops below one")
}

func TestWatchColumnsEmitsCurrentThenChanges(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)

	ch, cancel := s.WatchColumns(domain.Portrait)
	defer cancel()

	select {
	case n := <-ch:
		assert.Equal(t, 2, n, "current value delivered immediately")
	case <-time.After(time.Second):
		t.Fatal("no initial emission")
	}

	s.SetColumns(domain.Portrait, 5)
	select {
	case n := <-ch:
		assert.Equal(t, 5, n)
	case <-time.After(time.Second):
		t.Fatal("no emission after change")
	}

	// Writes to the other orientation's key stay silent on this watch.
	s.SetColumns(domain.Landscape, 6)
	select {
	case n := <-ch:
		t.Fatalf("unexpected emission %d", n)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchCoalescesToLatest(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)

	ch, cancel := s.WatchColumns(domain.Portrait)
	defer cancel()

	// Undrained rapid writes collapse to the last value.
	s.SetColumns(domain.Portrait, 3)
	s.SetColumns(domain.Portrait, 4)
	s.SetColumns(domain.Portrait, 5)

	var last int
	for {
		select {
		case n := <-ch:
			last = n
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	assert.Equal(t, 5, last)
}

func TestWatchCancelStopsEmissions(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)

	ch, cancel := s.WatchColumns(domain.Portrait)
	<-ch
	cancel()

	s.SetColumns(domain.Portrait, 7)
	select {
	case n := <-ch:
		t.Fatalf("emission %d after cancel", n)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)

	// The engine goroutine writes while the UI goroutine reads on every
	// render; both must be able to hit the store at once.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	time.AfterFunc(200*time.Millisecond, func() { close(stop) })

	wg.Add(4)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				s.SetFilterDownloaded(i%2 == 0)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				s.SetColumns(domain.Portrait, 1+i%5)
				s.SetLastUsedCategory(i % 3)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.DisplayMode()
				s.FilterDownloaded()
				s.FilterUnread()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Columns(domain.Portrait)
				s.SearchQuery()
			}
		}
	}()
	wg.Wait()
}

func TestWatchSyncEnabled(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)

	ch, cancel := s.WatchSyncEnabled()
	defer cancel()

	require.False(t, <-ch)

	s.SetSyncEnabled(true)
	select {
	case v := <-ch:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no emission after change")
	}
}
