package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizue/hondana/internal/domain"
)

func newLayoutFixture(o domain.Orientation) (*LayoutController, *fakeRenderer, *fakePrefs) {
	r := &fakeRenderer{}
	p := newFakePrefs()
	tabs := NewTabController(r, p, 0)
	tabs.SetCategories(cats(1, 2))
	l := NewLayoutController(p, tabs, r, o, 0)
	return l, r, p
}

// drainWatch applies every queued emission, mirroring the engine loop.
func drainWatch(l *LayoutController) {
	for {
		select {
		case n := <-l.Watch():
			l.OnValue(n)
		default:
			return
		}
	}
}

func TestLayoutAttachReadsWithoutRebuild(t *testing.T) {
	t.Parallel()

	l, r, _ := newLayoutFixture(domain.Portrait)
	before := r.recreateCount()

	l.Attach()
	drainWatch(l)

	assert.Equal(t, 2, l.Columns())
	assert.Equal(t, before, r.recreateCount(), "initial emission must not rebuild")
}

func TestLayoutAttachUsesSeed(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	p := newFakePrefs()
	tabs := NewTabController(r, p, 0)
	tabs.SetCategories(cats(1, 2))
	l := NewLayoutController(p, tabs, r, domain.Portrait, 3)

	l.Attach()
	assert.Equal(t, 3, l.Columns(), "seed wins over the preference read")

	// The watch's first emission carries the stored value and corrects
	// the applied count without a rebuild.
	before := r.recreateCount()
	drainWatch(l)
	assert.Equal(t, 2, l.Columns())
	assert.Equal(t, before, r.recreateCount())

	// The seed is consumed; a later attach reads the preference again.
	l.Detach()
	l.Attach()
	assert.Equal(t, 2, l.Columns())
}

func TestLayoutColumnChangeRebuilds(t *testing.T) {
	t.Parallel()

	l, r, p := newLayoutFixture(domain.Portrait)
	l.Attach()
	drainWatch(l)
	before := r.recreateCount()

	p.SetColumns(domain.Portrait, 3)
	drainWatch(l)

	assert.Equal(t, 3, l.Columns())
	assert.Equal(t, before+1, r.recreateCount())

	// Writing the same value again emits but must not rebuild.
	p.SetColumns(domain.Portrait, 3)
	drainWatch(l)
	assert.Equal(t, before+1, r.recreateCount())
}

func TestLayoutRotationRebuildsExactlyOnce(t *testing.T) {
	t.Parallel()

	l, r, _ := newLayoutFixture(domain.Portrait)
	l.Attach()
	drainWatch(l)
	require.Equal(t, 2, l.Columns())
	before := r.recreateCount()

	l.SetOrientation(domain.Landscape)
	drainWatch(l)

	assert.Equal(t, 4, l.Columns())
	assert.Equal(t, before+1, r.recreateCount(),
		"rotation with differing counts rebuilds exactly once")
}

func TestLayoutRotationSameCountNoRebuild(t *testing.T) {
	t.Parallel()

	l, r, p := newLayoutFixture(domain.Portrait)
	p.SetColumns(domain.Landscape, 2) // same as portrait
	l.Attach()
	drainWatch(l)
	before := r.recreateCount()

	l.SetOrientation(domain.Landscape)
	drainWatch(l)

	assert.Equal(t, 2, l.Columns())
	assert.Equal(t, before, r.recreateCount())
}

func TestLayoutRotationToSameOrientationIsNoop(t *testing.T) {
	t.Parallel()

	l, r, _ := newLayoutFixture(domain.Portrait)
	l.Attach()
	drainWatch(l)
	before := r.recreateCount()

	l.SetOrientation(domain.Portrait)
	assert.Equal(t, before, r.recreateCount())
	assert.Equal(t, 2, l.Columns())
}

func TestLayoutRotationTracksNewOrientationPreference(t *testing.T) {
	t.Parallel()

	l, r, p := newLayoutFixture(domain.Portrait)
	l.Attach()
	drainWatch(l)

	l.SetOrientation(domain.Landscape)
	drainWatch(l)
	before := r.recreateCount()

	// Changes to the old orientation's preference are ignored now.
	p.SetColumns(domain.Portrait, 9)
	drainWatch(l)
	assert.Equal(t, 4, l.Columns())
	assert.Equal(t, before, r.recreateCount())

	// The new orientation's preference drives rebuilds.
	p.SetColumns(domain.Landscape, 5)
	drainWatch(l)
	assert.Equal(t, 5, l.Columns())
	assert.Equal(t, before+1, r.recreateCount())
}

func TestLayoutDetachStopsWatching(t *testing.T) {
	t.Parallel()

	l, _, _ := newLayoutFixture(domain.Portrait)
	l.Attach()
	require.NotNil(t, l.Watch())

	l.Detach()
	assert.Nil(t, l.Watch())
}
