package domain

// DefaultCategoryID is the synthetic bucket for manga that belong to no
// user-created category. It is never persisted and never offered as a
// move destination.
const DefaultCategoryID = 0

// Category is a named, ordered bucket partitioning the library.
type Category struct {
	ID    int    // Unique identifier; 0 is the synthetic default bucket
	Name  string // Display name
	Order int    // Ordering rank, ascending
}

// IsDefault reports whether this is the synthetic default bucket.
func (c Category) IsDefault() bool {
	return c.ID == DefaultCategoryID
}

// Manga is a single library item. The engine never mutates its content,
// only its membership in selection and filter results.
type Manga struct {
	ID         int64  // Unique identifier
	Title      string // Display title
	Author     string // Display metadata
	Favorite   bool   // Must be true before the cover can be replaced
	Downloaded bool   // At least one chapter present on disk
	Unread     int    // Unread chapter count
}

// HasUnread reports whether the manga has unread chapters.
func (m Manga) HasUnread() bool {
	return m.Unread > 0
}

// Orientation selects which per-orientation preference applies.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// String returns a human-readable representation of the orientation.
func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// DisplayMode selects how per-category content is laid out.
type DisplayMode int

const (
	DisplayGrid DisplayMode = iota
	DisplayList
)

// Swap returns the other display mode.
func (d DisplayMode) Swap() DisplayMode {
	if d == DisplayGrid {
		return DisplayList
	}
	return DisplayGrid
}
