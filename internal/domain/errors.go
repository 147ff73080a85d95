package domain

import "errors"

// Sentinel errors for library operations
var (
	// ErrMangaNotFound indicates the requested manga does not exist
	ErrMangaNotFound = errors.New("manga not found")

	// ErrCategoryNotFound indicates the requested category does not exist
	ErrCategoryNotFound = errors.New("category not found")

	// ErrDefaultCategory indicates an operation targeted the synthetic
	// default bucket, which cannot be edited or used as a destination
	ErrDefaultCategory = errors.New("default category is read-only")

	// ErrNotFavorited indicates a cover change was requested for a manga
	// that has not been added to the library as a favorite
	ErrNotFavorited = errors.New("manga must be favorited before editing its cover")
)
