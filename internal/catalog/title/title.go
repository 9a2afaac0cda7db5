// Package title implements the catalogued works that reviews attach to.
//
// A title references one optional category and any number of genres, both by
// slug. Its rating is never stored: it is the mean of the attached review
// scores, annotated at query time and null while no reviews exist.
package title

import (
	"context"

	"github.com/critika-app/critika/internal/catalog/reference"
)

// Title represents a single catalogued work.
type Title struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Description string           `json:"description,omitempty"`
	Rating      *float64         `json:"rating"`
	Category    *reference.Item  `json:"category"`
	Genres      []reference.Item `json:"genre"`
}

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	GenreSlug    string
	CategorySlug string
	Name         string
	Year         int
}

// WriteModel is the storage-facing shape of a create or replace: slugs are
// resolved to rows inside the repository transaction.
type WriteModel struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string   // empty means no category
	GenreSlugs   []string // empty means no genres
}

// Patch holds a partial update. Nil pointers mean "leave unchanged".
type Patch struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

type Repository interface {
	// List returns a page of titles matching the filter, rating annotated,
	// plus the unpaginated total. Ordered by name.
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int64, error)

	// GetByID returns one title with rating, category, and genres hydrated.
	GetByID(context context.Context, id int64) (*Title, error)

	// Create persists a title and its genre links in one transaction.
	// Unknown category or genre slugs yield apperr.ValidationError.
	Create(context context.Context, model WriteModel) (*Title, error)

	// Update applies a partial update; a non-nil GenreSlugs replaces the
	// full genre set.
	Update(context context.Context, id int64, patch Patch) (*Title, error)

	// Delete removes a title. Reviews cascade at the storage level.
	Delete(context context.Context, id int64) error
}
