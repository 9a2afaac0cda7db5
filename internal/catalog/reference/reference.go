// Package reference implements the two flat lookup vocabularies of the
// catalog: genres and categories. Both share the same {name, slug} shape and
// the same list/create/delete surface, so one service serves both kinds.
package reference

import "context"

// Item is a single vocabulary entry. The numeric ID is storage-internal;
// the API addresses items by slug only.
type Item struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind selects which vocabulary a repository operates on.
type Kind string

const (
	KindGenre    Kind = "genre"
	KindCategory Kind = "category"
)

// Label returns the client-facing resource name.
func (kind Kind) Label() string {
	if kind == KindCategory {
		return "Category"
	}
	return "Genre"
}

type Repository interface {
	// List returns a page of items ordered by name, optionally filtered by a
	// case-insensitive name substring, plus the unpaginated total.
	List(context context.Context, search string, limit, offset int) ([]*Item, int64, error)

	// Create persists a new item. Unique violations propagate untranslated.
	Create(context context.Context, item *Item) error

	// DeleteBySlug removes an item; apperr.NotFound when nothing matched.
	DeleteBySlug(context context.Context, slug string) error
}
