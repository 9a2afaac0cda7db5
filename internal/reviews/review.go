// Package reviews implements the review ledger: scored reviews attached to
// catalog titles, and threaded comments attached to reviews.
//
// The ledger's central invariant is one review per (title, author). It is
// enforced by a storage-level unique constraint, so two racing creates settle
// with exactly one winner; the loser surfaces as a Conflict.
package reviews

import (
	"context"
	"time"
)

// Review is a single scored opinion on a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply to a review. No uniqueness constraint applies.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// Score bounds, inclusive on both ends.
const (
	MinScore = 1
	MaxScore = 10
)

type ReviewRepository interface {
	// TitleExists reports whether the referenced title is in the catalog.
	TitleExists(context context.Context, titleID int64) (bool, error)

	// ListByTitle returns a page of reviews ordered by publication time
	// ascending, plus the unpaginated total.
	ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int64, error)

	// GetByID returns one review scoped to its title.
	GetByID(context context.Context, titleID, reviewID int64) (*Review, error)

	// Create persists a review; ID and PubDate are assigned by the store.
	// The one-review-per-author violation propagates untranslated.
	Create(context context.Context, review *Review) error

	// Update persists text and score changes. PubDate is immutable.
	Update(context context.Context, review *Review) error

	// Delete removes a review; its comments cascade.
	Delete(context context.Context, titleID, reviewID int64) error

	// AverageScore computes the mean review score for a title.
	// Nil when the title has no reviews.
	AverageScore(context context.Context, titleID int64) (*float64, error)
}

type CommentRepository interface {
	// ListByReview returns a page of comments ordered by publication time
	// ascending, plus the unpaginated total.
	ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int64, error)

	// GetByID returns one comment scoped to its review.
	GetByID(context context.Context, reviewID, commentID int64) (*Comment, error)

	// Create persists a comment; ID and PubDate are assigned by the store.
	Create(context context.Context, comment *Comment) error

	// Update persists text changes. PubDate is immutable.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment.
	Delete(context context.Context, reviewID, commentID int64) error
}
