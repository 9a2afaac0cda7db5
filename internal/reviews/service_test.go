package reviews

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/database/schema"
	"github.com/critika-app/critika/pkg/pagination"
	"github.com/critika-app/critika/pkg/pointer"
)

type fakeReviewRepository struct {
	titles  map[int64]bool
	reviews map[int64]*Review
	nextID  int64
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{
		titles:  make(map[int64]bool),
		reviews: make(map[int64]*Review),
		nextID:  1,
	}
}

func (repo *fakeReviewRepository) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return repo.titles[titleID], nil
}

func (repo *fakeReviewRepository) ListByTitle(_ context.Context, titleID int64, _, _ int) ([]*Review, int64, error) {
	items := []*Review{}
	for _, review := range repo.reviews {
		if review.TitleID == titleID {
			items = append(items, review)
		}
	}
	return items, int64(len(items)), nil
}

func (repo *fakeReviewRepository) GetByID(_ context.Context, titleID, reviewID int64) (*Review, error) {
	review, ok := repo.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return review, nil
}

func (repo *fakeReviewRepository) Create(_ context.Context, review *Review) error {
	for _, existing := range repo.reviews {
		if existing.TitleID == review.TitleID && existing.AuthorID == review.AuthorID {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: schema.UniqueAuthorConstraint,
			}
		}
	}
	review.ID = repo.nextID
	review.PubDate = time.Now().UTC()
	repo.reviews[review.ID] = review
	repo.nextID++
	return nil
}

func (repo *fakeReviewRepository) Update(_ context.Context, review *Review) error {
	if _, ok := repo.reviews[review.ID]; !ok {
		return apperr.NotFound("Review")
	}
	repo.reviews[review.ID] = review
	return nil
}

func (repo *fakeReviewRepository) Delete(_ context.Context, titleID, reviewID int64) error {
	review, ok := repo.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(repo.reviews, reviewID)
	return nil
}

func (repo *fakeReviewRepository) AverageScore(_ context.Context, titleID int64) (*float64, error) {
	sum, count := 0, 0
	for _, review := range repo.reviews {
		if review.TitleID == titleID {
			sum += review.Score
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	return pointer.To(float64(sum) / float64(count)), nil
}

type fakeCommentRepository struct {
	comments map[int64]*Comment
	nextID   int64
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{comments: make(map[int64]*Comment), nextID: 1}
}

func (repo *fakeCommentRepository) ListByReview(_ context.Context, reviewID int64, _, _ int) ([]*Comment, int64, error) {
	items := []*Comment{}
	for _, comment := range repo.comments {
		if comment.ReviewID == reviewID {
			items = append(items, comment)
		}
	}
	return items, int64(len(items)), nil
}

func (repo *fakeCommentRepository) GetByID(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	comment, ok := repo.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return comment, nil
}

func (repo *fakeCommentRepository) Create(_ context.Context, comment *Comment) error {
	comment.ID = repo.nextID
	comment.PubDate = time.Now().UTC()
	repo.comments[comment.ID] = comment
	repo.nextID++
	return nil
}

func (repo *fakeCommentRepository) Update(_ context.Context, comment *Comment) error {
	if _, ok := repo.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	repo.comments[comment.ID] = comment
	return nil
}

func (repo *fakeCommentRepository) Delete(_ context.Context, reviewID, commentID int64) error {
	comment, ok := repo.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(repo.comments, commentID)
	return nil
}

func newTestService() (*Service, *fakeReviewRepository, *fakeCommentRepository) {
	reviewRepo := newFakeReviewRepository()
	commentRepo := newFakeCommentRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(reviewRepo, commentRepo, logger), reviewRepo, commentRepo
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	service, repo, _ := newTestService()
	repo.titles[1] = true

	tests := []struct {
		name    string
		score   int
		allowed bool
	}{
		{"below_minimum", 0, false},
		{"minimum", 1, true},
		{"maximum", 10, true},
		{"above_maximum", 11, false},
	}

	for index, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Distinct authors so the uniqueness rule never interferes.
			authorID := []string{"a", "b", "c", "d"}[index]
			review, err := service.CreateReview(context.Background(), 1, authorID, "fine work", tt.score)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.score, review.Score)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, "score", ae.Details[0].Field)
		})
	}
}

func TestCreateReview_OnePerAuthor(t *testing.T) {
	service, repo, _ := newTestService()
	repo.titles[1] = true

	first, err := service.CreateReview(context.Background(), 1, "alice", "great", 9)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = service.CreateReview(context.Background(), 1, "alice", "changed my mind", 3)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, "Review already exists", ae.Message)

	// Same author on a different title is fine.
	repo.titles[2] = true
	_, err = service.CreateReview(context.Background(), 2, "alice", "also great", 8)
	assert.NoError(t, err)
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.CreateReview(context.Background(), 99, "alice", "text", 5)

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestListReviews_UnknownTitle(t *testing.T) {
	service, _, _ := newTestService()

	_, _, err := service.ListReviews(context.Background(), 99, pagination.Params{Page: 1, Limit: 20})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestUpdateReview_ScoreBoundsAndImmutablePubDate(t *testing.T) {
	service, repo, _ := newTestService()
	repo.titles[1] = true

	created, err := service.CreateReview(context.Background(), 1, "alice", "great", 9)
	require.NoError(t, err)
	publishedAt := created.PubDate

	_, err = service.UpdateReview(context.Background(), 1, created.ID, ReviewPatch{Score: pointer.To(11)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	updated, err := service.UpdateReview(context.Background(), 1, created.ID, ReviewPatch{
		Text:  pointer.To("revised"),
		Score: pointer.To(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Text)
	assert.Equal(t, 4, updated.Score)
	assert.Equal(t, publishedAt, updated.PubDate)
}

func TestComputeRating(t *testing.T) {
	service, repo, _ := newTestService()
	repo.titles[1] = true

	// No reviews reads as null, never as zero.
	rating, err := service.ComputeRating(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, rating)

	_, err = service.CreateReview(context.Background(), 1, "alice", "great", 9)
	require.NoError(t, err)
	_, err = service.CreateReview(context.Background(), 1, "bob", "fine", 6)
	require.NoError(t, err)

	rating, err = service.ComputeRating(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.InDelta(t, 7.5, *rating, 0.0001)
}

func TestComments_NestingAndLifecycle(t *testing.T) {
	service, repo, _ := newTestService()
	repo.titles[1] = true

	review, err := service.CreateReview(context.Background(), 1, "alice", "great", 9)
	require.NoError(t, err)

	_, err = service.CreateComment(context.Background(), 1, review.ID, "bob", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	comment, err := service.CreateComment(context.Background(), 1, review.ID, "bob", "agreed")
	require.NoError(t, err)
	assert.Equal(t, review.ID, comment.ReviewID)

	// The comment is unreachable through a review it does not belong to.
	repo.titles[2] = true
	other, err := service.CreateReview(context.Background(), 2, "bob", "meh", 4)
	require.NoError(t, err)
	_, err = service.GetComment(context.Background(), 2, other.ID, comment.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	updated, err := service.UpdateComment(context.Background(), 1, review.ID, comment.ID, "strongly agreed")
	require.NoError(t, err)
	assert.Equal(t, "strongly agreed", updated.Text)

	require.NoError(t, service.DeleteComment(context.Background(), 1, review.ID, comment.ID))
	_, err = service.GetComment(context.Background(), 1, review.ID, comment.ID)
	assert.Error(t, err)
}
