package reviews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/database/schema"
	"github.com/critika-app/critika/internal/platform/dberr"
	"github.com/critika-app/critika/internal/platform/validate"
	"github.com/critika-app/critika/pkg/pagination"
)

type Service struct {
	reviewRepo  ReviewRepository
	commentRepo CommentRepository
	logger      *slog.Logger
}

func NewService(reviewRepo ReviewRepository, commentRepo CommentRepository, logger *slog.Logger) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int64, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}

	items, total, err := service.reviewRepo.ListByTitle(context, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return items, total, nil
}

func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}
	return service.reviewRepo.GetByID(context, titleID, reviewID)
}

// CreateReview persists a new review. The one-review-per-author rule is
// enforced by the store's unique constraint, so a racing duplicate still
// surfaces as a Conflict rather than a second row.
func (service *Service) CreateReview(context context.Context, titleID int64, authorID, text string, score int) (*Review, error) {
	validator := &validate.Validator{}
	validator.Required("text", text).
		Range("score", score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    score,
	}
	if err := service.reviewRepo.Create(context, review); err != nil {
		if dberr.IsUniqueViolation(err, schema.UniqueAuthorConstraint) {
			return nil, apperr.Conflict("Review already exists")
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("author_id", authorID),
	)

	return review, nil
}

// ReviewPatch carries partial review updates. PubDate is immutable and
// deliberately absent.
type ReviewPatch struct {
	Text  *string
	Score *int
}

func (service *Service) UpdateReview(context context.Context, titleID, reviewID int64, patch ReviewPatch) (*Review, error) {
	validator := &validate.Validator{}
	if patch.Text != nil {
		validator.Required("text", *patch.Text)
	}
	if patch.Score != nil {
		validator.Range("score", *patch.Score, MinScore, MaxScore)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}

	if err := service.reviewRepo.Update(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_updated", slog.Int64("review_id", reviewID))

	return review, nil
}

func (service *Service) DeleteReview(context context.Context, titleID, reviewID int64) error {
	if err := service.requireTitle(context, titleID); err != nil {
		return err
	}
	if err := service.reviewRepo.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("title_id", titleID),
	)

	return nil
}

// ComputeRating returns the mean review score for a title, or nil when the
// title has no reviews. Zero reviews never reads as a zero score.
func (service *Service) ComputeRating(context context.Context, titleID int64) (*float64, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}
	return service.reviewRepo.AverageScore(context, titleID)
}

func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int64, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	items, total, err := service.commentRepo.ListByReview(context, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return items, total, nil
}

func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.commentRepo.GetByID(context, reviewID, commentID)
}

func (service *Service) CreateComment(context context.Context, titleID, reviewID int64, authorID, text string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required("text", text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := service.commentRepo.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
	)

	return comment, nil
}

func (service *Service) UpdateComment(context context.Context, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required("text", text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.commentRepo.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_updated", slog.Int64("comment_id", commentID))

	return comment, nil
}

func (service *Service) DeleteComment(context context.Context, titleID, reviewID, commentID int64) error {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return err
	}
	if err := service.commentRepo.Delete(context, reviewID, commentID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted", slog.Int64("comment_id", commentID))

	return nil
}

// requireTitle turns a dangling title reference into a 404 before any
// review work happens.
func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.reviewRepo.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}
