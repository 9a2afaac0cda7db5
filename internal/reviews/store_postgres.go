package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/database/schema"
	"github.com/critika-app/critika/internal/platform/dberr"
)

// Column lists join the author's username so responses never expose raw
// account identifiers.
var (
	reviewColumns = fmt.Sprintf("r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s",
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID,
		schema.UserAccount.Username, schema.Review.Text, schema.Review.Score,
		schema.Review.PubDate)

	reviewFrom = fmt.Sprintf("%s r JOIN %s u ON u.%s = r.%s",
		schema.Review.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.Review.AuthorID)

	commentColumns = fmt.Sprintf("c.%s, c.%s, c.%s, u.%s, c.%s, c.%s",
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID,
		schema.UserAccount.Username, schema.Comment.Text, schema.Comment.PubDate)

	commentFrom = fmt.Sprintf("%s c JOIN %s u ON u.%s = c.%s",
		schema.Comment.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.Comment.AuthorID)
)

type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (repository *PostgresReviewRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_title_exists")
	}
	return exists, nil
}

func (repository *PostgresReviewRepository) ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int64, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.Review.Table, schema.Review.TitleID)

	var total int64
	if err := repository.db.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE r.%s = $1 ORDER BY r.%s ASC, r.%s ASC LIMIT %d OFFSET %d",
		reviewColumns, reviewFrom, schema.Review.TitleID,
		schema.Review.PubDate, schema.Review.ID, limit, offset)

	rows, err := repository.db.Query(context, query, titleID)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	items := make([]*Review, 0)
	for rows.Next() {
		item := &Review{}
		if err := scanReview(rows.Scan, item); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		items = append(items, item)
	}

	return items, total, rows.Err()
}

func (repository *PostgresReviewRepository) GetByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE r.%s = $1 AND r.%s = $2",
		reviewColumns, reviewFrom, schema.Review.ID, schema.Review.TitleID)

	item := &Review{}
	if err := scanReview(repository.db.QueryRow(context, query, reviewID, titleID).Scan, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, dberr.Wrap(err, "get_review")
	}
	return item, nil
}

func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s, %s",
		schema.Review.Table, schema.Review.TitleID, schema.Review.AuthorID,
		schema.Review.Text, schema.Review.Score,
		schema.Review.ID, schema.Review.PubDate)

	// Unique violations bubble untranslated for the service to classify.
	return repository.db.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)
}

func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3",
		schema.Review.Table, schema.Review.Text, schema.Review.Score, schema.Review.ID)

	tag, err := repository.db.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

func (repository *PostgresReviewRepository) Delete(context context.Context, titleID, reviewID int64) error {
	// Comments go with the review via ON DELETE CASCADE.
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.Review.Table, schema.Review.ID, schema.Review.TitleID)

	tag, err := repository.db.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

func (repository *PostgresReviewRepository) AverageScore(context context.Context, titleID int64) (*float64, error) {
	// AVG over zero rows is SQL NULL, which scans into a nil pointer.
	query := fmt.Sprintf("SELECT AVG(%s)::float8 FROM %s WHERE %s = $1",
		schema.Review.Score, schema.Review.Table, schema.Review.TitleID)

	var average *float64
	if err := repository.db.QueryRow(context, query, titleID).Scan(&average); err != nil {
		return nil, dberr.Wrap(err, "average_review_score")
	}
	return average, nil
}

func scanReview(scan func(...any) error, review *Review) error {
	return scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	)
}

type PostgresCommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (repository *PostgresCommentRepository) ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int64, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.Comment.Table, schema.Comment.ReviewID)

	var total int64
	if err := repository.db.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE c.%s = $1 ORDER BY c.%s ASC, c.%s ASC LIMIT %d OFFSET %d",
		commentColumns, commentFrom, schema.Comment.ReviewID,
		schema.Comment.PubDate, schema.Comment.ID, limit, offset)

	rows, err := repository.db.Query(context, query, reviewID)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	items := make([]*Comment, 0)
	for rows.Next() {
		item := &Comment{}
		if err := scanComment(rows.Scan, item); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		items = append(items, item)
	}

	return items, total, rows.Err()
}

func (repository *PostgresCommentRepository) GetByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE c.%s = $1 AND c.%s = $2",
		commentColumns, commentFrom, schema.Comment.ID, schema.Comment.ReviewID)

	item := &Comment{}
	if err := scanComment(repository.db.QueryRow(context, query, commentID, reviewID).Scan, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(err, "get_comment")
	}
	return item, nil
}

func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s",
		schema.Comment.Table, schema.Comment.ReviewID, schema.Comment.AuthorID,
		schema.Comment.Text, schema.Comment.ID, schema.Comment.PubDate)

	if err := repository.db.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.ID, &comment.PubDate); err != nil {
		return dberr.Wrap(err, "create_comment")
	}
	return nil
}

func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.Comment.Table, schema.Comment.Text, schema.Comment.ID)

	tag, err := repository.db.Exec(context, query, comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func (repository *PostgresCommentRepository) Delete(context context.Context, reviewID, commentID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.Comment.Table, schema.Comment.ID, schema.Comment.ReviewID)

	tag, err := repository.db.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func scanComment(scan func(...any) error, comment *Comment) error {
	return scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	)
}
