package title

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critika-app/critika/internal/catalog/reference"
	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/database/schema"
	"github.com/critika-app/critika/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns is the shared projection: title row, mean review score
// (null while no reviews exist), and the optional category.
var selectColumns = fmt.Sprintf(`
	t.%s, t.%s, t.%s, t.%s,
	AVG(r.%s)::float8 AS rating,
	c.%s, c.%s, c.%s`,
	schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year, schema.CatalogTitle.Description,
	schema.Review.Score,
	schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
)

var fromJoins = fmt.Sprintf(`
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s
	LEFT JOIN %s r ON r.%s = t.%s`,
	schema.CatalogTitle.Table,
	schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogTitle.CategoryID,
	schema.Review.Table, schema.Review.TitleID, schema.CatalogTitle.ID,
)

var groupBy = fmt.Sprintf(
	"GROUP BY t.%s, t.%s, t.%s, t.%s, c.%s, c.%s, c.%s",
	schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year, schema.CatalogTitle.Description,
	schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
)

// buildFilter converts a Filter into a WHERE clause and its arguments.
func buildFilter(filter Filter) (string, []any) {
	conditions := []string{}
	arguments := []any{}

	place := func() string { return fmt.Sprintf("$%d", len(arguments)) }

	if filter.GenreSlug != "" {
		arguments = append(arguments, filter.GenreSlug)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = %s)",
			schema.CatalogTitleGenre.Table, schema.CatalogGenre.Table,
			schema.CatalogGenre.ID, schema.CatalogTitleGenre.GenreID,
			schema.CatalogTitleGenre.TitleID, schema.CatalogTitle.ID,
			schema.CatalogGenre.Slug, place(),
		))
	}

	if filter.CategorySlug != "" {
		arguments = append(arguments, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.%s = %s", schema.CatalogCategory.Slug, place()))
	}

	if filter.Name != "" {
		arguments = append(arguments, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("t.%s ILIKE %s", schema.CatalogTitle.Name, place()))
	}

	if filter.Year != 0 {
		arguments = append(arguments, filter.Year)
		conditions = append(conditions, fmt.Sprintf("t.%s = %s", schema.CatalogTitle.Year, place()))
	}

	if len(conditions) == 0 {
		return "", arguments
	}
	return "WHERE " + strings.Join(conditions, " AND "), arguments
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int64, error) {
	where, arguments := buildFilter(filter)

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s t LEFT JOIN %s c ON c.%s = t.%s %s",
		schema.CatalogTitle.Table,
		schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogTitle.CategoryID,
		where,
	)

	var total int64
	if err := repository.db.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	query := fmt.Sprintf("SELECT %s %s %s %s ORDER BY t.%s ASC LIMIT %d OFFSET %d",
		selectColumns, fromJoins, where, groupBy, schema.CatalogTitle.Name, limit, offset)

	rows, err := repository.db.Query(context, query, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}

	if err := repository.loadGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE t.%s = $1 %s",
		selectColumns, fromJoins, schema.CatalogTitle.ID, groupBy)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_title")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, dberr.Wrap(err, "get_title")
		}
		return nil, apperr.NotFound("Title")
	}

	title, err := scanTitle(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_title")
	}
	rows.Close()

	if err := repository.loadGenres(context, []*Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

func (repository *PostgresRepository) Create(context context.Context, model WriteModel) (*Title, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_create_title")
	}
	defer tx.Rollback(context)

	categoryID, err := resolveCategory(context, tx, model.CategorySlug)
	if err != nil {
		return nil, err
	}

	genreIDs, err := resolveGenres(context, tx, model.GenreSlugs)
	if err != nil {
		return nil, err
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s`,
		schema.CatalogTitle.Table,
		schema.CatalogTitle.Name, schema.CatalogTitle.Year, schema.CatalogTitle.Description,
		schema.CatalogTitle.CategoryID, schema.CatalogTitle.CreatedAt, schema.CatalogTitle.UpdatedAt,
		schema.CatalogTitle.ID,
	)

	var titleID int64
	err = tx.QueryRow(context, insertQuery, model.Name, model.Year, model.Description, categoryID).Scan(&titleID)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_title")
	}

	if err := insertGenreLinks(context, tx, titleID, genreIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_create_title")
	}

	return repository.GetByID(context, titleID)
}

func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) (*Title, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_update_title")
	}
	defer tx.Rollback(context)

	// Lock the row and load the current state to overlay the patch onto.
	selectQuery := fmt.Sprintf(
		"SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 FOR UPDATE",
		schema.CatalogTitle.Name, schema.CatalogTitle.Year, schema.CatalogTitle.Description,
		schema.CatalogTitle.CategoryID, schema.CatalogTitle.Table, schema.CatalogTitle.ID,
	)

	var (
		name        string
		year        int
		description string
		categoryID  *int64
	)
	err = tx.QueryRow(context, selectQuery, id).Scan(&name, &year, &description, &categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, dberr.Wrap(err, "lock_title")
	}

	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Year != nil {
		year = *patch.Year
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.CategorySlug != nil {
		categoryID, err = resolveCategory(context, tx, *patch.CategorySlug)
		if err != nil {
			return nil, err
		}
	}

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1`,
		schema.CatalogTitle.Table,
		schema.CatalogTitle.Name, schema.CatalogTitle.Year, schema.CatalogTitle.Description,
		schema.CatalogTitle.CategoryID, schema.CatalogTitle.UpdatedAt, schema.CatalogTitle.ID,
	)

	if _, err := tx.Exec(context, updateQuery, id, name, year, description, categoryID); err != nil {
		return nil, dberr.Wrap(err, "update_title")
	}

	// A provided genre list replaces the whole set.
	if patch.GenreSlugs != nil {
		genreIDs, err := resolveGenres(context, tx, *patch.GenreSlugs)
		if err != nil {
			return nil, err
		}

		deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.CatalogTitleGenre.Table, schema.CatalogTitleGenre.TitleID)
		if _, err := tx.Exec(context, deleteQuery, id); err != nil {
			return nil, dberr.Wrap(err, "clear_title_genres")
		}

		if err := insertGenreLinks(context, tx, id, genreIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_update_title")
	}

	return repository.GetByID(context, id)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// # Internal Helpers

// scanTitle hydrates one projected row, folding the nullable category.
func scanTitle(rows pgx.Rows) (*Title, error) {
	title := &Title{Genres: make([]reference.Item, 0)}

	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
	)

	err := rows.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description,
		&title.Rating,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		title.Category = &reference.Item{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	return title, nil
}

// loadGenres attaches the genre sets for a page of titles in one query.
func (repository *PostgresRepository) loadGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	index := make(map[int64]*Title, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		index[title.ID] = title
		ids = append(ids, title.ID)
	}

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		schema.CatalogTitleGenre.TitleID,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name, schema.CatalogGenre.Slug,
		schema.CatalogTitleGenre.Table,
		schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogTitleGenre.GenreID,
		schema.CatalogTitleGenre.TitleID,
		schema.CatalogGenre.Name,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		item := reference.Item{}
		if err := rows.Scan(&titleID, &item.ID, &item.Name, &item.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if title, ok := index[titleID]; ok {
			title.Genres = append(title.Genres, item)
		}
	}

	return rows.Err()
}

// resolveCategory maps a category slug to its row ID. An unknown slug is a
// client error, not an internal one.
func resolveCategory(context context.Context, tx pgx.Tx, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		schema.CatalogCategory.ID, schema.CatalogCategory.Table, schema.CatalogCategory.Slug)

	var id int64
	if err := tx.QueryRow(context, query, slug).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "category",
				Message: fmt.Sprintf("Unknown category slug %q", slug),
			})
		}
		return nil, dberr.Wrap(err, "resolve_category")
	}

	return &id, nil
}

// resolveGenres maps genre slugs to row IDs, rejecting any unknown slug.
func resolveGenres(context context.Context, tx pgx.Tx, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ANY($1)",
		schema.CatalogGenre.ID, schema.CatalogGenre.Slug,
		schema.CatalogGenre.Table, schema.CatalogGenre.Slug)

	rows, err := tx.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "resolve_genres")
	}
	defer rows.Close()

	found := make(map[string]int64, len(slugs))
	for rows.Next() {
		var id int64
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, dberr.Wrap(err, "scan_genre_id")
		}
		found[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "resolve_genres")
	}

	ids := make([]int64, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		id, ok := found[slug]
		if !ok {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "genre",
				Message: fmt.Sprintf("Unknown genre slug %q", slug),
			})
		}
		// Duplicate slugs in the payload collapse to one link.
		if !seen[slug] {
			ids = append(ids, id)
			seen[slug] = true
		}
	}

	return ids, nil
}

// insertGenreLinks writes the join rows for a title.
func insertGenreLinks(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.CatalogTitleGenre.Table,
		schema.CatalogTitleGenre.TitleID, schema.CatalogTitleGenre.GenreID)

	for _, genreID := range genreIDs {
		if _, err := tx.Exec(context, query, titleID, genreID); err != nil {
			return dberr.Wrap(err, "link_title_genre")
		}
	}

	return nil
}
