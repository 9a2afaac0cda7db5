package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/database/schema"
	"github.com/critika-app/critika/internal/platform/dberr"
)

type PostgresRepository struct {
	db    *pgxpool.Pool
	kind  Kind
	table string
	colID string
	name  string
	slug  string
}

func NewGenreRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		db:    db,
		kind:  KindGenre,
		table: schema.CatalogGenre.Table,
		colID: schema.CatalogGenre.ID,
		name:  schema.CatalogGenre.Name,
		slug:  schema.CatalogGenre.Slug,
	}
}

func NewCategoryRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		db:    db,
		kind:  KindCategory,
		table: schema.CatalogCategory.Table,
		colID: schema.CatalogCategory.ID,
		name:  schema.CatalogCategory.Name,
		slug:  schema.CatalogCategory.Slug,
	}
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Item, int64, error) {

	filter := ""
	arguments := []any{}
	if search != "" {
		filter = fmt.Sprintf("WHERE %s ILIKE $1", repository.name)
		arguments = append(arguments, "%"+search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", repository.table, filter)
	var total int64
	if err := repository.db.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reference_items")
	}

	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s %s ORDER BY %s ASC LIMIT %d OFFSET %d",
		repository.colID, repository.name, repository.slug,
		repository.table, filter, repository.name, limit, offset)

	rows, err := repository.db.Query(context, query, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reference_items")
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_reference_item")
		}
		items = append(items, item)
	}

	return items, total, rows.Err()
}

func (repository *PostgresRepository) Create(context context.Context, item *Item) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s",
		repository.table, repository.name, repository.slug, repository.colID)

	if err := repository.db.QueryRow(context, query, item.Name, item.Slug).Scan(&item.ID); err != nil {
		// Unique violations bubble untranslated for the service to classify.
		return err
	}

	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", repository.table, repository.slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_reference_item")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Label())
	}

	return nil
}
