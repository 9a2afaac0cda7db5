// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/database/schema"
	"github.com/critika-app/critika/internal/users/auth"
	"github.com/critika-app/critika/pkg/pagination"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// accountColumns is the shared SELECT list for hydrating account rows.
var accountColumns = fmt.Sprintf(
	"%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.UserAccount.ID,
	schema.UserAccount.Username,
	schema.UserAccount.Email,
	schema.UserAccount.FirstName,
	schema.UserAccount.LastName,
	schema.UserAccount.Bio,
	schema.UserAccount.Role,
	schema.UserAccount.IsSuperuser,
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
)

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	return repository.scanOne(context, query, id)
}

/*
FindByUsername retrieves an account by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		accountColumns, schema.UserAccount.Table, schema.UserAccount.Username,
	)

	return repository.scanOne(context, query, username)
}

/*
List returns a page of accounts ordered by username, optionally filtered by
a username substring (case-insensitive).

Parameters:
  - context: context.Context
  - search: string
  - params: pagination.Params

Returns:
  - []*auth.User: The page of accounts
  - int64: Total matching rows
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int64, error) {

	filter := ""
	arguments := []any{}
	if search != "" {
		filter = fmt.Sprintf("WHERE %s ILIKE $1", schema.UserAccount.Username)
		arguments = append(arguments, "%"+search+"%")
	}

	// Count first: the meta block needs the unpaginated total.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", schema.UserAccount.Table, filter)
	var total int64
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM %s %s ORDER BY %s ASC LIMIT %d OFFSET %d",
		accountColumns, schema.UserAccount.Table, filter,
		schema.UserAccount.Username, params.Limit, params.Offset(),
	)

	rows, err := repository.pool.Query(context, pageQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.Bio, &user.Role, &user.IsSuperuser, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

/*
Create persists an admin-provisioned account.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Constraint violations (propagated untranslated) or execution errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.UserAccount.Table, accountColumns,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Bio, user.Role, user.IsSuperuser, user.CreatedAt, user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists the mutable account fields.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Email,
		schema.UserAccount.FirstName,
		schema.UserAccount.LastName,
		schema.UserAccount.Bio,
		schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID, user.Email, user.FirstName, user.LastName,
		user.Bio, user.Role, user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
DeleteByUsername permanently removes an account.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresAccountRepository) DeleteByUsername(context context.Context, username string) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.UserAccount.Table, schema.UserAccount.Username,
	)

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// scanOne executes a single-row account query and hydrates the entity.
func (repository *PostgresAccountRepository) scanOne(context context.Context, query string, argument any) (*auth.User, error) {
	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Bio, &user.Role, &user.IsSuperuser, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return user, nil
}
