package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Store is the PostgreSQL implementation of repository.Store
type Store struct {
	db *sqlx.DB
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a store over an open connection pool
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func newRepositories(q sqlx.ExtContext) repository.Repositories {
	return repository.Repositories{
		Tenants:      &tenantRepository{db: q},
		Users:        &userRepository{db: q},
		Permissions:  &permissionRepository{db: q},
		Grants:       &grantRepository{db: q},
		Sessions:     &sessionRepository{db: q},
		LoginHistory: &loginHistoryRepository{db: q},
		Codes:        &codeRepository{db: q},
		Departments:  &departmentRepository{db: q},
	}
}

// Repos returns repositories bound to the pool, outside any transaction
func (s *Store) Repos() repository.Repositories {
	return newRepositories(s.db)
}

// WithTx begins a transaction, runs fn with repositories bound to it and
// commits when fn returns nil
func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// getOne runs a single-row query, mapping sql.ErrNoRows to repository.ErrNotFound
func getOne(ctx context.Context, q sqlx.QueryerContext, dest any, what, query string, args ...any) error {
	err := sqlx.GetContext(ctx, q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	return nil
}

// execNamed runs a named statement and maps unique violations and
// zero affected rows to the repository sentinels
func execNamed(ctx context.Context, q sqlx.ExtContext, what, query string, arg any, requireRow bool) error {
	result, err := sqlx.NamedExecContext(ctx, q, query, arg)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	if !requireRow {
		return nil
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return nil
}

// scopeClause builds the tenant filter for list queries. The returned
// clause starts with " WHERE" or is empty.
func scopeClause(scope repository.Scope, column string, args []any) (string, []any) {
	if scope.All {
		return "", args
	}
	if scope.TenantID == nil {
		return fmt.Sprintf(" WHERE %s IS NULL", column), args
	}
	args = append(args, *scope.TenantID)
	clause := fmt.Sprintf(" WHERE %s = $%d", column, len(args))
	if scope.IncludeShared {
		clause = fmt.Sprintf(" WHERE (%s = $%d OR %s IS NULL)", column, len(args), column)
	}
	return clause, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause narrows where to rows whose columns contain term, ignoring case
func searchClause(where string, args []any, term string, columns ...string) (string, []any) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return where, args
	}
	args = append(args, "%"+likeEscaper.Replace(term)+"%")
	matches := make([]string, len(columns))
	for i, column := range columns {
		matches[i] = fmt.Sprintf("%s ILIKE $%d", column, len(args))
	}
	cond := "(" + strings.Join(matches, " OR ") + ")"
	if where == "" {
		return " WHERE " + cond, args
	}
	return where + " AND " + cond, args
}

// deleteByID removes one row by primary key; a missing row is repository.ErrNotFound
func deleteByID(ctx context.Context, q sqlx.ExecerContext, table, what string, id any) error {
	result, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return nil
}
