// Package repository provides the PostgreSQL access layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes mapped onto repository errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// psql builds queries with PostgreSQL placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Pool limits for one web process.
const (
	maxConns = 10
	minConns = 2
)

// Repository implements service.Store on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New opens a pool on databaseURL and fails unless the database answers.
// Migrations are applied separately, see MigrateUp.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	r := &Repository{pool: pool}
	if err := r.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return r, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) Close() {
	r.pool.Close()
}

// uniqueConstraint returns the violated constraint name when err is a
// unique violation, or "".
func uniqueConstraint(err error) string {
	return violated(err, uniqueViolation)
}

// foreignKeyConstraint is uniqueConstraint for foreign key violations.
func foreignKeyConstraint(err error) string {
	return violated(err, foreignKeyViolation)
}

func violated(err error, code string) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName
	}
	return ""
}
