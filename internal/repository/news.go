package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yapress/yapress/internal/model"
)

// ErrNewsNotFound is returned when a news item does not exist.
var ErrNewsNotFound = errors.New("news item not found")

var newsColumns = []string{"id", "owner_id", "title", "text", "created_at", "updated_at"}

// CreateNews inserts a new news item.
func (r *Repository) CreateNews(ctx context.Context, item *model.NewsItem) error {
	query := `
		INSERT INTO news (id, owner_id, title, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.OwnerID,
		item.Title,
		item.Text,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create news item: %w", err)
	}

	return nil
}

// GetNewsByID retrieves a news item by its ID.
func (r *Repository) GetNewsByID(ctx context.Context, id string) (*model.NewsItem, error) {
	query, args, err := psql.Select(newsColumns...).
		From("news").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item, err := scanNews(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}

	return item, nil
}

// ListNews returns at most limit news items, newest first.
func (r *Repository) ListNews(ctx context.Context, limit int) ([]*model.NewsItem, error) {
	builder := psql.Select(newsColumns...).
		From("news").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []*model.NewsItem
	for rows.Next() {
		item, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateNews saves title and text of an existing news item.
func (r *Repository) UpdateNews(ctx context.Context, item *model.NewsItem) error {
	query := `
		UPDATE news
		SET title = $2, text = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, item.ID, item.Title, item.Text, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update news item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNewsNotFound
	}

	return nil
}

// DeleteNews removes a news item. Its comments go with it (ON DELETE CASCADE).
func (r *Repository) DeleteNews(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNewsNotFound
	}

	return nil
}

func scanNews(row pgx.Row) (*model.NewsItem, error) {
	var item model.NewsItem
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Text,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return &item, err
}
