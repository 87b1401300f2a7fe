package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yapress/yapress/internal/model"
)

// ErrCommentNotFound is returned when a comment does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// commentsNewsFK is the constraint tying comments.news_id to news.id.
const commentsNewsFK = "comments_news_id_fkey"

// commentSelect joins the author's username onto each comment.
func commentSelect() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.owner_id", "c.news_id", "c.text", "c.created_at", "c.updated_at",
		"COALESCE(u.username, '')",
	).
		From("comments c").
		LeftJoin("users u ON u.id = c.owner_id")
}

// CreateComment inserts a new comment. It returns ErrNewsNotFound when the
// news item is gone, including when it was deleted concurrently.
func (r *Repository) CreateComment(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, news_id, owner_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.NewsID,
		comment.OwnerID,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		if foreignKeyConstraint(err) == commentsNewsFK {
			return ErrNewsNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetCommentByID retrieves a comment by its ID.
func (r *Repository) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	query, args, err := commentSelect().
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	comment, err := scanComment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListCommentsByNews returns the comments of a news item, oldest first.
func (r *Repository) ListCommentsByNews(ctx context.Context, newsID string) ([]*model.Comment, error) {
	query, args, err := commentSelect().
		Where(squirrel.Eq{"c.news_id": newsID}).
		OrderBy("c.created_at", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// UpdateComment saves the text of an existing comment.
func (r *Repository) UpdateComment(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET text = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, comment.ID, comment.Text, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// DeleteComment removes a comment by ID.
func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}

	return nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	err := row.Scan(
		&comment.ID,
		&comment.OwnerID,
		&comment.NewsID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Author,
	)
	return &comment, err
}
