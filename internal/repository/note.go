package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yapress/yapress/internal/model"
)

// Common errors for note repository operations.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrSlugExists   = errors.New("slug already exists")
)

var noteColumns = []string{"id", "owner_id", "title", "text", "slug", "created_at", "updated_at"}

// CreateNote inserts a new note.
func (r *Repository) CreateNote(ctx context.Context, note *model.Note) error {
	query := `
		INSERT INTO notes (id, owner_id, title, text, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		note.Text,
		note.Slug,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return ErrSlugExists
		}
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetNoteBySlug retrieves a note by its slug.
func (r *Repository) GetNoteBySlug(ctx context.Context, slug string) (*model.Note, error) {
	query, args, err := psql.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	note, err := scanNote(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by slug: %w", err)
	}

	return note, nil
}

// ListNotesByOwner returns the owner's notes, oldest first.
func (r *Repository) ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error) {
	query, args, err := psql.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// SlugExists reports whether another note (not excludeID) uses slug.
func (r *Repository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	builder := psql.Select("1").
		From("notes").
		Where(squirrel.Eq{"slug": slug})
	if excludeID != "" {
		builder = builder.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := builder.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// UpdateNote saves title, text and slug of an existing note.
func (r *Repository) UpdateNote(ctx context.Context, note *model.Note) error {
	query := `
		UPDATE notes
		SET title = $2, text = $3, slug = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		note.ID,
		note.Title,
		note.Text,
		note.Slug,
		note.UpdatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return ErrSlugExists
		}
		return fmt.Errorf("failed to update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// DeleteNote removes a note by ID.
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

func scanNote(row pgx.Row) (*model.Note, error) {
	var note model.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Text,
		&note.Slug,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	return &note, err
}
