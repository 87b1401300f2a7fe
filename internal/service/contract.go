// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// NoteRepository persists notes.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNoteBySlug(ctx context.Context, slug string) (*model.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id string) error
}

// NewsRepository persists news items.
type NewsRepository interface {
	CreateNews(ctx context.Context, item *model.NewsItem) error
	GetNewsByID(ctx context.Context, id string) (*model.NewsItem, error)
	ListNews(ctx context.Context, limit int) ([]*model.NewsItem, error)
	UpdateNews(ctx context.Context, item *model.NewsItem) error
	DeleteNews(ctx context.Context, id string) error
}

// CommentRepository persists comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListCommentsByNews(ctx context.Context, newsID string) ([]*model.Comment, error)
	UpdateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, id string) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserRepository
	NoteRepository
	NewsRepository
	CommentRepository
	Ping(ctx context.Context) error
}

// EventPublisher receives lifecycle events.
type EventPublisher interface {
	PublishAsync(event events.Event)
}

// TextChecker rejects policy-disallowed text.
type TextChecker interface {
	Check(text string) error
}
