package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/repository"
	"github.com/yapress/yapress/internal/validate"
	"github.com/yapress/yapress/internal/wordfilter"
)

// CommentService handles comment business logic.
type CommentService struct {
	repo    CommentRepository
	filter  TextChecker
	events  EventPublisher
	metrics metrics.Recorder
}

// NewCommentService creates a new CommentService.
// A nil filter falls back to the default banned-word list.
func NewCommentService(repo CommentRepository, filter TextChecker, publisher EventPublisher, recorder metrics.Recorder) *CommentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	if filter == nil {
		filter = wordfilter.MustNew(wordfilter.Rules{Words: wordfilter.DefaultWords})
	}
	return &CommentService{repo: repo, filter: filter, events: publisher, metrics: recorder}
}

// Create validates text and attaches a comment to newsID.
func (s *CommentService) Create(ctx context.Context, ownerID, newsID, text string) (*model.Comment, error) {
	clean, err := s.prepare(text)
	if err != nil {
		if errors.Is(err, wordfilter.ErrBanned) {
			s.events.PublishAsync(events.Event{Type: events.CommentRejected, OwnerID: ownerID, NewsID: newsID})
		}
		return nil, err
	}

	ts := now()
	comment := &model.Comment{
		ID:        generateULID(),
		OwnerID:   ownerID,
		NewsID:    newsID,
		Text:      clean,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.metrics.IncCreated(metrics.KindComment)
	s.events.PublishAsync(events.Event{
		Type:    events.CommentCreated,
		ID:      comment.ID,
		OwnerID: ownerID,
		NewsID:  newsID,
		At:      ts,
	})
	return comment, nil
}

// Get retrieves a comment by ID.
func (s *CommentService) Get(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := s.repo.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

// ListByNews returns the comments of a news item, oldest first.
func (s *CommentService) ListByNews(ctx context.Context, newsID string) ([]*model.Comment, error) {
	return s.repo.ListCommentsByNews(ctx, newsID)
}

// Update replaces the text of comment on behalf of ownerID.
func (s *CommentService) Update(ctx context.Context, ownerID string, comment *model.Comment, text string) (*model.Comment, error) {
	if comment == nil || comment.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	clean, err := s.prepare(text)
	if err != nil {
		return nil, err
	}

	updated := *comment
	updated.Text = clean
	updated.UpdatedAt = now()

	if err := s.repo.UpdateComment(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.metrics.IncUpdated(metrics.KindComment)
	s.events.PublishAsync(events.Event{
		Type:    events.CommentUpdated,
		ID:      comment.ID,
		OwnerID: ownerID,
		NewsID:  comment.NewsID,
		At:      updated.UpdatedAt,
	})
	return &updated, nil
}

// Delete removes comment on behalf of ownerID.
func (s *CommentService) Delete(ctx context.Context, ownerID string, comment *model.Comment) error {
	if comment == nil || comment.OwnerID != ownerID {
		return ErrNotFound
	}

	if err := s.repo.DeleteComment(ctx, comment.ID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.metrics.IncDeleted(metrics.KindComment)
	s.events.PublishAsync(events.Event{
		Type:    events.CommentDeleted,
		ID:      comment.ID,
		OwnerID: ownerID,
		NewsID:  comment.NewsID,
	})
	return nil
}

// prepare checks emptiness first, then the banned-word policy.
func (s *CommentService) prepare(text string) (string, error) {
	if err := validate.Fields(validate.Required("text", text, 0)); err != nil {
		s.metrics.IncRejected(metrics.KindComment, rejectReason(err))
		return "", err
	}

	clean := strings.TrimSpace(text)
	if err := s.filter.Check(clean); err != nil {
		s.metrics.IncRejected(metrics.KindComment, metrics.ReasonBanned)
		return "", err
	}
	return clean, nil
}
