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
)

// DefaultNewsPageSize caps the home page listing.
const DefaultNewsPageSize = 10

// NewsInput is a submitted news form.
type NewsInput struct {
	Title string
	Text  string
}

// NewsService handles news business logic.
type NewsService struct {
	repo     NewsRepository
	events   EventPublisher
	metrics  metrics.Recorder
	pageSize int
}

// NewNewsService creates a new NewsService.
func NewNewsService(repo NewsRepository, publisher EventPublisher, recorder metrics.Recorder, pageSize int) *NewsService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	if pageSize <= 0 {
		pageSize = DefaultNewsPageSize
	}
	return &NewsService{repo: repo, events: publisher, metrics: recorder, pageSize: pageSize}
}

// Create validates input and publishes a news item for ownerID.
func (s *NewsService) Create(ctx context.Context, ownerID string, input NewsInput) (*model.NewsItem, error) {
	clean, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	ts := now()
	item := &model.NewsItem{
		ID:        generateULID(),
		OwnerID:   ownerID,
		Title:     clean.Title,
		Text:      clean.Text,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.repo.CreateNews(ctx, item); err != nil {
		return nil, err
	}

	s.metrics.IncCreated(metrics.KindNews)
	s.events.PublishAsync(events.Event{Type: events.NewsCreated, ID: item.ID, OwnerID: ownerID, At: ts})
	return item, nil
}

// Get retrieves a news item by ID.
func (s *NewsService) Get(ctx context.Context, id string) (*model.NewsItem, error) {
	item, err := s.repo.GetNewsByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// List returns the newest news items, at most one page.
func (s *NewsService) List(ctx context.Context) ([]*model.NewsItem, error) {
	return s.repo.ListNews(ctx, s.pageSize)
}

// PageSize returns the listing cap.
func (s *NewsService) PageSize() int {
	return s.pageSize
}

// Update applies input to item on behalf of ownerID.
func (s *NewsService) Update(ctx context.Context, ownerID string, item *model.NewsItem, input NewsInput) (*model.NewsItem, error) {
	if item == nil || item.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	clean, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	updated := *item
	updated.Title = clean.Title
	updated.Text = clean.Text
	updated.UpdatedAt = now()

	if err := s.repo.UpdateNews(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.metrics.IncUpdated(metrics.KindNews)
	s.events.PublishAsync(events.Event{Type: events.NewsUpdated, ID: item.ID, OwnerID: ownerID, At: updated.UpdatedAt})
	return &updated, nil
}

// Delete removes item and its comments on behalf of ownerID.
func (s *NewsService) Delete(ctx context.Context, ownerID string, item *model.NewsItem) error {
	if item == nil || item.OwnerID != ownerID {
		return ErrNotFound
	}

	if err := s.repo.DeleteNews(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.metrics.IncDeleted(metrics.KindNews)
	s.events.PublishAsync(events.Event{Type: events.NewsDeleted, ID: item.ID, OwnerID: ownerID})
	return nil
}

func (s *NewsService) prepare(input NewsInput) (NewsInput, error) {
	err := validate.Fields(
		validate.Required("title", input.Title, model.NewsTitleMaxLen),
		validate.Required("text", input.Text, 0),
	)
	if err != nil {
		s.metrics.IncRejected(metrics.KindNews, rejectReason(err))
		return NewsInput{}, err
	}
	return NewsInput{
		Title: strings.TrimSpace(input.Title),
		Text:  strings.TrimSpace(input.Text),
	}, nil
}
