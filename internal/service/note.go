package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/repository"
	"github.com/yapress/yapress/internal/validate"
)

// NoteInput is a submitted note form.
type NoteInput struct {
	Title string
	Text  string
	Slug  string
}

// NoteService handles note business logic.
type NoteService struct {
	repo    NoteRepository
	events  EventPublisher
	metrics metrics.Recorder
}

// NewNoteService creates a new NoteService.
func NewNoteService(repo NoteRepository, publisher EventPublisher, recorder metrics.Recorder) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &NoteService{repo: repo, events: publisher, metrics: recorder}
}

// Create validates input and stores a new note for ownerID.
func (s *NoteService) Create(ctx context.Context, ownerID string, input NoteInput) (*model.Note, error) {
	clean, err := s.prepare(ctx, input, "")
	if err != nil {
		return nil, err
	}

	ts := now()
	note := &model.Note{
		ID:        generateULID(),
		OwnerID:   ownerID,
		Title:     clean.Title,
		Text:      clean.Text,
		Slug:      clean.Slug,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, s.mapWriteError(err)
	}

	s.metrics.IncCreated(metrics.KindNote)
	s.events.PublishAsync(events.Event{Type: events.NoteCreated, ID: note.ID, OwnerID: ownerID, At: ts})
	return note, nil
}

// Get retrieves a note by slug.
func (s *NoteService) Get(ctx context.Context, slug string) (*model.Note, error) {
	note, err := s.repo.GetNoteBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return note, nil
}

// List returns the notes owned by ownerID.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]*model.Note, error) {
	return s.repo.ListNotesByOwner(ctx, ownerID)
}

// Update applies input to note on behalf of ownerID.
func (s *NoteService) Update(ctx context.Context, ownerID string, note *model.Note, input NoteInput) (*model.Note, error) {
	if note == nil || note.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	clean, err := s.prepare(ctx, input, note.ID)
	if err != nil {
		return nil, err
	}

	updated := *note
	updated.Title = clean.Title
	updated.Text = clean.Text
	updated.Slug = clean.Slug
	updated.UpdatedAt = now()

	if err := s.repo.UpdateNote(ctx, &updated); err != nil {
		return nil, s.mapWriteError(err)
	}

	s.metrics.IncUpdated(metrics.KindNote)
	s.events.PublishAsync(events.Event{Type: events.NoteUpdated, ID: note.ID, OwnerID: ownerID, At: updated.UpdatedAt})
	return &updated, nil
}

// Delete removes note on behalf of ownerID.
func (s *NoteService) Delete(ctx context.Context, ownerID string, note *model.Note) error {
	if note == nil || note.OwnerID != ownerID {
		return ErrNotFound
	}

	if err := s.repo.DeleteNote(ctx, note.ID); err != nil {
		return s.mapWriteError(err)
	}

	s.metrics.IncDeleted(metrics.KindNote)
	s.events.PublishAsync(events.Event{Type: events.NoteDeleted, ID: note.ID, OwnerID: ownerID})
	return nil
}

// prepare validates and normalizes input, deriving the slug when omitted.
func (s *NoteService) prepare(ctx context.Context, input NoteInput, noteID string) (NoteInput, error) {
	err := validate.Fields(
		validate.Required("title", input.Title, model.NoteTitleMaxLen),
		validate.Required("text", input.Text, 0),
		validate.Optional("slug", input.Slug, model.NoteSlugMaxLen),
	)
	if err != nil {
		s.metrics.IncRejected(metrics.KindNote, rejectReason(err))
		return NoteInput{}, err
	}

	clean := NoteInput{
		Title: strings.TrimSpace(input.Title),
		Text:  strings.TrimSpace(input.Text),
		Slug:  strings.TrimSpace(input.Slug),
	}

	if clean.Slug == "" {
		clean.Slug = deriveSlug(clean.Title)
	} else if err := validate.Slug("slug", clean.Slug); err != nil {
		s.metrics.IncRejected(metrics.KindNote, rejectReason(err))
		return NoteInput{}, err
	}

	taken, err := s.repo.SlugExists(ctx, clean.Slug, noteID)
	if err != nil {
		return NoteInput{}, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		s.metrics.IncRejected(metrics.KindNote, metrics.ReasonConflict)
		return NoteInput{}, &SlugTakenError{Slug: clean.Slug}
	}

	return clean, nil
}

func (s *NoteService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSlugExists):
		s.metrics.IncRejected(metrics.KindNote, metrics.ReasonConflict)
		return ErrSlugExists
	case errors.Is(err, repository.ErrNoteNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// deriveSlug builds a slug from a title. Titles with nothing to transliterate
// get a random slug; derived slugs never shadow fixed routes.
func deriveSlug(title string) string {
	slug := Slugify(title)
	if slug == "" {
		return "note-" + strings.ToLower(generateULID())
	}
	if validate.ReservedSlugs[slug] {
		return slug + "-note"
	}
	return slug
}
