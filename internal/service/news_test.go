package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/validate"
)

func TestNewsService_CreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     NewsInput
		wantField string
		wantCode  string
	}{
		{"empty title", NewsInput{Text: "x"}, "title", validate.CodeRequired},
		{"empty text", NewsInput{Title: "x"}, "text", validate.CodeRequired},
		{"title too long", NewsInput{Title: strings.Repeat("я", 251), Text: "x"}, "title", validate.CodeTooLong},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			_, err := e.news.Create(context.Background(), "u1", tt.input)
			fe, ok := validate.AsFieldError(err)
			if !ok {
				t.Fatalf("error = %v, want *validate.FieldError", err)
			}
			if fe.Field != tt.wantField || fe.Code != tt.wantCode {
				t.Errorf("FieldError = %s/%s, want %s/%s", fe.Field, fe.Code, tt.wantField, tt.wantCode)
			}
			if e.store.NewsCount() != 0 {
				t.Error("invalid news item must not be stored")
			}
		})
	}
}

func TestNewsService_ListCappedAtPageSize(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	for i := 0; i < DefaultNewsPageSize+1; i++ {
		if _, err := e.news.Create(ctx, "u1", NewsInput{Title: "t", Text: "x"}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := e.news.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != DefaultNewsPageSize {
		t.Errorf("len = %d, want %d", len(list), DefaultNewsPageSize)
	}
}

func TestNewsService_DeleteCascadesComments(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	item, err := e.news.Create(ctx, "author", NewsInput{Title: "t", Text: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.comments.Create(ctx, "reader", item.ID, "хороший текст"); err != nil {
		t.Fatal(err)
	}

	if err := e.news.Delete(ctx, "reader", item); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := e.news.Delete(ctx, "author", item); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if e.store.CommentCount() != 0 {
		t.Errorf("CommentCount() = %d, want 0", e.store.CommentCount())
	}

	types := e.events.types()
	if types[len(types)-1] != events.NewsDeleted {
		t.Errorf("last event = %s, want %s", types[len(types)-1], events.NewsDeleted)
	}
}

func TestNewsService_Update(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	item, err := e.news.Create(ctx, "author", NewsInput{Title: "t", Text: "x"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.news.Update(ctx, "author", item, NewsInput{Title: "", Text: "y"}); err == nil {
		t.Error("Update() with empty title should fail")
	}

	updated, err := e.news.Update(ctx, "author", item, NewsInput{Title: " новый ", Text: "y"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "новый" {
		t.Errorf("Title = %q, want trimmed %q", updated.Title, "новый")
	}

	if _, err := e.news.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}
