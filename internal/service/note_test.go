package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/validate"
)

func TestNoteService_CreateDerivesSlug(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	note, err := e.notes.Create(ctx, "u1", NoteInput{Title: "Моя заметка", Text: "текст"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.Slug != "moya-zametka" {
		t.Errorf("Slug = %q, want %q", note.Slug, "moya-zametka")
	}
	if e.store.NoteCount() != 1 {
		t.Errorf("NoteCount() = %d, want 1", e.store.NoteCount())
	}
	if got := e.events.types(); len(got) != 1 || got[0] != events.NoteCreated {
		t.Errorf("events = %v, want [note.created]", got)
	}
	if e.metrics.Snapshot().Created[metrics.KindNote] != 1 {
		t.Error("created counter not incremented")
	}
}

func TestNoteService_CreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     NoteInput
		wantField string
		wantCode  string
		reason    string
	}{
		{"empty title", NoteInput{Title: "", Text: "x"}, "title", validate.CodeRequired, metrics.ReasonEmpty},
		{"blank text", NoteInput{Title: "t", Text: "   "}, "text", validate.CodeRequired, metrics.ReasonEmpty},
		{"title first", NoteInput{Title: "", Text: ""}, "title", validate.CodeRequired, metrics.ReasonEmpty},
		{"bad slug", NoteInput{Title: "t", Text: "x", Slug: "Bad Slug"}, "slug", validate.CodeInvalid, metrics.ReasonInvalid},
		{"reserved slug", NoteInput{Title: "t", Text: "x", Slug: "done"}, "slug", validate.CodeReserved, metrics.ReasonInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			_, err := e.notes.Create(context.Background(), "u1", tt.input)
			fe, ok := validate.AsFieldError(err)
			if !ok {
				t.Fatalf("error = %v, want *validate.FieldError", err)
			}
			if fe.Field != tt.wantField || fe.Code != tt.wantCode {
				t.Errorf("FieldError = %s/%s, want %s/%s", fe.Field, fe.Code, tt.wantField, tt.wantCode)
			}
			if e.store.NoteCount() != 0 {
				t.Error("invalid note must not be stored")
			}
			rejected := e.metrics.Snapshot().Rejected
			if rejected[metrics.KindNote+"/"+tt.reason] != 1 || len(rejected) != 1 {
				t.Errorf("Rejected = %v, want only %s/%s", rejected, metrics.KindNote, tt.reason)
			}
		})
	}
}

func TestNoteService_DuplicateSlug(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.notes.Create(ctx, "u1", NoteInput{Title: "Заголовок", Text: "a"}); err != nil {
		t.Fatal(err)
	}

	// Same title from another user derives the same slug.
	_, err := e.notes.Create(ctx, "u2", NoteInput{Title: "Заголовок", Text: "b"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("error = %v, want ErrSlugExists", err)
	}
	if e.store.NoteCount() != 1 {
		t.Errorf("NoteCount() = %d, want 1", e.store.NoteCount())
	}
	if e.metrics.Snapshot().Rejected["note/conflict"] != 1 {
		t.Error("conflict rejection not counted")
	}
}

func TestNoteService_UpdateAndDeleteRequireOwner(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	note, err := e.notes.Create(ctx, "owner", NoteInput{Title: "t", Text: "x", Slug: "my-note"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.notes.Update(ctx, "intruder", note, NoteInput{Title: "h", Text: "h"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := e.notes.Delete(ctx, "intruder", note); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}

	stored, _ := e.notes.Get(ctx, "my-note")
	if stored.Title != "t" {
		t.Errorf("non-owner update leaked: title = %q", stored.Title)
	}

	updated, err := e.notes.Update(ctx, "owner", note, NoteInput{Title: "new", Text: "new text", Slug: "my-note"})
	if err != nil {
		t.Fatalf("Update() keeping own slug error = %v", err)
	}
	if updated.Title != "new" {
		t.Errorf("Title = %q, want %q", updated.Title, "new")
	}

	if err := e.notes.Delete(ctx, "owner", updated); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := e.notes.Get(ctx, "my-note"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestNoteService_ListIsPerOwner(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	for i, owner := range []string{"a", "b", "a"} {
		in := NoteInput{Title: "note", Text: "x", Slug: []string{"one", "two", "three"}[i]}
		if _, err := e.notes.Create(ctx, owner, in); err != nil {
			t.Fatal(err)
		}
	}

	list, err := e.notes.List(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
}
