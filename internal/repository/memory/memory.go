// Package memory is an in-process store with the same semantics as the
// PostgreSQL repository. It backs development runs without DATABASE_URL
// and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/repository"
)

// Store keeps all entities in maps guarded by one mutex.
// Values are copied in and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	notes    map[string]model.Note
	news     map[string]model.NewsItem
	comments map[string]model.Comment
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]model.User),
		notes:    make(map[string]model.Note),
		news:     make(map[string]model.NewsItem),
		comments: make(map[string]model.Comment),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// CreateUser stores a user. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreateNote stores a note. Slugs are unique.
func (s *Store) CreateNote(ctx context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTakenLocked(note.Slug, "") {
		return repository.ErrSlugExists
	}
	s.notes[note.ID] = *note
	return nil
}

// GetNoteBySlug retrieves a note by slug.
func (s *Store) GetNoteBySlug(ctx context.Context, slug string) (*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notes {
		if n.Slug == slug {
			n := n
			return &n, nil
		}
	}
	return nil, repository.ErrNoteNotFound
}

// ListNotesByOwner returns the owner's notes, oldest first.
func (s *Store) ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Note
	for _, n := range s.notes {
		if n.OwnerID == ownerID {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SlugExists reports whether a note other than excludeID uses slug.
func (s *Store) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugTakenLocked(slug, excludeID), nil
}

// UpdateNote replaces title, text and slug of an existing note.
func (s *Store) UpdateNote(ctx context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notes[note.ID]
	if !ok {
		return repository.ErrNoteNotFound
	}
	if s.slugTakenLocked(note.Slug, note.ID) {
		return repository.ErrSlugExists
	}

	existing.Title = note.Title
	existing.Text = note.Text
	existing.Slug = note.Slug
	existing.UpdatedAt = note.UpdatedAt
	s.notes[note.ID] = existing
	return nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

// CreateNews stores a news item.
func (s *Store) CreateNews(ctx context.Context, item *model.NewsItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.news[item.ID] = *item
	return nil
}

// GetNewsByID retrieves a news item by id.
func (s *Store) GetNewsByID(ctx context.Context, id string) (*model.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.news[id]
	if !ok {
		return nil, repository.ErrNewsNotFound
	}
	return &item, nil
}

// ListNews returns at most limit news items, newest first.
func (s *Store) ListNews(ctx context.Context, limit int) ([]*model.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.NewsItem, 0, len(s.news))
	for _, item := range s.news {
		item := item
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateNews replaces title and text of an existing news item.
func (s *Store) UpdateNews(ctx context.Context, item *model.NewsItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.news[item.ID]
	if !ok {
		return repository.ErrNewsNotFound
	}
	existing.Title = item.Title
	existing.Text = item.Text
	existing.UpdatedAt = item.UpdatedAt
	s.news[item.ID] = existing
	return nil
}

// DeleteNews removes a news item together with its comments.
func (s *Store) DeleteNews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.news[id]; !ok {
		return repository.ErrNewsNotFound
	}
	delete(s.news, id)
	for cid, c := range s.comments {
		if c.NewsID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// CreateComment stores a comment. The news item must exist.
func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.news[comment.NewsID]; !ok {
		return repository.ErrNewsNotFound
	}
	c := *comment
	c.Author = ""
	s.comments[c.ID] = c
	return nil
}

// GetCommentByID retrieves a comment with its author's username.
func (s *Store) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	c.Author = s.users[c.OwnerID].Username
	return &c, nil
}

// ListCommentsByNews returns the comments of a news item, oldest first.
func (s *Store) ListCommentsByNews(ctx context.Context, newsID string) ([]*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Comment
	for _, c := range s.comments {
		if c.NewsID == newsID {
			c := c
			c.Author = s.users[c.OwnerID].Username
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateComment replaces the text of an existing comment.
func (s *Store) UpdateComment(ctx context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.comments[comment.ID]
	if !ok {
		return repository.ErrCommentNotFound
	}
	existing.Text = comment.Text
	existing.UpdatedAt = comment.UpdatedAt
	s.comments[comment.ID] = existing
	return nil
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(s.comments, id)
	return nil
}

// CommentCount returns the number of stored comments.
func (s *Store) CommentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

// NoteCount returns the number of stored notes.
func (s *Store) NoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// NewsCount returns the number of stored news items.
func (s *Store) NewsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.news)
}

func (s *Store) slugTakenLocked(slug, excludeID string) bool {
	for id, n := range s.notes {
		if n.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}
