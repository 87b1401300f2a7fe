package model

import "time"

// Note field limits.
const (
	NoteTitleMaxLen = 100
	NoteSlugMaxLen  = 100
)

// Note is a private note visible only to its owner.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner returns the id of the user who created the note.
func (n *Note) Owner() string {
	return n.OwnerID
}
