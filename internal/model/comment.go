package model

import "time"

// Comment is a public comment attached to a news item.
type Comment struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	NewsID    string    `json:"news_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Username of the author, filled by listing queries.
	Author string `json:"author,omitempty"`
}

// Owner returns the id of the user who wrote the comment.
func (c *Comment) Owner() string {
	return c.OwnerID
}
