package model

import "time"

// NewsTitleMaxLen is the maximum length of a news title.
const NewsTitleMaxLen = 250

// NewsItem is a public news article.
type NewsItem struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner returns the id of the user who published the item.
func (n *NewsItem) Owner() string {
	return n.OwnerID
}
