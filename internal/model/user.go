// Package model defines domain entities for the application.
package model

import "time"

// User is an account that owns notes, news items and comments.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the acting user resolved from the request session.
// A nil *Identity means the request is anonymous.
type Identity struct {
	UserID   string
	Username string
}

// IsAnonymous reports whether the identity carries no user.
func (i *Identity) IsAnonymous() bool {
	return i == nil || i.UserID == ""
}

// Owns reports whether the identity is the given owner.
func (i *Identity) Owns(ownerID string) bool {
	return !i.IsAnonymous() && ownerID != "" && i.UserID == ownerID
}
