package domain

import "time"

// Comment is a reply left on a post.
type Comment struct {
	ID        string
	PostID    string
	OwnerID   string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
