package domain

import "time"

// Post is a published article. Likes holds the subject ids of users who liked it;
// order carries no meaning.
type Post struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Tags        []string
	CoverPhoto  string
	Photos      []string
	Likes       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LikedBy reports whether subjectID is a member of the post's like-set.
func (p *Post) LikedBy(subjectID string) bool {
	for _, id := range p.Likes {
		if id == subjectID {
			return true
		}
	}
	return false
}

// LikeCount is the cardinality of the like-set.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}
