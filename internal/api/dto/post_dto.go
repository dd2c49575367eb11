package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostRequest payload for creating a post.
type PostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CoverPhoto  string   `json:"cover_photo"`
	Photos      []string `json:"photos"`
}

// Validate checks rules for a new post.
func (r PostRequest) Validate() error {
	errs := fieldErrors{}
	errs.minLen("title", r.Title, 5)
	errs.minLen("description", r.Description, 10)
	if nonEmpty(r.Tags) == 0 {
		errs["tags"] = "must contain at least one tag"
	}
	return errs.err()
}

// ValidateChange checks the fields present in a post update.
func (r PostRequest) ValidateChange() error {
	errs := fieldErrors{}
	errs.optionalMinLen("title", r.Title, 5)
	errs.optionalMinLen("description", r.Description, 10)
	if r.Tags != nil && nonEmpty(r.Tags) == 0 {
		errs["tags"] = "must contain at least one tag"
	}
	if r.Title == "" && r.Description == "" && r.Tags == nil && r.CoverPhoto == "" && r.Photos == nil {
		errs["body"] = "at least one field is required"
	}
	return errs.err()
}

// PostResponse is the public view of a post. Liked reflects the caller.
type PostResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CoverPhoto  string    `json:"cover_photo"`
	Photos      []string  `json:"photos"`
	Likes       []string  `json:"likes"`
	LikesCount  int       `json:"likes_count"`
	Liked       bool      `json:"liked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPostResponse maps a domain post for the given caller.
func NewPostResponse(p *domain.Post, callerID string) PostResponse {
	return PostResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        orEmpty(p.Tags),
		CoverPhoto:  p.CoverPhoto,
		Photos:      orEmpty(p.Photos),
		Likes:       orEmpty(p.Likes),
		LikesCount:  p.LikeCount(),
		Liked:       callerID != "" && p.LikedBy(callerID),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewPostResponses maps a slice of posts.
func NewPostResponses(posts []domain.Post, callerID string) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i], callerID))
	}
	return out
}

// LikeResponse reports the state after a toggle.
type LikeResponse struct {
	PostID     string `json:"post_id"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likes_count"`
}

// NewLikeResponse maps a toggle outcome.
func NewLikeResponse(o *domain.LikeOutcome) LikeResponse {
	return LikeResponse{PostID: o.PostID, Liked: o.Liked, LikesCount: o.LikeCount}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
