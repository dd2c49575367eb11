package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRequest payload for adding or changing a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// Validate checks comment text length.
func (r CommentRequest) Validate() error {
	errs := fieldErrors{}
	errs.minLen("text", r.Text, 6)
	return errs.err()
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	OwnerID   string    `json:"owner_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		OwnerID:   c.OwnerID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
