package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostCreated  EventType = "post_created"
	EventPostDeleted  EventType = "post_deleted"
	EventPostLiked    EventType = "post_liked"
	EventPostUnliked  EventType = "post_unliked"
	EventCommentAdded EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PostID    string      `json:"post_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// LikeToggledPayload is carried by post_liked and post_unliked.
type LikeToggledPayload struct {
	LikeCount int `json:"like_count"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	PostOwnerID string `json:"post_owner_id"`
	TextPreview string `json:"text_preview"`
}
