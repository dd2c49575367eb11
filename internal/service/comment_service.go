package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

const commentPreviewLen = 80

// CommentService manages comments on posts.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	PostRepo    repository.PostRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		comments:   deps.CommentRepo,
		posts:      deps.PostRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// AddComment attaches a comment by the caller to an existing post.
func (s *CommentService) AddComment(ctx context.Context, caller domain.Identity, postID, text string) (*domain.Comment, error) {
	if err := requireID("post", postID); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, storeError("post", err)
	}

	comment := &domain.Comment{
		PostID:  post.ID,
		OwnerID: caller.SubjectID,
		Text:    strings.TrimSpace(text),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError("comment", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventCommentAdded,
		PostID:  post.ID,
		ActorID: caller.SubjectID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			PostOwnerID: post.OwnerID,
			TextPreview: preview(comment.Text, commentPreviewLen),
		},
	})
	return comment, nil
}

// UpdateComment replaces the text of a comment owned by the caller.
func (s *CommentService) UpdateComment(ctx context.Context, caller domain.Identity, commentID, text string) (*domain.Comment, error) {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureOwner(caller, comment.OwnerID, "comment"); err != nil {
		return nil, err
	}
	comment.Text = strings.TrimSpace(text)
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, storeError("comment", err)
	}
	return comment, nil
}

// DeleteComment removes a comment owned by the caller.
func (s *CommentService) DeleteComment(ctx context.Context, caller domain.Identity, commentID string) error {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := auth.EnsureOwner(caller, comment.OwnerID, "comment"); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return storeError("comment", err)
	}
	return nil
}

// GetComment returns one comment.
func (s *CommentService) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	return s.loadComment(ctx, commentID)
}

// ListComments returns the newest comments first.
func (s *CommentService) ListComments(ctx context.Context, limit, offset int) ([]domain.Comment, error) {
	comments, err := s.comments.List(ctx, limit, offset)
	if err != nil {
		return nil, storeError("comment", err)
	}
	return comments, nil
}

// ListPostComments returns a post's comments, oldest first.
func (s *CommentService) ListPostComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if err := requireID("post", postID); err != nil {
		return []domain.Comment{}, nil
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, storeError("comment", err)
	}
	return comments, nil
}

func (s *CommentService) loadComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	if err := requireID("comment", commentID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, storeError("comment", err)
	}
	return comment, nil
}

func preview(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "…"
}
