package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// EngagementService toggles likes on posts.
type EngagementService struct {
	posts      repository.PostRepository
	likes      repository.LikeStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// EngagementDependencies bundles collaborators for the engagement service.
type EngagementDependencies struct {
	PostRepo   repository.PostRepository
	LikeStore  repository.LikeStore
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewEngagementService constructs the service.
func NewEngagementService(deps EngagementDependencies) *EngagementService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{
		posts:      deps.PostRepo,
		likes:      deps.LikeStore,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// ToggleLike adds the caller to the post's like-set when absent and removes
// it when present. A missing post fails with NotFound before any write.
func (s *EngagementService) ToggleLike(ctx context.Context, caller domain.Identity, postID string) (*domain.LikeOutcome, error) {
	if err := requireID("post", postID); err != nil {
		return nil, err
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if !exists {
		return nil, apperrors.NewNotFound("post", map[string]any{"post_id": postID})
	}

	outcome, err := s.likes.Toggle(ctx, postID, caller.SubjectID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("post", map[string]any{"post_id": postID})
		}
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.metrics.RecordLikeToggle(outcome.Liked)

	eventType := events.EventPostUnliked
	if outcome.Liked {
		eventType = events.EventPostLiked
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:    eventType,
		PostID:  postID,
		ActorID: caller.SubjectID,
		Payload: events.LikeToggledPayload{LikeCount: outcome.LikeCount},
	})
	return &outcome, nil
}

