package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
)

// NotificationService reacts to blog activity.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// EventTypes lists the events the service handles.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventPostCreated,
		events.EventPostDeleted,
		events.EventPostLiked,
		events.EventPostUnliked,
		events.EventCommentAdded,
	}
}

// Handle routes one event to its handler. Unknown types are ignored.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventPostCreated:
		return n.handlePostCreated(ctx, event)
	case events.EventPostDeleted:
		return n.handlePostDeleted(ctx, event)
	case events.EventPostLiked, events.EventPostUnliked:
		return n.handleLikeToggled(ctx, event)
	case events.EventCommentAdded:
		return n.handleCommentAdded(ctx, event)
	}
	return nil
}

func (n *NotificationService) handlePostCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("PostCreated", zap.String("post_id", event.PostID), zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePostDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("PostDeleted", zap.String("post_id", event.PostID), zap.String("actor_id", event.ActorID))
	return nil
}

func (n *NotificationService) handleLikeToggled(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("post_id", event.PostID),
		zap.String("actor_id", event.ActorID),
		zap.String("event_type", string(event.Type)),
	}
	if payload, ok := event.Payload.(events.LikeToggledPayload); ok {
		fields = append(fields, zap.Int("likes_count", payload.LikeCount))
	}
	n.logger.Debug("LikeToggled", fields...)
	if event.Type == events.EventPostLiked {
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.CommentAddedPayload)
	n.logger.Info("CommentAdded",
		zap.String("post_id", event.PostID),
		zap.String("comment_id", payload.CommentID),
		zap.String("actor_id", event.ActorID))
	// authors are not notified about their own comments
	if payload.PostOwnerID != "" && payload.PostOwnerID != event.ActorID {
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("post_id", event.PostID),
		zap.String("event_type", string(event.Type)))
}
