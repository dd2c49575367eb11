package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// storeError maps repository errors onto the public taxonomy.
func storeError(resource string, err error) error {
	if apperrors.IsNoRows(err) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewPersistenceFailure(err)
}

// requireID rejects ids that cannot exist in the store.
func requireID(resource, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return nil
}

// publish hands an event to the dispatcher; handler failures are logged, never returned.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
