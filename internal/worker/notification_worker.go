package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
)

const defaultQueueSize = 256

// EventConsumer is implemented by services that react to dispatched events.
type EventConsumer interface {
	EventTypes() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker moves event handling off the request path. Events are
// queued by the dispatcher and drained by a single goroutine.
type NotificationWorker struct {
	consumer EventConsumer
	logger   *zap.Logger
	queue    chan events.Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// StartNotificationWorker subscribes the consumer to the dispatcher and starts
// draining. Call Stop to flush pending events.
func StartNotificationWorker(dispatcher events.Dispatcher, consumer EventConsumer, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{
		consumer: consumer,
		logger:   logger,
		queue:    make(chan events.Event, defaultQueueSize),
		done:     make(chan struct{}),
	}
	if dispatcher == nil || consumer == nil {
		close(w.done)
		w.closed = true
		return w
	}
	for _, eventType := range consumer.EventTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.run()
	return w
}

// enqueue never blocks the publisher; a full queue drops the event.
func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("post_id", event.PostID))
	}
	return nil
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		if err := w.consumer.Handle(context.Background(), event); err != nil {
			w.logger.Warn("notification handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
}

// Stop closes the queue and waits until queued events are handled or ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
