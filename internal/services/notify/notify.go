// Package notify implements the notification sinks. Delivery is one-way:
// sinks log their own failures and never report them to the caller.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/usecase"
)

// Feed keeps the most recent notifications per user until they are drained.
type Feed struct {
	capacity int

	mu     sync.Mutex
	queues map[string][]domain.Notification
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 50
	}
	return &Feed{
		capacity: capacity,
		queues:   make(map[string][]domain.Notification),
	}
}

// Notify appends n to its user's queue, dropping the oldest entry when full.
func (f *Feed) Notify(_ context.Context, n domain.Notification) {
	if n.UserID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	queue := append(f.queues[n.UserID], n)
	if over := len(queue) - f.capacity; over > 0 {
		queue = append(queue[:0:0], queue[over:]...)
	}
	f.queues[n.UserID] = queue
}

// Drain returns and clears the user's queue, oldest first.
func (f *Feed) Drain(userID string) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	queue := f.queues[userID]
	delete(f.queues, userID)
	if queue == nil {
		return []domain.Notification{}
	}
	return queue
}

// Forget drops anything still queued for the user.
func (f *Feed) Forget(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.queues, userID)
}

// LogSink writes notifications to the log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, n domain.Notification) {
	fields := []zap.Field{
		zap.String("user_id", n.UserID),
		zap.String("title", n.Title),
		zap.String("description", n.Description),
	}
	if n.Severity == domain.SeverityError {
		s.logger.Warn("notification", fields...)
		return
	}
	s.logger.Info("notification", fields...)
}

// Publisher is the outbound channel used by PublishSink.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// PublishSink forwards notifications to a Publisher such as the Redis
// pub/sub publisher.
type PublishSink struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewPublishSink(publisher Publisher, logger *zap.Logger) *PublishSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishSink{publisher: publisher, logger: logger}
}

func (s *PublishSink) Notify(ctx context.Context, n domain.Notification) {
	if s.publisher == nil {
		return
	}
	// the mutation already happened; a cancelled request must not stop the signal
	if err := s.publisher.Publish(context.WithoutCancel(ctx), n); err != nil {
		s.logger.Warn("failed to publish notification",
			zap.String("user_id", n.UserID),
			zap.String("title", n.Title),
			zap.Error(err))
	}
}

// Multi fans a notification out to every sink in order.
func Multi(sinks ...usecase.Notifier) usecase.Notifier {
	active := make([]usecase.Notifier, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return usecase.NotifierFunc(func(ctx context.Context, n domain.Notification) {
		for _, s := range active {
			s.Notify(ctx, n)
		}
	})
}
