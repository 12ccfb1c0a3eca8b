// Package notify delivers the user-facing messages produced by request actions.
package notify

import (
	"context"
	"errors"
	"sync"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
)

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n domain.Notification) error {
	args := []any{"id", n.ID, "title", n.Title, "message", n.Message}
	if n.Variant == domain.NotificationDestructive {
		logger.WarnContext(ctx, "Notification", args...)
	} else {
		logger.InfoContext(ctx, "Notification", args...)
	}
	return nil
}

// Feed keeps the most recent notifications, newest last.
type Feed struct {
	mu    sync.Mutex
	size  int
	items []domain.Notification
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 50
	}
	return &Feed{size: size}
}

func (f *Feed) Notify(_ context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.size; over > 0 {
		f.items = append([]domain.Notification(nil), f.items[over:]...)
	}
	return nil
}

// Recent returns a copy of the feed.
func (f *Feed) Recent() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification(nil), f.items...)
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
