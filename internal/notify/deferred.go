package notify

import (
	"context"
	"sync"
	"time"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
)

// Deferred sends notifications after a delay. Every scheduled notification is bound to the
// lifetime context given to NewDeferred: once that context is done, or Close is called, pending
// notifications are dropped instead of delivered.
type Deferred struct {
	next   Notifier
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDeferred(lifetime context.Context, next Notifier) *Deferred {
	ctx, cancel := context.WithCancel(lifetime)
	return &Deferred{next: next, ctx: ctx, cancel: cancel}
}

// Schedule delivers n after delay unless the scheduler is closed first. It returns a function
// that cancels this one notification.
func (d *Deferred) Schedule(delay time.Duration, n domain.Notification) (cancel func()) {
	d.mu.Lock()
	if d.closed || d.ctx.Err() != nil {
		d.mu.Unlock()
		logger.Debug("Deferred notification dropped, scheduler closed", "title", n.Title)
		return func() {}
	}
	ctx, cancelOne := context.WithCancel(d.ctx)
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer cancelOne()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			logger.Debug("Deferred notification cancelled", "title", n.Title)
		case <-timer.C:
			if err := d.next.Notify(ctx, n); err != nil {
				logger.Warn("Deferred notification failed", "title", n.Title, "error", err)
			}
		}
	}()
	return cancelOne
}

// Wait blocks until every scheduled notification has been delivered or cancelled.
func (d *Deferred) Wait() {
	d.wg.Wait()
}

// Close cancels everything still pending and waits for the timers to exit.
func (d *Deferred) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}
