// Package mailqueue delivers email on background workers so request handlers never wait on SMTP.
package mailqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kgpnow-api/internal/domain"
	"github.com/kgpnow-api/internal/infrastructure/smtp"
	"github.com/kgpnow-api/internal/observability"
)

// ErrClosed is returned by Close when called twice.
var ErrClosed = errors.New("mail queue closed")

// Queue is a bounded buffer drained by a fixed pool of workers.
// Delivery failures are logged and counted, never returned to the producer.
type Queue struct {
	mailer  smtp.Mailer
	logger  *slog.Logger
	metrics *observability.Metrics

	jobs chan domain.Email
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts workers goroutines reading from a queue of the given size.
func New(mailer smtp.Mailer, workers, size int, logger *slog.Logger, metrics *observability.Metrics) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		mailer:  mailer,
		logger:  logger.With("component", "mailqueue"),
		metrics: metrics,
		jobs:    make(chan domain.Email, size),
	}
	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.work()
	}
	return q
}

// Dispatch enqueues msg without blocking. When the queue is full or closed the
// message is dropped with a warning.
func (q *Queue) Dispatch(msg domain.Email) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.drop(msg, "queue closed")
		return
	}
	select {
	case q.jobs <- msg:
	default:
		q.drop(msg, "queue full")
	}
}

// Close stops accepting messages and waits for queued ones to be delivered
// or for ctx to end, whichever comes first.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for msg := range q.jobs {
		if err := q.mailer.SendEmail(msg); err != nil {
			q.logger.Error("email send failed", "to", msg.To, "subject", msg.Subject, "err", err)
			q.metrics.RecordMail(observability.MailFailed)
			continue
		}
		q.logger.Debug("email sent", "to", msg.To, "subject", msg.Subject)
		q.metrics.RecordMail(observability.MailSent)
	}
}

func (q *Queue) drop(msg domain.Email, reason string) {
	q.logger.Warn("email dropped", "to", msg.To, "subject", msg.Subject, "reason", reason)
	q.metrics.RecordMail(observability.MailDropped)
}
