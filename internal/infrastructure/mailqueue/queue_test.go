package mailqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/kgpnow-api/internal/domain"
	"github.com/kgpnow-api/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingMailer struct {
	mu    sync.Mutex
	sent  []domain.Email
	err   error
	block chan struct{}
}

func (m *recordingMailer) SendEmail(msg domain.Email) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestQueue_DeliversAndDrains(t *testing.T) {
	defer goleak.VerifyNone(t)

	ml := &recordingMailer{}
	metrics := observability.NewMetrics()
	q := New(ml, 3, 10, quietLogger(), metrics)

	for i := 0; i < 5; i++ {
		q.Dispatch(domain.Email{To: "ann@x.com", Subject: "s"})
	}
	require.NoError(t, q.Close(context.Background()))

	assert.Equal(t, 5, ml.count())
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.MailDeliveries.WithLabelValues(observability.MailSent)))
}

func TestQueue_FailuresAreSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	ml := &recordingMailer{err: errors.New("smtp down")}
	metrics := observability.NewMetrics()
	q := New(ml, 1, 1, quietLogger(), metrics)

	q.Dispatch(domain.Email{To: "ann@x.com"})
	require.NoError(t, q.Close(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MailDeliveries.WithLabelValues(observability.MailFailed)))
}

func TestQueue_DispatchNeverBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	ml := &recordingMailer{block: make(chan struct{})}
	metrics := observability.NewMetrics()
	q := New(ml, 1, 1, quietLogger(), metrics)

	done := make(chan struct{})
	go func() {
		// one in flight, one buffered, the rest dropped
		for i := 0; i < 5; i++ {
			q.Dispatch(domain.Email{To: "ann@x.com"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(ml.block)
	require.NoError(t, q.Close(context.Background()))
	dropped := testutil.ToFloat64(metrics.MailDeliveries.WithLabelValues(observability.MailDropped))
	assert.Equal(t, 5.0, float64(ml.count())+dropped)
	assert.GreaterOrEqual(t, dropped, 3.0)
}

func TestQueue_CloseTwiceAndDispatchAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	ml := &recordingMailer{}
	q := New(ml, 1, 1, quietLogger(), nil)
	require.NoError(t, q.Close(context.Background()))
	assert.ErrorIs(t, q.Close(context.Background()), ErrClosed)

	q.Dispatch(domain.Email{To: "ann@x.com"})
	assert.Equal(t, 0, ml.count())
}

func TestQueue_CloseHonoursContext(t *testing.T) {
	ml := &recordingMailer{block: make(chan struct{})}
	q := New(ml, 1, 1, quietLogger(), nil)
	q.Dispatch(domain.Email{To: "ann@x.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Close(ctx), context.DeadlineExceeded)

	close(ml.block)
}
