package connector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/logger"
)

// ErrMailerClosed is returned for mails handed to an AsyncMailer after Close
var ErrMailerClosed = errors.New("mailer is closed")

// AsyncMailer hands every mail to a background goroutine so that slow or failing mail servers do not delay
// the request that triggered the mail. Delivery errors are logged.
type AsyncMailer struct {
	next    users.Mailer
	timeout time.Duration
	logger  logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncMailer wraps next. A positive timeout bounds each delivery.
func NewAsyncMailer(next users.Mailer, timeout time.Duration, logger logger.Logger) *AsyncMailer {
	return &AsyncMailer{next: next, timeout: timeout, logger: logger}
}

func (m *AsyncMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return m.dispatch(ctx, "verification", to, func(ctx context.Context) error {
		return m.next.SendVerificationEmail(ctx, to, name, token)
	})
}

func (m *AsyncMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	return m.dispatch(ctx, "password reset", to, func(ctx context.Context) error {
		return m.next.SendPasswordResetEmail(ctx, to, name, token)
	})
}

func (m *AsyncMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return m.dispatch(ctx, "welcome", to, func(ctx context.Context) error {
		return m.next.SendWelcomeEmail(ctx, to, name)
	})
}

// Close stops accepting mails and waits for pending deliveries until ctx is done
func (m *AsyncMailer) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pending mails not delivered: %w", ctx.Err())
	}
}

func (m *AsyncMailer) dispatch(ctx context.Context, kind, to string, send func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMailerClosed
	}

	// the request context is cancelled once the response is written
	sendCtx := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		if m.timeout > 0 {
			var cancel context.CancelFunc
			sendCtx, cancel = context.WithTimeout(sendCtx, m.timeout)
			defer cancel()
		}
		if err := send(sendCtx); err != nil {
			m.logger.Error("Failed to send ", kind, " e-mail to ", to, ": ", err)
		}
	}()
	return nil
}
