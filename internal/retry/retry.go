// Package retry re-runs outbound calls that failed for transient reasons.
package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/googleapis/gax-go/v2/apierror"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// Policy bounds how often and how patiently an operation is retried.
type Policy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy returns exponential backoff starting at 500ms, capped at 10s.
func DefaultPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// Do runs op until it succeeds, fails with a non-transient error, the context
// ends, or MaxRetries retries have been spent. The last error is returned as is.
func Do(ctx context.Context, p Policy, logger *zap.Logger, name string, op func() error) error {
	if p.MaxRetries <= 0 {
		return op()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op()
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("transient failure, retrying",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}

// IsTransient reports whether err is worth retrying: network failures, timeouts,
// throttling and server-side errors. Caller cancellation never is.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var marked interface{ Transient() bool }
	if errors.As(err, &marked) {
		return marked.Transient()
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if st := apiErr.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Internal, codes.Aborted:
				return true
			}
		}
		return IsTransientStatus(apiErr.HTTPCode())
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return IsTransientStatus(gErr.Code)
	}

	return false
}

// IsTransientStatus reports whether an HTTP status code signals a retryable condition.
func IsTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		(code >= http.StatusInternalServerError && code < 600)
}
