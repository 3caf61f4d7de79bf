package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
)

// Retrying wraps a fetcher and retries idempotent reads that failed for a
// retryable reason. The dispatcher itself never retries.
type Retrying struct {
	next       dispatch.Fetcher
	retries    uint
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

type RetryOption func(*Retrying)

// WithBackOff replaces the exponential schedule; tests use a zero backoff.
func WithBackOff(fn func() backoff.BackOff) RetryOption {
	return func(r *Retrying) {
		if fn != nil {
			r.newBackOff = fn
		}
	}
}

func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(r *Retrying) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// MaxRetryInterval caps the pause between two attempts.
const MaxRetryInterval = 2 * time.Second

// FetchBudget bounds one retried fetch: every attempt may use the full
// per-attempt timeout, plus the longest pause before each retry. A zero timeout
// means no bound.
func FetchBudget(timeout time.Duration, retries int) time.Duration {
	if timeout <= 0 {
		return 0
	}
	retries = max(retries, 0)
	return timeout*time.Duration(retries+1) + MaxRetryInterval*time.Duration(retries)
}

// NewRetrying allows up to retries extra attempts per GET.
func NewRetrying(next dispatch.Fetcher, retries int, opts ...RetryOption) *Retrying {
	if retries < 0 {
		retries = 0
	}
	r := &Retrying{
		next:    next,
		retries: uint(retries),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = MaxRetryInterval
			return b
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Retrying) Fetch(ctx context.Context, res dispatch.Resource) (any, error) {
	method := strings.ToUpper(strings.TrimSpace(res.Method))
	if r.retries == 0 || (method != "" && method != http.MethodGet) {
		return r.next.Fetch(ctx, res)
	}
	attempt := 0
	payload, err := backoff.Retry(ctx, func() (any, error) {
		attempt++
		v, err := r.next.Fetch(ctx, res)
		if err == nil {
			return v, nil
		}
		if !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		r.logger.Debug("retrying fetch", "slice", res.Key, "attempt", attempt, "err", err)
		return nil, err
	},
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(r.retries+1),
	)
	if err != nil {
		if _, ok := err.(*store.FetchError); !ok && ctx.Err() != nil {
			return nil, store.Wrap(store.KindTransport, NetworkError, err)
		}
		return nil, err
	}
	return payload, nil
}
