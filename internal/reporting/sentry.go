// Package reporting forwards unexpected server errors to Sentry.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/justsurfingit/job-board/internal/logging"
)

// Reporter sends errors to Sentry. A Reporter without a DSN is a no-op.
type Reporter struct {
	hub *sentry.Hub
}

// New creates a Reporter. An empty dsn disables reporting; so does an
// initialization failure, which is logged.
func New(dsn, environment string, log logging.Logger) *Reporter {
	if dsn == "" {
		log.Info(context.Background(), "SENTRY_DSN not set, Sentry disabled")
		return &Reporter{}
	}

	r, err := NewWithOptions(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		log.Error(context.Background(), "sentry initialization failed", "error", err)
		return &Reporter{}
	}
	return r
}

// NewWithOptions builds an enabled Reporter with its own client and hub.
func NewWithOptions(opts sentry.ClientOptions) (*Reporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// CaptureException reports err tagged with the action that failed. Extra
// key/value pairs are attached as event data.
func (r *Reporter) CaptureException(action string, err error, kv ...any) {
	if !r.Enabled() || err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("action", action)
		scope.SetLevel(sentry.LevelError)
		for i := 0; i+1 < len(kv); i += 2 {
			scope.SetExtra(fmt.Sprint(kv[i]), kv[i+1])
		}
	})
	hub.CaptureException(err)
}

// Recover reports a recovered panic value.
func (r *Reporter) Recover(v any) {
	if !r.Enabled() || v == nil {
		return
	}
	r.hub.Clone().Recover(v)
}

// Flush waits up to timeout for queued events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
