package async

import (
	"context"

	"github.com/commguard/cerberus/pkg/utils/errutil"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch executes a handler function asynchronously in a new goroutine.
// It creates a background context and handles errors and panics, so a
// failing gateway event never takes the process down with it. Errors and
// panics go through errutil.Handle, which logs them and reports them to
// Sentry when the SDK is initialized.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	// Create a new background context but preserve logger
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := goerr.New("panic in async handler", goerr.V("panic", r))
				_ = errutil.Handle(bgCtx, err, "panic in async handler")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
