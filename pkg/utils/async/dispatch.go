package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
)

// Dispatch runs a handler in a detached goroutine. It is the fire-and-forget
// primitive for side calls (audit records, chat notifications) whose failure
// must never propagate to the primary flow: errors and panics are logged and
// swallowed. The handler gets a fresh background context carrying the
// caller's logger, so it survives cancellation of the originating request.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
