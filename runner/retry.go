package runner

import (
	"context"
	"fmt"
	"time"
)

// retryDelay is the unit for the linear backoff between attempts. The wait
// before retry n is n * retryDelay.
var retryDelay = 2 * time.Second

// RunWithRetry repeats a command up to maxRetries+1 total attempts, waiting a
// linearly increasing delay between attempts. The final failure is returned
// unchanged, so callers see the same error shape as a single Run.
//
// Retrying does not undo partial side effects of a failed attempt on its own.
// Commands that are not safe to re-run after partial completion must supply a
// cleanup func; it runs before every retry, and a cleanup failure stops the
// retry loop rather than re-running against a dirty state.
func RunWithRetry(ctx context.Context, r Runner, command string, maxRetries int, opts Options, cleanup func() error) (string, error) {
	var out string
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * retryDelay):
			}
			if cleanup != nil {
				if cerr := cleanup(); cerr != nil {
					return "", fmt.Errorf("cleanup before retry %d failed: %w", attempt, cerr)
				}
			}
		}
		out, err = r.Run(ctx, command, opts)
		if err == nil {
			return out, nil
		}
	}
	return "", err
}
