package driving

import "context"

// FramerateThrottle adapts frame pacing to outstanding load work.
type FramerateThrottle interface {
	// Start runs the monitoring loop. Blocks until Stop is called or ctx is cancelled.
	Start(ctx context.Context) error

	// Stop ends the monitoring loop.
	Stop() error
}
