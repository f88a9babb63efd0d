package driven

import "time"

// FrameHost is the rendering host whose frame pacing the throttle adjusts.
type FrameHost interface {
	// SetMinimumFrameInterval sets the minimum time between frames.
	SetMinimumFrameInterval(d time.Duration)

	// IsWorldLoading returns true while the main document is loading.
	IsWorldLoading() bool
}
