package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// Ensure FramerateThrottle implements the interface.
var _ driving.FramerateThrottle = (*FramerateThrottle)(nil)

// InProgressCounter reports outstanding load requests.
type InProgressCounter interface {
	NumberInProgress() int
}

// FramerateThrottle lowers the frame rate while loads are in flight so
// loader workers get CPU time, and restores it once loading settles.
type FramerateThrottle struct {
	host     driven.FrameHost
	counters []InProgressCounter
	settings domain.ThrottleSettings

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// poll state, owned by the loop goroutine
	current   time.Duration
	lastCount int
	samePolls int
	lastBusy  time.Time
	stuck     bool
}

// NewFramerateThrottle creates a throttle over the given managers.
func NewFramerateThrottle(
	host driven.FrameHost,
	settings domain.ThrottleSettings,
	counters ...InProgressCounter,
) *FramerateThrottle {
	return &FramerateThrottle{
		host:     host,
		counters: counters,
		settings: settings,
		current:  -1,
	}
}

// Start runs the monitoring loop. This method blocks until Stop is called
// or ctx is cancelled.
func (t *FramerateThrottle) Start(ctx context.Context) error {
	if !t.settings.Enabled || t.host == nil {
		return nil
	}

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil // Already running
	}
	t.running = true
	t.stopCh = make(chan struct{})
	stopCh := t.stopCh
	t.wg.Add(1)
	t.mu.Unlock()

	defer t.wg.Done()
	return t.run(ctx, stopCh)
}

// Stop ends the monitoring loop and waits for it to exit.
func (t *FramerateThrottle) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	close(t.stopCh)
	t.mu.Unlock()

	t.wg.Wait()
	return nil
}

// run is the main throttle loop.
func (t *FramerateThrottle) run(ctx context.Context, stopCh chan struct{}) error {
	interval := t.settings.PollInterval
	if interval <= 0 {
		interval = domain.DefaultLoaderSettings().Throttle.PollInterval
	}

	t.poll(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.markStopped()
			return ctx.Err()
		case <-stopCh:
			return nil
		case now := <-ticker.C:
			t.poll(now)
		}
	}
}

func (t *FramerateThrottle) markStopped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.running = false
		close(t.stopCh)
	}
}

// poll samples outstanding work and updates the frame interval.
func (t *FramerateThrottle) poll(now time.Time) {
	count := 0
	for _, c := range t.counters {
		count += c.NumberInProgress()
	}

	if count > 0 && count == t.lastCount {
		t.samePolls++
	} else {
		t.samePolls = 0
		t.stuck = false
	}
	t.lastCount = count

	// A wedged queue relaxes the frame rate even during a world load.
	var next time.Duration
	switch {
	case t.settings.StuckPolls > 0 && t.samePolls >= t.settings.StuckPolls:
		if !t.stuck {
			logger.Debug("throttle: %d loads unchanged for %d polls, relaxing", count, t.samePolls)
			t.stuck = true
		}
		next = t.settings.IdleInterval
	case t.host.IsWorldLoading():
		next = t.settings.LoadingInterval
		t.lastBusy = now
	case count > 0:
		next = t.settings.BackgroundInterval
		t.lastBusy = now
	case now.Sub(t.lastBusy) >= t.settings.IdleDebounce:
		next = t.settings.IdleInterval
	default:
		next = t.settings.BackgroundInterval
	}

	if next != t.current {
		logger.Debug("throttle: frame interval %s (in progress %d)", next, count)
		t.current = next
		t.host.SetMinimumFrameInterval(next)
	}
}
