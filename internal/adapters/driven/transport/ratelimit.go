package transport

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// maxRetryAfter caps how long a server can ask us to back off.
const maxRetryAfter = 2 * time.Minute

// HostLimiter throttles requests per host. Each host gets its own token
// bucket, and a host that answers 429 or 503 with Retry-After is paused
// until the advertised time.
type HostLimiter struct {
	limit rate.Limit
	burst int

	mu     sync.Mutex
	hosts  map[string]*rate.Limiter
	paused map[string]time.Time
	now    func() time.Time
}

// NewHostLimiter creates a limiter allowing perSecond requests to each
// host with the given burst. A non-positive rate disables throttling.
func NewHostLimiter(perSecond float64, burst int) *HostLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limit:  limit,
		burst:  burst,
		hosts:  make(map[string]*rate.Limiter),
		paused: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Wait blocks until a request to host may be made.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	bucket, ok := l.hosts[host]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.hosts[host] = bucket
	}
	until := l.paused[host]
	now := l.now()
	l.mu.Unlock()

	if until.After(now) {
		timer := time.NewTimer(until.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return bucket.Wait(ctx)
}

// UpdateFromResponse pauses host when the response asks for a back-off.
func (l *HostLimiter) UpdateFromResponse(host string, resp *http.Response) {
	if resp == nil {
		return
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return
	}
	delay, ok := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), l.now())
	if !ok {
		return
	}
	if delay > maxRetryAfter {
		delay = maxRetryAfter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	until := l.now().Add(delay)
	if until.After(l.paused[host]) {
		l.paused[host] = until
	}
}

// PausedUntil returns the time host is paused until, if any.
func (l *HostLimiter) PausedUntil(host string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.paused[host]
	if !ok || !until.After(l.now()) {
		return time.Time{}, false
	}
	return until, true
}

// parseRetryAfter reads a Retry-After value in seconds or as an HTTP date.
func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, false
	}
	return 0, false
}
