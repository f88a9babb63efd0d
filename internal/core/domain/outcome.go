package domain

import "time"

// LoadOutcome is the result of one dispatch of a load request.
type LoadOutcome struct {
	// URL is the candidate that produced content, or the first attempted
	// candidate when nothing succeeded.
	URL string

	// ContentType is the MIME type of the installed content.
	ContentType string

	// Completed counts consumers that reached LoadComplete.
	Completed int

	// Failed counts consumers that reached LoadFailed.
	Failed int

	// Skipped counts consumers ignored because they were already complete,
	// removed, or stale.
	Skipped int

	// FromCache is true if content came from the file cache.
	FromCache bool

	// Aborted is true if the load was cancelled by request.
	Aborted bool

	// Err is the failure, if any.
	Err error
}

// Success returns true if at least one consumer received content.
func (o LoadOutcome) Success() bool {
	return o.Completed > 0
}

// LoadRecord is a persisted summary of one dispatched load request.
type LoadRecord struct {
	// RequestID identifies the coalesced request.
	RequestID string

	// Kind is the handler kind (content, script, world).
	Kind string

	// Class is the sort class the request was queued under.
	Class SortClass

	// URL is the winning or first attempted URL.
	URL string

	// ContentType is the MIME type of installed content.
	ContentType string

	// Consumers is the number of consumers registered at dispatch.
	Consumers int

	// Success indicates whether any consumer received content.
	Success bool

	// FromCache indicates a cache hit.
	FromCache bool

	// Aborted indicates cancellation by request.
	Aborted bool

	// Error contains the error message if the load failed.
	Error string

	// StartedAt is when a worker claimed the request.
	StartedAt time.Time

	// EndedAt is when the handler returned.
	EndedAt time.Time
}

// Duration returns how long the dispatch took.
func (r LoadRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
