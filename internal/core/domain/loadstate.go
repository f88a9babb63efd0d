package domain

// LoadState tracks the progress of one external resource field.
type LoadState int

// Load states, in the order a single load cycle visits them.
const (
	// NotLoaded is the initial state and the state after a URL change.
	NotLoaded LoadState = iota

	// Loading means a worker has claimed the field.
	Loading

	// LoadComplete means content was installed.
	LoadComplete

	// LoadFailed means every candidate URL was tried without success.
	LoadFailed
)

// IsTerminal returns true if no further transition happens without a URL change.
func (s LoadState) IsTerminal() bool {
	return s == LoadComplete || s == LoadFailed
}

// String returns the string representation.
func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "NOT_LOADED"
	case Loading:
		return "LOADING"
	case LoadComplete:
		return "LOAD_COMPLETE"
	case LoadFailed:
		return "LOAD_FAILED"
	default:
		return unknownDescription
	}
}
