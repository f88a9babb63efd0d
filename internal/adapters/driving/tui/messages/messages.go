// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// WorldLoaded carries the result of a world load back to the model.
type WorldLoaded struct {
	// Generation identifies the load that produced this result.
	Generation int

	Doc driven.WorldDocument
	Err error
}

// Tick asks the model to sample load states again.
type Tick struct {
	Time time.Time
}

// FieldRetried is sent after a field was queued again.
type FieldRetried struct {
	Node  string
	Field string
}
