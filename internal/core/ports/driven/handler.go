package driven

import (
	"context"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// LoadRequestHandler fetches and decodes one coalesced URL group and
// installs the result into every consumer.
//
// Handlers never return errors to the pool: failures are reported through
// the ErrorReporter and reflected in consumer load states. The context is
// cancelled when the request is aborted; handlers close any open
// connection as soon as they observe it.
type LoadRequestHandler interface {
	// Kind identifies the handler; requests are coalesced per kind.
	Kind() string

	// ProcessLoadRequest loads urls (first success wins) for consumers.
	ProcessLoadRequest(
		ctx context.Context,
		reporter ErrorReporter,
		urls []string,
		consumers Consumers,
	) domain.LoadOutcome
}
