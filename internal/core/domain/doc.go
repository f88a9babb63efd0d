// Package domain defines the core entities of the scene resource loader.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - LoadState: Per-field progress of an external resource load
//   - SortClass: Priority class used to order the load queue
//   - URLSetKey: Canonical identity of a coalesced load request
//   - CacheDetails: A decoded resource held by a file cache
//   - LoadOutcome / LoadRecord: Result of one dispatched request
//   - LoaderSettings: Tunables for the pool, cache, transport and throttle
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
