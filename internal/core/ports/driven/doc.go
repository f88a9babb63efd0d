// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the loader to function:
//
//   - ExternalNode / Scene: The scene graph being populated
//   - ResourceLoader: Opens URLs and yields decoded content
//   - FileCache: Decoded content cache (use the no-op cache to disable)
//   - ErrorReporter: Receives every loader message
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the loader degrades gracefully:
//
//   - ProgressListener: Download start/end notifications
//   - LoadHistoryStore: Per-request history. Without it nothing is recorded.
//   - ClassLoader: Compiled script classes. Without it ".class" scripts fail.
//   - WorldLoader factories: Without them world loads fail.
//   - FrameHost: Without it the framerate throttle is not started.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
