// Package driving defines interfaces that external actors (CLI, browser
// front ends) use to drive the loader. These are the "driving" ports in
// hexagonal architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
package driving
