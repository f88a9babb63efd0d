// Package decoders provides implementations of the Decoder interface for
// the content types the loader installs into nodes. Each decoder knows how
// to turn a content stream of a specific MIME type into a content object.
//
// Decoders are registered with a Registry at startup. Content types with
// no registered decoder are passed through as raw bytes.
package decoders
