// Package transport opens external resources for the loader.
//
// A Router dispatches on URL scheme:
//
//   - http, https: HTTPLoader, rate limited per host
//   - file and bare paths: FileLoader
//   - data: DataLoader
//
// Every connection decodes its body through a ContentDecoder, normally a
// decoders.Registry.
package transport
