// Package migrations holds the load history schema, applied in version
// order when the store opens.
package migrations

import "embed"

// FS holds the numbered up and down migrations.
//
//go:embed *.sql
var FS embed.FS
