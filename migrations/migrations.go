// Package migrations embeds the SQL schema migrations so binaries and tests
// apply the same files.
package migrations

import "embed"

// FS holds the numbered *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
