// Package migrations embeds the SQLite schema migrations applied by pkg/database.
package migrations

import "embed"

// FS holds the NNN_name.sql migration files.
//
//go:embed *.sql
var FS embed.FS
