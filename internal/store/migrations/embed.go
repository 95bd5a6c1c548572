package migrations

import "embed"

// FS contains embedded SQLite migrations for the record sink.
//
//go:embed *.sql
var FS embed.FS
