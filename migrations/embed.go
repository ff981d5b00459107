package migrations

import "embed"

// FS holds the schema migrations for each backend, one directory per driver
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
