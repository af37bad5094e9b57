// Package migrations embeds the versioned PostgreSQL schema so the binaries
// and integration tests can apply it without a path on disk.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
