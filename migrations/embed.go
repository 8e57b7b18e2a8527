// Package migrations embeds the Postgres schema so the binary can migrate
// without the source tree next to it.
package migrations

import "embed"

// Files holds the golang-migrate *.up.sql and *.down.sql pairs.
//
//go:embed *.sql
var Files embed.FS
