// Package migrations embeds the goose migrations for each supported database.
package migrations

import "embed"

// FS holds one directory per goose dialect: postgres and sqlite.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
