// Package migrations embeds the catalog schema applied at startup.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
