// Package db embeds the SQL migrations for every supported dialect.
//
// Migrations live under migrations/<dialect>/ with golang-migrate's
// NNN_name.up.sql / NNN_name.down.sql naming. The sqlite and postgres
// directories carry the same schema expressed in each dialect's types, and
// must stay in lockstep: a new migration lands in both or neither.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
