package database

import _ "embed"

// Schema is the full index schema, generated from the migration files.
//
//go:embed sqlc/schema.sql
var Schema string
