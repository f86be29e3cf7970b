// Package db embeds the SQL schema applied at startup.
package db

import _ "embed"

// Schema contains the idempotent DDL for all NovaMart tables and enums.
//
//go:embed migrations/001_schema.sql
var Schema string
