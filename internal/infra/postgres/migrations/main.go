package migrations

import "github.com/uptrace/bun/migrate"

// Migrations collects the schema changes registered by the versioned files in this package.
var Migrations = migrate.NewMigrations()
