package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

// Run applies every registered migration that has not been applied yet.
// Migrations live in this package as Go functions, so "." is only the
// bookkeeping directory goose records them under.
func Run(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
