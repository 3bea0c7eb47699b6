package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNewTimetableTable, downNewTimetableTable)
}

func upNewTimetableTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE timetables(
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			owner_id UUID NOT NULL,
			repeatable BOOLEAN NOT NULL DEFAULT FALSE,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			weekly JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_timetables_owner ON timetables(owner_id);
		CREATE INDEX idx_timetables_repeatable ON timetables(repeatable) WHERE repeatable;
	`)
	return err
}

func downNewTimetableTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE timetables;`)
	return err
}
