package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNewEventTable, downNewEventTable)
}

func upNewEventTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE events(
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			status VARCHAR(32) NOT NULL,
			slot_id UUID REFERENCES slots(id) ON DELETE SET NULL,
			title TEXT NOT NULL,
			member TEXT NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX idx_events_status ON events(status);
		CREATE INDEX idx_events_slot ON events(slot_id);
		CREATE INDEX idx_events_member ON events(member);
	`)
	return err
}

func downNewEventTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE events;`)
	return err
}
