package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNewSlotTable, downNewSlotTable)
}

func upNewSlotTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE slots(
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			timetable_id UUID REFERENCES timetables(id) ON DELETE SET NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			taken BOOLEAN NOT NULL DEFAULT FALSE,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (start_time < end_time)
		);
		CREATE INDEX idx_slots_timetable ON slots(timetable_id);
		CREATE INDEX idx_slots_start_time ON slots(start_time);
		CREATE UNIQUE INDEX idx_slots_timetable_window
			ON slots(timetable_id, start_time, end_time)
			WHERE timetable_id IS NOT NULL;
	`)
	return err
}

func downNewSlotTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE slots;`)
	return err
}
