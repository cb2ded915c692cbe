package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the gtm_exports table if it does not exist yet.
// Called once at startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS gtm_exports (
			id BIGSERIAL PRIMARY KEY,
			container_public_id VARCHAR(50) NOT NULL,
			requester_email VARCHAR(320) NOT NULL,
			spreadsheet_id VARCHAR(100) NOT NULL,
			requester_message TEXT,
			approver_emails TEXT[] NOT NULL DEFAULT '{}',
			activities JSONB NOT NULL,
			action JSONB,
			tag_results JSONB,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_gtm_exports_spreadsheet
			ON gtm_exports (spreadsheet_id);
	`)
	if err != nil {
		return fmt.Errorf("ensure gtm_exports schema: %w", err)
	}
	return nil
}
