package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/floody/internal/gtm"
	"github.com/ignite/floody/internal/service/gtmrequest"
)

// GtmExportRepo implements gtmrequest.Store against PostgreSQL. The
// flattened activities, action information and tag results are stored as
// JSONB documents; approver emails as a text array for indexed lookups.
type GtmExportRepo struct{ db *sql.DB }

// NewGtmExportRepo creates a Postgres-backed request store.
func NewGtmExportRepo(db *sql.DB) *GtmExportRepo { return &GtmExportRepo{db: db} }

func (r *GtmExportRepo) Save(ctx context.Context, export *gtmrequest.Export) error {
	activities, err := json.Marshal(export.Activities)
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO gtm_exports
			(container_public_id, requester_email, spreadsheet_id,
			 requester_message, approver_emails, activities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, export.ContainerPublicID, export.RequesterEmail, export.SpreadsheetID,
		export.RequesterMessage, pq.Array(export.ApproverEmails), activities,
		export.Timestamp,
	).Scan(&export.ID)
	if err != nil {
		return fmt.Errorf("insert gtm export: %w", err)
	}
	return nil
}

func (r *GtmExportRepo) ByID(ctx context.Context, id int64) (gtmrequest.Export, error) {
	var (
		export         gtmrequest.Export
		approverEmails pq.StringArray
		activities     []byte
		action         []byte
		tagResults     []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, container_public_id, requester_email, spreadsheet_id,
		       COALESCE(requester_message,''), approver_emails, activities,
		       action, tag_results, created_at
		FROM gtm_exports
		WHERE id = $1
	`, id).Scan(
		&export.ID, &export.ContainerPublicID, &export.RequesterEmail,
		&export.SpreadsheetID, &export.RequesterMessage, &approverEmails,
		&activities, &action, &tagResults, &export.Timestamp,
	)
	if err == sql.ErrNoRows {
		return gtmrequest.Export{}, gtmrequest.ErrNotFound
	}
	if err != nil {
		return gtmrequest.Export{}, fmt.Errorf("get gtm export: %w", err)
	}

	export.ApproverEmails = approverEmails
	if err := json.Unmarshal(activities, &export.Activities); err != nil {
		return gtmrequest.Export{}, fmt.Errorf("unmarshal activities: %w", err)
	}
	if len(action) > 0 {
		export.Action = &gtmrequest.RequestAction{}
		if err := json.Unmarshal(action, export.Action); err != nil {
			return gtmrequest.Export{}, fmt.Errorf("unmarshal action: %w", err)
		}
	}
	if len(tagResults) > 0 {
		var results []gtm.TagOperationResult
		if err := json.Unmarshal(tagResults, &results); err != nil {
			return gtmrequest.Export{}, fmt.Errorf("unmarshal tag results: %w", err)
		}
		export.TagResults = results
	}
	return export, nil
}

func (r *GtmExportRepo) Update(ctx context.Context, export gtmrequest.Export) error {
	// Absent values go out as untyped nils so the columns become NULL
	// instead of an empty byte slice.
	var action, tagResults interface{}

	if export.Action != nil {
		encoded, err := json.Marshal(export.Action)
		if err != nil {
			return fmt.Errorf("marshal action: %w", err)
		}
		action = encoded
	}
	if export.TagResults != nil {
		encoded, err := json.Marshal(export.TagResults)
		if err != nil {
			return fmt.Errorf("marshal tag results: %w", err)
		}
		tagResults = encoded
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE gtm_exports
		SET action = $2, tag_results = $3
		WHERE id = $1
	`, export.ID, action, tagResults)
	if err != nil {
		return fmt.Errorf("update gtm export: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update gtm export: %w", err)
	}
	if affected == 0 {
		return gtmrequest.ErrNotFound
	}
	return nil
}
