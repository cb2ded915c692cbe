package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/gtm"
	"github.com/ignite/floody/internal/service/gtmrequest"
)

func testExport() gtmrequest.Export {
	return gtmrequest.Export{
		ContainerPublicID: "GTM-ABC123",
		RequesterEmail:    "requester@example.com",
		SpreadsheetID:     "sheet-1",
		RequesterMessage:  "please push",
		ApproverEmails:    []string{"approver@example.com"},
		Activities: []gtm.FloodlightActivity{{
			Name:           "Purchase",
			AdvertiserID:   500,
			GroupTagString: "chkout",
			TagString:      "purch",
			CountingMethod: floody.CounterStandard,
		}},
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGtmExportRepoSave(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	export := testExport()
	mock.ExpectQuery("INSERT INTO gtm_exports").
		WithArgs(export.ContainerPublicID, export.RequesterEmail, export.SpreadsheetID,
			export.RequesterMessage, pq.Array(export.ApproverEmails), sqlmock.AnyArg(),
			export.Timestamp).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	repo := NewGtmExportRepo(db)
	require.NoError(t, repo.Save(context.Background(), &export))
	assert.Equal(t, int64(42), export.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGtmExportRepoByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	want := testExport()
	want.ID = 42
	activities, err := json.Marshal(want.Activities)
	require.NoError(t, err)
	action, err := json.Marshal(gtmrequest.RequestAction{
		Action:     gtmrequest.ActionApproved,
		Authorizer: "approver@example.com",
		Timestamp:  want.Timestamp,
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM gtm_exports").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "container_public_id", "requester_email", "spreadsheet_id",
			"requester_message", "approver_emails", "activities", "action",
			"tag_results", "created_at",
		}).AddRow(
			want.ID, want.ContainerPublicID, want.RequesterEmail, want.SpreadsheetID,
			want.RequesterMessage, `{approver@example.com}`, activities, action,
			nil, want.Timestamp,
		))

	repo := NewGtmExportRepo(db)
	got, err := repo.ByID(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, want.ContainerPublicID, got.ContainerPublicID)
	assert.Equal(t, []string{"approver@example.com"}, got.ApproverEmails)
	require.Len(t, got.Activities, 1)
	assert.Equal(t, "Purchase", got.Activities[0].Name)
	require.NotNil(t, got.Action)
	assert.Equal(t, gtmrequest.ActionApproved, got.Action.Action)
	assert.Nil(t, got.TagResults)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGtmExportRepoByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM gtm_exports").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewGtmExportRepo(db)
	_, err = repo.ByID(context.Background(), 404)
	assert.ErrorIs(t, err, gtmrequest.ErrNotFound)
}

func TestGtmExportRepoUpdate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	export := testExport()
	export.ID = 42
	export.Action = &gtmrequest.RequestAction{
		Action:     gtmrequest.ActionRejected,
		Authorizer: "approver@example.com",
		Timestamp:  export.Timestamp,
	}

	mock.ExpectExec("UPDATE gtm_exports").
		WithArgs(export.ID, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewGtmExportRepo(db)
	require.NoError(t, repo.Update(context.Background(), export))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGtmExportRepoUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	export := testExport()
	export.ID = 404

	mock.ExpectExec("UPDATE gtm_exports").
		WithArgs(export.ID, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewGtmExportRepo(db)
	assert.ErrorIs(t, repo.Update(context.Background(), export), gtmrequest.ErrNotFound)
}
