// Package syncer orchestrates full reconciliation passes between the
// spreadsheet and the ad platform, and the capture step of tag-manager
// approval requests. Every pass ends by writing the resulting bundle back
// to the sheet, so the sheet always shows the last known platform state.
package syncer

import (
	"context"
	"fmt"

	"github.com/ignite/floody/internal/dcm"
	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/pkg/logger"
	"github.com/ignite/floody/internal/service/gtmrequest"
	"github.com/ignite/floody/internal/sheets"
)

// Manager runs syncs for one ad-platform profile. Spreadsheets carry their
// own floodlight configuration id in metadata, so one manager serves any
// number of sheets.
type Manager struct {
	profileID           int64
	platform            dcm.API
	spreadsheets        sheets.API
	requests            *gtmrequest.Service
	defaultLifespanDays int
}

// NewManager creates a sync manager.
func NewManager(platform dcm.API, spreadsheets sheets.API, requests *gtmrequest.Service, profileID int64, defaultLifespanDays int) *Manager {
	return &Manager{
		profileID:           profileID,
		platform:            platform,
		spreadsheets:        spreadsheets,
		requests:            requests,
		defaultLifespanDays: defaultLifespanDays,
	}
}

// Result summarizes one completed pass.
type Result struct {
	SpreadsheetID string `json:"spreadsheetId"`
	ConfigID      int64  `json:"floodlightConfigurationId"`
	Activities    int    `json:"activities"`
	Groups        int    `json:"groups"`
}

// Import refreshes the spreadsheet from the platform: every section is
// overwritten with the platform's current state.
func (m *Manager) Import(ctx context.Context, spreadsheetID string) (Result, error) {
	reader := sheets.NewReader(m.spreadsheets, spreadsheetID, m.defaultLifespanDays)
	configID, err := reader.ConfigID(ctx)
	if err != nil {
		return Result{}, err
	}

	bundle, err := dcm.NewReader(m.platform, m.profileID, configID).Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load platform state: %w", err)
	}

	if err := sheets.NewWriter(m.spreadsheets, spreadsheetID).Write(ctx, bundle); err != nil {
		return Result{}, fmt.Errorf("write spreadsheet: %w", err)
	}

	logger.Info("imported platform state into sheet",
		"spreadsheet_id", spreadsheetID, "config_id", configID,
		"activities", len(bundle.Activities))
	return m.result(spreadsheetID, configID, bundle), nil
}

// Export pushes flagged sheet rows to the platform and writes the outcome
// back: authoritative ids and timestamps on successful rows, failure
// remarks on the rest.
func (m *Manager) Export(ctx context.Context, spreadsheetID string) (Result, error) {
	bundle, configID, err := sheets.NewReader(m.spreadsheets, spreadsheetID, m.defaultLifespanDays).Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load spreadsheet: %w", err)
	}

	synced, err := dcm.NewWriter(m.platform, m.profileID, configID).Sync(ctx, bundle)
	if err != nil {
		return Result{}, fmt.Errorf("sync to platform: %w", err)
	}

	if err := sheets.NewWriter(m.spreadsheets, spreadsheetID).Write(ctx, synced); err != nil {
		return Result{}, fmt.Errorf("write spreadsheet: %w", err)
	}

	logger.Info("exported sheet to platform",
		"spreadsheet_id", spreadsheetID, "config_id", configID,
		"activities", len(synced.Activities))
	return m.result(spreadsheetID, configID, synced), nil
}

// CreateGtmRequest captures the sheet's flagged rows into an approval
// request and clears their flags on the sheet.
func (m *Manager) CreateGtmRequest(ctx context.Context, spreadsheetID string, input gtmrequest.CreateInput, requesterEmail string) (int64, error) {
	bundle, _, err := sheets.NewReader(m.spreadsheets, spreadsheetID, m.defaultLifespanDays).Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load spreadsheet: %w", err)
	}

	input.SpreadsheetID = spreadsheetID
	updated, id, err := m.requests.Create(ctx, bundle, input, requesterEmail)
	if err != nil {
		return 0, err
	}

	if err := sheets.NewWriter(m.spreadsheets, spreadsheetID).Write(ctx, updated); err != nil {
		return 0, fmt.Errorf("write spreadsheet: %w", err)
	}
	return id, nil
}

func (m *Manager) result(spreadsheetID string, configID int64, bundle floody.Bundle) Result {
	return Result{
		SpreadsheetID: spreadsheetID,
		ConfigID:      configID,
		Activities:    len(bundle.Activities),
		Groups:        len(bundle.Groups.Values()),
	}
}
