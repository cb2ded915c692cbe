package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/pkg/logger"
)

// MetadataConfigIDKey is the developer-metadata key that binds a
// spreadsheet to its floodlight configuration.
const MetadataConfigIDKey = "floodlightConfigurationId"

// Reader loads the full bundle from a Floody spreadsheet. Rows that fail
// to decode are logged and skipped; missing configuration metadata is
// fatal.
type Reader struct {
	api                 API
	spreadsheetID       string
	defaultLifespanDays int
	metadataConfigIDKey string
}

// NewReader creates a reader for one spreadsheet. defaultLifespanDays fills
// the audience lifespan of rows that leave the cell blank.
func NewReader(api API, spreadsheetID string, defaultLifespanDays int) *Reader {
	return &Reader{
		api:                 api,
		spreadsheetID:       spreadsheetID,
		defaultLifespanDays: defaultLifespanDays,
		metadataConfigIDKey: MetadataConfigIDKey,
	}
}

// ConfigID reads the floodlight configuration id bound to the spreadsheet.
func (r *Reader) ConfigID(ctx context.Context) (int64, error) {
	values, err := r.api.ReadMetadata(ctx, r.spreadsheetID, r.metadataConfigIDKey)
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("spreadsheet %s has no %s metadata", r.spreadsheetID, r.metadataConfigIDKey)
	}
	configID, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s metadata %q: %w", r.metadataConfigIDKey, values[0], err)
	}
	return configID, nil
}

// Load reads all five sections and the configuration id. Section reads are
// fatal; individual row decode failures are not.
func (r *Reader) Load(ctx context.Context) (floody.Bundle, int64, error) {
	configID, err := r.ConfigID(ctx)
	if err != nil {
		return floody.Bundle{}, 0, err
	}

	activities, err := r.readActivities(ctx)
	if err != nil {
		return floody.Bundle{}, 0, fmt.Errorf("read activities: %w", err)
	}
	defaultTags, err := r.readDefaultTags(ctx)
	if err != nil {
		return floody.Bundle{}, 0, fmt.Errorf("read default tags: %w", err)
	}
	publisherTags, err := r.readPublisherTags(ctx)
	if err != nil {
		return floody.Bundle{}, 0, fmt.Errorf("read publisher tags: %w", err)
	}
	customVariables, err := r.readCustomVariables(ctx)
	if err != nil {
		return floody.Bundle{}, 0, fmt.Errorf("read custom variables: %w", err)
	}
	groups, err := r.readGroups(ctx, configID)
	if err != nil {
		return floody.Bundle{}, 0, fmt.Errorf("read activity groups: %w", err)
	}

	bundle := floody.Bundle{
		Activities:      activities,
		DefaultTags:     defaultTags,
		PublisherTags:   publisherTags,
		CustomVariables: customVariables,
		Groups:          floody.NewGroupMap(groups),
	}
	return bundle, configID, nil
}

func (r *Reader) readActivities(ctx context.Context) ([]floody.Activity, error) {
	rows, err := r.api.ReadRange(ctx, r.spreadsheetID, ActivitySheetName+"!"+ActivityRange)
	if err != nil {
		return nil, err
	}
	var out []floody.Activity
	for i, row := range rows {
		a, err := activityFromRow(row, r.defaultLifespanDays)
		if err != nil {
			logger.Warn("skipping unreadable activity row",
				"spreadsheet_id", r.spreadsheetID, "row", i+2, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *Reader) readDefaultTags(ctx context.Context) ([]floody.SheetDefaultTag, error) {
	rows, err := r.api.ReadRange(ctx, r.spreadsheetID, DefaultTagSheetName+"!"+DefaultTagRange)
	if err != nil {
		return nil, err
	}
	var out []floody.SheetDefaultTag
	for i, row := range rows {
		t, err := defaultTagFromRow(row)
		if err != nil {
			logger.Warn("skipping unreadable default tag row",
				"spreadsheet_id", r.spreadsheetID, "row", i+2, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Reader) readPublisherTags(ctx context.Context) ([]floody.SheetPublisherTag, error) {
	rows, err := r.api.ReadRange(ctx, r.spreadsheetID, PublisherTagSheetName+"!"+PublisherTagRange)
	if err != nil {
		return nil, err
	}
	var out []floody.SheetPublisherTag
	for i, row := range rows {
		t, err := publisherTagFromRow(row)
		if err != nil {
			logger.Warn("skipping unreadable publisher tag row",
				"spreadsheet_id", r.spreadsheetID, "row", i+2, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Reader) readCustomVariables(ctx context.Context) ([]floody.CustomVariable, error) {
	rows, err := r.api.ReadRange(ctx, r.spreadsheetID, CustomVariableSheetName+"!"+CustomVariableRange)
	if err != nil {
		return nil, err
	}
	var out []floody.CustomVariable
	for i, row := range rows {
		v, err := customVariableFromRow(row)
		if err != nil {
			logger.Warn("skipping unreadable custom variable row",
				"spreadsheet_id", r.spreadsheetID, "row", i+2, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Reader) readGroups(ctx context.Context, configID int64) ([]floody.Group, error) {
	rows, err := r.api.ReadRange(ctx, r.spreadsheetID, ActivityGroupSheetName+"!"+ActivityGroupRange)
	if err != nil {
		return nil, err
	}
	var out []floody.Group
	for i, row := range rows {
		g, err := groupFromRow(row, configID)
		if err != nil {
			logger.Warn("skipping unreadable activity group row",
				"spreadsheet_id", r.spreadsheetID, "row", i+2, "error", err)
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
