package sheets

import (
	"context"
	"fmt"
	"sort"

	"github.com/ignite/floody/internal/floody"
)

// Writer overwrites a Floody spreadsheet with a bundle. Each section is
// cleared and rewritten wholesale (headers included) so repeated writes of
// the same bundle are idempotent.
type Writer struct {
	api           API
	spreadsheetID string
}

// NewWriter creates a writer for one spreadsheet.
func NewWriter(api API, spreadsheetID string) *Writer {
	return &Writer{api: api, spreadsheetID: spreadsheetID}
}

// BindConfigID stores the floodlight configuration id in the spreadsheet's
// developer metadata.
func (w *Writer) BindConfigID(ctx context.Context, configID int64) error {
	if err := w.api.WriteMetadata(ctx, w.spreadsheetID, MetadataConfigIDKey, fmt.Sprintf("%d", configID)); err != nil {
		return fmt.Errorf("write spreadsheet metadata: %w", err)
	}
	return nil
}

// Write replaces all five sections with the bundle's contents.
func (w *Writer) Write(ctx context.Context, bundle floody.Bundle) error {
	activityRows := make([][]string, 0, len(bundle.Activities))
	for _, a := range bundle.Activities {
		activityRows = append(activityRows, activityToRow(a))
	}
	if err := w.writeSection(ctx, ActivitySheetName, ActivityRange, activitySheetHeaders, activityRows); err != nil {
		return fmt.Errorf("write activities: %w", err)
	}

	defaultTagRows := make([][]string, 0, len(bundle.DefaultTags))
	for _, t := range bundle.DefaultTags {
		defaultTagRows = append(defaultTagRows, defaultTagToRow(t))
	}
	if err := w.writeSection(ctx, DefaultTagSheetName, DefaultTagRange, defaultTagSheetHeaders, defaultTagRows); err != nil {
		return fmt.Errorf("write default tags: %w", err)
	}

	publisherTagRows := make([][]string, 0, len(bundle.PublisherTags))
	for _, t := range bundle.PublisherTags {
		publisherTagRows = append(publisherTagRows, publisherTagToRow(t))
	}
	if err := w.writeSection(ctx, PublisherTagSheetName, PublisherTagRange, publisherTagSheetHeaders, publisherTagRows); err != nil {
		return fmt.Errorf("write publisher tags: %w", err)
	}

	variableRows := make([][]string, 0, len(bundle.CustomVariables))
	for _, v := range bundle.CustomVariables {
		variableRows = append(variableRows, customVariableToRow(v))
	}
	if err := w.writeSection(ctx, CustomVariableSheetName, CustomVariableRange, customVariableSheetHeaders, variableRows); err != nil {
		return fmt.Errorf("write custom variables: %w", err)
	}

	groups := bundle.Groups.Values()
	sort.Slice(groups, func(i, j int) bool { return groups[i].TagString < groups[j].TagString })
	groupRows := make([][]string, 0, len(groups))
	for _, g := range groups {
		groupRows = append(groupRows, groupToRow(g))
	}
	if err := w.writeSection(ctx, ActivityGroupSheetName, ActivityGroupRange, activityGroupSheetHeaders, groupRows); err != nil {
		return fmt.Errorf("write activity groups: %w", err)
	}
	return nil
}

func (w *Writer) writeSection(ctx context.Context, sheetName, dataRange string, headers []string, rows [][]string) error {
	if err := w.api.ClearRange(ctx, w.spreadsheetID, sheetName+"!"+dataRange); err != nil {
		return err
	}
	all := make([][]string, 0, len(rows)+1)
	all = append(all, headers)
	all = append(all, rows...)
	return w.api.WriteRows(ctx, w.spreadsheetID, sheetName+"!A1", all)
}
