package sheets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/floody/internal/floody"
)

// fakeAPI keeps sheet ranges and metadata in memory, keyed by the range
// prefix up to the sheet name.
type fakeAPI struct {
	ranges   map[string][][]string
	metadata map[string][]string

	writes  map[string][][]string
	cleared []string
	readErr error
}

func newFakeSheetAPI() *fakeAPI {
	return &fakeAPI{
		ranges:   map[string][][]string{},
		metadata: map[string][]string{},
		writes:   map[string][][]string{},
	}
}

func sheetOf(rangeA1 string) string {
	return strings.SplitN(rangeA1, "!", 2)[0]
}

func (f *fakeAPI) ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.ranges[sheetOf(rangeA1)], nil
}

func (f *fakeAPI) ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error {
	f.cleared = append(f.cleared, rangeA1)
	return nil
}

func (f *fakeAPI) WriteRows(ctx context.Context, spreadsheetID, rangeA1 string, rows [][]string) error {
	f.writes[sheetOf(rangeA1)] = rows
	return nil
}

func (f *fakeAPI) ReadMetadata(ctx context.Context, spreadsheetID, key string) ([]string, error) {
	return f.metadata[key], nil
}

func (f *fakeAPI) WriteMetadata(ctx context.Context, spreadsheetID, key, value string) error {
	f.metadata[key] = append(f.metadata[key], value)
	return nil
}

func TestReaderLoad(t *testing.T) {
	api := newFakeSheetAPI()
	api.metadata[MetadataConfigIDKey] = []string{"500"}
	api.ranges[ActivitySheetName] = [][]string{
		{"11", "500", "1", "", "Purchase", "purch", "Checkout", "chkout", "COUNTER_STANDARD", "https://example.com"},
		{"garbage row"},
		{"11", "500", "bad-id", "", "Broken", "", "Checkout", "", "COUNTER_STANDARD", "https://example.com"},
	}
	api.ranges[DefaultTagSheetName] = [][]string{{"0", "pixel", "<img>"}}
	api.ranges[PublisherTagSheetName] = [][]string{{"0", "42", "BOTH", "<script/>"}}
	api.ranges[CustomVariableSheetName] = [][]string{{"U1", "Order ID", "STRING"}}
	api.ranges[ActivityGroupSheetName] = [][]string{{"chkout", "Checkout", "COUNTER"}}

	bundle, configID, err := NewReader(api, "sheet-1", 540).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(500), configID)
	require.Len(t, bundle.Activities, 1, "bad rows are skipped, not fatal")
	assert.Equal(t, "Purchase", bundle.Activities[0].Name)
	assert.Len(t, bundle.DefaultTags, 1)
	assert.Len(t, bundle.PublisherTags, 1)
	assert.Len(t, bundle.CustomVariables, 1)
	assert.True(t, bundle.Groups.ContainsTagString("chkout"))

	g, err := bundle.Groups.ResolveFor(bundle.Activities[0])
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, int64(500), g.ConfigID)
}

func TestReaderMissingMetadataIsFatal(t *testing.T) {
	api := newFakeSheetAPI()

	_, _, err := NewReader(api, "sheet-1", 540).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), MetadataConfigIDKey)
}

func TestReaderSectionReadFailureIsFatal(t *testing.T) {
	api := newFakeSheetAPI()
	api.metadata[MetadataConfigIDKey] = []string{"500"}
	api.readErr = errors.New("range unavailable")

	_, _, err := NewReader(api, "sheet-1", 540).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range unavailable")
}

func TestWriterWritesAllSections(t *testing.T) {
	api := newFakeSheetAPI()
	w := NewWriter(api, "sheet-1")

	bundle := floody.Bundle{
		Activities: []floody.Activity{{
			Name: "Purchase", GroupName: "Checkout",
			CountingMethod: floody.CounterStandard,
			ExpectedURL:    "https://example.com",
			Status:         floody.StatusActive,
			TagFormat:      floody.TagFormatHTML,
			TagType:        floody.TagTypeGlobalSiteTag,
			Remarks:        "updated by Floody",
		}},
		DefaultTags:     []floody.SheetDefaultTag{{ID: 0, Name: "pixel", Tag: "<img>"}},
		PublisherTags:   []floody.SheetPublisherTag{{ID: 0, SiteID: 42, ConversionType: floody.ConversionBoth, Tag: "<script/>"}},
		CustomVariables: []floody.CustomVariable{{Number: "U1", Name: "Order ID", Type: "STRING"}},
		Groups: floody.NewGroupMap([]floody.Group{
			{TagString: "chkout", Name: "Checkout", Type: floody.GroupTypeCounter},
		}),
	}

	require.NoError(t, w.Write(context.Background(), bundle))

	assert.Len(t, api.cleared, 5)

	activities := api.writes[ActivitySheetName]
	require.Len(t, activities, 2, "header row plus one activity")
	assert.Equal(t, activitySheetHeaders, activities[0])
	assert.Equal(t, "updated by Floody", activities[1][colRemarks])

	groups := api.writes[ActivityGroupSheetName]
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"chkout", "Checkout", "COUNTER"}, groups[1])

	assert.Len(t, api.writes[DefaultTagSheetName], 2)
	assert.Len(t, api.writes[PublisherTagSheetName], 2)
	assert.Len(t, api.writes[CustomVariableSheetName], 2)
}

func TestWriterBindConfigID(t *testing.T) {
	api := newFakeSheetAPI()

	require.NoError(t, NewWriter(api, "sheet-1").BindConfigID(context.Background(), 500))
	assert.Equal(t, []string{"500"}, api.metadata[MetadataConfigIDKey])
}
