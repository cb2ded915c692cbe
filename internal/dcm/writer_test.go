package dcm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/floody/internal/floody"
)

// fakeAPI is an in-memory platform double. Errors can be injected per
// operation keyed by activity/group name.
type fakeAPI struct {
	activities []FloodlightActivity
	groups     []FloodlightActivityGroup
	variables  []UserDefinedVariableConfiguration

	nextID        int64
	insertErrFor  map[string]error
	listGroupsErr error
	pageSize      int

	audienceLists []RemarketingList
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1000, insertErrFor: map[string]error{}}
}

func (f *fakeAPI) assignID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) page(start int, total int) (int, string) {
	if f.pageSize <= 0 || start+f.pageSize >= total {
		return total, ""
	}
	end := start + f.pageSize
	return end, fmt.Sprintf("%d", end)
}

func (f *fakeAPI) ListActivities(ctx context.Context, profileID, configID int64, pageToken string) ([]FloodlightActivity, string, error) {
	start := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "%d", &start)
	}
	end, next := f.page(start, len(f.activities))
	return f.activities[start:end], next, nil
}

func (f *fakeAPI) ListGroups(ctx context.Context, profileID, configID int64, pageToken string) ([]FloodlightActivityGroup, string, error) {
	if f.listGroupsErr != nil {
		return nil, "", f.listGroupsErr
	}
	start := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "%d", &start)
	}
	end, next := f.page(start, len(f.groups))
	return f.groups[start:end], next, nil
}

func (f *fakeAPI) InsertActivity(ctx context.Context, profileID int64, activity FloodlightActivity) (FloodlightActivity, error) {
	if err := f.insertErrFor[activity.Name]; err != nil {
		return FloodlightActivity{}, err
	}
	activity.ID = f.assignID()
	activity.AccountID = 11
	for _, g := range f.groups {
		if g.ID == activity.FloodlightActivityGroupID {
			activity.FloodlightActivityGroupName = g.Name
			activity.FloodlightActivityGroupTagString = g.TagString
		}
	}
	f.activities = append(f.activities, activity)
	return activity, nil
}

func (f *fakeAPI) PatchActivity(ctx context.Context, profileID, activityID int64, activity FloodlightActivity) (FloodlightActivity, error) {
	if err := f.insertErrFor[activity.Name]; err != nil {
		return FloodlightActivity{}, err
	}
	activity.ID = activityID
	activity.AccountID = 11
	return activity, nil
}

func (f *fakeAPI) InsertGroup(ctx context.Context, profileID int64, group FloodlightActivityGroup) (FloodlightActivityGroup, error) {
	if err := f.insertErrFor[group.Name]; err != nil {
		return FloodlightActivityGroup{}, err
	}
	group.ID = f.assignID()
	if group.TagString == "" {
		group.TagString = fmt.Sprintf("auto%d", group.ID)
	}
	f.groups = append(f.groups, group)
	return group, nil
}

func (f *fakeAPI) CreateAudienceList(ctx context.Context, profileID int64, list RemarketingList) (RemarketingList, error) {
	list.ID = f.assignID()
	f.audienceLists = append(f.audienceLists, list)
	return list, nil
}

func (f *fakeAPI) GetCustomVariables(ctx context.Context, profileID, configID int64) ([]UserDefinedVariableConfiguration, error) {
	return f.variables, nil
}

func newSheetActivity(name string) floody.Activity {
	return floody.Activity{
		Name:           name,
		ToBeUpdated:    true,
		ConfigID:       500,
		GroupName:      "Checkout",
		CountingMethod: floody.CounterStandard,
		ExpectedURL:    "https://shop.example.com/thanks",
		TagFormat:      floody.TagFormatHTML,
		TagType:        floody.TagTypeGlobalSiteTag,
		Status:         floody.StatusActive,
	}
}

func TestSyncCreatesMissingGroupAndActivity(t *testing.T) {
	api := newFakeAPI()
	w := NewWriter(api, 77, 500)
	w.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	bundle := floody.Bundle{Activities: []floody.Activity{newSheetActivity("Purchase")}}

	out, err := w.Sync(context.Background(), bundle)
	require.NoError(t, err)
	require.Len(t, out.Activities, 1)

	got := out.Activities[0]
	assert.False(t, got.ToBeUpdated)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Checkout", got.GroupName)
	assert.Contains(t, got.Remarks, "updated by Floody on 2026-03-01")

	// The group was created as a COUNTER group before the activity write.
	require.Len(t, api.groups, 1)
	assert.Equal(t, "Checkout", api.groups[0].Name)
	assert.Equal(t, "COUNTER", api.groups[0].Type)
}

func TestSyncWriteIsolation(t *testing.T) {
	api := newFakeAPI()
	api.groups = []FloodlightActivityGroup{
		{ID: 9, Name: "Checkout", TagString: "chkout", Type: "COUNTER", FloodlightConfigurationID: 500},
	}
	w := NewWriter(api, 77, 500)

	good1 := newSheetActivity("First")
	bad := newSheetActivity("Broken")
	bad.TagString = "definitely too long" // fails validation
	good2 := newSheetActivity("Second")

	out, err := w.Sync(context.Background(), floody.Bundle{
		Activities: []floody.Activity{good1, bad, good2},
	})
	require.NoError(t, err)
	require.Len(t, out.Activities, 3)

	assert.False(t, out.Activities[0].ToBeUpdated)
	assert.NotZero(t, out.Activities[0].ID)

	assert.True(t, out.Activities[1].ToBeUpdated, "failed row keeps its update flag")
	assert.Zero(t, out.Activities[1].ID)
	assert.Contains(t, out.Activities[1].Remarks, "activityTagString")

	assert.False(t, out.Activities[2].ToBeUpdated)
	assert.NotZero(t, out.Activities[2].ID)
}

func TestSyncReturnsRemarksOnReturnedRows(t *testing.T) {
	api := newFakeAPI()
	api.groups = []FloodlightActivityGroup{
		{ID: 9, Name: "Checkout", TagString: "chkout", Type: "COUNTER", FloodlightConfigurationID: 500},
	}
	w := NewWriter(api, 77, 500)

	invalid := newSheetActivity("Broken")
	invalid.TagString = "this tag string is far too long"
	untouched := newSheetActivity("Done")
	untouched.ToBeUpdated = false
	untouched.Remarks = "updated by Floody on 2026-01-01T00:00:00Z"

	out, err := w.Sync(context.Background(), floody.Bundle{
		Activities: []floody.Activity{invalid, untouched},
	})
	require.NoError(t, err)

	// The remarks must be on the rows the caller gets back, not on an
	// internal copy.
	assert.Contains(t, out.Activities[0].Remarks, "activityTagString")
	assert.Equal(t, "updated by Floody on 2026-01-01T00:00:00Z", out.Activities[1].Remarks,
		"a row that is not flagged keeps its remarks untouched")
}

func TestSyncPerActivityIOErrorContinues(t *testing.T) {
	api := newFakeAPI()
	api.groups = []FloodlightActivityGroup{
		{ID: 9, Name: "Checkout", TagString: "chkout", Type: "COUNTER", FloodlightConfigurationID: 500},
	}
	api.insertErrFor["Flaky"] = errors.New("backend unavailable")
	w := NewWriter(api, 77, 500)

	out, err := w.Sync(context.Background(), floody.Bundle{
		Activities: []floody.Activity{newSheetActivity("Flaky"), newSheetActivity("Solid")},
	})
	require.NoError(t, err)

	assert.True(t, out.Activities[0].ToBeUpdated)
	assert.Contains(t, out.Activities[0].Remarks, "backend unavailable")
	assert.False(t, out.Activities[1].ToBeUpdated)
}

func TestSyncGroupListFailureIsFatal(t *testing.T) {
	api := newFakeAPI()
	api.listGroupsErr = errors.New("quota exceeded")
	w := NewWriter(api, 77, 500)

	_, err := w.Sync(context.Background(), floody.Bundle{
		Activities: []floody.Activity{newSheetActivity("Any")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSyncInvalidGroupTagStringSkipsGroupOnly(t *testing.T) {
	api := newFakeAPI()
	w := NewWriter(api, 77, 500)

	a := newSheetActivity("Purchase")
	a.GroupName = "Bad Group"
	a.GroupTagString = "not a valid tag string"

	out, err := w.Sync(context.Background(), floody.Bundle{Activities: []floody.Activity{a}})
	require.NoError(t, err)

	// No group insert happened and the row failed validation with the
	// group's creation remark.
	assert.Empty(t, api.groups)
	got := out.Activities[0]
	assert.True(t, got.ToBeUpdated)
	assert.Contains(t, got.Remarks, "groupTagString")
}

func TestSyncAutoCreateAudience(t *testing.T) {
	api := newFakeAPI()
	api.groups = []FloodlightActivityGroup{
		{ID: 9, Name: "Checkout", TagString: "chkout", Type: "COUNTER", FloodlightConfigurationID: 500},
	}
	w := NewWriter(api, 77, 500)

	a := newSheetActivity("Purchase")
	a.AutoCreateAudience = true
	a.AudienceLifespanDays = 90

	out, err := w.Sync(context.Background(), floody.Bundle{Activities: []floody.Activity{a}})
	require.NoError(t, err)

	require.Len(t, api.audienceLists, 1)
	assert.Equal(t, int64(90), api.audienceLists[0].LifeSpan)
	assert.Contains(t, out.Activities[0].Remarks, "Audience List created")
}

func TestGroupNameOrFallback(t *testing.T) {
	assert.Equal(t, "Checkout", groupNameOrFallback(floody.Group{Name: "Checkout"}))

	// The synthesized name is random; only the prefix is stable.
	assert.True(t, strings.HasPrefix(groupNameOrFallback(floody.Group{}), "FloodyGroup-"))
}
