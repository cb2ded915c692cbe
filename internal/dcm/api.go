package dcm

import "context"

// API is the platform surface the reader and writer consume. The concrete
// implementation is Client; tests substitute a fake.
//
// List calls paginate with an opaque page token; an empty returned token
// means the last page. Any call may fail with a transport or API error,
// which aborts the surrounding bulk read but is isolated per item on the
// write path.
type API interface {
	ListActivities(ctx context.Context, profileID, configID int64, pageToken string) ([]FloodlightActivity, string, error)
	ListGroups(ctx context.Context, profileID, configID int64, pageToken string) ([]FloodlightActivityGroup, string, error)
	InsertActivity(ctx context.Context, profileID int64, activity FloodlightActivity) (FloodlightActivity, error)
	PatchActivity(ctx context.Context, profileID, activityID int64, activity FloodlightActivity) (FloodlightActivity, error)
	InsertGroup(ctx context.Context, profileID int64, group FloodlightActivityGroup) (FloodlightActivityGroup, error)
	CreateAudienceList(ctx context.Context, profileID int64, list RemarketingList) (RemarketingList, error)
	GetCustomVariables(ctx context.Context, profileID, configID int64) ([]UserDefinedVariableConfiguration, error)
}
