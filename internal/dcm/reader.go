package dcm

import (
	"context"
	"fmt"

	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/pkg/logger"
)

// Reader pulls all floodlight activities, groups and custom variables of one
// configuration into a bundle. Any API error aborts the whole read;
// pagination does not retry beyond the transport-level retry policy.
type Reader struct {
	api       API
	profileID int64
	configID  int64
}

// NewReader creates a reader bound to one profile and configuration.
func NewReader(api API, profileID, configID int64) *Reader {
	return &Reader{api: api, profileID: profileID, configID: configID}
}

// Load retrieves every activity page, deduplicates the embedded tag
// snippets into the registry sections and assembles the bundle.
func (r *Reader) Load(ctx context.Context) (floody.Bundle, error) {
	activities, err := r.listAllActivities(ctx)
	if err != nil {
		return floody.Bundle{}, fmt.Errorf("list activities: %w", err)
	}

	groups, err := r.ListAllGroups(ctx)
	if err != nil {
		return floody.Bundle{}, fmt.Errorf("list groups: %w", err)
	}

	variables, err := r.api.GetCustomVariables(ctx, r.profileID, r.configID)
	if err != nil {
		return floody.Bundle{}, fmt.Errorf("get custom variables: %w", err)
	}

	bundle := BuildBundle(activities)
	bundle.Groups = floody.NewGroupMap(groups)
	for _, v := range variables {
		bundle.CustomVariables = append(bundle.CustomVariables, floody.CustomVariable{
			Number: v.VariableType,
			Type:   v.DataType,
			Name:   v.ReportName,
		})
	}
	return bundle, nil
}

// ListAllGroups paginates the group list endpoint into bundle groups. The
// writer reuses this to fetch the authoritative group set before creating
// missing groups.
func (r *Reader) ListAllGroups(ctx context.Context) ([]floody.Group, error) {
	var out []floody.Group
	seen := make(map[int64]bool)
	pageToken := ""
	for {
		page, next, err := r.api.ListGroups(ctx, r.profileID, r.configID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, g := range page {
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			out = append(out, groupFromPlatform(g))
		}
		if next == "" {
			return out, nil
		}
		pageToken = next
	}
}

func (r *Reader) listAllActivities(ctx context.Context) ([]FloodlightActivity, error) {
	var out []FloodlightActivity
	seen := make(map[int64]bool)
	pageToken := ""
	for {
		page, next, err := r.api.ListActivities(ctx, r.profileID, r.configID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, a := range page {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			out = append(out, a)
		}
		if next == "" {
			return out, nil
		}
		pageToken = next
	}
}

// BuildBundle deduplicates the tag snippets embedded in the given
// activities (first-seen order) and converts each activity to its sheet
// form. Activities that fail to convert are logged and dropped, matching
// the row-level tolerance of the sheet reader.
func BuildBundle(activities []FloodlightActivity) floody.Bundle {
	defaultStream, publisherStream := tagStreams(activities)
	defaults := floody.NewDefaultTagRegistry(defaultStream)
	publishers := floody.NewPublisherTagRegistry(publisherStream)

	var sheetActivities []floody.Activity
	for _, a := range activities {
		converted, err := activityToFloody(a, defaults, publishers)
		if err != nil {
			logger.Warn("dropping unconvertible platform activity", "activity_id", a.ID, "error", err)
			continue
		}
		sheetActivities = append(sheetActivities, converted)
	}

	return floody.Bundle{
		Activities:    sheetActivities,
		DefaultTags:   defaults.Entries(),
		PublisherTags: publishers.Entries(),
	}
}
