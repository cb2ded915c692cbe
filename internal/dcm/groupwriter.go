package dcm

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/pkg/logger"
)

// missingGroups finds the groups declared by sheet rows that do not exist on
// the platform yet, deduplicated by (name, tag string).
func missingGroups(existing []floody.Group, activities []floody.Activity) []floody.Group {
	existingMap := floody.NewGroupMap(existing)

	type key struct{ name, tagString string }
	seen := make(map[key]bool)

	var out []floody.Group
	for _, a := range activities {
		if existingMap.ContainsGroupName(a.GroupName) || existingMap.ContainsTagString(a.GroupTagString) {
			continue
		}
		k := key{name: a.GroupName, tagString: a.GroupTagString}
		if seen[k] {
			continue
		}
		seen[k] = true

		group, err := floody.GroupForActivity(a)
		if err != nil {
			logger.Warn("skipping group for activity with unknown counting method", "activity", a.Name, "error", err)
			continue
		}
		out = append(out, group)
	}
	return out
}

// createGroups inserts each missing group. An invalid tag string or a
// failed insert is not fatal to the batch: the group comes back without a
// platform id and with the reason in CreationRemarks, so dependent
// activities fail validation instead of silently succeeding.
func (w *Writer) createGroups(ctx context.Context, groups []floody.Group) []floody.Group {
	out := make([]floody.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, w.createGroup(ctx, g))
	}
	return out
}

func (w *Writer) createGroup(ctx context.Context, group floody.Group) floody.Group {
	// A blank tag string is allowed, the platform assigns one on insert.
	if !floody.ValidTagString(group.TagString) {
		group.CreationRemarks = fmt.Sprintf(
			"groupTagString (type=) [%s] should be empty or contain max of 8 characters between A-Z,a-z,0-9,- and _",
			group.TagString)
		return group
	}

	created, err := w.api.InsertGroup(ctx, w.profileID, FloodlightActivityGroup{
		FloodlightConfigurationID: w.configID,
		Name:                      groupNameOrFallback(group),
		TagString:                 group.TagString,
		Type:                      string(group.Type),
	})
	if err != nil {
		logger.Error("error creating activity group", "tag_string", group.TagString, "error", err)
		group.CreationRemarks = err.Error()
		return group
	}

	group.ID = created.ID
	group.Name = created.Name
	group.TagString = created.TagString
	return group
}

// groupNameOrFallback synthesizes a unique name for unnamed groups so the
// platform does not reject the insert on a name collision.
func groupNameOrFallback(group floody.Group) string {
	if group.Name != "" {
		return group.Name
	}
	return fmt.Sprintf("FloodyGroup-%d", rand.Int63())
}
