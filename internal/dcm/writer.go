package dcm

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/pkg/logger"
)

// Writer pushes a bundle's pending changes to the platform: missing groups
// first, then every activity flagged to be updated. Group-list fetches are
// fatal; each activity write is an isolated failure recorded in that row's
// remarks.
type Writer struct {
	api       API
	profileID int64
	configID  int64
	now       func() time.Time
}

// NewWriter creates a writer bound to one profile and configuration.
func NewWriter(api API, profileID, configID int64) *Writer {
	return &Writer{api: api, profileID: profileID, configID: configID, now: time.Now}
}

// Sync writes the bundle to the platform and returns the complete bundle
// with authoritative ids, cleared update flags and per-row remarks.
func (w *Writer) Sync(ctx context.Context, bundle floody.Bundle) (floody.Bundle, error) {
	existing, err := NewReader(w.api, w.profileID, w.configID).ListAllGroups(ctx)
	if err != nil {
		return floody.Bundle{}, fmt.Errorf("fetch existing groups: %w", err)
	}

	created := w.createGroups(ctx, missingGroups(existing, bundle.Activities))
	allGroups := floody.NewGroupMap(append(existing, created...))
	bundle = bundle.WithGroups(allGroups)

	validator := floody.NewValidator(bundle.DefaultTagsByID(), bundle.PublisherTagsByID(), allGroups)

	updated := make([]floody.Activity, 0, len(bundle.Activities))
	for _, a := range bundle.Activities {
		updated = append(updated, w.writeActivity(ctx, a, bundle, validator))
	}
	return bundle.WithActivities(updated), nil
}

// writeActivity validates and writes one flagged activity. Failures are
// appended to the row's remarks and never abort the batch.
func (w *Writer) writeActivity(ctx context.Context, a floody.Activity, bundle floody.Bundle, validator *floody.Validator) (out floody.Activity) {
	if !a.ToBeUpdated {
		return a
	}

	// The result is named so the deferred assignment lands on the value the
	// caller receives, not on the local copy.
	var remarks floody.Remarks
	defer func() { out.Remarks = remarks.String() }()

	if !validator.IsValid(a, &remarks) {
		return a
	}

	group, err := bundle.Groups.ResolveFor(a)
	if err != nil || group == nil {
		// Unreachable after validation, kept as a guard.
		remarks.Add("group resolution failed after validation")
		return a
	}

	payload, err := floodyToActivity(a, *group, bundle.DefaultTagsByID(), bundle.PublisherTagsByID())
	if err != nil {
		remarks.Add(err.Error())
		return a
	}

	var written FloodlightActivity
	if a.ID == 0 {
		written, err = w.api.InsertActivity(ctx, w.profileID, payload)
	} else {
		written, err = w.api.PatchActivity(ctx, w.profileID, a.ID, payload)
	}
	if err != nil {
		logger.Error("error writing activity",
			"config_id", a.ConfigID, "tag_string", a.TagString, "group_tag", a.GroupTagString, "error", err)
		remarks.Addf("Activity Writing had an error: %s", err)
		return a
	}

	// Mirror the platform's authoritative fields back onto the row.
	a.ID = written.ID
	a.AccountID = written.AccountID
	a.ConfigID = written.FloodlightConfigurationID
	a.GroupName = written.FloodlightActivityGroupName
	a.GroupTagString = written.FloodlightActivityGroupTagString
	a.TagString = written.TagString
	a.ToBeUpdated = false
	remarks.Addf("updated by Floody on %s", w.now().UTC().Format(time.RFC3339))

	if a.AutoCreateAudience {
		w.createAudience(ctx, &a, written, &remarks)
	}
	return a
}

// createAudience creates a remarketing list keyed to the freshly written
// activity. A failure is a per-row remark, not a batch error.
func (w *Writer) createAudience(ctx context.Context, a *floody.Activity, written FloodlightActivity, remarks *floody.Remarks) {
	list, err := w.api.CreateAudienceList(ctx, w.profileID, RemarketingList{
		AccountID:          written.AccountID,
		AdvertiserID:       written.AdvertiserID,
		Active:             true,
		LifeSpan:           int64(a.AudienceLifespanDays),
		ListSource:         "REMARKETING_LIST_SOURCE_DFA",
		Name:               written.Name,
		ListPopulationRule: &ListPopulationRule{FloodlightActivityID: written.ID},
	})
	if err != nil {
		remarks.Addf("Audience List creation failed: %s", err)
		return
	}
	remarks.Addf("Audience List created (%d, membership: %d days)", list.ID, list.LifeSpan)
}
