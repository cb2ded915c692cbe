package gtmrequest

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/floody/internal/floody"
	"github.com/ignite/floody/internal/gtm"
	"github.com/ignite/floody/internal/pkg/logger"
)

// CreateInput carries the request parameters supplied by the requester.
type CreateInput struct {
	ContainerPublicID string
	SpreadsheetID     string
	RequesterMessage  string
	ApproverEmails    []string
}

// Service implements the approval workflow on top of a Store and the tag
// manager API.
type Service struct {
	store      Store
	tagManager gtm.API
	now        func() time.Time
}

// NewService creates the workflow service.
func NewService(store Store, tagManager gtm.API) *Service {
	return &Service{store: store, tagManager: tagManager, now: time.Now}
}

// Create captures every flagged activity of the bundle into a stored
// request and returns the bundle with those flags cleared. The activities
// are flattened so the request stays readable even after the spreadsheet
// changes.
func (s *Service) Create(ctx context.Context, bundle floody.Bundle, input CreateInput, requesterEmail string) (floody.Bundle, int64, error) {
	var captured []gtm.FloodlightActivity
	updated := make([]floody.Activity, 0, len(bundle.Activities))
	for _, a := range bundle.Activities {
		if a.ToBeUpdated {
			captured = append(captured, flatten(a))
			a.ToBeUpdated = false
		}
		updated = append(updated, a)
	}
	if len(captured) == 0 {
		return floody.Bundle{}, 0, ErrNoActivities
	}

	export := Export{
		ContainerPublicID: input.ContainerPublicID,
		RequesterEmail:    requesterEmail,
		SpreadsheetID:     input.SpreadsheetID,
		RequesterMessage:  input.RequesterMessage,
		ApproverEmails:    input.ApproverEmails,
		Activities:        captured,
		Timestamp:         s.now().UTC(),
	}
	if err := s.store.Save(ctx, &export); err != nil {
		return floody.Bundle{}, 0, fmt.Errorf("save gtm request: %w", err)
	}

	logger.Info("created gtm request",
		"request_id", export.ID, "spreadsheet_id", input.SpreadsheetID,
		"container", input.ContainerPublicID, "activities", len(captured))
	return bundle.WithActivities(updated), export.ID, nil
}

// Get returns a stored request after the same authorization check as
// approve and reject.
func (s *Service) Get(ctx context.Context, id int64, email string) (Export, error) {
	return s.loadAuthorized(ctx, id, email)
}

// Approve pushes the request's activities into the tag-manager container
// and stores the per-tag outcomes together with the approval. A container
// miss or store failure leaves the request pending.
func (s *Service) Approve(ctx context.Context, id int64, email, comment string) ([]gtm.TagOperationResult, error) {
	export, err := s.loadActionable(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if len(export.Activities) == 0 {
		return nil, ErrNoActivities
	}

	container, err := s.tagManager.FindContainer(ctx, export.ContainerPublicID)
	if err != nil {
		return nil, fmt.Errorf("find container %s: %w", export.ContainerPublicID, err)
	}

	tags := make([]gtm.Tag, 0, len(export.Activities))
	for _, activity := range export.Activities {
		tags = append(tags, gtm.BuildTag(activity, export.ID))
	}

	results := s.tagManager.BatchCreateTags(ctx, container, tags)
	for i := range results {
		if i < len(export.Activities) {
			results[i].ActivityName = export.Activities[i].Name
		}
	}

	export.TagResults = results
	export.Action = &RequestAction{
		Action:     ActionApproved,
		Authorizer: email,
		Timestamp:  s.now().UTC(),
		Comment:    comment,
	}
	if err := s.store.Update(ctx, export); err != nil {
		return nil, fmt.Errorf("store approval: %w", err)
	}

	logger.Info("approved gtm request", "request_id", id, "authorizer", email, "tags", len(results))
	return results, nil
}

// Reject records the rejection without touching the tag manager.
func (s *Service) Reject(ctx context.Context, id int64, email, comment string) error {
	export, err := s.loadActionable(ctx, id, email)
	if err != nil {
		return err
	}

	export.Action = &RequestAction{
		Action:     ActionRejected,
		Authorizer: email,
		Timestamp:  s.now().UTC(),
		Comment:    comment,
	}
	if err := s.store.Update(ctx, export); err != nil {
		return fmt.Errorf("store rejection: %w", err)
	}

	logger.Info("rejected gtm request", "request_id", id, "authorizer", email)
	return nil
}

func (s *Service) loadAuthorized(ctx context.Context, id int64, email string) (Export, error) {
	export, err := s.store.ByID(ctx, id)
	if err != nil {
		return Export{}, err
	}
	if !export.AuthorizedFor(email) {
		return Export{}, ErrUnauthorized
	}
	return export, nil
}

func (s *Service) loadActionable(ctx context.Context, id int64, email string) (Export, error) {
	export, err := s.loadAuthorized(ctx, id, email)
	if err != nil {
		return Export{}, err
	}
	if export.Actioned() {
		return Export{}, fmt.Errorf("%w: %s", ErrAlreadyActioned, export.Action.Action)
	}
	return export, nil
}

// flatten captures the tag-manager relevant fields of a sheet activity.
func flatten(a floody.Activity) gtm.FloodlightActivity {
	return gtm.FloodlightActivity{
		Name:            a.Name,
		AdvertiserID:    a.ConfigID,
		GroupTagString:  a.GroupTagString,
		TagString:       a.TagString,
		CountingMethod:  a.CountingMethod,
		CustomVariables: a.CustomVariables,
	}
}
