package gtmrequest

import "errors"

// Sentinel errors for the approval workflow.
var (
	ErrNotFound        = errors.New("gtm request not found")
	ErrUnauthorized    = errors.New("user not authorized for this request")
	ErrAlreadyActioned = errors.New("gtm request already actioned")
	ErrNoActivities    = errors.New("gtm request has no activities")
)
