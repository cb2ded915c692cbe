package gtmrequest

import (
	"time"

	"github.com/ignite/floody/internal/gtm"
)

// ActionType is the terminal disposition of a request.
type ActionType string

const (
	ActionApproved ActionType = "APPROVED"
	ActionRejected ActionType = "REJECTED"
)

// RequestAction records who actioned a request, how and when. It is set at
// most once over the life of a request.
type RequestAction struct {
	Action     ActionType `json:"action"`
	Authorizer string     `json:"authorizer"`
	Timestamp  time.Time  `json:"timestamp"`
	Comment    string     `json:"comment,omitempty"`
}

// Export is one stored approval request: the container it targets, the
// people allowed to act on it and the flattened activities captured at
// request time.
type Export struct {
	ID                int64                    `json:"id"`
	ContainerPublicID string                   `json:"gtmContainerId"`
	RequesterEmail    string                   `json:"requesterEmail"`
	SpreadsheetID     string                   `json:"spreadsheetId"`
	RequesterMessage  string                   `json:"requesterMessage,omitempty"`
	ApproverEmails    []string                 `json:"approverEmails"`
	Activities        []gtm.FloodlightActivity `json:"floodlightActivities"`
	Timestamp         time.Time                `json:"timestamp"`
	Action            *RequestAction           `json:"actionInformation,omitempty"`
	TagResults        []gtm.TagOperationResult `json:"tagOperationResults,omitempty"`
}

// AuthorizedFor reports whether the email may view or action the request.
func (e Export) AuthorizedFor(email string) bool {
	if email == e.RequesterEmail {
		return true
	}
	for _, approver := range e.ApproverEmails {
		if approver == email {
			return true
		}
	}
	return false
}

// Actioned reports whether the request has already been approved or
// rejected.
func (e Export) Actioned() bool {
	return e.Action != nil
}
