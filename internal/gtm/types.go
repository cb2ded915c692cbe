package gtm

import "github.com/ignite/floody/internal/floody"

// Container identifies one tag-manager container. PublicID is the
// user-visible "GTM-XXXXXX" id; account and container ids address the API.
type Container struct {
	AccountID   string `json:"accountId"`
	ContainerID string `json:"containerId"`
	PublicID    string `json:"publicId"`
	Name        string `json:"name,omitempty"`
}

// Parameter is one key/value (or nested list/map) parameter of a tag.
type Parameter struct {
	Type  string      `json:"type"`
	Key   string      `json:"key,omitempty"`
	Value string      `json:"value,omitempty"`
	List  []Parameter `json:"list,omitempty"`
	Map   []Parameter `json:"map,omitempty"`
}

// Tag is a tag-manager tag payload.
type Tag struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	LiveOnly   bool        `json:"liveOnly"`
	Parameters []Parameter `json:"parameter,omitempty"`
}

// FloodlightActivity is the flattened form of a sheet activity captured in
// an approval request. It carries everything needed to build the
// tag-manager tag without the spreadsheet.
type FloodlightActivity struct {
	Name            string                `json:"name"`
	AdvertiserID    int64                 `json:"dcmAdvertiserId"`
	GroupTagString  string                `json:"type"`
	TagString       string                `json:"cat"`
	CountingMethod  floody.CountingMethod `json:"countingMethod"`
	CustomVariables []string              `json:"customVariables,omitempty"`
}

// TagOperationResult records the outcome of one tag create within a batch.
type TagOperationResult struct {
	ActivityName string `json:"floodlightActivityName"`
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
}
