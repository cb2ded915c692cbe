package dcm

// Wire types for the Campaign Manager 360 REST API. Only the fields this
// service reads or writes are modeled; int64 ids travel as JSON strings per
// the API's int64 format.

// DynamicTag is a named tag snippet embedded in an activity.
type DynamicTag struct {
	Name string `json:"name,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

// PublisherDynamicTag is a site-scoped tag snippet with click/view-through
// attribution flags.
type PublisherDynamicTag struct {
	SiteID       int64      `json:"siteId,string,omitempty"`
	ClickThrough bool       `json:"clickThrough,omitempty"`
	ViewThrough  bool       `json:"viewThrough,omitempty"`
	DynamicTag   DynamicTag `json:"dynamicTag,omitempty"`
}

// FloodlightActivity is one conversion-tracking activity configuration.
type FloodlightActivity struct {
	ID                               int64                 `json:"id,string,omitempty"`
	AccountID                        int64                 `json:"accountId,string,omitempty"`
	AdvertiserID                     int64                 `json:"advertiserId,string,omitempty"`
	FloodlightConfigurationID        int64                 `json:"floodlightConfigurationId,string,omitempty"`
	FloodlightActivityGroupID        int64                 `json:"floodlightActivityGroupId,string,omitempty"`
	FloodlightActivityGroupName      string                `json:"floodlightActivityGroupName,omitempty"`
	FloodlightActivityGroupTagString string                `json:"floodlightActivityGroupTagString,omitempty"`
	TagString                        string                `json:"tagString,omitempty"`
	Name                             string                `json:"name,omitempty"`
	CountingMethod                   string                `json:"countingMethod,omitempty"`
	ExpectedURL                      string                `json:"expectedUrl,omitempty"`
	CacheBustingType                 string                `json:"cacheBustingType,omitempty"`
	TagFormat                        string                `json:"tagFormat,omitempty"`
	FloodlightTagType                string                `json:"floodlightTagType,omitempty"`
	Status                           string                `json:"status,omitempty"`
	UserDefinedVariableTypes         []string              `json:"userDefinedVariableTypes,omitempty"`
	DefaultTags                      []DynamicTag          `json:"defaultTags,omitempty"`
	PublisherTags                    []PublisherDynamicTag `json:"publisherTags,omitempty"`
}

// FloodlightActivityGroup is an activity group on the platform.
type FloodlightActivityGroup struct {
	ID                        int64  `json:"id,string,omitempty"`
	Name                      string `json:"name,omitempty"`
	TagString                 string `json:"tagString,omitempty"`
	Type                      string `json:"type,omitempty"`
	FloodlightConfigurationID int64  `json:"floodlightConfigurationId,string,omitempty"`
}

// UserDefinedVariableConfiguration is a custom floodlight variable
// definition of a configuration.
type UserDefinedVariableConfiguration struct {
	VariableType string `json:"variableType,omitempty"`
	DataType     string `json:"dataType,omitempty"`
	ReportName   string `json:"reportName,omitempty"`
}

// ListPopulationRule ties a remarketing list to the activity that feeds it.
type ListPopulationRule struct {
	FloodlightActivityID int64 `json:"floodlightActivityId,string,omitempty"`
}

// RemarketingList is an audience list keyed to an activity.
type RemarketingList struct {
	ID                 int64               `json:"id,string,omitempty"`
	AccountID          int64               `json:"accountId,string,omitempty"`
	AdvertiserID       int64               `json:"advertiserId,string,omitempty"`
	Active             bool                `json:"active,omitempty"`
	LifeSpan           int64               `json:"lifeSpan,omitempty"`
	ListSource         string              `json:"listSource,omitempty"`
	Name               string              `json:"name,omitempty"`
	ListPopulationRule *ListPopulationRule `json:"listPopulationRule,omitempty"`
}

type activitiesListResponse struct {
	FloodlightActivities []FloodlightActivity `json:"floodlightActivities"`
	NextPageToken        string               `json:"nextPageToken"`
}

type groupsListResponse struct {
	FloodlightActivityGroups []FloodlightActivityGroup `json:"floodlightActivityGroups"`
	NextPageToken            string                    `json:"nextPageToken"`
}

type floodlightConfiguration struct {
	UserDefinedVariableConfigurations []UserDefinedVariableConfiguration `json:"userDefinedVariableConfigurations"`
}
