package floody

// Activity is one floodlight activity as depicted in a spreadsheet row.
// A zero ID means the activity does not exist on the platform yet and will
// be created on the next write. ToBeUpdated gates whether a writer considers
// the row at all.
type Activity struct {
	ID       int64
	AccountID int64
	ConfigID int64

	ToBeUpdated bool

	GroupName      string
	GroupTagString string
	TagString      string

	Name           string
	CountingMethod CountingMethod
	ExpectedURL    string
	CacheBusting   CacheBustingType
	TagFormat      TagFormat
	TagType        TagType
	Status         ActivityStatus

	AutoCreateAudience   bool
	AudienceLifespanDays int

	CustomVariables []string
	DefaultTagIDs   []int64
	PublisherTagIDs []int64

	Remarks string
}

// WithConfigID returns a copy bound to the given floodlight configuration.
func (a Activity) WithConfigID(configID int64) Activity {
	a.ConfigID = configID
	return a
}

// Group is a floodlight activity group. A zero ID means the group has not
// been created on the platform; CreationRemarks carries the reason when a
// creation attempt was skipped or failed.
type Group struct {
	ID              int64
	Name            string
	TagString       string
	Type            GroupType
	ConfigID        int64
	CreationRemarks string
}

// GroupForActivity derives the group a sheet row declares, used when the
// group does not exist on the platform yet.
func GroupForActivity(a Activity) (Group, error) {
	groupType, err := GroupTypeFor(a.CountingMethod)
	if err != nil {
		return Group{}, err
	}
	return Group{
		Name:      a.GroupName,
		TagString: a.GroupTagString,
		Type:      groupType,
		ConfigID:  a.ConfigID,
	}, nil
}
