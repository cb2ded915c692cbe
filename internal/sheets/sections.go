package sheets

// Section layouts of a Floody spreadsheet. Ranges skip the header row;
// every writer rewrites a section wholesale so the ranges double as clear
// targets.

const (
	ActivitySheetName = "Activities"
	ActivityRange     = "A2:S"

	DefaultTagSheetName = "Default Tags"
	DefaultTagRange     = "A2:C"

	PublisherTagSheetName = "Publisher Tags"
	PublisherTagRange     = "A2:D"

	CustomVariableSheetName = "Custom Variables"
	CustomVariableRange     = "A2:C"

	ActivityGroupSheetName = "Activity Groups"
	ActivityGroupRange     = "A2:C"
)

// Activities sheet columns (A through T).
const (
	colAccountID = iota
	colConfigID
	colActivityID
	colUpdateFlag
	colActivityName
	colActivityTagString
	colGroupName
	colGroupTagString
	colCountingMethod
	colExpectedURL
	colCacheBusting
	colCustomVariables
	colDefaultTags
	colPublisherTags
	colTagFormat
	colTagType
	colStatus
	colCreateAudience
	colAudienceLifespan
	colRemarks
)

var activitySheetHeaders = []string{
	"Account ID",
	"Floodlight Config ID",
	"Floodlight Activity ID",
	"Update",
	"Activity Name",
	"Activity Tag String (cat=)",
	"Activity Group Name",
	"Group Tag String (type=)",
	"Counting Methodology",
	"Expected URL",
	"Cache Busting",
	"Custom Floodlight Variables Selected",
	"Default Tags",
	"Publisher Tags",
	"Tag Format",
	"Tag Type",
	"Status",
	"Create Audience",
	"Audience Lifespan",
	"System response",
}

var defaultTagSheetHeaders = []string{"ID", "Name", "Tag"}

var publisherTagSheetHeaders = []string{"ID", "Site ID", "Conversion Type", "Tag"}

var customVariableSheetHeaders = []string{"U-Variable", "Name", "Type"}

var activityGroupSheetHeaders = []string{"tagString", "Name", "type"}
