package floody

import "fmt"

// CountingMethod is the sheet-facing counting methodology of an activity.
// The value encodes both the group family (COUNTER/SALES) and the platform
// counting method.
type CountingMethod string

const (
	CounterStandard   CountingMethod = "COUNTER_STANDARD"
	CounterUnique     CountingMethod = "COUNTER_UNIQUE"
	CounterSessions   CountingMethod = "COUNTER_SESSIONS"
	SalesItemsSold    CountingMethod = "SALES_ITEMS_SOLD"
	SalesTransactions CountingMethod = "SALES_TRANSACTIONS"
)

// GroupType is the activity group family on the platform.
type GroupType string

const (
	GroupTypeCounter GroupType = "COUNTER"
	GroupTypeSale    GroupType = "SALE"
)

// ActivityStatus mirrors the platform's floodlight activity status.
type ActivityStatus string

const (
	StatusActive              ActivityStatus = "ACTIVE"
	StatusArchivedAndDisabled ActivityStatus = "ARCHIVED_AND_DISABLED"
)

// CacheBustingType is the cache-busting method of an activity tag.
type CacheBustingType string

const (
	CacheBustingNone             CacheBustingType = "NONE"
	CacheBustingActiveServerPage CacheBustingType = "ACTIVE_SERVER_PAGE"
	CacheBustingColdFusion       CacheBustingType = "COLD_FUSION"
	CacheBustingJavascript       CacheBustingType = "JAVASCRIPT"
	CacheBustingJSP              CacheBustingType = "JSP"
	CacheBustingPHP              CacheBustingType = "PHP"
)

// TagFormat is the markup format of the generated floodlight tag.
type TagFormat string

const (
	TagFormatHTML  TagFormat = "HTML"
	TagFormatXHTML TagFormat = "XHTML"
)

// TagType is the kind of tag generated for an activity.
type TagType string

const (
	TagTypeImage         TagType = "IMAGE"
	TagTypeIframe        TagType = "IFRAME"
	TagTypeGlobalSiteTag TagType = "GLOBAL_SITE_TAG"
)

// ConversionType is a publisher tag's conversion attribution.
type ConversionType string

const (
	ConversionClickThrough ConversionType = "CLICK_THROUGH"
	ConversionViewThrough  ConversionType = "VIEW_THROUGH"
	ConversionBoth         ConversionType = "BOTH"
)

// UnsupportedVariantError reports an enum value that has no mapping. The
// adapters below fail loudly instead of defaulting so that a new platform
// enum value surfaces immediately.
type UnsupportedVariantError struct {
	Kind  string
	Value string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("unsupported %s value %q", e.Kind, e.Value)
}

// Two-way total mapping between sheet counting methods and the platform's
// counting-method strings.
var (
	countingMethodToPlatform = map[CountingMethod]string{
		CounterStandard:   "STANDARD_COUNTING",
		CounterUnique:     "UNIQUE_COUNTING",
		CounterSessions:   "SESSION_COUNTING",
		SalesItemsSold:    "ITEMS_SOLD_COUNTING",
		SalesTransactions: "TRANSACTIONS_COUNTING",
	}

	platformToCountingMethod = map[string]CountingMethod{
		"STANDARD_COUNTING":     CounterStandard,
		"UNIQUE_COUNTING":       CounterUnique,
		"SESSION_COUNTING":      CounterSessions,
		"ITEMS_SOLD_COUNTING":   SalesItemsSold,
		"TRANSACTIONS_COUNTING": SalesTransactions,
	}

	countingMethodGroupType = map[CountingMethod]GroupType{
		CounterStandard:   GroupTypeCounter,
		CounterUnique:     GroupTypeCounter,
		CounterSessions:   GroupTypeCounter,
		SalesItemsSold:    GroupTypeSale,
		SalesTransactions: GroupTypeSale,
	}
)

// PlatformCountingMethod converts a sheet counting method to the platform's
// counting-method string.
func PlatformCountingMethod(m CountingMethod) (string, error) {
	v, ok := countingMethodToPlatform[m]
	if !ok {
		return "", &UnsupportedVariantError{Kind: "counting method", Value: string(m)}
	}
	return v, nil
}

// CountingMethodFromPlatform converts the platform's counting-method string
// to a sheet counting method.
func CountingMethodFromPlatform(v string) (CountingMethod, error) {
	m, ok := platformToCountingMethod[v]
	if !ok {
		return "", &UnsupportedVariantError{Kind: "platform counting method", Value: v}
	}
	return m, nil
}

// GroupTypeFor returns the group family a counting method belongs to.
func GroupTypeFor(m CountingMethod) (GroupType, error) {
	t, ok := countingMethodGroupType[m]
	if !ok {
		return "", &UnsupportedVariantError{Kind: "counting method", Value: string(m)}
	}
	return t, nil
}

// PlatformCacheBusting converts the cache-busting enum to the platform's
// string form. NONE maps to the empty string because the platform treats the
// field as absent.
func PlatformCacheBusting(t CacheBustingType) string {
	if t == CacheBustingNone {
		return ""
	}
	return string(t)
}

// CacheBustingFromPlatform converts the platform's cache-busting string; an
// empty value means NONE (sales activities carry no cache busting).
func CacheBustingFromPlatform(v string) CacheBustingType {
	if v == "" {
		return CacheBustingNone
	}
	return CacheBustingType(v)
}
