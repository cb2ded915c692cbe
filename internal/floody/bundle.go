package floody

// Bundle is the full in-memory snapshot of one floodlight configuration:
// activities, the deduplicated tag sections, custom variables and the group
// map. Bundles are value types; the With helpers return a copy with one
// field replaced.
type Bundle struct {
	Activities      []Activity
	DefaultTags     []SheetDefaultTag
	PublisherTags   []SheetPublisherTag
	CustomVariables []CustomVariable
	Groups          GroupMap
}

// WithActivities returns a copy of the bundle with its activities replaced.
func (b Bundle) WithActivities(activities []Activity) Bundle {
	b.Activities = activities
	return b
}

// WithGroups returns a copy of the bundle with its group map replaced.
func (b Bundle) WithGroups(groups GroupMap) Bundle {
	b.Groups = groups
	return b
}

// DefaultTagsByID re-expands the bundle's default tag section into an id
// keyed lookup for the platform write path.
func (b Bundle) DefaultTagsByID() map[int64]DefaultTag {
	out := make(map[int64]DefaultTag, len(b.DefaultTags))
	for _, t := range b.DefaultTags {
		out[t.ID] = DefaultTag{Name: t.Name, Tag: t.Tag}
	}
	return out
}

// PublisherTagsByID re-expands the bundle's publisher tag section into an id
// keyed lookup for the platform write path.
func (b Bundle) PublisherTagsByID() map[int64]PublisherTag {
	out := make(map[int64]PublisherTag, len(b.PublisherTags))
	for _, t := range b.PublisherTags {
		out[t.ID] = PublisherTag{SiteID: t.SiteID, ConversionType: t.ConversionType, Tag: t.Tag}
	}
	return out
}
