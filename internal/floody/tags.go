package floody

// DefaultTag is a reusable default tag snippet, deduplicated by full value
// equality.
type DefaultTag struct {
	Name string
	Tag  string
}

// PublisherTag is a reusable publisher tag snippet.
type PublisherTag struct {
	SiteID         int64
	ConversionType ConversionType
	Tag            string
}

// SheetDefaultTag is a default tag with the stable id used for spreadsheet
// column encoding. The id is assigned at bundle-build time and carries no
// meaning beyond the current bundle.
type SheetDefaultTag struct {
	ID   int64
	Name string
	Tag  string
}

// SheetPublisherTag is a publisher tag with its bundle-scoped id.
type SheetPublisherTag struct {
	ID             int64
	SiteID         int64
	ConversionType ConversionType
	Tag            string
}

// CustomVariable is a custom floodlight variable (u-variable) definition of
// a floodlight configuration.
type CustomVariable struct {
	Number string
	Type   string
	Name   string
}

// DefaultTagRegistry assigns stable ids to default tags in first-seen order,
// collapsing duplicates across activities to a single id.
type DefaultTagRegistry struct {
	ids     map[DefaultTag]int64
	entries []SheetDefaultTag
}

// NewDefaultTagRegistry deduplicates the given stream of tags. The stream
// must be in activity order so that id assignment is deterministic.
func NewDefaultTagRegistry(stream []DefaultTag) *DefaultTagRegistry {
	r := &DefaultTagRegistry{ids: make(map[DefaultTag]int64)}
	for _, t := range stream {
		if _, seen := r.ids[t]; seen {
			continue
		}
		id := int64(len(r.entries))
		r.ids[t] = id
		r.entries = append(r.entries, SheetDefaultTag{ID: id, Name: t.Name, Tag: t.Tag})
	}
	return r
}

// IDFor returns the stable id assigned to the given tag content.
func (r *DefaultTagRegistry) IDFor(t DefaultTag) (int64, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// Entries returns the deduplicated tags in id order.
func (r *DefaultTagRegistry) Entries() []SheetDefaultTag {
	return r.entries
}

// PublisherTagRegistry assigns stable ids to publisher tags in first-seen
// order.
type PublisherTagRegistry struct {
	ids     map[PublisherTag]int64
	entries []SheetPublisherTag
}

// NewPublisherTagRegistry deduplicates the given stream of publisher tags.
func NewPublisherTagRegistry(stream []PublisherTag) *PublisherTagRegistry {
	r := &PublisherTagRegistry{ids: make(map[PublisherTag]int64)}
	for _, t := range stream {
		if _, seen := r.ids[t]; seen {
			continue
		}
		id := int64(len(r.entries))
		r.ids[t] = id
		r.entries = append(r.entries, SheetPublisherTag{
			ID:             id,
			SiteID:         t.SiteID,
			ConversionType: t.ConversionType,
			Tag:            t.Tag,
		})
	}
	return r
}

// IDFor returns the stable id assigned to the given tag content.
func (r *PublisherTagRegistry) IDFor(t PublisherTag) (int64, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// Entries returns the deduplicated tags in id order.
func (r *PublisherTagRegistry) Entries() []SheetPublisherTag {
	return r.entries
}
