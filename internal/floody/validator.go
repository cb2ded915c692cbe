package floody

import "regexp"

var validTagString = regexp.MustCompile(`^[A-Za-z0-9_-]{1,8}$`)

// ValidTagString reports whether s is a valid activity or group tag string:
// blank or up to 8 characters of A-Z, a-z, 0-9, - and _.
func ValidTagString(s string) bool {
	return s == "" || validTagString.MatchString(s)
}

// Validator runs the structural and referential-integrity checks an activity
// must pass before any platform write.
type Validator struct {
	defaultTags   map[int64]DefaultTag
	publisherTags map[int64]PublisherTag
	groups        GroupMap
}

// NewValidator builds a validator over the bundle's tag lookups and group
// map.
func NewValidator(defaultTags map[int64]DefaultTag, publisherTags map[int64]PublisherTag, groups GroupMap) *Validator {
	return &Validator{defaultTags: defaultTags, publisherTags: publisherTags, groups: groups}
}

// IsValid checks every rule and appends one remark line per violation.
// Checks are not short-circuited: a row violating three rules accumulates
// three remarks.
func (v *Validator) IsValid(a Activity, remarks *Remarks) bool {
	valid := true

	group, err := v.groups.ResolveFor(a)
	if err != nil {
		remarks.Add(err.Error())
		valid = false
	}
	if group == nil && err == nil {
		remarks.Addf("GroupTagString (%s) not present", a.GroupTagString)
		valid = false
	}
	if group != nil && group.ID == 0 {
		remarks.Add(group.CreationRemarks)
		valid = false
	}
	if group != nil {
		if family, ferr := GroupTypeFor(a.CountingMethod); ferr != nil {
			remarks.Add(ferr.Error())
			valid = false
		} else if family != group.Type {
			remarks.Addf("Activity CountingType (%s) mismatch with Group (%s)", a.CountingMethod, group.Type)
			valid = false
		}
	}

	if !ValidTagString(a.TagString) {
		remarks.Addf("activityTagString(cat=) [%s] should be empty or contain max of 8 characters between A-Z,a-z,0-9,- and _", a.TagString)
		valid = false
	}

	if a.ExpectedURL == "" {
		remarks.Add("expected Url is empty")
		valid = false
	}

	if a.TagType == TagTypeGlobalSiteTag && a.TagFormat != TagFormatHTML {
		remarks.Add("Invalid Tag Format. Global Site Tag supports only HTML format")
		valid = false
	}

	if !v.knownDefaultTags(a.DefaultTagIDs) {
		remarks.Add("One of the Default Tags was incorrect and has been dropped")
		valid = false
	}
	if !v.knownPublisherTags(a.PublisherTagIDs) {
		remarks.Add("One of the Publisher Tags was incorrect and has been dropped")
		valid = false
	}

	if !v.distinctDefaultTags(a.DefaultTagIDs) {
		remarks.Add("duplicate 'Default Tags' found")
		valid = false
	}
	if !v.distinctPublisherTags(a.PublisherTagIDs) {
		remarks.Add("duplicate 'Publisher Tags' found")
		valid = false
	}

	return valid
}

func (v *Validator) knownDefaultTags(ids []int64) bool {
	for _, id := range ids {
		if _, ok := v.defaultTags[id]; !ok {
			return false
		}
	}
	return true
}

func (v *Validator) knownPublisherTags(ids []int64) bool {
	for _, id := range ids {
		if _, ok := v.publisherTags[id]; !ok {
			return false
		}
	}
	return true
}

// distinctDefaultTags guards against a row selecting two ids that resolve
// to equal tag bodies.
func (v *Validator) distinctDefaultTags(ids []int64) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		t, ok := v.defaultTags[id]
		if !ok {
			continue
		}
		if seen[t.Tag] {
			return false
		}
		seen[t.Tag] = true
	}
	return true
}

func (v *Validator) distinctPublisherTags(ids []int64) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		t, ok := v.publisherTags[id]
		if !ok {
			continue
		}
		if seen[t.Tag] {
			return false
		}
		seen[t.Tag] = true
	}
	return true
}
