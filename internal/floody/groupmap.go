package floody

import "fmt"

// DuplicateGroupNameError reports a name-based group lookup that matched
// more than one group. The tag string is the only safe foreign key; a name
// collision makes the row's intent ambiguous and needs a user edit.
type DuplicateGroupNameError struct {
	Name  string
	Count int
}

func (e *DuplicateGroupNameError) Error() string {
	return fmt.Sprintf("%d activity groups share the name %q, use the group tag string instead", e.Count, e.Name)
}

// GroupMap indexes activity groups by tag string (unique) and by name
// (one-to-many). Built once per bundle, read-only afterward.
type GroupMap struct {
	byTag  map[string]Group
	byName map[string][]Group
}

// NewGroupMap builds the two indices over the given groups.
func NewGroupMap(groups []Group) GroupMap {
	m := GroupMap{
		byTag:  make(map[string]Group, len(groups)),
		byName: make(map[string][]Group, len(groups)),
	}
	for _, g := range groups {
		m.byTag[g.TagString] = g
		m.byName[g.Name] = append(m.byName[g.Name], g)
	}
	return m
}

// Values returns all groups in the map.
func (m GroupMap) Values() []Group {
	out := make([]Group, 0, len(m.byTag))
	for _, g := range m.byTag {
		out = append(out, g)
	}
	return out
}

// ContainsTagString reports whether a group with the given tag string exists.
func (m GroupMap) ContainsTagString(tagString string) bool {
	_, ok := m.byTag[tagString]
	return ok
}

// ContainsGroupName reports whether any group carries the given name.
func (m GroupMap) ContainsGroupName(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Get returns the group with the given tag string.
func (m GroupMap) Get(tagString string) (Group, bool) {
	g, ok := m.byTag[tagString]
	return g, ok
}

// ResolveFor resolves the group a sheet row refers to. A non-blank group tag
// string is the authoritative key. Otherwise the lookup falls back to the
// group name: zero matches returns (nil, nil), meaning the caller has to
// create the group, and two or more matches fail with
// DuplicateGroupNameError.
func (m GroupMap) ResolveFor(a Activity) (*Group, error) {
	if a.GroupTagString == "" {
		groups := m.byName[a.GroupName]
		switch len(groups) {
		case 0:
			return nil, nil
		case 1:
			g := groups[0]
			return &g, nil
		default:
			return nil, &DuplicateGroupNameError{Name: a.GroupName, Count: len(groups)}
		}
	}
	if g, ok := m.byTag[a.GroupTagString]; ok {
		return &g, nil
	}
	return nil, nil
}
