package model

import "sort"

// Set is an immutable set of symbol names. The zero value is an empty set.
type Set struct {
	members map[string]struct{}
}

// NewSet builds a set from names. Empty names are dropped and duplicates
// collapse to a single member.
func NewSet(names ...string) Set {
	members := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		members[n] = struct{}{}
	}
	return Set{members: members}
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.members)
}

// Has reports whether name is a member.
func (s Set) Has(name string) bool {
	_, ok := s.members[name]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.members))
	for n := range s.members {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Difference returns the members of s that are not in o.
func (s Set) Difference(o Set) Set {
	var out []string
	for n := range s.members {
		if !o.Has(n) {
			out = append(out, n)
		}
	}
	return NewSet(out...)
}

// Intersect returns the members present in both s and o.
func (s Set) Intersect(o Set) Set {
	var out []string
	for n := range s.members {
		if o.Has(n) {
			out = append(out, n)
		}
	}
	return NewSet(out...)
}

// Union returns the members present in either s or o.
func (s Set) Union(o Set) Set {
	out := make([]string, 0, s.Len()+o.Len())
	for n := range s.members {
		out = append(out, n)
	}
	for n := range o.members {
		out = append(out, n)
	}
	return NewSet(out...)
}

// Equal reports whether s and o hold the same members.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for n := range s.members {
		if !o.Has(n) {
			return false
		}
	}
	return true
}
