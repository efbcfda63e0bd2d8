package entity

import "strings"

// ClassSet is the set of class tokens of an element in document order.
type ClassSet struct {
	list []string
	set  map[string]struct{}
}

// ParseClasses splits a class attribute value.
func ParseClasses(attr string) ClassSet {
	cs := ClassSet{set: make(map[string]struct{})}
	for _, c := range strings.Fields(attr) {
		if _, dup := cs.set[c]; dup {
			continue
		}
		cs.set[c] = struct{}{}
		cs.list = append(cs.list, c)
	}
	return cs
}

func (c ClassSet) Has(name string) bool {
	_, ok := c.set[name]
	return ok
}

// HasAny reports whether at least one of names is present.
func (c ClassSet) HasAny(names ...string) bool {
	for _, n := range names {
		if c.Has(n) {
			return true
		}
	}
	return false
}

func (c ClassSet) List() []string {
	return append([]string(nil), c.list...)
}

func (c ClassSet) String() string {
	return strings.Join(c.list, " ")
}
