package entity

import (
	"fmt"
	"sort"
	"strings"
)

type CriteriaKind int

const (
	CriteriaNone CriteriaKind = iota
	CriteriaID
	CriteriaName
	CriteriaAttrs
	CriteriaLocator
	CriteriaLabel
)

func (k CriteriaKind) String() string {
	switch k {
	case CriteriaID:
		return "id"
	case CriteriaName:
		return "name"
	case CriteriaAttrs:
		return "attrs"
	case CriteriaLocator:
		return "locator"
	case CriteriaLabel:
		return "label"
	default:
		return "none"
	}
}

// Criteria selects the root element of a widget. Exactly one kind is set.
type Criteria struct {
	kind  CriteriaKind
	value string
	attrs map[string]string
}

func ByID(id string) Criteria { return Criteria{kind: CriteriaID, value: id} }

func ByName(name string) Criteria { return Criteria{kind: CriteriaName, value: name} }

func ByLabel(label string) Criteria { return Criteria{kind: CriteriaLabel, value: label} }

func ByLocator(locator string) Criteria { return Criteria{kind: CriteriaLocator, value: locator} }

func ByAttrs(attrs map[string]string) Criteria {
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return Criteria{kind: CriteriaAttrs, attrs: copied}
}

func (c Criteria) Kind() CriteriaKind { return c.kind }

func (c Criteria) Value() string { return c.value }

// Attrs returns the attribute pairs sorted by name.
func (c Criteria) Attrs() [][2]string {
	keys := make([]string, 0, len(c.attrs))
	for k := range c.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, c.attrs[k]})
	}
	return pairs
}

// Validate checks that the criteria is set, non-empty and one of allowed.
func (c Criteria) Validate(widget string, allowed ...CriteriaKind) error {
	names := make([]string, 0, len(allowed))
	ok := false
	for _, kind := range allowed {
		names = append(names, kind.String())
		if kind == c.kind {
			ok = true
		}
	}
	if c.kind == CriteriaNone {
		return &ConfigError{Widget: widget, Reason: "you need to specify one of " + strings.Join(names, ", ")}
	}
	if !ok {
		return &ConfigError{Widget: widget, Reason: fmt.Sprintf("%s is not supported, use one of %s", c.kind, strings.Join(names, ", "))}
	}
	if c.kind == CriteriaAttrs {
		if len(c.attrs) == 0 {
			return &ConfigError{Widget: widget, Reason: "empty attribute set"}
		}
		return nil
	}
	if strings.TrimSpace(c.value) == "" {
		return &ConfigError{Widget: widget, Reason: "empty " + c.kind.String()}
	}
	return nil
}

func (c Criteria) String() string {
	if c.kind == CriteriaAttrs {
		parts := make([]string, 0, len(c.attrs))
		for _, p := range c.Attrs() {
			parts = append(parts, fmt.Sprintf("%s=%q", p[0], p[1]))
		}
		return "attrs(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("%s=%q", c.kind, c.value)
}
