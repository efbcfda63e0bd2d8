// Package xpath holds helpers for building XPath locators from user values.
package xpath

import (
	"fmt"
	"regexp"
	"strings"
)

var attrName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*(:[A-Za-z_][A-Za-z0-9_.-]*)?$`)

// IsAttrName reports whether name can follow @ in a locator.
func IsAttrName(name string) bool {
	return attrName.MatchString(name)
}

// Quote returns s as an XPath string literal. XPath 1.0 has no escapes, so a
// value containing both quote kinds is built with concat().
func Quote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "concat('" + strings.Join(strings.Split(s, "'"), `', "'", '`) + "')"
}

// Format is fmt.Sprintf with every argument quoted.
func Format(format string, values ...string) string {
	args := make([]any, 0, len(values))
	for _, v := range values {
		args = append(args, Quote(v))
	}
	return fmt.Sprintf(format, args...)
}
