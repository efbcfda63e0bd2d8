package widget

import (
	"fmt"

	"pfwidgets/internal/domain/xpath"
)

// SelectItem matches an option by its visible text, exactly or as a
// substring.
type SelectItem struct {
	Text    string
	Partial bool
}

// Partial matches options containing text.
func Partial(text string) SelectItem { return SelectItem{Text: text, Partial: true} }

// Exact matches options whose normalized text equals text.
func Exact(text string) SelectItem { return SelectItem{Text: text} }

// predicate renders the match against expr, usually ".".
func (s SelectItem) predicate(expr string) string {
	if s.Partial {
		return fmt.Sprintf("contains(normalize-space(%s), %s)", expr, xpath.Quote(s.Text))
	}
	return fmt.Sprintf("normalize-space(%s)=%s", expr, xpath.Quote(s.Text))
}

func (s SelectItem) String() string {
	if s.Partial {
		return fmt.Sprintf("partial(%q)", s.Text)
	}
	return fmt.Sprintf("%q", s.Text)
}
