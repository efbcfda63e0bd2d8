package output

import (
	"context"
	"time"

	"pfwidgets/internal/domain/entity"
)

// Element is a live handle to a DOM node owned by the driver.
type Element interface {
	Describe() string
}

// BrowserPort is everything widgets need from a browser driver. Locators are
// XPath expressions evaluated relative to parent, or to the document when
// parent is nil.
type BrowserPort interface {
	// Element returns the first match or an error wrapping entity.ErrNotFound.
	Element(ctx context.Context, locator string, parent Element) (Element, error)
	// Elements returns all matches in document order; none is not an error.
	Elements(ctx context.Context, locator string, parent Element) ([]Element, error)

	Text(ctx context.Context, el Element) (string, error)
	// Attribute returns the value and whether the attribute is present.
	Attribute(ctx context.Context, el Element, name string) (string, bool, error)
	Classes(ctx context.Context, el Element) (entity.ClassSet, error)
	IsDisplayed(ctx context.Context, el Element) (bool, error)
	IsSelected(ctx context.Context, el Element) (bool, error)
	Value(ctx context.Context, el Element) (string, error)

	Click(ctx context.Context, el Element) error
	MoveTo(ctx context.Context, el Element) error
	Fill(ctx context.Context, el Element, text string) error

	// HandleAlert accepts or dismisses a JavaScript dialog if one appears
	// within wait. It reports whether a dialog was handled.
	HandleAlert(ctx context.Context, accept bool, wait time.Duration) (bool, error)

	Close()
}
