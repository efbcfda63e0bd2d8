package widget

import "context"

// Text is a plain element read for its text.
type Text struct {
	base
}

func NewText(parent Parent, locator string) *Text {
	return &Text{base: newBase(parent, "Text", locator)}
}

func (t *Text) Read(ctx context.Context) (string, error) {
	el, err := t.Root(ctx)
	if err != nil {
		return "", err
	}
	return t.browser.Text(ctx, el)
}
