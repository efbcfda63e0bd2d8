package widget

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

// Bootstrap button classes usable in ButtonSpec.Classes.
const (
	ButtonDefault = "btn-default"
	ButtonPrimary = "btn-primary"
	ButtonSuccess = "btn-success"
	ButtonInfo    = "btn-info"
	ButtonWarning = "btn-warning"
	ButtonDanger  = "btn-danger"
	ButtonLink    = "btn-link"

	ButtonLarge      = "btn-lg"
	ButtonMedium     = "btn-md"
	ButtonSmall      = "btn-sm"
	ButtonExtraSmall = "btn-xs"

	ButtonBlock = "btn-block"
)

// ButtonSpec selects a button by its text or by attributes, optionally
// narrowed by classes. Text and Attrs are mutually exclusive.
type ButtonSpec struct {
	Text string
	// Contains matches Text as a substring of the normalized text.
	Contains bool
	Attrs    map[string]string
	Classes  []string
}

func (s ButtonSpec) conditions() (string, error) {
	if s.Text != "" && len(s.Attrs) > 0 {
		return "", &entity.ConfigError{Widget: "Button", Reason: "if you pass button text then only pass classes in addition"}
	}
	if s.Contains && s.Text == "" {
		return "", &entity.ConfigError{Widget: "Button", Reason: "partial match needs a text"}
	}

	var conds []string
	switch {
	case s.Text != "" && s.Contains:
		conds = append(conds, fmt.Sprintf("contains(normalize-space(.), %s)", xpath.Quote(s.Text)))
	case s.Text != "":
		conds = append(conds, fmt.Sprintf("normalize-space(.)=%s", xpath.Quote(s.Text)))
	default:
		keys := make([]string, 0, len(s.Attrs))
		for k := range s.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			conds = append(conds, fmt.Sprintf("@%s=%s", k, xpath.Quote(s.Attrs[k])))
		}
	}
	for _, class := range s.Classes {
		conds = append(conds, fmt.Sprintf("contains(@class, %s)", xpath.Quote(class)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " and (" + strings.Join(conds, " and ") + ")", nil
}

// Button is a PatternFly button: an a, button or button-like input with
// the btn class.
type Button struct {
	base
	spec ButtonSpec
}

func NewButton(parent Parent, spec ButtonSpec) (*Button, error) {
	conds, err := spec.conditions()
	if err != nil {
		return nil, err
	}
	locator := `.//*[(self::a or self::button or (self::input and (@type="button" or @type="submit")))` +
		` and contains(@class, "btn")` + conds + `]`
	return &Button{base: newBase(parent, "Button", locator), spec: spec}, nil
}

func (b *Button) String() string {
	if b.spec.Text != "" {
		return describe("Button", fmt.Sprintf("%q", b.spec.Text))
	}
	return describe("Button", entity.ByAttrs(b.spec.Attrs).String())
}

func (b *Button) Active(ctx context.Context) (bool, error) {
	return b.rootHasClass(ctx, "active")
}

// Disabled is true for the disabled class or a disabled attribute.
func (b *Button) Disabled(ctx context.Context) (bool, error) {
	el, err := b.Root(ctx)
	if err != nil {
		return false, err
	}
	classes, err := b.browser.Classes(ctx, el)
	if err != nil {
		return false, err
	}
	if classes.Has("disabled") {
		return true, nil
	}
	val, ok, err := b.browser.Attribute(ctx, el, "disabled")
	if err != nil {
		return false, err
	}
	return ok && (val == "" || val == "disabled" || val == "true"), nil
}

func (b *Button) Title(ctx context.Context) (string, error) {
	el, err := b.Root(ctx)
	if err != nil {
		return "", err
	}
	return b.attr(ctx, el, "title")
}

// Text returns the rendered text, not the text the button was matched by.
func (b *Button) Text(ctx context.Context) (string, error) {
	el, err := b.Root(ctx)
	if err != nil {
		return "", err
	}
	return b.browser.Text(ctx, el)
}

func (b *Button) Read(ctx context.Context) (string, error) {
	return b.Text(ctx)
}

// Fill clicks the button for true.
func (b *Button) Fill(ctx context.Context, press bool) (bool, error) {
	if !press {
		return false, nil
	}
	if err := b.Click(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ViewChangeButton switches list/grid/tile views; it is found by title.
type ViewChangeButton struct {
	base
	title string
}

func NewViewChangeButton(parent Parent, title string) *ViewChangeButton {
	locator := xpath.Format(`.//a[(@title=%s) and i[contains(@class, "fa")]]`, title)
	return &ViewChangeButton{base: newBase(parent, "ViewChangeButton", locator), title: title}
}

// Active reads the active class from the enclosing element.
func (b *ViewChangeButton) Active(ctx context.Context) (bool, error) {
	holder, err := b.find(ctx, "..")
	if err != nil {
		return false, err
	}
	return b.hasClass(ctx, holder, "active")
}
