// Package widget models PatternFly and Bootstrap components as page
// objects. Every widget resolves its root element on each call, so handles
// never outlive a single operation.
package widget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/wait"
)

// Parent is anything a widget can be nested in.
type Parent interface {
	Browser() output.BrowserPort
	Logger() output.LoggerPort
	Timing() Timing
	// Root returns the element scoping child queries; nil means the
	// document.
	Root(ctx context.Context) (output.Element, error)
}

// Timing bounds the waits widgets perform.
type Timing struct {
	// Interval between polls.
	Interval time.Duration
	// Timeout for ordinary state changes.
	Timeout time.Duration
	// LoadTimeout for lazily loaded content such as tree children.
	LoadTimeout time.Duration
	// Settle is the pause after a click before polling starts.
	Settle time.Duration
	// Retry bounds lookups that hit stale or missing elements.
	Retry wait.RetryPolicy
}

func DefaultTiming() Timing {
	return Timing{
		Interval:    wait.DefaultInterval,
		Timeout:     wait.DefaultTimeout,
		LoadTimeout: 30 * time.Second,
		Settle:      100 * time.Millisecond,
		Retry:       wait.DefaultRetry,
	}
}

func (t Timing) poll(message string) wait.Options {
	return wait.Options{Interval: t.Interval, Timeout: t.Timeout, Message: message}
}

func (t Timing) pollFor(message string, timeout time.Duration) wait.Options {
	return wait.Options{Interval: t.Interval, Timeout: timeout, Message: message}
}

// Page is the top of every widget hierarchy: the whole document.
type Page struct {
	browser output.BrowserPort
	logger  output.LoggerPort
	timing  Timing
}

func NewPage(browser output.BrowserPort, logger output.LoggerPort, timing Timing) *Page {
	return &Page{browser: browser, logger: logger, timing: timing}
}

func (p *Page) Browser() output.BrowserPort { return p.browser }

func (p *Page) Logger() output.LoggerPort { return p.logger }

func (p *Page) Timing() Timing { return p.timing }

func (p *Page) Root(ctx context.Context) (output.Element, error) { return nil, nil }

// HandleAlert accepts or dismisses a dialog if one appears shortly.
func (p *Page) HandleAlert(ctx context.Context, accept bool) (bool, error) {
	return p.browser.HandleAlert(ctx, accept, time.Second)
}

// base carries what every widget shares: where it lives and how to reach
// the browser.
type base struct {
	parent  Parent
	browser output.BrowserPort
	logger  output.LoggerPort
	timing  Timing
	locator string
}

func newBase(parent Parent, kind, locator string) base {
	return base{
		parent:  parent,
		browser: parent.Browser(),
		logger:  parent.Logger().WithField("widget", kind),
		timing:  parent.Timing(),
		locator: locator,
	}
}

func (b *base) Browser() output.BrowserPort { return b.browser }

func (b *base) Logger() output.LoggerPort { return b.logger }

func (b *base) Timing() Timing { return b.timing }

// Locator returns the XPath locating the widget within its parent.
func (b *base) Locator() string { return b.locator }

// Root looks the widget element up inside the parent. An empty locator
// makes the widget share the parent root.
func (b *base) Root(ctx context.Context) (output.Element, error) {
	scope, err := b.parent.Root(ctx)
	if err != nil {
		return nil, err
	}
	if b.locator == "" {
		return scope, nil
	}
	return b.browser.Element(ctx, b.locator, scope)
}

// IsDisplayed is false when the widget is missing from the page.
func (b *base) IsDisplayed(ctx context.Context) (bool, error) {
	el, err := b.Root(ctx)
	if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrStaleElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if el == nil {
		return true, nil
	}
	return b.browser.IsDisplayed(ctx, el)
}

// Click clicks the widget root.
func (b *base) Click(ctx context.Context) error {
	el, err := b.Root(ctx)
	if err != nil {
		return err
	}
	return b.browser.Click(ctx, el)
}

func (b *base) find(ctx context.Context, locator string) (output.Element, error) {
	root, err := b.Root(ctx)
	if err != nil {
		return nil, err
	}
	return b.browser.Element(ctx, locator, root)
}

func (b *base) findAll(ctx context.Context, locator string) ([]output.Element, error) {
	root, err := b.Root(ctx)
	if err != nil {
		return nil, err
	}
	return b.browser.Elements(ctx, locator, root)
}

// present reports whether locator matches anything under the root.
func (b *base) present(ctx context.Context, locator string) (bool, error) {
	els, err := b.findAll(ctx, locator)
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

func (b *base) texts(ctx context.Context, els []output.Element) ([]string, error) {
	result := make([]string, 0, len(els))
	for _, el := range els {
		text, err := b.browser.Text(ctx, el)
		if err != nil {
			return nil, err
		}
		result = append(result, text)
	}
	return result, nil
}

func (b *base) textOf(ctx context.Context, locator string) (string, error) {
	el, err := b.find(ctx, locator)
	if err != nil {
		return "", err
	}
	return b.browser.Text(ctx, el)
}

func (b *base) attr(ctx context.Context, el output.Element, name string) (string, error) {
	val, _, err := b.browser.Attribute(ctx, el, name)
	return val, err
}

func (b *base) hasClass(ctx context.Context, el output.Element, class string) (bool, error) {
	classes, err := b.browser.Classes(ctx, el)
	if err != nil {
		return false, err
	}
	return classes.Has(class), nil
}

func (b *base) rootHasClass(ctx context.Context, class string) (bool, error) {
	el, err := b.Root(ctx)
	if err != nil {
		return false, err
	}
	return b.hasClass(ctx, el, class)
}

func (b *base) waitFor(ctx context.Context, message string, cond wait.Condition) error {
	return wait.For(ctx, b.timing.poll(message), cond)
}

func (b *base) settle(ctx context.Context) error {
	if b.timing.Settle <= 0 {
		return nil
	}
	return wait.Sleep(ctx, b.timing.Settle)
}

// notFound reports whether err means the element is absent.
func notFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}

// optionalText reads the text at locator, returning "" when it is absent.
func (b *base) optionalText(ctx context.Context, locator string) (string, error) {
	text, err := b.textOf(ctx, locator)
	if notFound(err) {
		return "", nil
	}
	return text, err
}

func describe(kind, detail string) string {
	if detail == "" {
		return kind
	}
	return fmt.Sprintf("%s(%s)", kind, detail)
}

// inParent looks locator up in the parent scope instead of the widget's
// own root.
func (b *base) inParent(ctx context.Context, locator string) (output.Element, error) {
	scope, err := b.parent.Root(ctx)
	if err != nil {
		return nil, err
	}
	return b.browser.Element(ctx, locator, scope)
}
