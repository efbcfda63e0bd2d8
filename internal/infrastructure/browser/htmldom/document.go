// Package htmldom is an offline BrowserPort over a parsed HTML document.
// Queries are real XPath evaluations; page behaviour (what a click or hover
// does) is supplied by the caller as handlers that mutate the document.
package htmldom

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var _ output.BrowserPort = (*Document)(nil)

// Handler reacts to an interaction with node n.
type Handler func(d *Document, n *html.Node)

type hook struct {
	locator string
	fn      Handler
}

type deferred struct {
	due int
	fn  func()
}

type Document struct {
	mu       sync.Mutex
	root     *html.Node
	clicks   []hook
	hovers   []hook
	inputs   []hook
	pending  []deferred
	ticks    int
	alerts   []string
	clickLog []string
}

func New(src string) (*Document, error) {
	root, err := htmlquery.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

func MustNew(src string) *Document {
	d, err := New(src)
	if err != nil {
		panic(err)
	}
	return d
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return New(string(data))
}

// OnClick registers fn for clicks on nodes matched by locator.
func (d *Document) OnClick(locator string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks = append(d.clicks, hook{locator: locator, fn: fn})
}

// OnHover registers fn for pointer moves onto nodes matched by locator.
func (d *Document) OnHover(locator string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hovers = append(d.hovers, hook{locator: locator, fn: fn})
}

// OnInput registers fn for Fill on nodes matched by locator.
func (d *Document) OnInput(locator string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputs = append(d.inputs, hook{locator: locator, fn: fn})
}

// Defer runs fn once the document has served n more queries. It lets
// handlers model asynchronous page updates that polling must wait for.
func (d *Document) Defer(n int, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, deferred{due: d.ticks + n, fn: fn})
}

// Alert queues a JavaScript dialog.
func (d *Document) Alert(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, text)
}

// Clicks returns descriptions of clicked elements in order.
func (d *Document) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clickLog...)
}

// Query evaluates an absolute locator, for handlers and tests.
func (d *Document) Query(locator string) []*html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes, err := d.query(locator, nil)
	if err != nil {
		panic(err)
	}
	return nodes
}

func (d *Document) QueryOne(locator string) *html.Node {
	nodes := d.Query(locator)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return htmlquery.OutputHTML(d.root, true)
}

func (d *Document) query(locator string, scope *html.Node) ([]*html.Node, error) {
	top := scope
	if top == nil || strings.HasPrefix(strings.TrimSpace(locator), "/") {
		top = d.root
	}
	nodes, err := htmlquery.QueryAll(top, locator)
	if err != nil {
		return nil, fmt.Errorf("invalid locator %q: %w", locator, err)
	}
	return nodes, nil
}

func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// tick advances the query clock and runs deferred updates that became due.
func (d *Document) tick() {
	d.mu.Lock()
	d.ticks++
	var due []func()
	kept := d.pending[:0]
	for _, p := range d.pending {
		if p.due <= d.ticks {
			due = append(due, p.fn)
		} else {
			kept = append(kept, p)
		}
	}
	d.pending = kept
	d.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

func (d *Document) node(el output.Element) (*html.Node, error) {
	if el == nil {
		return nil, nil
	}
	e, ok := el.(*element)
	if !ok || e.doc != d {
		return nil, fmt.Errorf("element %s does not belong to this document", el.Describe())
	}
	if !d.attached(e.n) {
		return nil, fmt.Errorf("%w: %s", entity.ErrStaleElement, e.Describe())
	}
	return e.n, nil
}

func (d *Document) wrap(nodes []*html.Node) []output.Element {
	result := make([]output.Element, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, &element{n: n, doc: d})
	}
	return result
}

func (d *Document) Element(ctx context.Context, locator string, parent output.Element) (output.Element, error) {
	els, err := d.Elements(ctx, locator, parent)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, locator)
	}
	return els[0], nil
}

func (d *Document) Elements(ctx context.Context, locator string, parent output.Element) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.tick()

	d.mu.Lock()
	defer d.mu.Unlock()

	scope, err := d.node(parent)
	if err != nil {
		return nil, err
	}
	nodes, err := d.query(locator, scope)
	if err != nil {
		return nil, err
	}
	return d.wrap(nodes), nil
}

func (d *Document) Text(ctx context.Context, el output.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.node(el)
	if err != nil {
		return "", err
	}
	return normalizeSpace(htmlquery.InnerText(n)), nil
}

func (d *Document) Attribute(ctx context.Context, el output.Element, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.node(el)
	if err != nil {
		return "", false, err
	}
	if name == "textContent" {
		return htmlquery.InnerText(n), true, nil
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true, nil
		}
	}
	return "", false, nil
}

func (d *Document) Classes(ctx context.Context, el output.Element) (entity.ClassSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.node(el)
	if err != nil {
		return entity.ClassSet{}, err
	}
	return entity.ParseClasses(htmlquery.SelectAttr(n, "class")), nil
}

// IsDisplayed has no layout engine to consult; an element is hidden when it
// or an ancestor carries the hidden attribute, a hidden class or an inline
// display:none.
func (d *Document) IsDisplayed(ctx context.Context, el output.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.node(el)
	if err != nil {
		return false, err
	}
	if n.Data == "input" && htmlquery.SelectAttr(n, "type") == "hidden" {
		return false, nil
	}
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if hasAttr(p, "hidden") || entity.ParseClasses(htmlquery.SelectAttr(p, "class")).Has("hidden") {
			return false, nil
		}
		style := strings.ReplaceAll(htmlquery.SelectAttr(p, "style"), " ", "")
		if strings.Contains(style, "display:none") {
			return false, nil
		}
	}
	return true, nil
}

func (d *Document) IsSelected(ctx context.Context, el output.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.node(el)
	if err != nil {
		return false, err
	}
	return hasAttr(n, "checked") || hasAttr(n, "selected"), nil
}

func (d *Document) Value(ctx context.Context, el output.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.node(el)
	if err != nil {
		return "", err
	}
	if n.Data == "textarea" {
		return htmlquery.InnerText(n), nil
	}
	return htmlquery.SelectAttr(n, "value"), nil
}

// Click toggles checkboxes and radios like a browser would and then runs
// the matching click handlers. Disabled form controls ignore clicks.
func (d *Document) Click(ctx context.Context, el output.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	n, err := d.node(el)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.clickLog = append(d.clickLog, el.Describe())
	if hasAttr(n, "disabled") {
		d.mu.Unlock()
		return nil
	}
	if n.Data == "input" {
		switch htmlquery.SelectAttr(n, "type") {
		case "checkbox":
			toggleAttr(n, "checked")
		case "radio":
			setAttr(n, "checked", "checked")
		}
	}
	handlers, err := d.matching(d.clicks, n)
	d.mu.Unlock()
	if err != nil {
		return err
	}

	for _, h := range handlers {
		h(d, n)
	}
	return nil
}

func (d *Document) MoveTo(ctx context.Context, el output.Element) error {
	d.mu.Lock()
	n, err := d.node(el)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	handlers, err := d.matching(d.hovers, n)
	d.mu.Unlock()
	if err != nil {
		return err
	}

	for _, h := range handlers {
		h(d, n)
	}
	return nil
}

func (d *Document) Fill(ctx context.Context, el output.Element, text string) error {
	d.mu.Lock()
	n, err := d.node(el)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	if hasAttr(n, "disabled") || hasAttr(n, "readonly") {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s is not editable", entity.ErrIllegalState, el.Describe())
	}
	if n.Data == "textarea" {
		replaceText(n, text)
	} else {
		setAttr(n, "value", text)
	}
	handlers, err := d.matching(d.inputs, n)
	d.mu.Unlock()
	if err != nil {
		return err
	}

	for _, h := range handlers {
		h(d, n)
	}
	return nil
}

func (d *Document) HandleAlert(ctx context.Context, accept bool, wait time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.alerts) == 0 {
		return false, nil
	}
	d.alerts = d.alerts[1:]
	return true, nil
}

func (d *Document) Close() {}

func (d *Document) matching(hooks []hook, n *html.Node) ([]Handler, error) {
	var result []Handler
	for _, h := range hooks {
		nodes, err := d.query(h.locator, nil)
		if err != nil {
			return nil, err
		}
		for _, m := range nodes {
			if m == n {
				result = append(result, h.fn)
				break
			}
		}
	}
	return result, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
