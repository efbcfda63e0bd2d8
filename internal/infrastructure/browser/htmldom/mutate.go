package htmldom

import (
	"fmt"
	"strings"

	"pfwidgets/internal/domain/entity"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type element struct {
	n   *html.Node
	doc *Document
}

func (e *element) Describe() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.n.Data)
	for _, key := range []string{"id", "name", "class", "data-nodeid"} {
		if v := htmlquery.SelectAttr(e.n, key); v != "" {
			fmt.Fprintf(&b, " %s=%q", key, v)
		}
	}
	b.WriteString(">")
	return b.String()
}

// Node exposes the underlying node of an element returned by this package.
func Node(el interface{ Describe() string }) *html.Node {
	if e, ok := el.(*element); ok {
		return e.n
	}
	return nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func toggleAttr(n *html.Node, key string) {
	if hasAttr(n, key) {
		removeAttr(n, key)
		return
	}
	setAttr(n, key, key)
}

func replaceText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// The helpers below mutate the tree from handlers. They take the document
// lock, so they must not be called while a Document method holds it.

func (d *Document) SetAttr(n *html.Node, key, val string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	setAttr(n, key, val)
}

func (d *Document) RemoveAttr(n *html.Node, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	removeAttr(n, key)
}

func (d *Document) HasClass(n *html.Node, class string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return entity.ParseClasses(htmlquery.SelectAttr(n, "class")).Has(class)
}

func (d *Document) AddClass(n *html.Node, classes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set := entity.ParseClasses(htmlquery.SelectAttr(n, "class"))
	list := set.List()
	for _, c := range classes {
		if !set.Has(c) {
			list = append(list, c)
		}
	}
	setAttr(n, "class", strings.Join(list, " "))
}

func (d *Document) RemoveClass(n *html.Node, classes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	drop := entity.ParseClasses(strings.Join(classes, " "))
	var list []string
	for _, c := range entity.ParseClasses(htmlquery.SelectAttr(n, "class")).List() {
		if !drop.Has(c) {
			list = append(list, c)
		}
	}
	setAttr(n, "class", strings.Join(list, " "))
}

// ToggleClass flips class on n and reports whether it is now present.
func (d *Document) ToggleClass(n *html.Node, class string) bool {
	if d.HasClass(n, class) {
		d.RemoveClass(n, class)
		return false
	}
	d.AddClass(n, class)
	return true
}

func (d *Document) SetText(n *html.Node, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	replaceText(n, text)
}

// AppendHTML parses fragment in the context of n and appends the result.
func (d *Document) AppendHTML(n *html.Node, fragment string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes, err := parseFragment(n, fragment)
	if err != nil {
		return err
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InsertAfterHTML parses fragment as siblings of n and places them after it.
func (d *Document) InsertAfterHTML(n *html.Node, fragment string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n.Parent == nil {
		return fmt.Errorf("node %s has no parent", n.Data)
	}
	nodes, err := parseFragment(n.Parent, fragment)
	if err != nil {
		return err
	}
	next := n.NextSibling
	for _, c := range nodes {
		n.Parent.InsertBefore(c, next)
	}
	return nil
}

// Remove detaches n; elements already handed out for it turn stale.
func (d *Document) Remove(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Replace swaps n for a freshly parsed fragment, the way a re-render does.
func (d *Document) Replace(n *html.Node, fragment string) error {
	if err := d.InsertAfterHTML(n, fragment); err != nil {
		return err
	}
	d.Remove(n)
	return nil
}

func parseFragment(context *html.Node, fragment string) ([]*html.Node, error) {
	ctx := context
	if ctx.Type != html.ElementNode {
		ctx = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}
