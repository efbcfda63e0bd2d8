package widget

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pfwidgets/internal/infrastructure/browser/htmldom"
	"pfwidgets/internal/infrastructure/logger"
	"pfwidgets/internal/infrastructure/wait"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var fastTiming = Timing{
	Interval:    time.Millisecond,
	Timeout:     200 * time.Millisecond,
	LoadTimeout: 200 * time.Millisecond,
	Retry:       wait.RetryPolicy{Attempts: 3, Delay: time.Millisecond},
}

func newTestPage(t *testing.T, src string) (*Page, *htmldom.Document) {
	t.Helper()
	doc, err := htmldom.New(src)
	require.NoError(t, err)
	return NewPage(doc, logger.NewNopLogger(), fastTiming), doc
}

// treeNode describes a node of a fixture tree.
type treeNode struct {
	Text     string
	Icon     string
	Style    string
	Checked  bool
	Children []treeNode
}

func leaf(text string) treeNode { return treeNode{Text: text} }

func branch(text string, children ...treeNode) treeNode {
	return treeNode{Text: text, Children: children}
}

// treeFixture renders a bootstrap treeview whose branches load lazily: a
// click on a collapsed arrow shows a spinner for a few queries before the
// children appear.
type treeFixture struct {
	doc      *htmldom.Document
	id       string
	nodes    map[string]treeNode
	loadIn   int
	stuck    bool
	expanded map[string]bool
}

func newTreeFixture(t *testing.T, id string, roots ...treeNode) (*Page, *treeFixture) {
	t.Helper()

	f := &treeFixture{id: id, nodes: make(map[string]treeNode), loadIn: 4, expanded: make(map[string]bool)}
	var items strings.Builder
	for i, root := range roots {
		f.index(fmt.Sprint(i), root)
		items.WriteString(f.render(fmt.Sprint(i), 0, root))
	}

	src := fmt.Sprintf(`<html><body>
<div id="main">
  <div id=%q class="treeview">
    <ul class="list-group">%s</ul>
  </div>
</div>
</body></html>`, id, items.String())

	page, doc := newTestPage(t, src)
	f.doc = doc
	doc.OnClick(`//span[contains(@class, "expand-icon")]`, f.toggle)
	doc.OnClick(`//span[contains(@class, "check-icon")]`, f.check)
	doc.OnClick(`//div[contains(@class, "treeview")]/ul/li`, f.selectNode)
	return page, f
}

func (f *treeFixture) index(nodeid string, n treeNode) {
	f.nodes[nodeid] = n
	for i, child := range n.Children {
		f.index(fmt.Sprintf("%s.%d", nodeid, i), child)
	}
}

func (f *treeFixture) render(nodeid string, depth int, n treeNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<li class="list-group-item node-%s" data-nodeid=%q title=%q>`, f.id, nodeid, n.Text)
	b.WriteString(strings.Repeat(`<span class="indent"></span>`, depth))
	if len(n.Children) > 0 {
		b.WriteString(`<span class="icon expand-icon fa fa-fw fa-angle-right"></span>`)
	} else {
		b.WriteString(`<span class="icon glyphicon"></span>`)
	}
	check := "fa-square-o"
	if n.Checked {
		check = "fa-check-square-o"
	}
	fmt.Fprintf(&b, `<span class="icon check-icon fa fa-fw %s"></span>`, check)
	switch {
	case n.Style != "":
		fmt.Fprintf(&b, `<span class="icon node-image" style='%s'></span>`, n.Style)
	case n.Icon != "":
		fmt.Fprintf(&b, `<span class="icon node-icon %s"></span>`, n.Icon)
	}
	b.WriteString(n.Text)
	b.WriteString(`</li>`)
	return b.String()
}

func nodeID(n *html.Node) string {
	return htmlquery.SelectAttr(n, "data-nodeid")
}

func (f *treeFixture) toggle(d *htmldom.Document, arrow *html.Node) {
	li := arrow.Parent
	nodeid := nodeID(li)

	if f.expanded[nodeid] {
		for _, desc := range d.Query(fmt.Sprintf(`//li[starts-with(@data-nodeid, "%s.")]`, nodeid)) {
			delete(f.expanded, nodeID(desc))
			d.Remove(desc)
		}
		f.expanded[nodeid] = false
		d.RemoveClass(arrow, "fa-angle-down")
		d.AddClass(arrow, "fa-angle-right")
		return
	}

	d.RemoveClass(arrow, "fa-angle-right")
	d.AddClass(arrow, "fa-spinner")
	if f.stuck {
		return
	}
	d.Defer(f.loadIn, func() {
		n := f.nodes[nodeid]
		depth := len(strings.Split(nodeid, "."))
		var children strings.Builder
		for i, child := range n.Children {
			children.WriteString(f.render(fmt.Sprintf("%s.%d", nodeid, i), depth, child))
		}
		if err := d.InsertAfterHTML(li, children.String()); err != nil {
			panic(err)
		}
		f.expanded[nodeid] = true
		d.RemoveClass(arrow, "fa-spinner")
		d.AddClass(arrow, "fa-angle-down")
	})
}

func (f *treeFixture) check(d *htmldom.Document, box *html.Node) {
	if d.HasClass(box, "fa-check-square-o") {
		d.RemoveClass(box, "fa-check-square-o")
		d.AddClass(box, "fa-square-o")
		return
	}
	d.RemoveClass(box, "fa-square-o")
	d.AddClass(box, "fa-check-square-o")
}

func (f *treeFixture) selectNode(d *htmldom.Document, li *html.Node) {
	for _, n := range d.Query(`//li[contains(@class, "node-selected")]`) {
		d.RemoveClass(n, "node-selected")
	}
	d.AddClass(li, "node-selected")
}

// expansion returns the expanded flag of every rendered expandable node.
func (f *treeFixture) expansion() map[string]bool {
	state := make(map[string]bool)
	for _, arrow := range f.doc.Query(`//span[contains(@class, "expand-icon")]`) {
		state[nodeID(arrow.Parent)] = f.doc.HasClass(arrow, "fa-angle-down")
	}
	return state
}

// The tree used by the end-to-end scenarios.
func sampleRoots() []treeNode {
	return []treeNode{
		branch("Parent 1",
			branch("Child 1", leaf("Grandchild 1")),
			leaf("Child 2"),
		),
		{Text: "Parent 2", Children: []treeNode{{Text: "Child A", Checked: true}}},
	}
}

func singleRoot() treeNode {
	return treeNode{
		Text: "Datacenter",
		Icon: "pficon pficon-home",
		Children: []treeNode{
			{
				Text:  "Cluster 1",
				Style: `background-image: url("/assets/svg/vendor-vmware-0a1b2c3d.svg")`,
				Children: []treeNode{
					leaf("Host 1"),
					leaf("Host 2"),
				},
			},
			{
				Text:     "Cluster 10",
				Style:    `background-image: url("/assets/svg/vendor-redhat-4e5f.png")`,
				Children: []treeNode{leaf("Host 10")},
			},
			leaf("Child"),
			leaf("Child 1"),
		},
	}
}
