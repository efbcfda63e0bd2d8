package widget

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
	"pfwidgets/internal/infrastructure/wait"
)

// Tree locators. Item locators are relative to the tree root div.
const (
	treeRoot              = `.//miq-tree-view[@name=%[1]s]/div|.//div[@id=%[1]s]`
	treeRootItem          = `./ul/li[1]`
	treeRootItems         = `./ul/li[not(./span[contains(@class, "indent")])]`
	treeRootItemsWithText = `./ul/li[not(./span[contains(@class, "indent")]) and contains(normalize-space(.), %s)]`
	treeSelectedItem      = `./ul/li[contains(@class, "node-selected")]`
	treeChildItems        = `./ul/li[starts-with(@data-nodeid, %s) and count(./span[contains(@class, "indent")])=%d]`
	treeChildItemsText    = `./ul/li[starts-with(@data-nodeid, %[1]s)` +
		` and (contains(@title, %[2]s) or contains(normalize-space(.), %[2]s))` +
		` and count(./span[contains(@class, "indent")])=%[3]d]`
	treeItemByNodeID = `./ul/li[@data-nodeid=%s]`
	treeIsExpandable = `./span[contains(@class, "expand-icon")]`
	treeIsExpanded   = `./span[contains(@class, "expand-icon") and contains(@class, "fa-angle-down")]`
	treeIsLoading    = `./span[contains(@class, "expand-icon") and contains(@class, "fa-spinner")]`
	treeIndent       = `./span[contains(@class, "indent")]`
	treeImage        = `./span[contains(@class, "node-image") or contains(@class, "node-icon")]`
)

var (
	imageURL  = regexp.MustCompile(`url\("([^"]+)"\)`)
	imageName = regexp.MustCompile(`/([^/]+)-[0-9a-f]+\.(?:png|svg)$`)
)

var imageClassPrefixes = []string{"fa-", "product-", "vendor-", "pficon-"}

// TreeOptions configure a tree. TreeID may be left empty when the parent
// implements output.TreeScope.
type TreeOptions struct {
	TreeID string
}

// ReadOptions configure ReadContents.
type ReadOptions struct {
	// NodeID to start from; empty starts at the root.
	NodeID        string
	IncludeImages bool
	// CollapseAfterRead collapses again every branch the read expanded.
	CollapseAfterRead bool
}

// BootstrapTreeview is the patternfly-bootstrap-treeview control. Nodes carry
// dot separated data-nodeid values whose prefix encodes ancestry; a node's
// depth equals its count of indent spans.
type BootstrapTreeview struct {
	base
	scope output.TreeScope

	mu     sync.Mutex
	treeID string
}

func NewBootstrapTreeview(parent Parent, opts TreeOptions) (*BootstrapTreeview, error) {
	t := &BootstrapTreeview{base: newBase(parent, "BootstrapTreeview", ""), treeID: opts.TreeID}
	if t.treeID == "" {
		scope, ok := parent.(output.TreeScope)
		if !ok {
			return nil, fmt.Errorf("bootstrap tree: %w", entity.ErrNoTreeScope)
		}
		t.scope = scope
	}
	return t, nil
}

// TreeID returns the configured id, resolving it once from the host when
// none was given.
func (t *BootstrapTreeview) TreeID(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.treeID != "" {
		return t.treeID, nil
	}
	id, err := t.scope.TreeID(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve tree id: %w", err)
	}
	if id == "" {
		return "", fmt.Errorf("bootstrap tree: %w", entity.ErrNoTreeScope)
	}
	t.treeID = id
	return id, nil
}

func (t *BootstrapTreeview) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return describe("BootstrapTreeview", strconv.Quote(t.treeID))
}

// Root returns the div holding the tree's ul.
func (t *BootstrapTreeview) Root(ctx context.Context) (output.Element, error) {
	id, err := t.TreeID(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := t.parent.Root(ctx)
	if err != nil {
		return nil, err
	}
	return t.browser.Element(ctx, xpath.Format(treeRoot, id), scope)
}

func (t *BootstrapTreeview) IsDisplayed(ctx context.Context) (bool, error) {
	root, err := t.Root(ctx)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.browser.IsDisplayed(ctx, root)
}

func (t *BootstrapTreeview) items(ctx context.Context, locator string) ([]output.Element, error) {
	root, err := t.Root(ctx)
	if err != nil {
		return nil, err
	}
	return t.browser.Elements(ctx, locator, root)
}

func (t *BootstrapTreeview) has(ctx context.Context, locator string, item output.Element) (bool, error) {
	els, err := t.browser.Elements(ctx, locator, item)
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

func (t *BootstrapTreeview) RootItems(ctx context.Context) ([]output.Element, error) {
	return t.items(ctx, treeRootItems)
}

func (t *BootstrapTreeview) RootItemCount(ctx context.Context) (int, error) {
	items, err := t.RootItems(ctx)
	return len(items), err
}

// RootItem returns the single root item, or nil when the tree has several.
func (t *BootstrapTreeview) RootItem(ctx context.Context) (output.Element, error) {
	count, err := t.RootItemCount(ctx)
	if err != nil || count != 1 {
		return nil, err
	}
	items, err := t.items(ctx, treeRootItem)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// SelectedItem returns the highlighted node or nil.
func (t *BootstrapTreeview) SelectedItem(ctx context.Context) (output.Element, error) {
	items, err := t.items(ctx, treeSelectedItem)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

func (t *BootstrapTreeview) Indents(ctx context.Context, item output.Element) (int, error) {
	els, err := t.browser.Elements(ctx, treeIndent, item)
	return len(els), err
}

func (t *BootstrapTreeview) IsExpandable(ctx context.Context, item output.Element) (bool, error) {
	return t.has(ctx, treeIsExpandable, item)
}

func (t *BootstrapTreeview) IsExpanded(ctx context.Context, item output.Element) (bool, error) {
	return t.has(ctx, treeIsExpanded, item)
}

func (t *BootstrapTreeview) IsLoading(ctx context.Context, item output.Element) (bool, error) {
	return t.has(ctx, treeIsLoading, item)
}

func (t *BootstrapTreeview) IsCollapsed(ctx context.Context, item output.Element) (bool, error) {
	expanded, err := t.IsExpanded(ctx, item)
	return !expanded, err
}

func (t *BootstrapTreeview) IsSelected(ctx context.Context, item output.Element) (bool, error) {
	return t.hasClass(ctx, item, "node-selected")
}

func (t *BootstrapTreeview) NodeID(ctx context.Context, item output.Element) (string, error) {
	return t.attr(ctx, item, "data-nodeid")
}

// ChildItems returns the direct children of item, or the root items when
// item is nil. Deeper descendants share the nodeid prefix but not the
// indent count, which is what tells them apart.
func (t *BootstrapTreeview) ChildItems(ctx context.Context, item output.Element) ([]output.Element, error) {
	if item == nil {
		return t.RootItems(ctx)
	}
	nodeid, indents, err := t.position(ctx, item)
	if err != nil {
		return nil, err
	}
	return t.items(ctx, fmt.Sprintf(treeChildItems, xpath.Quote(nodeid+"."), indents+1))
}

// ChildItemsWithText narrows ChildItems to nodes whose title or text
// contains text.
func (t *BootstrapTreeview) ChildItemsWithText(ctx context.Context, item output.Element, text string) ([]output.Element, error) {
	if item == nil {
		return t.items(ctx, fmt.Sprintf(treeRootItemsWithText, xpath.Quote(text)))
	}
	nodeid, indents, err := t.position(ctx, item)
	if err != nil {
		return nil, err
	}
	return t.items(ctx, fmt.Sprintf(treeChildItemsText, xpath.Quote(nodeid+"."), xpath.Quote(text), indents+1))
}

func (t *BootstrapTreeview) position(ctx context.Context, item output.Element) (string, int, error) {
	nodeid, err := t.NodeID(ctx, item)
	if err != nil {
		return "", 0, err
	}
	indents, err := t.Indents(ctx, item)
	if err != nil {
		return "", 0, err
	}
	return nodeid, indents, nil
}

// ItemByNodeID fails with *entity.CandidateNotFoundError when no node has
// the id.
func (t *BootstrapTreeview) ItemByNodeID(ctx context.Context, nodeid string) (output.Element, error) {
	root, err := t.Root(ctx)
	if err != nil {
		return nil, err
	}
	item, err := t.browser.Element(ctx, fmt.Sprintf(treeItemByNodeID, xpath.Quote(nodeid)), root)
	if notFound(err) {
		id, _ := t.TreeID(ctx)
		return nil, &entity.CandidateNotFoundError{
			Message: fmt.Sprintf("Could not find the item with nodeid %s in Bootstrap tree %s", nodeid, id),
		}
	}
	return item, err
}

// ExpandNode expands a visible node and waits until its children have
// loaded. It returns false for nodes that cannot be expanded.
func (t *BootstrapTreeview) ExpandNode(ctx context.Context, nodeid string) (bool, error) {
	return t.toggleNode(ctx, nodeid, true)
}

// CollapseNode collapses a visible node. It returns false for nodes that
// cannot be expanded.
func (t *BootstrapTreeview) CollapseNode(ctx context.Context, nodeid string) (bool, error) {
	return t.toggleNode(ctx, nodeid, false)
}

func (t *BootstrapTreeview) toggleNode(ctx context.Context, nodeid string, expand bool) (bool, error) {
	node, err := t.ItemByNodeID(ctx, nodeid)
	if err != nil {
		return false, err
	}
	expandable, err := t.IsExpandable(ctx, node)
	if err != nil {
		return false, err
	}
	if !expandable {
		t.logger.Debug("Node not expandable", "nodeid", nodeid)
		return false, nil
	}
	expanded, err := t.IsExpanded(ctx, node)
	if err != nil {
		return false, err
	}
	if expanded == expand {
		t.logger.Debug("Node already in requested state", "nodeid", nodeid, "expanded", expanded)
		return true, nil
	}

	t.logger.Debug("Toggling node", "nodeid", nodeid, "expand", expand)
	arrow, err := t.browser.Element(ctx, treeIsExpandable, node)
	if err != nil {
		return false, err
	}
	if err := t.browser.Click(ctx, arrow); err != nil {
		return false, fmt.Errorf("click expand arrow of %s: %w", nodeid, err)
	}
	if err := t.settle(ctx); err != nil {
		return false, err
	}

	if expand {
		err = wait.For(ctx, t.timing.pollFor("node "+nodeid+" loaded", t.timing.LoadTimeout),
			func(ctx context.Context) (bool, error) {
				loading, err := t.nodeState(ctx, nodeid, t.IsLoading)
				return !loading, err
			})
		if err != nil {
			return false, err
		}
	}

	err = wait.For(ctx, t.timing.poll(fmt.Sprintf("node %s expanded=%t", nodeid, expand)),
		func(ctx context.Context) (bool, error) {
			expanded, err := t.nodeState(ctx, nodeid, t.IsExpanded)
			return expanded == expand, err
		})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *BootstrapTreeview) nodeState(ctx context.Context, nodeid string, probe func(context.Context, output.Element) (bool, error)) (bool, error) {
	node, err := t.ItemByNodeID(ctx, nodeid)
	if err != nil {
		return false, err
	}
	return probe(ctx, node)
}

// ImageOf returns the image name of a node: the file name of a background
// image without path, hash and extension, or the first icon class. It is
// empty when the node has no image.
func (t *BootstrapTreeview) ImageOf(ctx context.Context, item output.Element) (string, error) {
	img, err := t.browser.Element(ctx, treeImage, item)
	if notFound(err) {
		t.logger.Warn("No image tag found")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	style, err := t.attr(ctx, img, "style")
	if err != nil {
		return "", err
	}
	if style != "" {
		href := imageURL.FindStringSubmatch(style)
		if href == nil {
			return "", nil
		}
		name := imageName.FindStringSubmatch(href[1])
		if name == nil {
			return "", nil
		}
		return name[1], nil
	}

	classes, err := t.browser.Classes(ctx, img)
	if err != nil {
		return "", err
	}
	for _, c := range classes.List() {
		for _, prefix := range imageClassPrefixes {
			if strings.HasPrefix(c, prefix) {
				return c, nil
			}
		}
	}
	return "", nil
}

func (t *BootstrapTreeview) matches(ctx context.Context, node output.Element, step entity.Step) (bool, error) {
	text, err := t.browser.Text(ctx, node)
	if err != nil {
		return false, err
	}
	if !step.MatchText(text) {
		return false, nil
	}
	if !step.HasImage() {
		return true, nil
	}
	image, err := t.ImageOf(ctx, node)
	if err != nil {
		return false, err
	}
	return image == step.Image(), nil
}

// ExpandPath walks steps from the root, expanding nodes on the way, and
// returns the node matched by the last step. A tree with a single root
// always checks that root against the first step; a tree with several
// roots matches the first step among them.
func (t *BootstrapTreeview) ExpandPath(ctx context.Context, steps ...entity.Step) (output.Element, error) {
	if len(steps) == 0 {
		return nil, &entity.ConfigError{Widget: "BootstrapTreeview", Reason: "empty path"}
	}
	id, err := t.TreeID(ctx)
	if err != nil {
		return nil, err
	}
	t.logger.Info("Expanding path", "path", entity.PrettyPath(steps), "tree", id)

	notFoundErr := func(tried []entity.Step, cause string) error {
		return &entity.CandidateNotFoundError{
			Message: fmt.Sprintf("Could not find the item %s in Bootstrap tree %s", entity.PrettyPath(tried), id),
			Path:    slices.Clone(tried),
			Cause:   cause,
		}
	}

	node, err := t.RootItem(ctx)
	if err != nil {
		return nil, err
	}

	var tried []entity.Step
	rest := steps
	if node != nil {
		tried = append(tried, steps[0])
		rest = steps[1:]
		t.logger.Debug("Validating root item", "step", steps[0].String())
		ok, err := t.matches(ctx, node, steps[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFoundErr(tried, "Root node did not match "+steps[0].String())
		}
	}

	for _, step := range rest {
		tried = append(tried, step)
		t.logger.Debug("Expanding", "path", entity.PrettyPath(tried))

		if node != nil {
			nodeid, err := t.NodeID(ctx, node)
			if err != nil {
				return nil, err
			}
			expanded, err := t.ExpandNode(ctx, nodeid)
			if err != nil {
				return nil, err
			}
			if !expanded {
				return nil, notFoundErr(tried, fmt.Sprintf("Could not expand the %s node", tried[len(tried)-2]))
			}
			// expanding may have re-rendered the node
			if node, err = t.ItemByNodeID(ctx, nodeid); err != nil {
				return nil, err
			}
		}

		var children []output.Element
		if step.IsLiteral() && !step.HasImage() {
			children, err = t.ChildItemsWithText(ctx, node, step.Literal())
		} else {
			children, err = t.ChildItems(ctx, node)
		}
		if err != nil {
			return nil, err
		}

		var match output.Element
		for _, child := range children {
			ok, err := t.matches(ctx, child, step)
			if err != nil {
				return nil, err
			}
			if ok {
				match = child
				break
			}
		}
		if match == nil {
			if len(tried) < 2 {
				return nil, notFoundErr(tried, "Was not found among the root items")
			}
			return nil, notFoundErr(tried, "Was not found in "+tried[len(tried)-2].String())
		}
		node = match
	}
	return node, nil
}

// ClickPath expands the path and clicks its last node.
func (t *BootstrapTreeview) ClickPath(ctx context.Context, steps ...entity.Step) (output.Element, error) {
	node, err := t.ExpandPath(ctx, steps...)
	if err != nil {
		return nil, err
	}
	t.logger.Info("Clicking node", "step", steps[len(steps)-1].String())
	if err := t.browser.Click(ctx, node); err != nil {
		return nil, fmt.Errorf("click %s: %w", entity.PrettyPath(steps), err)
	}
	return node, nil
}

// HasPath reports whether the path resolves. Only path resolution failures
// turn into false.
func (t *BootstrapTreeview) HasPath(ctx context.Context, steps ...entity.Step) (bool, error) {
	_, err := t.ExpandPath(ctx, steps...)
	if entity.IsCandidateNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadContents expands the tree below the start node and returns it as
// nested contents. Without a start node a single root is read directly;
// several roots are returned as the children of an unnamed node.
func (t *BootstrapTreeview) ReadContents(ctx context.Context, opts ReadOptions) (entity.TreeContent, error) {
	if opts.NodeID != "" {
		return t.readNode(ctx, opts.NodeID, opts)
	}

	items, err := t.RootItems(ctx)
	if err != nil {
		return entity.TreeContent{}, err
	}
	ids, err := t.nodeIDs(ctx, items)
	if err != nil {
		return entity.TreeContent{}, err
	}
	if len(ids) == 1 {
		return t.readNode(ctx, ids[0], opts)
	}

	virtual := entity.TreeContent{}
	for _, id := range ids {
		child, err := t.readNode(ctx, id, opts)
		if err != nil {
			return entity.TreeContent{}, err
		}
		virtual.Children = append(virtual.Children, child)
	}
	return virtual, nil
}

func (t *BootstrapTreeview) nodeIDs(ctx context.Context, items []output.Element) ([]string, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := t.NodeID(ctx, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *BootstrapTreeview) readNode(ctx context.Context, nodeid string, opts ReadOptions) (entity.TreeContent, error) {
	item, err := t.ItemByNodeID(ctx, nodeid)
	if err != nil {
		return entity.TreeContent{}, err
	}
	wasExpanded, err := t.IsExpanded(ctx, item)
	if err != nil {
		return entity.TreeContent{}, err
	}
	if _, err := t.ExpandNode(ctx, nodeid); err != nil {
		return entity.TreeContent{}, err
	}

	if item, err = t.ItemByNodeID(ctx, nodeid); err != nil {
		return entity.TreeContent{}, err
	}
	children, err := t.ChildItems(ctx, item)
	if err != nil {
		return entity.TreeContent{}, err
	}
	childIDs, err := t.nodeIDs(ctx, children)
	if err != nil {
		return entity.TreeContent{}, err
	}

	var contents []entity.TreeContent
	for _, id := range childIDs {
		child, err := t.readNode(ctx, id, opts)
		if err != nil {
			return entity.TreeContent{}, err
		}
		contents = append(contents, child)
	}

	if opts.CollapseAfterRead && !wasExpanded {
		if _, err := t.CollapseNode(ctx, nodeid); err != nil {
			return entity.TreeContent{}, err
		}
	}

	if item, err = t.ItemByNodeID(ctx, nodeid); err != nil {
		return entity.TreeContent{}, err
	}
	text, err := t.browser.Text(ctx, item)
	if err != nil {
		return entity.TreeContent{}, err
	}
	image := ""
	if opts.IncludeImages {
		if image, err = t.ImageOf(ctx, item); err != nil {
			return entity.TreeContent{}, err
		}
	}
	return entity.NewTreeContent(text, image, opts.IncludeImages, contents), nil
}

// CurrentlySelected returns the texts of the selected node and its
// ancestors starting at root level, or nil when nothing is selected.
func (t *BootstrapTreeview) CurrentlySelected(ctx context.Context) ([]string, error) {
	selected, err := t.SelectedItem(ctx)
	if err != nil || selected == nil {
		return nil, err
	}
	selectedID, err := t.NodeID(ctx, selected)
	if err != nil {
		return nil, err
	}
	first, err := t.items(ctx, treeRootItem)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, nil
	}
	rootID, err := t.NodeID(ctx, first[0])
	if err != nil {
		return nil, err
	}

	segments := strings.Split(selectedID, ".")
	var result []string
	for end := len(strings.Split(rootID, ".")); end <= len(segments); end++ {
		item, err := t.ItemByNodeID(ctx, strings.Join(segments[:end], "."))
		if err != nil {
			return nil, err
		}
		text, err := t.browser.Text(ctx, item)
		if err != nil {
			return nil, err
		}
		result = append(result, text)
	}
	return result, nil
}

func (t *BootstrapTreeview) Read(ctx context.Context) ([]string, error) {
	return t.CurrentlySelected(ctx)
}

// Fill selects the node at path unless it already is the selection.
func (t *BootstrapTreeview) Fill(ctx context.Context, path []string) (bool, error) {
	current, err := t.CurrentlySelected(ctx)
	if err != nil {
		return false, err
	}
	if slices.Equal(current, path) {
		return false, nil
	}
	if _, err := t.ClickPath(ctx, entity.Texts(path...)...); err != nil {
		return false, err
	}
	return true, nil
}

