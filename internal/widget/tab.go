package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
	"pfwidgets/internal/infrastructure/wait"
)

const (
	tabSelector = `.//ul[contains(@class, "nav-tabs")]/li[./a[normalize-space(.)=%s]]`
	tabSubItem  = `./ul/li[normalize-space(.)=%s]`
)

// Tab is a view shown by a nav-tabs selector. Accessing a child widget
// selects the tab first.
type Tab struct {
	*View
	name string
}

// NewTab creates a tab labelled name. The content locator may be empty, in
// which case children are looked up in the parent scope.
func NewTab(parent Parent, name, locator string) *Tab {
	t := &Tab{View: newView(parent, "Tab", locator), name: name}
	t.host = t
	t.onAccess = t.Select
	t.logger = parent.Logger().WithFields(map[string]any{"widget": "Tab", "tab": name})
	return t
}

func (t *Tab) String() string { return fmt.Sprintf("<Tab %q>", t.name) }

func (t *Tab) TabName() string { return t.name }

func (t *Tab) selector(ctx context.Context) (output.Element, error) {
	return t.inParent(ctx, xpath.Format(tabSelector, t.name))
}

func (t *Tab) selectorHasClass(ctx context.Context, class string) (bool, error) {
	el, err := t.selector(ctx)
	if err != nil {
		return false, err
	}
	return t.hasClass(ctx, el, class)
}

func (t *Tab) IsActive(ctx context.Context) (bool, error) {
	return t.selectorHasClass(ctx, "active")
}

func (t *Tab) IsDisabled(ctx context.Context) (bool, error) {
	return t.selectorHasClass(ctx, "disabled")
}

// IsDisplayed reports whether the tab selector is shown.
func (t *Tab) IsDisplayed(ctx context.Context) (bool, error) {
	el, err := t.selector(ctx)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.browser.IsDisplayed(ctx, el)
}

// Click clicks the tab selector.
func (t *Tab) Click(ctx context.Context) error {
	el, err := t.selector(ctx)
	if err != nil {
		return err
	}
	return t.browser.Click(ctx, el)
}

func (t *Tab) Select(ctx context.Context) error {
	active, err := t.IsActive(ctx)
	if err != nil || active {
		return err
	}
	disabled, err := t.IsDisabled(ctx)
	if err != nil {
		return err
	}
	if disabled {
		return fmt.Errorf("%w: the tab %s you are trying to select is disabled", entity.ErrDisabled, t.name)
	}
	t.logger.Info("Opened the tab")
	return t.Click(ctx)
}

// GenericTabWithDropdown is a tab whose selector opens a menu. It does not
// select itself on access since the menu item is only known to Select.
type GenericTabWithDropdown struct {
	*Tab
}

func NewGenericTabWithDropdown(parent Parent, name, locator string) *GenericTabWithDropdown {
	t := NewTab(parent, name, locator)
	t.onAccess = nil
	g := &GenericTabWithDropdown{Tab: t}
	t.host = g
	return g
}

func (t *GenericTabWithDropdown) String() string { return fmt.Sprintf("<TabWithDropdown %q>", t.name) }

func (t *GenericTabWithDropdown) IsDropdown(ctx context.Context) (bool, error) {
	return t.selectorHasClass(ctx, "dropdown")
}

func (t *GenericTabWithDropdown) IsOpen(ctx context.Context) (bool, error) {
	return t.selectorHasClass(ctx, "open")
}

func (t *GenericTabWithDropdown) Open(ctx context.Context) error {
	open, err := t.IsOpen(ctx)
	if err != nil || open {
		return err
	}
	t.logger.Info("Opened the tab")
	return t.Click(ctx)
}

func (t *GenericTabWithDropdown) Close(ctx context.Context) error {
	open, err := t.IsOpen(ctx)
	if err != nil || !open {
		return err
	}
	t.logger.Info("Closed the tab")
	return t.Click(ctx)
}

// Select opens the menu and clicks subItem.
func (t *GenericTabWithDropdown) Select(ctx context.Context, subItem string) error {
	dropdown, err := t.IsDropdown(ctx)
	if err != nil {
		return err
	}
	if !dropdown {
		return fmt.Errorf("%w: %s is not a tab with dropdown", entity.ErrIllegalState, t)
	}
	if err := t.Open(ctx); err != nil {
		return err
	}
	sel, err := t.selector(ctx)
	if err != nil {
		return err
	}
	t.logger.Info("Clicking the sub-item", "item", subItem)
	item, err := t.browser.Element(ctx, xpath.Format(tabSubItem, subItem), sel)
	if err != nil {
		return err
	}
	return t.browser.Click(ctx, item)
}

// TabWithDropdown is a dropdown tab with a fixed menu item, so it selects
// itself on access like a plain tab.
type TabWithDropdown struct {
	*GenericTabWithDropdown
	subItem string
}

func NewTabWithDropdown(parent Parent, name, subItem, locator string) *TabWithDropdown {
	g := NewGenericTabWithDropdown(parent, name, locator)
	t := &TabWithDropdown{GenericTabWithDropdown: g, subItem: subItem}
	g.host = t
	g.onAccess = t.Select
	return t
}

func (t *TabWithDropdown) String() string {
	return fmt.Sprintf("<TabWithDropdownDefault %q>", t.name)
}

func (t *TabWithDropdown) Select(ctx context.Context) error {
	return t.GenericTabWithDropdown.Select(ctx, t.subItem)
}

const (
	accordionRoot = `.//div[contains(@class, "panel-group")]/div[contains(@class, "panel") and ./div/h4/a[normalize-space(.)=%s]]`
	accordionTree = `.//miq-tree-view` +
		`|.//div[contains(@class, "treeview") and ./ul]` +
		`|.//div[./ul[contains(@class, "dynatree-container")]]`
	accordionHeader = `./div/h4/a`
	accordionPanel  = `./div[contains(@class, "panel-collapse")]`
	accordionOpen   = 3 * time.Second
)

var _ output.TreeScope = (*Accordion)(nil)

// Accordion is a collapsible panel holding widgets, often a tree. Accessing
// a child opens it.
type Accordion struct {
	*View
	name string

	treeMu sync.Mutex
	treeID string
}

func NewAccordion(parent Parent, name string) *Accordion {
	a := &Accordion{View: newView(parent, "Accordion", xpath.Format(accordionRoot, name)), name: name}
	a.host = a
	a.onAccess = a.Open
	a.logger = parent.Logger().WithFields(map[string]any{"widget": "Accordion", "accordion": name})
	return a
}

func (a *Accordion) String() string { return fmt.Sprintf("<Accordion %q>", a.name) }

func (a *Accordion) AccordionName() string { return a.name }

// IsOpened trusts aria-expanded when present, otherwise the collapse
// classes of the panel body.
func (a *Accordion) IsOpened(ctx context.Context) (bool, error) {
	root, err := a.Root(ctx)
	if err != nil {
		return false, err
	}
	expanded, ok, err := a.browser.Attribute(ctx, root, "aria-expanded")
	if err != nil {
		return false, err
	}
	if ok {
		return strings.EqualFold(strings.TrimSpace(expanded), "true"), nil
	}
	panel, err := a.browser.Element(ctx, accordionPanel, root)
	if err != nil {
		return false, err
	}
	classes, err := a.browser.Classes(ctx, panel)
	if err != nil {
		return false, err
	}
	return classes.Has("collapse") && classes.Has("in"), nil
}

func (a *Accordion) IsClosed(ctx context.Context) (bool, error) {
	opened, err := a.IsOpened(ctx)
	return !opened, err
}

// Click clicks the header link.
func (a *Accordion) Click(ctx context.Context) error {
	header, err := a.find(ctx, accordionHeader)
	if err != nil {
		return err
	}
	return a.browser.Click(ctx, header)
}

// Open clicks the header and waits for the panel, clicking once more if
// the first click did not take.
func (a *Accordion) Open(ctx context.Context) error {
	for attempt := 0; attempt < 2; attempt++ {
		closed, err := a.IsClosed(ctx)
		if err != nil {
			return err
		}
		if !closed {
			return nil
		}
		if attempt == 0 {
			a.logger.Info("Opening")
		} else {
			a.logger.Warn("Could not open the accordion, trying clicking again")
		}
		if err := a.Click(ctx); err != nil {
			return err
		}
		err = a.waitOpen(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, entity.ErrTimeout) {
			return err
		}
	}
	a.logger.Error("Could not open the accordion")
	return &entity.OperationError{Widget: a.String(), Op: "open"}
}

func (a *Accordion) waitOpen(ctx context.Context) error {
	return wait.For(ctx, a.timing.pollFor("accordion "+a.name+" open", min(accordionOpen, a.timing.Timeout)), a.IsOpened)
}

func (a *Accordion) Close(ctx context.Context) error {
	opened, err := a.IsOpened(ctx)
	if err != nil || !opened {
		return err
	}
	a.logger.Info("Closing")
	return a.Click(ctx)
}

// TreeID returns the id, or failing that the name, of the tree inside the
// accordion. The result is cached until Invalidate.
func (a *Accordion) TreeID(ctx context.Context) (string, error) {
	a.treeMu.Lock()
	defer a.treeMu.Unlock()
	if a.treeID != "" {
		return a.treeID, nil
	}

	tree, err := a.find(ctx, accordionTree)
	if notFound(err) {
		return "", fmt.Errorf("no tree in the accordion %s: %w", a.name, err)
	}
	if err != nil {
		return "", err
	}
	id, err := a.attr(ctx, tree, "id")
	if err != nil {
		return "", err
	}
	if id == "" {
		if id, err = a.attr(ctx, tree, "name"); err != nil {
			return "", err
		}
	}
	a.treeID = id
	return id, nil
}

// Invalidate drops cached children and the cached tree id.
func (a *Accordion) Invalidate() {
	a.treeMu.Lock()
	a.treeID = ""
	a.treeMu.Unlock()
	a.View.Invalidate()
}
