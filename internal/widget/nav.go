package widget

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

const (
	navDropdownRoot   = `//nav//li[.//a[@id=%s and contains(@class, "dropdown-toggle")] and contains(@class, "dropdown")]`
	navDropdownToggle = `./a[contains(@class, "dropdown-toggle")]`
	navDropdownText   = `./a//p`
	navDropdownIcon   = `./a/span[contains(@class, "pficon")]`
	navDropdownItems  = `./ul/li[not(contains(@class, "divider"))]`
	navDropdownItem   = `./ul/li[normalize-space(.)=%s]`
)

// NavDropdown is a dropdown in the top navigation bar.
type NavDropdown struct {
	base
	id string
}

func NewNavDropdown(parent Parent, id string) *NavDropdown {
	return &NavDropdown{base: newBase(parent, "NavDropdown", xpath.Format(navDropdownRoot, id)), id: id}
}

func (d *NavDropdown) String() string { return describe("NavDropdown", fmt.Sprintf("id=%q", d.id)) }

func (d *NavDropdown) Expandable(ctx context.Context) (bool, error) {
	return d.present(ctx, navDropdownToggle)
}

func (d *NavDropdown) Expanded(ctx context.Context) (bool, error) {
	expandable, err := d.Expandable(ctx)
	if err != nil || !expandable {
		return false, err
	}
	return d.rootHasClass(ctx, "open")
}

func (d *NavDropdown) Collapsed(ctx context.Context) (bool, error) {
	expanded, err := d.Expanded(ctx)
	return !expanded, err
}

func (d *NavDropdown) Expand(ctx context.Context) error {
	expandable, err := d.Expandable(ctx)
	if err != nil {
		return err
	}
	if !expandable {
		return fmt.Errorf("%w: %s is not expandable", entity.ErrIllegalState, d)
	}
	return d.toggle(ctx, true)
}

// Collapse is a no-op for dropdowns without a toggle.
func (d *NavDropdown) Collapse(ctx context.Context) error {
	expandable, err := d.Expandable(ctx)
	if err != nil || !expandable {
		return err
	}
	return d.toggle(ctx, false)
}

func (d *NavDropdown) toggle(ctx context.Context, expand bool) error {
	expanded, err := d.Expanded(ctx)
	if err != nil || expanded == expand {
		return err
	}
	if err := d.Click(ctx); err != nil {
		return err
	}
	op := "collapse"
	if expand {
		op = "expand"
	}
	err = d.waitFor(ctx, d.String()+" "+op, func(ctx context.Context) (bool, error) {
		now, err := d.Expanded(ctx)
		return now == expand, err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", &entity.OperationError{Widget: d.String(), Op: op}, err)
	}
	d.logger.Info("Toggled", "op", op)
	return nil
}

// Text returns the label of the dropdown, or "" when it has none.
func (d *NavDropdown) Text(ctx context.Context) (string, error) {
	return d.optionalText(ctx, navDropdownText)
}

func (d *NavDropdown) Read(ctx context.Context) (string, error) {
	return d.Text(ctx)
}

// Icon returns the pficon name without its prefix, or "".
func (d *NavDropdown) Icon(ctx context.Context) (string, error) {
	el, err := d.find(ctx, navDropdownIcon)
	if notFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	classes, err := d.browser.Classes(ctx, el)
	if err != nil {
		return "", err
	}
	for _, class := range classes.List() {
		if name, ok := strings.CutPrefix(class, "pficon-"); ok {
			return name, nil
		}
	}
	return "", nil
}

func (d *NavDropdown) Items(ctx context.Context) ([]string, error) {
	els, err := d.findAll(ctx, navDropdownItems)
	if err != nil {
		return nil, err
	}
	return d.texts(ctx, els)
}

func (d *NavDropdown) HasItem(ctx context.Context, item string) (bool, error) {
	items, err := d.Items(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(items, item), nil
}

func (d *NavDropdown) ItemEnabled(ctx context.Context, item string) (bool, error) {
	items, err := d.Items(ctx)
	if err != nil {
		return false, err
	}
	if !slices.Contains(items, item) {
		return false, &entity.ItemNotFoundError{Widget: d.String(), Item: item, Options: items}
	}
	el, err := d.find(ctx, xpath.Format(navDropdownItem, item))
	if err != nil {
		return false, err
	}
	disabled, err := d.hasClass(ctx, el, "disabled")
	return !disabled, err
}

func (d *NavDropdown) SelectItem(ctx context.Context, item string) error {
	enabled, err := d.ItemEnabled(ctx, item)
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("%w: cannot click disabled item %q", entity.ErrDisabled, item)
	}
	if err := d.Expand(ctx); err != nil {
		return err
	}
	d.logger.Info("Selecting item", "item", item)
	el, err := d.find(ctx, xpath.Format(navDropdownItem, item))
	if err != nil {
		return err
	}
	return d.browser.Click(ctx, el)
}

const (
	bsNavItems           = `.//li`
	bsNavSelected        = `.//li[contains(@class, "active")]/a`
	bsNavText            = `.//li/a[text()=%s]`
	bsNavPartial         = `.//li/a[contains(normalize-space(.), %s)]`
	bsNavAttr            = `.//li/a[@%s=%s]`
	bsNavTextDisabled    = `.//li[contains(@class, "disabled")]/a[text()=%s]`
	bsNavPartialDisabled = `.//li[contains(@class, "disabled")]/a[contains(normalize-space(.), %s)]`
	bsNavAttrDisabled    = `.//li[contains(@class, "disabled")]/a[@%s=%s]`
)

var navItemAttrs = []string{"class", "href", "id", "title"}

// NavItem picks a link of a BootstrapNav by text or by one of the
// attributes href, title, class or id.
type NavItem struct {
	Text    string
	Partial bool
	Attr    string
	Value   string
}

// NavText matches a link by its exact text.
func NavText(text string) NavItem { return NavItem{Text: text} }

// NavAttr matches a link by attribute.
func NavAttr(attr, value string) NavItem { return NavItem{Attr: attr, Value: value} }

func (i NavItem) locator(disabled bool) (string, error) {
	switch {
	case i.Text != "" && i.Partial:
		if disabled {
			return xpath.Format(bsNavPartialDisabled, i.Text), nil
		}
		return xpath.Format(bsNavPartial, i.Text), nil
	case i.Text != "":
		if disabled {
			return xpath.Format(bsNavTextDisabled, i.Text), nil
		}
		return xpath.Format(bsNavText, i.Text), nil
	case slices.Contains(navItemAttrs, i.Attr):
		if disabled {
			return fmt.Sprintf(bsNavAttrDisabled, i.Attr, xpath.Quote(i.Value)), nil
		}
		return fmt.Sprintf(bsNavAttr, i.Attr, xpath.Quote(i.Value)), nil
	default:
		return "", &entity.ConfigError{
			Widget: "BootstrapNav",
			Reason: "either text or one of " + strings.Join(navItemAttrs, ", ") + " needs to be specified",
		}
	}
}

// BootstrapNav is a Bootstrap nav component located by an explicit XPath.
type BootstrapNav struct {
	base
}

func NewBootstrapNav(parent Parent, locator string) *BootstrapNav {
	return &BootstrapNav{base: newBase(parent, "BootstrapNav", locator)}
}

func (n *BootstrapNav) String() string { return describe("BootstrapNav", fmt.Sprintf("%q", n.locator)) }

func (n *BootstrapNav) CurrentlySelected(ctx context.Context) ([]string, error) {
	els, err := n.findAll(ctx, bsNavSelected)
	if err != nil {
		return nil, err
	}
	return n.texts(ctx, els)
}

func (n *BootstrapNav) AllOptions(ctx context.Context) ([]string, error) {
	els, err := n.findAll(ctx, bsNavItems)
	if err != nil {
		return nil, err
	}
	return n.texts(ctx, els)
}

func (n *BootstrapNav) Read(ctx context.Context) ([]string, error) {
	return n.CurrentlySelected(ctx)
}

func (n *BootstrapNav) Select(ctx context.Context, item NavItem) error {
	locator, err := item.locator(false)
	if err != nil {
		return err
	}
	link, err := n.find(ctx, locator)
	if err != nil {
		return err
	}
	n.logger.Info("Selecting", "item", item.Text, "attr", item.Attr, "partial", item.Partial)
	return n.browser.Click(ctx, link)
}

func (n *BootstrapNav) IsDisabled(ctx context.Context, item NavItem) (bool, error) {
	locator, err := item.locator(true)
	if err != nil {
		return false, err
	}
	return n.present(ctx, locator)
}

func (n *BootstrapNav) HasItem(ctx context.Context, item NavItem) (bool, error) {
	locator, err := item.locator(false)
	if err != nil {
		return false, err
	}
	return n.present(ctx, locator)
}

const (
	vnavSelected     = `.//li[contains(@class, "active")]/a`
	vnavLinks        = `./li/a`
	vnavItemMatching = `./li[a[normalize-space(.)=%s]]`
	vnavDivLink      = `./ul/li/a[span[normalize-space(.)=%[1]s] or @href=%[1]s]`
	vnavSubLevel     = `./following-sibling::div[contains(@class, "nav-pf-")]`
	vnavSubItemList  = `./div[contains(@class, "nav-pf-")]/ul`
	vnavChildUL      = `./li[a[normalize-space(.)=%s]]/div[contains(@class, "nav-pf-")]/ul`
	vnavMatchingLI   = `./ul/li[a[span[normalize-space(.)=%s]]]`
	vnavAlertWait    = 2 * time.Second
)

// NavNode is one entry of a vertical navigation tree.
type NavNode struct {
	Text     string
	Children []NavNode
}

// NavSelectOptions tune VerticalNavigation.Select.
type NavSelectOptions struct {
	// HandleAlert accepts a dialog raised by the final click.
	HandleAlert bool
	// Anyway clicks even when levels are already selected.
	Anyway bool
}

func DefaultNavSelectOptions() NavSelectOptions {
	return NavSelectOptions{HandleAlert: true, Anyway: true}
}

// VerticalNavigation is the PatternFly vertical navigation whose sub levels
// open on hover.
type VerticalNavigation struct {
	base
}

func NewVerticalNavigation(parent Parent, locator string) *VerticalNavigation {
	return &VerticalNavigation{base: newBase(parent, "VerticalNavigation", locator)}
}

func (v *VerticalNavigation) String() string {
	return describe("VerticalNavigation", fmt.Sprintf("%q", v.locator))
}

// NavLinks lists link texts under levels; a leaf level yields nothing.
func (v *VerticalNavigation) NavLinks(ctx context.Context, levels ...string) ([]string, error) {
	current, err := v.Root(ctx)
	if err != nil {
		return nil, err
	}
	for i, level := range levels {
		li, err := v.browser.Element(ctx, xpath.Format(vnavItemMatching, level), current)
		if err != nil {
			return nil, err
		}
		current, err = v.browser.Element(ctx, vnavSubItemList, li)
		if notFound(err) && i == len(levels)-1 {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	els, err := v.browser.Elements(ctx, vnavLinks, current)
	if err != nil {
		return nil, err
	}
	return v.texts(ctx, els)
}

// NavItemTree walks every level below start.
func (v *VerticalNavigation) NavItemTree(ctx context.Context, start ...string) ([]NavNode, error) {
	links, err := v.NavLinks(ctx, start...)
	if err != nil || len(links) == 0 {
		return nil, err
	}
	nodes := make([]NavNode, 0, len(links))
	for _, link := range links {
		children, err := v.NavItemTree(ctx, append(slices.Clone(start), link)...)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, NavNode{Text: link, Children: children})
	}
	return nodes, nil
}

func (v *VerticalNavigation) CurrentlySelected(ctx context.Context) ([]string, error) {
	els, err := v.findAll(ctx, vnavSelected)
	if err != nil {
		return nil, err
	}
	return v.texts(ctx, els)
}

func (v *VerticalNavigation) Read(ctx context.Context) ([]string, error) {
	return v.CurrentlySelected(ctx)
}

// Select hovers through the intermediate levels and clicks the last one.
func (v *VerticalNavigation) Select(ctx context.Context, opts NavSelectOptions, levels ...string) error {
	v.logger.Info("Selecting in navigation", "levels", levels)
	if !opts.Anyway {
		selected, err := v.CurrentlySelected(ctx)
		if err != nil {
			return err
		}
		if slices.Equal(selected, levels) {
			return nil
		}
	}

	currentDiv, err := v.childDivFor(ctx)
	if err != nil {
		return err
	}
	for i, level := range levels {
		passed := levels[:i+1]
		finished := i == len(levels)-1

		link, err := v.browser.Element(ctx, xpath.Format(vnavDivLink, level), currentDiv)
		if err != nil {
			return err
		}
		subs, err := v.browser.Elements(ctx, vnavSubLevel, link)
		if err != nil {
			return err
		}
		expands := len(subs) > 0

		switch {
		case finished:
			v.logger.Debug("Finishing the menu selection", "level", level)
			if err := v.browser.Click(ctx, link); err != nil {
				return err
			}
			if opts.HandleAlert {
				if _, err := v.browser.HandleAlert(ctx, true, vnavAlertWait); err != nil {
					return err
				}
			}
		case !expands:
			return fmt.Errorf("%w: %q cannot be expanded", entity.ErrIllegalState, passed)
		default:
			v.logger.Debug("Hovering to open the next level", "level", level)
			if err := v.browser.MoveTo(ctx, link); err != nil {
				return err
			}
			scope := currentDiv
			err := v.waitFor(ctx, "navigation level "+level, func(ctx context.Context) (bool, error) {
				li, err := v.browser.Element(ctx, xpath.Format(vnavMatchingLI, level), scope)
				if notFound(err) {
					return false, nil
				}
				if err != nil {
					return false, err
				}
				return v.hasClass(ctx, li, "is-hover")
			})
			if err != nil {
				return err
			}
			next, err := v.childDivFor(ctx, passed...)
			if err != nil {
				return err
			}
			if err := v.browser.MoveTo(ctx, next); err != nil {
				return err
			}
			currentDiv = next
		}
	}
	return nil
}

// childDivFor returns the div holding the links below levels.
func (v *VerticalNavigation) childDivFor(ctx context.Context, levels ...string) (output.Element, error) {
	current, err := v.Root(ctx)
	if err != nil {
		return nil, err
	}
	for _, level := range levels {
		current, err = v.browser.Element(ctx, xpath.Format(vnavChildUL, level), current)
		if err != nil {
			return nil, err
		}
	}
	return v.browser.Element(ctx, "..", current)
}
