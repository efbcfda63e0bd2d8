package widget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
	"pfwidgets/internal/infrastructure/wait"
)

const (
	dropdownRoot         = `.//div[contains(@class, "dropdown") and ./button[normalize-space(.)=%s or normalize-space(@title)=%s]]`
	dropdownSelectorRoot = `.//div[contains(@class, "dropdown") and ./button[@%s=%s]]`
	dropdownButton       = `./button`
	dropdownItems        = `./ul/li/a`
	dropdownItem         = `./ul/li/a[normalize-space(.)=%s]`

	kebabRoot = `.//div[contains(@class, "dropdown-kebab-pf") and ./button[@id=%s]]`
	kebabMenu = `./ul[contains(@class, "dropdown-menu")]`
)

// AlertAction says what to do with a dialog raised by a click.
type AlertAction int

const (
	AlertIgnore AlertAction = iota
	AlertAccept
	AlertDismiss
)

// Dropdown is a bootstrap button dropdown located by its button text or
// title.
type Dropdown struct {
	base
	label string
}

func NewDropdown(parent Parent, text string) *Dropdown {
	return &Dropdown{base: newBase(parent, "Dropdown", xpath.Format(dropdownRoot, text, text)), label: text}
}

func (d *Dropdown) String() string { return describe("Dropdown", fmt.Sprintf("%q", d.label)) }

func (d *Dropdown) button(ctx context.Context) (output.Element, error) {
	return d.find(ctx, dropdownButton)
}

func (d *Dropdown) IsEnabled(ctx context.Context) (bool, error) {
	button, err := d.button(ctx)
	if err != nil {
		return false, err
	}
	disabled, err := d.hasClass(ctx, button, "disabled")
	return !disabled, err
}

func (d *Dropdown) verifyEnabled(ctx context.Context) error {
	enabled, err := d.IsEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("%w: %s", entity.ErrDisabled, d)
	}
	return nil
}

// CurrentlySelected is the button text.
func (d *Dropdown) CurrentlySelected(ctx context.Context) (string, error) {
	return d.textOf(ctx, dropdownButton)
}

func (d *Dropdown) Read(ctx context.Context) (string, error) {
	return d.CurrentlySelected(ctx)
}

func (d *Dropdown) IsOpen(ctx context.Context) (bool, error) {
	return d.rootHasClass(ctx, "open")
}

func (d *Dropdown) Open(ctx context.Context) error {
	if err := d.verifyEnabled(ctx); err != nil {
		return err
	}
	open, err := d.IsOpen(ctx)
	if err != nil || open {
		return err
	}
	button, err := d.button(ctx)
	if err != nil {
		return err
	}
	return d.browser.Click(ctx, button)
}

// Close clicks the button of an open dropdown. With ignoreNonPresent a
// missing or disabled dropdown is not an error.
func (d *Dropdown) Close(ctx context.Context, ignoreNonPresent bool) error {
	err := d.close(ctx)
	if ignoreNonPresent && (notFound(err) || errors.Is(err, entity.ErrDisabled)) {
		d.logger.Info("Dropdown not present or disabled, nothing to close")
		return nil
	}
	return err
}

func (d *Dropdown) close(ctx context.Context) error {
	if err := d.verifyEnabled(ctx); err != nil {
		return err
	}
	open, err := d.IsOpen(ctx)
	if err != nil || !open {
		return err
	}
	button, err := d.button(ctx)
	if err != nil {
		return err
	}
	return d.browser.Click(ctx, button)
}

func (d *Dropdown) Items(ctx context.Context) ([]string, error) {
	els, err := d.findAll(ctx, dropdownItems)
	if err != nil {
		return nil, err
	}
	return d.texts(ctx, els)
}

func (d *Dropdown) HasItem(ctx context.Context, item string) (bool, error) {
	items, err := d.Items(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(items, item), nil
}

// ItemElement returns the link of item.
func (d *Dropdown) ItemElement(ctx context.Context, item string) (output.Element, error) {
	el, err := d.find(ctx, xpath.Format(dropdownItem, item))
	if !notFound(err) {
		return el, err
	}
	items, ierr := d.Items(ctx)
	if ierr != nil && !notFound(ierr) {
		return nil, ierr
	}
	return nil, &entity.ItemNotFoundError{Widget: d.String(), Item: item, Options: items}
}

// ItemTitle returns the title of item, which usually explains why it is
// disabled.
func (d *Dropdown) ItemTitle(ctx context.Context, item string) (string, error) {
	el, err := d.ItemElement(ctx, item)
	if err != nil {
		return "", err
	}
	title, err := d.attr(ctx, el, "title")
	if err != nil || title != "" {
		return title, err
	}
	li, err := d.browser.Element(ctx, "..", el)
	if err != nil {
		return "", err
	}
	return d.attr(ctx, li, "title")
}

func (d *Dropdown) ItemEnabled(ctx context.Context, item string) (bool, error) {
	el, err := d.ItemElement(ctx, item)
	if err != nil {
		return false, err
	}
	li, err := d.browser.Element(ctx, "..", el)
	if err != nil {
		return false, err
	}
	disabled, err := d.hasClass(ctx, li, "disabled")
	return !disabled, err
}

// ItemSelect opens the dropdown and clicks item. The dropdown is closed
// afterwards whatever happened.
func (d *Dropdown) ItemSelect(ctx context.Context, item string, alert AlertAction) (err error) {
	d.logger.Info("Selecting item", "item", item)
	defer func() {
		if cerr := d.Close(ctx, true); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := d.Open(ctx); err != nil {
		return err
	}
	enabled, err := d.ItemEnabled(ctx, item)
	if err != nil {
		return err
	}
	if !enabled {
		reason, err := d.ItemTitle(ctx, item)
		if err != nil {
			return err
		}
		items, err := d.Items(ctx)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: item %q of %s is disabled due to %q, available items: %s",
			entity.ErrDisabled, item, d, reason, strings.Join(items, ";"))
	}
	el, err := d.ItemElement(ctx, item)
	if err != nil {
		return err
	}
	if err := d.browser.Click(ctx, el); err != nil {
		return err
	}
	if alert != AlertIgnore {
		if _, err := d.browser.HandleAlert(ctx, alert == AlertAccept, d.timing.Timeout); err != nil {
			return err
		}
	}
	return nil
}

// Hover returns the button title, shown as a tooltip on disabled
// dropdowns.
func (d *Dropdown) Hover(ctx context.Context) (string, error) {
	button, err := d.button(ctx)
	if err != nil {
		return "", err
	}
	return d.attr(ctx, button, "title")
}

// SelectorDropdown is a Dropdown whose button shows the chosen item, so
// it can be read and filled.
type SelectorDropdown struct {
	*Dropdown
	attrName  string
	attrValue string
}

// NewSelectorDropdown locates the dropdown by an attribute of its button.
func NewSelectorDropdown(parent Parent, attrName, attrValue string) (*SelectorDropdown, error) {
	if !xpath.IsAttrName(attrName) {
		return nil, &entity.ConfigError{Widget: "SelectorDropdown", Reason: fmt.Sprintf("invalid attribute name %q", attrName)}
	}
	locator := fmt.Sprintf(dropdownSelectorRoot, attrName, xpath.Quote(attrValue))
	d := &Dropdown{base: newBase(parent, "SelectorDropdown", locator), label: attrValue}
	return &SelectorDropdown{Dropdown: d, attrName: attrName, attrValue: attrValue}, nil
}

func (s *SelectorDropdown) String() string {
	return describe("SelectorDropdown", fmt.Sprintf("%s=%q", s.attrName, s.attrValue))
}

// ItemSelect selects item and waits up to 3s for the button to show it.
func (s *SelectorDropdown) ItemSelect(ctx context.Context, item string, alert AlertAction) error {
	if err := s.Dropdown.ItemSelect(ctx, item, alert); err != nil {
		return err
	}
	return waitForSelection(ctx, s.Dropdown, item)
}

func waitForSelection(ctx context.Context, d *Dropdown, item string) error {
	opts := d.timing.pollFor("dropdown shows "+item, min(3*time.Second, d.timing.Timeout))
	return wait.For(ctx, opts, func(ctx context.Context) (bool, error) {
		current, err := d.CurrentlySelected(ctx)
		return current == item, err
	})
}

func (s *SelectorDropdown) Fill(ctx context.Context, value string) (bool, error) {
	current, err := s.CurrentlySelected(ctx)
	if err != nil {
		return false, err
	}
	if current == value {
		return false, nil
	}
	if err := s.ItemSelect(ctx, value, AlertIgnore); err != nil {
		return false, err
	}
	return true, nil
}

// Kebab is the PatternFly kebab menu.
type Kebab struct {
	base
	criteria entity.Criteria
}

// NewKebab locates the kebab by the id of its button or by a locator.
func NewKebab(parent Parent, criteria entity.Criteria) (*Kebab, error) {
	if err := criteria.Validate("Kebab", entity.CriteriaID, entity.CriteriaLocator); err != nil {
		return nil, err
	}
	locator := criteria.Value()
	if criteria.Kind() == entity.CriteriaID {
		locator = xpath.Format(kebabRoot, criteria.Value())
	}
	return &Kebab{base: newBase(parent, "Kebab", locator), criteria: criteria}, nil
}

func (k *Kebab) String() string { return describe("Kebab", k.criteria.String()) }

// IsOpened reports whether the menu is shown.
func (k *Kebab) IsOpened(ctx context.Context) (bool, error) {
	menu, err := k.find(ctx, kebabMenu)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return k.browser.IsDisplayed(ctx, menu)
}

func (k *Kebab) Items(ctx context.Context) ([]string, error) {
	els, err := k.findAll(ctx, dropdownItems)
	if err != nil {
		return nil, err
	}
	return k.texts(ctx, els)
}

func (k *Kebab) HasItem(ctx context.Context, item string) (bool, error) {
	items, err := k.Items(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(items, item), nil
}

func (k *Kebab) Open(ctx context.Context) error {
	return k.toggle(ctx, true)
}

func (k *Kebab) Close(ctx context.Context) error {
	return k.toggle(ctx, false)
}

func (k *Kebab) toggle(ctx context.Context, open bool) error {
	opened, err := k.IsOpened(ctx)
	if err != nil || opened == open {
		return err
	}
	button, err := k.find(ctx, dropdownButton)
	if err != nil {
		return err
	}
	return k.browser.Click(ctx, button)
}

// ItemSelect clicks item. Pass close=false when the item navigates away.
func (k *Kebab) ItemSelect(ctx context.Context, item string, close bool) (err error) {
	if close {
		defer func() {
			if cerr := k.Close(ctx); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	el, err := k.find(ctx, xpath.Format(dropdownItem, item))
	if notFound(err) {
		items, _ := k.Items(ctx)
		return &entity.ItemNotFoundError{Widget: k.String(), Item: item, Options: items}
	}
	if err != nil {
		return err
	}
	if err := k.Open(ctx); err != nil {
		return err
	}
	k.logger.Info("Selecting item", "item", item)
	return k.browser.Click(ctx, el)
}
