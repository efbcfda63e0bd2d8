package widget

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

const (
	bsSelectStart    = `.//div[contains(@class, "bootstrap-select")]`
	bsSelectOption   = `div/ul/li/a[./span[contains(@class, "text") and %s]]`
	bsSelectSelected = `./div/ul/li[contains(@class, "selected")]/a/span[contains(@class, "text")]`
	bsSelectItems    = `./div/ul/li`
	bsSelectItemText = `.//span[contains(@class, "text")]`
)

// SelectOption is an entry of a BootstrapSelect.
type SelectOption struct {
	Text  string
	Value string
}

// BootstrapSelectOptions tune a BootstrapSelect.
type BootstrapSelectOptions struct {
	// CanHideOnSelect tolerates the widget vanishing after a selection.
	CanHideOnSelect bool
}

// BootstrapSelect is the bootstrap-select replacement of a select tag.
// ByID matches the data-id of its button, ByName the name of the hidden
// select.
type BootstrapSelect struct {
	base
	criteria entity.Criteria
	opts     BootstrapSelectOptions
}

func NewBootstrapSelect(parent Parent, criteria entity.Criteria, opts BootstrapSelectOptions) (*BootstrapSelect, error) {
	if err := criteria.Validate("BootstrapSelect", entity.CriteriaID, entity.CriteriaName, entity.CriteriaLocator); err != nil {
		return nil, err
	}
	var locator string
	switch criteria.Kind() {
	case entity.CriteriaID:
		locator = bsSelectStart + xpath.Format(`/button[normalize-space(@data-id)=%s]/..`, criteria.Value())
	case entity.CriteriaName:
		locator = bsSelectStart + xpath.Format(`/select[normalize-space(@name)=%s]/..`, criteria.Value())
	default:
		locator = criteria.Value()
	}
	return &BootstrapSelect{base: newBase(parent, "BootstrapSelect", locator), criteria: criteria, opts: opts}, nil
}

func (s *BootstrapSelect) String() string { return describe("BootstrapSelect", s.criteria.String()) }

// IsOpen treats a stale root as closed.
func (s *BootstrapSelect) IsOpen(ctx context.Context) (bool, error) {
	open, err := s.rootHasClass(ctx, "open")
	if errors.Is(err, entity.ErrStaleElement) {
		s.logger.Warn("Stale element while checking open state, assuming closed")
		return false, nil
	}
	return open, err
}

func (s *BootstrapSelect) IsMultiple(ctx context.Context) (bool, error) {
	return s.rootHasClass(ctx, "show-tick")
}

func (s *BootstrapSelect) Open(ctx context.Context) error {
	open, err := s.IsOpen(ctx)
	if err != nil || open {
		return err
	}
	if err := s.Click(ctx); err != nil {
		return err
	}
	s.logger.Debug("Opened")
	return nil
}

func (s *BootstrapSelect) Close(ctx context.Context) error {
	open, err := s.IsOpen(ctx)
	if err == nil && open {
		err = s.Click(ctx)
		if err == nil {
			s.logger.Debug("Closed")
		}
	}
	if notFound(err) && s.opts.CanHideOnSelect {
		s.logger.Info("Select disappeared while closing, ignoring")
		return nil
	}
	return err
}

// SelectByVisibleText clicks every item. Items not found inside the
// widget are looked up in the whole document, since some pages render the
// menu apart from its button.
func (s *BootstrapSelect) SelectByVisibleText(ctx context.Context, items ...SelectItem) error {
	if len(items) > 1 {
		multiple, err := s.IsMultiple(ctx)
		if err != nil {
			return err
		}
		if !multiple {
			return fmt.Errorf("%w: %s does not allow multiple selections", entity.ErrIllegalState, s)
		}
	}
	if err := s.Open(ctx); err != nil {
		return err
	}
	for _, item := range items {
		s.logger.Info("Selecting by visible text", "item", item.String())
		option := fmt.Sprintf(bsSelectOption, item.predicate("."))
		el, err := s.find(ctx, ".//"+option)
		if notFound(err) {
			el, err = s.browser.Element(ctx, "//"+option, nil)
		}
		if notFound(err) {
			return s.itemNotFound(ctx, item.Text)
		}
		if err != nil {
			return err
		}
		if err := s.browser.Click(ctx, el); err != nil {
			return err
		}
	}
	return s.Close(ctx)
}

func (s *BootstrapSelect) itemNotFound(ctx context.Context, item string) error {
	options, err := s.AllOptions(ctx)
	if err != nil && !notFound(err) {
		return err
	}
	texts := make([]string, 0, len(options))
	for _, o := range options {
		texts = append(texts, o.Text)
	}
	return &entity.ItemNotFoundError{Widget: s.String(), Item: item, Options: texts}
}

func (s *BootstrapSelect) AllSelectedOptions(ctx context.Context) ([]string, error) {
	els, err := s.findAll(ctx, bsSelectSelected)
	if err != nil {
		return nil, err
	}
	return s.texts(ctx, els)
}

func (s *BootstrapSelect) AllOptions(ctx context.Context) ([]SelectOption, error) {
	els, err := s.findAll(ctx, bsSelectItems)
	if err != nil {
		return nil, err
	}
	options := make([]SelectOption, 0, len(els))
	for _, el := range els {
		textEl, err := s.browser.Element(ctx, bsSelectItemText, el)
		if err != nil {
			return nil, err
		}
		text, err := s.browser.Text(ctx, textEl)
		if err != nil {
			return nil, err
		}
		value, err := s.attr(ctx, el, "data-original-index")
		if err != nil {
			return nil, err
		}
		options = append(options, SelectOption{Text: text, Value: value})
	}
	return options, nil
}

// SelectedOption returns the first selected option.
func (s *BootstrapSelect) SelectedOption(ctx context.Context) (string, error) {
	selected, err := s.AllSelectedOptions(ctx)
	if err != nil {
		return "", err
	}
	if len(selected) == 0 {
		return "", fmt.Errorf("%w: nothing selected in %s", entity.ErrNotFound, s)
	}
	return selected[0], nil
}

// Read returns every selected option of a multiple select and the single
// selected option otherwise.
func (s *BootstrapSelect) Read(ctx context.Context) ([]string, error) {
	multiple, err := s.IsMultiple(ctx)
	if err != nil {
		return nil, err
	}
	if multiple {
		return s.AllSelectedOptions(ctx)
	}
	selected, err := s.SelectedOption(ctx)
	if err != nil {
		return nil, err
	}
	return []string{selected}, nil
}

// Fill makes items the selection. A multiple select only clicks options
// whose state differs, since a click there toggles.
func (s *BootstrapSelect) Fill(ctx context.Context, items ...string) (bool, error) {
	selected, err := s.AllSelectedOptions(ctx)
	if err != nil {
		return false, err
	}
	want := sortedSet(items)
	have := sortedSet(selected)
	if slices.Equal(want, have) {
		return false, nil
	}

	multiple, err := s.IsMultiple(ctx)
	if err != nil {
		return false, err
	}
	var clicks []SelectItem
	for _, item := range want {
		if !multiple || !slices.Contains(have, item) {
			clicks = append(clicks, Exact(item))
		}
	}
	if multiple {
		for _, item := range have {
			if !slices.Contains(want, item) {
				clicks = append(clicks, Exact(item))
			}
		}
	}
	if err := s.SelectByVisibleText(ctx, clicks...); err != nil {
		return false, err
	}
	return true, nil
}

func sortedSet(items []string) []string {
	set := slices.Clone(items)
	slices.Sort(set)
	return slices.Compact(set)
}
