package widget

import (
	"context"
	"fmt"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

const (
	switchByLabel = `.//div/text()[normalize-space(.)=%s]/preceding-sibling::div[1]//div[contains(@class, "bootstrap-switch-container")]//input`
	switchByAttr  = `.//div/div[contains(@class, "bootstrap-switch-container")]//input[@%s=%s]`
	switchParent  = `./..`
)

// BootstrapSwitch is the on/off switch wrapping a hidden checkbox. The
// root is the input; clicks go to its wrapper.
type BootstrapSwitch struct {
	base
	criteria entity.Criteria
}

func NewBootstrapSwitch(parent Parent, criteria entity.Criteria) (*BootstrapSwitch, error) {
	if err := criteria.Validate("BootstrapSwitch", entity.CriteriaID, entity.CriteriaName, entity.CriteriaLabel); err != nil {
		return nil, err
	}
	var locator string
	switch criteria.Kind() {
	case entity.CriteriaLabel:
		locator = xpath.Format(switchByLabel, criteria.Value())
	case entity.CriteriaID:
		locator = fmt.Sprintf(switchByAttr, "id", xpath.Quote(criteria.Value()))
	default:
		locator = fmt.Sprintf(switchByAttr, "name", xpath.Quote(criteria.Value()))
	}
	return &BootstrapSwitch{base: newBase(parent, "BootstrapSwitch", locator), criteria: criteria}, nil
}

func (s *BootstrapSwitch) String() string { return describe("BootstrapSwitch", s.criteria.String()) }

// Selected trusts the angular ng-empty classes over the checked state,
// which is not always updated.
func (s *BootstrapSwitch) Selected(ctx context.Context) (bool, error) {
	el, err := s.Root(ctx)
	if err != nil {
		return false, err
	}
	classes, err := s.browser.Classes(ctx, el)
	if err != nil {
		return false, err
	}
	switch {
	case classes.Has("ng-not-empty"):
		return true, nil
	case classes.Has("ng-empty"):
		return false, nil
	}
	return s.browser.IsSelected(ctx, el)
}

func (s *BootstrapSwitch) IsDisplayed(ctx context.Context) (bool, error) {
	wrapper, err := s.find(ctx, switchParent)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.browser.IsDisplayed(ctx, wrapper)
}

func (s *BootstrapSwitch) Click(ctx context.Context) error {
	wrapper, err := s.find(ctx, switchParent)
	if err != nil {
		return err
	}
	return s.browser.Click(ctx, wrapper)
}

// Fill flips the switch when it differs from value and fails if it did
// not follow.
func (s *BootstrapSwitch) Fill(ctx context.Context, value bool) (bool, error) {
	current, err := s.Selected(ctx)
	if err != nil {
		return false, err
	}
	if current == value {
		return false, nil
	}
	if err := s.Click(ctx); err != nil {
		return false, err
	}
	current, err = s.Selected(ctx)
	if err != nil {
		return false, err
	}
	if current != value {
		return false, &entity.OperationError{Widget: s.String(), Op: fmt.Sprintf("set to %t", value)}
	}
	s.logger.Info("Switched", "value", value)
	return true, nil
}

func (s *BootstrapSwitch) Read(ctx context.Context) (bool, error) {
	return s.Selected(ctx)
}
