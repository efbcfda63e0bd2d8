package widget

import (
	"context"
	"fmt"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
)

const (
	treeIsCheckable = `./span[contains(@class, "check-icon")]`
	treeIsChecked   = `./span[contains(@class, "check-icon") and contains(@class, "fa-check-square-o")]`
)

// CheckAction is the value Fill applies to a checkable tree.
type CheckAction struct {
	Check bool
	Path  []entity.Step
}

// CheckableBootstrapTreeview is a tree whose nodes carry checkboxes.
type CheckableBootstrapTreeview struct {
	*BootstrapTreeview
}

func NewCheckableBootstrapTreeview(parent Parent, opts TreeOptions) (*CheckableBootstrapTreeview, error) {
	tree, err := NewBootstrapTreeview(parent, opts)
	if err != nil {
		return nil, err
	}
	tree.logger = parent.Logger().WithField("widget", "CheckableBootstrapTreeview")
	return &CheckableBootstrapTreeview{BootstrapTreeview: tree}, nil
}

func (t *CheckableBootstrapTreeview) IsCheckable(ctx context.Context, item output.Element) (bool, error) {
	return t.has(ctx, treeIsCheckable, item)
}

func (t *CheckableBootstrapTreeview) IsChecked(ctx context.Context, item output.Element) (bool, error) {
	return t.has(ctx, treeIsChecked, item)
}

// CheckNode checks the node at path and reports whether it changed.
func (t *CheckableBootstrapTreeview) CheckNode(ctx context.Context, steps ...entity.Step) (bool, error) {
	return t.setChecked(ctx, true, steps)
}

// UncheckNode unchecks the node at path and reports whether it changed.
func (t *CheckableBootstrapTreeview) UncheckNode(ctx context.Context, steps ...entity.Step) (bool, error) {
	return t.setChecked(ctx, false, steps)
}

// NodeChecked is false for nodes without a checkbox.
func (t *CheckableBootstrapTreeview) NodeChecked(ctx context.Context, steps ...entity.Step) (bool, error) {
	leaf, err := t.ExpandPath(ctx, steps...)
	if err != nil {
		return false, err
	}
	checkable, err := t.IsCheckable(ctx, leaf)
	if err != nil || !checkable {
		return false, err
	}
	return t.IsChecked(ctx, leaf)
}

func (t *CheckableBootstrapTreeview) Fill(ctx context.Context, action CheckAction) (bool, error) {
	return t.setChecked(ctx, action.Check, action.Path)
}

func (t *CheckableBootstrapTreeview) setChecked(ctx context.Context, check bool, steps []entity.Step) (bool, error) {
	leaf, err := t.ExpandPath(ctx, steps...)
	if err != nil {
		return false, err
	}
	checkable, err := t.IsCheckable(ctx, leaf)
	if err != nil {
		return false, err
	}
	if !checkable {
		id, _ := t.TreeID(ctx)
		return false, fmt.Errorf("%w: item with path %s in %s is not checkable",
			entity.ErrIllegalState, entity.PrettyPath(steps), id)
	}
	checked, err := t.IsChecked(ctx, leaf)
	if err != nil {
		return false, err
	}
	if checked == check {
		return false, nil
	}

	action := "Unchecking"
	if check {
		action = "Checking"
	}
	t.logger.Info(action, "step", steps[len(steps)-1].String())
	box, err := t.browser.Element(ctx, treeIsCheckable, leaf)
	if err != nil {
		return false, err
	}
	if err := t.browser.Click(ctx, box); err != nil {
		return false, fmt.Errorf("click checkbox of %s: %w", entity.PrettyPath(steps), err)
	}
	return true, nil
}
