package widget

import (
	"context"
	"errors"
	"time"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
	"pfwidgets/internal/infrastructure/wait"
)

const (
	inputWarning   = `./following-sibling::div`
	inputHelpBlock = `./following-sibling::span`
	warningTimeout = 3 * time.Second
)

// Input is a text input or textarea with PatternFly help and warning
// blocks.
type Input struct {
	base
}

func NewInput(parent Parent, criteria entity.Criteria) (*Input, error) {
	if err := criteria.Validate("Input", entity.CriteriaID, entity.CriteriaName, entity.CriteriaLocator); err != nil {
		return nil, err
	}
	var locator string
	switch criteria.Kind() {
	case entity.CriteriaID:
		locator = xpath.Format(`.//*[(self::input or self::textarea) and @id=%s]`, criteria.Value())
	case entity.CriteriaName:
		locator = xpath.Format(`.//*[(self::input or self::textarea) and @name=%s]`, criteria.Value())
	default:
		locator = criteria.Value()
	}
	return &Input{base: newBase(parent, "Input", locator)}, nil
}

func (i *Input) Value(ctx context.Context) (string, error) {
	el, err := i.Root(ctx)
	if err != nil {
		return "", err
	}
	return i.browser.Value(ctx, el)
}

func (i *Input) Read(ctx context.Context) (string, error) {
	return i.Value(ctx)
}

// Fill types value unless the input already holds it.
func (i *Input) Fill(ctx context.Context, value string) (bool, error) {
	current, err := i.Value(ctx)
	if err != nil {
		return false, err
	}
	if current == value {
		return false, nil
	}
	el, err := i.Root(ctx)
	if err != nil {
		return false, err
	}
	if err := i.browser.Fill(ctx, el, value); err != nil {
		return false, err
	}
	return true, nil
}

// HelpBlock returns the text of the help span next to the input, or "".
func (i *Input) HelpBlock(ctx context.Context) (string, error) {
	return i.optionalText(ctx, inputHelpBlock)
}

// Warning waits briefly for a validation message next to the input and
// returns "" when none shows up.
func (i *Input) Warning(ctx context.Context) (string, error) {
	var text string
	err := wait.For(ctx, i.timing.pollFor("input warning", min(warningTimeout, i.timing.Timeout)),
		func(ctx context.Context) (bool, error) {
			t, err := i.textOf(ctx, inputWarning)
			if notFound(err) {
				return false, nil
			}
			text = t
			return err == nil, err
		})
	if errors.Is(err, entity.ErrTimeout) {
		return "", nil
	}
	return text, err
}
