package widget

import (
	"context"
	"fmt"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
)

const (
	breadcrumbRoot     = `//ol[contains(@class, "breadcrumb")]`
	breadcrumbElements = `.//li`
	breadcrumbLink     = `.//a`

	breadcrumbAlertWait = 2 * time.Second
)

// BreadCrumb is the PatternFly breadcrumb trail.
type BreadCrumb struct {
	base
}

// NewBreadCrumb uses the first breadcrumb on the page when locator is
// empty.
func NewBreadCrumb(parent Parent, locator string) *BreadCrumb {
	if locator == "" {
		locator = breadcrumbRoot
	}
	return &BreadCrumb{base: newBase(parent, "BreadCrumb", locator)}
}

func (b *BreadCrumb) pathElements(ctx context.Context) ([]output.Element, error) {
	return b.findAll(ctx, breadcrumbElements)
}

func (b *BreadCrumb) Locations(ctx context.Context) ([]string, error) {
	els, err := b.pathElements(ctx)
	if err != nil {
		return nil, err
	}
	return b.texts(ctx, els)
}

func (b *BreadCrumb) ActiveLocation(ctx context.Context) (string, error) {
	els, err := b.pathElements(ctx)
	if err != nil {
		return "", err
	}
	for _, el := range els {
		active, err := b.hasClass(ctx, el, "active")
		if err != nil {
			return "", err
		}
		if active {
			return b.browser.Text(ctx, el)
		}
	}
	return "", fmt.Errorf("%w: no active breadcrumb location", entity.ErrNotFound)
}

// ClickLocation follows the link of the location named name and, when
// handleAlert is set, accepts a dialog that may follow.
func (b *BreadCrumb) ClickLocation(ctx context.Context, name string, handleAlert bool) error {
	els, err := b.pathElements(ctx)
	if err != nil {
		return err
	}
	for _, el := range els {
		text, err := b.browser.Text(ctx, el)
		if err != nil {
			return err
		}
		if text != name {
			continue
		}
		link, err := b.browser.Element(ctx, breadcrumbLink, el)
		if err != nil {
			return err
		}
		if err := b.browser.Click(ctx, link); err != nil {
			return err
		}
		if handleAlert {
			if _, err := b.browser.HandleAlert(ctx, true, breadcrumbAlertWait); err != nil {
				return err
			}
		}
		return nil
	}
	b.logger.Error("Location not found", "location", name)
	return &entity.OperationError{Widget: "BreadCrumb", Op: fmt.Sprintf("click location %q", name)}
}

func (b *BreadCrumb) Read(ctx context.Context) (string, error) {
	return b.ActiveLocation(ctx)
}
