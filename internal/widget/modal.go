package widget

import (
	"context"
	"errors"
	"strings"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

const (
	aboutModalRoot      = `//div[contains(@class, "modal") and contains(@class, "fade") and .//div[contains(@class, "about-modal-pf")]]`
	aboutModalByID      = `//div[normalize-space(@id)=%s and contains(@class, "modal") and contains(@class, "fade") and .//div[contains(@class, "about-modal-pf")]]`
	aboutModalClose     = `.//div[@class="modal-header"]/button[@class="close" and @data-dismiss="modal"]`
	aboutModalItems     = `.//div[@class="modal-body"]/div[@class="product-versions-pf"]/ul/li`
	aboutModalLabel     = `./strong`
	aboutModalTitle     = `.//div[@class="modal-body"]/*[self::h1 or self::h2]`
	aboutModalTrademark = `.//div[@class="modal-body"]/div[@class="trademark-pf"]`

	modalRoot       = `.//div[contains(@class, "modal") and contains(@class, "fade") and @role="dialog"]`
	modalByID       = `.//div[normalize-space(@id)=%s and contains(@class, "modal") and contains(@class, "fade") and @role="dialog"]`
	modalHeader     = `.//div[@class="modal-header"]`
	modalHeaderX    = `.//button[@class="close"]`
	modalTitle      = `.//h4[@class="modal-title"]`
	modalBody       = `.//div[@class="modal-body"]`
	modalBodyText   = `.//h4`
	modalFooter     = `.//div[@class="modal-footer"]`
	modalDismissBtn = "Cancel"
)

// isShown reports whether the modal root carries the "in" class. A modal
// missing from the page is not shown.
func isShown(ctx context.Context, b *base) (bool, error) {
	shown, err := b.rootHasClass(ctx, "in")
	if notFound(err) || errors.Is(err, entity.ErrStaleElement) {
		return false, nil
	}
	return shown, err
}

// AboutModal is the PatternFly about dialog listing product versions.
type AboutModal struct {
	base
	id string
}

// NewAboutModal locates the about modal by id, or the first one on the
// page when id is empty.
func NewAboutModal(parent Parent, id string) *AboutModal {
	locator := aboutModalRoot
	if id != "" {
		locator = xpath.Format(aboutModalByID, id)
	}
	return &AboutModal{base: newBase(parent, "AboutModal", locator), id: id}
}

func (m *AboutModal) IsOpen(ctx context.Context) (bool, error) {
	return isShown(ctx, &m.base)
}

func (m *AboutModal) Close(ctx context.Context) error {
	el, err := m.find(ctx, aboutModalClose)
	if err != nil {
		return err
	}
	return m.browser.Click(ctx, el)
}

func (m *AboutModal) Title(ctx context.Context) (string, error) {
	return m.textOf(ctx, aboutModalTitle)
}

func (m *AboutModal) Trademark(ctx context.Context) (string, error) {
	return m.textOf(ctx, aboutModalTrademark)
}

// Items maps each bold label of the version list to the text after it.
func (m *AboutModal) Items(ctx context.Context) (map[string]string, error) {
	els, err := m.findAll(ctx, aboutModalItems)
	if err != nil {
		return nil, err
	}
	items := make(map[string]string, len(els))
	for _, el := range els {
		labelEl, err := m.browser.Element(ctx, aboutModalLabel, el)
		if err != nil {
			return nil, err
		}
		label, err := m.browser.Text(ctx, labelEl)
		if err != nil {
			return nil, err
		}
		text, err := m.browser.Text(ctx, el)
		if err != nil {
			return nil, err
		}
		items[label] = strings.TrimLeft(strings.Replace(text, label, "", 1), " \t\n")
	}
	return items, nil
}

// Modal is a bootstrap modal dialog with a header, a body and a footer
// holding Cancel and a primary button.
type Modal struct {
	*View
	id string

	header *View
	body   *View
	footer *View
}

func NewModal(parent Parent, id string) *Modal {
	locator := modalRoot
	if id != "" {
		locator = xpath.Format(modalByID, id)
	}
	m := &Modal{View: newView(parent, "Modal", locator), id: id}
	m.host = m

	m.header = NewView(m, modalHeader)
	Add(m.header, "close", func(p Parent) (*Text, error) { return NewText(p, modalHeaderX), nil })
	Add(m.header, "title", func(p Parent) (*Text, error) { return NewText(p, modalTitle), nil })

	m.body = NewView(m, modalBody)
	Add(m.body, "text", func(p Parent) (*Text, error) { return NewText(p, modalBodyText), nil })

	m.footer = NewView(m, modalFooter)
	Add(m.footer, "dismiss", func(p Parent) (*Button, error) {
		return NewButton(p, ButtonSpec{Text: modalDismissBtn})
	})
	Add(m.footer, "accept", func(p Parent) (*Button, error) {
		return NewButton(p, ButtonSpec{Classes: []string{ButtonPrimary}})
	})
	return m
}

func (m *Modal) Header() *View { return m.header }

func (m *Modal) Body() *View { return m.body }

func (m *Modal) Footer() *View { return m.footer }

func (m *Modal) Title(ctx context.Context) (string, error) {
	title, err := Child[*Text](ctx, m.header, "title")
	if err != nil {
		return "", err
	}
	return title.Read(ctx)
}

// Text is the title, like the message of a browser alert.
func (m *Modal) Text(ctx context.Context) (string, error) {
	return m.Title(ctx)
}

// BodyText reads the heading inside the body.
func (m *Modal) BodyText(ctx context.Context) (string, error) {
	text, err := Child[*Text](ctx, m.body, "text")
	if err != nil {
		return "", err
	}
	return text.Read(ctx)
}

func (m *Modal) IsDisplayed(ctx context.Context) (bool, error) {
	return isShown(ctx, &m.base)
}

// Close clicks the header close button when it is shown.
func (m *Modal) Close(ctx context.Context) error {
	x, err := Child[*Text](ctx, m.header, "close")
	if err != nil {
		return err
	}
	shown, err := x.IsDisplayed(ctx)
	if err != nil || !shown {
		return err
	}
	return x.Click(ctx)
}

func (m *Modal) Dismiss(ctx context.Context) error {
	return m.clickFooter(ctx, "dismiss")
}

// Accept clicks the primary footer button.
func (m *Modal) Accept(ctx context.Context) error {
	return m.clickFooter(ctx, "accept")
}

func (m *Modal) clickFooter(ctx context.Context, name string) error {
	button, err := Child[*Button](ctx, m.footer, name)
	if err != nil {
		return err
	}
	m.logger.Info("Clicking footer button", "button", name)
	return button.Click(ctx)
}
