package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

const (
	cardRoot        = `.//div[contains(@class, "card-pf-aggregate-status") and not(contains(@class, "card-pf-aggregate-status-mini")) and h2[contains(@class, "card-pf-title")]//span[normalize-space(following::text())=%s]]`
	cardMiniRoot    = `.//div[contains(@class, "card-pf-aggregate-status") and contains(@class, "card-pf-aggregate-status-mini") and h2[contains(@class, "card-pf-title")]//span[normalize-space(following::text())=%s]]`
	cardTitle       = `./h2[contains(@class, "card-pf-title")]`
	cardTitleAnchor = `./h2[contains(@class, "card-pf-title")]/a`
	cardCount       = `.//span[contains(@class, "card-pf-aggregate-status-count")]`
	cardBody        = `./div[contains(@class, "card-pf-body")]`
	cardNotes       = `./p[contains(@class, "card-pf-aggregate-status-notifications")]//span[contains(@class, "card-pf-aggregate-status-notification")]`
	cardAction      = `.//a[@title=%s or @data-original-title=%s]`

	noteAnchor = `./a`
	noteText   = `./*[normalize-space(.)]`
)

// CardOptions tune an aggregate status card.
type CardOptions struct {
	// Locator replaces the name based locator.
	Locator string
	// ActionTitle is the title of the action link in the body.
	ActionTitle string
}

// AggregateStatus is what a card shows.
type AggregateStatus struct {
	Name  string
	Icon  entity.Icon
	Count int
	// HasCount is false when the title carries no count.
	HasCount      bool
	Notifications []NotificationStatus
}

// AggregateStatusCard is the PatternFly aggregate status card of dashboards.
type AggregateStatusCard struct {
	base
	name        string
	actionTitle string
	body        *View
}

func NewAggregateStatusCard(parent Parent, name string, opts CardOptions) *AggregateStatusCard {
	return newCard(parent, "AggregateStatusCard", cardRoot, name, opts)
}

// NewAggregateStatusMiniCard locates the mini variant of the card.
func NewAggregateStatusMiniCard(parent Parent, name string, opts CardOptions) *AggregateStatusCard {
	return newCard(parent, "AggregateStatusMiniCard", cardMiniRoot, name, opts)
}

func newCard(parent Parent, kind, root, name string, opts CardOptions) *AggregateStatusCard {
	locator := opts.Locator
	if locator == "" {
		locator = xpath.Format(root, name)
	}
	c := &AggregateStatusCard{base: newBase(parent, kind, locator), name: name, actionTitle: opts.ActionTitle}
	c.body = NewView(c, cardBody)
	return c
}

func (c *AggregateStatusCard) Name() string { return c.name }

// Count parses the number in the title. It reports false when there is
// none.
func (c *AggregateStatusCard) Count(ctx context.Context) (int, bool, error) {
	title, err := c.find(ctx, cardTitle)
	if err != nil {
		return 0, false, err
	}
	countEl, err := c.browser.Element(ctx, cardCount, title)
	if notFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	text, err := c.browser.Text(ctx, countEl)
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false, fmt.Errorf("card %q count: %w", c.name, err)
	}
	return count, true, nil
}

// Icon returns the icon of the title.
func (c *AggregateStatusCard) Icon(ctx context.Context) (entity.Icon, bool, error) {
	title, err := c.find(ctx, cardTitle)
	if notFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return IconFromElement(ctx, c.browser, title)
}

// Notifications returns the notifications of the body, none when the
// card has no body.
func (c *AggregateStatusCard) Notifications(ctx context.Context) ([]*StatusNotification, error) {
	els, err := c.body.findAll(ctx, cardNotes)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	notes := make([]*StatusNotification, 0, len(els))
	for i := range els {
		notes = append(notes, newStatusNotification(c.body, fmt.Sprintf("(%s)[%d]", cardNotes, i+1)))
	}
	return notes, nil
}

func (c *AggregateStatusCard) Read(ctx context.Context) (AggregateStatus, error) {
	status := AggregateStatus{Name: c.name}
	icon, _, err := c.Icon(ctx)
	if err != nil {
		return status, err
	}
	status.Icon = icon
	status.Count, status.HasCount, err = c.Count(ctx)
	if err != nil {
		return status, err
	}
	notes, err := c.Notifications(ctx)
	if err != nil {
		return status, err
	}
	for _, note := range notes {
		read, err := note.Read(ctx)
		if err != nil {
			return status, err
		}
		status.Notifications = append(status.Notifications, read)
	}
	return status, nil
}

func (c *AggregateStatusCard) Click(ctx context.Context) error {
	return c.ClickTitle(ctx)
}

func (c *AggregateStatusCard) ClickTitle(ctx context.Context) error {
	anchor, err := c.find(ctx, cardTitleAnchor)
	if err != nil {
		return err
	}
	return c.browser.Click(ctx, anchor)
}

// ClickBodyAction clicks the action link named by CardOptions.ActionTitle.
func (c *AggregateStatusCard) ClickBodyAction(ctx context.Context) error {
	if c.actionTitle == "" {
		return &entity.ConfigError{Widget: c.name, Reason: "no action title, cannot locate the action link"}
	}
	anchor, err := c.find(ctx, xpath.Format(cardAction, c.actionTitle, c.actionTitle))
	if err != nil {
		return err
	}
	return c.browser.Click(ctx, anchor)
}

// NotificationStatus is what a status notification shows.
type NotificationStatus struct {
	Icon entity.Icon
	Text string
}

// StatusNotification is a notification in the body of a status card,
// usually an icon with a count.
type StatusNotification struct {
	base
}

func newStatusNotification(parent Parent, locator string) *StatusNotification {
	return &StatusNotification{base: newBase(parent, "StatusNotification", locator)}
}

// Icon is empty when the notification has no known icon.
func (n *StatusNotification) Icon(ctx context.Context) (entity.Icon, error) {
	el, err := n.Root(ctx)
	if err != nil {
		return "", err
	}
	icon, _, err := IconFromElement(ctx, n.browser, el)
	return icon, err
}

// Text is empty when the notification shows no text.
func (n *StatusNotification) Text(ctx context.Context) (string, error) {
	return n.optionalText(ctx, noteText)
}

func (n *StatusNotification) Read(ctx context.Context) (NotificationStatus, error) {
	icon, err := n.Icon(ctx)
	if err != nil {
		return NotificationStatus{}, err
	}
	text, err := n.Text(ctx)
	if err != nil {
		return NotificationStatus{}, err
	}
	return NotificationStatus{Icon: icon, Text: text}, nil
}

// Click follows the link of the notification.
func (n *StatusNotification) Click(ctx context.Context) error {
	anchor, err := n.find(ctx, noteAnchor)
	if err != nil {
		return err
	}
	return n.browser.Click(ctx, anchor)
}
