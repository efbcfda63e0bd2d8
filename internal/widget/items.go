package widget

import (
	"context"
	"fmt"
	"sort"

	"pfwidgets/internal/domain/entity"
)

const (
	itemsListRoot    = `.//div[contains(@class, "list-view-pf-view")]`
	itemsListHeaders = `.//div[contains(@class, "list-group-item-header")]`
	listItemRoot     = `./div[contains(concat(" ", normalize-space(@class), " "), " list-group-item ")][%d]`
	listItemDesc     = `.//span[contains(@class, "description-column")]`
	listItemToggle   = `.//span[contains(@class, %q)]`

	defaultAssocField = "description"
)

// ItemField reads a named property of a list item for filtering.
type ItemField func(ctx context.Context, item *ListItem) (string, error)

// ItemsList is the PatternFly list view. Items are filtered by named
// fields; "description" and "text" are always known.
type ItemsList struct {
	*View
	assocField string
	fields     map[string]ItemField
}

// NewItemsList uses the first list view in parent when locator is empty.
// assocField names the field a plain Filter matches, "description" when
// empty.
func NewItemsList(parent Parent, locator, assocField string) *ItemsList {
	if locator == "" {
		locator = itemsListRoot
	}
	if assocField == "" {
		assocField = defaultAssocField
	}
	l := &ItemsList{
		View:       newView(parent, "ItemsList", locator),
		assocField: assocField,
		fields: map[string]ItemField{
			"description": func(ctx context.Context, i *ListItem) (string, error) { return i.Description(ctx) },
			"text":        func(ctx context.Context, i *ListItem) (string, error) { return i.Read(ctx) },
		},
	}
	l.host = l
	return l
}

// RegisterField adds a field usable in FilterBy.
func (l *ItemsList) RegisterField(name string, field ItemField) {
	l.fields[name] = field
}

func (l *ItemsList) AssocField() string { return l.assocField }

func (l *ItemsList) ItemCount(ctx context.Context) (int, error) {
	els, err := l.findAll(ctx, itemsListHeaders)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Item returns the item at 0-based index i.
func (l *ItemsList) Item(i int) *ListItem {
	return newListItem(l, i+1)
}

// Items returns every item.
func (l *ItemsList) Items(ctx context.Context) ([]*ListItem, error) {
	count, err := l.ItemCount(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*ListItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, l.Item(i))
	}
	return items, nil
}

// Filter returns the items whose associated field equals value.
func (l *ItemsList) Filter(ctx context.Context, value string) ([]*ListItem, error) {
	return l.FilterBy(ctx, l.assocField, value)
}

// FilterBy returns the items whose field equals value.
func (l *ItemsList) FilterBy(ctx context.Context, field, value string) ([]*ListItem, error) {
	read, ok := l.fields[field]
	if !ok {
		known := make([]string, 0, len(l.fields))
		for name := range l.fields {
			known = append(known, name)
		}
		sort.Strings(known)
		return nil, &entity.ConfigError{Widget: "ItemsList", Reason: fmt.Sprintf("unknown field %q, known fields: %v", field, known)}
	}
	items, err := l.Items(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*ListItem
	for _, item := range items {
		got, err := read(ctx, item)
		if err != nil {
			return nil, err
		}
		if got == value {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// ListItem is a row of an ItemsList, addressed by its 1-based position.
type ListItem struct {
	base
	index int
}

func newListItem(parent Parent, index int) *ListItem {
	return &ListItem{base: newBase(parent, "ListItem", fmt.Sprintf(listItemRoot, index)), index: index}
}

// Index is the 1-based position of the item.
func (i *ListItem) Index() int { return i.index }

func (i *ListItem) Description(ctx context.Context) (string, error) {
	return i.textOf(ctx, listItemDesc)
}

// Open clicks the expand arrow.
func (i *ListItem) Open(ctx context.Context) error {
	return i.clickArrow(ctx, entity.IconAngleRight)
}

// Close clicks the collapse arrow.
func (i *ListItem) Close(ctx context.Context) error {
	return i.clickArrow(ctx, entity.IconAngleDown)
}

func (i *ListItem) clickArrow(ctx context.Context, icon entity.Icon) error {
	arrow, err := i.find(ctx, fmt.Sprintf(listItemToggle, string(icon)))
	if err != nil {
		return err
	}
	return i.browser.Click(ctx, arrow)
}

func (i *ListItem) Read(ctx context.Context) (string, error) {
	el, err := i.Root(ctx)
	if err != nil {
		return "", err
	}
	return i.browser.Text(ctx, el)
}
