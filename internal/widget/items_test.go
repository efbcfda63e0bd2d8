package widget

import (
	"context"
	"testing"

	"pfwidgets/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsHTML = `<html><body>
<div class="list-group list-view-pf list-view-pf-view">
  <div class="list-group-item">
    <div class="list-group-item-header"><span class="fa fa-angle-right"></span><span class="description-column">ec2</span><span class="state">running</span></div>
  </div>
  <div class="list-group-item">
    <div class="list-group-item-header"><span class="fa fa-angle-down"></span><span class="description-column">azure</span><span class="state">stopped</span></div>
  </div>
  <div class="list-group-item">
    <div class="list-group-item-header"><span class="fa fa-angle-right"></span><span class="description-column">ec2</span><span class="state">stopped</span></div>
  </div>
</div>
</body></html>`

func TestItemsList(t *testing.T) {
	ctx := context.Background()
	page, doc := newTestPage(t, itemsHTML)

	list := NewItemsList(page, "", "")
	assert.Equal(t, "description", list.AssocField())

	count, err := list.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	second := list.Item(1)
	assert.Equal(t, 2, second.Index())
	desc, err := second.Description(ctx)
	require.NoError(t, err)
	assert.Equal(t, "azure", desc)

	matched, err := list.Filter(ctx, "ec2")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, 1, matched[0].Index())
	assert.Equal(t, 3, matched[1].Index())

	list.RegisterField("state", func(ctx context.Context, item *ListItem) (string, error) {
		return item.textOf(ctx, `.//span[contains(@class, "state")]`)
	})
	matched, err = list.FilterBy(ctx, "state", "stopped")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, 2, matched[0].Index())

	var cfg *entity.ConfigError
	_, err = list.FilterBy(ctx, "owner", "admin")
	require.ErrorAs(t, err, &cfg)
	assert.Contains(t, cfg.Reason, "[description state text]")

	require.NoError(t, list.Item(0).Open(ctx))
	require.NoError(t, second.Close(ctx))
	assert.Equal(t, []string{`<span class="fa fa-angle-right">`, `<span class="fa fa-angle-down">`}, doc.Clicks())

	assert.ErrorIs(t, second.Open(ctx), entity.ErrNotFound)

	desc, err = list.Item(2).Description(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ec2", desc)

	text, err := list.Item(2).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ec2stopped", text)
}

func TestItemsList_Empty(t *testing.T) {
	ctx := context.Background()
	page, _ := newTestPage(t, `<html><body><div class="list-view-pf-view"></div></body></html>`)

	items, err := NewItemsList(page, "", "text").Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
