package widget

import (
	"context"
	"testing"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/browser/htmldom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const selectsHTML = `<html><body>
<div id="main">
  <div class="btn-group bootstrap-select" id="single">
    <button type="button" class="btn dropdown-toggle" data-id="provider_type"><span class="filter-option">Amazon</span></button>
    <div class="dropdown-menu open">
      <ul class="dropdown-menu inner">
        <li data-original-index="0" class="selected"><a><span class="text">Amazon</span></a></li>
        <li data-original-index="1"><a><span class="text">Azure</span></a></li>
        <li data-original-index="2"><a><span class="text">Google Compute Engine</span></a></li>
      </ul>
    </div>
    <select name="provider_type" class="selectpicker"></select>
  </div>
  <div class="btn-group bootstrap-select show-tick" id="multi">
    <button type="button" class="btn dropdown-toggle" data-id="tags"></button>
    <div class="dropdown-menu open">
      <ul class="dropdown-menu inner">
        <li data-original-index="0"><a><span class="text">prod</span></a></li>
        <li data-original-index="1" class="selected"><a><span class="text">dev</span></a></li>
        <li data-original-index="2"><a><span class="text">qa</span></a></li>
      </ul>
    </div>
    <select name="tags" class="selectpicker" multiple></select>
  </div>
</div>
<div class="detached"><div><ul><li><a><span class="text">Detached option</span></a></li></ul></div></div>
</body></html>`

func newSelectsPage(t *testing.T) (*Page, *htmldom.Document) {
	t.Helper()
	page, doc := newTestPage(t, selectsHTML)
	doc.OnClick(`//div[contains(@class, "bootstrap-select")]`, func(d *htmldom.Document, n *html.Node) {
		d.ToggleClass(n, "open")
	})
	doc.OnClick(`//div[contains(@class, "bootstrap-select")]/div/ul/li/a`, func(d *htmldom.Document, a *html.Node) {
		li := a.Parent
		root := li.Parent.Parent.Parent
		if d.HasClass(root, "show-tick") {
			d.ToggleClass(li, "selected")
			return
		}
		for sib := li.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode {
				d.RemoveClass(sib, "selected")
			}
		}
		d.AddClass(li, "selected")
		d.RemoveClass(root, "open")
	})
	return page, doc
}

func TestBootstrapSelect_Single(t *testing.T) {
	ctx := context.Background()
	page, _ := newSelectsPage(t)

	sel, err := NewBootstrapSelect(page, entity.ByID("provider_type"), BootstrapSelectOptions{})
	require.NoError(t, err)

	multiple, err := sel.IsMultiple(ctx)
	require.NoError(t, err)
	assert.False(t, multiple)

	options, err := sel.AllOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []SelectOption{
		{Text: "Amazon", Value: "0"},
		{Text: "Azure", Value: "1"},
		{Text: "Google Compute Engine", Value: "2"},
	}, options)

	value, err := sel.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amazon"}, value)

	changed, err := sel.Fill(ctx, "Azure")
	require.NoError(t, err)
	assert.True(t, changed)
	selected, err := sel.SelectedOption(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Azure", selected)

	open, err := sel.IsOpen(ctx)
	require.NoError(t, err)
	assert.False(t, open, "a single select hides after a choice")

	changed, err = sel.Fill(ctx, "Azure")
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, sel.SelectByVisibleText(ctx, Partial("Google")))
	selected, err = sel.SelectedOption(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Google Compute Engine", selected)

	err = sel.SelectByVisibleText(ctx, Exact("Amazon"), Exact("Azure"))
	assert.ErrorIs(t, err, entity.ErrIllegalState)
}

func TestBootstrapSelect_Multiple(t *testing.T) {
	ctx := context.Background()
	page, _ := newSelectsPage(t)

	sel, err := NewBootstrapSelect(page, entity.ByName("tags"), BootstrapSelectOptions{})
	require.NoError(t, err)

	multiple, err := sel.IsMultiple(ctx)
	require.NoError(t, err)
	assert.True(t, multiple)

	changed, err := sel.Fill(ctx, "prod", "dev")
	require.NoError(t, err)
	assert.True(t, changed)
	value, err := sel.Read(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod", "dev"}, value)

	changed, err = sel.Fill(ctx, "qa")
	require.NoError(t, err)
	assert.True(t, changed)
	value, err = sel.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"qa"}, value)

	open, err := sel.IsOpen(ctx)
	require.NoError(t, err)
	assert.False(t, open, "the menu is closed after selecting")
}

func TestBootstrapSelect_ItemNotFound(t *testing.T) {
	ctx := context.Background()
	page, doc := newSelectsPage(t)

	sel, err := NewBootstrapSelect(page, entity.ByLocator(`.//div[@id="single"]`), BootstrapSelectOptions{})
	require.NoError(t, err)

	var missing *entity.ItemNotFoundError
	err = sel.SelectByVisibleText(ctx, Exact("Oracle"))
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Oracle", missing.Item)
	assert.Equal(t, []string{"Amazon", "Azure", "Google Compute Engine"}, missing.Options)

	// options rendered outside the widget are found in the document
	clicks := len(doc.Clicks())
	require.NoError(t, sel.SelectByVisibleText(ctx, Exact("Detached option")))
	assert.Greater(t, len(doc.Clicks()), clicks)
}

func TestBootstrapSelect_InvalidCriteria(t *testing.T) {
	page, _ := newSelectsPage(t)
	var cfg *entity.ConfigError
	_, err := NewBootstrapSelect(page, entity.ByAttrs(map[string]string{"class": "x"}), BootstrapSelectOptions{})
	require.ErrorAs(t, err, &cfg)
}
