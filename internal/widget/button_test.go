package widget

import (
	"context"
	"testing"

	"pfwidgets/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonsHTML = `<html><body>
<div id="main">
  <button class="btn btn-primary" title="Save changes">Save</button>
  <a class="btn btn-default active" href="#">Cancel</a>
  <input type="submit" class="btn btn-default" value="Submit" id="submit-button" name="go">
  <button class="btn btn-danger disabled">Delete all</button>
  <button class="btn btn-default" disabled>Reset</button>
  <button class="plain">Not a button</button>
  <ul class="view-switch">
    <li class="active"><a title="List View" href="#"><i class="fa fa-th-list"></i></a></li>
    <li><a title="Grid View" href="#"><i class="fa fa-th"></i></a></li>
  </ul>
</div>
</body></html>`

func TestButton_Locate(t *testing.T) {
	ctx := context.Background()
	page, _ := newTestPage(t, buttonsHTML)

	tests := []struct {
		name string
		spec ButtonSpec
		want string
	}{
		{name: "exact text", spec: ButtonSpec{Text: "Save"}, want: "Save"},
		{name: "partial text", spec: ButtonSpec{Text: "Delete", Contains: true}, want: "Delete all"},
		{name: "text and class", spec: ButtonSpec{Text: "Cancel", Classes: []string{ButtonDefault}}, want: "Cancel"},
		{name: "attributes", spec: ButtonSpec{Attrs: map[string]string{"title": "Save changes"}}, want: "Save"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewButton(page, tt.spec)
			require.NoError(t, err)
			text, err := b.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}

	t.Run("input by id", func(t *testing.T) {
		b, err := NewButton(page, ButtonSpec{Attrs: map[string]string{"id": "submit-button", "name": "go"}})
		require.NoError(t, err)
		displayed, err := b.IsDisplayed(ctx)
		require.NoError(t, err)
		assert.True(t, displayed)
	})

	t.Run("elements without the btn class are ignored", func(t *testing.T) {
		b, err := NewButton(page, ButtonSpec{Text: "Not a button"})
		require.NoError(t, err)
		displayed, err := b.IsDisplayed(ctx)
		require.NoError(t, err)
		assert.False(t, displayed)
	})
}

func TestButton_InvalidSpec(t *testing.T) {
	page, _ := newTestPage(t, buttonsHTML)

	var cfg *entity.ConfigError
	_, err := NewButton(page, ButtonSpec{Text: "Save", Attrs: map[string]string{"id": "x"}})
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "Button", cfg.Widget)

	_, err = NewButton(page, ButtonSpec{Contains: true})
	require.ErrorAs(t, err, &cfg)
}

func TestButton_State(t *testing.T) {
	ctx := context.Background()
	page, doc := newTestPage(t, buttonsHTML)

	tests := []struct {
		text             string
		active, disabled bool
	}{
		{text: "Save"},
		{text: "Cancel", active: true},
		{text: "Delete all", disabled: true},
		{text: "Reset", disabled: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b, err := NewButton(page, ButtonSpec{Text: tt.text})
			require.NoError(t, err)

			active, err := b.Active(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.active, active)

			disabled, err := b.Disabled(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.disabled, disabled)
		})
	}

	save, err := NewButton(page, ButtonSpec{Text: "Save"})
	require.NoError(t, err)
	title, err := save.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Save changes", title)

	changed, err := save.Fill(ctx, false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, doc.Clicks())

	changed, err = save.Fill(ctx, true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, doc.Clicks(), 1)
	assert.Equal(t, `Button("Save")`, save.String())
}

func TestViewChangeButton(t *testing.T) {
	ctx := context.Background()
	page, _ := newTestPage(t, buttonsHTML)

	list := NewViewChangeButton(page, "List View")
	active, err := list.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	grid := NewViewChangeButton(page, "Grid View")
	active, err = grid.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
	require.NoError(t, grid.Click(ctx))
}
