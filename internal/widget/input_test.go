package widget

import (
	"context"
	"testing"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/browser/htmldom"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const inputsHTML = `<html><body>
<form id="main">
  <div class="form-group">
    <input type="text" name="hostname" id="host" value="old.example.com">
    <span class="help-block">Fully qualified name</span>
  </div>
  <div class="form-group">
    <textarea name="notes">first line</textarea>
  </div>
  <div class="form-group">
    <input type="text" name="port" value="">
  </div>
</form>
</body></html>`

func TestInput(t *testing.T) {
	ctx := context.Background()
	page, _ := newTestPage(t, inputsHTML)

	host, err := NewInput(page, entity.ByName("hostname"))
	require.NoError(t, err)

	value, err := host.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old.example.com", value)

	changed, err := host.Fill(ctx, "old.example.com")
	require.NoError(t, err)
	assert.False(t, changed, "same value is not typed again")

	changed, err = host.Fill(ctx, "new.example.com")
	require.NoError(t, err)
	assert.True(t, changed)

	byID, err := NewInput(page, entity.ByID("host"))
	require.NoError(t, err)
	value, err = byID.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new.example.com", value)

	help, err := host.HelpBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fully qualified name", help)

	notes, err := NewInput(page, entity.ByName("notes"))
	require.NoError(t, err)
	_, err = notes.Fill(ctx, "second line")
	require.NoError(t, err)
	value, err = notes.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second line", value)

	help, err = notes.HelpBlock(ctx)
	require.NoError(t, err)
	assert.Empty(t, help)
}

func TestInput_Warning(t *testing.T) {
	ctx := context.Background()
	page, doc := newTestPage(t, inputsHTML)
	doc.OnInput(`//input[@name="port"]`, func(d *htmldom.Document, n *html.Node) {
		if htmlquery.SelectAttr(n, "value") == "abc" {
			d.Defer(2, func() {
				_ = d.InsertAfterHTML(n, `<div class="help-block has-error">Port must be a number</div>`)
			})
		}
	})

	port, err := NewInput(page, entity.ByName("port"))
	require.NoError(t, err)

	warning, err := port.Warning(ctx)
	require.NoError(t, err)
	assert.Empty(t, warning, "no warning shows up before typing")

	_, err = port.Fill(ctx, "abc")
	require.NoError(t, err)
	warning, err = port.Warning(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Port must be a number", warning)
}

func TestInput_InvalidCriteria(t *testing.T) {
	page, _ := newTestPage(t, inputsHTML)

	var cfg *entity.ConfigError
	_, err := NewInput(page, entity.Criteria{})
	require.ErrorAs(t, err, &cfg)

	_, err = NewInput(page, entity.ByLabel("Host"))
	require.ErrorAs(t, err, &cfg)
}
