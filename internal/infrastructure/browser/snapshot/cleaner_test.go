package snapshot

import (
	"strings"
	"testing"

	"pfwidgets/internal/infrastructure/browser/htmldom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_RemovesScripts(t *testing.T) {
	out, err := Clean(`<html><head><title>x</title><script src="a.js"></script></head>
<body>
  <div id="main">Hello</div>
  <script>alert("hi")</script>
  <noscript>enable js</noscript>
</body></html>`, nil)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<noscript")
	assert.NotContains(t, out, "<title")
	assert.Contains(t, out, `<div id="main">Hello</div>`)
}

func TestClean_RemovesComments(t *testing.T) {
	out, err := Clean(`<body><!-- comment --><div>Text</div></body>`, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "comment")
}

func TestClean_KeepsWidgetAttributes(t *testing.T) {
	out, err := Clean(`<body>
<li class="list-group-item" data-nodeid="0.1" style="display:none" onclick="go()">x</li>
<img src="a.png" srcset="a2.png 2x" loading="lazy">
</body>`, nil)
	require.NoError(t, err)

	assert.Contains(t, out, `class="list-group-item"`)
	assert.Contains(t, out, `data-nodeid="0.1"`)
	assert.Contains(t, out, `style="display:none"`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "srcset")
	assert.NotContains(t, out, "loading")
	assert.Contains(t, out, `src="a.png"`)
}

func TestClean_SizeLimit(t *testing.T) {
	_, err := Clean(`<body>`+strings.Repeat("<p>filler</p>", 100)+`</body>`, &CleanConfig{MaxOutputSize: 100})
	assert.ErrorContains(t, err, "limit is 100")
}

func TestClean_LoadsIntoDocument(t *testing.T) {
	out, err := Clean(`<html><head><script>1</script></head><body><p id="x">hi</p></body></html>`, nil)
	require.NoError(t, err)

	doc, err := htmldom.New(out)
	require.NoError(t, err)
	require.NotNil(t, doc.QueryOne(`//p[@id="x"]`))
}
