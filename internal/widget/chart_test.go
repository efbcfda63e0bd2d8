package widget

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/browser/htmldom"

	"github.com/antchfx/htmlquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const chartsHTML = `<html><body>
<div id="spark">
  <svg><g class="c3-event-rects c3-event-rects-single"><rect class="c3-event-rect c3-event-rect-0"></rect><rect class="c3-event-rect c3-event-rect-1"></rect></g></svg>
  <div class="c3-tooltip-container"></div>
</div>
<div id="usage">
  <svg>
    <g class="c3-axis c3-axis-x"><g class="tick"><text>Jan</text></g><g class="tick"><text>Feb</text></g></g>
    <g class="c3-event-rects c3-event-rects-single"><rect class="c3-event-rect c3-event-rect-0"></rect><rect class="c3-event-rect c3-event-rect-1"></rect></g>
    <g class="c3-legend-item c3-legend-item-cpu"><text>cpu</text></g>
    <g class="c3-legend-item c3-legend-item-memory"><text>memory</text></g>
  </svg>
  <div class="c3-tooltip-container"></div>
</div>
<div id="plain">
  <svg>
    <g class="c3-axis c3-axis-x"><g class="tick"><text>Mon</text></g><g class="tick"><text>Tue</text></g></g>
    <g class="c3-event-rects c3-event-rects-single"><rect class="c3-event-rect c3-event-rect-0"></rect><rect class="c3-event-rect c3-event-rect-1"></rect></g>
  </svg>
  <div class="c3-tooltip-container"></div>
</div>
</body></html>`

var (
	chartPoints = []string{"Jan", "Feb"}
	chartSeries = map[string][]string{"cpu": {"10", "20"}, "memory": {"30", "40"}}
)

func rectIndex(rect *html.Node) int {
	var i int
	for _, c := range strings.Fields(htmlquery.SelectAttr(rect, "class")) {
		if _, err := fmt.Sscanf(c, "c3-event-rect-%d", &i); err == nil {
			return i
		}
	}
	return -1
}

func showTooltip(d *htmldom.Document, chart, table string) {
	container := d.QueryOne(`//div[@id="` + chart + `"]/div[contains(@class, "c3-tooltip-container")]`)
	d.SetText(container, "")
	_ = d.AppendHTML(container, table)
}

func newChartsPage(t *testing.T) (*Page, *htmldom.Document) {
	t.Helper()
	page, doc := newTestPage(t, chartsHTML)
	doc.OnHover(`//div[@id="spark"]//rect`, func(d *htmldom.Document, n *html.Node) {
		container := d.QueryOne(`//div[@id="spark"]/div`)
		d.SetText(container, fmt.Sprintf("point %d", rectIndex(n)))
	})
	doc.OnHover(`//div[@id="usage"]//rect`, func(d *htmldom.Document, n *html.Node) {
		i := rectIndex(n)
		var b strings.Builder
		fmt.Fprintf(&b, `<table class="c3-tooltip"><tbody><tr><th colspan="2">%s</th></tr>`, chartPoints[i])
		for _, name := range []string{"cpu", "memory"} {
			legend := d.QueryOne(`//g[contains(@class, "c3-legend-item-` + name + `")]`)
			if d.HasClass(legend, "c3-legend-item-hidden") {
				continue
			}
			fmt.Fprintf(&b, `<tr><td class="name">%s</td><td class="value">%s</td></tr>`, name, chartSeries[name][i])
		}
		b.WriteString(`</tbody></table>`)
		showTooltip(d, "usage", b.String())
	})
	doc.OnClick(`//g[contains(@class, "c3-legend-item")]`, func(d *htmldom.Document, n *html.Node) {
		d.ToggleClass(n, "c3-legend-item-hidden")
	})
	doc.OnHover(`//div[@id="plain"]//rect`, func(d *htmldom.Document, n *html.Node) {
		day := []string{"Mon", "Tue"}[rectIndex(n)]
		showTooltip(d, "plain", fmt.Sprintf(`<table><tbody><tr><td>%s:</td><td>%d</td></tr></tbody></table>`, day, 5*(rectIndex(n)+1)))
	})
	return page, doc
}

func TestSparkLineChart(t *testing.T) {
	ctx := context.Background()
	page, _ := newChartsPage(t)

	chart, err := NewSparkLineChart(page, entity.ByID("spark"))
	require.NoError(t, err)

	data, err := chart.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"point 0", "point 1"}, data)

	var cfg *entity.ConfigError
	_, err = NewSparkLineChart(page, entity.ByName("spark"))
	require.ErrorAs(t, err, &cfg)
}

func TestSingleLineChart_Headerless(t *testing.T) {
	ctx := context.Background()
	page, _ := newChartsPage(t)

	chart, err := NewBarChart(page, entity.ByLocator(`.//div[@id="plain"]`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(chart.String(), "BarChart(locator="))

	data, err := chart.Read(ctx)
	require.NoError(t, err)
	want := ChartData{
		"Mon": {"value": "5"},
		"Tue": {"value": "10"},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}

	data, err = chart.ValuesAt(ctx, "Tue")
	require.NoError(t, err)
	assert.Equal(t, ChartData{"Tue": {"value": "10"}}, data)

	var missing *entity.ItemNotFoundError
	_, err = chart.ValuesAt(ctx, "Sun")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Mon", "Tue"}, missing.Options)
}

func TestLineChart(t *testing.T) {
	ctx := context.Background()
	page, doc := newChartsPage(t)

	chart, err := NewLineChart(page, entity.ByID("usage"))
	require.NoError(t, err)

	legends, err := chart.Legends(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu", "memory"}, legends)

	require.NoError(t, chart.HideLegends(ctx, "memory"))
	shown, err := chart.LegendDisplayed(ctx, "memory")
	require.NoError(t, err)
	assert.False(t, shown)
	shown, err = chart.LegendDisplayed(ctx, "disk")
	require.NoError(t, err)
	assert.False(t, shown)

	data, err := chart.Read(ctx)
	require.NoError(t, err)
	want := ChartData{
		"Jan": {"cpu": "10", "memory": "30"},
		"Feb": {"cpu": "20", "memory": "40"},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}

	data, err = chart.DataForLegends(ctx, "cpu")
	require.NoError(t, err)
	want = ChartData{
		"Jan": {"cpu": "10"},
		"Feb": {"cpu": "20"},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("DataForLegends mismatch (-want +got):\n%s", diff)
	}

	data, err = chart.ValuesAt(ctx, "Feb")
	require.NoError(t, err)
	assert.Equal(t, ChartData{"Feb": {"cpu": "20"}}, data)

	clicks := len(doc.Clicks())
	require.NoError(t, chart.HideAllLegends(ctx))
	require.NoError(t, chart.DisplayAllLegends(ctx))
	assert.Len(t, doc.Clicks(), clicks+3, "only legends in the other state are clicked")

	var missing *entity.ItemNotFoundError
	require.ErrorAs(t, chart.DisplayLegends(ctx, "disk"), &missing)
}
