package widget

import (
	"context"
	"strings"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/domain/xpath"
)

const (
	chartByID     = `.//div[@id=%s]`
	chartRects    = `.//*[contains(@class, "c3-event-rects c3-event-rects-single")]//*`
	chartTooltip  = `.//div[contains(@class, "c3-tooltip-container")]`
	chartTable    = `.//div[contains(@class, "c3-tooltip-container")]/table`
	chartHeaders  = `./thead/tr/th|./tr/th|./tbody/tr/th`
	chartRows     = `./tbody/tr[td]|./tr[td]`
	chartCells    = `./td`
	chartXAxis    = `.//*[contains(@class, "c3-axis c3-axis-x")]/*[contains(@class, "tick")]`
	chartLegends  = `.//*[contains(@class, "c3-legend-item c3-legend-item-")]`
	legendHidden  = "c3-legend-item-hidden"
	headerlessKey = "value"
)

// ChartData maps an x axis point to the series values shown in its
// tooltip. Tooltips without a title carry a single value per point, kept
// under the "value" key.
type ChartData map[string]map[string]string

func chartLocator(kind string, criteria entity.Criteria) (string, error) {
	if err := criteria.Validate(kind, entity.CriteriaID, entity.CriteriaLocator); err != nil {
		return "", err
	}
	if criteria.Kind() == entity.CriteriaID {
		return xpath.Format(chartByID, criteria.Value()), nil
	}
	return criteria.Value(), nil
}

// SparkLineChart is the PatternFly c3 spark line chart.
type SparkLineChart struct {
	base
	kind     string
	criteria entity.Criteria
}

func NewSparkLineChart(parent Parent, criteria entity.Criteria) (*SparkLineChart, error) {
	return newSparkLine(parent, "SparkLineChart", criteria)
}

func newSparkLine(parent Parent, kind string, criteria entity.Criteria) (*SparkLineChart, error) {
	locator, err := chartLocator(kind, criteria)
	if err != nil {
		return nil, err
	}
	return &SparkLineChart{base: newBase(parent, kind, locator), kind: kind, criteria: criteria}, nil
}

func (c *SparkLineChart) String() string { return describe(c.kind, c.criteria.String()) }

func (c *SparkLineChart) rects(ctx context.Context) ([]output.Element, error) {
	return c.findAll(ctx, chartRects)
}

// Read hovers every point and collects the tooltip texts.
func (c *SparkLineChart) Read(ctx context.Context) ([]string, error) {
	rects, err := c.rects(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]string, 0, len(rects))
	for _, rect := range rects {
		if err := c.browser.MoveTo(ctx, rect); err != nil {
			return nil, err
		}
		text, err := c.textOf(ctx, chartTooltip)
		if err != nil {
			return nil, err
		}
		data = append(data, text)
	}
	return data, nil
}

// SingleLineChart is a c3 chart with one series and a tooltip table.
type SingleLineChart struct {
	*SparkLineChart
}

type (
	// SingleSplineChart reads like a SingleLineChart.
	SingleSplineChart = SingleLineChart
	// BarChart covers vertical and horizontal bar charts.
	BarChart = SingleLineChart
)

func NewSingleLineChart(parent Parent, criteria entity.Criteria) (*SingleLineChart, error) {
	return newSingleLine(parent, "SingleLineChart", criteria)
}

func NewSingleSplineChart(parent Parent, criteria entity.Criteria) (*SingleSplineChart, error) {
	return newSingleLine(parent, "SingleSplineChart", criteria)
}

func NewBarChart(parent Parent, criteria entity.Criteria) (*BarChart, error) {
	return newSingleLine(parent, "BarChart", criteria)
}

func newSingleLine(parent Parent, kind string, criteria entity.Criteria) (*SingleLineChart, error) {
	spark, err := newSparkLine(parent, kind, criteria)
	if err != nil {
		return nil, err
	}
	return &SingleLineChart{SparkLineChart: spark}, nil
}

type axisPoint struct {
	label string
	rect  output.Element
}

// points pairs x axis ticks with event rects in order.
func (c *SingleLineChart) points(ctx context.Context) ([]axisPoint, error) {
	ticks, err := c.findAll(ctx, chartXAxis)
	if err != nil {
		return nil, err
	}
	rects, err := c.rects(ctx)
	if err != nil {
		return nil, err
	}
	points := make([]axisPoint, 0, min(len(ticks), len(rects)))
	for i := 0; i < min(len(ticks), len(rects)); i++ {
		label, err := c.attr(ctx, ticks[i], "textContent")
		if err != nil {
			return nil, err
		}
		points = append(points, axisPoint{label: strings.TrimSpace(label), rect: rects[i]})
	}
	return points, nil
}

func (c *SingleLineChart) data(ctx context.Context, rects []output.Element) (ChartData, error) {
	data := make(ChartData)
	for _, rect := range rects {
		if err := c.browser.MoveTo(ctx, rect); err != nil {
			return nil, err
		}
		if err := c.readTooltip(ctx, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (c *SingleLineChart) readTooltip(ctx context.Context, data ChartData) error {
	table, err := c.find(ctx, chartTable)
	if err != nil {
		return err
	}
	headerEls, err := c.browser.Elements(ctx, chartHeaders, table)
	if err != nil {
		return err
	}
	headers, err := c.texts(ctx, headerEls)
	if err != nil {
		return err
	}
	rows, err := c.browser.Elements(ctx, chartRows, table)
	if err != nil {
		return err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		cellEls, err := c.browser.Elements(ctx, chartCells, row)
		if err != nil {
			return err
		}
		cells, err := c.texts(ctx, cellEls)
		if err != nil {
			return err
		}
		if len(cells) < 2 {
			continue
		}
		values[cells[0]] = cells[1]
	}

	if len(headers) > 0 {
		data[headers[0]] = values
		return nil
	}
	for point, value := range values {
		data[strings.TrimSuffix(point, ":")] = map[string]string{headerlessKey: value}
	}
	return nil
}

func (c *SingleLineChart) Read(ctx context.Context) (ChartData, error) {
	points, err := c.points(ctx)
	if err != nil {
		return nil, err
	}
	rects := make([]output.Element, 0, len(points))
	for _, p := range points {
		rects = append(rects, p.rect)
	}
	return c.data(ctx, rects)
}

// ValuesAt reads the tooltip of the x axis point labelled x.
func (c *SingleLineChart) ValuesAt(ctx context.Context, x string) (ChartData, error) {
	points, err := c.points(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(points))
	for _, p := range points {
		if p.label == x {
			return c.data(ctx, []output.Element{p.rect})
		}
		labels = append(labels, p.label)
	}
	return nil, &entity.ItemNotFoundError{Widget: c.String(), Item: x, Options: labels}
}

// LineChart is a multi series chart with clickable legends.
type LineChart struct {
	*SingleLineChart
}

type (
	// SplineChart reads like a LineChart.
	SplineChart = LineChart
	// GroupedBarChart covers grouped and stacked bar charts.
	GroupedBarChart = LineChart
)

func NewLineChart(parent Parent, criteria entity.Criteria) (*LineChart, error) {
	return newLineChart(parent, "LineChart", criteria)
}

func NewSplineChart(parent Parent, criteria entity.Criteria) (*SplineChart, error) {
	return newLineChart(parent, "SplineChart", criteria)
}

func NewGroupedBarChart(parent Parent, criteria entity.Criteria) (*GroupedBarChart, error) {
	return newLineChart(parent, "GroupedBarChart", criteria)
}

func newLineChart(parent Parent, kind string, criteria entity.Criteria) (*LineChart, error) {
	single, err := newSingleLine(parent, kind, criteria)
	if err != nil {
		return nil, err
	}
	return &LineChart{SingleLineChart: single}, nil
}

type legend struct {
	name string
	el   output.Element
}

func (c *LineChart) legends(ctx context.Context) ([]legend, error) {
	els, err := c.findAll(ctx, chartLegends)
	if err != nil {
		return nil, err
	}
	legends := make([]legend, 0, len(els))
	for _, el := range els {
		name, err := c.browser.Text(ctx, el)
		if err != nil {
			return nil, err
		}
		legends = append(legends, legend{name: name, el: el})
	}
	return legends, nil
}

func (c *LineChart) Legends(ctx context.Context) ([]string, error) {
	legends, err := c.legends(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(legends))
	for _, l := range legends {
		names = append(names, l.name)
	}
	return names, nil
}

// LegendDisplayed is false for unknown legends.
func (c *LineChart) LegendDisplayed(ctx context.Context, name string) (bool, error) {
	legends, err := c.legends(ctx)
	if err != nil {
		return false, err
	}
	for _, l := range legends {
		if l.name == name {
			return c.shown(ctx, l)
		}
	}
	return false, nil
}

func (c *LineChart) shown(ctx context.Context, l legend) (bool, error) {
	hidden, err := c.hasClass(ctx, l.el, legendHidden)
	return !hidden, err
}

// setLegend clicks l when its state differs from display.
func (c *LineChart) setLegend(ctx context.Context, l legend, display bool) error {
	shown, err := c.shown(ctx, l)
	if err != nil || shown == display {
		return err
	}
	c.logger.Debug("Toggling legend", "legend", l.name, "display", display)
	return c.browser.Click(ctx, l.el)
}

func (c *LineChart) setAll(ctx context.Context, display bool) error {
	legends, err := c.legends(ctx)
	if err != nil {
		return err
	}
	for _, l := range legends {
		if err := c.setLegend(ctx, l, display); err != nil {
			return err
		}
	}
	return nil
}

func (c *LineChart) setNamed(ctx context.Context, display bool, names []string) error {
	legends, err := c.legends(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]legend, len(legends))
	all := make([]string, 0, len(legends))
	for _, l := range legends {
		byName[l.name] = l
		all = append(all, l.name)
	}
	for _, name := range names {
		l, ok := byName[name]
		if !ok {
			return &entity.ItemNotFoundError{Widget: c.String(), Item: name, Options: all}
		}
		if err := c.setLegend(ctx, l, display); err != nil {
			return err
		}
	}
	return nil
}

func (c *LineChart) HideAllLegends(ctx context.Context) error { return c.setAll(ctx, false) }

func (c *LineChart) DisplayAllLegends(ctx context.Context) error { return c.setAll(ctx, true) }

func (c *LineChart) DisplayLegends(ctx context.Context, names ...string) error {
	return c.setNamed(ctx, true, names)
}

func (c *LineChart) HideLegends(ctx context.Context, names ...string) error {
	return c.setNamed(ctx, false, names)
}

// DataForLegends reads the chart with only the named series shown.
func (c *LineChart) DataForLegends(ctx context.Context, names ...string) (ChartData, error) {
	if err := c.HideAllLegends(ctx); err != nil {
		return nil, err
	}
	if err := c.DisplayLegends(ctx, names...); err != nil {
		return nil, err
	}
	return c.SingleLineChart.Read(ctx)
}

// Read shows every series first.
func (c *LineChart) Read(ctx context.Context) (ChartData, error) {
	if err := c.DisplayAllLegends(ctx); err != nil {
		return nil, err
	}
	return c.SingleLineChart.Read(ctx)
}
