package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
)

// DefaultDateFormat is the mm/dd/yyyy format of the Bootstrap date picker.
const DefaultDateFormat = "%m/%d/%Y"

const (
	pickerDays   = `.//*[contains(@class, "datepicker-days")]`
	pickerMonths = `.//*[contains(@class, "datepicker-months")]`
	pickerYears  = `.//*[contains(@class, "datepicker-years")]`

	pickerSwitch = `.//*[contains(@class, "datepicker-switch")]`
	pickerPrev   = `.//*[contains(@class, "prev")]`
	pickerNext   = `.//*[contains(@class, "next")]`

	pickerDayCells   = `./table/tbody/tr/td`
	pickerOtherCells = `./table/tbody/tr/td/*`
)

var strftimeDirectives = map[byte]string{
	'd': "02",
	'm': "01",
	'Y': "2006",
	'y': "06",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
}

// layoutWords are the alphabetic time layout tokens; any digit in a
// literal is a token as well.
var layoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

// checkLiteral rejects literal text that the time package would read as a
// layout element.
func checkLiteral(format, lit string) error {
	if strings.ContainsAny(lit, "0123456789") {
		return fmt.Errorf("format %q: literal %q contains digits", format, lit)
	}
	for _, w := range layoutWords {
		if strings.Contains(lit, w) {
			return fmt.Errorf("format %q: literal %q contains %q", format, lit, w)
		}
	}
	return nil
}

// strftimeLayout converts a strftime format to a time layout.
func strftimeLayout(format string) (string, error) {
	var b, lit strings.Builder
	flush := func() error {
		if err := checkLiteral(format, lit.String()); err != nil {
			return err
		}
		b.WriteString(lit.String())
		lit.Reset()
		return nil
	}
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			lit.WriteByte(format[i])
			continue
		}
		if i+1 == len(format) {
			return "", fmt.Errorf("format %q ends with a lone %%", format)
		}
		i++
		if format[i] == '%' {
			lit.WriteByte('%')
			continue
		}
		layout, ok := strftimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("format %q: unsupported directive %%%c", format, format[i])
		}
		if err := flush(); err != nil {
			return "", err
		}
		b.WriteString(layout)
	}
	if err := flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DatePicker is the Bootstrap date picker: a text field that pops up a
// calendar with day, month and year panels.
type DatePicker struct {
	base
	textbox *Input
	format  string
	layout  string
}

// NewDatePicker locates the field by id, name or locator. format is a
// strftime format, DefaultDateFormat when empty.
func NewDatePicker(parent Parent, criteria entity.Criteria, format string) (*DatePicker, error) {
	textbox, err := NewInput(parent, criteria)
	if err != nil {
		return nil, &entity.ConfigError{Widget: "DatePicker", Reason: "need one of id, name or locator"}
	}
	if format == "" {
		format = DefaultDateFormat
	}
	layout, err := strftimeLayout(format)
	if err != nil {
		return nil, &entity.ConfigError{Widget: "DatePicker", Reason: err.Error()}
	}
	return &DatePicker{
		base:    newBase(parent, "DatePicker", ""),
		textbox: textbox,
		format:  format,
		layout:  layout,
	}, nil
}

func (p *DatePicker) String() string {
	return describe("DatePicker", fmt.Sprintf("%s, format=%q", p.textbox.Locator(), p.format))
}

// Read parses the field value. It reports false when the value does not
// parse.
func (p *DatePicker) Read(ctx context.Context) (time.Time, bool, error) {
	value, err := p.textbox.Value(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	date, err := time.Parse(p.layout, value)
	if err != nil {
		p.logger.Debug("Date picker value did not parse", "value", value, "format", p.format)
		return time.Time{}, false, nil
	}
	return date, true, nil
}

// Fill sets the date. Editable fields are typed into, readonly ones are
// driven through the calendar. It reports false when the date was already
// set.
func (p *DatePicker) Fill(ctx context.Context, value time.Time) (bool, error) {
	current, ok, err := p.Read(ctx)
	if err != nil {
		return false, err
	}
	if ok && sameDay(current, value) {
		return false, nil
	}

	readonly, err := p.Readonly(ctx)
	if err != nil {
		return false, err
	}
	if !readonly {
		if _, err := p.textbox.Fill(ctx, value.Format(p.layout)); err != nil {
			return false, err
		}
		if err := p.clickActiveDay(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := p.textbox.Click(ctx); err != nil {
		return false, err
	}
	if err := p.clickSwitch(ctx, pickerDays); err != nil {
		return false, err
	}
	if err := p.clickSwitch(ctx, pickerMonths); err != nil {
		return false, err
	}
	if err := p.selectYear(ctx, value.Year()); err != nil {
		return false, err
	}
	if err := p.pick(ctx, pickerMonths, pickerOtherCells, value.Format("Jan"), "disabled"); err != nil {
		return false, err
	}
	if err := p.pick(ctx, pickerDays, pickerDayCells, strconv.Itoa(value.Day()), "old", "new", "disabled"); err != nil {
		return false, err
	}
	return true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (p *DatePicker) Readonly(ctx context.Context) (bool, error) {
	el, err := p.textbox.Root(ctx)
	if err != nil {
		return false, err
	}
	_, readonly, err := p.browser.Attribute(ctx, el, "readonly")
	return readonly, err
}

// DateFormat returns the data-date-format of the field.
func (p *DatePicker) DateFormat(ctx context.Context) (string, error) {
	el, err := p.textbox.Root(ctx)
	if err != nil {
		return "", err
	}
	return p.attr(ctx, el, "data-date-format")
}

func (p *DatePicker) IsDisplayed(ctx context.Context) (bool, error) {
	return p.textbox.IsDisplayed(ctx)
}

type pickerCell struct {
	text string
	el   output.Element
}

// cells returns the selectable cells of a calendar panel.
func (p *DatePicker) cells(ctx context.Context, panel, locator string, skip ...string) ([]pickerCell, error) {
	scope, err := p.find(ctx, panel)
	if err != nil {
		return nil, err
	}
	els, err := p.browser.Elements(ctx, locator, scope)
	if err != nil {
		return nil, err
	}
	var cells []pickerCell
	for _, el := range els {
		classes, err := p.browser.Classes(ctx, el)
		if err != nil {
			return nil, err
		}
		if classes.HasAny(skip...) {
			continue
		}
		text, err := p.browser.Text(ctx, el)
		if err != nil {
			return nil, err
		}
		cells = append(cells, pickerCell{text: text, el: el})
	}
	return cells, nil
}

func (p *DatePicker) pick(ctx context.Context, panel, locator, value string, skip ...string) error {
	cells, err := p.cells(ctx, panel, locator, skip...)
	if err != nil {
		return err
	}
	options := make([]string, 0, len(cells))
	for _, c := range cells {
		if c.text == value {
			return p.browser.Click(ctx, c.el)
		}
		options = append(options, c.text)
	}
	return &entity.ItemNotFoundError{Widget: p.String(), Item: value, Options: options}
}

func (p *DatePicker) clickActiveDay(ctx context.Context) error {
	cells, err := p.cells(ctx, pickerDays, pickerDayCells, "old", "new", "disabled")
	if err != nil {
		return err
	}
	for _, c := range cells {
		classes, err := p.browser.Classes(ctx, c.el)
		if err != nil {
			return err
		}
		if classes.HasAny("active", "focused") {
			return p.browser.Click(ctx, c.el)
		}
	}
	return fmt.Errorf("%w: no active day in %s", entity.ErrNotFound, p)
}

func (p *DatePicker) panelElement(ctx context.Context, panel, locator string) (output.Element, error) {
	scope, err := p.find(ctx, panel)
	if err != nil {
		return nil, err
	}
	return p.browser.Element(ctx, locator, scope)
}

func (p *DatePicker) clickSwitch(ctx context.Context, panel string) error {
	el, err := p.panelElement(ctx, panel, pickerSwitch)
	if err != nil {
		return err
	}
	return p.browser.Click(ctx, el)
}

// selectYear pages the decade panel until year is shown and picks it.
func (p *DatePicker) selectYear(ctx context.Context, year int) error {
	el, err := p.panelElement(ctx, pickerYears, pickerSwitch)
	if err != nil {
		return err
	}
	decade, err := p.browser.Text(ctx, el)
	if err != nil {
		return err
	}
	start, end, err := parseDecade(decade)
	if err != nil {
		return err
	}

	var button string
	var pages int
	switch {
	case year > end:
		button, pages = pickerNext, (year-end+9)/10
	case year < start:
		button, pages = pickerPrev, (start-year+9)/10
	}
	for i := 0; i < pages; i++ {
		el, err := p.panelElement(ctx, pickerYears, button)
		if err != nil {
			return err
		}
		if err := p.browser.Click(ctx, el); err != nil {
			return err
		}
	}
	return p.pick(ctx, pickerYears, pickerOtherCells, strconv.Itoa(year), "old", "new", "disabled")
}

// parseDecade reads a "2010-2019" year range.
func parseDecade(text string) (int, int, error) {
	from, to, ok := strings.Cut(text, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: unexpected year range %q", entity.ErrIllegalState, text)
	}
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("year range %q: %w", text, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("year range %q: %w", text, err)
	}
	return start, end, nil
}
