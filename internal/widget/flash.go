package widget

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/wait"
)

const (
	flashRoot     = `.//div[@id="flash_msg_div"]`
	flashMessages = `./div[contains(@class, "flash_text_div")]/div[contains(@class, "alert")]`
	flashMessage  = flashMessages + `[%d]`
	flashText     = `./strong`
	flashDismiss  = `./button[contains(@class, "close")]`
	flashIcon     = `./span[contains(@class, "pficon")]`
)

// Notification types, derived from the alert-* class.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

var flashTypes = map[string]string{
	"alert-warning": FlashWarning,
	"alert-success": FlashSuccess,
	"alert-danger":  FlashError,
	"alert-info":    FlashInfo,
}

// MessageFilter selects notifications. The zero value matches all.
type MessageFilter struct {
	// Text matches the whole message text, or a substring with Partial.
	Text    string
	Partial bool
	// Pattern matches the message text from its start.
	Pattern *regexp.Regexp
	// Types matches any of the notification types.
	Types []string
	// Inverse negates the text, pattern and type conditions.
	Inverse bool
	// Index picks the notification at that 0-based position only.
	Index *int
}

// AtIndex selects the notification at position i.
func AtIndex(i int) MessageFilter {
	return MessageFilter{Index: &i}
}

func (f MessageFilter) describe() string {
	text := fmt.Sprintf("text: %q", f.Text)
	if f.Pattern != nil {
		text = fmt.Sprintf("pattern: %q", f.Pattern.String())
	}
	return fmt.Sprintf("%s, type(s): %v, partial: %t, inverse: %t", text, f.Types, f.Partial, f.Inverse)
}

func (f MessageFilter) matches(ctx context.Context, msg *FlashMessage) (bool, error) {
	keep := func(ok bool) bool { return ok != f.Inverse }

	if len(f.Types) > 0 {
		t, err := msg.Type(ctx)
		if err != nil {
			return false, err
		}
		if !keep(slices.Contains(f.Types, t)) {
			return false, nil
		}
	}
	if f.Pattern == nil && f.Text == "" {
		return true, nil
	}
	text, err := msg.Text(ctx)
	if err != nil {
		return false, err
	}
	if f.Pattern != nil {
		loc := f.Pattern.FindStringIndex(text)
		return keep(loc != nil && loc[0] == 0), nil
	}
	if f.Partial {
		return keep(strings.Contains(text, f.Text)), nil
	}
	return keep(text == f.Text), nil
}

// FlashMessages is the block of inline notifications at the top of a page.
type FlashMessages struct {
	*View
}

func NewFlashMessages(parent Parent) *FlashMessages {
	f := &FlashMessages{View: newView(parent, "FlashMessages", flashRoot)}
	f.host = f
	return f
}

// IsDisplayed checks the block in the parent scope.
func (f *FlashMessages) IsDisplayed(ctx context.Context) (bool, error) {
	el, err := f.inParent(ctx, flashRoot)
	if notFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return f.browser.IsDisplayed(ctx, el)
}

// MsgCount is zero when the block is missing.
func (f *FlashMessages) MsgCount(ctx context.Context) (int, error) {
	els, err := f.findAll(ctx, flashMessages)
	if notFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// EachMessage calls fn for every notification matching filter. The count
// is re-read before each step, so fn may dismiss the message it gets.
func (f *FlashMessages) EachMessage(ctx context.Context, filter MessageFilter, fn func(*FlashMessage) error) error {
	switch {
	case filter.Text != "" || filter.Pattern != nil || len(filter.Types) > 0 || filter.Partial || filter.Inverse:
		f.logger.Info("Performing match of notifications", "filter", filter.describe())
	case filter.Index != nil:
		f.logger.Info("Reading notification", "index", *filter.Index)
	default:
		f.logger.Info("Reading all notifications")
	}

	start, stop := 1, 0
	if filter.Index != nil {
		start = *filter.Index + 1
		stop = start + 1
	} else {
		count, err := f.MsgCount(ctx)
		if err != nil {
			return err
		}
		stop = count + 1
	}

	for i := start; i < stop; i++ {
		j := i
		if filter.Index == nil {
			count, err := f.MsgCount(ctx)
			if err != nil {
				return err
			}
			j = i - (stop - (count + 1))
		}
		msg := newFlashMessage(f, j)
		ok, err := filter.matches(ctx, msg)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *FlashMessages) Messages(ctx context.Context, filter MessageFilter) ([]*FlashMessage, error) {
	var msgs []*FlashMessage
	err := f.EachMessage(ctx, filter, func(m *FlashMessage) error {
		msgs = append(msgs, m)
		return nil
	})
	return msgs, err
}

// Read returns the texts of the matching notifications, retrying when
// they re-render under it.
func (f *FlashMessages) Read(ctx context.Context, filter MessageFilter) ([]string, error) {
	return wait.Retry(ctx, f.timing.Retry, func(ctx context.Context) ([]string, error) {
		var texts []string
		err := f.EachMessage(ctx, filter, func(m *FlashMessage) error {
			text, err := m.Text(ctx)
			texts = append(texts, text)
			return err
		})
		return texts, err
	})
}

// Dismiss closes every notification.
func (f *FlashMessages) Dismiss(ctx context.Context) error {
	_, err := wait.Retry(ctx, f.timing.Retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f.EachMessage(ctx, MessageFilter{}, func(m *FlashMessage) error {
			return m.Dismiss(ctx)
		})
	})
	return err
}

// AssertNoError fails when a notification other than success, info or
// warning is shown, unless its text is in ignore.
func (f *FlashMessages) AssertNoError(ctx context.Context, ignore ...string) error {
	f.logger.Info("Asserting there are no error notifications")
	errs, err := f.Read(ctx, MessageFilter{Types: []string{FlashSuccess, FlashInfo, FlashWarning}, Inverse: true})
	if err != nil {
		return err
	}
	for _, e := range errs {
		if !slices.Contains(ignore, e) {
			f.logger.Error("Error notifications present", "messages", errs)
			return &entity.AssertionError{Message: fmt.Sprintf("found error notifications %q", errs)}
		}
	}
	return nil
}

// AssertMessage fails when no notification matches text. An empty t
// accepts any type.
func (f *FlashMessages) AssertMessage(ctx context.Context, text, t string, partial bool) error {
	filter := MessageFilter{Text: text, Partial: partial}
	if t != "" {
		filter.Types = []string{t}
	}
	all, err := f.Read(ctx, MessageFilter{})
	if err != nil {
		return err
	}
	matched, err := f.Read(ctx, filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return &entity.AssertionError{Message: fmt.Sprintf("failed to find matching notifications, available notifications: %q", all)}
	}
	return nil
}

// AssertSuccessMessage asserts there is no error and text is shown as a
// success notification unless t says otherwise.
func (f *FlashMessages) AssertSuccessMessage(ctx context.Context, text, t string, partial bool) error {
	if err := f.AssertNoError(ctx); err != nil {
		return err
	}
	if t == "" {
		t = FlashSuccess
	}
	return f.AssertMessage(ctx, text, t, partial)
}

// FlashMessage is one inline notification, addressed by its 1-based
// position in the block.
type FlashMessage struct {
	base
	index int
}

func newFlashMessage(parent Parent, index int) *FlashMessage {
	return &FlashMessage{base: newBase(parent, "FlashMessage", fmt.Sprintf(flashMessage, index)), index: index}
}

func (m *FlashMessage) Text(ctx context.Context) (string, error) {
	return m.textOf(ctx, flashText)
}

func (m *FlashMessage) Dismiss(ctx context.Context) error {
	text, err := m.Text(ctx)
	if err != nil {
		return err
	}
	button, err := m.find(ctx, flashDismiss)
	if err != nil {
		return err
	}
	m.logger.Info("Dismissed notification", "text", text)
	return m.browser.Click(ctx, button)
}

// Icon returns the pficon name without its prefix, "" when there is none.
func (m *FlashMessage) Icon(ctx context.Context) (string, error) {
	el, err := m.find(ctx, flashIcon)
	if notFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	classes, err := m.browser.Classes(ctx, el)
	if err != nil {
		return "", err
	}
	for _, c := range classes.List() {
		if name, ok := strings.CutPrefix(c, "pficon-"); ok {
			return name, nil
		}
	}
	return "", nil
}

// Type maps the alert-* class to one of the Flash* types.
func (m *FlashMessage) Type(ctx context.Context) (string, error) {
	el, err := m.Root(ctx)
	if err != nil {
		return "", err
	}
	classes, err := m.browser.Classes(ctx, el)
	if err != nil {
		return "", err
	}
	for _, c := range classes.List() {
		if t, ok := flashTypes[c]; ok {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: notification has no known type, classes: %s", entity.ErrIllegalState, classes)
}
