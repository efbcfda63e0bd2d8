package widget

import (
	"context"
	"regexp"
	"testing"

	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/browser/htmldom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const flashHTML = `<html><body>
<div id="flash_msg_div">
  <div class="flash_text_div">
    <div class="alert alert-success"><button class="close">x</button><span class="pficon pficon-ok"></span><strong>Provider "ec2" was saved</strong></div>
    <div class="alert alert-warning"><button class="close">x</button><span class="pficon pficon-warning-triangle-o"></span><strong>Credentials expire soon</strong></div>
    <div class="alert alert-danger"><button class="close">x</button><span class="pficon pficon-error-circle-o"></span><strong>Refresh failed</strong></div>
  </div>
</div>
</body></html>`

func newFlashPage(t *testing.T) (*Page, *htmldom.Document) {
	t.Helper()
	page, doc := newTestPage(t, flashHTML)
	doc.OnClick(`//div[contains(@class, "alert")]/button[contains(@class, "close")]`, func(d *htmldom.Document, n *html.Node) {
		d.Remove(n.Parent)
	})
	return page, doc
}

func TestFlashMessages_Read(t *testing.T) {
	ctx := context.Background()
	page, _ := newFlashPage(t)
	flash := NewFlashMessages(page)

	displayed, err := flash.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.True(t, displayed)

	count, err := flash.MsgCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	tests := []struct {
		name   string
		filter MessageFilter
		want   []string
	}{
		{name: "all", want: []string{`Provider "ec2" was saved`, "Credentials expire soon", "Refresh failed"}},
		{name: "by type", filter: MessageFilter{Types: []string{FlashError}}, want: []string{"Refresh failed"}},
		{name: "inverse type", filter: MessageFilter{Types: []string{FlashSuccess, FlashInfo, FlashWarning}, Inverse: true}, want: []string{"Refresh failed"}},
		{name: "exact text", filter: MessageFilter{Text: "Refresh failed"}, want: []string{"Refresh failed"}},
		{name: "exact text needs whole message", filter: MessageFilter{Text: "Refresh"}},
		{name: "partial text", filter: MessageFilter{Text: "e", Partial: true, Types: []string{FlashWarning}}, want: []string{"Credentials expire soon"}},
		{name: "pattern anchored at start", filter: MessageFilter{Pattern: regexp.MustCompile(`Provider "\w+"`)}, want: []string{`Provider "ec2" was saved`}},
		{name: "pattern not at start", filter: MessageFilter{Pattern: regexp.MustCompile(`failed`)}},
		{name: "index", filter: AtIndex(1), want: []string{"Credentials expire soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := flash.Read(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlashMessage(t *testing.T) {
	ctx := context.Background()
	page, _ := newFlashPage(t)
	flash := NewFlashMessages(page)

	msgs, err := flash.Messages(ctx, MessageFilter{})
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	icon, err := msgs[1].Icon(ctx)
	require.NoError(t, err)
	assert.Equal(t, "warning-triangle-o", icon)

	kind, err := msgs[2].Type(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlashError, kind)

	text, err := newFlashMessage(flash, 3).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Refresh failed", text)

	unknown, _ := newTestPage(t, `<html><body><div id="flash_msg_div"><div class="flash_text_div"><div class="alert"><strong>?</strong></div></div></div></body></html>`)
	odd, err := NewFlashMessages(unknown).Messages(ctx, MessageFilter{})
	require.NoError(t, err)
	require.Len(t, odd, 1)
	_, err = odd[0].Type(ctx)
	assert.ErrorIs(t, err, entity.ErrIllegalState)
	icon, err = odd[0].Icon(ctx)
	require.NoError(t, err)
	assert.Empty(t, icon)
}

func TestFlashMessages_Dismiss(t *testing.T) {
	ctx := context.Background()
	page, doc := newFlashPage(t)
	flash := NewFlashMessages(page)

	require.NoError(t, flash.Dismiss(ctx))
	assert.Len(t, doc.Clicks(), 3)

	count, err := flash.MsgCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	texts, err := flash.Read(ctx, MessageFilter{})
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestFlashMessages_DismissMatching(t *testing.T) {
	ctx := context.Background()
	page, _ := newFlashPage(t)
	flash := NewFlashMessages(page)

	// dismissing shifts the positions of the messages that follow
	err := flash.EachMessage(ctx, MessageFilter{Types: []string{FlashError}, Inverse: true}, func(m *FlashMessage) error {
		return m.Dismiss(ctx)
	})
	require.NoError(t, err)

	texts, err := flash.Read(ctx, MessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Refresh failed"}, texts)
}

func TestFlashMessages_Assertions(t *testing.T) {
	ctx := context.Background()
	page, _ := newFlashPage(t)
	flash := NewFlashMessages(page)

	var assertErr *entity.AssertionError
	require.ErrorAs(t, flash.AssertNoError(ctx), &assertErr)
	assert.Contains(t, assertErr.Message, "Refresh failed")
	assert.NoError(t, flash.AssertNoError(ctx, "Refresh failed"))

	assert.NoError(t, flash.AssertMessage(ctx, "Credentials expire soon", FlashWarning, false))
	assert.NoError(t, flash.AssertMessage(ctx, "saved", "", true))
	require.ErrorAs(t, flash.AssertMessage(ctx, "Credentials expire soon", FlashSuccess, false), &assertErr)
	assert.Contains(t, assertErr.Message, "available notifications")

	require.ErrorAs(t, flash.AssertSuccessMessage(ctx, "saved", "", true), &assertErr)
}

func TestFlashMessages_Missing(t *testing.T) {
	ctx := context.Background()
	page, _ := newTestPage(t, `<html><body><p>nothing</p></body></html>`)
	flash := NewFlashMessages(page)

	displayed, err := flash.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, displayed)

	count, err := flash.MsgCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, flash.AssertNoError(ctx))
	var assertErr *entity.AssertionError
	require.ErrorAs(t, flash.AssertMessage(ctx, "Saved", FlashSuccess, true), &assertErr)
}
