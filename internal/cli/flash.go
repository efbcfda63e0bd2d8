package cli

import (
	"context"
	"fmt"
	"regexp"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/di"
	"pfwidgets/internal/widget"

	"github.com/spf13/cobra"
)

var (
	flashFlagText    string
	flashFlagPattern string
	flashFlagTypes   []string
	flashFlagPartial bool
	flashFlagInverse bool
	flashFlagIgnore  []string
)

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Read and assert inline notifications",
}

var flashReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the notifications matching the filter",
	Long: `Print the notifications matching the filter.

Examples:
  pfwidgets --file page.html flash read
  pfwidgets --file page.html flash read --type error --type warning
  pfwidgets --file page.html flash read --text saved --partial`,
	Args: cobra.NoArgs,
	RunE: withPage(func(ctx context.Context, c *di.Container, _ []string) error {
		filter, err := flashFilter()
		if err != nil {
			return err
		}
		var notes []output.Notification
		err = widget.NewFlashMessages(c.Page).EachMessage(ctx, filter, func(m *widget.FlashMessage) error {
			note, err := notification(ctx, m)
			notes = append(notes, note)
			return err
		})
		if err != nil {
			return err
		}
		return c.Reporter.ShowNotifications(ctx, notes)
	}),
}

var flashAssertCmd = &cobra.Command{
	Use:   "assert-no-error",
	Short: "Fail when an error notification is shown",
	Args:  cobra.NoArgs,
	RunE: withPage(func(ctx context.Context, c *di.Container, _ []string) error {
		if err := widget.NewFlashMessages(c.Page).AssertNoError(ctx, flashFlagIgnore...); err != nil {
			return err
		}
		return c.Reporter.ShowValue(ctx, "errors", 0)
	}),
}

func flashFilter() (widget.MessageFilter, error) {
	filter := widget.MessageFilter{
		Text:    flashFlagText,
		Partial: flashFlagPartial,
		Types:   flashFlagTypes,
		Inverse: flashFlagInverse,
	}
	if flashFlagPattern != "" {
		re, err := regexp.Compile(flashFlagPattern)
		if err != nil {
			return filter, fmt.Errorf("invalid pattern %q: %w", flashFlagPattern, err)
		}
		filter.Pattern = re
	}
	return filter, nil
}

func notification(ctx context.Context, m *widget.FlashMessage) (output.Notification, error) {
	text, err := m.Text(ctx)
	if err != nil {
		return output.Notification{}, err
	}
	kind, err := m.Type(ctx)
	if err != nil {
		return output.Notification{}, err
	}
	icon, err := m.Icon(ctx)
	if err != nil {
		return output.Notification{}, err
	}
	return output.Notification{Type: kind, Text: text, Icon: icon}, nil
}

func init() {
	flags := flashReadCmd.Flags()
	flags.StringVar(&flashFlagText, "text", "", "text the notification must equal")
	flags.StringVar(&flashFlagPattern, "pattern", "", "regular expression matched from the start of the text")
	flags.StringSliceVar(&flashFlagTypes, "type", nil, "notification type: success, info, warning or error")
	flags.BoolVar(&flashFlagPartial, "partial", false, "match --text anywhere in the notification")
	flags.BoolVar(&flashFlagInverse, "inverse", false, "print the notifications that do not match")
	flashCmd.AddCommand(flashReadCmd)

	flashAssertCmd.Flags().StringSliceVar(&flashFlagIgnore, "ignore", nil, "error texts to tolerate")
	flashCmd.AddCommand(flashAssertCmd)
}
