package cli

import (
	"context"
	"fmt"
	"os"

	"pfwidgets/internal/di"

	"github.com/spf13/cobra"
)

var snapshotFlagOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the page as a fixture for --file",
	Long: `Save the page without scripts so it can be read again with --file.

Examples:
  pfwidgets --url https://miq.local/dashboard/show snapshot --out dashboard.html
  pfwidgets --file dashboard.html tree read --tree-id tree`,
	Args: cobra.NoArgs,
	RunE: withPage(func(ctx context.Context, c *di.Container, _ []string) error {
		src, err := c.Snapshot(ctx)
		if err != nil {
			return err
		}
		if snapshotFlagOut == "" {
			_, err = fmt.Fprint(rootCmd.OutOrStdout(), src)
			return err
		}
		if err := os.WriteFile(snapshotFlagOut, []byte(src), 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		c.Logger.Info("Snapshot saved", "path", snapshotFlagOut, "bytes", len(src))
		return c.Reporter.ShowValue(ctx, "saved", snapshotFlagOut)
	}),
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFlagOut, "out", "o", "", "file to write, stdout when empty")
	rootCmd.AddCommand(snapshotCmd)
}
