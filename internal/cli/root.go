package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pfwidgets/internal/di"
	"pfwidgets/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var (
	flagURL        string
	flagFile       string
	flagUseBrowser bool
	flagHeadless   bool
	flagSlowMotion time.Duration
	flagTimeout    time.Duration
	flagJSON       bool
	flagLogName    string
)

var rootCmd = &cobra.Command{
	Use:   "pfwidgets",
	Short: "pfwidgets - drive PatternFly widgets on a page",
	Long: `pfwidgets reads and drives PatternFly and Bootstrap widgets.

A page is either opened in a browser (--url) or loaded from a saved copy
(--file). Settings can also come from PFW_* variables and .env files.

Examples:
  pfwidgets --url https://miq.local/ems_infra/explorer tree read --tree-id treeview-ems
  pfwidgets --file page.html tree has-path --tree-id tree Datastores NFS
  pfwidgets --file page.html flash read --type error`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagURL, "url", "", "URL to open in the browser (PFW_URL)")
	flags.StringVar(&flagFile, "file", "", "saved HTML page to load (PFW_FILE)")
	flags.BoolVar(&flagUseBrowser, "browser", false, "open --file in the browser instead of the in-memory driver (PFW_USE_BROWSER)")
	flags.BoolVar(&flagHeadless, "headless", true, "run the browser headless (PFW_HEADLESS)")
	flags.DurationVar(&flagSlowMotion, "slow-motion", 0, "delay between browser actions (PFW_SLOW_MOTION)")
	flags.DurationVar(&flagTimeout, "timeout", 10*time.Second, "timeout for widget waits (PFW_TIMEOUT)")
	flags.BoolVar(&flagJSON, "json", false, "print results as JSON")
	flags.StringVar(&flagLogName, "log-name", "", "name of the log file under log/ (PFW_LOG_NAME)")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(flashCmd)
}

// config merges the environment with the flags given on the command line.
func config(cmd *cobra.Command) di.Config {
	cfg := di.ConfigFromEnv(env.NewEnvService())
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = flagURL
	}
	if flags.Changed("file") {
		cfg.File = flagFile
	}
	if flags.Changed("browser") {
		cfg.UseBrowser = flagUseBrowser
	}
	if flags.Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if flags.Changed("slow-motion") {
		cfg.SlowMotion = flagSlowMotion
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("log-name") {
		cfg.LogName = flagLogName
	}
	cfg.JSON = flagJSON
	cfg.Out = cmd.OutOrStdout()
	return cfg
}

// withPage opens the page, runs fn and reports its failure.
func withPage(fn func(ctx context.Context, c *di.Container, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := di.NewContainer(ctx, config(cmd))
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer c.Close()

		c.Logger.Info("Command started", "command", cmd.CommandPath(), "args", args)
		if err := fn(ctx, c, args); err != nil {
			c.Logger.Error("Command failed", "command", cmd.CommandPath(), "error", err)
			if path, shotErr := c.SaveFailure(ctx, cmd.Name()); shotErr != nil {
				c.Logger.Warn("Failure screenshot not saved", "error", shotErr)
			} else if path != "" {
				err = errors.Join(err, fmt.Errorf("screenshot saved to %s", path))
			}
			c.Reporter.ShowError(ctx, err)
			return errReported{err}
		}
		c.Logger.Info("Command completed", "command", cmd.CommandPath())
		return nil
	}
}

// errReported marks errors already shown to the user.
type errReported struct{ error }

func (e errReported) Unwrap() error { return e.error }

// IsReported reports whether err was already printed.
func IsReported(err error) bool {
	var r errReported
	return errors.As(err, &r)
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
