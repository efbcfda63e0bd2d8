package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/infrastructure/browser/htmldom"
	"pfwidgets/internal/infrastructure/browser/rod"
	"pfwidgets/internal/infrastructure/browser/snapshot"
	"pfwidgets/internal/infrastructure/console"
	"pfwidgets/internal/infrastructure/logger"
	"pfwidgets/internal/widget"
)

type Container struct {
	Browser  output.BrowserPort
	Logger   output.LoggerPort
	Reporter output.ReporterPort
	Page     *widget.Page

	rod *rod.BrowserAdapter
}

type Config struct {
	// URL is opened in a real browser.
	URL string
	// File is a saved page; it is loaded into the in-memory driver unless
	// UseBrowser is set.
	File       string
	UseBrowser bool
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds widget waits and every driver call.
	Timeout time.Duration
	LogName string
	JSON    bool
	// Out receives the results, stdout when nil.
	Out io.Writer
}

// ConfigFromEnv reads the PFW_* variables; flags override them afterwards.
func ConfigFromEnv(env output.ConfigPort) Config {
	return Config{
		URL:        env.Get("PFW_URL"),
		File:       env.Get("PFW_FILE"),
		UseBrowser: env.GetBool("PFW_USE_BROWSER", false),
		Headless:   env.GetBool("PFW_HEADLESS", true),
		SlowMotion: env.GetDuration("PFW_SLOW_MOTION", 0),
		Timeout:    env.GetDuration("PFW_TIMEOUT", 10*time.Second),
		LogName:    env.GetWithDefault("PFW_LOG_NAME", "pfwidgets"),
	}
}

func (c Config) validate() error {
	switch {
	case c.URL == "" && c.File == "":
		return fmt.Errorf("one of url or file is required")
	case c.URL != "" && c.File != "":
		return fmt.Errorf("url and file are mutually exclusive")
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewLoggerAdapter(cfg.LogName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	c := &Container{Logger: log, Reporter: console.NewReporterTo(out, cfg.JSON)}
	if err := c.openBrowser(ctx, cfg); err != nil {
		log.Close()
		return nil, err
	}

	timing := widget.DefaultTiming()
	timing.Timeout = cfg.Timeout
	c.Page = widget.NewPage(c.Browser, log, timing)
	return c, nil
}

func (c *Container) openBrowser(ctx context.Context, cfg Config) error {
	if cfg.File != "" && !cfg.UseBrowser {
		doc, err := htmldom.Load(cfg.File)
		if err != nil {
			return fmt.Errorf("failed to load page: %w", err)
		}
		c.Logger.Info("Loaded page", "file", cfg.File)
		c.Browser = doc
		return nil
	}

	url := cfg.URL
	if url == "" {
		abs, err := filepath.Abs(cfg.File)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", cfg.File, err)
		}
		url = "file://" + abs
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browserCfg.SlowMotion = cfg.SlowMotion
	browserCfg.Timeout = cfg.Timeout
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	if err := browser.Navigate(ctx, url); err != nil {
		browser.Close()
		return err
	}
	c.rod = browser
	c.Browser = browser
	return nil
}

// SaveFailure stores a screenshot next to the logs when a real browser is
// in use. It reports the path written, "" when there was nothing to save.
func (c *Container) SaveFailure(ctx context.Context, name string) (string, error) {
	if c.rod == nil {
		return "", nil
	}
	path := filepath.Join("log", fmt.Sprintf("%s_%s.jpg", time.Now().Format("2006-01-02_15-04-05"), name))
	if err := c.rod.SaveScreenshot(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// Snapshot returns the current page cleaned so it can be loaded again
// with the in-memory driver.
func (c *Container) Snapshot(ctx context.Context) (string, error) {
	var src string
	switch b := c.Browser.(type) {
	case *rod.BrowserAdapter:
		html, err := b.HTML(ctx)
		if err != nil {
			return "", err
		}
		src = html
	case *htmldom.Document:
		src = b.HTML()
	default:
		return "", fmt.Errorf("driver %T cannot take snapshots", b)
	}
	return snapshot.Clean(src, nil)
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
