package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"pfwidgets/internal/application/port/output"
	"pfwidgets/internal/domain/entity"
	"pfwidgets/internal/infrastructure/wait"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultSlowMotion = 0
	defaultTimeout    = 10 * time.Second
	screenshotWidth   = 1280
)

var (
	ErrBrowserNotConnected = errors.New("browser is not connected")
	ErrInvalidURL          = errors.New("invalid url")
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	logger   output.LoggerPort
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds every single driver call.
	Timeout   time.Duration
	NoSandbox bool
	DevTools  bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

// rodElement is the handle this adapter hands out.
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Describe() string {
	return e.el.String()
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, logger output.LoggerPort) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	logger.Info("Browser started", "headless", cfg.Headless, "timeout", cfg.Timeout.String())

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		logger:   logger,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) p(ctx context.Context) (*rod.Page, error) {
	if !b.IsReady() {
		return nil, ErrBrowserNotConnected
	}
	return b.page.Context(ctx).Timeout(b.timeout), nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrInvalidURL
	}
	page, err := b.p(ctx)
	if err != nil {
		return err
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load failed: %w", err)
	}
	b.logger.Debug("Navigated", "url", url)
	return nil
}

func (b *BrowserAdapter) Info(ctx context.Context) (entity.PageInfo, error) {
	page, err := b.p(ctx)
	if err != nil {
		return entity.PageInfo{}, err
	}
	info, err := page.Info()
	if err != nil {
		return entity.PageInfo{}, fmt.Errorf("page info: %w", err)
	}
	return entity.PageInfo{URL: info.URL, Title: info.Title}, nil
}

func (b *BrowserAdapter) el(ctx context.Context, e output.Element) (*rod.Element, error) {
	re, ok := e.(*rodElement)
	if !ok || re == nil {
		return nil, fmt.Errorf("element %v was not created by the rod adapter", e)
	}
	return re.el.Context(ctx).Timeout(b.timeout), nil
}

func (b *BrowserAdapter) Element(ctx context.Context, locator string, parent output.Element) (output.Element, error) {
	els, err := b.Elements(ctx, locator, parent)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, locator)
	}
	return els[0], nil
}

// Elements evaluates locator once without waiting; polling belongs to the
// caller.
func (b *BrowserAdapter) Elements(ctx context.Context, locator string, parent output.Element) ([]output.Element, error) {
	var (
		found rod.Elements
		err   error
	)
	if parent == nil {
		page, perr := b.p(ctx)
		if perr != nil {
			return nil, perr
		}
		found, err = page.ElementsX(locator)
	} else {
		scope, perr := b.el(ctx, parent)
		if perr != nil {
			return nil, perr
		}
		found, err = scope.ElementsX(locator)
	}
	if err != nil {
		return nil, mapError(fmt.Errorf("query %s: %w", locator, err))
	}

	result := make([]output.Element, 0, len(found))
	for _, el := range found {
		result = append(result, &rodElement{el: el})
	}
	return result, nil
}

func (b *BrowserAdapter) Text(ctx context.Context, e output.Element) (string, error) {
	el, err := b.el(ctx, e)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", mapError(fmt.Errorf("text: %w", err))
	}
	return strings.Join(strings.Fields(text), " "), nil
}

func (b *BrowserAdapter) Attribute(ctx context.Context, e output.Element, name string) (string, bool, error) {
	el, err := b.el(ctx, e)
	if err != nil {
		return "", false, err
	}
	if name == "textContent" {
		prop, err := el.Property(name)
		if err != nil {
			return "", false, mapError(fmt.Errorf("property %s: %w", name, err))
		}
		return prop.Str(), true, nil
	}
	val, err := el.Attribute(name)
	if err != nil {
		return "", false, mapError(fmt.Errorf("attribute %s: %w", name, err))
	}
	if val == nil {
		return "", false, nil
	}
	return *val, true, nil
}

func (b *BrowserAdapter) Classes(ctx context.Context, e output.Element) (entity.ClassSet, error) {
	val, _, err := b.Attribute(ctx, e, "class")
	if err != nil {
		return entity.ClassSet{}, err
	}
	return entity.ParseClasses(val), nil
}

func (b *BrowserAdapter) IsDisplayed(ctx context.Context, e output.Element) (bool, error) {
	el, err := b.el(ctx, e)
	if err != nil {
		return false, err
	}
	visible, err := el.Visible()
	if err != nil {
		return false, mapError(fmt.Errorf("visible: %w", err))
	}
	return visible, nil
}

func (b *BrowserAdapter) IsSelected(ctx context.Context, e output.Element) (bool, error) {
	el, err := b.el(ctx, e)
	if err != nil {
		return false, err
	}
	for _, name := range []string{"checked", "selected"} {
		prop, err := el.Property(name)
		if err != nil {
			return false, mapError(fmt.Errorf("property %s: %w", name, err))
		}
		if prop.Bool() {
			return true, nil
		}
	}
	return false, nil
}

func (b *BrowserAdapter) Value(ctx context.Context, e output.Element) (string, error) {
	el, err := b.el(ctx, e)
	if err != nil {
		return "", err
	}
	prop, err := el.Property("value")
	if err != nil {
		return "", mapError(fmt.Errorf("property value: %w", err))
	}
	if prop.Nil() {
		return "", nil
	}
	return prop.Str(), nil
}

func (b *BrowserAdapter) Click(ctx context.Context, e output.Element) error {
	el, err := b.el(ctx, e)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return mapError(fmt.Errorf("click failed: %w", err))
	}
	return nil
}

func (b *BrowserAdapter) MoveTo(ctx context.Context, e output.Element) error {
	el, err := b.el(ctx, e)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return mapError(fmt.Errorf("hover failed: %w", err))
	}
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, e output.Element, text string) error {
	el, err := b.el(ctx, e)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return mapError(fmt.Errorf("input failed: %w", err))
	}
	return nil
}

// HandleAlert accepts or dismisses a JavaScript dialog if one shows up
// within wait.
func (b *BrowserAdapter) HandleAlert(ctx context.Context, accept bool, within time.Duration) (bool, error) {
	page, err := b.p(ctx)
	if err != nil {
		return false, err
	}
	if within <= 0 {
		within = time.Millisecond
	}

	err = wait.For(ctx, wait.Options{Interval: 100 * time.Millisecond, Timeout: within, Message: "alert"},
		func(ctx context.Context) (bool, error) {
			return proto.PageHandleJavaScriptDialog{Accept: accept}.Call(page) == nil, nil
		})
	if errors.Is(err, entity.ErrTimeout) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	b.logger.Debug("Handled alert", "accept", accept)
	return true, nil
}

// HTML returns the current DOM serialized.
func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	page, err := b.p(ctx)
	if err != nil {
		return "", err
	}
	src, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return src, nil
}

// Screenshot captures the viewport, scaled down to screenshotWidth.
func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.p(ctx)
	if err != nil {
		return nil, err
	}
	imgBytes, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(90),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > screenshotWidth {
		img = imaging.Resize(img, screenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// SaveScreenshot writes a screenshot to path, used for failure artifacts.
func (b *BrowserAdapter) SaveScreenshot(ctx context.Context, path string) error {
	shot, err := b.Screenshot(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	b.logger.Info("Screenshot saved", "path", path)
	return nil
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// staleMessages are CDP errors raised for handles whose node left the DOM.
var staleMessages = []string{
	"Node with given id does not belong to the document",
	"Could not find node with given id",
	"Could not find object with given id",
	"Cannot find context with specified id",
	"No node with given id found",
}

// mapError turns driver errors for detached nodes into
// entity.ErrStaleElement, keeping the original for context.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var notFound *rod.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", entity.ErrStaleElement, err)
	}
	var cdpErr *cdp.Error
	if errors.As(err, &cdpErr) {
		for _, msg := range staleMessages {
			if strings.Contains(cdpErr.Message, msg) {
				return fmt.Errorf("%w: %v", entity.ErrStaleElement, err)
			}
		}
	}
	return err
}
