// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/ports"
)

// ErrNotLaunched is returned by page operations before Launch.
var ErrNotLaunched = errors.New("chromebrowser: browser not launched")

const viewportScript = `({
	clientWidth: document.documentElement.clientWidth,
	clientHeight: document.documentElement.clientHeight
})`

const documentHeightScript = `Math.max(
	document.documentElement.scrollHeight,
	document.body ? document.body.scrollHeight : 0
)`

// Browser implements ports.Browser using chromedp.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	logger ports.Logger
}

// New creates a new Browser.
func New(logger ports.Logger) *Browser {
	return &Browser{logger: logger.WithComponent("browser")}
}

// Launch starts the browser with the given options.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("safebrowsing-disable-auto-update", true),
		chromedp.Flag("hide-scrollbars", true),
	}

	if opts.Headless {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}

	// Resolve Chrome path: option → CHROME_PATH env → system → Playwright install
	chromePath := ResolveChromePath(opts.ChromePath)
	if chromePath == "" && opts.AutoInstall {
		b.logger.Info("Chrome not found, installing Chromium")
		installed, err := InstallChromium()
		if err != nil {
			return fmt.Errorf("install chromium: %w", err)
		}
		chromePath = installed
	}
	if chromePath == "" {
		return fmt.Errorf("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option")
	}
	b.logger.Debug("Using Chrome at %s", chromePath)
	chromedpOpts = append(chromedpOpts, chromedp.ExecPath(chromePath))

	if opts.Incognito {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("incognito", true))
	}
	if opts.UserAgent != "" {
		chromedpOpts = append(chromedpOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		chromedpOpts = append(chromedpOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.IgnoreHTTPSErrors {
		chromedpOpts = append(chromedpOpts,
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("ignore-certificate-errors-spki-list", true),
			chromedp.Flag("allow-insecure-localhost", true))
	}
	if opts.ProxyServer != "" {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("proxy-server", opts.ProxyServer))
	}

	// Flags for server/container execution
	chromedpOpts = append(chromedpOpts,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("no-zygote", true),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, chromedpOpts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	// The first Run starts Chrome.
	if err := chromedp.Run(b.ctx); err != nil {
		b.Close()
		return fmt.Errorf("start chrome: %w", err)
	}

	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		if err := b.run(ctx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
			return fmt.Errorf("set headers: %w", err)
		}
	}

	return nil
}

// run executes actions on the page, aborting when either ctx or the
// browser context is done.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	if b.ctx == nil {
		return ErrNotLaunched
	}
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate loads url and waits for the body to be ready.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.logger.Debug("Navigating to %s", url)
	return b.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

// HideScrollbars hides scrollbars for the page.
func (b *Browser) HideScrollbars(ctx context.Context) error {
	return b.run(ctx, emulation.SetScrollbarsHidden(true))
}

// ViewportSize reports the layout viewport in CSS pixels.
func (b *Browser) ViewportSize(ctx context.Context) (ports.Viewport, error) {
	var vp ports.Viewport
	if err := b.run(ctx, chromedp.Evaluate(viewportScript, &vp)); err != nil {
		return ports.Viewport{}, fmt.Errorf("evaluate viewport: %w", err)
	}
	return vp, nil
}

// Resize emulates device. With fullHeight the viewport is first set to the
// device size, then stretched to the document height at that width.
func (b *Browser) Resize(ctx context.Context, device ports.DeviceProfile, fullHeight bool) error {
	scale := device.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}

	b.setWindowBounds(ctx, device.Width, device.Height)
	if err := b.run(ctx, metricsOverride(device.Width, device.Height, scale, device.Mobile)); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	if !fullHeight {
		return nil
	}

	var height int
	if err := b.run(ctx, chromedp.Evaluate(documentHeightScript, &height)); err != nil {
		return fmt.Errorf("evaluate document height: %w", err)
	}
	if height <= device.Height {
		return nil
	}
	b.logger.Debug("Stretching viewport to %dx%d", device.Width, height)
	if err := b.run(ctx, metricsOverride(device.Width, height, scale, device.Mobile)); err != nil {
		return fmt.Errorf("set full height metrics: %w", err)
	}
	return nil
}

func metricsOverride(width, height int, scale float64, mobile bool) chromedp.Action {
	return emulation.SetDeviceMetricsOverride(int64(width), int64(height), scale, mobile).
		WithScreenWidth(int64(width)).
		WithScreenHeight(int64(height))
}

// setWindowBounds resizes the browser window. Headless targets may not
// have a window, so failures are ignored.
func (b *Browser) setWindowBounds(ctx context.Context, width, height int) {
	_ = b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		windowID, _, err := browser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return nil
		}
		return browser.SetWindowBounds(windowID, &browser.Bounds{
			Width:  int64(width),
			Height: int64(height),
		}).Do(ctx)
	}))
}

// Screenshot captures the viewport as a PNG data URI.
func (b *Browser) Screenshot(ctx context.Context) (string, error) {
	var buf []byte
	err := b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithFromSurface(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	return datauri.Encode("image/png", buf), nil
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	b.ctx = nil
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
