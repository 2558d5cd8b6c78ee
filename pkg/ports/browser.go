// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Browser abstracts the host bridge that owns the emulated viewport.
// Every call is a single-result operation that honours ctx cancellation.
type Browser interface {
	// Launch starts the browser with the given options.
	Launch(ctx context.Context, opts BrowserOptions) error

	// Navigate loads the specified URL and waits for the page to be ready.
	Navigate(ctx context.Context, url string) error

	// HideScrollbars removes scrollbars so captured pixels only contain page content.
	HideScrollbars(ctx context.Context) error

	// ViewportSize reports the current layout viewport size.
	ViewportSize(ctx context.Context) (Viewport, error)

	// Resize emulates the device viewport. When fullHeight is true the viewport
	// height is stretched to the full document height.
	Resize(ctx context.Context, device DeviceProfile, fullHeight bool) error

	// Screenshot captures the current viewport as a base64 PNG data URI.
	Screenshot(ctx context.Context) (string, error)

	// Close shuts down the browser.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Headless          bool
	ChromePath        string
	AutoInstall       bool // Install Chromium through Playwright when no Chrome is found
	UserAgent         string
	Headers           map[string]string
	WindowWidth       int
	WindowHeight      int
	IgnoreHTTPSErrors bool
	ProxyServer       string // HTTP proxy server (e.g., "http://proxy:8080")
	Incognito         bool
}

// Cropper slices a full-page screenshot into device-sized frames.
type Cropper interface {
	// Crop returns the ordered frames as base64 data URIs.
	Crop(ctx context.Context, image string, device DeviceProfile, offset Offset) ([]string, error)
}

// Downloader dispatches captured artifacts to their final destination.
type Downloader interface {
	// DownloadImages saves still images named after the device and returns
	// the written locations in order.
	DownloadImages(ctx context.Context, images []string, device DeviceProfile) ([]string, error)

	// Download saves the object referenced by req.URL under req.Filename.
	Download(ctx context.Context, req DownloadRequest) (string, error)
}
