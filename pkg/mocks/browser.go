package mocks

import (
	"context"
	"sync"

	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/ports"
)

// Browser is a mock implementation of ports.Browser. Resize calls update the
// simulated viewport so restoration can be asserted with Viewport.
type Browser struct {
	LaunchFunc         func(ctx context.Context, opts ports.BrowserOptions) error
	NavigateFunc       func(ctx context.Context, url string) error
	HideScrollbarsFunc func(ctx context.Context) error
	ViewportSizeFunc   func(ctx context.Context) (ports.Viewport, error)
	ResizeFunc         func(ctx context.Context, device ports.DeviceProfile, fullHeight bool) error
	ScreenshotFunc     func(ctx context.Context) (string, error)
	CloseFunc          func() error

	Log *CallLog

	mu       sync.Mutex
	viewport ports.Viewport
}

// NewBrowser creates a mock browser with the given initial viewport.
func NewBrowser(width, height int, log *CallLog) *Browser {
	return &Browser{
		Log:      log,
		viewport: ports.Viewport{ClientWidth: width, ClientHeight: height},
	}
}

// Viewport returns the simulated viewport.
func (m *Browser) Viewport() ports.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	m.Log.add(Call{Method: "Launch"})
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) Navigate(ctx context.Context, url string) error {
	m.Log.add(Call{Method: "Navigate"})
	if m.NavigateFunc != nil {
		return m.NavigateFunc(ctx, url)
	}
	return nil
}

func (m *Browser) HideScrollbars(ctx context.Context) error {
	m.Log.add(Call{Method: "HideScrollbars"})
	if m.HideScrollbarsFunc != nil {
		return m.HideScrollbarsFunc(ctx)
	}
	return nil
}

func (m *Browser) ViewportSize(ctx context.Context) (ports.Viewport, error) {
	m.Log.add(Call{Method: "ViewportSize"})
	if m.ViewportSizeFunc != nil {
		return m.ViewportSizeFunc(ctx)
	}
	return m.Viewport(), nil
}

func (m *Browser) Resize(ctx context.Context, device ports.DeviceProfile, fullHeight bool) error {
	m.Log.add(Call{
		Method:     "Resize",
		DeviceID:   device.ID,
		Width:      device.Width,
		Height:     device.Height,
		FullHeight: fullHeight,
	})
	if m.ResizeFunc != nil {
		if err := m.ResizeFunc(ctx, device, fullHeight); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.viewport = ports.Viewport{ClientWidth: device.Width, ClientHeight: device.Height}
	m.mu.Unlock()
	return nil
}

func (m *Browser) Screenshot(ctx context.Context) (string, error) {
	m.Log.add(Call{Method: "Screenshot"})
	if m.ScreenshotFunc != nil {
		return m.ScreenshotFunc(ctx)
	}
	return datauri.Encode("image/png", []byte{0x89, 'P', 'N', 'G'}), nil
}

func (m *Browser) Close() error {
	m.Log.add(Call{Method: "Close"})
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
