// Package capture implements one device turn against the browser: emulate
// the device, take a screenshot, restore the viewport and slice the frames.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
)

// restoreTimeout bounds the viewport restore, which runs even after ctx is cancelled.
const restoreTimeout = 10 * time.Second

// Stage captures the frames of one device.
type Stage struct {
	browser     ports.Browser
	cropper     ports.Cropper
	sink        ports.DebugSink
	logger      ports.Logger
	settleDelay time.Duration
}

// New creates a new capture stage. A zero settleDelay uses pipeline.DefaultSettleDelay;
// a negative one disables the wait.
func New(browser ports.Browser, cropper ports.Cropper, sink ports.DebugSink, logger ports.Logger, settleDelay time.Duration) *Stage {
	if settleDelay == 0 {
		settleDelay = pipeline.DefaultSettleDelay
	}
	return &Stage{
		browser:     browser,
		cropper:     cropper,
		sink:        sink,
		logger:      logger.WithComponent("capture"),
		settleDelay: settleDelay,
	}
}

// Execute runs the capture for input.Device.
func (s *Stage) Execute(ctx context.Context, input pipeline.CaptureInput) (pipeline.CaptureResult, error) {
	shot, original, err := s.screenshot(ctx, input)
	if err != nil {
		return pipeline.CaptureResult{}, err
	}
	s.saveScreenshot(input.Device.ID, shot)

	result := pipeline.CaptureResult{
		Original:   original,
		Screenshot: shot,
		Frames:     []string{shot},
	}
	if !input.Kind.NeedsCrop() {
		return result, nil
	}

	frames, err := s.cropper.Crop(ctx, shot, input.Device, input.Offset)
	if err != nil {
		return pipeline.CaptureResult{}, fmt.Errorf("crop: %w", err)
	}
	s.logger.Debug("Cropped %d frames", len(frames))
	s.saveFrames(input.Device.ID, frames)

	result.Frames = frames
	return result, nil
}

// screenshot emulates the device and captures it. Once the original
// viewport is known it is restored on every return path.
func (s *Stage) screenshot(ctx context.Context, input pipeline.CaptureInput) (shot string, original ports.DeviceProfile, err error) {
	if err := s.browser.HideScrollbars(ctx); err != nil {
		return "", original, fmt.Errorf("hide scrollbars: %w", err)
	}

	vp, err := s.browser.ViewportSize(ctx)
	if err != nil {
		return "", original, fmt.Errorf("viewport size: %w", err)
	}
	original = ports.DeviceProfile{
		ID:                input.Device.ID,
		Width:             vp.ClientWidth,
		Height:            vp.ClientHeight,
		DeviceScaleFactor: 1,
		Mobile:            input.Device.Mobile,
	}

	defer func() {
		if rerr := s.restore(ctx, original); rerr != nil {
			err = errors.Join(err, rerr)
			shot = ""
		}
	}()

	fullHeight := input.Kind.NeedsFullHeight()
	s.logger.Debug("Resizing to %s (full height: %v)", input.Device, fullHeight)
	if err := s.browser.Resize(ctx, input.Device, fullHeight); err != nil {
		return "", original, fmt.Errorf("resize: %w", err)
	}
	if err := s.settle(ctx); err != nil {
		return "", original, err
	}

	shot, err = s.browser.Screenshot(ctx)
	if err != nil {
		return "", original, fmt.Errorf("screenshot: %w", err)
	}
	return shot, original, nil
}

func (s *Stage) restore(ctx context.Context, original ports.DeviceProfile) error {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()

	s.logger.Debug("Restoring viewport %dx%d", original.Width, original.Height)
	if err := s.browser.Resize(rctx, original, false); err != nil {
		return fmt.Errorf("restore viewport: %w", err)
	}
	return nil
}

// settle waits for layout after a resize.
func (s *Stage) settle(ctx context.Context) error {
	if s.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Stage) saveScreenshot(deviceID, shot string) {
	if s.sink == nil || !s.sink.Enabled() {
		return
	}
	if _, data, err := datauri.Decode(shot); err == nil {
		if err := s.sink.SaveScreenshot(deviceID, data); err != nil {
			s.logger.Warn("Failed to save debug output: %v", err)
		}
	}
}

func (s *Stage) saveFrames(deviceID string, frames []string) {
	if s.sink == nil || !s.sink.Enabled() {
		return
	}
	for i, f := range frames {
		_, data, err := datauri.Decode(f)
		if err != nil {
			continue
		}
		if err := s.sink.SaveFrame(deviceID, i, data); err != nil {
			s.logger.Warn("Failed to save debug output: %v", err)
			return
		}
	}
}

var _ pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult] = (*Stage)(nil)
