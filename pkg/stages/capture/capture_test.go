package capture

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/user/devshot/pkg/adapters/logger"
	"github.com/user/devshot/pkg/mocks"
	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
)

var phone = ports.DeviceProfile{ID: "phone", Width: 375, Height: 667, DeviceScaleFactor: 2, Mobile: true}

func newStage(browser ports.Browser, cropper ports.Cropper, sink ports.DebugSink) *Stage {
	return New(browser, cropper, sink, logger.NewNoop(), -1)
}

func TestStage_ExecuteFrames(t *testing.T) {
	log := mocks.NewCallLog()
	browser := mocks.NewBrowser(1280, 800, log)
	cropper := &mocks.Cropper{Frames: 3, Log: log}
	sink := mocks.NewDebugSink(true)

	result, err := newStage(browser, cropper, sink).Execute(context.Background(), pipeline.CaptureInput{
		Device: phone,
		Kind:   pipeline.Frames,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"HideScrollbars", "ViewportSize", "Resize", "Screenshot", "Resize", "Crop"}
	if got := log.Methods(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}

	calls := log.Calls()
	if !calls[2].FullHeight || calls[2].Width != 375 {
		t.Errorf("emulation resize = %+v", calls[2])
	}
	if calls[4].FullHeight || calls[4].Width != 1280 || calls[4].Height != 800 {
		t.Errorf("restore resize = %+v", calls[4])
	}
	if vp := browser.Viewport(); vp.ClientWidth != 1280 || vp.ClientHeight != 800 {
		t.Errorf("viewport not restored: %+v", vp)
	}

	if len(result.Frames) != 3 {
		t.Errorf("frames = %d, want 3", len(result.Frames))
	}
	if result.Original.DeviceScaleFactor != 1 || !result.Original.Mobile {
		t.Errorf("snapshot = %+v, want scale 1 and device mobile flag", result.Original)
	}
	if len(sink.Screenshots) != 1 || len(sink.Frames["phone"]) != 3 {
		t.Errorf("debug sink got %d screenshots, %d frames", len(sink.Screenshots), len(sink.Frames["phone"]))
	}
}

func TestStage_ExecuteSingleScreenshot(t *testing.T) {
	log := mocks.NewCallLog()
	browser := mocks.NewBrowser(1280, 800, log)

	result, err := newStage(browser, &mocks.Cropper{Log: log}, mocks.NewDebugSink(false)).Execute(context.Background(), pipeline.CaptureInput{
		Device: phone,
		Kind:   pipeline.SingleScreenshot,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range log.Calls() {
		if c.Method == "Crop" {
			t.Error("single screenshot must not be cropped")
		}
		if c.Method == "Resize" && c.FullHeight {
			t.Error("single screenshot must not stretch the viewport")
		}
	}
	if len(result.Frames) != 1 || result.Frames[0] != result.Screenshot {
		t.Errorf("frames = %v", result.Frames)
	}
}

func TestStage_ExecuteFullHeight(t *testing.T) {
	tests := []struct {
		kind       pipeline.CaptureKind
		fullHeight bool
		crop       bool
	}{
		{pipeline.SingleScreenshot, false, false},
		{pipeline.FullsizeScreenshot, true, false},
		{pipeline.Frames, true, true},
		{pipeline.Record, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			log := mocks.NewCallLog()
			_, err := newStage(mocks.NewBrowser(800, 600, log), &mocks.Cropper{Log: log}, nil).Execute(context.Background(), pipeline.CaptureInput{
				Device: phone,
				Kind:   tt.kind,
			})
			if err != nil {
				t.Fatal(err)
			}
			calls := log.Calls()
			if calls[2].FullHeight != tt.fullHeight {
				t.Errorf("fullHeight = %v, want %v", calls[2].FullHeight, tt.fullHeight)
			}
			if cropped := calls[len(calls)-1].Method == "Crop"; cropped != tt.crop {
				t.Errorf("cropped = %v, want %v", cropped, tt.crop)
			}
		})
	}
}

func TestStage_RestoresOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *mocks.Browser)
	}{
		{"screenshot", func(b *mocks.Browser) {
			b.ScreenshotFunc = func(context.Context) (string, error) { return "", errors.New("target closed") }
		}},
		{"resize", func(b *mocks.Browser) {
			b.ResizeFunc = func(_ context.Context, d ports.DeviceProfile, fullHeight bool) error {
				if fullHeight {
					return errors.New("emulation failed")
				}
				return nil
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := mocks.NewCallLog()
			browser := mocks.NewBrowser(1024, 768, log)
			tt.setup(browser)

			_, err := newStage(browser, &mocks.Cropper{Log: log}, nil).Execute(context.Background(), pipeline.CaptureInput{
				Device: phone,
				Kind:   pipeline.Record,
			})
			if err == nil {
				t.Fatal("expected error")
			}

			calls := log.Calls()
			last := calls[len(calls)-1]
			if last.Method != "Resize" || last.Width != 1024 || last.Height != 768 || last.FullHeight {
				t.Errorf("last call = %+v, want restore to 1024x768", last)
			}
			for _, c := range calls {
				if c.Method == "Crop" {
					t.Error("crop must not run after a failed capture")
				}
			}
		})
	}
}

func TestStage_RestoreFailureFailsDevice(t *testing.T) {
	restoreErr := errors.New("restore refused")
	shotErr := errors.New("screenshot refused")
	failRestore := func(_ context.Context, d ports.DeviceProfile, fullHeight bool) error {
		if !fullHeight && d.DeviceScaleFactor == 1 {
			return restoreErr
		}
		return nil
	}

	browser := mocks.NewBrowser(1024, 768, nil)
	browser.ResizeFunc = failRestore
	_, err := newStage(browser, &mocks.Cropper{}, nil).Execute(context.Background(), pipeline.CaptureInput{Device: phone})
	if !errors.Is(err, restoreErr) {
		t.Errorf("expected restore error, got %v", err)
	}

	// A failed restore leaves the viewport at the device size, so the
	// second turn needs its own browser.
	browser = mocks.NewBrowser(1024, 768, nil)
	browser.ResizeFunc = failRestore
	browser.ScreenshotFunc = func(context.Context) (string, error) { return "", shotErr }
	_, err = newStage(browser, &mocks.Cropper{}, nil).Execute(context.Background(), pipeline.CaptureInput{Device: phone})
	if !errors.Is(err, restoreErr) || !errors.Is(err, shotErr) {
		t.Errorf("expected both errors joined, got %v", err)
	}
}

func TestStage_NoRestoreBeforeSnapshot(t *testing.T) {
	log := mocks.NewCallLog()
	browser := mocks.NewBrowser(1024, 768, log)
	browser.ViewportSizeFunc = func(context.Context) (ports.Viewport, error) {
		return ports.Viewport{}, errors.New("evaluate failed")
	}

	_, err := newStage(browser, &mocks.Cropper{}, nil).Execute(context.Background(), pipeline.CaptureInput{Device: phone})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, m := range log.Methods() {
		if m == "Resize" {
			t.Error("no resize expected when the viewport is unknown")
		}
	}
}

func TestStage_SettleDelayHonoursContext(t *testing.T) {
	log := mocks.NewCallLog()
	browser := mocks.NewBrowser(1024, 768, log)
	stage := New(browser, &mocks.Cropper{}, nil, logger.NewNoop(), time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := stage.Execute(ctx, pipeline.CaptureInput{Device: phone, Kind: pipeline.Frames})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if vp := browser.Viewport(); vp.ClientWidth != 1024 {
		t.Errorf("viewport not restored after cancel: %+v", vp)
	}
}

func TestStage_CropError(t *testing.T) {
	cropErr := errors.New("decode failed")
	cropper := &mocks.Cropper{CropFunc: func(context.Context, string, ports.DeviceProfile, ports.Offset) ([]string, error) {
		return nil, cropErr
	}}
	_, err := newStage(mocks.NewBrowser(800, 600, nil), cropper, nil).Execute(context.Background(), pipeline.CaptureInput{
		Device: phone,
		Kind:   pipeline.Frames,
	})
	if !errors.Is(err, cropErr) {
		t.Errorf("expected crop error, got %v", err)
	}
}
