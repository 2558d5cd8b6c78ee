package record

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/user/devshot/pkg/adapters/logger"
	"github.com/user/devshot/pkg/blobstore"
	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/mocks"
	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
)

// frameURIs returns n data URIs whose single payload byte is the frame index.
func frameURIs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = datauri.Encode("image/png", []byte{byte(i)})
	}
	return out
}

// indexRenderer decodes each payload into a solid image whose red channel is
// the frame index.
func indexRenderer() *mocks.Renderer {
	return &mocks.Renderer{
		DecodeImageFunc: func(data []byte, _ ports.ImageFormat) (image.Image, error) {
			return solid(4, 4, data[0]), nil
		},
	}
}

func solid(w, h int, v byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = v
		img.Pix[i+3] = 0xFF
	}
	return img
}

func testDevice() ports.DeviceProfile {
	return ports.DeviceProfile{ID: "phone", Width: 2, Height: 2, DeviceScaleFactor: 2}
}

func TestStage_Execute(t *testing.T) {
	enc := &mocks.VideoEncoder{}
	blobs := blobstore.New("devshot")
	stage := New(indexRenderer(), enc, blobs, logger.NewNoop(), DefaultOptions())

	var mu sync.Mutex
	var ticks []int
	stage.onTick = func(s Session) {
		mu.Lock()
		ticks = append(ticks, s.Current)
		mu.Unlock()
	}

	result, err := stage.Execute(context.Background(), pipeline.RecordInput{
		Frames: frameURIs(3),
		Device: testDevice(),
		FPS:    50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FrameCount != 3 {
		t.Errorf("FrameCount = %d, want 3", result.FrameCount)
	}
	if result.DurationMs != 60 {
		t.Errorf("DurationMs = %d, want 60", result.DurationMs)
	}
	if result.Format != ports.FormatWebM {
		t.Errorf("Format = %+v", result.Format)
	}
	if stage.State() != StateDone {
		t.Errorf("State = %s, want done", stage.State())
	}

	obj, err := blobs.Open(result.URL)
	if err != nil {
		t.Fatalf("recording not in blob store: %v", err)
	}
	if obj.MIMEType != "video/webm" || len(obj.Data) != result.Bytes {
		t.Errorf("blob = %s/%d bytes, want video/webm/%d", obj.MIMEType, len(obj.Data), result.Bytes)
	}

	if !enc.BeginCalled || !enc.EndCalled {
		t.Error("encoder was not begun and ended")
	}
	if enc.Width != 4 || enc.Height != 4 {
		t.Errorf("surface = %dx%d, want 4x4 (device size x scale)", enc.Width, enc.Height)
	}
	frames := enc.Frames()
	if len(frames) == 0 {
		t.Fatal("no samples encoded")
	}
	for i, f := range frames {
		if f.TimestampMs >= result.DurationMs {
			t.Errorf("sample %d at %dms, after stop time %dms", i, f.TimestampMs, result.DurationMs)
		}
		if f.Bounds.Dx() != 4 || f.Bounds.Dy() != 4 {
			t.Errorf("sample %d bounds = %v", i, f.Bounds)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) == 0 || ticks[0] != 0 {
		t.Errorf("animation must start at frame 0, got %v", ticks)
	}
}

// The encoder must see the frames the animator painted, in playback order:
// one sample per frame during the single forward pass.
func TestStage_ExecuteEncodesFramesInOrder(t *testing.T) {
	const frameCount = 4
	enc := &mocks.VideoEncoder{}
	stage := New(indexRenderer(), enc, blobstore.New("devshot"), logger.NewNoop(), DefaultOptions())

	var mu sync.Mutex
	var ticks []int
	stage.onTick = func(s Session) {
		mu.Lock()
		ticks = append(ticks, s.Current)
		mu.Unlock()
	}

	_, err := stage.Execute(context.Background(), pipeline.RecordInput{
		Frames: frameURIs(frameCount),
		Device: testDevice(),
		FPS:    20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := enc.Frames()
	if len(frames) != frameCount {
		t.Fatalf("encoded %d samples, want %d", len(frames), frameCount)
	}
	seen := make(map[uint8]bool)
	for i, f := range frames {
		seen[f.Red] = true
		if i == 0 {
			continue
		}
		if f.Red < frames[i-1].Red {
			t.Errorf("sample %d shows frame %d after frame %d", i, f.Red, frames[i-1].Red)
		}
		if f.TimestampMs < frames[i-1].TimestampMs {
			t.Errorf("sample %d timestamp %dms before %dms", i, f.TimestampMs, frames[i-1].TimestampMs)
		}
	}
	for idx := 0; idx < frameCount; idx++ {
		if !seen[uint8(idx)] {
			t.Errorf("frame %d never encoded, samples: %+v", idx, frames)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) < frameCount || !equalInts(ticks[:frameCount], []int{0, 1, 2, 3}) {
		t.Errorf("animation ticks = %v, want forward pass 0,1,2,3 first", ticks)
	}
}

func TestStage_ExecuteSingleFrame(t *testing.T) {
	enc := &mocks.VideoEncoder{}
	stage := New(indexRenderer(), enc, blobstore.New("devshot"), logger.NewNoop(), DefaultOptions())

	var mu sync.Mutex
	seen := map[int]bool{}
	stage.onTick = func(s Session) {
		mu.Lock()
		seen[s.Current] = true
		mu.Unlock()
	}

	result, err := stage.Execute(context.Background(), pipeline.RecordInput{
		Frames: frameURIs(1),
		Device: testDevice(),
		FPS:    20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DurationMs != 50 {
		t.Errorf("DurationMs = %d, want 50", result.DurationMs)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || !seen[0] {
		t.Errorf("single frame animation visited %v", seen)
	}
}

func TestStage_ExecuteDecodeError(t *testing.T) {
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, _ ports.ImageFormat) (image.Image, error) {
			if data[0] == 1 {
				return nil, errors.New("corrupt png")
			}
			return solid(4, 4, data[0]), nil
		},
	}
	enc := &mocks.VideoEncoder{}
	blobs := blobstore.New("devshot")
	stage := New(renderer, enc, blobs, logger.NewNoop(), DefaultOptions())

	_, err := stage.Execute(context.Background(), pipeline.RecordInput{
		Frames: frameURIs(3),
		Device: testDevice(),
		FPS:    50,
	})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if enc.BeginCalled {
		t.Error("encoder must not start when loading fails")
	}
	if blobs.Len() != 0 {
		t.Error("no recording should be stored")
	}
	if stage.State() != StateIdle {
		t.Errorf("State = %s, want idle", stage.State())
	}
}

func TestStage_ExecuteLateDecodeErrorAborts(t *testing.T) {
	gate := make(chan struct{})
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, _ ports.ImageFormat) (image.Image, error) {
			if data[0] == 2 {
				<-gate
				return nil, errors.New("truncated")
			}
			return solid(4, 4, data[0]), nil
		},
	}
	opts := DefaultOptions()
	opts.ReadyPolicy = ReadyAllButOne
	stage := New(renderer, &mocks.VideoEncoder{}, blobstore.New("devshot"), logger.NewNoop(), opts)

	time.AfterFunc(20*time.Millisecond, func() { close(gate) })

	_, err := stage.Execute(context.Background(), pipeline.RecordInput{
		Frames: frameURIs(3),
		Device: testDevice(),
		FPS:    5,
	})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestStage_ExecuteEncoderErrors(t *testing.T) {
	tests := []struct {
		name string
		enc  *mocks.VideoEncoder
	}{
		{"begin", &mocks.VideoEncoder{BeginFunc: func(int, int, float64, ports.EncoderOptions) error {
			return errors.New("ffmpeg not found")
		}}},
		{"frame", &mocks.VideoEncoder{EncodeFrameFunc: func(image.Image, int) error {
			return errors.New("broken pipe")
		}}},
		{"end", &mocks.VideoEncoder{EndFunc: func() ([]byte, error) {
			return nil, errors.New("exit status 1")
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := blobstore.New("devshot")
			stage := New(indexRenderer(), tt.enc, blobs, logger.NewNoop(), DefaultOptions())
			_, err := stage.Execute(context.Background(), pipeline.RecordInput{
				Frames: frameURIs(2),
				Device: testDevice(),
				FPS:    50,
			})
			if !errors.Is(err, ErrEncoder) {
				t.Fatalf("expected ErrEncoder, got %v", err)
			}
			if blobs.Len() != 0 {
				t.Error("no recording should be stored")
			}
		})
	}
}

func TestStage_ExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	enc := &mocks.VideoEncoder{}
	stage := New(indexRenderer(), enc, blobstore.New("devshot"), logger.NewNoop(), DefaultOptions())

	time.AfterFunc(30*time.Millisecond, cancel)
	_, err := stage.Execute(ctx, pipeline.RecordInput{
		Frames: frameURIs(10),
		Device: testDevice(),
		FPS:    2,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !enc.EndCalled {
		t.Error("encoder must be finalized on cancel")
	}
}

func TestStage_ExecuteInvalidInput(t *testing.T) {
	stage := New(indexRenderer(), &mocks.VideoEncoder{}, blobstore.New("devshot"), logger.NewNoop(), DefaultOptions())

	if _, err := stage.Execute(context.Background(), pipeline.RecordInput{Device: testDevice()}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("no frames: got %v", err)
	}

	_, err := stage.Execute(context.Background(), pipeline.RecordInput{
		Frames: frameURIs(1),
		Device: ports.DeviceProfile{ID: "zero", DeviceScaleFactor: 1},
	})
	if !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("zero device: got %v", err)
	}
}

func TestLoader_ReadyPolicy(t *testing.T) {
	gate := make(chan struct{})
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, _ ports.ImageFormat) (image.Image, error) {
			if data[0] == 3 {
				<-gate
			}
			return solid(1, 1, data[0]), nil
		},
	}
	ld := &loader{renderer: renderer, workers: 4, logger: logger.NewNoop()}

	t.Run("all but one starts before the last frame", func(t *testing.T) {
		fs, err := ld.load(context.Background(), frameURIs(4), ReadyAllButOne, func(error) {})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fs.get(3) != nil {
			t.Error("frame 3 should still be loading")
		}
		for i := 0; i < 3; i++ {
			if fs.get(i) == nil {
				t.Errorf("frame %d not ready", i)
			}
		}
		close(gate)
		fs.release()
	})

	t.Run("all waits for every frame", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		slow := &mocks.Renderer{
			DecodeImageFunc: func(data []byte, _ ports.ImageFormat) (image.Image, error) {
				if data[0] == 1 {
					<-block
				}
				return solid(1, 1, data[0]), nil
			},
		}
		l := &loader{renderer: slow, workers: 2, logger: logger.NewNoop()}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		go func() {
			<-ctx.Done()
			block <- struct{}{}
		}()
		if _, err := l.load(ctx, frameURIs(2), ReadyAll, func(error) {}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline while waiting for frame 1, got %v", err)
		}
	})
}

func TestReadyPolicy_Threshold(t *testing.T) {
	if got := ReadyAll.threshold(5); got != 5 {
		t.Errorf("ReadyAll(5) = %d", got)
	}
	if got := ReadyAllButOne.threshold(5); got != 4 {
		t.Errorf("ReadyAllButOne(5) = %d", got)
	}
	if got := ReadyAllButOne.threshold(1); got != 1 {
		t.Errorf("ReadyAllButOne(1) = %d", got)
	}
}

func TestSurface_PaintKeepsPreviousOnNil(t *testing.T) {
	canvas := mocks.NewCanvas(2, 2)
	s := newSurface(canvas)
	s.paint(solid(2, 2, 7))
	s.paint(nil)

	if canvas.ClearCalls != 1 || canvas.DrawCalls != 1 {
		t.Errorf("clear=%d draw=%d, want 1/1", canvas.ClearCalls, canvas.DrawCalls)
	}
	snap := s.snapshot()
	if got := snap.RGBAAt(0, 0); got != (color.RGBA{R: 7, A: 0xFF}) {
		t.Errorf("pixel = %v", got)
	}
}
