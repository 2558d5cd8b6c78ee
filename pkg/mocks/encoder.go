package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/devshot/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	BeginFunc       func(width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image, timestampMs int) error
	EndFunc         func() ([]byte, error)
	VideoFormat     ports.VideoFormat

	mu sync.Mutex

	// Recorded calls for verification
	BeginCalled      bool
	Width, Height    int
	FPS              float64
	EncodeFrameCalls []EncodeFrameCall
	EndCalled        bool
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	TimestampMs int
	Bounds      image.Rectangle
	Red         uint8 // red channel of the top-left pixel
}

func (m *VideoEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.Width, m.Height, m.FPS = width, height, fps
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	m.mu.Lock()
	b := img.Bounds()
	red := color.RGBAModel.Convert(img.At(b.Min.X, b.Min.Y)).(color.RGBA).R
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{TimestampMs: timestampMs, Bounds: b, Red: red})
	m.mu.Unlock()
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img, timestampMs)
	}
	return nil
}

func (m *VideoEncoder) End() ([]byte, error) {
	m.mu.Lock()
	m.EndCalled = true
	m.mu.Unlock()
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	// Return minimal WebM header
	return []byte{0x1A, 0x45, 0xDF, 0xA3}, nil
}

func (m *VideoEncoder) Format() ports.VideoFormat {
	if m.VideoFormat.Extension == "" {
		return ports.FormatWebM
	}
	return m.VideoFormat
}

// Frames returns a copy of the recorded EncodeFrame calls.
func (m *VideoEncoder) Frames() []EncodeFrameCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EncodeFrameCall, len(m.EncodeFrameCalls))
	copy(out, m.EncodeFrameCalls)
	return out
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
