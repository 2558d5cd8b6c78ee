package ffmpegencoder

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/devshot/pkg/ports"
)

// WebMEncoder produces VP9 WebM.
type WebMEncoder struct {
	mu     sync.Mutex
	proc   *process
	frames int
}

// NewWebM creates a WebM encoder.
func NewWebM() *WebMEncoder {
	return &WebMEncoder{}
}

func webmArgs(width, height int, fps float64, opts ports.EncoderOptions) []string {
	args := rawInputArgs(width, height, fps)
	args = append(args,
		"-c:v", "libvpx-vp9",
		"-deadline", "realtime",
		"-cpu-used", "8",
		"-row-mt", "1",
		"-pix_fmt", "yuv420p",
		"-crf", fmt.Sprintf("%d", crf(opts, 63, 32)),
	)
	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	} else {
		args = append(args, "-b:v", "0")
	}
	return append(args, "-f", "webm", "pipe:1")
}

// Begin starts ffmpeg.
func (e *WebMEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc != nil {
		e.proc.kill()
		e.proc = nil
	}
	proc, err := startProcess(width, height, webmArgs(width, height, fps, opts))
	if err != nil {
		return err
	}
	e.proc = proc
	e.frames = 0
	return nil
}

// EncodeFrame pipes one frame to ffmpeg. Frames are taken at the constant
// rate given to Begin, so timestampMs is not used.
func (e *WebMEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil {
		return ErrNotInitialized
	}
	if err := e.proc.write(img); err != nil {
		return err
	}
	e.frames++
	return nil
}

// End waits for ffmpeg and returns the WebM file.
func (e *WebMEncoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil {
		return nil, ErrNotInitialized
	}
	proc := e.proc
	e.proc = nil

	if e.frames == 0 {
		proc.kill()
		return nil, ErrNoFrames
	}
	return proc.finish()
}

// Format implements ports.VideoEncoder.
func (e *WebMEncoder) Format() ports.VideoFormat {
	return ports.FormatWebM
}

var _ ports.VideoEncoder = (*WebMEncoder)(nil)
