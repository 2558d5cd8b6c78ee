package record

import (
	"context"
	"fmt"
	"time"

	"github.com/user/devshot/pkg/pacer"
	"github.com/user/devshot/pkg/ports"
)

// captureState is the lifecycle of a stream capture.
type captureState int

const (
	capturing captureState = iota
	stopping
	finalized
)

// artifact is a finalized recording.
type artifact struct {
	data     []byte
	format   ports.VideoFormat
	samples  int
	duration time.Duration
}

// streamCapture samples the surface at fps into the encoder and stops once
// stopAfter has elapsed. Sample k is taken at offset + k*interval, so with
// offset at half an interval it lands mid-way through animator tick k.
type streamCapture struct {
	encoder   ports.VideoEncoder
	surface   *surface
	fps       float64
	stopAfter time.Duration
	// offset delays every sample behind the animator tick it belongs to.
	offset  time.Duration
	options ports.EncoderOptions
	logger  ports.Logger

	state captureState
}

// begin opens the encoder. It runs before the animator starts so encoder
// start-up does not shift the sampling clock.
func (c *streamCapture) begin() error {
	width, height := c.surface.size()
	if err := c.encoder.Begin(width, height, c.fps, c.options); err != nil {
		return fmt.Errorf("%w: begin: %w", ErrEncoder, err)
	}
	c.state = capturing
	return nil
}

// run samples until stopAfter has elapsed since start, the moment the
// animator painted its first frame.
func (c *streamCapture) run(ctx context.Context, start time.Time) (artifact, error) {
	if wait := c.offset - time.Since(start); wait > 0 {
		if err := pacer.NewDelayed(wait).Wait(ctx); err != nil {
			c.abort()
			return artifact{}, err
		}
	}
	p := pacer.New(pacer.FrameInterval(c.fps))
	samples := 0

	for c.state == capturing {
		if err := p.Wait(ctx); err != nil {
			c.abort()
			return artifact{}, err
		}

		elapsed := time.Since(start)
		if elapsed >= c.stopAfter {
			c.state = stopping
			break
		}

		ts := elapsed - c.offset
		if ts < 0 {
			ts = 0
		}
		if err := c.encoder.EncodeFrame(c.surface.snapshot(), int(ts.Milliseconds())); err != nil {
			c.abort()
			return artifact{}, fmt.Errorf("%w: frame %d: %w", ErrEncoder, samples, err)
		}
		samples++
	}

	data, err := c.encoder.End()
	c.state = finalized
	if err != nil {
		return artifact{}, fmt.Errorf("%w: finalize: %w", ErrEncoder, err)
	}
	c.logger.Debug("Captured %d samples, %d bytes", samples, len(data))

	return artifact{
		data:     data,
		format:   c.encoder.Format(),
		samples:  samples,
		duration: c.stopAfter,
	}, nil
}

// abort finalizes the encoder and discards its output so no encoder
// process outlives the capture.
func (c *streamCapture) abort() {
	c.state = stopping
	_, _ = c.encoder.End()
	c.state = finalized
}
