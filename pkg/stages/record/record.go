// Package record implements the canvas recorder: frames are decoded onto a
// drawing surface, animated in ping-pong order and captured as a video.
package record

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/user/devshot/pkg/blobstore"
	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
)

// Options configures playback and encoding.
type Options struct {
	Loop        bool
	PingPong    bool
	ReadyPolicy ReadyPolicy
	Encoder     ports.EncoderOptions
	Background  color.Color
	Workers     int // decode workers, 0 = NumCPU
}

// DefaultOptions returns looping ping-pong playback that waits for every frame.
func DefaultOptions() Options {
	return Options{
		Loop:        true,
		PingPong:    true,
		ReadyPolicy: ReadyAll,
		Background:  color.White,
	}
}

// Stage records a frame sequence into a video held in a blob store.
type Stage struct {
	renderer ports.Renderer
	encoder  ports.VideoEncoder
	blobs    *blobstore.Store
	logger   ports.Logger
	options  Options

	mu    sync.Mutex
	state State

	// onTick is forwarded to the animator.
	onTick func(Session)
}

// New creates a new record stage.
func New(
	renderer ports.Renderer,
	encoder ports.VideoEncoder,
	blobs *blobstore.Store,
	logger ports.Logger,
	opts Options,
) *Stage {
	if opts.Background == nil {
		opts.Background = color.White
	}
	return &Stage{
		renderer: renderer,
		encoder:  encoder,
		blobs:    blobs,
		logger:   logger.WithComponent("recorder"),
		options:  opts,
	}
}

// State returns the lifecycle state of the most recent recording.
func (s *Stage) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Stage) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.logger.Debug("Recorder state: %s", st)
}

// Execute plays the frames once forward at input.FPS while capturing the
// surface, and returns the blob URL of the finalized video.
func (s *Stage) Execute(ctx context.Context, input pipeline.RecordInput) (pipeline.RecordResult, error) {
	fps := input.FPS
	if fps == 0 {
		fps = pipeline.DefaultFPS
	}
	session, err := NewSession(input.Frames, fps, s.options.Loop, s.options.PingPong)
	if err != nil {
		return pipeline.RecordResult{}, err
	}

	width, height := input.Device.PixelSize()
	if width <= 0 || height <= 0 {
		return pipeline.RecordResult{}, fmt.Errorf("%w: %dx%d", ErrInvalidSurface, width, height)
	}

	s.setState(StateLoading)
	defer func() {
		if s.State() != StateDone {
			s.setState(StateIdle)
		}
	}()

	sessionCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ld := &loader{renderer: s.renderer, workers: workers, logger: s.logger}
	frames, err := ld.load(sessionCtx, session.URIs(), s.options.ReadyPolicy, abort)
	if err != nil {
		return pipeline.RecordResult{}, err
	}
	defer frames.release()

	surf := newSurface(s.renderer.CreateCanvas(width, height, s.options.Background))
	anim := &animator{surface: surf, frames: frames, logger: s.logger, onTick: s.onTick}
	capture := &streamCapture{
		encoder:   s.encoder,
		surface:   surf,
		fps:       fps,
		stopAfter: session.StopAfter(),
		offset:    session.Interval / 2,
		options:   s.options.Encoder,
		logger:    s.logger,
	}

	if err := capture.begin(); err != nil {
		return pipeline.RecordResult{}, err
	}

	animCtx, stopAnim := context.WithCancel(sessionCtx)
	done := make(chan Session, 1)
	start := time.Now()
	go func() {
		done <- anim.run(animCtx, session)
	}()
	s.setState(session.State())

	art, captureErr := capture.run(sessionCtx, start)
	stopAnim()
	<-done

	if cause := context.Cause(sessionCtx); errors.Is(cause, ErrDecode) {
		return pipeline.RecordResult{}, cause
	}
	if captureErr != nil {
		return pipeline.RecordResult{}, captureErr
	}

	s.setState(StateFinalizing)
	url, err := s.blobs.Create(art.data, art.format.MIMEType)
	if err != nil {
		return pipeline.RecordResult{}, fmt.Errorf("failed to store recording: %w", err)
	}
	s.setState(StateDone)

	return pipeline.RecordResult{
		URL:        url,
		Format:     art.format,
		FrameCount: session.FrameCount(),
		DurationMs: int(art.duration.Milliseconds()),
		Bytes:      len(art.data),
	}, nil
}

var _ pipeline.Stage[pipeline.RecordInput, pipeline.RecordResult] = (*Stage)(nil)
