// Package orchestrator runs the capture pipeline once per device profile.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/devshot/pkg/blobstore"
	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
)

// Orchestrator drives the capture and record stages over a device list.
// Devices are processed strictly one after another because they share a
// single browser viewport.
type Orchestrator struct {
	captureStage pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult]
	recordStage  pipeline.Stage[pipeline.RecordInput, pipeline.RecordResult]
	downloader   ports.Downloader
	blobs        *blobstore.Store
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	captureStage pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult],
	recordStage pipeline.Stage[pipeline.RecordInput, pipeline.RecordResult],
	downloader ports.Downloader,
	blobs *blobstore.Store,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		captureStage: captureStage,
		recordStage:  recordStage,
		downloader:   downloader,
		blobs:        blobs,
		sink:         sink,
		logger:       logger,
	}
}

// RunResult contains the per-device outcomes of a run.
type RunResult struct {
	Kind     pipeline.CaptureKind
	Outcomes []pipeline.DeviceOutcome
	Elapsed  time.Duration
}

// Failed returns the number of devices that did not produce output.
func (r RunResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Files returns every written location in device order.
func (r RunResult) Files() []string {
	var files []string
	for _, o := range r.Outcomes {
		files = append(files, o.Files...)
	}
	return files
}

// Run captures every device in order. A device failure is recorded in its
// outcome and the run moves on; Run itself only fails when ctx is done.
func (o *Orchestrator) Run(ctx context.Context, devices []ports.DeviceProfile, cfg pipeline.CaptureConfig) (RunResult, error) {
	start := time.Now()
	result := RunResult{Kind: cfg.Kind}
	o.logger.Info("Starting %s capture of %d devices", cfg.Kind, len(devices))

	for i, profile := range devices {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}

		device := profile
		if cfg.ScaleFactor > 0 {
			device = profile.WithScale(cfg.ScaleFactor)
		}
		o.logger.Info("Current device: %s (%d/%d)", device, i+1, len(devices))

		outcome := o.runDevice(ctx, device, cfg)
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Err != nil {
			o.logger.Warn("Device %s failed: %v", device.ID, outcome.Err)
		} else {
			o.logger.Info("Device %s completed: %d files in %v", device.ID, len(outcome.Files), outcome.Elapsed.Round(time.Millisecond))
		}

		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			o.saveRunJSON(result)
			return result, err
		}
	}

	result.Elapsed = time.Since(start)
	o.saveRunJSON(result)
	o.logger.Info("Run completed: %d devices, %d failed", len(result.Outcomes), result.Failed())
	return result, nil
}

// runDevice runs one device turn to completion.
func (o *Orchestrator) runDevice(ctx context.Context, device ports.DeviceProfile, cfg pipeline.CaptureConfig) pipeline.DeviceOutcome {
	start := time.Now()
	outcome := pipeline.DeviceOutcome{DeviceID: device.ID, Kind: cfg.Kind.String()}

	fail := func(err error) pipeline.DeviceOutcome {
		outcome.Err = err
		outcome.Error = err.Error()
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	captured, err := o.captureStage.Execute(ctx, pipeline.CaptureInput{
		Device: device,
		Kind:   cfg.Kind,
		Offset: cfg.Offset,
	})
	if err != nil {
		return fail(fmt.Errorf("capture stage: %w", err))
	}
	outcome.FrameCount = len(captured.Frames)

	if cfg.Kind == pipeline.Record {
		path, durationMs, err := o.record(ctx, device, captured.Frames, cfg.EffectiveFPS())
		if err != nil {
			return fail(err)
		}
		outcome.Files = []string{path}
		outcome.DurationMs = durationMs
	} else {
		files, err := o.downloader.DownloadImages(ctx, captured.Frames, device)
		if err != nil {
			return fail(fmt.Errorf("download images: %w", err))
		}
		outcome.Files = files
	}

	outcome.Elapsed = time.Since(start)
	return outcome
}

// record turns frames into a video and dispatches it as <device id><ext>.
func (o *Orchestrator) record(ctx context.Context, device ports.DeviceProfile, frames []string, fps float64) (string, int, error) {
	recorded, err := o.recordStage.Execute(ctx, pipeline.RecordInput{
		Frames: frames,
		Device: device,
		FPS:    fps,
	})
	if err != nil {
		return "", 0, fmt.Errorf("record stage: %w", err)
	}
	defer o.blobs.Revoke(recorded.URL)

	o.logger.Info("Recorded %d frames into %d bytes", recorded.FrameCount, recorded.Bytes)

	path, err := o.downloader.Download(ctx, ports.DownloadRequest{
		Filename: device.ID + recorded.Format.Extension,
		URL:      recorded.URL,
	})
	if err != nil {
		return "", 0, fmt.Errorf("download video: %w", err)
	}
	return path, recorded.DurationMs, nil
}

func (o *Orchestrator) saveRunJSON(result RunResult) {
	if o.sink == nil || !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(result.Outcomes, "", "  ")
	if err != nil {
		return
	}
	if err := o.sink.SaveRunJSON(data); err != nil {
		o.logger.Warn("Failed to save debug output: %v", err)
	}
}
