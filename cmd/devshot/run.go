package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/devshot/pkg/adapters/chromebrowser"
	"github.com/user/devshot/pkg/adapters/ffmpegencoder"
	"github.com/user/devshot/pkg/adapters/filedownloader"
	"github.com/user/devshot/pkg/adapters/filesink"
	"github.com/user/devshot/pkg/adapters/framecropper"
	"github.com/user/devshot/pkg/adapters/ggrenderer"
	"github.com/user/devshot/pkg/adapters/logger"
	"github.com/user/devshot/pkg/adapters/nullsink"
	"github.com/user/devshot/pkg/adapters/osfilesystem"
	"github.com/user/devshot/pkg/blobstore"
	"github.com/user/devshot/pkg/config"
	"github.com/user/devshot/pkg/orchestrator"
	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
	"github.com/user/devshot/pkg/stages/capture"
	"github.com/user/devshot/pkg/stages/record"
	"github.com/user/devshot/pkg/summarizer"
)

func runCapture(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(l10n.T("URL argument is required"), 2)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err, 2)
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if p := c.String("ffmpeg-path"); p != "" {
		ffmpegencoder.SetFFmpegPath(p)
	}

	result, err := capturePage(ctx, cfg, log)
	if len(result.Outcomes) > 0 {
		// Devices finished before an interrupt still get listed and reported.
		reportResult(c.App.Writer, cfg, result, log)
	}
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("Interrupted, shutting down...")
		}
		return err
	}

	if n := result.Failed(); n > 0 {
		return cli.Exit(l10n.F("%d of %d devices failed", n, len(result.Outcomes)), 1)
	}
	return nil
}

// reportResult prints every written file and writes the run report when one
// is configured.
func reportResult(w io.Writer, cfg config.Config, result orchestrator.RunResult, log ports.Logger) {
	for _, f := range result.Files() {
		fmt.Fprintln(w, f)
	}

	if cfg.Report == "" {
		return
	}
	writer := summarizer.NewWriter(summarizer.ForPath(cfg.Report), osfilesystem.New())
	if err := writer.Write(cfg.Report, buildSummary(cfg, result)); err != nil {
		log.Error("Failed to write summary: %s", err)
		return
	}
	log.Info("Summary saved to %s", cfg.Report)
}

// capturePage wires the adapters, opens the page and runs every device.
func capturePage(ctx context.Context, cfg config.Config, log ports.Logger) (orchestrator.RunResult, error) {
	captureCfg, err := cfg.CaptureSettings()
	if err != nil {
		return orchestrator.RunResult{}, err
	}
	recordOpts, err := cfg.RecorderOptions()
	if err != nil {
		return orchestrator.RunResult{}, err
	}

	fs := osfilesystem.New()
	if err := fs.MkdirAll(cfg.OutputDir); err != nil {
		return orchestrator.RunResult{}, fmt.Errorf("create output directory: %w", err)
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return orchestrator.RunResult{}, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	renderer := ggrenderer.New()
	blobs := blobstore.New(origin(cfg.URL))
	format := cfg.Format()

	var recordStage pipeline.Stage[pipeline.RecordInput, pipeline.RecordResult]
	if captureCfg.Kind == pipeline.Record {
		encoder, err := ffmpegencoder.New(cfg.Video.Container)
		if err != nil {
			return orchestrator.RunResult{}, err
		}
		if !ffmpegencoder.IsFFmpegAvailable() {
			return orchestrator.RunResult{}, ffmpegencoder.ErrFFmpegNotFound
		}
		recordStage = record.New(renderer, encoder, blobs, log, recordOpts)
	}

	browser := chromebrowser.New(log)
	if err := browser.Launch(ctx, cfg.BrowserOptions()); err != nil {
		return orchestrator.RunResult{}, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	log.Info("Navigating to %s", cfg.URL)
	if err := browser.Navigate(ctx, cfg.URL); err != nil {
		return orchestrator.RunResult{}, fmt.Errorf("navigate: %w", err)
	}

	captureStage := capture.New(
		browser,
		framecropper.New(renderer, format, cfg.JPEGQuality),
		sink,
		log,
		cfg.SettleDelay(),
	)
	downloader := filedownloader.New(cfg.OutputDir, fs, blobs, renderer, format, cfg.JPEGQuality, log)

	orch := orchestrator.New(captureStage, recordStage, downloader, blobs, sink, log)
	return orch.Run(ctx, cfg.Devices, captureCfg)
}

// origin returns scheme://host of the page, used as the blob URL origin.
func origin(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "null"
	}
	return u.Scheme + "://" + u.Host
}

func buildSummary(cfg config.Config, result orchestrator.RunResult) *summarizer.Summary {
	profiles := make(map[string]ports.DeviceProfile, len(cfg.Devices))
	for _, d := range cfg.Devices {
		profiles[d.ID] = d
	}

	b := summarizer.NewBuilder().
		WithURL(cfg.URL).
		WithSettings(summarizer.Settings{
			Kind:        result.Kind.String(),
			ScaleFactor: cfg.Capture.ScaleFactor,
			FPS:         cfg.Capture.FPS,
			Container:   cfg.Video.Container,
			ImageFormat: cfg.ImageFormat,
			Loop:        cfg.Recorder.Loop,
			PingPong:    cfg.Recorder.PingPong,
			ReadyPolicy: cfg.Recorder.ReadyPolicy,
		}).
		WithElapsed(result.Elapsed)

	for _, o := range result.Outcomes {
		d := profiles[o.DeviceID]
		scale := d.DeviceScaleFactor
		if cfg.Capture.ScaleFactor > 0 {
			scale = cfg.Capture.ScaleFactor
		}
		files := make([]string, len(o.Files))
		for i, f := range o.Files {
			files[i] = filepath.Base(f)
		}
		b.AddDevice(summarizer.DeviceRow{
			ID:         o.DeviceID,
			Width:      d.Width,
			Height:     d.Height,
			Scale:      scale,
			Files:      files,
			FrameCount: o.FrameCount,
			DurationMs: o.DurationMs,
			Elapsed:    o.Elapsed,
			Error:      o.Error,
		})
	}
	return b.Build()
}

func runDevices(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 2)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, l10n.T("ID\tSIZE\tSCALE\tMOBILE"))
	for _, d := range cfg.Devices {
		fmt.Fprintf(w, "%s\t%dx%d\t%g\t%v\n", d.ID, d.Width, d.Height, d.DeviceScaleFactor, d.Mobile)
	}
	return w.Flush()
}
