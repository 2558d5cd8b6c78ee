// Package main provides the CLI entry point for devshot.
package main

import (
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, l10n.F("devshot version %s", c.App.Version))
	}

	return &cli.App{
		Name:    "devshot",
		Usage:   l10n.T("Capture web pages as device screenshots, frames and videos"),
		Version: version,
		Description: l10n.T("devshot emulates each device profile in turn, captures the page and " +
			"saves screenshots, cropped frames or a recorded scroll video."),
		Commands: []*cli.Command{
			captureCommand(),
			devicesCommand(),
		},
	}
}

const (
	catOutput   = "Output"
	catCapture  = "Capture"
	catRecorder = "Recorder"
	catVideo    = "Video and Quality"
	catBrowser  = "Browser"
	catDebug    = "Debug"
	catLogging  = "Logging"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   l10n.T("YAML configuration file"),
	}
}

func captureCommand() *cli.Command {
	return &cli.Command{
		Name:        "capture",
		Usage:       l10n.T("Capture a page for every device profile"),
		Description: l10n.T("Capture the page at URL once per device and save the results to the output directory."),
		ArgsUsage:   "<url>",
		Action:      runCapture,
		Flags: []cli.Flag{
			configFlag(),

			// Output
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: l10n.T("Output directory"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "image-format", Usage: l10n.T("Still image format (png, jpeg)"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "report", Usage: l10n.T("Write a run report to this file (.json for JSON, otherwise Markdown)"), Category: l10n.T(catOutput)},

			// Capture
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: l10n.T("Capture type (single, fullsize, frames, record)"), Category: l10n.T(catCapture)},
			&cli.StringSliceFlag{Name: "device", Aliases: []string{"D"}, Usage: l10n.T("Only capture the device with this ID (repeatable)"), Category: l10n.T(catCapture)},
			&cli.Float64Flag{Name: "scale", Usage: l10n.T("Override the device scale factor (0 = profile value)"), Category: l10n.T(catCapture)},
			&cli.IntFlag{Name: "offset-x", Usage: l10n.T("Horizontal inset of every frame in CSS pixels"), Category: l10n.T(catCapture)},
			&cli.IntFlag{Name: "offset-y", Usage: l10n.T("Vertical step between frames in CSS pixels (0 = device height)"), Category: l10n.T(catCapture)},
			&cli.IntFlag{Name: "settle-ms", Usage: l10n.T("Wait after resizing the viewport in milliseconds (0 = none)"), Category: l10n.T(catCapture)},

			// Recorder
			&cli.Float64Flag{Name: "fps", Usage: l10n.T("Recording frame rate"), Category: l10n.T(catRecorder)},
			&cli.BoolFlag{Name: "no-loop", Usage: l10n.T("Stop the animation after the last frame"), Category: l10n.T(catRecorder)},
			&cli.BoolFlag{Name: "no-ping-pong", Usage: l10n.T("Wrap to the first frame instead of reversing"), Category: l10n.T(catRecorder)},
			&cli.BoolFlag{Name: "legacy-ready", Usage: l10n.T("Start recording once all but one frame are decoded"), Category: l10n.T(catRecorder)},

			// Video
			&cli.StringFlag{Name: "container", Usage: l10n.T("Video container (webm, mp4)"), Category: l10n.T(catVideo)},
			&cli.StringFlag{Name: "preset", Usage: l10n.T("Quality preset (low, medium, high)"), Category: l10n.T(catVideo)},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Video CRF value (0-63, lower is better, overrides quality preset)"), Category: l10n.T(catVideo)},
			&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to ffmpeg executable"), Category: l10n.T(catVideo)},

			// Browser
			&cli.BoolFlag{Name: "no-headless", Usage: l10n.T("Run browser in non-headless mode"), Category: l10n.T(catBrowser)},
			&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable"), Category: l10n.T(catBrowser)},
			&cli.BoolFlag{Name: "install-browser", Usage: l10n.T("Install Chromium when no Chrome is found"), Category: l10n.T(catBrowser)},
			&cli.BoolFlag{Name: "ignore-https-errors", Usage: l10n.T("Ignore HTTPS certificate errors"), Category: l10n.T(catBrowser)},
			&cli.StringFlag{Name: "proxy-server", Usage: l10n.T("HTTP proxy server (e.g., http://proxy:8080)"), Category: l10n.T(catBrowser)},

			// Debug
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T(catDebug)},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T(catDebug)},

			// Logging
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T(catLogging)},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T(catLogging)},
		},
	}
}

func devicesCommand() *cli.Command {
	return &cli.Command{
		Name:   "devices",
		Usage:  l10n.T("List the configured device profiles"),
		Flags:  []cli.Flag{configFlag()},
		Action: runDevices,
	}
}
