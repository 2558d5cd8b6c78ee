package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/user/devshot/pkg/config"
)

// loadConfig reads --config (or the defaults) and applies the flags the
// user actually set on top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.Args().Present() {
		cfg.URL = c.Args().First()
	}
	if c.IsSet("out") {
		cfg.OutputDir = c.String("out")
	}
	if c.IsSet("image-format") {
		cfg.ImageFormat = c.String("image-format")
	}
	if c.IsSet("report") {
		cfg.Report = c.String("report")
	}
	if c.IsSet("type") {
		cfg.Capture.Type = c.String("type")
	}
	if c.IsSet("scale") {
		cfg.Capture.ScaleFactor = c.Float64("scale")
	}
	if c.IsSet("offset-x") {
		cfg.Capture.Offset.X = c.Int("offset-x")
	}
	if c.IsSet("offset-y") {
		cfg.Capture.Offset.Y = c.Int("offset-y")
	}
	if c.IsSet("settle-ms") {
		cfg.SettleDelayMs = c.Int("settle-ms")
	}
	if c.IsSet("fps") {
		cfg.Capture.FPS = c.Float64("fps")
	}
	if c.Bool("no-loop") {
		cfg.Recorder.Loop = false
	}
	if c.Bool("no-ping-pong") {
		cfg.Recorder.PingPong = false
	}
	if c.Bool("legacy-ready") {
		cfg.Recorder.ReadyPolicy = "all-but-one"
	}
	if c.IsSet("container") {
		cfg.Video.Container = c.String("container")
	}
	if c.IsSet("preset") {
		cfg.Video.Preset = c.String("preset")
	}
	if c.IsSet("quality") {
		cfg.Video.Preset = ""
		cfg.Video.Quality = c.Int("quality")
	}
	if c.Bool("no-headless") {
		cfg.Browser.Headless = false
	}
	if c.IsSet("chrome-path") {
		cfg.Browser.ChromePath = c.String("chrome-path")
	}
	if c.Bool("install-browser") {
		cfg.Browser.AutoInstall = true
	}
	if c.Bool("ignore-https-errors") {
		cfg.Browser.IgnoreHTTPSErrors = true
	}
	if c.IsSet("proxy-server") {
		cfg.Browser.ProxyServer = c.String("proxy-server")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	devices, err := cfg.SelectDevices(c.StringSlice("device"))
	if err != nil {
		return cfg, err
	}
	cfg.Devices = devices

	return cfg, nil
}
