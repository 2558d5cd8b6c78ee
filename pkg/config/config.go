// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/devshot/pkg/pipeline"
	"github.com/user/devshot/pkg/ports"
	"github.com/user/devshot/pkg/stages/record"
)

// Config represents the full configuration for devshot.
type Config struct {
	URL       string `yaml:"url"`
	OutputDir string `yaml:"output_dir"`

	Capture       CaptureConfig  `yaml:"capture"`
	SettleDelayMs int            `yaml:"settle_delay_ms"`
	ImageFormat   string         `yaml:"image_format"`
	JPEGQuality   int            `yaml:"jpeg_quality"`
	Recorder      RecorderConfig `yaml:"recorder"`
	Video         VideoConfig    `yaml:"video"`
	Browser       BrowserConfig  `yaml:"browser"`

	Devices []ports.DeviceProfile `yaml:"devices"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Report is the run report path; ".json" selects JSON, anything else
	// Markdown. Empty disables it.
	Report string `yaml:"report"`
}

// CaptureConfig selects what is produced per device.
type CaptureConfig struct {
	Type        string       `yaml:"type"`
	ScaleFactor float64      `yaml:"scale_factor"`
	Offset      ports.Offset `yaml:"offset"`
	FPS         float64      `yaml:"fps"`
}

// RecorderConfig controls playback of recorded frames.
type RecorderConfig struct {
	Loop        bool   `yaml:"loop"`
	PingPong    bool   `yaml:"ping_pong"`
	ReadyPolicy string `yaml:"ready_policy"`
	Background  string `yaml:"background"`
}

// VideoConfig controls encoding.
type VideoConfig struct {
	Container string `yaml:"container"`
	Preset    string `yaml:"preset"`  // low, medium, high; overrides quality
	Quality   int    `yaml:"quality"` // 0-63, lower is better
	Bitrate   int    `yaml:"bitrate"` // kbps, 0 = encoder default
}

// BrowserConfig represents browser launch settings.
type BrowserConfig struct {
	Headless          bool              `yaml:"headless"`
	ChromePath        string            `yaml:"chrome_path"`
	AutoInstall       bool              `yaml:"auto_install"`
	UserAgent         string            `yaml:"user_agent"`
	WindowWidth       int               `yaml:"window_width"`
	WindowHeight      int               `yaml:"window_height"`
	IgnoreHTTPSErrors bool              `yaml:"ignore_https_errors"`
	ProxyServer       string            `yaml:"proxy_server"`
	Incognito         bool              `yaml:"incognito"`
	Headers           map[string]string `yaml:"headers"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir: ".",
		Capture: CaptureConfig{
			Type: "record",
			FPS:  pipeline.DefaultFPS,
		},
		SettleDelayMs: int(pipeline.DefaultSettleDelay / time.Millisecond),
		ImageFormat:   "png",
		JPEGQuality:   90,
		Recorder: RecorderConfig{
			Loop:        true,
			PingPong:    true,
			ReadyPolicy: "all",
			Background:  "#ffffff",
		},
		Video: VideoConfig{
			Container: "webm",
			Quality:   32,
		},
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  1280,
			WindowHeight: 800,
		},
		Devices:  DefaultDevices(),
		DebugDir: "./debug",
	}
}

// DefaultDevices returns the built-in device profiles.
func DefaultDevices() []ports.DeviceProfile {
	return []ports.DeviceProfile{
		{ID: "iphone-se", Width: 375, Height: 667, DeviceScaleFactor: 2, Mobile: true},
		{ID: "iphone-12-pro", Width: 390, Height: 844, DeviceScaleFactor: 3, Mobile: true},
		{ID: "pixel-5", Width: 393, Height: 851, DeviceScaleFactor: 2.75, Mobile: true},
		{ID: "ipad-air", Width: 820, Height: 1180, DeviceScaleFactor: 2, Mobile: true},
		{ID: "desktop", Width: 1440, Height: 900, DeviceScaleFactor: 1},
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
// Unknown keys are rejected.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var errs []error

	if c.URL == "" {
		errs = append(errs, errors.New("url is required"))
	}
	if _, err := pipeline.ParseCaptureKind(c.Capture.Type); err != nil {
		errs = append(errs, err)
	}
	if c.Capture.ScaleFactor < 0 {
		errs = append(errs, fmt.Errorf("capture.scale_factor must not be negative: %v", c.Capture.ScaleFactor))
	}
	if c.Capture.FPS < 0 {
		errs = append(errs, fmt.Errorf("capture.fps must not be negative: %v", c.Capture.FPS))
	}
	if c.Capture.Offset.X < 0 {
		errs = append(errs, fmt.Errorf("capture.offset.x must not be negative: %d", c.Capture.Offset.X))
	}
	if _, ok := ports.ParseImageFormat(c.ImageFormat); !ok {
		errs = append(errs, fmt.Errorf("unknown image_format %q", c.ImageFormat))
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be 0-100: %d", c.JPEGQuality))
	}
	if _, err := record.ParseReadyPolicy(c.Recorder.ReadyPolicy); err != nil {
		errs = append(errs, fmt.Errorf("recorder.ready_policy: %w", err))
	}
	if _, err := ParseColor(c.Recorder.Background); err != nil {
		errs = append(errs, fmt.Errorf("recorder.background: %w", err))
	}
	switch strings.ToLower(c.Video.Container) {
	case "", "webm", "mp4":
	default:
		errs = append(errs, fmt.Errorf("unknown video.container %q", c.Video.Container))
	}
	if c.Video.Preset != "" {
		if _, ok := presetCRF[QualityPreset(c.Video.Preset)]; !ok {
			errs = append(errs, fmt.Errorf("unknown video.preset %q", c.Video.Preset))
		}
	}
	if c.Video.Quality < 0 || c.Video.Quality > 63 {
		errs = append(errs, fmt.Errorf("video.quality must be 0-63: %d", c.Video.Quality))
	}
	if len(c.Devices) == 0 {
		errs = append(errs, errors.New("at least one device is required"))
	}
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		switch {
		case d.ID == "":
			errs = append(errs, fmt.Errorf("devices[%d]: id is required", i))
		case d.ID == "." || d.ID == ".." || filepath.Base(d.ID) != d.ID:
			errs = append(errs, fmt.Errorf("devices[%d]: id %q must be a plain file name", i, d.ID))
		case seen[d.ID]:
			errs = append(errs, fmt.Errorf("devices[%d]: duplicate id %q", i, d.ID))
		}
		seen[d.ID] = true
		if d.Width <= 0 || d.Height <= 0 {
			errs = append(errs, fmt.Errorf("devices[%d] %s: width and height must be positive", i, d.ID))
		}
	}

	return errors.Join(errs...)
}

// CaptureSettings converts the capture section for the orchestrator.
func (c Config) CaptureSettings() (pipeline.CaptureConfig, error) {
	kind, err := pipeline.ParseCaptureKind(c.Capture.Type)
	if err != nil {
		return pipeline.CaptureConfig{}, err
	}
	return pipeline.CaptureConfig{
		Kind:        kind,
		ScaleFactor: c.Capture.ScaleFactor,
		Offset:      c.Capture.Offset,
		FPS:         c.Capture.FPS,
	}, nil
}

// SettleDelay returns the post-resize wait. Zero disables it.
func (c Config) SettleDelay() time.Duration {
	if c.SettleDelayMs <= 0 {
		return -1
	}
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// RecorderOptions converts the recorder and video sections.
func (c Config) RecorderOptions() (record.Options, error) {
	policy, err := record.ParseReadyPolicy(c.Recorder.ReadyPolicy)
	if err != nil {
		return record.Options{}, err
	}
	bg, err := ParseColor(c.Recorder.Background)
	if err != nil {
		return record.Options{}, err
	}
	return record.Options{
		Loop:        c.Recorder.Loop,
		PingPong:    c.Recorder.PingPong,
		ReadyPolicy: policy,
		Background:  bg,
		Encoder: ports.EncoderOptions{
			Quality: c.VideoQuality(),
			Bitrate: c.Video.Bitrate,
		},
	}, nil
}

// VideoQuality returns the CRF-style quality, preferring the preset.
func (c Config) VideoQuality() int {
	if crf, ok := presetCRF[QualityPreset(c.Video.Preset)]; ok {
		return crf
	}
	return c.Video.Quality
}

// BrowserOptions converts the browser section.
func (c Config) BrowserOptions() ports.BrowserOptions {
	return ports.BrowserOptions{
		Headless:          c.Browser.Headless,
		ChromePath:        c.Browser.ChromePath,
		AutoInstall:       c.Browser.AutoInstall,
		UserAgent:         c.Browser.UserAgent,
		Headers:           c.Browser.Headers,
		WindowWidth:       c.Browser.WindowWidth,
		WindowHeight:      c.Browser.WindowHeight,
		IgnoreHTTPSErrors: c.Browser.IgnoreHTTPSErrors,
		ProxyServer:       c.Browser.ProxyServer,
		Incognito:         c.Browser.Incognito,
	}
}

// Format returns the still image format.
func (c Config) Format() ports.ImageFormat {
	f, _ := ports.ParseImageFormat(c.ImageFormat)
	return f
}

// SelectDevices returns the configured devices whose IDs are in ids, in
// configuration order. An empty ids selects every device.
func (c Config) SelectDevices(ids []string) ([]ports.DeviceProfile, error) {
	if len(ids) == 0 {
		return c.Devices, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []ports.DeviceProfile
	for _, d := range c.Devices {
		if want[d.ID] {
			out = append(out, d)
			delete(want, d.ID)
		}
	}
	if len(want) > 0 {
		var missing []string
		for _, id := range ids {
			if want[id] {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("unknown device: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// QualityPreset represents a video quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

var presetCRF = map[QualityPreset]int{
	QualityLow:    45,
	QualityMedium: 32,
	QualityHigh:   20,
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", hex)
	}
	if len(s) == 6 {
		v = v<<8 | 0xFF
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
