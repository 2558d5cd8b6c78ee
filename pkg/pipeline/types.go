package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/devshot/pkg/ports"
)

// DefaultFPS is used when a capture config does not set a frame rate.
const DefaultFPS = 10.0

// DefaultSettleDelay is the wait after a viewport resize before capturing.
const DefaultSettleDelay = 300 * time.Millisecond

// =============================================================================
// Capture configuration
// =============================================================================

// CaptureKind is the requested output type.
type CaptureKind int

const (
	SingleScreenshot CaptureKind = iota
	FullsizeScreenshot
	Frames
	Record
)

var captureKindNames = []string{
	SingleScreenshot:   "SINGLE_SCREENSHOT",
	FullsizeScreenshot: "FULLSIZE_SCREENSHOT",
	Frames:             "FRAMES",
	Record:             "RECORD",
}

func (k CaptureKind) String() string {
	if int(k) >= 0 && int(k) < len(captureKindNames) {
		return captureKindNames[k]
	}
	return fmt.Sprintf("CaptureKind(%d)", int(k))
}

// ParseCaptureKind accepts the canonical names as well as the short CLI
// forms (single, fullsize, frames, record).
func ParseCaptureKind(s string) (CaptureKind, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "single_screenshot", "single", "screenshot":
		return SingleScreenshot, nil
	case "fullsize_screenshot", "fullsize", "fullpage":
		return FullsizeScreenshot, nil
	case "frames":
		return Frames, nil
	case "record", "video":
		return Record, nil
	}
	return 0, fmt.Errorf("unknown capture type %q", s)
}

// NeedsFullHeight reports whether the viewport must be stretched to the
// document height before capturing.
func (k CaptureKind) NeedsFullHeight() bool {
	return k == FullsizeScreenshot || k == Frames || k == Record
}

// NeedsCrop reports whether the screenshot is sliced into frames.
func (k CaptureKind) NeedsCrop() bool {
	return k == Frames || k == Record
}

// CaptureConfig is created once per run and read-only afterwards.
type CaptureConfig struct {
	Kind        CaptureKind
	ScaleFactor float64
	Offset      ports.Offset
	FPS         float64 // 0 means DefaultFPS
}

// EffectiveFPS returns FPS or DefaultFPS when unset.
func (c CaptureConfig) EffectiveFPS() float64 {
	if c.FPS > 0 {
		return c.FPS
	}
	return DefaultFPS
}

// =============================================================================
// Capture Stage Types
// =============================================================================

// CaptureInput is one device turn of the capture stage.
type CaptureInput struct {
	Device ports.DeviceProfile
	Kind   CaptureKind
	Offset ports.Offset
}

// CaptureResult holds the frames produced for one device.
type CaptureResult struct {
	Original   ports.DeviceProfile // viewport restored after the screenshot
	Screenshot string              // raw screenshot data URI
	Frames     []string            // cropped frames, or the screenshot alone
}

// =============================================================================
// Record Stage Types
// =============================================================================

// RecordInput contains the frames to animate and record.
type RecordInput struct {
	Frames []string // image data URIs in playback order
	Device ports.DeviceProfile
	FPS    float64
}

// RecordResult references the finalized video.
type RecordResult struct {
	URL        string // blob URL, valid until revoked
	Format     ports.VideoFormat
	FrameCount int
	DurationMs int
	Bytes      int
}

// =============================================================================
// Run outcome
// =============================================================================

// DeviceOutcome is the result of one device turn.
type DeviceOutcome struct {
	DeviceID   string        `json:"device"`
	Kind       string        `json:"kind"`
	Files      []string      `json:"files,omitempty"`
	FrameCount int           `json:"frames"`
	DurationMs int           `json:"duration_ms,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Err        error         `json:"-"`
	Error      string        `json:"error,omitempty"`
}

// OK reports whether the device produced its output.
func (o DeviceOutcome) OK() bool {
	return o.Err == nil
}
