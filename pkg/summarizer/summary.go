// Package summarizer renders the outcome of a capture run as a report.
package summarizer

import "time"

// Summary contains everything reported about one run.
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`

	URL      string        `json:"url"`
	Settings Settings      `json:"settings"`
	Devices  []DeviceRow   `json:"devices"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Settings contains the capture configuration.
type Settings struct {
	Kind        string  `json:"kind"`
	ScaleFactor float64 `json:"scale_factor,omitempty"`
	FPS         float64 `json:"fps"`
	Container   string  `json:"container"`
	ImageFormat string  `json:"image_format"`
	Loop        bool    `json:"loop"`
	PingPong    bool    `json:"ping_pong"`
	ReadyPolicy string  `json:"ready_policy"`
}

// DeviceRow is one device of the run.
type DeviceRow struct {
	ID         string        `json:"id"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Scale      float64       `json:"scale"`
	Files      []string      `json:"files,omitempty"`
	FrameCount int           `json:"frames"`
	DurationMs int           `json:"duration_ms,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Error      string        `json:"error,omitempty"`
}

// OK reports whether the device produced output.
func (r DeviceRow) OK() bool {
	return r.Error == ""
}

// Failed returns the number of failed devices.
func (s *Summary) Failed() int {
	n := 0
	for _, d := range s.Devices {
		if !d.OK() {
			n++
		}
	}
	return n
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithURL sets the captured page URL.
func (b *Builder) WithURL(url string) *Builder {
	b.summary.URL = url
	return b
}

// WithSettings sets the capture settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// AddDevice appends a device row.
func (b *Builder) AddDevice(row DeviceRow) *Builder {
	b.summary.Devices = append(b.summary.Devices, row)
	return b
}

// WithElapsed sets the total run time.
func (b *Builder) WithElapsed(d time.Duration) *Builder {
	b.summary.Elapsed = d
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
