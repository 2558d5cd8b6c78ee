package ports

// DebugSink keeps intermediate capture results for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveScreenshot saves the raw screenshot taken for a device.
	SaveScreenshot(deviceID string, data []byte) error

	// SaveFrame saves one cropped frame of a device.
	SaveFrame(deviceID string, index int, data []byte) error

	// SaveRunJSON saves the per-device outcomes of a run.
	SaveRunJSON(data []byte) error
}
