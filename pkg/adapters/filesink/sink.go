// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/user/devshot/pkg/ports"
)

// Sink saves debug output below baseDir:
//
//	<baseDir>/run.json
//	<baseDir>/<device>/screenshot.png
//	<baseDir>/<device>/frames/frame-0001.png
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{baseDir: baseDir, fs: fs}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveScreenshot saves the raw screenshot of a device.
func (s *Sink) SaveScreenshot(deviceID string, data []byte) error {
	path := filepath.Join(s.baseDir, deviceID, "screenshot"+extension(data))
	return s.fs.WriteFile(path, data)
}

// SaveFrame saves a cropped frame. index is zero-based; files are numbered from 1.
func (s *Sink) SaveFrame(deviceID string, index int, data []byte) error {
	dir := filepath.Join(s.baseDir, deviceID, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d%s", index+1, extension(data)))
	return s.fs.WriteFile(path, data)
}

// SaveRunJSON saves the per-device outcomes.
func (s *Sink) SaveRunJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "run.json"), data)
}

func extension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/png":
		return ".png"
	}
	return ".bin"
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
