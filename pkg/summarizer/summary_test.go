package summarizer

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/devshot/pkg/mocks"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	summary := NewBuilder().
		WithURL("https://example.com").
		WithSettings(Settings{Kind: "FRAMES"}).
		AddDevice(DeviceRow{ID: "phone"}).
		AddDevice(DeviceRow{ID: "tablet", Error: "capture stage: screenshot: boom"}).
		WithElapsed(2 * time.Second).
		Build()

	if summary.URL != "https://example.com" {
		t.Errorf("URL = %q", summary.URL)
	}
	if summary.Settings.Kind != "FRAMES" {
		t.Errorf("Kind = %q", summary.Settings.Kind)
	}
	if len(summary.Devices) != 2 || summary.Devices[1].ID != "tablet" {
		t.Errorf("devices = %+v", summary.Devices)
	}
	if summary.Failed() != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed())
	}
	if summary.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v", summary.Elapsed)
	}
}

func TestForPath(t *testing.T) {
	if _, ok := ForPath("out/report.JSON").(JSONFormatter); !ok {
		t.Error("a .json report should use JSONFormatter")
	}
	if _, ok := ForPath("out/report.md").(*MarkdownFormatter); !ok {
		t.Error("a .md report should use MarkdownFormatter")
	}
	if _, ok := ForPath("report").(*MarkdownFormatter); !ok {
		t.Error("a report without extension should use MarkdownFormatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	s := NewBuilder().
		WithURL("https://example.com").
		AddDevice(DeviceRow{ID: "phone", Files: []string{"phone.webm"}, FrameCount: 3}).
		AddDevice(DeviceRow{ID: "tablet", Error: "boom"}).
		Build()

	var decoded struct {
		URL     string `json:"url"`
		Devices []struct {
			ID     string   `json:"id"`
			Files  []string `json:"files"`
			Frames int      `json:"frames"`
			Error  string   `json:"error"`
		} `json:"devices"`
	}
	if err := json.Unmarshal([]byte(JSONFormatter{}.Format(s)), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded.URL != "https://example.com" || len(decoded.Devices) != 2 {
		t.Fatalf("unexpected document: %+v", decoded)
	}
	if decoded.Devices[0].Frames != 3 || decoded.Devices[0].Files[0] != "phone.webm" {
		t.Errorf("unexpected first device: %+v", decoded.Devices[0])
	}
	if decoded.Devices[1].Error != "boom" {
		t.Errorf("unexpected second device: %+v", decoded.Devices[1])
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(NewMarkdownFormatter(), fs)
	path := filepath.Join("out", "report.md")

	if err := w.Write(path, NewBuilder().WithURL("https://example.com").Build()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatal("report not written")
	}
	if !strings.HasPrefix(string(data), "# Capture Summary") {
		t.Errorf("unexpected report: %q", data)
	}
}
