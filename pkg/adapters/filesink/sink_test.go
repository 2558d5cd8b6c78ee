package filesink

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/user/devshot/pkg/mocks"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n0000")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}
)

func TestSink_Enabled(t *testing.T) {
	if !New("debug", mocks.NewFileSystem()).Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveScreenshot(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("debug", fs)

	if err := sink.SaveScreenshot("phone", pngHeader); err != nil {
		t.Fatalf("SaveScreenshot failed: %v", err)
	}
	if _, ok := fs.GetFile(filepath.Join("debug", "phone", "screenshot.png")); !ok {
		t.Errorf("screenshot not saved, files: %v", fs.Paths())
	}
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("debug", fs)

	if err := sink.SaveFrame("phone", 0, pngHeader); err != nil {
		t.Fatal(err)
	}
	if err := sink.SaveFrame("phone", 1, jpegHeader); err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join("debug", "phone", "frames", "frame-0001.png"),
		filepath.Join("debug", "phone", "frames", "frame-0002.jpg"),
	}
	if got := fs.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if exists, _ := fs.Exists(filepath.Join("debug", "phone", "frames")); !exists {
		t.Error("frames directory not created")
	}
}

func TestSink_SaveRunJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	data := []byte(`[{"device":"phone"}]`)

	if err := New("debug", fs).SaveRunJSON(data); err != nil {
		t.Fatal(err)
	}
	saved, ok := fs.GetFile(filepath.Join("debug", "run.json"))
	if !ok || string(saved) != string(data) {
		t.Errorf("run.json = %q", saved)
	}
}
