package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/devshot/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelInfo, &buf)

	log.Debug("hidden %d", 1)
	log.Info("visible %d", 2)
	log.Warn("warned %s", "x")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible 2") {
		t.Errorf("expected info message, got %q", out)
	}
	if !strings.Contains(out, "warned x") {
		t.Errorf("expected warn message, got %q", out)
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelDebug, &buf).WithComponent("recorder")

	log.Debug("tick")

	if got := strings.TrimSpace(buf.String()); got != "[recorder] tick" {
		t.Errorf("expected component prefix, got %q", got)
	}
}
