package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Capture Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Run\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| URL | %s |\n", orDash(s.URL))
	fmt.Fprintf(&b, "| Capture | %s |\n", orDash(s.Settings.Kind))
	if s.Settings.ScaleFactor > 0 {
		fmt.Fprintf(&b, "| Scale factor | %g |\n", s.Settings.ScaleFactor)
	}
	if s.Settings.Kind == "RECORD" {
		fmt.Fprintf(&b, "| FPS | %g |\n", s.Settings.FPS)
		fmt.Fprintf(&b, "| Container | %s |\n", orDash(s.Settings.Container))
		fmt.Fprintf(&b, "| Playback | %s |\n", playback(s.Settings))
		fmt.Fprintf(&b, "| Ready policy | %s |\n", orDash(s.Settings.ReadyPolicy))
	} else {
		fmt.Fprintf(&b, "| Image format | %s |\n", orDash(s.Settings.ImageFormat))
	}
	fmt.Fprintf(&b, "| Devices | %d (%d failed) |\n", len(s.Devices), s.Failed())
	fmt.Fprintf(&b, "| Elapsed | %s |\n\n", formatDuration(s.Elapsed))

	b.WriteString("## Devices\n\n")
	if len(s.Devices) == 0 {
		b.WriteString("No devices were captured.\n")
		return b.String()
	}
	b.WriteString("| Device | Size | Frames | Video | Output | Time |\n")
	b.WriteString("|--------|------|--------|-------|--------|------|\n")
	for _, d := range s.Devices {
		fmt.Fprintf(&b, "| %s | %dx%d @%gx | %d | %s | %s | %s |\n",
			d.ID, d.Width, d.Height, d.Scale,
			d.FrameCount,
			formatVideo(d.DurationMs),
			formatOutput(d),
			formatDuration(d.Elapsed),
		)
	}
	return b.String()
}

func playback(s Settings) string {
	var parts []string
	if s.PingPong {
		parts = append(parts, "ping-pong")
	} else {
		parts = append(parts, "forward")
	}
	if s.Loop {
		parts = append(parts, "loop")
	} else {
		parts = append(parts, "once")
	}
	return strings.Join(parts, ", ")
}

func formatOutput(d DeviceRow) string {
	if !d.OK() {
		return "**Failed**: " + escapeCell(d.Error)
	}
	switch len(d.Files) {
	case 0:
		return "-"
	case 1:
		return "`" + d.Files[0] + "`"
	default:
		return fmt.Sprintf("`%s` … (%d files)", d.Files[0], len(d.Files))
	}
}

func formatVideo(ms int) string {
	if ms <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
