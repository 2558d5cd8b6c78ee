package summarizer

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Formatter renders a Summary as a document.
type Formatter interface {
	Format(summary *Summary) string
}

// JSONFormatter renders a Summary as indented JSON.
type JSONFormatter struct{}

// Format implements Formatter.
func (JSONFormatter) Format(s *Summary) string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}\n"
	}
	return string(data) + "\n"
}

// ForPath picks the formatter matching the report file extension:
// ".json" gets JSON, anything else Markdown.
func ForPath(path string) Formatter {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONFormatter{}
	}
	return NewMarkdownFormatter()
}
