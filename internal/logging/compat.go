package logging

import (
	"bytes"
	"log/slog"
	"strings"
)

// BridgeWriter is an io.Writer for the stdlib log package. Installed with
// log.SetOutput so stray log.Printf calls (ours or a dependency's) land in
// the structured log instead of on the terminal.
type BridgeWriter struct {
	component string
}

// NewBridgeWriter returns a BridgeWriter tagging lines with component unless
// the line carries its own "[tag] " prefix.
func NewBridgeWriter(component string) *BridgeWriter {
	return &BridgeWriter{component: component}
}

func (bw *BridgeWriter) Write(p []byte) (int, error) {
	n := len(p)
	line := string(bytes.TrimSpace(p))
	if line == "" {
		return n, nil
	}

	line = trimStdTimestamp(line)

	component := bw.component
	if strings.HasPrefix(line, "[") {
		if end := strings.Index(line, "] "); end > 1 {
			component = normalizeComponent(line[1:end])
			line = line[end+2:]
		}
	}

	Logger().Info(line, slog.String("component", component))
	return n, nil
}

// trimStdTimestamp strips the "2006/01/02 15:04:05 " prefix the stdlib
// logger adds with its default flags, and the bare "15:04:05 " form.
func trimStdTimestamp(s string) string {
	if len(s) > 20 && s[4] == '/' && s[7] == '/' && s[10] == ' ' && s[13] == ':' && s[19] == ' ' {
		s = s[20:]
	}
	if len(s) > 9 && s[2] == ':' && s[5] == ':' && s[8] == ' ' {
		s = s[9:]
	}
	return s
}

func normalizeComponent(tag string) string {
	tag = strings.ToLower(tag)
	switch tag {
	case "walk", "lister", "ignore":
		return CompWalk
	case "grep", "content", "fuzzy", "search":
		return CompSearch
	case "cache", "querycache":
		return CompCache
	case "tui", "ui":
		return CompUI
	case "config", "cfg":
		return CompConfig
	default:
		return tag
	}
}
