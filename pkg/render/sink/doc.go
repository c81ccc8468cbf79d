// Package sink writes comparison results in their output formats.
//
// Three formats are supported:
//
//   - [FormatTerminal]: two panes side by side for a terminal, with
//     removals and insertions highlighted ([RenderTerminal])
//   - [FormatJSON]: the alignment, views and stats as indented JSON
//     ([RenderJSON])
//   - [FormatHTML]: a standalone page with both panes, highlight tooltips
//     and a click handler that reports selections ([RenderHTML])
//
// Renderers are configured with functional options and never modify the
// result they are given, so they are safe to call concurrently.
package sink

import "slices"

// Output format names.
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTerminal, FormatJSON, FormatHTML}

// IsFormat reports whether name is a supported output format.
func IsFormat(name string) bool {
	return slices.Contains(Formats, name)
}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	}
	return ".txt"
}

// Pane labels shared by the terminal and HTML renderers.
const (
	LabelOld = "Old Text"
	LabelNew = "New Text"
)
