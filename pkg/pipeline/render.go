package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/observability"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// Render generates output artifacts in the requested formats without
// caching. Options must have been validated.
func Render(ctx context.Context, res diff.Result, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(res, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(res diff.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case sink.FormatTerminal:
		return sink.RenderTerminal(res,
			sink.WithTerminalWidth(opts.Width),
			sink.WithTerminalColor(opts.Color),
		), nil
	case sink.FormatJSON:
		return sink.RenderJSON(res)
	case sink.FormatHTML:
		var htmlOpts []sink.HTMLOption
		if opts.Title != "" {
			htmlOpts = append(htmlOpts, sink.WithHTMLTitle(opts.Title))
		}
		return sink.RenderHTML(res, htmlOpts...), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
