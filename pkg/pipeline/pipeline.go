// Package pipeline provides the comparison pipeline shared by the CLI and
// the HTTP API.
//
// This package implements the complete compare → render pipeline. By
// centralizing it, every entry point applies the same defaults, validation,
// caching and instrumentation.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compare: tokenize both texts, align them and reduce the stats
//     (see package diff)
//  2. Render: produce terminal, JSON or HTML artifacts (see package sink)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Old:         oldText,
//	    New:         newText,
//	    Granularity: "word",
//	    Formats:     []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidediff/pkg/cache"
	"github.com/matzehuels/sidediff/pkg/diff"
	apperrors "github.com/matzehuels/sidediff/pkg/errors"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultGranularity is the default comparison unit.
	DefaultGranularity = string(diff.DefaultGranularity)

	// DefaultAlgorithm is the default aligner.
	DefaultAlgorithm = diff.DefaultAlgorithm

	// DefaultWindow is the default lookahead window.
	DefaultWindow = diff.DefaultWindow

	// DefaultMaxTokens caps tokens per side before the comparison degrades
	// to whole-text classification.
	DefaultMaxTokens = diff.DefaultMaxTokens

	// DefaultMaxInputBytes caps the size of each input text.
	DefaultMaxInputBytes int64 = 10 << 20

	// DefaultWidth is the default terminal width in columns.
	DefaultWidth = sink.DefaultTerminalWidth
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one comparison.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Inputs
	Old     string `json:"old"`
	New     string `json:"new"`
	Reverse bool   `json:"reverse,omitempty"` // compare New against Old

	// Compare options
	Granularity string `json:"granularity,omitempty"`
	Algorithm   string `json:"algorithm,omitempty"`
	Window      int    `json:"window,omitempty"`
	MaxTokens   int    `json:"max_tokens,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"` // bypass cached results

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`
	Color   bool     `json:"color,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	MaxInputBytes int64       `json:"-"`
	Logger        *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run; the API returns it to clients.
	ID string

	// Comparison is the alignment, views and stats.
	Comparison diff.Result

	// DiffKey is the cache key of the comparison.
	DiffKey string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	OldBytes    int
	NewBytes    int
	CompareTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CompareHit bool // Whether the comparison came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := apperrors.ValidateFormat(f, sink.Formats); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates everything the full
// pipeline needs. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompare(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetCompareDefaults fills unset comparison options.
func (o *Options) SetCompareDefaults() {
	if o.Granularity == "" {
		o.Granularity = DefaultGranularity
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Window == 0 {
		o.Window = DefaultWindow
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.MaxInputBytes == 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompare applies defaults, normalizes names to their canonical
// form and validates the comparison options and input sizes.
func (o *Options) ValidateForCompare() error {
	o.SetCompareDefaults()

	g, err := diff.ParseGranularity(o.Granularity)
	if err != nil {
		return err
	}
	o.Granularity = string(g)

	if o.Window < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "window must be positive, got %d", o.Window)
	}
	a, err := diff.NewAligner(o.Algorithm, o.Window)
	if err != nil {
		return err
	}
	o.Algorithm = a.Name()

	if err := apperrors.ValidateInputSize("old text", int64(len(o.Old)), o.MaxInputBytes); err != nil {
		return err
	}
	return apperrors.ValidateInputSize("new text", int64(len(o.New)), o.MaxInputBytes)
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and validates the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		formats = append(formats, strings.ToLower(strings.TrimSpace(f)))
	}
	o.Formats = formats
	return ValidateFormats(o.Formats)
}

// Aligner returns the aligner selected by the options.
func (o *Options) Aligner() diff.Aligner {
	a, err := diff.NewAligner(o.Algorithm, o.Window)
	if err != nil {
		return diff.Lookahead{Window: o.Window}
	}
	return a
}

// Inputs returns the texts in comparison order, honoring Reverse.
func (o *Options) Inputs() (old, new string) {
	if o.Reverse {
		return o.New, o.Old
	}
	return o.Old, o.New
}

// DiffKeyOpts returns cache key options for the comparison.
func (o *Options) DiffKeyOpts() cache.DiffKeyOpts {
	return cache.DiffKeyOpts{
		Granularity: o.Granularity,
		Algorithm:   o.Algorithm,
		Window:      o.Window,
		MaxTokens:   o.MaxTokens,
	}
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case sink.FormatTerminal:
		opts.Width = o.Width
		opts.Color = o.Color
	case sink.FormatHTML:
		opts.Title = o.Title
	}
	return opts
}
