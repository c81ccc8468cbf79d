package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidediff/pkg/clipboard"
	"github.com/matzehuels/sidediff/pkg/diff"
	apperrors "github.com/matzehuels/sidediff/pkg/errors"
	"github.com/matzehuels/sidediff/pkg/pipeline"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// stdinArg names standard input as a diff operand.
const stdinArg = "-"

// Copy targets accepted by --copy.
const (
	copyOld = "old"
	copyNew = "new"
)

// diffFlags holds the flags of the diff command.
type diffFlags struct {
	text      bool
	formats   string
	output    string
	statsOnly bool
	copy      string
	color     string
	noCache   bool
}

// diffCommand creates the diff command.
func (c *CLI) diffCommand() *cobra.Command {
	var flags diffFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two files or strings side by side",
		Long: `Compare two files or strings side by side.

OLD and NEW are file paths, or literal text with --text. Use - to read one
side from standard input.

Removed units are highlighted in the old pane and inserted units in the new
pane. Results are cached locally so repeated comparisons are instant.`,
		Example: `  sidediff diff before.txt after.txt
  sidediff diff --text "the quick fox" "the slow fox" -g word
  git show HEAD:README.md | sidediff diff - README.md -f html -o readme.html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiff(cmd, args, opts, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.text, "text", false, "treat OLD and NEW as literal text instead of paths")
	cmd.Flags().StringVarP(&opts.Granularity, "granularity", "g", "", "comparison unit: character (default), word")
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "aligner: lookahead (default), myers")
	cmd.Flags().IntVar(&opts.Window, "window", 0, "lookahead window in tokens (default 10)")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", 0, "tokens per side before whole-text comparison")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "swap OLD and NEW")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): terminal (default), json, html (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "terminal output width (default: terminal width)")
	cmd.Flags().StringVar(&flags.color, "color", "", "color mode: auto (default), always, never")
	cmd.Flags().StringVar(&opts.Title, "title", "", "HTML page title")
	cmd.Flags().BoolVar(&flags.statsOnly, "stats", false, "print only the summary line")
	cmd.Flags().StringVar(&flags.copy, "copy", "", "copy the original text of one side to the clipboard: old, new")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	registerChoiceCompletions(cmd)

	return cmd
}

// runDiff compares the operands and writes the requested outputs.
func (c *CLI) runDiff(cmd *cobra.Command, args []string, flagOpts pipeline.Options, flags diffFlags) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := diffOptions(cfg, flagOpts, &flags)
	if err != nil {
		return err
	}

	oldText, newText, err := readOperands(cmd.InOrStdin(), args, flags.text, opts.MaxInputBytes)
	if err != nil {
		return err
	}
	opts.Old, opts.New = oldText, newText

	if flags.output == "" && len(opts.Formats) > 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "--output is required when writing several formats")
	}
	stdout := cmd.OutOrStdout()
	if opts.Width == 0 {
		opts.Width = terminalWidth(asFile(stdout))
	}
	if flags.output == "" {
		opts.Color = useColor(flags.color, asFile(stdout))
	} else {
		opts.Color = flags.color == colorAlways
	}

	c.instrument()
	runner := c.newRunner(ctx, cfg, flags.noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, "Comparing...")
	spinner.Start()
	prog := newProgress(logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Comparison failed")
		return err
	}
	spinner.Stop()
	logger.Debug("comparison finished",
		"id", result.ID,
		"old_bytes", result.Stats.OldBytes,
		"new_bytes", result.Stats.NewBytes,
		"compare", result.Stats.CompareTime,
		"render", result.Stats.RenderTime)

	if flags.copy != "" {
		c.copySide(ctx, flags.copy, opts)
	}

	if flags.statsOnly {
		_, err := fmt.Fprintln(stdout, result.Comparison.Stats.Summary())
		return err
	}
	if flags.output == "" {
		_, err := stdout.Write(ensureNewline(result.Artifacts[opts.Formats[0]]))
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, flags.output)
	if err != nil {
		return err
	}
	prog.done("wrote output", "files", len(paths))
	printSuccess("Compared %s", statsLine(result.Comparison.Stats, result.CacheInfo.CompareHit))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// diffOptions layers command-line flags over the config file.
// It also resolves the color mode in flags.
func diffOptions(cfg Config, flagOpts pipeline.Options, flags *diffFlags) (pipeline.Options, error) {
	opts := cfg.pipelineOptions()
	opts.Reverse = flagOpts.Reverse
	opts.Refresh = flagOpts.Refresh
	if flagOpts.Granularity != "" {
		opts.Granularity = flagOpts.Granularity
	}
	if flagOpts.Algorithm != "" {
		opts.Algorithm = flagOpts.Algorithm
	}
	if flagOpts.Window != 0 {
		opts.Window = flagOpts.Window
	}
	if flagOpts.MaxTokens != 0 {
		opts.MaxTokens = flagOpts.MaxTokens
	}
	if flagOpts.Width != 0 {
		opts.Width = flagOpts.Width
	}
	if flagOpts.Title != "" {
		opts.Title = flagOpts.Title
	}
	if flags.formats != "" {
		opts.Formats = pipeline.ParseFormats(flags.formats)
	}
	if flags.statsOnly {
		opts.Formats = nil
	} else if len(opts.Formats) == 0 {
		return opts, apperrors.New(apperrors.ErrCodeInvalidFormat, "at least one output format is required")
	}

	if flags.color == "" {
		flags.color = cfg.Render.Color
	}
	flags.color = strings.ToLower(strings.TrimSpace(flags.color))
	if err := apperrors.ValidateFormat(flags.color, colorModes); err != nil {
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid --color %q (must be auto, always or never)", flags.color)
	}
	switch flags.copy {
	case "", copyOld, copyNew:
	default:
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid --copy %q (must be old or new)", flags.copy)
	}
	if flags.output != "" {
		if err := apperrors.ValidatePath(flags.output); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// copySide copies the original text of one side. Failure only warns.
func (c *CLI) copySide(ctx context.Context, side string, opts pipeline.Options) {
	text := opts.Old
	if side == copyNew {
		text = opts.New
	}
	if err := clipboard.Copy(ctx, c.Clipboard, text); err != nil {
		c.Logger.Warn("copy failed", "side", side, "error", err)
		printWarning("Could not copy %s text: %s", side, apperrors.UserMessage(err))
		return
	}
	printSuccess("Copied %s text to the clipboard", side)
}

// =============================================================================
// Input
// =============================================================================

// readOperands resolves both operands to text. At most one may be stdin.
func readOperands(stdin io.Reader, args []string, literal bool, maxBytes int64) (string, string, error) {
	if literal {
		return args[0], args[1], nil
	}
	if args[0] == stdinArg && args[1] == stdinArg {
		return "", "", apperrors.New(apperrors.ErrCodeInvalidInput, "only one operand can be read from stdin")
	}

	texts := make([]string, 2)
	for i, arg := range args {
		text, err := readOperand(stdin, arg, maxBytes)
		if err != nil {
			return "", "", err
		}
		texts[i] = text
	}
	return texts[0], texts[1], nil
}

func readOperand(stdin io.Reader, arg string, maxBytes int64) (string, error) {
	if arg == stdinArg {
		r := stdin
		if maxBytes > 0 {
			r = io.LimitReader(stdin, maxBytes+1)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if err := apperrors.ValidateInputSize("stdin", int64(len(data)), maxBytes); err != nil {
			return "", err
		}
		return string(data), nil
	}

	if err := apperrors.ValidatePath(arg); err != nil {
		return "", err
	}
	info, err := os.Stat(arg)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "file not found: %s", arg)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", arg, err)
	}
	if info.IsDir() {
		return "", apperrors.New(apperrors.ErrCodeInvalidPath, "%s is a directory", arg)
	}
	if err := apperrors.ValidateInputSize(arg, info.Size(), maxBytes); err != nil {
		return "", err
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(data), nil
}

// =============================================================================
// Output
// =============================================================================

// writeArtifacts writes one file per format and returns the paths. A single
// format goes to output as given; several formats share output as base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	if len(formats) == 1 {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := base + sink.Extension(f)
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// basePath strips a known output extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	for _, f := range sink.Formats {
		if strings.EqualFold(ext, sink.Extension(f)) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func ensureNewline(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}

// asFile returns w as an *os.File when it is one.
func asFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}

// sideLabel names a pane for status messages.
func sideLabel(side diff.Side) string {
	if side == diff.SideNew {
		return sink.LabelNew
	}
	return sink.LabelOld
}
