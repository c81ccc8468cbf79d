package cli

import (
	"bytes"
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/pipeline"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		literal bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view OLD NEW",
		Short: "Browse a comparison interactively",
		Long: `Browse a comparison in a full-screen side-by-side viewer.

Keys:
  tab        switch between the old and new pane
  ←/→ h/l    move between highlighted changes
  enter      select the change under the cursor
  c          copy the focused side's original text
  n          clear the panes to start a new comparison
  q          quit`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := diffFlags{statsOnly: true, color: colorNever}
			vopts, err := diffOptions(cfg, opts, &flags)
			if err != nil {
				return err
			}
			oldText, newText, err := readOperands(cmd.InOrStdin(), args, literal, vopts.MaxInputBytes)
			if err != nil {
				return err
			}
			vopts.Old, vopts.New = oldText, newText

			res, err := c.compareForView(cmd.Context(), cfg, vopts, noCache)
			if err != nil {
				return err
			}

			// Log lines would tear the alternate screen, so they are
			// buffered and replayed once the viewer exits.
			var logs bytes.Buffer
			viewLogger := newLogger(&logs, c.Logger.GetLevel())
			defer func() { _, _ = uiOut.Write(logs.Bytes()) }()

			oldText, newText = vopts.Inputs()
			model := NewViewModel(cmd.Context(), res, oldText, newText, c.Clipboard, viewLogger)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&literal, "text", false, "treat OLD and NEW as literal text instead of paths")
	cmd.Flags().StringVarP(&opts.Granularity, "granularity", "g", "", "comparison unit: character (default), word")
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "aligner: lookahead (default), myers")
	cmd.Flags().IntVar(&opts.Window, "window", 0, "lookahead window in tokens (default 10)")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "swap OLD and NEW")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerChoiceCompletions(cmd)

	return cmd
}

// compareForView runs the comparison stage only; the viewer renders panes
// itself.
func (c *CLI) compareForView(ctx context.Context, cfg Config, opts pipeline.Options, noCache bool) (diff.Result, error) {
	c.instrument()
	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()
	return runner.Compare(ctx, opts)
}
