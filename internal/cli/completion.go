package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidediff/pkg/diff"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sidediff.

To load completions:

Bash:
  $ source <(sidediff completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sidediff completion bash > /etc/bash_completion.d/sidediff
  # macOS:
  $ sidediff completion bash > $(brew --prefix)/etc/bash_completion.d/sidediff

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sidediff completion zsh > "${fpath[1]}/_sidediff"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sidediff completion fish | source

  # To load completions for each session, execute once:
  $ sidediff completion fish > ~/.config/fish/completions/sidediff.fish

PowerShell:
  PS> sidediff completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sidediff completion powershell > sidediff.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerChoiceCompletions completes the enumerated flags of cmd that exist.
func registerChoiceCompletions(cmd *cobra.Command) {
	choices := map[string][]string{
		"granularity": diff.Granularities,
		"algorithm":   diff.Algorithms,
		"format":      sink.Formats,
		"color":       colorModes,
		"copy":        {copyOld, copyNew},
	}
	for flag, values := range choices {
		if cmd.Flags().Lookup(flag) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}
