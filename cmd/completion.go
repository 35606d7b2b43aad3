package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/strainscope/internal/config"
)

// completionCmd generates shell completion scripts.
func completionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate completion scripts for your shell.

  # Bash (add to ~/.bashrc)
  eval "$(strainscope completion bash)"

  # Zsh (add to ~/.zshrc)
  eval "$(strainscope completion zsh)"

  # Fish
  strainscope completion fish | source

  # PowerShell
  strainscope completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// strainCompletionFunc completes strain ids, described by name and year.
func strainCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cfg == nil {
		cfg = config.Load()
	}
	g, err := loadGraph()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, n := range g.Sorted() {
		completions = append(completions, fmt.Sprintf("%s\t%s (%d)", n.ID, n.Name, n.Year))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
