package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/pkg/grid/flow"
	"github.com/speedui/gridkit/pkg/pipeline"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for gridkit.

  bash:        source <(gridkit completion bash)
  zsh:         gridkit completion zsh > "${fpath[1]}/_gridkit"
  fish:        gridkit completion fish > ~/.config/fish/completions/gridkit.fish
  powershell:  gridkit completion powershell | Out-String | Invoke-Expression

Strategy names and output formats complete as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeStrategies completes --strategy with the registered flows.
func completeStrategies(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return flow.Names, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes each element of a comma-separated --format.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, 0, len(pipeline.AllFormats))
	for _, f := range pipeline.AllFormats {
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
