package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for the named shell and print it to
stdout. Source the output directly for the current session, e.g.

  source <(toolgate completion bash)
  toolgate completion fish | source

or install it in the shell's completion directory to have it load in
every session:

  toolgate completion bash > /etc/bash_completion.d/toolgate
  toolgate completion zsh  > "${fpath[1]}/_toolgate"
  toolgate completion fish > ~/.config/fish/completions/toolgate.fish

On PowerShell, pipe through Invoke-Expression or add the output to your
profile:

  toolgate completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
