package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for comet.

Add the following to your shell's rc file:

  # Bash (~/.bashrc)
  source <(comet completion bash)

  # Zsh (~/.zshrc)
  source <(comet completion zsh)

  # Fish (~/.config/fish/config.fish)
  comet completion fish | source

  # PowerShell
  comet completion powershell | Out-String | Invoke-Expression`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(_ *cobra.Command, args []string) error {
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletion(outWriter())
	case "zsh":
		return rootCmd.GenZshCompletion(outWriter())
	case "fish":
		return rootCmd.GenFishCompletion(outWriter(), true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(outWriter())
	}
	return nil
}
