package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for waterx-admin commands.

Bash:
  source <(waterx-admin completion bash)

Zsh:
  waterx-admin completion zsh > "${fpath[1]}/_waterx-admin"

Fish:
  waterx-admin completion fish > ~/.config/fish/completions/waterx-admin.fish

PowerShell:
  waterx-admin completion powershell | Out-String | Invoke-Expression

After installation, restart your shell or source the completion file.`,
	ValidArgs:          []string{"bash", "zsh", "fish", "powershell"},
	Args:               cobra.ExactArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return root.GenZshCompletion(os.Stdout)
		case "fish":
			return root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
