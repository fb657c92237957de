package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sruja-layout.

To load completions:

Bash:
  $ source <(sruja-layout completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sruja-layout completion bash > /etc/bash_completion.d/sruja-layout
  # macOS:
  $ sruja-layout completion bash > $(brew --prefix)/etc/bash_completion.d/sruja-layout

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sruja-layout completion zsh > "${fpath[1]}/_sruja-layout"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sruja-layout completion fish | source

  # To load completions for each session, execute once:
  $ sruja-layout completion fish > ~/.config/fish/completions/sruja-layout.fish

PowerShell:
  PS> sruja-layout completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sruja-layout completion powershell > sruja-layout.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}
}
