package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cdspice.

To load completions:

Bash:
  $ source <(cdspice completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cdspice completion bash > /etc/bash_completion.d/cdspice
  # macOS:
  $ cdspice completion bash > $(brew --prefix)/etc/bash_completion.d/cdspice

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cdspice completion zsh > "${fpath[1]}/_cdspice"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ cdspice completion fish | source

  # To load completions for each session, execute once:
  $ cdspice completion fish > ~/.config/fish/completions/cdspice.fish

PowerShell:
  PS> cdspice completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cdspice completion powershell > cdspice.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
