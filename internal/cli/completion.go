package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for groot.

To load completions:

Bash:
  $ source <(groot completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ groot completion bash > /etc/bash_completion.d/groot
  # macOS:
  $ groot completion bash > $(brew --prefix)/etc/bash_completion.d/groot

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ groot completion zsh > "${fpath[1]}/_groot"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ groot completion fish | source

  # To load completions for each session, execute once:
  $ groot completion fish > ~/.config/fish/completions/groot.fish

PowerShell:
  PS> groot completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> groot completion powershell > groot.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeTreeFile completes the FILE argument with tree documents.
func completeTreeFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"yaml", "yml", "json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the comma-separated --format flag.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return pipeline.FormatNames(), cobra.ShellCompDirectiveNoFileComp
}
