// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

// shell describes one completion target.
type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer, descriptions bool) error
}

var shells = []shell{
	{
		name: "bash",
		install: `To load completions in your current shell session:

  source <(cmk completion bash)

To load completions for every new session:

  # Linux
  cmk completion bash > /etc/bash_completion.d/cmk

  # macOS (requires bash-completion)
  cmk completion bash > $(brew --prefix)/etc/bash_completion.d/cmk`,
		gen: func(root *cobra.Command, w io.Writer, descriptions bool) error {
			return root.GenBashCompletionV2(w, descriptions)
		},
	},
	{
		name: "zsh",
		install: `To load completions in your current shell session:

  source <(cmk completion zsh)

To load completions for every new session, make sure compinit runs in ~/.zshrc
and put the script on your fpath:

  cmk completion zsh > "${fpath[1]}/_cmk"`,
		gen: func(root *cobra.Command, w io.Writer, descriptions bool) error {
			if descriptions {
				return root.GenZshCompletion(w)
			}
			return root.GenZshCompletionNoDesc(w)
		},
	},
	{
		name: "fish",
		install: `To load completions in your current shell session:

  cmk completion fish | source

To load completions for every new session:

  cmk completion fish > ~/.config/fish/completions/cmk.fish`,
		gen: func(root *cobra.Command, w io.Writer, descriptions bool) error {
			return root.GenFishCompletion(w, descriptions)
		},
	},
	{
		name: "powershell",
		install: `To load completions in your current shell session:

  cmk completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output to your profile:

  cmk completion powershell >> $PROFILE`,
		gen: func(root *cobra.Command, w io.Writer, descriptions bool) error {
			if descriptions {
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return root.GenPowerShellCompletion(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cmk.

These scripts enable tab-completion for commands, flags, and flag values such as
--output. See each sub-command's help for installation instructions.`,
	}

	for _, s := range shells {
		cmd.AddCommand(newShellCmd(s))
	}

	return cmd
}

func newShellCmd(s shell) *cobra.Command {
	var noDescriptions bool

	cmd := &cobra.Command{
		Use:                   s.name,
		Short:                 "Generate " + s.name + " completion script",
		Long:                  "Generate " + s.name + " completion script for cmk.\n\n" + s.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.gen(cmd.Root(), cmd.OutOrStdout(), !noDescriptions)
		},
	}

	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "Leave command descriptions out of the completions")

	return cmd
}
