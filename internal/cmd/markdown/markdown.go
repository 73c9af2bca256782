// Package markdown provides commands that convert between CiceroMark and
// markdown text.
package markdown

import (
	"github.com/spf13/cobra"
)

// NewCmdMarkdown creates the markdown command.
func NewCmdMarkdown() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "markdown",
		Aliases: []string{"md"},
		Short:   "Convert between CiceroMark and markdown",
		Long: `Commands for writing CiceroMark documents as markdown and reading them back.

Clauses are written as fenced blocks tagged <clause ...> and variables as
inline <variable/>, <if/> and <computed/> tags, so a rendered document parses
back into the same tree.`,
	}

	cmd.AddCommand(NewCmdRender())
	cmd.AddCommand(NewCmdParse())
	cmd.AddCommand(NewCmdFromHTML())

	return cmd
}
