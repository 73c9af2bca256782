// Package root provides the root command for the cmk CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/completion"
	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/ciceromark-cli/internal/cmd/init"
	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/markdown"
	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/pdfcmd"
	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/slatecmd"
	"github.com/open-cli-collective/ciceromark-cli/internal/version"
	"github.com/open-cli-collective/ciceromark-cli/internal/view"
)

// NewCmdRoot creates the root command for cmk.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmk",
		Short: "Convert contract documents to and from CiceroMark",
		Long: `cmk converts smart legal contract documents between the Slate editor
format, CiceroMark JSON, markdown and PDF.

Clauses and variables survive every conversion: they become tagged fenced
blocks and inline tags in markdown, and their values in PDF.

Get started by running: cmk init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/cmk/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain (default from config, then json)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")

	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return view.ValidFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	// Set version template
	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(slatecmd.NewCmdSlate())
	cmd.AddCommand(markdown.NewCmdMarkdown())
	cmd.AddCommand(pdfcmd.NewCmdPDF())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
