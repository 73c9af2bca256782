// Package slatecmd provides the slate conversion command.
package slatecmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/slate"
)

type slateOptions struct {
	input      string
	noValidate bool
	codeMarks  string
}

// NewCmdSlate creates the slate command.
func NewCmdSlate() *cobra.Command {
	opts := &slateOptions{}

	cmd := &cobra.Command{
		Use:   "slate [file]",
		Short: "Convert a Slate editor document to CiceroMark",
		Long: `Convert a Slate editor document to a CiceroMark JSON tree.

The input is validated against the Slate document schema before conversion.
Reads stdin when no file is given or the file is "-".`,
		Example: `  # Convert a file
  cmk slate contract.slate.json

  # Keep bold/italic around code spans
  cmk slate contract.slate.json --code-marks nested

  # Pipe from another tool
  cat contract.slate.json | cmk slate -o plain`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			return runSlate(opts, cmdutil.GlobalsFromCmd(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.noValidate, "no-validate", false, "Skip schema validation of the input")
	cmd.Flags().StringVar(&opts.codeMarks, "code-marks", "", "Code mark policy: precedence, nested (default from config)")

	return cmd
}

func runSlate(opts *slateOptions, g *cmdutil.Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if opts.codeMarks != "" {
		cfg.CodeMarks = opts.codeMarks
	}
	policy, err := cfg.CodeMarkPolicy()
	if err != nil {
		return err
	}

	logger, err := g.Logger(cfg, "cmk.slate")
	if err != nil {
		return err
	}

	raw, err := g.ReadInput(opts.input)
	if err != nil {
		return err
	}

	decode := slate.ValidateAndDecode
	if opts.noValidate {
		decode = slate.DecodeBytes
		g.Warn("schema validation skipped")
	}
	source, err := decode(raw)
	if err != nil {
		return err
	}
	logger.Debug("decoded slate document", "nodes", len(source.Nodes))

	converter := ciceromark.NewConverter(ciceromark.Options{CodeMarks: policy, Logger: logger})
	doc, err := converter.Convert(source)
	if err != nil {
		return err
	}

	return g.RenderDocument(cfg, doc)
}
