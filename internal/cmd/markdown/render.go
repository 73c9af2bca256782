package markdown

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/md"
)

type renderOptions struct {
	input      string
	outputFile string
	force      bool
}

// NewCmdRender creates the markdown render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a CiceroMark document as markdown",
		Long:  `Render a CiceroMark JSON document as markdown text. Reads stdin when no file is given.`,
		Example: `  # Convert slate to markdown in one pipeline
  cmk slate contract.slate.json | cmk markdown render

  # Write to a file
  cmk markdown render contract.json -O contract.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			return runRender(opts, cmdutil.GlobalsFromCmd(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.outputFile, "output-file", "O", "", "Write markdown to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing output file")

	return cmd
}

func runRender(opts *renderOptions, g *cmdutil.Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := g.Logger(cfg, "cmk.markdown")
	if err != nil {
		return err
	}

	raw, err := g.ReadInput(opts.input)
	if err != nil {
		return err
	}
	doc, err := ciceromark.Decode(raw)
	if err != nil {
		return err
	}

	markdown, err := md.FromCiceroMark(doc)
	if err != nil {
		return err
	}
	logger.Debug("rendered markdown", "blocks", len(doc.Nodes), "bytes", len(markdown))

	if err := g.WriteOutput(opts.outputFile, []byte(markdown), opts.force); err != nil {
		return err
	}
	if opts.outputFile != "" {
		g.Renderer(cfg).Success("Wrote " + opts.outputFile)
	}
	return nil
}
