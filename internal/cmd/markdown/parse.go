package markdown

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/pkg/md"
)

type parseOptions struct {
	input       string
	frontMatter bool
}

// NewCmdParse creates the markdown parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse markdown into a CiceroMark document",
		Long: `Parse markdown text into a CiceroMark JSON document.

A leading YAML front matter block is stripped before parsing. Use
--front-matter to print it instead of the document.`,
		Example: `  # Parse a contract
  cmk markdown parse contract.md

  # Show the front matter
  cmk markdown parse contract.md --front-matter`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			return runParse(opts, cmdutil.GlobalsFromCmd(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.frontMatter, "front-matter", false, "Print the front matter instead of the document")

	return cmd
}

func runParse(opts *parseOptions, g *cmdutil.Globals) error {
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
	meta, body, err := md.ParseFrontMatter(raw)
	if err != nil {
		return err
	}
	if opts.frontMatter {
		return g.Renderer(cfg).RenderJSON(meta)
	}
	if meta.Title != "" {
		logger.Debug("front matter", "title", meta.Title, "template", meta.Template)
	}

	doc, err := md.ToCiceroMark(body)
	if err != nil {
		return err
	}
	return g.RenderDocument(cfg, doc)
}
