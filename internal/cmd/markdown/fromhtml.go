package markdown

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/pkg/md"
)

type fromHTMLOptions struct {
	input      string
	ciceromark bool
}

// NewCmdFromHTML creates the markdown from-html command.
func NewCmdFromHTML() *cobra.Command {
	opts := &fromHTMLOptions{}

	cmd := &cobra.Command{
		Use:   "from-html [file]",
		Short: "Convert HTML to markdown",
		Long: `Convert an HTML page or fragment to markdown. Scripts, styles and comments
are dropped. With --ciceromark the markdown is parsed into a CiceroMark document.`,
		Example: `  # Convert an exported contract page
  cmk markdown from-html contract.html

  # Straight to CiceroMark
  cmk markdown from-html contract.html --ciceromark`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			return runFromHTML(opts, cmdutil.GlobalsFromCmd(cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.ciceromark, "ciceromark", false, "Output a CiceroMark document instead of markdown")

	return cmd
}

func runFromHTML(opts *fromHTMLOptions, g *cmdutil.Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	raw, err := g.ReadInput(opts.input)
	if err != nil {
		return err
	}

	if opts.ciceromark {
		doc, err := md.FromHTML(string(raw))
		if err != nil {
			return err
		}
		return g.RenderDocument(cfg, doc)
	}

	markdown, err := md.HTMLToMarkdown(string(raw))
	if err != nil {
		return err
	}
	g.Renderer(cfg).RenderText(markdown)
	return nil
}
