package pdfcmd

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/pkg/pdf"
)

type importOptions struct {
	input   string
	backend string
}

// NewCmdImport creates the pdf import command.
func NewCmdImport() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Extract a CiceroMark document from a PDF",
		Long: `Extract the text of a PDF and parse it as markdown into a CiceroMark document.

The native backend needs no external tools. The pdftotext backend runs the
poppler pdftotext binary, which handles more layouts.`,
		Example: `  # Import with the built-in extractor
  cmk pdf import contract.pdf

  # Use poppler's pdftotext
  cmk pdf import contract.pdf --backend pdftotext`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			return runImport(cmd.Context(), opts, cmdutil.GlobalsFromCmd(cmd), nil)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "", "Text extraction backend: native, pdftotext (default from config)")

	return cmd
}

func runImport(ctx context.Context, opts *importOptions, g *cmdutil.Globals, extractor pdf.TextExtractor) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	// Create the extractor if not provided (allows injection for testing)
	if extractor == nil {
		backend := opts.backend
		if backend == "" {
			backend = cfg.PDFBackend
		}
		extractor, err = pdf.NewExtractor(backend)
		if err != nil {
			return err
		}
	}

	logger, err := g.Logger(cfg, "cmk.pdf")
	if err != nil {
		return err
	}

	raw, err := g.ReadInput(opts.input)
	if err != nil {
		return err
	}

	doc, err := pdf.NewTransformer(extractor, logger).ToCiceroMark(ctx, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return g.RenderDocument(cfg, doc)
}
