package pdfcmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/internal/view"
	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/md"
	"github.com/open-cli-collective/ciceromark-cli/pkg/pdf"
)

type exportOptions struct {
	input    string
	path     string
	fileName string
	pageSize string
	fontSize float64
	title    string
}

// NewCmdExport creates the pdf export command.
func NewCmdExport() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a CiceroMark document to PDF",
		Long: `Lay out a CiceroMark document as a PDF file.

The input may be CiceroMark JSON or markdown; markdown is parsed first and its
front matter title becomes the PDF title. Variables are printed as their values.`,
		Example: `  # Export to ./accord.pdf
  cmk pdf export contract.json

  # Export markdown on Letter paper
  cmk pdf export contract.md --page-size Letter --file-name lease.pdf

  # Full pipeline from the editor
  cmk slate contract.slate.json | cmk pdf export --path out/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			return runExport(opts, cmdutil.GlobalsFromCmd(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", "", "Output directory (default from config, then the working directory)")
	cmd.Flags().StringVar(&opts.fileName, "file-name", "", "Output file name (default "+pdf.DefaultFileName+")")
	cmd.Flags().StringVar(&opts.pageSize, "page-size", "", "Page size: "+strings.Join(pdf.ValidPageSizes, ", "))
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "Body font size in points")
	cmd.Flags().StringVar(&opts.title, "title", "", "PDF title (default: front matter title or first heading)")

	return cmd
}

func runExport(opts *exportOptions, g *cmdutil.Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	pdfOpts := cfg.PDFOptions()
	if opts.path != "" {
		pdfOpts.Path = opts.path
	}
	if opts.fileName != "" {
		pdfOpts.FileName = opts.fileName
	}
	if opts.pageSize != "" {
		pdfOpts.Config.PageSize = opts.pageSize
	}
	if opts.fontSize != 0 {
		pdfOpts.Config.FontSize = opts.fontSize
	}
	if err := pdfOpts.Config.Validate(); err != nil {
		return err
	}

	logger, err := g.Logger(cfg, "cmk.pdf")
	if err != nil {
		return err
	}

	raw, err := g.ReadInput(opts.input)
	if err != nil {
		return err
	}
	doc, title, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	if len(doc.Nodes) == 0 {
		g.Warn("document has no content; the PDF will be a blank page")
	}

	pdfOpts.Config.Title = opts.title
	if pdfOpts.Config.Title == "" {
		pdfOpts.Config.Title = title
	}

	path, err := pdf.NewTransformer(nil, logger).ToPDF(doc, pdfOpts)
	if err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	r := g.Renderer(cfg)
	if r.Format() == view.FormatJSON {
		return r.RenderJSON(exportResult{Path: path, Bytes: size, Title: pdfOpts.Config.Title})
	}
	r.Success(fmt.Sprintf("Created %s (%s)", path, view.Size(size)))
	if pdfOpts.Config.Title != "" {
		r.RenderKeyValue("Title", pdfOpts.Config.Title)
	}
	return nil
}

type exportResult struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Title string `json:"title,omitempty"`
}

// decodeDocument reads CiceroMark JSON, or markdown with optional front
// matter, and returns the document with a title for it.
func decodeDocument(raw []byte) (*ciceromark.Document, string, error) {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		doc, err := ciceromark.Decode(trimmed)
		if err != nil {
			return nil, "", err
		}
		return doc, headingTitle(doc), nil
	}

	meta, body, err := md.ParseFrontMatter(raw)
	if err != nil {
		return nil, "", err
	}
	doc, err := md.ToCiceroMark(body)
	if err != nil {
		return nil, "", err
	}
	if meta.Title != "" {
		return doc, meta.Title, nil
	}
	return doc, headingTitle(doc), nil
}

// headingTitle returns the text of the first heading in doc.
func headingTitle(doc *ciceromark.Document) string {
	for _, node := range doc.Nodes {
		if !node.Is(ciceromark.ClassHeading) {
			continue
		}
		var sb strings.Builder
		for _, leaf := range node.Leaves() {
			sb.WriteString(leaf.Text)
		}
		return strings.TrimSpace(sb.String())
	}
	return ""
}
