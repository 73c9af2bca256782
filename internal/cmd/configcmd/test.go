package configcmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/pdf"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that the configuration is usable",
		Long: `Check that the current configuration is valid, that the PDF text extraction
backend is installed, and that a PDF can be laid out with the configured page
settings.`,
		Example: `  # Test configuration
  cmk config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTest(cmdutil.GlobalsFromCmd(cmd))
		},
	}

	return cmd
}

func runTest(g *cmdutil.Globals) error {
	if g.NoColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	w := g.Stdout

	cfg, err := g.LoadConfig()
	if err != nil {
		_, _ = red.Fprintln(w, "✗ Configuration invalid:", err)
		fmt.Fprintln(w, "\nCheck your settings with: cmk config show")
		fmt.Fprintln(w, "Reconfigure with: cmk init")
		return err
	}
	_, _ = green.Fprintln(w, "✓ Configuration valid")

	backend := cfg.PDFBackend
	if backend == "" {
		backend = pdf.BackendNative
	}
	if _, err := pdf.NewExtractor(backend); err != nil {
		_, _ = red.Fprintf(w, "✗ PDF backend %s unavailable: %v\n", backend, err)
		return fmt.Errorf("pdf backend check failed: %w", err)
	}
	_, _ = green.Fprintf(w, "✓ PDF backend %s available\n", backend)

	sample := ciceromark.NewDocument()
	sample.Append(ciceromark.NewContainer(ciceromark.ClassParagraph))
	sample.Nodes[0].Append(ciceromark.NewText("cmk"))
	if err := pdf.Render(sample, io.Discard, cfg.PDFConfig()); err != nil {
		_, _ = red.Fprintln(w, "✗ PDF layout failed:", err)
		return fmt.Errorf("pdf layout failed: %w", err)
	}
	_, _ = green.Fprintln(w, "✓ PDF layout verified")

	return nil
}
