// Package init provides the init command for cmk.
package init

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/internal/config"
	"github.com/open-cli-collective/ciceromark-cli/internal/view"
	"github.com/open-cli-collective/ciceromark-cli/pkg/pdf"
)

type initOptions struct {
	codeMarks      string
	pdfBackend     string
	pageSize       string
	noVerify       bool
	nonInteractive bool
	force          bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize cmk configuration",
		Long: `Initialize cmk with your conversion and PDF preferences.

This command will guide you through choosing how code marks are converted,
which PDF text extractor to use, the default page size and the output format.
The configuration will be saved to ~/.config/cmk/config.yml.

The pdftotext backend needs poppler-utils installed:
  apt install poppler-utils     # Debian/Ubuntu
  brew install poppler          # macOS`,
		Example: `  # Interactive setup
  cmk init

  # Scripted setup with the defaults
  cmk init --non-interactive

  # Pre-select the pdftotext backend
  cmk init --pdf-backend pdftotext`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(opts, cmdutil.GlobalsFromCmd(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.codeMarks, "code-marks", "", "Code mark policy: precedence, nested")
	cmd.Flags().StringVar(&opts.pdfBackend, "pdf-backend", "", "PDF text extraction backend: native, pdftotext")
	cmd.Flags().StringVar(&opts.pageSize, "page-size", "", "Default PDF page size")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip checking that the PDF backend is available")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Save the flag values and defaults without prompting")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing configuration without asking")

	return cmd
}

// defaults returns the configuration offered when nothing is set.
func defaults() *config.Config {
	return &config.Config{
		OutputFormat: string(view.FormatJSON),
		CodeMarks:    "precedence",
		PDFBackend:   pdf.BackendNative,
		PDFPageSize:  pdf.DefaultPageSize,
		LogLevel:     "error",
	}
}

func runInit(opts *initOptions, g *cmdutil.Globals) error {
	configPath := g.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.nonInteractive {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(g.Stdout, "Initialization cancelled.")
			return nil
		}
	}

	cfg := defaults()

	// Use prefilled values or prompt
	if opts.codeMarks != "" {
		cfg.CodeMarks = opts.codeMarks
	}
	if opts.pdfBackend != "" {
		cfg.PDFBackend = opts.pdfBackend
	}
	if opts.pageSize != "" {
		cfg.PDFPageSize = opts.pageSize
	}

	if !opts.nonInteractive {
		if err := newForm(cfg).Run(); err != nil {
			return err
		}
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify the backend unless skipped
	if !opts.noVerify {
		fmt.Fprint(g.Stdout, "Checking PDF backend... ")
		if err := verifyBackend(cfg); err != nil {
			fmt.Fprintln(g.Stdout, "failed!")
			return fmt.Errorf("pdf backend check failed: %w", err)
		}
		fmt.Fprintln(g.Stdout, "ok!")
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	printNextSteps(g.Stdout, configPath)
	return nil
}

func newForm(cfg *config.Config) *huh.Form {
	pageSizes := make([]huh.Option[string], 0, len(pdf.ValidPageSizes))
	for _, size := range pdf.ValidPageSizes {
		pageSizes = append(pageSizes, huh.NewOption(size, size))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Code marks").
				Description("How text that is both code and bold/italic is converted").
				Options(
					huh.NewOption("Precedence (plain code span)", "precedence"),
					huh.NewOption("Nested (keep bold/italic around the code span)", "nested"),
				).
				Value(&cfg.CodeMarks),

			huh.NewSelect[string]().
				Title("PDF text extraction").
				Description("Backend used by 'cmk pdf import'").
				Options(
					huh.NewOption("Native (built in)", pdf.BackendNative),
					huh.NewOption("pdftotext (poppler-utils)", pdf.BackendPdftotext),
				).
				Value(&cfg.PDFBackend),

			huh.NewSelect[string]().
				Title("PDF page size").
				Options(pageSizes...).
				Value(&cfg.PDFPageSize),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),

			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("error", "warn", "info", "debug")...).
				Value(&cfg.LogLevel),
		),
	)
}

func verifyBackend(cfg *config.Config) error {
	_, err := pdf.NewExtractor(cfg.PDFBackend)
	return err
}

func printNextSteps(w io.Writer, configPath string) {
	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  cmk slate contract.slate.json")
	fmt.Fprintln(w, "  cmk pdf export contract.md")
}
