package configcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current cmk configuration with the source of each value.`,
		Example: `  # Show current config
  cmk config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmdutil.GlobalsFromCmd(cmd))
		},
	}

	return cmd
}

func runShow(g *cmdutil.Globals) error {
	if g.NoColor {
		color.NoColor = true
	}

	configPath := g.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		cfg = &config.Config{}
		cfg.LoadFromEnv()
	}

	w := g.Stdout
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(w, "%-16s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		fmt.Fprint(w, value)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "CMK_OUTPUT")
	printField("Code marks", cfg.CodeMarks, fileCfg.CodeMarks, "CMK_CODE_MARKS")
	printField("PDF backend", cfg.PDFBackend, fileCfg.PDFBackend, "CMK_PDF_BACKEND")
	printField("PDF output dir", cfg.PDFOutputDir, fileCfg.PDFOutputDir, "CMK_PDF_OUTPUT_DIR")
	printField("PDF file name", cfg.PDFFileName, fileCfg.PDFFileName, "CMK_PDF_FILE_NAME")
	printField("PDF page size", cfg.PDFPageSize, fileCfg.PDFPageSize, "CMK_PDF_PAGE_SIZE")
	printField("PDF font size", formatFloat(cfg.PDFFontSize), formatFloat(fileCfg.PDFFontSize), "CMK_PDF_FONT_SIZE")
	printField("Log level", cfg.LogLevel, fileCfg.LogLevel, "CMK_LOG_LEVEL", "LOG_LEVEL")
	printField("Log format", cfg.LogFormat, fileCfg.LogFormat, "CMK_LOG_FORMAT", "LOG_FORMAT")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
