// Package cmdutil holds the plumbing shared by cmk subcommands: global flags,
// configuration loading, loggers and input reading.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/config"
	"github.com/open-cli-collective/ciceromark-cli/internal/logging"
	"github.com/open-cli-collective/ciceromark-cli/internal/view"
	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
)

// Globals carries the root command's persistent flags and the streams a
// command reads from and writes to.
type Globals struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Verbose    bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// GlobalsFromCmd reads the persistent flags of cmd.
func GlobalsFromCmd(cmd *cobra.Command) *Globals {
	g := &Globals{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	g.ConfigPath, _ = cmd.Flags().GetString("config")
	g.Output, _ = cmd.Flags().GetString("output")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	g.Verbose, _ = cmd.Flags().GetBool("verbose")
	return g
}

// LoadConfig loads and validates the configuration file named by --config, or
// the default path, with environment overrides applied. An --output flag
// overrides the configured format.
func (g *Globals) LoadConfig() (*config.Config, error) {
	path := g.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'cmk init' to recreate it)", err)
	}
	if g.Output != "" {
		cfg.OutputFormat = g.Output
	}
	if g.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Renderer returns a renderer writing to the command's stdout.
func (g *Globals) Renderer(cfg *config.Config) *view.Renderer {
	format := view.FormatJSON
	if cfg != nil && cfg.OutputFormat != "" {
		format = view.Format(cfg.OutputFormat)
	}
	r := view.NewRenderer(format, g.NoColor)
	r.SetWriter(g.Stdout)
	return r
}

// RenderDocument prints doc as Concerto JSON, or as an outline of its
// top-level blocks in table format.
func (g *Globals) RenderDocument(cfg *config.Config, doc *ciceromark.Document) error {
	r := g.Renderer(cfg)
	if r.Format() != view.FormatTable {
		return r.RenderDocument(doc)
	}

	rows := make([][]string, 0, len(doc.Nodes))
	for i, node := range doc.Nodes {
		rows = append(rows, []string{strconv.Itoa(i + 1), blockLabel(node), view.Truncate(blockText(node), 60)})
	}
	r.RenderTable([]string{"#", "BLOCK", "TEXT"}, rows)
	return nil
}

func blockLabel(n *ciceromark.Node) string {
	label := n.Class[strings.LastIndex(n.Class, ".")+1:]
	switch {
	case n.Is(ciceromark.ClassHeading):
		label += " " + n.Level
	case n.Is(ciceromark.ClassList), n.Is(ciceromark.ClassListVariable):
		label += " (" + n.ListType + ")"
	}
	return label
}

// blockText flattens the visible text of n onto one line.
func blockText(n *ciceromark.Node) string {
	var sb strings.Builder
	ciceromark.Walk(n, func(node *ciceromark.Node) bool {
		switch node.Class {
		case ciceromark.ClassText, ciceromark.ClassCode, ciceromark.ClassCodeBlock:
			sb.WriteString(node.Text)
		case ciceromark.ClassVariable, ciceromark.ClassConditionalVariable, ciceromark.ClassComputedVariable:
			sb.WriteString(node.Value)
		case ciceromark.ClassSoftbreak, ciceromark.ClassLinebreak, ciceromark.ClassParagraph:
			sb.WriteString(" ")
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Warn prints a warning to stderr so it never mixes with command output.
func (g *Globals) Warn(msg string) {
	r := view.NewRenderer(view.FormatPlain, g.NoColor)
	r.SetWriter(g.stderr())
	r.Warning(msg)
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr != nil {
		return g.Stderr
	}
	return os.Stderr
}

// Logger returns the named component logger for cfg. Records go to the
// command's stderr.
func (g *Globals) Logger(cfg *config.Config, name string) (logging.Logger, error) {
	logCfg := cfg.LoggingConfig()
	logCfg.Writer = g.stderr()
	provider, err := logging.NewProvider(logCfg)
	if err != nil {
		return nil, err
	}
	return provider.GetLogger(name), nil
}

// ReadInput reads the named file, or stdin when name is empty or "-".
func (g *Globals) ReadInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(g.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// WriteOutput writes data to the named file, or to stdout when name is empty.
// An existing file is only replaced when force is set.
func (g *Globals) WriteOutput(name string, data []byte, force bool) error {
	if name == "" {
		_, err := g.Stdout.Write(data)
		return err
	}

	if !force {
		if _, err := os.Stat(name); err == nil {
			return fmt.Errorf("file %s already exists (use --force to overwrite)", name)
		}
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
