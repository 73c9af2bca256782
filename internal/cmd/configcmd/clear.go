package configcmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ciceromark-cli/internal/config"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the cmk configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  cmk config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClear(cmdutil.GlobalsFromCmd(cmd))
		},
	}

	return cmd
}

func runClear(g *cmdutil.Globals) error {
	if g.NoColor {
		color.NoColor = true
	}

	configPath := g.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if os.IsNotExist(err) {
		_, _ = green.Fprintf(g.Stdout, "✓ No config file to remove\n")
	} else {
		_, _ = green.Fprintf(g.Stdout, "✓ Configuration cleared from %s\n", configPath)
	}

	// Check if env vars are set
	var activeVars []string
	for _, v := range envVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = dim.Fprintf(g.Stdout, "\nNote: Environment variables will still be used: %v\n", activeVars)
	}

	return nil
}
