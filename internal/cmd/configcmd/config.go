// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cmk configuration",
		Long:  `Commands for viewing, testing, and clearing cmk configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars lists every environment variable read by config.LoadFromEnv.
var envVars = []string{
	"CMK_OUTPUT", "CMK_CODE_MARKS", "CMK_PDF_BACKEND", "CMK_PDF_OUTPUT_DIR",
	"CMK_PDF_FILE_NAME", "CMK_PDF_PAGE_SIZE", "CMK_PDF_FONT_SIZE",
	"CMK_LOG_LEVEL", "CMK_LOG_FORMAT", "LOG_LEVEL", "LOG_FORMAT",
}
