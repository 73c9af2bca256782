// Package pdfcmd provides commands that move contracts in and out of PDF.
package pdfcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdPDF creates the pdf command.
func NewCmdPDF() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Import and export PDF contracts",
		Long: `Commands for reading a contract out of a PDF and writing a CiceroMark
document to PDF.`,
	}

	cmd.AddCommand(NewCmdImport())
	cmd.AddCommand(NewCmdExport())

	return cmd
}
