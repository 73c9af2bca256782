// Package pdf moves contracts between PDF files and CiceroMark documents.
// Import extracts the PDF's plain text and parses it as markdown; export lays
// the CiceroMark tree out directly with fpdf core fonts.
package pdf

import (
	"fmt"
	"strings"
)

// DefaultFileName is the output file name used when Options.FileName is empty.
const DefaultFileName = "accord.pdf"

// Defaults applied by Config.withDefaults.
const (
	DefaultPageSize = "A4"
	DefaultFontSize = 11.0
)

// ValidPageSizes lists the page sizes accepted by Config.PageSize.
var ValidPageSizes = []string{"A3", "A4", "A5", "Letter", "Legal"}

// Config controls page layout.
type Config struct {
	PageSize string
	FontSize float64
	Title    string
}

// Options controls where ToPDF writes its file.
type Options struct {
	// FileName defaults to DefaultFileName.
	FileName string
	// Path is the output directory; it defaults to the working directory.
	Path   string
	Config Config
}

// Validate checks the page size and font size.
func (c Config) Validate() error {
	if c.PageSize != "" && !isValidPageSize(c.PageSize) {
		return fmt.Errorf("invalid page size %q (valid: %s)", c.PageSize, strings.Join(ValidPageSizes, ", "))
	}
	if c.FontSize < 0 {
		return fmt.Errorf("invalid font size %v: must be positive", c.FontSize)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.PageSize == "" {
		c.PageSize = DefaultPageSize
	}
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	return c
}

func isValidPageSize(size string) bool {
	for _, valid := range ValidPageSizes {
		if strings.EqualFold(size, valid) {
			return true
		}
	}
	return false
}

// Logger receives progress events.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
