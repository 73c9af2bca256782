package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

// Extraction backends.
const (
	BackendNative    = "native"
	BackendPdftotext = "pdftotext"
)

// ValidBackends lists the accepted extraction backend names.
var ValidBackends = []string{BackendNative, BackendPdftotext}

// ErrNoText is returned when a PDF yields no extractable text.
var ErrNoText = errors.New("pdf contains no extractable text")

// TextExtractor pulls plain text out of a PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// NewExtractor returns the extractor for a backend name. The empty name selects
// the native extractor.
func NewExtractor(backend string) (TextExtractor, error) {
	switch backend {
	case "", BackendNative:
		return NativeExtractor{}, nil
	case BackendPdftotext:
		extractor := NewCommandExtractor()
		if !extractor.Available() {
			return nil, fmt.Errorf("%s not found on PATH", BackendPdftotext)
		}
		return extractor, nil
	}
	return nil, fmt.Errorf("invalid pdf backend %q (valid: %s)", backend, strings.Join(ValidBackends, ", "))
}

// NativeExtractor extracts text in-process with github.com/ledongthuc/pdf.
type NativeExtractor struct{}

// ExtractText implements TextExtractor.
func (NativeExtractor) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The reader panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", rec)
		}
	}()

	reader, err := lpdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", ErrNoText
	}
	return buf.String(), nil
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// CommandExtractor extracts text by piping the PDF through poppler's
// pdftotext binary.
type CommandExtractor struct {
	bin  string
	exec executor
}

// NewCommandExtractor returns an extractor that runs pdftotext from PATH.
func NewCommandExtractor() *CommandExtractor {
	return newCommandExtractor(&osExecutor{})
}

func newCommandExtractor(e executor) *CommandExtractor {
	return &CommandExtractor{bin: BackendPdftotext, exec: e}
}

// Available reports whether the binary is on PATH.
func (c *CommandExtractor) Available() bool {
	_, err := c.exec.LookPath(c.bin)
	return err == nil
}

// ExtractText implements TextExtractor.
func (c *CommandExtractor) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	var out bytes.Buffer
	args := []string{"-enc", "UTF-8", "-", "-"}
	if err := c.exec.RunPiped(ctx, c.bin, args, io.NewSectionReader(r, 0, size), &out); err != nil {
		return "", fmt.Errorf("failed to run %s: %w", c.bin, err)
	}

	if strings.TrimSpace(out.String()) == "" {
		return "", ErrNoText
	}
	return out.String(), nil
}
