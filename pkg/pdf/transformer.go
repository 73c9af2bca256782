package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/md"
)

// Transformer converts between PDF files and CiceroMark documents.
type Transformer struct {
	extractor TextExtractor
	logger    Logger
}

// NewTransformer creates a Transformer. A nil extractor selects
// NativeExtractor and a nil logger discards events.
func NewTransformer(extractor TextExtractor, logger Logger) *Transformer {
	if extractor == nil {
		extractor = NativeExtractor{}
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Transformer{extractor: extractor, logger: logger}
}

// ToCiceroMark reads a PDF, extracts its plain text and parses that text as
// markdown.
func (t *Transformer) ToCiceroMark(ctx context.Context, r io.Reader) (*ciceromark.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	text, err := t.extractor.ExtractText(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	t.logger.Debug("extracted pdf text", "pdf_bytes", len(data), "text_bytes", len(text))

	return md.ToCiceroMark([]byte(text))
}

// ToPDF renders doc to Path/FileName and returns the absolute path written.
func (t *Transformer) ToPDF(doc *ciceromark.Document, opts Options) (string, error) {
	path, err := opts.outputPath()
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Render(doc, f, opts.Config); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	t.logger.Info("created pdf", "path", path)
	return path, nil
}

func (o Options) outputPath() (string, error) {
	name := o.FileName
	if name == "" {
		name = DefaultFileName
	}

	dir := o.Path
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return filepath.Join(abs, name), nil
}
