package slate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidDocument is matched by every SchemaError.
var ErrInvalidDocument = errors.New("invalid slate document")

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// SchemaError reports the schema violations found in a Slate value.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalidDocument.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrInvalidDocument.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidDocument
}

var loadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("slate.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("slate.json")
})

// Validate checks raw JSON against the Slate document schema. It checks shape
// only (objects, arrays, marks); the node type vocabulary is left to the
// converters so that unknown types surface as conversion errors.
func Validate(raw []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to compile slate schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to parse slate document: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &SchemaError{Issues: collectIssues(validationErr)}
		}
		return err
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

// Decode reads a Slate value from r. Both the bare document shape
// ({"nodes": [...]}) and the editor's value wrapper ({"document": {...}}) are
// accepted.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read slate document: %w", err)
	}
	return DecodeBytes(raw)
}

// DecodeBytes decodes a Slate value from raw JSON.
func DecodeBytes(raw []byte) (*Document, error) {
	var envelope struct {
		Document *Document `json:"document"`
		Nodes    []*Node   `json:"nodes"`
		Data     Data      `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse slate document: %w", err)
	}

	if envelope.Document != nil {
		return envelope.Document, nil
	}
	return &Document{Nodes: envelope.Nodes, Data: envelope.Data}, nil
}

// ValidateAndDecode validates raw against the schema and then decodes it.
func ValidateAndDecode(raw []byte) (*Document, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return DecodeBytes(raw)
}
