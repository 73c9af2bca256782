package md

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a contract markdown file.
type FrontMatter struct {
	Title    string         `yaml:"title" json:"title,omitempty"`
	Template string         `yaml:"template" json:"template,omitempty"`
	Author   string         `yaml:"author" json:"author,omitempty"`
	Custom   map[string]any `yaml:",inline" json:"custom,omitempty"`
}

// ParseFrontMatter splits source into its front matter and markdown body.
// Sources without front matter return a zero FrontMatter and the full body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}

	return meta, body, nil
}
