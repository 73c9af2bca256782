package md

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
)

var (
	scriptPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// HTMLToMarkdown converts an HTML fragment or page to markdown text.
func HTMLToMarkdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	html = stripNonContent(html)

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}

// FromHTML converts HTML into a CiceroMark document by way of markdown.
func FromHTML(html string) (*ciceromark.Document, error) {
	markdown, err := HTMLToMarkdown(html)
	if err != nil {
		return nil, err
	}
	return ToCiceroMark([]byte(markdown))
}

// stripNonContent removes elements that carry no document text.
func stripNonContent(html string) string {
	html = scriptPattern.ReplaceAllString(html, "")
	html = stylePattern.ReplaceAllString(html, "")
	return commentPattern.ReplaceAllString(html, "")
}
