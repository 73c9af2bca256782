package md

import (
	"html"
	"strings"
)

// Tag names used to carry CiceroMark constructs through markdown text.
const (
	tagClause      = "clause"
	tagVariable    = "variable"
	tagConditional = "if"
	tagComputed    = "computed"
)

// List delimiters as written in the AST.
const (
	DelimiterPeriod = "period"
	DelimiterParen  = "paren"
)

// tag is a parsed HTML-like tag such as <variable id="x" value="y"/>.
type tag struct {
	Name        string
	Attrs       map[string]string
	SelfClosing bool
}

// attr returns the attribute value or nil when absent.
func (t tag) attr(name string) *string {
	if v, ok := t.Attrs[name]; ok {
		return &v
	}
	return nil
}

// parseTag parses a single opening or self-closing tag. Attribute values are
// HTML-unescaped.
func parseTag(raw string) (tag, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 3 || raw[0] != '<' || raw[len(raw)-1] != '>' || raw[1] == '/' {
		return tag{}, false
	}

	inner := raw[1 : len(raw)-1]
	selfClosing := strings.HasSuffix(inner, "/")
	inner = strings.TrimSpace(strings.TrimSuffix(inner, "/"))

	name, rest, _ := strings.Cut(inner, " ")
	if name == "" {
		return tag{}, false
	}

	attrs := make(map[string]string)
	for _, param := range parseKeyValueParams(strings.TrimSpace(rest)) {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			continue
		}
		attrs[key] = html.UnescapeString(value)
	}

	return tag{Name: name, Attrs: attrs, SelfClosing: selfClosing}, true
}

// renderTag renders a tag with its attributes in the given order, skipping
// nil values.
func renderTag(name string, selfClosing bool, attrs ...attribute) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(name)
	for _, a := range attrs {
		if a.value == nil {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(*a.value))
		sb.WriteString(`"`)
	}
	if selfClosing {
		sb.WriteString("/")
	}
	sb.WriteString(">")
	return sb.String()
}

type attribute struct {
	name  string
	value *string
}

// parseKeyValueParams parses a string like "key1=value1 key2=value2" into ["key1=value1", "key2=value2"].
// Handles values with quotes: key="value with spaces"
func parseKeyValueParams(s string) []string {
	var params []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = r
			// Don't include the opening quote in the value
		case r == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
			// Don't include the closing quote in the value
		case (r == ' ' || r == '\t' || r == '\n') && !inQuotes:
			if current.Len() > 0 {
				params = append(params, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		params = append(params, current.String())
	}

	return params
}
