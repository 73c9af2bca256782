package md

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
)

// FromCiceroMark renders a CiceroMark document as Commonmark text. Clauses are
// written as fenced blocks whose info string is a clause tag, and variables as
// inline tags, so ToCiceroMark can restore them.
func FromCiceroMark(doc *ciceromark.Document) (string, error) {
	if doc == nil {
		return "", nil
	}
	if !doc.Is(ciceromark.ClassDocument) {
		return "", fmt.Errorf("failed to render markdown: root is %s, not a document", doc.Class)
	}

	w := &cmWriter{}
	blocks, err := w.blocks(doc.Nodes, "\n\n")
	if err != nil {
		return "", err
	}
	if blocks == "" {
		return "", nil
	}
	return blocks + "\n", nil
}

// cmWriter renders CiceroMark nodes to markdown.
type cmWriter struct {
	// lineStart is true when the next inline text begins a source line.
	lineStart bool
}

func (w *cmWriter) blocks(nodes []*ciceromark.Node, sep string) (string, error) {
	nodes = ciceromark.GroupInlines(nodes)
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		part, err := w.block(node)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, sep), nil
}

func (w *cmWriter) block(n *ciceromark.Node) (string, error) {
	switch n.Class {
	case ciceromark.ClassParagraph:
		return w.paragraph(n.Nodes)

	case ciceromark.ClassHeading:
		level, err := strconv.Atoi(n.Level)
		if err != nil || level < 1 || level > 6 {
			return "", fmt.Errorf("failed to render heading: invalid level %q", n.Level)
		}
		content, err := w.paragraph(n.Nodes)
		if err != nil {
			return "", err
		}
		marker := strings.Repeat("#", level)
		if content == "" {
			return marker, nil
		}
		return marker + " " + content, nil

	case ciceromark.ClassThematicBreak:
		return "---", nil

	case ciceromark.ClassCodeBlock:
		info := ""
		if n.Info != nil {
			info = *n.Info
		}
		return fenced(info, n.Text), nil

	case ciceromark.ClassClause:
		body, err := w.blocks(n.Nodes, "\n\n")
		if err != nil {
			return "", err
		}
		info := renderTag(tagClause, false,
			attribute{"src", n.Src},
			attribute{"clauseid", n.ClauseID},
		)
		return fenced(info, body), nil

	case ciceromark.ClassHTMLBlock:
		return strings.TrimRight(n.Text, "\n"), nil

	case ciceromark.ClassBlockQuote:
		body, err := w.blocks(n.Nodes, "\n\n")
		if err != nil {
			return "", err
		}
		return prefixLines(body, "> ", ">"), nil

	case ciceromark.ClassList, ciceromark.ClassListVariable:
		return w.list(n)

	default:
		return "", fmt.Errorf("failed to render markdown: %s cannot appear at block level", n.Class)
	}
}

func (w *cmWriter) paragraph(nodes []*ciceromark.Node) (string, error) {
	w.lineStart = true
	var sb strings.Builder
	if err := w.inlines(&sb, nodes); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (w *cmWriter) list(n *ciceromark.Node) (string, error) {
	tight := n.Tight != nil && *n.Tight == "true"
	start := 1
	if n.Start != nil {
		if parsed, err := strconv.Atoi(*n.Start); err == nil {
			start = parsed
		}
	}
	delimiter := "."
	if n.Delimiter != nil && *n.Delimiter == DelimiterParen {
		delimiter = ")"
	}

	itemSep, blockSep := "\n\n", "\n\n"
	if tight {
		itemSep, blockSep = "\n", "\n"
	}

	items := make([]string, 0, len(n.Nodes))
	for i, item := range n.Nodes {
		if !item.Is(ciceromark.ClassItem) {
			return "", fmt.Errorf("failed to render list: unexpected child %s", item.Class)
		}

		marker := "-"
		if n.ListType == ciceromark.ListOrdered {
			marker = strconv.Itoa(start+i) + delimiter
		}

		body, err := w.blocks(item.Nodes, blockSep)
		if err != nil {
			return "", err
		}
		if body == "" {
			items = append(items, marker)
			continue
		}

		indent := strings.Repeat(" ", len(marker)+1)
		items = append(items, marker+" "+strings.TrimPrefix(prefixLines(body, indent, ""), indent))
	}
	return strings.Join(items, itemSep), nil
}

func (w *cmWriter) inlines(sb *strings.Builder, nodes []*ciceromark.Node) error {
	for _, node := range nodes {
		if err := w.inline(sb, node); err != nil {
			return err
		}
	}
	return nil
}

func (w *cmWriter) inline(sb *strings.Builder, n *ciceromark.Node) error {
	switch n.Class {
	case ciceromark.ClassText:
		sb.WriteString(escapeText(n.Text, w.lineStart))
		if n.Text != "" {
			w.lineStart = false
		}

	case ciceromark.ClassCode:
		sb.WriteString(codeSpan(n.Text))
		w.lineStart = false

	case ciceromark.ClassEmph, ciceromark.ClassStrong:
		delim := "*"
		if n.Is(ciceromark.ClassStrong) {
			delim = "**"
		}
		sb.WriteString(delim)
		w.lineStart = false
		if err := w.inlines(sb, n.Nodes); err != nil {
			return err
		}
		sb.WriteString(delim)

	case ciceromark.ClassSoftbreak:
		sb.WriteString("\n")
		w.lineStart = true

	case ciceromark.ClassLinebreak:
		sb.WriteString("\\\n")
		w.lineStart = true

	case ciceromark.ClassLink, ciceromark.ClassImage:
		if n.Is(ciceromark.ClassImage) {
			sb.WriteString("!")
		} else {
			escapeTrailingBang(sb)
		}
		sb.WriteString("[")
		w.lineStart = false
		if err := w.inlines(sb, n.Nodes); err != nil {
			return err
		}
		sb.WriteString("](")
		if n.Destination != nil {
			sb.WriteString(linkDestination(*n.Destination))
		}
		if n.Title != "" {
			sb.WriteString(` "`)
			sb.WriteString(strings.ReplaceAll(n.Title, `"`, `\"`))
			sb.WriteString(`"`)
		}
		sb.WriteString(")")

	case ciceromark.ClassHTMLInline:
		sb.WriteString(n.Text)
		w.lineStart = false

	case ciceromark.ClassVariable:
		sb.WriteString(renderTag(tagVariable, true,
			attribute{"id", n.ID},
			attribute{"value", &n.Value},
		))
		w.lineStart = false

	case ciceromark.ClassConditionalVariable:
		sb.WriteString(renderTag(tagConditional, true,
			attribute{"id", n.ID},
			attribute{"value", &n.Value},
			attribute{"whenTrue", n.WhenTrue},
			attribute{"whenFalse", n.WhenFalse},
		))
		w.lineStart = false

	case ciceromark.ClassComputedVariable:
		sb.WriteString(renderTag(tagComputed, true, attribute{"value", &n.Value}))
		w.lineStart = false

	default:
		return fmt.Errorf("failed to render markdown: %s cannot appear inline", n.Class)
	}
	return nil
}

// fenced writes a fenced code block, choosing a fence longer than any backtick
// run in the content.
func fenced(info, content string) string {
	fence := strings.Repeat("`", max(3, longestRun(content, '`')+1))
	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString(info)
	sb.WriteString("\n")
	if content != "" {
		sb.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fence)
	return sb.String()
}

func codeSpan(code string) string {
	ticks := strings.Repeat("`", longestRun(code, '`')+1)
	pad := strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") ||
		(strings.HasPrefix(code, " ") && strings.HasSuffix(code, " ") && strings.TrimSpace(code) != "")
	if pad {
		code = " " + code + " "
	}
	return ticks + code + ticks
}

func longestRun(s string, r rune) int {
	longest, current := 0, 0
	for _, c := range s {
		if c == r {
			current++
			longest = max(longest, current)
			continue
		}
		current = 0
	}
	return longest
}

// prefixLines prefixes every line of s, using blank for empty lines.
func prefixLines(s, prefix, blank string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blank
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func linkDestination(dest string) string {
	if dest == "" || strings.ContainsAny(dest, " ()<>") {
		return "<" + strings.NewReplacer("<", `\<`, ">", `\>`).Replace(dest) + ">"
	}
	return dest
}

// entityRef matches an HTML entity or numeric character reference.
var entityRef = regexp.MustCompile(`^&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)

// escapeText backslash-escapes characters that markdown would otherwise read
// as syntax. At the start of a line, list and heading markers are escaped too.
// "!" is escaped only before "[", and "&" only where it starts an entity.
func escapeText(s string, lineStart bool) string {
	var sb strings.Builder
	for i, r := range s {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>':
			sb.WriteByte('\\')
		case '!':
			if strings.HasPrefix(s[i+1:], "[") {
				sb.WriteByte('\\')
			}
		case '&':
			if entityRef.MatchString(s[i:]) {
				sb.WriteByte('\\')
			}
		case '-', '+', '=', '#':
			if lineStart && i == 0 {
				sb.WriteByte('\\')
			}
		case '.', ')':
			if lineStart && i > 0 && isDigits(s[:i]) {
				sb.WriteByte('\\')
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// escapeTrailingBang escapes a "!" left unescaped at the end of sb, which a
// following "[" would otherwise turn into an image.
func escapeTrailingBang(sb *strings.Builder) {
	out := sb.String()
	if !strings.HasSuffix(out, "!") {
		return
	}
	rest := out[:len(out)-1]
	if (len(rest)-len(strings.TrimRight(rest, `\`)))%2 == 1 {
		return
	}
	sb.Reset()
	sb.WriteString(rest)
	sb.WriteString(`\!`)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
