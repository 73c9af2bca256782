package md

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
)

// cmParser is goldmark with no extensions: plain Commonmark is all a
// CiceroMark document can express.
var cmParser = goldmark.New()

// ToCiceroMark parses markdown text into a CiceroMark document. Clause blocks
// and variable tags written by FromCiceroMark are recognized and restored.
func ToCiceroMark(markdown []byte) (*ciceromark.Document, error) {
	doc := ciceromark.NewDocument()
	if len(markdown) == 0 {
		return doc, nil
	}

	reader := text.NewReader(markdown)
	astDoc := cmParser.Parser().Parse(reader)

	converter := &cmConverter{source: markdown}
	children, err := converter.convertChildren(astDoc)
	if err != nil {
		return nil, err
	}
	doc.Append(children...)
	return doc, nil
}

// cmConverter holds state during AST conversion.
type cmConverter struct {
	source []byte
}

// convertChildren converts the block children of an AST node.
func (c *cmConverter) convertChildren(n ast.Node) ([]*ciceromark.Node, error) {
	var nodes []*ciceromark.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		node, err := c.convertNode(child)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// convertNode converts a single block AST node.
func (c *cmConverter) convertNode(n ast.Node) (*ciceromark.Node, error) {
	switch node := n.(type) {
	case *ast.Paragraph:
		return c.convertInlineContainer(ciceromark.ClassParagraph, node), nil
	case *ast.TextBlock:
		// Tight list items hold text blocks; CiceroMark wraps them in paragraphs.
		return c.convertInlineContainer(ciceromark.ClassParagraph, node), nil
	case *ast.Heading:
		heading := c.convertInlineContainer(ciceromark.ClassHeading, node)
		heading.Level = strconv.Itoa(node.Level)
		return heading, nil
	case *ast.List:
		return c.convertList(node)
	case *ast.ListItem:
		return c.convertBlockContainer(ciceromark.ClassItem, node)
	case *ast.FencedCodeBlock:
		return c.convertFencedCodeBlock(node)
	case *ast.CodeBlock:
		return &ciceromark.Node{Class: ciceromark.ClassCodeBlock, Text: c.lines(node)}, nil
	case *ast.Blockquote:
		return c.convertBlockContainer(ciceromark.ClassBlockQuote, node)
	case *ast.ThematicBreak:
		return &ciceromark.Node{Class: ciceromark.ClassThematicBreak}, nil
	case *ast.HTMLBlock:
		return c.convertHTMLBlock(node), nil
	default:
		return nil, nil
	}
}

func (c *cmConverter) convertBlockContainer(class string, n ast.Node) (*ciceromark.Node, error) {
	result := ciceromark.NewContainer(class)
	children, err := c.convertChildren(n)
	if err != nil {
		return nil, err
	}
	result.Append(children...)
	return result, nil
}

func (c *cmConverter) convertInlineContainer(class string, n ast.Node) *ciceromark.Node {
	result := ciceromark.NewContainer(class)
	result.Append(c.convertInlineChildren(n)...)
	return result
}

func (c *cmConverter) convertList(n *ast.List) (*ciceromark.Node, error) {
	list, err := c.convertBlockContainer(ciceromark.ClassList, n)
	if err != nil {
		return nil, err
	}

	list.ListType = ciceromark.ListBullet
	if n.IsOrdered() {
		list.ListType = ciceromark.ListOrdered
		list.Start = ciceromark.StringPtr(strconv.Itoa(n.Start))
		delimiter := DelimiterPeriod
		if n.Marker == ')' {
			delimiter = DelimiterParen
		}
		list.Delimiter = ciceromark.StringPtr(delimiter)
	}
	list.Tight = ciceromark.StringPtr(strconv.FormatBool(n.IsTight))
	return list, nil
}

// convertFencedCodeBlock converts a fenced block, restoring a Clause when the
// info string is a clause tag.
func (c *cmConverter) convertFencedCodeBlock(n *ast.FencedCodeBlock) (*ciceromark.Node, error) {
	code := c.lines(n)

	var info string
	if n.Info != nil {
		info = strings.TrimSpace(string(n.Info.Segment.Value(c.source)))
	}

	if tag, ok := parseTag(info); ok && tag.Name == tagClause {
		clause := ciceromark.NewContainer(ciceromark.ClassClause)
		clause.Src = tag.attr("src")
		clause.ClauseID = tag.attr("clauseid")

		body, err := ToCiceroMark([]byte(code))
		if err != nil {
			return nil, err
		}
		clause.Append(body.Nodes...)
		return clause, nil
	}

	node := &ciceromark.Node{Class: ciceromark.ClassCodeBlock, Text: code}
	if info != "" {
		node.Info = ciceromark.StringPtr(info)
	}
	return node, nil
}

func (c *cmConverter) convertHTMLBlock(n *ast.HTMLBlock) *ciceromark.Node {
	var sb strings.Builder
	sb.WriteString(c.lines(n))
	if n.HasClosure() {
		sb.Write(n.ClosureLine.Value(c.source))
	}
	content := sb.String()

	// A variable tag alone on a line parses as an HTML block.
	if variable := variableFromTag(strings.TrimSpace(content)); variable != nil {
		return &ciceromark.Node{Class: ciceromark.ClassParagraph, Nodes: []*ciceromark.Node{variable}}
	}
	return &ciceromark.Node{Class: ciceromark.ClassHTMLBlock, Text: content}
}

// lines concatenates the raw source lines of a block.
func (c *cmConverter) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(c.source))
	}
	return sb.String()
}

// convertInlineChildren converts all inline children of an AST node, merging
// adjacent text leaves.
func (c *cmConverter) convertInlineChildren(n ast.Node) []*ciceromark.Node {
	var nodes []*ciceromark.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = appendInline(nodes, c.convertInlineNode(child)...)
	}
	return nodes
}

// appendInline appends nodes, joining a text leaf onto a preceding text leaf.
func appendInline(nodes []*ciceromark.Node, more ...*ciceromark.Node) []*ciceromark.Node {
	for _, node := range more {
		if last := len(nodes) - 1; last >= 0 && node.Is(ciceromark.ClassText) && nodes[last].Is(ciceromark.ClassText) {
			nodes[last] = ciceromark.NewText(nodes[last].Text + node.Text)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// convertInlineNode converts an inline AST node to CiceroMark node(s).
func (c *cmConverter) convertInlineNode(n ast.Node) []*ciceromark.Node {
	switch node := n.(type) {
	case *ast.Text:
		var nodes []*ciceromark.Node
		if value := unescape(node.Segment.Value(c.source)); value != "" {
			nodes = append(nodes, ciceromark.NewText(value))
		}
		switch {
		case node.HardLineBreak():
			nodes = append(nodes, &ciceromark.Node{Class: ciceromark.ClassLinebreak})
		case node.SoftLineBreak():
			nodes = append(nodes, &ciceromark.Node{Class: ciceromark.ClassSoftbreak})
		}
		return nodes

	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return []*ciceromark.Node{ciceromark.NewText(string(node.Value))}

	case *ast.Emphasis:
		class := ciceromark.ClassEmph
		if node.Level == 2 {
			class = ciceromark.ClassStrong
		}
		return []*ciceromark.Node{c.convertInlineContainer(class, node)}

	case *ast.CodeSpan:
		var sb strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				sb.Write(t.Segment.Value(c.source))
			case *ast.String:
				sb.Write(t.Value)
			}
		}
		return []*ciceromark.Node{ciceromark.NewCode(sb.String())}

	case *ast.Link:
		link := c.convertInlineContainer(ciceromark.ClassLink, node)
		link.Destination = ciceromark.StringPtr(string(node.Destination))
		link.Title = string(node.Title)
		return []*ciceromark.Node{link}

	case *ast.Image:
		image := c.convertInlineContainer(ciceromark.ClassImage, node)
		image.Destination = ciceromark.StringPtr(string(node.Destination))
		image.Title = string(node.Title)
		return []*ciceromark.Node{image}

	case *ast.AutoLink:
		url := string(node.URL(c.source))
		link := ciceromark.NewContainer(ciceromark.ClassLink)
		link.Destination = ciceromark.StringPtr(url)
		link.Append(ciceromark.NewText(string(node.Label(c.source))))
		return []*ciceromark.Node{link}

	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			segment := node.Segments.At(i)
			sb.Write(segment.Value(c.source))
		}
		raw := sb.String()
		if variable := variableFromTag(raw); variable != nil {
			return []*ciceromark.Node{variable}
		}
		return []*ciceromark.Node{{Class: ciceromark.ClassHTMLInline, Text: raw}}

	default:
		// For unknown inline types, try to recurse into children
		var nodes []*ciceromark.Node
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			nodes = appendInline(nodes, c.convertInlineNode(child)...)
		}
		return nodes
	}
}

// unescape resolves backslash escapes and character references in raw text.
func unescape(raw []byte) string {
	value := util.UnescapePunctuations(raw)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

// variableFromTag restores a variable leaf from its inline tag, or returns nil
// when raw is not a variable tag.
func variableFromTag(raw string) *ciceromark.Node {
	tag, ok := parseTag(raw)
	if !ok || !tag.SelfClosing {
		return nil
	}

	var class string
	switch tag.Name {
	case tagVariable:
		class = ciceromark.ClassVariable
	case tagConditional:
		class = ciceromark.ClassConditionalVariable
	case tagComputed:
		class = ciceromark.ClassComputedVariable
	default:
		return nil
	}

	node := &ciceromark.Node{Class: class}
	if value := tag.attr("value"); value != nil {
		node.Value = *value
	}
	node.ID = tag.attr("id")
	node.WhenTrue = tag.attr("whenTrue")
	node.WhenFalse = tag.attr("whenFalse")
	return node
}
