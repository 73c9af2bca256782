package ciceromark

import (
	"github.com/open-cli-collective/ciceromark-cli/pkg/slate"
)

// convertText folds a text run's marks into nested wrappers. Without the code
// mark, bold and italic nest as Emph > Strong > Text. With the code mark the
// result depends on the converter's CodeMarkPolicy.
func (c *Converter) convertText(node *slate.Node) *Node {
	isBold := node.HasMark(slate.MarkBold)
	isItalic := node.HasMark(slate.MarkItalic)
	isCode := node.HasMark(slate.MarkCode)

	inner := NewText(node.Text)
	if isCode && c.codeMarks == CodeNested {
		inner = NewCode(node.Text)
	}
	styled := wrapEmphasis(inner, isBold, isItalic)

	if isCode && c.codeMarks == CodePrecedence {
		if styled != inner {
			c.logger.Debug("code mark overrides emphasis", "text", node.Text, "bold", isBold, "italic", isItalic)
		}
		return NewCode(node.Text)
	}
	return styled
}

// wrapEmphasis wraps leaf in Strong when bold, then in Emph when italic. Each
// wrapper owns exactly one child.
func wrapEmphasis(leaf *Node, bold, italic bool) *Node {
	result := leaf
	if bold {
		result = &Node{Class: ClassStrong, Nodes: []*Node{result}}
	}
	if italic {
		result = &Node{Class: ClassEmph, Nodes: []*Node{result}}
	}
	return result
}
