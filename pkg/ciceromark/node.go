// Package ciceromark defines the CiceroMark document tree: a Commonmark AST
// extended with contract constructs (clauses and variables), and converts Slate
// editor documents into it.
package ciceromark

// Namespaces of the node classes.
const (
	NamespaceCommonMark = "org.accordproject.commonmark"
	NamespaceCiceroMark = "org.accordproject.ciceromark"

	// DocumentXMLNS is the namespace URI carried by every Document root.
	DocumentXMLNS = "http://commonmark.org/xml/1.0"
)

// Fully-qualified node classes.
const (
	ClassDocument      = NamespaceCommonMark + ".Document"
	ClassParagraph     = NamespaceCommonMark + ".Paragraph"
	ClassText          = NamespaceCommonMark + ".Text"
	ClassEmph          = NamespaceCommonMark + ".Emph"
	ClassStrong        = NamespaceCommonMark + ".Strong"
	ClassCode          = NamespaceCommonMark + ".Code"
	ClassSoftbreak     = NamespaceCommonMark + ".Softbreak"
	ClassLinebreak     = NamespaceCommonMark + ".Linebreak"
	ClassThematicBreak = NamespaceCommonMark + ".ThematicBreak"
	ClassHeading       = NamespaceCommonMark + ".Heading"
	ClassBlockQuote    = NamespaceCommonMark + ".BlockQuote"
	ClassCodeBlock     = NamespaceCommonMark + ".CodeBlock"
	ClassHTMLBlock     = NamespaceCommonMark + ".HtmlBlock"
	ClassHTMLInline    = NamespaceCommonMark + ".HtmlInline"
	ClassList          = NamespaceCommonMark + ".List"
	ClassItem          = NamespaceCommonMark + ".Item"
	ClassLink          = NamespaceCommonMark + ".Link"
	ClassImage         = NamespaceCommonMark + ".Image"

	ClassClause              = NamespaceCiceroMark + ".Clause"
	ClassVariable            = NamespaceCiceroMark + ".Variable"
	ClassConditionalVariable = NamespaceCiceroMark + ".ConditionalVariable"
	ClassComputedVariable    = NamespaceCiceroMark + ".ComputedVariable"
	ClassListVariable        = NamespaceCiceroMark + ".ListVariable"
)

// List types.
const (
	ListOrdered = "ordered"
	ListBullet  = "bullet"
)

// Node is a CiceroMark node. Container nodes have a non-nil Nodes slice, even
// when empty; leaf nodes have Nodes == nil and carry their content in scalar
// fields. Pointer fields are optional attributes: nil means absent.
type Node struct {
	Class string
	Nodes []*Node

	Xmlns string
	Text  string
	Level string
	Info  *string

	Destination *string
	Title       string

	ListType  string
	Delimiter *string
	Start     *string
	Tight     *string

	ClauseID *string
	Src      *string

	Value     string
	ID        *string
	WhenTrue  *string
	WhenFalse *string
}

// Document is the root of a CiceroMark tree.
type Document = Node

// NewDocument returns an empty Document root.
func NewDocument() *Document {
	return &Node{Class: ClassDocument, Xmlns: DocumentXMLNS, Nodes: []*Node{}}
}

// NewContainer returns an empty container node of the given class.
func NewContainer(class string) *Node {
	return &Node{Class: class, Nodes: []*Node{}}
}

// NewText returns a Text leaf.
func NewText(text string) *Node {
	return &Node{Class: ClassText, Text: text}
}

// NewCode returns an inline Code leaf.
func NewCode(text string) *Node {
	return &Node{Class: ClassCode, Text: text}
}

// IsContainer reports whether the node can hold children.
func (n *Node) IsContainer() bool {
	return n != nil && n.Nodes != nil
}

// Append adds children to a container node. It reports false, leaving the node
// unchanged, when the node is a leaf.
func (n *Node) Append(children ...*Node) bool {
	if !n.IsContainer() {
		return false
	}
	n.Nodes = append(n.Nodes, children...)
	return true
}

// Is reports whether the node has the given class.
func (n *Node) Is(class string) bool {
	return n != nil && n.Class == class
}

// IsInline reports whether the node belongs inside a paragraph rather than
// at block level.
func (n *Node) IsInline() bool {
	if n == nil {
		return false
	}
	switch n.Class {
	case ClassText, ClassCode, ClassEmph, ClassStrong, ClassLink, ClassImage,
		ClassHTMLInline, ClassSoftbreak, ClassLinebreak,
		ClassVariable, ClassConditionalVariable, ClassComputedVariable:
		return true
	}
	return false
}

// GroupInlines wraps each run of consecutive inline nodes in a Paragraph, so a
// container holding bare text, as a Slate list item converts to, can be walked
// as a sequence of blocks. Block nodes are returned as they are.
func GroupInlines(nodes []*Node) []*Node {
	grouped := make([]*Node, 0, len(nodes))
	var para *Node
	for _, node := range nodes {
		if !node.IsInline() {
			para = nil
			grouped = append(grouped, node)
			continue
		}
		if para == nil {
			para = NewContainer(ClassParagraph)
			grouped = append(grouped, para)
		}
		para.Nodes = append(para.Nodes, node)
	}
	return grouped
}

// Leaves returns the Text and Code leaves reachable from n, in document order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	Walk(n, func(node *Node) bool {
		if node.Is(ClassText) || node.Is(ClassCode) {
			leaves = append(leaves, node)
		}
		return true
	})
	return leaves
}

// Walk visits n and its descendants depth-first, pre-order. Returning false from
// fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Nodes {
		Walk(child, fn)
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
