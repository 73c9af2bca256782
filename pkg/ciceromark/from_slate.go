package ciceromark

import (
	"fmt"
	"strconv"

	"github.com/open-cli-collective/ciceromark-cli/pkg/slate"
)

// CodeMarkPolicy decides the shape of a text run that carries the code mark
// together with bold or italic.
type CodeMarkPolicy int

const (
	// CodePrecedence returns a bare Code leaf; bold and italic are dropped.
	CodePrecedence CodeMarkPolicy = iota
	// CodeNested keeps the Strong/Emph wrappers around the Code leaf.
	CodeNested
)

// ParseCodeMarkPolicy maps "precedence" and "nested" to a policy. The empty
// string selects CodePrecedence.
func ParseCodeMarkPolicy(s string) (CodeMarkPolicy, error) {
	switch s {
	case "", "precedence":
		return CodePrecedence, nil
	case "nested":
		return CodeNested, nil
	}
	return CodePrecedence, fmt.Errorf("invalid code mark policy %q (valid: precedence, nested)", s)
}

// Logger receives debug events from the converter.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Options configures a Converter.
type Options struct {
	CodeMarks CodeMarkPolicy
	Logger    Logger
}

// Converter turns Slate documents into CiceroMark documents. It holds no
// per-call state and is safe for concurrent use.
type Converter struct {
	codeMarks CodeMarkPolicy
	logger    Logger
}

// NewConverter creates a Converter.
func NewConverter(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Converter{codeMarks: opts.CodeMarks, logger: logger}
}

var defaultConverter = NewConverter(Options{})

// FromSlate converts a Slate document with the default options.
func FromSlate(doc *slate.Document) (*Document, error) {
	return defaultConverter.Convert(doc)
}

// Convert walks the Slate tree depth-first and builds the CiceroMark tree in
// lockstep, then drops empty paragraphs from the document's direct children.
// The source tree is not modified. On error no partial tree is returned.
func (c *Converter) Convert(doc *slate.Document) (*Document, error) {
	result := NewDocument()
	if doc != nil {
		if err := c.appendChildren(result, doc.Nodes, "nodes", "document"); err != nil {
			return nil, err
		}
	}
	return c.removeEmptyParagraphs(result), nil
}

// appendChildren converts nodes and appends them to parent. parentPath names
// parent in errors.
func (c *Converter) appendChildren(parent *Node, nodes []*slate.Node, path, parentPath string) error {
	for i, node := range nodes {
		nodePath := fmt.Sprintf("%s[%d]", path, i)

		result, err := c.convertNode(node, nodePath)
		if err != nil {
			return err
		}

		if len(node.Nodes) > 0 && result.IsContainer() {
			if err := c.appendChildren(attachTarget(result), node.Nodes, nodePath+".nodes", nodePath); err != nil {
				return err
			}
		}

		if !parent.Append(result) {
			return &UnrecognizedNodeError{
				Path:   parentPath,
				Reason: fmt.Sprintf("%s cannot hold children", parent.Class),
			}
		}
	}
	return nil
}

// attachTarget returns the node that receives a converted node's children:
// its first child when one is already present, otherwise the node itself.
func attachTarget(n *Node) *Node {
	if len(n.Nodes) > 0 {
		return n.Nodes[0]
	}
	return n
}

// convertNode maps one source node to one target node. Container targets are
// returned without children.
func (c *Converter) convertNode(node *slate.Node, path string) (*Node, error) {
	if node == nil {
		return nil, &UnrecognizedNodeError{Path: path, Reason: "node is null"}
	}
	if node.IsText() {
		return c.convertText(node), nil
	}

	kind := node.Kind()
	switch kind {
	case slate.KindClause:
		clause := NewContainer(ClassClause)
		clause.ClauseID = dataString(node.Data, "clauseid")
		clause.Src = dataString(node.Data, "src")
		return clause, nil

	case slate.KindVariable, slate.KindConditional, slate.KindComputed:
		return convertVariable(node, kind, path)

	case slate.KindParagraph:
		return NewContainer(ClassParagraph), nil

	case slate.KindSoftbreak:
		return &Node{Class: ClassSoftbreak}, nil

	case slate.KindLinebreak:
		return &Node{Class: ClassLinebreak}, nil

	case slate.KindHorizontalRule:
		return &Node{Class: ClassThematicBreak}, nil

	case slate.KindHeadingOne, slate.KindHeadingTwo, slate.KindHeadingThree,
		slate.KindHeadingFour, slate.KindHeadingFive, slate.KindHeadingSix:
		heading := NewContainer(ClassHeading)
		heading.Level = strconv.Itoa(kind.HeadingLevel())
		return heading, nil

	case slate.KindBlockQuote:
		return NewContainer(ClassBlockQuote), nil

	case slate.KindCodeBlock:
		return &Node{Class: ClassCodeBlock, Text: node.PlainText()}, nil

	case slate.KindHTMLBlock:
		return &Node{Class: ClassHTMLBlock, Text: node.PlainText()}, nil

	case slate.KindHTMLInline:
		content, ok := node.Data.String("content")
		if !ok {
			content = node.PlainText()
		}
		return &Node{Class: ClassHTMLInline, Text: content}, nil

	case slate.KindOrderedList, slate.KindBulletList:
		return convertList(node, kind), nil

	case slate.KindListItem:
		return NewContainer(ClassItem), nil

	case slate.KindLink, slate.KindImage:
		class := ClassLink
		if kind == slate.KindImage {
			class = ClassImage
		}
		result := NewContainer(class)
		result.Destination = dataString(node.Data, "href")
		if node.Data.Truthy("title") {
			result.Title, _ = node.Data.String("title")
		}
		return result, nil
	}

	return nil, &UnrecognizedNodeError{
		Path:   path,
		Node:   node,
		Reason: fmt.Sprintf("unrecognized node type %q", node.Type),
	}
}

func convertList(node *slate.Node, kind slate.Kind) *Node {
	class := ClassList
	if listKind, _ := node.Data.String("kind"); listKind == "variable" {
		class = ClassListVariable
	}

	list := NewContainer(class)
	list.ListType = ListBullet
	if kind == slate.KindOrderedList {
		list.ListType = ListOrdered
	}
	list.Delimiter = dataString(node.Data, "delimiter")
	list.Start = dataString(node.Data, "start")
	list.Tight = dataString(node.Data, "tight")
	return list
}

// dataString returns the stringified value for key, or nil when key is absent.
func dataString(data slate.Data, key string) *string {
	if v, ok := data.String(key); ok {
		return &v
	}
	return nil
}

// removeEmptyParagraphs drops direct document children that are a paragraph
// holding exactly one empty text leaf. Nested paragraphs are left alone.
func (c *Converter) removeEmptyParagraphs(doc *Document) *Document {
	kept := make([]*Node, 0, len(doc.Nodes))
	for i, node := range doc.Nodes {
		if isEmptyParagraph(node) {
			c.logger.Debug("dropping empty paragraph", "index", i)
			continue
		}
		kept = append(kept, node)
	}
	doc.Nodes = kept
	return doc
}

func isEmptyParagraph(n *Node) bool {
	return n.Is(ClassParagraph) &&
		len(n.Nodes) == 1 &&
		n.Nodes[0].Is(ClassText) &&
		n.Nodes[0].Text == ""
}
