// Package slate models the editor-native document tree produced by the Slate
// rich-text editor: text runs carrying marks, and typed block or inline nodes
// carrying children and a data bag.
package slate

import (
	"strings"
)

// ObjectText is the object tag of a text run.
const ObjectText = "text"

// Document is the root of a Slate value.
type Document struct {
	Nodes []*Node `json:"nodes"`
	Data  Data    `json:"data,omitempty"`
}

// Node is a single Slate node. A node with Object == "text" is a text run and
// uses Text and Marks; every other node is identified by Type and may carry
// Nodes and Data.
type Node struct {
	Object string  `json:"object,omitempty"`
	Type   string  `json:"type,omitempty"`
	Text   string  `json:"text,omitempty"`
	Marks  []Mark  `json:"marks,omitempty"`
	Nodes  []*Node `json:"nodes,omitempty"`
	Data   Data    `json:"data,omitempty"`
}

// Mark is a style annotation on a text run.
type Mark struct {
	Object string `json:"object,omitempty"`
	Type   string `json:"type"`
	Data   Data   `json:"data,omitempty"`
}

// Mark types understood by the converters. Other mark types are carried but ignored.
const (
	MarkBold   = "bold"
	MarkItalic = "italic"
	MarkCode   = "code"
)

// IsText reports whether the node is a text run.
func (n *Node) IsText() bool {
	return n != nil && n.Object == ObjectText
}

// HasMark reports whether the text run carries a mark of the given type.
func (n *Node) HasMark(markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// PlainText returns the concatenated literal text of the node and all of its
// descendants, in document order.
func (n *Node) PlainText() string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

func writeText(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	sb.WriteString(n.Text)
	for _, child := range n.Nodes {
		writeText(sb, child)
	}
}
