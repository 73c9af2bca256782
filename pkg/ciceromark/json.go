package ciceromark

import (
	"encoding/json"
	"fmt"
)

// wireNode is the Concerto JSON shape of a node.
type wireNode struct {
	Class       string     `json:"$class"`
	Xmlns       string     `json:"xmlns,omitempty"`
	Text        *string    `json:"text,omitempty"`
	Level       string     `json:"level,omitempty"`
	Info        *string    `json:"info,omitempty"`
	Destination *string    `json:"destination,omitempty"`
	Title       *string    `json:"title,omitempty"`
	ClauseID    *string    `json:"clauseid,omitempty"`
	Src         *string    `json:"src,omitempty"`
	ListType    string     `json:"type,omitempty"`
	Delimiter   *string    `json:"delimiter,omitempty"`
	Start       *string    `json:"start,omitempty"`
	Tight       *string    `json:"tight,omitempty"`
	Value       *string    `json:"value,omitempty"`
	ID          *string    `json:"id,omitempty"`
	WhenTrue    *string    `json:"whenTrue,omitempty"`
	WhenFalse   *string    `json:"whenFalse,omitempty"`
	Nodes       *[]*Node   `json:"nodes,omitempty"`
}

// textClasses carry a text field even when it is empty.
var textClasses = map[string]bool{
	ClassText:       true,
	ClassCode:       true,
	ClassCodeBlock:  true,
	ClassHTMLBlock:  true,
	ClassHTMLInline: true,
}

// titledClasses carry a title field even when it is empty.
var titledClasses = map[string]bool{
	ClassLink:  true,
	ClassImage: true,
}

// variableClasses carry a value field even when it is empty.
var variableClasses = map[string]bool{
	ClassVariable:            true,
	ClassConditionalVariable: true,
	ClassComputedVariable:    true,
}

// MarshalJSON encodes the node in the Concerto JSON shape.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		Class:       n.Class,
		Xmlns:       n.Xmlns,
		Level:       n.Level,
		Info:        n.Info,
		Destination: n.Destination,
		ClauseID:    n.ClauseID,
		Src:         n.Src,
		ListType:    n.ListType,
		Delimiter:   n.Delimiter,
		Start:       n.Start,
		Tight:       n.Tight,
		ID:          n.ID,
		WhenTrue:    n.WhenTrue,
		WhenFalse:   n.WhenFalse,
	}
	if textClasses[n.Class] || n.Text != "" {
		text := n.Text
		w.Text = &text
	}
	if titledClasses[n.Class] || n.Title != "" {
		title := n.Title
		w.Title = &title
	}
	if variableClasses[n.Class] || n.Value != "" {
		value := n.Value
		w.Value = &value
	}
	if n.Nodes != nil {
		nodes := n.Nodes
		w.Nodes = &nodes
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a node from the Concerto JSON shape. A node without a
// nodes field decodes as a leaf.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Class == "" {
		return fmt.Errorf("ciceromark node is missing $class")
	}

	*n = Node{
		Class:       w.Class,
		Xmlns:       w.Xmlns,
		Level:       w.Level,
		Info:        w.Info,
		Destination: w.Destination,
		ClauseID:    w.ClauseID,
		Src:         w.Src,
		ListType:    w.ListType,
		Delimiter:   w.Delimiter,
		Start:       w.Start,
		Tight:       w.Tight,
		ID:          w.ID,
		WhenTrue:    w.WhenTrue,
		WhenFalse:   w.WhenFalse,
	}
	if w.Text != nil {
		n.Text = *w.Text
	}
	if w.Title != nil {
		n.Title = *w.Title
	}
	if w.Value != nil {
		n.Value = *w.Value
	}
	if w.Nodes != nil {
		n.Nodes = *w.Nodes
		if n.Nodes == nil {
			n.Nodes = []*Node{}
		}
	}
	return nil
}

// Decode parses a CiceroMark document from JSON and checks that its root is a
// Document.
func Decode(data []byte) (*Document, error) {
	var doc Node
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ciceromark document: %w", err)
	}
	if doc.Class != ClassDocument {
		return nil, fmt.Errorf("failed to parse ciceromark document: root is %s, not %s", doc.Class, ClassDocument)
	}
	if doc.Nodes == nil {
		doc.Nodes = []*Node{}
	}
	return &doc, nil
}
