package ciceromark

import (
	"github.com/open-cli-collective/ciceromark-cli/pkg/slate"
)

var variableClassByKind = map[slate.Kind]string{
	slate.KindVariable:    ClassVariable,
	slate.KindConditional: ClassConditionalVariable,
	slate.KindComputed:    ClassComputedVariable,
}

// convertVariable builds a variable leaf from an inline variable node. The
// display value is the text of the node's first child; the children are not
// converted and the source node is left untouched.
func convertVariable(node *slate.Node, kind slate.Kind, path string) (*Node, error) {
	if len(node.Nodes) == 0 || node.Nodes[0] == nil {
		return nil, &UnrecognizedNodeError{
			Path:   path,
			Node:   node,
			Reason: node.Type + " has no text child",
		}
	}

	result := &Node{
		Class: variableClassByKind[kind],
		Value: node.Nodes[0].PlainText(),
	}
	result.ID = dataString(node.Data, "id")
	result.WhenTrue = dataString(node.Data, "whenTrue")
	result.WhenFalse = dataString(node.Data, "whenFalse")
	return result, nil
}
