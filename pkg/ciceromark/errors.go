package ciceromark

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/open-cli-collective/ciceromark-cli/pkg/slate"
)

// ErrUnrecognizedNode is matched by every UnrecognizedNodeError.
var ErrUnrecognizedNode = errors.New("unrecognized node")

// UnrecognizedNodeError reports a source node the converter cannot map, or a
// target that was asked to hold children but has no child holder. Either case
// means the input tree is malformed.
type UnrecognizedNodeError struct {
	// Path locates the node in the source tree, e.g. "nodes[0].nodes[2]".
	Path   string
	Node   *slate.Node
	Reason string
}

// MalformedNodeError is another name for UnrecognizedNodeError.
type MalformedNodeError = UnrecognizedNodeError

func (e *UnrecognizedNodeError) Error() string {
	msg := fmt.Sprintf("failed to process node at %s: %s", e.Path, e.Reason)
	if e.Node != nil {
		if raw, err := json.Marshal(e.Node); err == nil {
			msg += " " + string(raw)
		}
	}
	return msg
}

func (e *UnrecognizedNodeError) Unwrap() error {
	return ErrUnrecognizedNode
}
