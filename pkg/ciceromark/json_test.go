package ciceromark

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_MarshalJSON_LeafAndContainer(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"empty text keeps text field", NewText(""), `{"$class":"org.accordproject.commonmark.Text","text":""}`},
		{"leaf has no nodes field", &Node{Class: ClassSoftbreak}, `{"$class":"org.accordproject.commonmark.Softbreak"}`},
		{"empty container has nodes", NewContainer(ClassParagraph), `{"$class":"org.accordproject.commonmark.Paragraph","nodes":[]}`},
		{"link title defaults to empty", &Node{Class: ClassLink, Destination: StringPtr("u"), Nodes: []*Node{}},
			`{"$class":"org.accordproject.commonmark.Link","destination":"u","title":"","nodes":[]}`},
		{"heading level", &Node{Class: ClassHeading, Level: "2", Nodes: []*Node{NewText("h")}},
			`{"$class":"org.accordproject.commonmark.Heading","level":"2","nodes":[{"$class":"org.accordproject.commonmark.Text","text":"h"}]}`},
		{"variable value always present", &Node{Class: ClassVariable},
			`{"$class":"org.accordproject.ciceromark.Variable","value":""}`},
		{"clause attributes", &Node{Class: ClassClause, ClauseID: StringPtr("1"), Src: StringPtr("s"), Nodes: []*Node{}},
			`{"$class":"org.accordproject.ciceromark.Clause","clauseid":"1","src":"s","nodes":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.node)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Append(
		&Node{Class: ClassHeading, Level: "1", Nodes: []*Node{NewText("Title")}},
		container(ClassParagraph,
			NewText("Pay "),
			&Node{Class: ClassVariable, Value: "100", ID: StringPtr("amount")},
			&Node{Class: ClassSoftbreak},
			container(ClassEmph, container(ClassStrong, NewText("now"))),
		),
		&Node{Class: ClassList, ListType: ListBullet, Tight: StringPtr("true"), Nodes: []*Node{
			container(ClassItem, container(ClassParagraph, NewCode("x"))),
		}},
		&Node{Class: ClassCodeBlock, Text: "", Info: StringPtr("<clause src=\"s\">")},
	)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, decoded); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		msg  string
	}{
		{"not json", `nope`, "failed to parse ciceromark document"},
		{"missing class", `{"nodes":[]}`, "missing $class"},
		{"wrong root", `{"$class":"org.accordproject.commonmark.Paragraph","nodes":[]}`, "root is org.accordproject.commonmark.Paragraph"},
		{"child missing class", `{"$class":"org.accordproject.commonmark.Document","nodes":[{"text":"x"}]}`, "missing $class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNode_Append(t *testing.T) {
	p := NewContainer(ClassParagraph)
	assert.True(t, p.Append(NewText("a")))
	assert.Len(t, p.Nodes, 1)

	leaf := NewText("b")
	assert.False(t, leaf.Append(NewText("c")))
	assert.Nil(t, leaf.Nodes)
}

func TestWalk_SkipChildren(t *testing.T) {
	doc := NewDocument()
	doc.Append(container(ClassBlockQuote, container(ClassParagraph, NewText("hidden"))), container(ClassParagraph, NewText("seen")))

	var classes []string
	Walk(doc, func(n *Node) bool {
		classes = append(classes, n.Class)
		return !n.Is(ClassBlockQuote)
	})
	assert.Equal(t, []string{ClassDocument, ClassBlockQuote, ClassParagraph, ClassText}, classes)
}
