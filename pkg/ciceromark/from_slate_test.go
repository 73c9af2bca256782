package ciceromark

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/ciceromark-cli/pkg/slate"
)

func decodeSlate(t *testing.T, raw string) *slate.Document {
	t.Helper()
	doc, err := slate.DecodeBytes([]byte(raw))
	require.NoError(t, err)
	return doc
}

func textRun(text string, marks ...string) *slate.Node {
	n := &slate.Node{Object: "text", Text: text}
	for _, m := range marks {
		n.Marks = append(n.Marks, slate.Mark{Object: "mark", Type: m})
	}
	return n
}

func block(typ string, children ...*slate.Node) *slate.Node {
	return &slate.Node{Object: "block", Type: typ, Nodes: children}
}

func container(class string, children ...*Node) *Node {
	return &Node{Class: class, Nodes: append([]*Node{}, children...)}
}

func TestFromSlate_HelloParagraph(t *testing.T) {
	doc := decodeSlate(t, `{"nodes":[{"type":"paragraph","nodes":[{"object":"text","text":"Hello","marks":[]}]}]}`)

	result, err := FromSlate(doc)
	require.NoError(t, err)

	want := &Node{
		Class: ClassDocument,
		Xmlns: DocumentXMLNS,
		Nodes: []*Node{container(ClassParagraph, NewText("Hello"))},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("FromSlate() mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"$class": "org.accordproject.commonmark.Document",
		"xmlns": "http://commonmark.org/xml/1.0",
		"nodes": [{
			"$class": "org.accordproject.commonmark.Paragraph",
			"nodes": [{"$class": "org.accordproject.commonmark.Text", "text": "Hello"}]
		}]
	}`, string(out))
}

func TestFromSlate_EmptyDocument(t *testing.T) {
	result, err := FromSlate(&slate.Document{})
	require.NoError(t, err)
	assert.Equal(t, ClassDocument, result.Class)
	assert.Equal(t, DocumentXMLNS, result.Xmlns)
	assert.NotNil(t, result.Nodes)
	assert.Empty(t, result.Nodes)

	result, err = FromSlate(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
}

func TestConvertText_Marks(t *testing.T) {
	tests := []struct {
		name  string
		marks []string
		want  *Node
	}{
		{"no marks", nil, NewText("t")},
		{"unknown mark ignored", []string{"underline"}, NewText("t")},
		{"bold", []string{"bold"}, container(ClassStrong, NewText("t"))},
		{"italic", []string{"italic"}, container(ClassEmph, NewText("t"))},
		{"bold and italic", []string{"bold", "italic"}, container(ClassEmph, container(ClassStrong, NewText("t")))},
		{"italic and bold order irrelevant", []string{"italic", "bold"}, container(ClassEmph, container(ClassStrong, NewText("t")))},
		{"duplicate marks", []string{"bold", "bold"}, container(ClassStrong, NewText("t"))},
		{"code", []string{"code"}, NewCode("t")},
		{"code wins over bold", []string{"bold", "code"}, NewCode("t")},
		{"code wins over italic", []string{"code", "italic"}, NewCode("t")},
		{"code wins over bold and italic", []string{"bold", "italic", "code"}, NewCode("t")},
	}

	c := NewConverter(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.convertText(textRun("t", tt.marks...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("convertText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertText_CodeNested(t *testing.T) {
	tests := []struct {
		name  string
		marks []string
		want  *Node
	}{
		{"code only", []string{"code"}, NewCode("t")},
		{"code and bold", []string{"code", "bold"}, container(ClassStrong, NewCode("t"))},
		{"code and italic", []string{"code", "italic"}, container(ClassEmph, NewCode("t"))},
		{"code bold italic", []string{"code", "bold", "italic"}, container(ClassEmph, container(ClassStrong, NewCode("t")))},
		{"bold only unaffected", []string{"bold"}, container(ClassStrong, NewText("t"))},
	}

	c := NewConverter(Options{CodeMarks: CodeNested})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.convertText(textRun("t", tt.marks...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("convertText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCodeMarkPolicy(t *testing.T) {
	p, err := ParseCodeMarkPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CodePrecedence, p)

	p, err = ParseCodeMarkPolicy("precedence")
	require.NoError(t, err)
	assert.Equal(t, CodePrecedence, p)

	p, err = ParseCodeMarkPolicy("nested")
	require.NoError(t, err)
	assert.Equal(t, CodeNested, p)

	_, err = ParseCodeMarkPolicy("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid code mark policy")
}

func TestFromSlate_BlockKinds(t *testing.T) {
	tests := []struct {
		name string
		node *slate.Node
		want *Node
	}{
		{"softbreak", block("softbreak"), &Node{Class: ClassSoftbreak}},
		{"linebreak", block("linebreak"), &Node{Class: ClassLinebreak}},
		{"horizontal rule", block("horizontal_rule"), &Node{Class: ClassThematicBreak}},
		{"block quote", block("block_quote", block("paragraph", textRun("q"))),
			container(ClassBlockQuote, container(ClassParagraph, NewText("q")))},
		{"code block concatenates text", block("code_block", textRun("a\n"), block("code_line", textRun("b"))),
			&Node{Class: ClassCodeBlock, Text: "a\nb"}},
		{"html block", block("html_block", textRun("<div>"), textRun("</div>")),
			&Node{Class: ClassHTMLBlock, Text: "<div></div>"}},
		{"html inline from content", &slate.Node{Type: "html_inline", Data: slate.Data{"content": "<br/>"}, Nodes: []*slate.Node{textRun("ignored")}},
			&Node{Class: ClassHTMLInline, Text: "<br/>"}},
		{"html inline without content", &slate.Node{Type: "html_inline", Nodes: []*slate.Node{textRun("<b>")}},
			&Node{Class: ClassHTMLInline, Text: "<b>"}},
		{"link", &slate.Node{Type: "link", Data: slate.Data{"href": "https://accordproject.org", "title": "Accord"}, Nodes: []*slate.Node{textRun("site")}},
			&Node{Class: ClassLink, Destination: StringPtr("https://accordproject.org"), Title: "Accord", Nodes: []*Node{NewText("site")}}},
		{"link without title", &slate.Node{Type: "link", Data: slate.Data{"href": "x"}},
			&Node{Class: ClassLink, Destination: StringPtr("x"), Nodes: []*Node{}}},
		{"link with false title", &slate.Node{Type: "link", Data: slate.Data{"href": "x", "title": false}},
			&Node{Class: ClassLink, Destination: StringPtr("x"), Nodes: []*Node{}}},
		{"image with zero title", &slate.Node{Type: "image", Data: slate.Data{"href": "a.png", "title": float64(0)}},
			&Node{Class: ClassImage, Destination: StringPtr("a.png"), Nodes: []*Node{}}},
		{"image with numeric title", &slate.Node{Type: "image", Data: slate.Data{"href": "a.png", "title": float64(7)}},
			&Node{Class: ClassImage, Destination: StringPtr("a.png"), Title: "7", Nodes: []*Node{}}},
		{"image", &slate.Node{Type: "image", Data: slate.Data{"href": "a.png"}},
			&Node{Class: ClassImage, Destination: StringPtr("a.png"), Nodes: []*Node{}}},
		{"clause", &slate.Node{Type: "clause", Data: slate.Data{"clauseid": "c1", "src": "ap://late@0.1"}, Nodes: []*slate.Node{block("paragraph", textRun("body"))}},
			&Node{Class: ClassClause, ClauseID: StringPtr("c1"), Src: StringPtr("ap://late@0.1"), Nodes: []*Node{container(ClassParagraph, NewText("body"))}}},
		{"clause without data", block("clause"), &Node{Class: ClassClause, Nodes: []*Node{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromSlate(&slate.Document{Nodes: []*slate.Node{tt.node}})
			require.NoError(t, err)
			require.Len(t, result.Nodes, 1)
			if diff := cmp.Diff(tt.want, result.Nodes[0]); diff != "" {
				t.Errorf("FromSlate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromSlate_Headings(t *testing.T) {
	types := []string{"heading_one", "heading_two", "heading_three", "heading_four", "heading_five", "heading_six"}
	for i, typ := range types {
		t.Run(typ, func(t *testing.T) {
			result, err := FromSlate(&slate.Document{Nodes: []*slate.Node{block(typ, textRun("Title"))}})
			require.NoError(t, err)
			require.Len(t, result.Nodes, 1)

			heading := result.Nodes[0]
			assert.Equal(t, ClassHeading, heading.Class)
			assert.Equal(t, string(rune('1'+i)), heading.Level)
			require.Len(t, heading.Nodes, 1)
			assert.Equal(t, "Title", heading.Nodes[0].Text)
		})
	}
}

func TestFromSlate_OrderedList(t *testing.T) {
	doc := decodeSlate(t, `{"nodes":[{"type":"ol_list","data":{},"nodes":[
		{"type":"list_item","nodes":[{"object":"text","text":"first","marks":[]}]}
	]}]}`)

	result, err := FromSlate(doc)
	require.NoError(t, err)

	want := []*Node{{
		Class:    ClassList,
		ListType: ListOrdered,
		Nodes:    []*Node{container(ClassItem, NewText("first"))},
	}}
	if diff := cmp.Diff(want, result.Nodes); diff != "" {
		t.Errorf("FromSlate() mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(result.Nodes[0])
	require.NoError(t, err)
	assert.NotContains(t, string(out), "delimiter")
	assert.NotContains(t, string(out), "start")
	assert.NotContains(t, string(out), "tight")
}

func TestFromSlate_ListAttributes(t *testing.T) {
	doc := decodeSlate(t, `{"nodes":[
		{"type":"ul_list","data":{"tight":"true","delimiter":"period","start":"1"},"nodes":[]},
		{"type":"ol_list","data":{"kind":"variable","tight":false,"start":3},"nodes":[]}
	]}`)

	result, err := FromSlate(doc)
	require.NoError(t, err)
	require.Len(t, result.Nodes, 2)

	bullet := result.Nodes[0]
	assert.Equal(t, ClassList, bullet.Class)
	assert.Equal(t, ListBullet, bullet.ListType)
	require.NotNil(t, bullet.Tight)
	assert.Equal(t, "true", *bullet.Tight)
	require.NotNil(t, bullet.Delimiter)
	assert.Equal(t, "period", *bullet.Delimiter)
	require.NotNil(t, bullet.Start)
	assert.Equal(t, "1", *bullet.Start)

	listVar := result.Nodes[1]
	assert.Equal(t, ClassListVariable, listVar.Class)
	assert.Equal(t, ListOrdered, listVar.ListType)
	assert.Equal(t, "false", *listVar.Tight)
	assert.Equal(t, "3", *listVar.Start)
	assert.Nil(t, listVar.Delimiter)
}

func leafTexts(n *Node) []string {
	var texts []string
	for _, leaf := range n.Leaves() {
		texts = append(texts, leaf.Text)
	}
	sort.Strings(texts)
	return texts
}

func slateLeafTexts(n *slate.Node) []string {
	var texts []string
	var walk func(*slate.Node)
	walk = func(node *slate.Node) {
		if node.IsText() {
			texts = append(texts, node.Text)
		}
		for _, child := range node.Nodes {
			walk(child)
		}
	}
	walk(n)
	sort.Strings(texts)
	return texts
}

func TestFromSlate_ListItemPreservesLeaves(t *testing.T) {
	items := []*slate.Node{
		block("list_item", textRun("one")),
		block("list_item",
			block("paragraph", textRun("two "), textRun("bold", "bold")),
			block("ul_list",
				block("list_item", block("paragraph", textRun("nested", "italic", "bold"))),
				block("list_item", textRun("code", "code")),
			),
		),
		block("list_item"),
	}

	for i, item := range items {
		result, err := FromSlate(&slate.Document{Nodes: []*slate.Node{block("ul_list", item)}})
		require.NoError(t, err, "item %d", i)
		require.Len(t, result.Nodes, 1)
		require.Len(t, result.Nodes[0].Nodes, 1)

		converted := result.Nodes[0].Nodes[0]
		assert.Equal(t, ClassItem, converted.Class)
		assert.Equal(t, slateLeafTexts(item), leafTexts(converted), "item %d", i)
	}
}

func TestFromSlate_Variables(t *testing.T) {
	doc := decodeSlate(t, `{"nodes":[{"type":"paragraph","nodes":[
		{"object":"text","text":"Pay ","marks":[]},
		{"object":"inline","type":"variable","data":{"id":"amount"},"nodes":[{"object":"text","text":"100","marks":[]}]},
		{"object":"inline","type":"conditional","data":{"id":"forceMajeure","whenTrue":"and force majeure","whenFalse":""},"nodes":[{"object":"text","text":"and force majeure","marks":[]}]},
		{"object":"inline","type":"computed","data":{},"nodes":[{"object":"text","text":"42","marks":[]}]}
	]}]}`)

	result, err := FromSlate(doc)
	require.NoError(t, err)
	require.Len(t, result.Nodes, 1)

	want := container(ClassParagraph,
		NewText("Pay "),
		&Node{Class: ClassVariable, Value: "100", ID: StringPtr("amount")},
		&Node{Class: ClassConditionalVariable, Value: "and force majeure", ID: StringPtr("forceMajeure"), WhenTrue: StringPtr("and force majeure"), WhenFalse: StringPtr("")},
		&Node{Class: ClassComputedVariable, Value: "42"},
	)
	if diff := cmp.Diff(want, result.Nodes[0]); diff != "" {
		t.Errorf("FromSlate() mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(result.Nodes[0].Nodes[3])
	require.NoError(t, err)
	assert.JSONEq(t, `{"$class":"org.accordproject.ciceromark.ComputedVariable","value":"42"}`, string(out))

	out, err = json.Marshal(result.Nodes[0].Nodes[2])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"whenFalse":""`)
}

func TestFromSlate_VariableDoesNotMutateSource(t *testing.T) {
	variable := &slate.Node{Object: "inline", Type: "variable", Data: slate.Data{"id": "x"}, Nodes: []*slate.Node{textRun("v")}}
	doc := &slate.Document{Nodes: []*slate.Node{block("paragraph", variable)}}

	_, err := FromSlate(doc)
	require.NoError(t, err)
	require.Len(t, variable.Nodes, 1)
	assert.Equal(t, "v", variable.Nodes[0].Text)

	// A second conversion of the same tree yields the same result.
	first, err := FromSlate(doc)
	require.NoError(t, err)
	second, err := FromSlate(doc)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestFromSlate_VariableWithoutChild(t *testing.T) {
	doc := &slate.Document{Nodes: []*slate.Node{block("paragraph", &slate.Node{Type: "computed"})}}

	_, err := FromSlate(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedNode))

	var nodeErr *UnrecognizedNodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "nodes[0].nodes[0]", nodeErr.Path)
	assert.Contains(t, nodeErr.Reason, "no text child")
}

func TestFromSlate_UnrecognizedType(t *testing.T) {
	doc := decodeSlate(t, `{"nodes":[{"type":"paragraph","nodes":[{"object":"text","text":"a","marks":[]}]},{"type":"footnote","nodes":[]}]}`)

	result, err := FromSlate(doc)
	require.Error(t, err)
	assert.Nil(t, result, "no partial tree on failure")
	assert.True(t, errors.Is(err, ErrUnrecognizedNode))

	var nodeErr *MalformedNodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "nodes[1]", nodeErr.Path)
	assert.Equal(t, "footnote", nodeErr.Node.Type)
	assert.Contains(t, err.Error(), `unrecognized node type "footnote"`)
	assert.Contains(t, err.Error(), `"type":"footnote"`)
}

func TestFromSlate_TextTypeOnTypePath(t *testing.T) {
	// type "text" without object "text" is not a text run.
	doc := &slate.Document{Nodes: []*slate.Node{{Object: "block", Type: "text", Text: "x"}}}
	_, err := FromSlate(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedNode))
}

func TestFromSlate_NullNode(t *testing.T) {
	doc := &slate.Document{Nodes: []*slate.Node{nil}}
	_, err := FromSlate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node is null")
}

func TestFromSlate_LeafIgnoresChildren(t *testing.T) {
	doc := &slate.Document{Nodes: []*slate.Node{block("paragraph", block("softbreak", textRun("")))}}
	result, err := FromSlate(doc)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(container(ClassParagraph, &Node{Class: ClassSoftbreak}), result.Nodes[0]))
}

func TestAttachTarget(t *testing.T) {
	empty := NewContainer(ClassItem)
	assert.Same(t, empty, attachTarget(empty))

	first := NewContainer(ClassParagraph)
	item := container(ClassItem, first, NewContainer(ClassParagraph))
	assert.Same(t, first, attachTarget(item))
}

func TestAppendChildren_AttachesToFirstChild(t *testing.T) {
	c := NewConverter(Options{})
	inner := NewContainer(ClassParagraph)
	item := container(ClassItem, inner)

	err := c.appendChildren(attachTarget(item), []*slate.Node{textRun("a"), textRun("b")}, "nodes", "item")
	require.NoError(t, err)
	require.Len(t, item.Nodes, 1)
	assert.Equal(t, []string{"a", "b"}, []string{inner.Nodes[0].Text, inner.Nodes[1].Text})
}

func TestAppendChildren_LeafParent(t *testing.T) {
	c := NewConverter(Options{})
	err := c.appendChildren(NewText("leaf"), []*slate.Node{textRun("a")}, "nodes", "nodes[3]")
	require.Error(t, err)

	var nodeErr *UnrecognizedNodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "nodes[3]", nodeErr.Path)
	assert.Contains(t, nodeErr.Reason, "cannot hold children")
}

func TestFromSlate_TextRunWithChildren(t *testing.T) {
	// A bold run wraps its Text leaf; children would attach to that leaf.
	run := textRun("x", "bold")
	run.Nodes = []*slate.Node{textRun("y")}

	_, err := FromSlate(&slate.Document{Nodes: []*slate.Node{block("paragraph", run)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecognizedNode))
}

func TestFromSlate_RemovesEmptyParagraphs(t *testing.T) {
	doc := &slate.Document{Nodes: []*slate.Node{
		block("paragraph", textRun("")),
		block("paragraph", textRun("keep")),
		block("paragraph", textRun(""), textRun("")),
		block("paragraph"),
		block("block_quote", block("paragraph", textRun(""))),
		block("paragraph", textRun("", "bold")),
		block("paragraph", textRun("")),
	}}

	result, err := FromSlate(doc)
	require.NoError(t, err)

	want := []*Node{
		container(ClassParagraph, NewText("keep")),
		container(ClassParagraph, NewText(""), NewText("")),
		container(ClassParagraph),
		container(ClassBlockQuote, container(ClassParagraph, NewText(""))),
		container(ClassParagraph, container(ClassStrong, NewText(""))),
	}
	if diff := cmp.Diff(want, result.Nodes); diff != "" {
		t.Errorf("FromSlate() mismatch (-want +got):\n%s", diff)
	}

	for _, n := range result.Nodes {
		assert.False(t, isEmptyParagraph(n))
	}
}

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func TestConverter_Logger(t *testing.T) {
	logger := &recordingLogger{}
	c := NewConverter(Options{Logger: logger})

	_, err := c.Convert(&slate.Document{Nodes: []*slate.Node{
		block("paragraph", textRun("")),
		block("paragraph", textRun("x", "code", "bold")),
	}})
	require.NoError(t, err)
	assert.Contains(t, logger.msgs, "dropping empty paragraph")
	assert.Contains(t, logger.msgs, "code mark overrides emphasis")
}

func TestConverter_ConcurrentUse(t *testing.T) {
	raw := `{"nodes":[{"type":"heading_two","nodes":[{"object":"text","text":"Terms","marks":[{"type":"bold"}]}]},
		{"type":"paragraph","nodes":[{"object":"inline","type":"variable","data":{"id":"v"},"nodes":[{"object":"text","text":"1"}]}]}]}`
	want, err := FromSlate(decodeSlate(t, raw))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Document, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, _ := slate.DecodeBytes([]byte(raw))
			results[i], _ = FromSlate(doc)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Empty(t, cmp.Diff(want, got))
	}
}

// stubSerializer stands in for the external markdown serializer: it emits the
// text leaves of each top-level block, one block per line.
func stubSerializer(doc *Document) string {
	var lines []string
	for _, child := range doc.Nodes {
		var sb strings.Builder
		for _, leaf := range child.Leaves() {
			sb.WriteString(leaf.Text)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func TestFromSlate_SerializerRoundTrip(t *testing.T) {
	doc := decodeSlate(t, `{"nodes":[{"type":"paragraph","nodes":[{"object":"text","text":"This is a contract.","marks":[]}]}]}`)
	result, err := FromSlate(doc)
	require.NoError(t, err)
	assert.Equal(t, "This is a contract.", stubSerializer(result))
}
