package slate

// Kind is the closed set of node kinds the converters understand.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindParagraph
	KindHeadingOne
	KindHeadingTwo
	KindHeadingThree
	KindHeadingFour
	KindHeadingFive
	KindHeadingSix
	KindBlockQuote
	KindCodeBlock
	KindHTMLBlock
	KindHTMLInline
	KindSoftbreak
	KindLinebreak
	KindHorizontalRule
	KindOrderedList
	KindBulletList
	KindListItem
	KindLink
	KindImage
	KindClause
	KindVariable
	KindConditional
	KindComputed
)

// kindTypes maps each Kind to its Slate type tag.
var kindTypes = map[Kind]string{
	KindParagraph:      "paragraph",
	KindHeadingOne:     "heading_one",
	KindHeadingTwo:     "heading_two",
	KindHeadingThree:   "heading_three",
	KindHeadingFour:    "heading_four",
	KindHeadingFive:    "heading_five",
	KindHeadingSix:     "heading_six",
	KindBlockQuote:     "block_quote",
	KindCodeBlock:      "code_block",
	KindHTMLBlock:      "html_block",
	KindHTMLInline:     "html_inline",
	KindSoftbreak:      "softbreak",
	KindLinebreak:      "linebreak",
	KindHorizontalRule: "horizontal_rule",
	KindOrderedList:    "ol_list",
	KindBulletList:     "ul_list",
	KindListItem:       "list_item",
	KindLink:           "link",
	KindImage:          "image",
	KindClause:         "clause",
	KindVariable:       "variable",
	KindConditional:    "conditional",
	KindComputed:       "computed",
}

var kindsByType = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTypes))
	for k, t := range kindTypes {
		m[t] = k
	}
	return m
}()

// KindOf returns the Kind for a Slate type tag, or KindUnknown.
func KindOf(typ string) Kind {
	if k, ok := kindsByType[typ]; ok {
		return k
	}
	return KindUnknown
}

// Kind classifies the node. Text runs are classified by their object tag
// before their type is considered.
func (n *Node) Kind() Kind {
	if n.IsText() {
		return KindText
	}
	return KindOf(n.Type)
}

// String returns the Slate type tag of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return ObjectText
	case KindUnknown:
		return "unknown"
	}
	return kindTypes[k]
}

// HeadingLevel returns 1..6 for heading kinds and 0 otherwise.
func (k Kind) HeadingLevel() int {
	if k >= KindHeadingOne && k <= KindHeadingSix {
		return int(k-KindHeadingOne) + 1
	}
	return 0
}
