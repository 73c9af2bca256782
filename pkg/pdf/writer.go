package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/md"
)

const (
	fontBody = "Helvetica"
	fontCode = "Courier"

	listIndent  = 6.0
	quoteIndent = 6.0
)

var headingScale = map[int]float64{1: 1.8, 2: 1.5, 3: 1.3, 4: 1.15, 5: 1.05, 6: 1.0}

// Render lays out a CiceroMark document and writes the PDF to w.
func Render(doc *ciceromark.Document, w io.Writer, cfg Config) error {
	if doc == nil || !doc.Is(ciceromark.ClassDocument) {
		return fmt.Errorf("failed to render pdf: input is not a ciceromark document")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()

	p := fpdf.New("P", "mm", cfg.PageSize, "")
	p.SetCreator("cmk", true)
	if cfg.Title != "" {
		p.SetTitle(cfg.Title, true)
	}
	p.SetAutoPageBreak(true, 15)
	p.AddPage()

	left, _, _, _ := p.GetMargins()
	r := &renderer{
		pdf:  p,
		tr:   p.UnicodeTranslatorFromDescriptor(""),
		size: cfg.FontSize,
		left: left,
	}
	r.applyFont()

	if err := r.blocks(doc.Nodes); err != nil {
		return err
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// renderer tracks the inline style and indentation while walking the tree.
type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string

	size   float64
	scale  float64
	bold   bool
	italic bool
	code   bool

	left   float64
	indent float64
	tight  bool
}

func (r *renderer) fontSize() float64 {
	if r.scale == 0 {
		return r.size
	}
	return r.size * r.scale
}

func (r *renderer) lineHeight() float64 {
	return r.fontSize() * 0.5
}

func (r *renderer) applyFont() {
	family := fontBody
	if r.code {
		family = fontCode
	}
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(family, style, r.fontSize())
}

func (r *renderer) setIndent(indent float64) {
	r.indent = indent
	r.pdf.SetLeftMargin(r.left + indent)
	r.pdf.SetX(r.left + indent)
}

// gap ends a block, adding paragraph spacing outside tight lists.
func (r *renderer) gap() {
	r.pdf.Ln(r.lineHeight())
	if !r.tight {
		r.pdf.Ln(r.lineHeight() * 0.5)
	}
}

func (r *renderer) blocks(nodes []*ciceromark.Node) error {
	for _, node := range ciceromark.GroupInlines(nodes) {
		if err := r.block(node); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) block(n *ciceromark.Node) error {
	switch n.Class {
	case ciceromark.ClassParagraph:
		if err := r.inlines(n.Nodes); err != nil {
			return err
		}
		r.gap()

	case ciceromark.ClassHeading:
		level, err := strconv.Atoi(n.Level)
		if err != nil || headingScale[level] == 0 {
			return fmt.Errorf("failed to render heading: invalid level %q", n.Level)
		}
		r.scale, r.bold = headingScale[level], true
		r.applyFont()
		err = r.inlines(n.Nodes)
		r.pdf.Ln(r.lineHeight())
		r.scale, r.bold = 0, false
		r.applyFont()
		if err != nil {
			return err
		}
		r.pdf.Ln(r.lineHeight() * 0.5)

	case ciceromark.ClassClause:
		return r.blocks(n.Nodes)

	case ciceromark.ClassBlockQuote:
		outer := r.indent
		r.setIndent(outer + quoteIndent)
		r.italic = true
		r.applyFont()
		err := r.blocks(n.Nodes)
		r.italic = false
		r.applyFont()
		r.setIndent(outer)
		return err

	case ciceromark.ClassList, ciceromark.ClassListVariable:
		return r.list(n)

	case ciceromark.ClassCodeBlock, ciceromark.ClassHTMLBlock:
		r.code = true
		r.applyFont()
		r.pdf.SetFillColor(242, 242, 242)
		text := strings.TrimRight(n.Text, "\n")
		r.pdf.MultiCell(0, r.lineHeight(), r.tr(text), "", "L", n.Is(ciceromark.ClassCodeBlock))
		r.code = false
		r.applyFont()
		r.pdf.Ln(r.lineHeight() * 0.5)

	case ciceromark.ClassThematicBreak:
		pageWidth, _ := r.pdf.GetPageSize()
		_, _, right, _ := r.pdf.GetMargins()
		y := r.pdf.GetY() + r.lineHeight()*0.5
		r.pdf.Line(r.left+r.indent, y, pageWidth-right, y)
		r.pdf.Ln(r.lineHeight())

	default:
		return fmt.Errorf("failed to render pdf: %s cannot appear at block level", n.Class)
	}
	return nil
}

func (r *renderer) list(n *ciceromark.Node) error {
	start := 1
	if n.Start != nil {
		if parsed, err := strconv.Atoi(*n.Start); err == nil {
			start = parsed
		}
	}
	delimiter := "."
	if n.Delimiter != nil && *n.Delimiter == md.DelimiterParen {
		delimiter = ")"
	}

	outer, outerTight := r.indent, r.tight
	r.tight = n.Tight != nil && *n.Tight == "true"
	defer func() {
		r.setIndent(outer)
		r.tight = outerTight
	}()

	for i, item := range n.Nodes {
		marker := r.tr("•")
		if n.ListType == ciceromark.ListOrdered {
			marker = strconv.Itoa(start+i) + delimiter
		}

		r.setIndent(outer)
		r.pdf.Write(r.lineHeight(), marker)
		r.setIndent(outer + listIndent)

		if len(item.Nodes) == 0 {
			r.gap()
			continue
		}
		if err := r.blocks(item.Nodes); err != nil {
			return err
		}
	}
	if r.tight && !outerTight {
		r.pdf.Ln(r.lineHeight() * 0.5)
	}
	return nil
}

func (r *renderer) inlines(nodes []*ciceromark.Node) error {
	for _, node := range nodes {
		if err := r.inline(node); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) inline(n *ciceromark.Node) error {
	h := r.lineHeight()

	switch n.Class {
	case ciceromark.ClassText:
		r.pdf.Write(h, r.tr(n.Text))

	case ciceromark.ClassCode:
		r.code = true
		r.applyFont()
		r.pdf.Write(h, r.tr(n.Text))
		r.code = false
		r.applyFont()

	case ciceromark.ClassEmph, ciceromark.ClassStrong:
		bold, italic := r.bold, r.italic
		if n.Is(ciceromark.ClassStrong) {
			r.bold = true
		} else {
			r.italic = true
		}
		r.applyFont()
		err := r.inlines(n.Nodes)
		r.bold, r.italic = bold, italic
		r.applyFont()
		return err

	case ciceromark.ClassSoftbreak:
		r.pdf.Write(h, " ")

	case ciceromark.ClassLinebreak:
		r.pdf.Ln(h)

	case ciceromark.ClassLink:
		var label strings.Builder
		for _, leaf := range n.Leaves() {
			label.WriteString(leaf.Text)
		}
		destination := ""
		if n.Destination != nil {
			destination = *n.Destination
		}
		r.pdf.SetTextColor(0, 0, 180)
		r.pdf.WriteLinkString(h, r.tr(label.String()), destination)
		r.pdf.SetTextColor(0, 0, 0)

	case ciceromark.ClassImage:
		var alt strings.Builder
		for _, leaf := range n.Leaves() {
			alt.WriteString(leaf.Text)
		}
		r.pdf.Write(h, r.tr("["+alt.String()+"]"))

	case ciceromark.ClassHTMLInline:
		r.pdf.Write(h, r.tr(n.Text))

	case ciceromark.ClassVariable, ciceromark.ClassConditionalVariable, ciceromark.ClassComputedVariable:
		r.pdf.Write(h, r.tr(n.Value))

	default:
		return fmt.Errorf("failed to render pdf: %s cannot appear inline", n.Class)
	}
	return nil
}
