// Package markdown renders the restricted Markdown subset used by the
// editor's help system (headings, paragraphs, emphasis/strong, lists,
// inline code, links, block quotes) into styled lines a terminal
// display surface can paint directly, without reaching back into a
// generic rich-text widget. Constructs outside that subset degrade to
// their literal text rather than failing the render.
package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// LineKind classifies a rendered Line for the display surface's styling.
type LineKind int

const (
	Paragraph LineKind = iota
	Heading1
	Heading2
	Heading3
	Heading4
	Heading5
	Heading6
	ListItem
	BlockQuote
	CodeBlock
	ThematicBreak
)

// Span is a run of text sharing one set of inline styles.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// Line is one rendered row of the help document.
type Line struct {
	Kind   LineKind
	Indent int
	Marker string
	Spans  []Span
}

// PlainText concatenates a Line's spans, discarding style.
func (l Line) PlainText() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Document is a rendered help page: styled lines plus the links
// encountered, in a stable sorted order so repeated digit-key selection
// (spec §4.8, reserved) is deterministic across renders of the same
// source.
type Document struct {
	Lines []Line
	links []string
}

// LinkCount reports how many distinct link destinations were collected.
func (d Document) LinkCount() int { return len(d.links) }

// Link returns the nth (0-based) link destination in sorted order.
func (d Document) Link(n int) (string, bool) {
	if n < 0 || n >= len(d.links) {
		return "", false
	}
	return d.links[n], true
}

// LinksSnapshot returns a copy of the sorted link destinations, for
// callers (the workspace controller) that want to hold onto them
// alongside a rendered dialog rather than re-rendering to look one up.
func (d Document) LinksSnapshot() []string {
	out := make([]string, len(d.links))
	copy(out, d.links)
	return out
}

// Render parses source as Markdown and produces a styled Document.
func Render(source string) Document {
	src := []byte(source)
	md := goldmark.New()
	reader := gmtext.NewReader(src)
	root := md.Parser().Parse(reader)

	r := &renderer{src: src, links: map[string]struct{}{}}
	r.walkBlocks(root, 0)

	doc := Document{Lines: r.lines}
	for link := range r.links {
		doc.links = append(doc.links, link)
	}
	sort.Strings(doc.links)
	return doc
}

type renderer struct {
	src   []byte
	lines []Line
	links map[string]struct{}
}

func headingKind(level int) LineKind {
	switch level {
	case 1:
		return Heading1
	case 2:
		return Heading2
	case 3:
		return Heading3
	case 4:
		return Heading4
	case 5:
		return Heading5
	default:
		return Heading6
	}
}

type linedNode interface {
	Lines() *gmtext.Segments
}

func (r *renderer) walkBlocks(n ast.Node, indent int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.walkBlock(c, indent)
	}
}

func (r *renderer) walkBlock(n ast.Node, indent int) {
	switch v := n.(type) {
	case *ast.Heading:
		r.lines = append(r.lines, Line{Kind: headingKind(v.Level), Indent: indent, Spans: r.inlineSpans(n)})
	case *ast.Paragraph:
		r.lines = append(r.lines, Line{Kind: Paragraph, Indent: indent, Spans: r.inlineSpans(n)})
	case *ast.TextBlock:
		r.lines = append(r.lines, Line{Kind: Paragraph, Indent: indent, Spans: r.inlineSpans(n)})
	case *ast.List:
		idx := 1
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if v.IsOrdered() {
				marker = fmt.Sprintf("%d. ", idx)
			}
			r.walkListItem(item, indent, marker)
			idx++
		}
	case *ast.Blockquote:
		before := len(r.lines)
		r.walkBlocks(n, indent)
		for i := before; i < len(r.lines); i++ {
			r.lines[i].Kind = BlockQuote
			r.lines[i].Marker = "> " + r.lines[i].Marker
		}
	case *ast.CodeBlock:
		r.emitLiteralLines(n, indent, true)
	case *ast.FencedCodeBlock:
		r.emitLiteralLines(n, indent, true)
	case *ast.ThematicBreak:
		r.lines = append(r.lines, Line{Kind: ThematicBreak, Indent: indent})
	case *ast.HTMLBlock:
		// Unsupported construct: degrade to its raw text rather than
		// failing the render.
		r.emitLiteralLines(n, indent, false)
	default:
		// Unknown container: recurse so any text it wraps still
		// surfaces, rather than vanishing silently.
		r.walkBlocks(n, indent)
	}
}

func (r *renderer) walkListItem(item ast.Node, indent int, marker string) {
	before := len(r.lines)
	r.walkBlocks(item, indent+1)
	if len(r.lines) == before {
		r.lines = append(r.lines, Line{})
	}
	r.lines[before].Kind = ListItem
	r.lines[before].Indent = indent
	r.lines[before].Marker = marker
}

func (r *renderer) emitLiteralLines(n ast.Node, indent int, code bool) {
	lb, ok := n.(linedNode)
	if !ok {
		return
	}
	segs := lb.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		text := strings.TrimRight(string(seg.Value(r.src)), "\n")
		r.lines = append(r.lines, Line{Kind: CodeBlock, Indent: indent, Spans: []Span{{Text: text, Code: code}}})
	}
}

func (r *renderer) inlineSpans(n ast.Node) []Span {
	var spans []Span
	var walk func(node ast.Node, bold, italic, code bool)
	walk = func(node ast.Node, bold, italic, code bool) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.Text:
				spans = append(spans, Span{Text: string(v.Segment.Value(r.src)), Bold: bold, Italic: italic, Code: code})
			case *ast.CodeSpan:
				walk(v, bold, italic, true)
			case *ast.Emphasis:
				b, i := bold, italic
				if v.Level >= 2 {
					b = true
				} else {
					i = true
				}
				walk(v, b, i, code)
			case *ast.Link:
				if len(v.Destination) > 0 {
					r.links[string(v.Destination)] = struct{}{}
				}
				walk(v, bold, italic, code)
			case *ast.AutoLink:
				dest := string(v.URL(r.src))
				if dest != "" {
					r.links[dest] = struct{}{}
				}
				spans = append(spans, Span{Text: string(v.Label(r.src)), Bold: bold, Italic: italic, Code: code})
			default:
				walk(c, bold, italic, code)
			}
		}
	}
	walk(n, false, false, false)
	return spans
}
