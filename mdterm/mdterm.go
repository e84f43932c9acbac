// Package mdterm renders Markdown replies as terminal text.
//
// Model replies routinely contain Markdown. The terminal chat shows them as
// styled plain text instead of raw markup:
//   - Headings and strong emphasis are bold
//   - Code blocks are indented by four spaces
//   - Links keep their URL in parentheses
//   - Tables become one "header: value" line per cell
package mdterm

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Styles decorates inline spans. A nil func leaves the span unchanged.
type Styles struct {
	Bold   func(string) string
	Italic func(string) string
	Code   func(string) string
	Strike func(string) string
	Quote  func(string) string
}

// Plain applies no decoration.
var Plain = Styles{}

// DefaultStyles uses lipgloss and degrades to plain text on terminals without color.
func DefaultStyles() Styles {
	bold := lipgloss.NewStyle().Bold(true)
	italic := lipgloss.NewStyle().Italic(true)
	code := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	strike := lipgloss.NewStyle().Strikethrough(true)
	quote := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return Styles{
		Bold:   func(s string) string { return bold.Render(s) },
		Italic: func(s string) string { return italic.Render(s) },
		Code:   func(s string) string { return code.Render(s) },
		Strike: func(s string) string { return strike.Render(s) },
		Quote:  func(s string) string { return quote.Render(s) },
	}
}

// Convert renders markdown with DefaultStyles.
func Convert(markdown string) string {
	return ConvertWith(markdown, DefaultStyles())
}

// ConvertWith renders markdown with the given styles.
func ConvertWith(markdown string, styles Styles) string {
	source := []byte(markdown)
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source, styles: styles}
	r.walkBlock(doc)
	return strings.TrimRight(r.buf.String(), "\n ")
}

type renderer struct {
	source    []byte
	styles    Styles
	buf       bytes.Buffer
	listDepth int
}

func apply(fn func(string) string, s string) string {
	if fn == nil || s == "" {
		return s
	}
	return fn(s)
}

// sub renders children of n into a fresh buffer sharing source and styles.
func (r *renderer) sub(fn func(*renderer)) string {
	s := &renderer{source: r.source, styles: r.styles, listDepth: r.listDepth}
	fn(s)
	return s.buf.String()
}

func (r *renderer) walkBlock(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c)
	}
}

func (r *renderer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Document:
		r.walkBlock(n)

	case *ast.Heading:
		title := r.sub(func(s *renderer) { s.inlines(n) })
		r.buf.WriteString(apply(r.styles.Bold, title))
		r.buf.WriteString("\n\n")

	case *ast.Paragraph:
		r.inlines(n)
		r.buf.WriteString("\n\n")

	case *ast.TextBlock:
		r.inlines(n)
		r.buf.WriteString("\n")

	case *ast.Blockquote:
		body := strings.TrimRight(r.sub(func(s *renderer) { s.walkBlock(n) }), "\n ")
		for _, line := range strings.Split(body, "\n") {
			r.buf.WriteString(apply(r.styles.Quote, "│ "+line))
			r.buf.WriteByte('\n')
		}
		r.buf.WriteByte('\n')

	case *ast.List:
		r.list(n)

	case *ast.ListItem:
		r.walkBlock(n)

	case *ast.FencedCodeBlock:
		r.codeLines(n)
		r.buf.WriteByte('\n')

	case *ast.CodeBlock:
		r.codeLines(n)
		r.buf.WriteByte('\n')

	case *ast.ThematicBreak:
		r.buf.WriteString(strings.Repeat("─", 10))
		r.buf.WriteString("\n\n")

	case *ast.HTMLBlock:
		r.rawLines(n)
		r.buf.WriteByte('\n')

	default:
		if t, ok := node.(*east.Table); ok {
			r.table(t)
			return
		}
		if node.HasChildren() {
			r.walkBlock(node)
		}
	}
}

func (r *renderer) codeLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(r.source)), "\n")
		r.buf.WriteString("    ")
		r.buf.WriteString(apply(r.styles.Code, line))
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) rawLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.buf.Write(seg.Value(r.source))
	}
}

func (r *renderer) inlines(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c)
	}
}

func (r *renderer) inline(node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		r.buf.Write(n.Text(r.source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			r.buf.WriteByte('\n')
		}

	case *ast.String:
		r.buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.sub(func(s *renderer) { s.inlines(n) })
		style := r.styles.Italic
		if n.Level == 2 {
			style = r.styles.Bold
		}
		r.buf.WriteString(apply(style, inner))

	case *ast.CodeSpan:
		r.buf.WriteString(apply(r.styles.Code, r.textContent(n)))

	case *ast.Link:
		label := r.sub(func(s *renderer) { s.inlines(n) })
		dest := string(n.Destination)
		r.buf.WriteString(label)
		if dest != "" && dest != label {
			fmt.Fprintf(&r.buf, " (%s)", dest)
		}

	case *ast.AutoLink:
		r.buf.Write(n.URL(r.source))

	case *ast.Image:
		alt := r.textContent(n)
		if alt == "" {
			alt = "image"
		}
		fmt.Fprintf(&r.buf, "[%s] (%s)", alt, n.Destination)

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			r.buf.Write(seg.Value(r.source))
		}

	default:
		switch v := node.(type) {
		case *east.Strikethrough:
			inner := r.sub(func(s *renderer) { s.inlines(v) })
			r.buf.WriteString(apply(r.styles.Strike, inner))
		case *east.TaskCheckBox:
			if v.IsChecked {
				r.buf.WriteString("[x] ")
			} else {
				r.buf.WriteString("[ ] ")
			}
		default:
			if node.HasChildren() {
				r.inlines(node)
			}
		}
	}
}

func (r *renderer) textContent(n ast.Node) string {
	var buf bytes.Buffer
	r.collectText(n, &buf)
	return buf.String()
}

func (r *renderer) collectText(node ast.Node, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Text(r.source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			r.collectText(c, buf)
		}
	}
}

func (r *renderer) list(n *ast.List) {
	idx := 0
	if n.Start > 0 {
		idx = n.Start - 1
	}
	indent := strings.Repeat("  ", r.listDepth)

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		if n.IsOrdered() {
			idx++
			fmt.Fprintf(&r.buf, "%s%d. ", indent, idx)
		} else {
			r.buf.WriteString(indent)
			r.buf.WriteString("• ")
		}
		r.listItem(item)
		r.buf.WriteByte('\n')
	}
	if r.listDepth == 0 {
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) listItem(item *ast.ListItem) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if !first {
				r.buf.WriteByte('\n')
				r.buf.WriteString(strings.Repeat("  ", r.listDepth+1))
			}
			r.inlines(n)
			first = false
		case *ast.List:
			r.buf.WriteByte('\n')
			r.listDepth++
			r.list(n)
			r.listDepth--
			// nested list already ended its last line
			r.buf.Truncate(len(bytes.TrimRight(r.buf.Bytes(), "\n")))
		default:
			r.block(c)
			first = false
		}
	}
}

func (r *renderer) table(t *east.Table) {
	var headers []string
	var rows [][]string

	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(r.textContent(cell)))
		}
		switch child.(type) {
		case *east.TableHeader:
			headers = cells
		case *east.TableRow:
			rows = append(rows, cells)
		}
	}

	for i, row := range rows {
		fmt.Fprintf(&r.buf, "%d.\n", i+1)
		for j, cell := range row {
			name := fmt.Sprintf("Column %d", j+1)
			if j < len(headers) && headers[j] != "" {
				name = headers[j]
			}
			fmt.Fprintf(&r.buf, "  %s: %s\n", apply(r.styles.Bold, name), cell)
		}
	}
	r.buf.WriteByte('\n')
}
