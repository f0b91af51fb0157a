package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/murmur"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// renderer walks a goldmark AST. In plain mode every style is the zero
// style, nothing is wrapped and link targets are omitted.
type renderer struct {
	plain bool
	width int

	bold      lipgloss.Style
	italic    lipgloss.Style
	code      lipgloss.Style
	heading   lipgloss.Style
	quote     lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newANSIRenderer(theme murmur.Theme, width int) *renderer {
	return &renderer{
		width:     width,
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		code:      lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		quote:     lipgloss.NewStyle().Foreground(ansiColor(theme.Assistant)),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func newPlainRenderer() *renderer {
	return &renderer{plain: true}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	var buf bytes.Buffer
	r.blocks(doc, source, r.width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

// style applies s unless rendering plain text.
func (r *renderer) style(s lipgloss.Style, v string) string {
	if r.plain {
		return v
	}
	return s.Render(v)
}

// wrap word-wraps v to width. Plain output is never wrapped.
func (r *renderer) wrap(v string, width int) string {
	if r.plain || width <= 0 {
		return v
	}
	return lipgloss.NewStyle().Width(width).Render(v)
}

func (r *renderer) blocks(parent ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n, source, width, buf)
		if n.NextSibling() != nil && n.Kind() != ast.KindHTMLBlock {
			buf.WriteString("\n")
		}
	}
}

func (r *renderer) block(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		buf.WriteString(r.wrap(r.inline(n, source), width))
		buf.WriteString("\n")

	case *ast.Heading:
		buf.WriteString(r.wrap(r.style(r.heading, r.inline(n, source)), width))
		buf.WriteString("\n")

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" && !r.plain {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteString("\n")
		}
		r.codeLines(n, source, buf)

	case *ast.CodeBlock:
		r.codeLines(n, source, buf)

	case *ast.Blockquote:
		var inner bytes.Buffer
		r.blocks(n, source, width-2, &inner)
		gutter := r.style(r.quote, "▎") + " "
		if r.plain {
			gutter = ""
		}
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(gutter + line + "\n")
		}

	case *ast.List:
		r.list(n, source, width, buf, 0)

	case *ast.ThematicBreak:
		if !r.plain {
			buf.WriteString(r.muted.Render(strings.Repeat("─", min(width, 40))))
			buf.WriteString("\n")
		}

	case *ast.HTMLBlock:
		// Raw HTML is not shown in a terminal.

	default:
		r.blocks(node, source, width, buf)
	}
}

func (r *renderer) codeLines(node ast.Node, source []byte, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	if r.plain {
		gutter = ""
	}
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.WriteString(gutter + strings.TrimRight(string(seg.Value(source)), "\n") + "\n")
	}
}

func (r *renderer) list(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		prefix := strings.Repeat("  ", depth) + marker

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				r.item(buf, prefix, content.String(), width)
				content.Reset()
				prefix = strings.Repeat(" ", len(prefix))
				r.list(sub, source, width, buf, depth+1)
				continue
			}
			if content.Len() > 0 {
				content.WriteString("\n")
			}
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				content.WriteString(r.inline(in, source))
			default:
				var inner bytes.Buffer
				r.block(ic, source, width-len(prefix), &inner)
				content.WriteString(strings.TrimRight(inner.String(), "\n"))
			}
		}
		r.item(buf, prefix, content.String(), width)
	}
}

// item writes one list item, indenting continuation lines under the text.
func (r *renderer) item(buf *bytes.Buffer, prefix, content string, width int) {
	if content == "" {
		return
	}
	itemWidth := max(width-len(prefix), 10)
	lines := strings.Split(r.wrap(content, itemWidth), "\n")
	pad := strings.Repeat(" ", len(prefix))
	for i, line := range lines {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
			continue
		}
		buf.WriteString(pad + line + "\n")
	}
}

// inline renders the inline children of node.
func (r *renderer) inline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inlineNode(c, source, &buf)
	}
	return buf.String()
}

func (r *renderer) inlineNode(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		s := r.italic
		if n.Level >= 2 {
			s = r.bold
		}
		buf.WriteString(r.style(s, r.inline(n, source)))

	case *ast.CodeSpan:
		buf.WriteString(r.style(r.code, r.inline(n, source)))

	case *ast.Link:
		label := r.inline(n, source)
		buf.WriteString(r.style(r.underline, label))
		if dest := string(n.Destination); !r.plain && dest != "" && dest != label {
			buf.WriteString(" " + r.muted.Render("("+dest+")"))
		}

	case *ast.AutoLink:
		buf.WriteString(r.style(r.underline, string(n.URL(source))))

	case *ast.Image:
		alt := r.inline(n, source)
		if r.plain {
			buf.WriteString(alt)
			return
		}
		buf.WriteString(r.muted.Render("[image: "+alt+"]") + " " + r.muted.Render("("+string(n.Destination)+")"))

	case *ast.RawHTML:
		// Inline tags are dropped; the text between them is kept.

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inlineNode(c, source, buf)
		}
	}
}
