// Package render turns assistant markdown into terminal text.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Cursor is appended to the last assistant message while it is streaming.
const Cursor = " ▮"

const defaultWidth = 80

var (
	headingStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	strongStyle     = lipgloss.NewStyle().Bold(true)
	emphasisStyle   = lipgloss.NewStyle().Italic(true)
	strikeStyle     = lipgloss.NewStyle().Strikethrough(true)
	codeSpanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	linkStyle       = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
	codeHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	quoteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ruleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// CodeBlock is a fenced or indented code block found while rendering.
type CodeBlock struct {
	Lang string
	Code string
}

// Rendered is the terminal form of one markdown document.
type Rendered struct {
	Text       string
	CodeBlocks []CodeBlock
}

// LastCode returns the final code block of the document.
func (r Rendered) LastCode() (CodeBlock, bool) {
	if len(r.CodeBlocks) == 0 {
		return CodeBlock{}, false
	}
	return r.CodeBlocks[len(r.CodeBlocks)-1], true
}

type Renderer struct {
	// Width is the wrap column. Zero or less means 80.
	Width int

	md goldmark.Markdown
}

func New(width int) *Renderer {
	return &Renderer{
		Width: width,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render parses source as GitHub-flavored markdown. Incomplete markdown,
// such as an unclosed fence mid-stream, renders as far as it parses.
func (r *Renderer) Render(source string) Rendered {
	return r.RenderFrom(source, 1)
}

// RenderFrom is Render with code blocks numbered from first, so blocks of
// several documents shown together keep distinct labels.
func (r *Renderer) RenderFrom(source string, first int) Rendered {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	w := &walker{src: src, first: first}
	blocks := w.blocks(doc, r.width())
	return Rendered{
		Text:       strings.Join(blocks, "\n\n"),
		CodeBlocks: w.code,
	}
}

func (r *Renderer) width() int {
	if r.Width <= 0 {
		return defaultWidth
	}
	return r.Width
}

type walker struct {
	src   []byte
	first int
	code  []CodeBlock
}

func (w *walker) blocks(parent ast.Node, width int) []string {
	var out []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if s := w.block(n, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (w *walker) block(n ast.Node, width int) string {
	switch n := n.(type) {
	case *ast.Heading:
		title := strings.Repeat("#", n.Level) + " " + w.inline(n)
		return headingStyle.Render(wordwrap.String(title, width))
	case *ast.Paragraph, *ast.TextBlock:
		return wordwrap.String(w.inline(n), width)
	case *ast.List:
		return w.list(n, width)
	case *ast.FencedCodeBlock:
		return w.codeBlock(n, string(n.Language(w.src)))
	case *ast.CodeBlock:
		return w.codeBlock(n, "")
	case *ast.Blockquote:
		inner := strings.Join(w.blocks(n, max(width-2, 1)), "\n\n")
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = quoteStyle.Render("│ ") + line
		}
		return strings.Join(lines, "\n")
	case *ast.ThematicBreak:
		return ruleStyle.Render(strings.Repeat("─", min(width, 40)))
	case *east.Table:
		return w.table(n)
	case *ast.HTMLBlock:
		return strings.TrimRight(w.lines(n), "\n")
	default:
		return strings.Join(w.blocks(n, width), "\n\n")
	}
}

func (w *walker) list(l *ast.List, width int) string {
	sep := "\n"
	if !l.IsTight {
		sep = "\n\n"
	}
	num := l.Start
	if num == 0 {
		num = 1
	}

	var items []string
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		pad := lipgloss.Width(marker)

		body := strings.Join(w.blocks(item, max(width-pad, 1)), sep)
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			switch {
			case i == 0:
				lines[i] = marker + line
			case line != "":
				lines[i] = strings.Repeat(" ", pad) + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, sep)
}

// codeBlock records the block for copying and renders it under a "#n LANG" header.
func (w *walker) codeBlock(n ast.Node, lang string) string {
	code := strings.TrimRight(w.lines(n), "\n")
	w.code = append(w.code, CodeBlock{Lang: lang, Code: code})

	label := strings.ToUpper(lang)
	if label == "" {
		label = "TEXT"
	}
	header := codeHeaderStyle.Render(fmt.Sprintf("#%d %s", w.first+len(w.code)-1, label))
	return header + "\n" + Highlight(code, lang)
}

func (w *walker) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(w.src))
	}
	return buf.String()
}

func (w *walker) table(t *east.Table) string {
	var headers []string
	var rows [][]string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, w.inline(cell))
		}
		if _, ok := row.(*east.TableHeader); ok {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func (w *walker) inline(parent ast.Node) string {
	var sb strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(w.src))
			switch {
			case n.HardLineBreak():
				sb.WriteString("\n")
			case n.SoftLineBreak():
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.CodeSpan:
			sb.WriteString(codeSpanStyle.Render(w.inline(n)))
		case *ast.Emphasis:
			if n.Level >= 2 {
				sb.WriteString(strongStyle.Render(w.inline(n)))
			} else {
				sb.WriteString(emphasisStyle.Render(w.inline(n)))
			}
		case *east.Strikethrough:
			sb.WriteString(strikeStyle.Render(w.inline(n)))
		case *ast.Link:
			label := w.inline(n)
			dest := string(n.Destination)
			sb.WriteString(linkStyle.Render(label))
			if dest != "" && dest != label {
				sb.WriteString(" (" + dest + ")")
			}
		case *ast.AutoLink:
			sb.WriteString(linkStyle.Render(string(n.URL(w.src))))
		case *ast.Image:
			sb.WriteString("[image: " + w.inline(n) + "]")
		case *east.TaskCheckBox:
			if n.IsChecked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				sb.Write(seg.Value(w.src))
			}
		default:
			sb.WriteString(w.inline(n))
		}
	}
	return sb.String()
}
