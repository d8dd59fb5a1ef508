package doctree

import (
	"fmt"
	"strings"

	"github.com/inkstream/inkstream/pkg/text"
)

// Render converts a document tree back to its textual form.
// Rendering a tree and reparsing the result yields an equivalent tree
// for every construct the parser supports.
func Render(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Type == TypeDoc {
		return renderBlocks(n.Content)
	}
	return renderBlocks([]*Node{n})
}

func renderBlocks(blocks []*Node) string {
	var rendered []string
	for _, block := range blocks {
		rendered = append(rendered, renderBlock(block))
	}
	return strings.Join(rendered, "\n\n")
}

func renderBlock(n *Node) string {
	switch n.Type {
	case TypeParagraph:
		return renderParagraph(n)
	case TypeHeading:
		return strings.Repeat("#", n.Level()) + " " + renderInline(n.Content)
	case TypeBulletList, TypeOrderedList, TypeTaskList:
		return renderList(n, 0)
	case TypeBlockquote:
		return renderBlockquote(n)
	case TypeCodeBlock:
		return renderCodeBlock(n)
	case TypeHorizontalRule:
		return "---"
	case TypeTable:
		return renderTable(n)
	default:
		return renderInline([]*Node{n})
	}
}

// renderParagraph renders the inline runs of a paragraph.
// A hard break becomes a backslash line continuation.
func renderParagraph(n *Node) string {
	var sb strings.Builder
	for _, run := range n.Content {
		if run.Type == TypeHardBreak {
			sb.WriteString("\\\n")
			continue
		}
		sb.WriteString(renderTextRun(run))
	}
	return sb.String()
}

// renderInline renders text runs on a single line.
// Hard breaks degrade to their raw marker to stay on one line.
func renderInline(runs []*Node) string {
	var sb strings.Builder
	for _, run := range runs {
		if run.Type == TypeHardBreak {
			sb.WriteString("<br>")
			continue
		}
		sb.WriteString(renderTextRun(run))
	}
	return sb.String()
}

func renderTextRun(n *Node) string {
	text := n.Text
	switch {
	case n.HasMark(MarkBold) && n.HasMark(MarkItalic):
		return "***" + text + "***"
	case n.HasMark(MarkBold):
		return "**" + text + "**"
	case n.HasMark(MarkItalic):
		return "*" + text + "*"
	case n.HasMark(MarkCode):
		return "`" + text + "`"
	case n.HasMark(MarkLink):
		return fmt.Sprintf("[%s](%s)", text, n.MarkHref())
	}
	return text
}

// renderList renders the items of a list, nested lists indenting
// two extra spaces per level. Ordered items are renumbered.
func renderList(n *Node, depth int) string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	for i, item := range n.Content {
		marker := listItemMarker(n.Type, i+1, item)
		for _, child := range item.Content {
			switch child.Type {
			case TypeBulletList, TypeOrderedList, TypeTaskList:
				lines = append(lines, renderList(child, depth+1))
			default:
				lines = append(lines, indent+marker+renderInline(child.Content))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func listItemMarker(listType NodeType, position int, item *Node) string {
	switch listType {
	case TypeOrderedList:
		return fmt.Sprintf("%d. ", position)
	case TypeTaskList:
		if item.Checked() {
			return "- [x] "
		}
		return "- [ ] "
	}
	return "- "
}

// renderBlockquote renders the inner blocks and prefixes every line with >.
func renderBlockquote(n *Node) string {
	return text.PrefixLines(renderBlocks(n.Content), "> ")
}

func renderCodeBlock(n *Node) string {
	var code string
	if len(n.Content) > 0 {
		code = n.Content[0].Text
	}
	var sb strings.Builder
	sb.WriteString("```")
	sb.WriteString(n.Language())
	sb.WriteRune('\n')
	if code != "" {
		sb.WriteString(code)
		sb.WriteRune('\n')
	}
	sb.WriteString("```")
	return sb.String()
}

// renderTable renders pipe-delimited rows with a separator after the
// header row when the first row holds header cells.
func renderTable(n *Node) string {
	var lines []string
	for i, row := range n.Content {
		var cells []string
		header := false
		for _, cell := range row.Content {
			if cell.Type == TypeTableHeader {
				header = true
			}
			cells = append(cells, renderTableCell(cell))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 && header {
			separators := make([]string, len(cells))
			for j := range separators {
				separators[j] = "---"
			}
			lines = append(lines, "| "+strings.Join(separators, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n")
}

// renderTableCell renders the blocks of a cell on a single line,
// separating blocks with the raw line-break marker the parser
// normalizes back to real line breaks.
func renderTableCell(cell *Node) string {
	var parts []string
	for _, block := range cell.Content {
		part := renderBlock(block)
		part = strings.ReplaceAll(part, "\n", "<br>")
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "<br>")
}
