package doctree

import (
	"regexp"
	"strings"

	"github.com/inkstream/inkstream/pkg/text"
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	reTaskItem    = regexp.MustCompile(`^(\s*)[-*+] \[([ xX])\] (.*)$`)
	reBulletItem  = regexp.MustCompile(`^(\s*)[-*+] (.*)$`)
	reOrderedItem = regexp.MustCompile(`^(\s*)\d+[.)] (.*)$`)
	reSeparator   = regexp.MustCompile(`^:?-+:?$`)
	reCellBreak   = regexp.MustCompile(`<br\s*/?>`)
)

// Parse converts a markdown-flavored text into a document tree.
// Parsing never fails: every input, however malformed, yields some tree.
// An input without a single block yields one empty paragraph.
func Parse(input string) *Node {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	p := &parser{lines: text.NewLineIteratorFromText(input)}
	blocks := p.parseBlocks()
	if len(blocks) == 0 {
		blocks = []*Node{Paragraph()}
	}
	return Doc(blocks...)
}

// parser iterates over the lines of one block of text.
// Recursive constructs (quotes, nested lists, table cells) reparse their
// inner text with a fresh parser owning its own iterator.
type parser struct {
	lines *text.LineIterator
}

func (p *parser) eof() bool {
	return !p.lines.HasNext()
}

func (p *parser) current() string {
	return p.lines.Peek().Text
}

func (p *parser) advance() {
	p.lines.Next()
}

// nextNonBlank looks ahead for the next non-blank line without moving the iterator.
func (p *parser) nextNonBlank() string {
	return p.lines.PeekNonBlank().Text
}

func (p *parser) skipBlankLines() {
	p.lines.SkipBlankLines()
}

// parseBlocks tries the block recognizers in fixed priority order:
// heading, fenced code block, horizontal rule, block quote, list item,
// pipe table, and finally paragraph.
func (p *parser) parseBlocks() []*Node {
	var blocks []*Node
	for !p.eof() {
		line := p.current()
		switch {
		case text.IsBlank(line):
			p.advance()
		case isHeading(line):
			blocks = append(blocks, p.parseHeading())
		case isFence(line):
			blocks = append(blocks, p.parseCodeBlock())
		case isRule(line):
			blocks = append(blocks, p.parseHorizontalRule())
		case isQuote(line):
			blocks = append(blocks, p.parseBlockquote())
		case isListItem(line):
			blocks = append(blocks, p.parseList())
		case isTableLine(line):
			blocks = append(blocks, p.parseTable())
		default:
			blocks = append(blocks, p.parseParagraph())
		}
	}
	return blocks
}

/* Recognizers */

func isHeading(line string) bool {
	return reHeading.MatchString(line)
}

func isFence(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// isRule detects 3+ repetitions of the same rule character occupying the
// entire line after trimming trailing whitespace.
func isRule(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < 3 {
		return false
	}
	for _, c := range []string{"-", "_", "*"} {
		if strings.HasPrefix(trimmed, c) && strings.Trim(trimmed, c) == "" {
			return true
		}
	}
	return false
}

func isQuote(line string) bool {
	return strings.HasPrefix(line, ">")
}

func isListItem(line string) bool {
	return reTaskItem.MatchString(line) ||
		reBulletItem.MatchString(line) ||
		reOrderedItem.MatchString(line)
}

func isTableLine(line string) bool {
	return strings.Contains(line, "|")
}

// isBlockStart returns if a line interrupts a paragraph.
func isBlockStart(line string) bool {
	return isHeading(line) || isFence(line) || isRule(line) ||
		isQuote(line) || isListItem(line) || isTableLine(line)
}

/* Block parsers */

func (p *parser) parseHeading() *Node {
	m := reHeading.FindStringSubmatch(p.current())
	p.advance()
	level := len(m[1])
	title := strings.TrimSpace(m[2])
	return Heading(level, ParseInline(title)...)
}

func (p *parser) parseCodeBlock() *Node {
	opening := strings.TrimRight(p.current(), " \t")
	marker := opening[:3]
	language := ""
	if fields := strings.Fields(opening[3:]); len(fields) > 0 {
		language = fields[0]
	}
	p.advance()

	var lines []string
	for !p.eof() {
		line := p.current()
		if strings.TrimSpace(line) == marker {
			// Closing fence
			p.advance()
			break
		}
		lines = append(lines, line)
		p.advance()
	}
	// An unterminated fence captures everything to the end of the input
	return CodeBlock(language, strings.Join(lines, "\n"))
}

func (p *parser) parseHorizontalRule() *Node {
	p.advance()
	return HorizontalRule()
}

// parseBlockquote strips one leading > and one optional space per line,
// then reparses the dequoted body as a fresh block. Quotes can therefore
// contain lists, headings, or nested quotes.
func (p *parser) parseBlockquote() *Node {
	var dequoted []string
	for !p.eof() && isQuote(p.current()) {
		line := strings.TrimPrefix(p.current(), ">")
		line = strings.TrimPrefix(line, " ")
		dequoted = append(dequoted, line)
		p.advance()
	}
	inner := Parse(strings.Join(dequoted, "\n"))
	return Blockquote(inner.Content...)
}

// listMarker describes the marker opening a list item line.
type listMarker struct {
	indent  int
	kind    NodeType
	checked bool
	content string
}

func parseListMarker(line string) (listMarker, bool) {
	if m := reTaskItem.FindStringSubmatch(line); m != nil {
		return listMarker{
			indent:  text.Indentation(line),
			kind:    TypeTaskList,
			checked: strings.EqualFold(m[2], "x"),
			content: m[3],
		}, true
	}
	if m := reBulletItem.FindStringSubmatch(line); m != nil {
		return listMarker{
			indent:  text.Indentation(line),
			kind:    TypeBulletList,
			content: m[2],
		}, true
	}
	if m := reOrderedItem.FindStringSubmatch(line); m != nil {
		return listMarker{
			indent:  text.Indentation(line),
			kind:    TypeOrderedList,
			content: m[2],
		}, true
	}
	return listMarker{}, false
}

// parseList groups consecutive items of matching indentation into a single
// list node. The list kind is fixed by the first item. Deeper-indented items
// are parsed as a nested list attached to the previous item. Blank lines do
// not terminate the list when the next non-blank line continues it with the
// same kind at the same or deeper indentation, a tolerance for generated
// text inserting blank separators between items.
func (p *parser) parseList() *Node {
	first, _ := parseListMarker(p.current())
	baseIndent := first.indent
	kind := first.kind
	list := &Node{Type: kind}

	for !p.eof() {
		line := p.current()

		if text.IsBlank(line) {
			m, ok := parseListMarker(p.nextNonBlank())
			if ok && m.kind == kind && m.indent >= baseIndent {
				p.skipBlankLines()
				continue
			}
			break
		}

		m, ok := parseListMarker(line)
		if !ok || m.indent < baseIndent {
			break
		}

		if m.indent > baseIndent {
			// The first item fixed baseIndent, so a previous item exists
			nested := p.parseList()
			previous := list.Content[len(list.Content)-1]
			previous.Content = append(previous.Content, nested)
			continue
		}

		if m.kind != kind {
			// A different marker type at the same indentation starts a new list
			break
		}

		list.Content = append(list.Content, newListItem(kind, m))
		p.advance()
	}

	return list
}

func newListItem(kind NodeType, m listMarker) *Node {
	paragraph := Paragraph(ParseInline(strings.TrimSpace(m.content))...)
	if kind == TypeTaskList {
		return TaskItem(m.checked, paragraph)
	}
	return ListItem(paragraph)
}

// parseTable reads the first pipe row as data. When the next line is a
// separator row (cells of dashes and colons only), the first row is
// reclassified as a header and the separator is consumed without becoming
// a node. Every cell's content is recursively parsed.
func (p *parser) parseTable() *Node {
	firstCells := splitTableRow(p.current())
	p.advance()

	header := false
	if !p.eof() && isSeparatorRow(p.current()) {
		header = true
		p.advance()
	}

	table := Table(newTableRow(firstCells, header))
	for !p.eof() {
		line := p.current()
		if text.IsBlank(line) || !isTableLine(line) {
			break
		}
		table.Content = append(table.Content, newTableRow(splitTableRow(line), false))
		p.advance()
	}
	return table
}

// splitTableRow splits a pipe row on unescaped pipes and drops the outer
// empty edges produced by leading/trailing pipes.
func splitTableRow(line string) []string {
	var cells []string
	var current strings.Builder
	escaped := false
	for _, r := range strings.TrimSpace(line) {
		switch {
		case escaped:
			if r != '|' {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	cells = append(cells, current.String())

	// Drop outer empty edges only: |a|b| yields a and b
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func isSeparatorRow(line string) bool {
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !reSeparator.MatchString(strings.TrimSpace(cell)) {
			return false
		}
	}
	return true
}

func newTableRow(cells []string, header bool) *Node {
	row := TableRow()
	for _, cell := range cells {
		row.Content = append(row.Content, newTableCell(cell, header))
	}
	return row
}

// newTableCell parses a cell's content recursively, after normalizing
// embedded line-break markers to real line breaks. A blank cell still
// holds one empty paragraph.
func newTableCell(content string, header bool) *Node {
	content = strings.TrimSpace(reCellBreak.ReplaceAllString(content, "\n"))
	inner := Parse(content)
	if header {
		return TableHeader(inner.Content...)
	}
	return TableCell(inner.Content...)
}

// parseParagraph accumulates lines until a blank line or a block-starting
// line, then joins them with single spaces into one inline-formatted run.
// A trailing backslash forces a hard break instead of a joining space.
func (p *parser) parseParagraph() *Node {
	lines := []string{paragraphLine(p.current())}
	p.advance()
	for !p.eof() {
		line := p.current()
		if text.IsBlank(line) || isBlockStart(line) {
			break
		}
		lines = append(lines, paragraphLine(line))
		p.advance()
	}

	joined := lines[0]
	for _, line := range lines[1:] {
		if strings.HasSuffix(joined, "<br>") {
			joined += line
		} else {
			joined += " " + line
		}
	}
	return Paragraph(ParseInline(joined)...)
}

func paragraphLine(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasSuffix(line, "\\") {
		return strings.TrimSuffix(line, "\\") + "<br>"
	}
	return line
}
