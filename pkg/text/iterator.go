package text

import (
	"strings"
)

// Line is a single line of a larger text, linked to its successor.
type Line struct {
	Text   string
	Number int
	next   *Line
}

// MissingLine stands in past the last line so that lookahead chains
// like line.Next().IsBlank() stay safe at the end of the text.
var MissingLine = Line{
	Text:   "",
	Number: -1,
}

func (l Line) IsBlank() bool {
	return IsBlank(l.Text)
}

func (l Line) Next() Line {
	if l.next == nil {
		return MissingLine
	}
	return *l.next
}

func (l Line) IsLast() bool {
	return l.next == nil
}

// LineIterator implements the Iterator pattern to iterate over text lines.
type LineIterator struct {
	index int
	lines []*Line
}

func NewLineIteratorFromText(text string) *LineIterator {
	rawLines := strings.Split(text, "\n")

	lines := make([]*Line, len(rawLines))
	for i, rawLine := range rawLines {
		lines[i] = &Line{
			Number: i + 1,
			Text:   rawLine,
		}
		if i > 0 {
			lines[i-1].next = lines[i]
		}
	}

	return &LineIterator{
		index: 0,
		lines: lines,
	}
}

func (l *LineIterator) HasNext() bool {
	return l.index < len(l.lines)
}

// Peek returns the current line without moving the iterator.
func (l *LineIterator) Peek() Line {
	if !l.HasNext() {
		return MissingLine
	}
	return *l.lines[l.index]
}

// PeekNonBlank looks ahead for the first non-blank line at or after the
// current position, without moving the iterator.
func (l *LineIterator) PeekNonBlank() Line {
	line := l.Peek()
	for line != MissingLine && line.IsBlank() {
		line = line.Next()
	}
	return line
}

func (l *LineIterator) Next() Line {
	line := l.Peek()
	if l.HasNext() {
		l.index++
	}
	return line
}

// SkipBlankLines moves the iterator to the next non-blank line (or to the end otherwise).
func (l *LineIterator) SkipBlankLines() {
	for l.HasNext() && l.Peek().IsBlank() {
		l.Next()
	}
}
