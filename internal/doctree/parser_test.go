package doctree_test

import (
	"testing"

	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParagraphs(t *testing.T) {
	doc := doctree.Parse("First paragraph\nstill the first.\n\nSecond paragraph.")
	require.Len(t, doc.Content, 2)
	assert.True(t, doctree.Equal(
		doctree.Paragraph(doctree.Text("First paragraph still the first.")),
		doc.Content[0]))
	assert.True(t, doctree.Equal(
		doctree.Paragraph(doctree.Text("Second paragraph.")),
		doc.Content[1]))
}

func TestParseHeadings(t *testing.T) {
	doc := doctree.Parse("# Title\n\n### Sub-sub\n\ntext")
	require.Len(t, doc.Content, 3)
	assert.Equal(t, doctree.TypeHeading, doc.Content[0].Type)
	assert.Equal(t, 1, doc.Content[0].Level())
	assert.Equal(t, doctree.TypeHeading, doc.Content[1].Type)
	assert.Equal(t, 3, doc.Content[1].Level())

	// 7 hashes is not a heading
	doc = doctree.Parse("####### Not a title")
	require.Len(t, doc.Content, 1)
	assert.Equal(t, doctree.TypeParagraph, doc.Content[0].Type)
}

func TestParseCodeBlock(t *testing.T) {
	input := text.UnescapeTestContent("”””go\nfmt.Println(\"hi\")\n”””\nafter")
	doc := doctree.Parse(input)
	require.Len(t, doc.Content, 2)
	code := doc.Content[0]
	assert.Equal(t, doctree.TypeCodeBlock, code.Type)
	assert.Equal(t, "go", code.Language())
	assert.Equal(t, `fmt.Println("hi")`, code.PlainText())
}

func TestParseUnterminatedCodeBlock(t *testing.T) {
	input := text.UnescapeTestContent("”””\nline 1\nline 2")
	doc := doctree.Parse(input)
	require.Len(t, doc.Content, 1)
	assert.Equal(t, doctree.TypeCodeBlock, doc.Content[0].Type)
	assert.Equal(t, "line 1\nline 2", doc.Content[0].PlainText())
}

func TestParseHorizontalRule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  bool
	}{
		{"three dashes", "---", true},
		{"many underscores", "_____", true},
		{"stars with trailing spaces", "***   ", true},
		{"two dashes only", "--", false},
		{"mixed characters", "-*-", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := doctree.Parse(tt.input)
			require.Len(t, doc.Content, 1)
			if tt.rule {
				assert.Equal(t, doctree.TypeHorizontalRule, doc.Content[0].Type)
			} else {
				assert.NotEqual(t, doctree.TypeHorizontalRule, doc.Content[0].Type)
			}
		})
	}
}

func TestParseBlockquote(t *testing.T) {
	doc := doctree.Parse("> quoted line\n> another line")
	require.Len(t, doc.Content, 1)
	quote := doc.Content[0]
	assert.Equal(t, doctree.TypeBlockquote, quote.Type)
	require.Len(t, quote.Content, 1)
	assert.Equal(t, "quoted line another line", quote.PlainText())
}

func TestParseBlockquoteContainingBlocks(t *testing.T) {
	doc := doctree.Parse("> # Title\n> - a\n> - b")
	require.Len(t, doc.Content, 1)
	quote := doc.Content[0]
	require.Len(t, quote.Content, 2)
	assert.Equal(t, doctree.TypeHeading, quote.Content[0].Type)
	assert.Equal(t, doctree.TypeBulletList, quote.Content[1].Type)
}

func TestParseNestedBlockquote(t *testing.T) {
	doc := doctree.Parse("> outer\n> > inner")
	quote := doc.Content[0]
	require.Len(t, quote.Content, 2)
	assert.Equal(t, doctree.TypeParagraph, quote.Content[0].Type)
	assert.Equal(t, doctree.TypeBlockquote, quote.Content[1].Type)
}

func TestParseBulletList(t *testing.T) {
	doc := doctree.Parse("- a\n- b\n- c")
	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	assert.Equal(t, doctree.TypeBulletList, list.Type)
	require.Len(t, list.Content, 3)
	assert.Equal(t, "a", list.Content[0].PlainText())
	assert.Equal(t, "c", list.Content[2].PlainText())
}

func TestParseNestedList(t *testing.T) {
	doc := doctree.Parse("- a\n  - b\n- c")
	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	assert.Equal(t, doctree.TypeBulletList, list.Type)
	require.Len(t, list.Content, 2)

	first := list.Content[0]
	require.Len(t, first.Content, 2)
	assert.Equal(t, doctree.TypeParagraph, first.Content[0].Type)
	nested := first.Content[1]
	assert.Equal(t, doctree.TypeBulletList, nested.Type)
	require.Len(t, nested.Content, 1)
	assert.Equal(t, "b", nested.Content[0].PlainText())

	assert.Equal(t, "c", list.Content[1].PlainText())
}

func TestParseOrderedList(t *testing.T) {
	doc := doctree.Parse("1. first\n2) second\n10. third")
	list := doc.Content[0]
	assert.Equal(t, doctree.TypeOrderedList, list.Type)
	require.Len(t, list.Content, 3)
	assert.Equal(t, doctree.TypeListItem, list.Content[0].Type)
}

func TestParseTaskList(t *testing.T) {
	doc := doctree.Parse("- [ ] todo\n- [x] done\n- [X] done too")
	list := doc.Content[0]
	assert.Equal(t, doctree.TypeTaskList, list.Type)
	require.Len(t, list.Content, 3)
	assert.False(t, list.Content[0].Checked())
	assert.True(t, list.Content[1].Checked())
	assert.True(t, list.Content[2].Checked())
}

func TestParseLooseList(t *testing.T) {
	// Generated text often inserts blank lines between items
	doc := doctree.Parse("- a\n\n- b\n\n- c")
	require.Len(t, doc.Content, 1)
	list := doc.Content[0]
	assert.Equal(t, doctree.TypeBulletList, list.Type)
	assert.Len(t, list.Content, 3)
}

func TestParseListEndsOnDifferentKind(t *testing.T) {
	doc := doctree.Parse("- a\n- b\n1. one\n2. two")
	require.Len(t, doc.Content, 2)
	assert.Equal(t, doctree.TypeBulletList, doc.Content[0].Type)
	assert.Equal(t, doctree.TypeOrderedList, doc.Content[1].Type)
}

func TestParseTableWithHeader(t *testing.T) {
	doc := doctree.Parse("|h1|h2|\n|-|-|\n|a|b|")
	require.Len(t, doc.Content, 1)
	table := doc.Content[0]
	assert.Equal(t, doctree.TypeTable, table.Type)
	require.Len(t, table.Content, 2)

	headerRow := table.Content[0]
	require.Len(t, headerRow.Content, 2)
	assert.Equal(t, doctree.TypeTableHeader, headerRow.Content[0].Type)
	assert.Equal(t, "h1", headerRow.Content[0].PlainText())

	bodyRow := table.Content[1]
	require.Len(t, bodyRow.Content, 2)
	assert.Equal(t, doctree.TypeTableCell, bodyRow.Content[0].Type)
	assert.Equal(t, "b", bodyRow.Content[1].PlainText())
}

func TestParseTableWithoutHeader(t *testing.T) {
	doc := doctree.Parse("|a|b|\n|c|d|")
	table := doc.Content[0]
	require.Len(t, table.Content, 2)
	assert.Equal(t, doctree.TypeTableCell, table.Content[0].Content[0].Type)
}

func TestParseTableCellWithLineBreaks(t *testing.T) {
	doc := doctree.Parse("|h|\n|-|\n|line 1<br>line 2|")
	table := doc.Content[0]
	cell := table.Content[1].Content[0]
	assert.Equal(t, "line 1 line 2", cell.PlainText())
}

func TestParseTableBlankCell(t *testing.T) {
	doc := doctree.Parse("|a||c|")
	row := doc.Content[0].Content[0]
	require.Len(t, row.Content, 3)
	// A blank cell still holds one empty paragraph
	require.Len(t, row.Content[1].Content, 1)
	assert.Equal(t, doctree.TypeParagraph, row.Content[1].Content[0].Type)
}

func TestParseEmptyInput(t *testing.T) {
	tests := []string{"", "   ", "\n\n\n"}
	for _, input := range tests {
		doc := doctree.Parse(input)
		require.Len(t, doc.Content, 1)
		assert.True(t, doctree.Equal(doctree.Paragraph(), doc.Content[0]))
	}
}

func TestParseNeverFails(t *testing.T) {
	// Malformed inputs still produce some tree
	inputs := []string{
		"|||",
		"> ",
		text.UnescapeTestContent("”””"),
		"- ",
		"######",
		"*** unclosed **",
	}
	for _, input := range inputs {
		doc := doctree.Parse(input)
		require.NotNil(t, doc)
		assert.Equal(t, doctree.TypeDoc, doc.Type)
		assert.NotEmpty(t, doc.Content)
	}
}

func TestParseMixedDocument(t *testing.T) {
	input := text.UnescapeTestContent(`# Notes

Some **bold** intro.

- point one
- point two
  - detail

> A quote

”””python
print("x")
”””

---

The end.`)
	doc := doctree.Parse(input)
	types := make([]doctree.NodeType, 0, len(doc.Content))
	for _, block := range doc.Content {
		types = append(types, block.Type)
	}
	assert.Equal(t, []doctree.NodeType{
		doctree.TypeHeading,
		doctree.TypeParagraph,
		doctree.TypeBulletList,
		doctree.TypeBlockquote,
		doctree.TypeCodeBlock,
		doctree.TypeHorizontalRule,
		doctree.TypeParagraph,
	}, types)
}
