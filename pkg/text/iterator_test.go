package text_test

import (
	"testing"

	"github.com/inkstream/inkstream/pkg/text"
	"github.com/stretchr/testify/assert"
)

func TestLineIterator(t *testing.T) {

	t.Run("Basic", func(t *testing.T) {
		iterator := text.NewLineIteratorFromText("line 1\nline 2\n\nline 3\n")

		line1 := iterator.Next()
		assert.Equal(t, "line 1", line1.Text)
		assert.Equal(t, 1, line1.Number)
		assert.False(t, line1.IsBlank())
		assert.False(t, line1.IsLast())

		line2 := iterator.Next()
		assert.Equal(t, "line 2", line2.Text)
		assert.Equal(t, line2, line1.Next())

		line3 := iterator.Next()
		assert.True(t, line3.IsBlank())
		assert.Equal(t, line3, line2.Next())

		line4 := iterator.Next()
		assert.Equal(t, "line 3", line4.Text)

		line5 := iterator.Next()
		assert.True(t, line5.IsBlank())
		assert.True(t, line5.IsLast())
		// Missing lines are considered like blank lines
		assert.Equal(t, text.MissingLine, line5.Next())
		assert.True(t, line5.Next().Next().IsBlank())

		assert.False(t, iterator.HasNext())
		assert.Equal(t, text.MissingLine, iterator.Next())
	})

	t.Run("Peek", func(t *testing.T) {
		iterator := text.NewLineIteratorFromText("a\nb")

		// Peek does not move the iterator
		assert.Equal(t, "a", iterator.Peek().Text)
		assert.Equal(t, "a", iterator.Peek().Text)
		assert.Equal(t, "a", iterator.Next().Text)
		assert.Equal(t, "b", iterator.Peek().Text)
	})

	t.Run("PeekNonBlank", func(t *testing.T) {
		md := "" +
			/* 1 */ "- item 1\n" +
			/* 2 */ "\n" +
			/* 3 */ "\n" +
			/* 4 */ "- item 2\n"
		iterator := text.NewLineIteratorFromText(md)
		iterator.Next()

		// Look past the blank separator without moving
		assert.True(t, iterator.Peek().IsBlank())
		next := iterator.PeekNonBlank()
		assert.Equal(t, "- item 2", next.Text)
		assert.Equal(t, 4, next.Number)
		assert.True(t, iterator.Peek().IsBlank())

		// Only blanks remain
		iterator.SkipBlankLines()
		iterator.Next()
		assert.Equal(t, text.MissingLine, iterator.PeekNonBlank())
	})

	t.Run("SkipBlankLines", func(t *testing.T) {
		md := "" +
			/* 1 */ "\n" +
			/* 2 */ "\n" +
			/* 3 */ "# Title\n" +
			/* 4 */ "\n" +
			/* 5 */ "Text\n"
		iterator := text.NewLineIteratorFromText(md)

		// Jump to next non-blank line
		iterator.SkipBlankLines()
		assert.True(t, iterator.HasNext())
		titleLine := iterator.Next()
		assert.False(t, titleLine.IsBlank())
		assert.Equal(t, "# Title", titleLine.Text)
		assert.Equal(t, 3, titleLine.Number)

		// Jump to next non-blank line
		iterator.SkipBlankLines()
		assert.True(t, iterator.HasNext())
		textLine := iterator.Next()
		assert.False(t, textLine.IsBlank())
		assert.Equal(t, "Text", textLine.Text)
		assert.Equal(t, 5, textLine.Number)

		// Jump to next non-blank line
		iterator.SkipBlankLines()
		assert.False(t, iterator.HasNext()) // end of doc
	})
}
