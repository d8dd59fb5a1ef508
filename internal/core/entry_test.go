package core

import (
	"testing"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	FreezeNow(t)
	r := CurrentRepository()

	stream, err := r.CreateStream("Scratch", "")
	require.NoError(t, err)

	t.Run("Round-trip content and metadata", func(t *testing.T) {
		doc := doctree.Parse("# Title\n\nSome **bold** text")
		entry := NewEntry(stream.ID, RoleAI, doc)
		entry.SequenceID = 1
		entry.ContextRefs = []bridge.StagedRef{
			{EntryID: "abc", Version: 2},
		}
		entry.AiMetadata = &AiMetadata{
			Model:     "gpt-test",
			Directive: "DUMP",
			BridgeKey: "k7f2",
			Summary:   "A short recap",
		}
		require.NoError(t, entry.Save())

		found, err := QueryEntry(CurrentDB().Client(), "WHERE id = ?", entry.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, RoleAI, found.Role)
		assert.Equal(t, 1, found.SequenceID)
		assert.True(t, doctree.Equal(doc, found.Content))
		assert.Equal(t, entry.ContextRefs, found.ContextRefs)
		assert.Equal(t, entry.AiMetadata, found.AiMetadata)
		assert.Equal(t, "Title\nSome bold text", found.PlainText())
	})

	t.Run("User entries have no AI metadata", func(t *testing.T) {
		entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Plain thought"))
		require.NoError(t, err)

		found, err := QueryEntry(CurrentDB().Client(), "WHERE id = ?", entry.ID)
		require.NoError(t, err)
		assert.Nil(t, found.AiMetadata)
		assert.Empty(t, found.ContextRefs)
	})

	t.Run("Staging toggles persist", func(t *testing.T) {
		entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Stage me"))
		require.NoError(t, err)

		entry.SetStaged(true)
		assert.Equal(t, Modified, entry.State())
		require.NoError(t, entry.Save())

		found, err := QueryEntry(CurrentDB().Client(), "WHERE id = ?", entry.ID)
		require.NoError(t, err)
		assert.True(t, found.IsStaged)
	})

	t.Run("Delete", func(t *testing.T) {
		entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Ephemeral"))
		require.NoError(t, err)

		entry.MarkDeleted()
		require.NoError(t, entry.Save())

		found, err := QueryEntry(CurrentDB().Client(), "WHERE id = ?", entry.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
