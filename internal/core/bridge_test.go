package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replyWithKey(key string) string {
	return fmt.Sprintf(`<bridge-response bridge=%q directive="DUMP">
<model>test-model</model>
<summary>Organized the notes</summary>
<content>
# Organized

Your notes, tidied up.
</content>
</bridge-response>`, key)
}

func TestExportStream(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	FreezeNow(t)
	memory := clipboard.UseMemory(t)
	r := CurrentRepository()

	stream, err := r.CreateStream("Thinking", "")
	require.NoError(t, err)

	t.Run("Nothing staged", func(t *testing.T) {
		_, err := r.ExportStream(stream.ID, bridge.DirectiveDump)
		assert.ErrorIs(t, err, ErrNoStagedEntry)
	})

	first, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("A first thought"))
	require.NoError(t, err)
	second, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("A second thought"))
	require.NoError(t, err)
	require.NoError(t, r.StageEntry(first, true))
	require.NoError(t, r.StageEntry(second, true))

	SetNextKeys(t, "ab12")

	t.Run("Export", func(t *testing.T) {
		prompt, err := r.ExportStream(stream.ID, bridge.DirectiveDump)
		require.NoError(t, err)
		assert.Equal(t, "ab12", prompt.ExchangeKey)
		assert.Contains(t, prompt.Text, "A first thought")
		assert.Contains(t, prompt.Text, `bridge="ab12"`)
		require.Len(t, prompt.StagedRefs, 2)
		assert.Equal(t, first.ID, prompt.StagedRefs[0].EntryID)

		// The prompt landed on the clipboard
		copied, err := memory.ReadText()
		require.NoError(t, err)
		assert.Equal(t, prompt.Text, copied)

		// Exporting moved the entries out of staging
		staged, err := r.StagedEntries(stream.ID)
		require.NoError(t, err)
		assert.Empty(t, staged)

		block, err := r.PendingBlock(stream.ID)
		require.NoError(t, err)
		require.NotNil(t, block)
		assert.Equal(t, "ab12", block.BridgeKey)
	})

	t.Run("Export while pending", func(t *testing.T) {
		require.NoError(t, r.StageEntry(first, true))
		_, err := r.ExportStream(stream.ID, bridge.DirectiveDump)
		assert.ErrorIs(t, err, bridge.ErrExchangePending)
	})
}

func TestExportStreamWithoutClipboard(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	broken := errors.New("no clipboard utility found")
	clipboard.UseFailing(t, broken)
	r := CurrentRepository()

	stream, err := r.CreateStream("Thinking", "")
	require.NoError(t, err)
	entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("A thought"))
	require.NoError(t, err)
	require.NoError(t, r.StageEntry(entry, true))
	SetNextKeys(t, "ab12")

	prompt, err := r.ExportStream(stream.ID, bridge.DirectiveDump)

	// The failure reaches the caller with the prompt to copy by hand
	require.ErrorIs(t, err, broken)
	require.NotNil(t, prompt)
	assert.Equal(t, "ab12", prompt.ExchangeKey)
	assert.Contains(t, prompt.Text, "A thought")

	// The exchange stayed recorded and staging was cleared
	block, err := r.PendingBlock(stream.ID)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, "ab12", block.BridgeKey)
	staged, err := r.StagedEntries(stream.ID)
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestImportReply(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	clipboard.UseMemory(t)
	r := CurrentRepository()

	stream, err := r.CreateStream("Thinking", "")
	require.NoError(t, err)
	entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("A thought"))
	require.NoError(t, err)
	require.NoError(t, r.StageEntry(entry, true))

	t.Run("No pending exchange", func(t *testing.T) {
		_, _, err := r.ImportReply(stream.ID, replyWithKey("ab12"))
		assert.ErrorIs(t, err, bridge.ErrNoPending)
	})

	SetNextKeys(t, "ab12")
	_, err = r.ExportStream(stream.ID, bridge.DirectiveDump)
	require.NoError(t, err)

	t.Run("Key mismatch keeps the exchange pending", func(t *testing.T) {
		_, _, err := r.ImportReply(stream.ID, replyWithKey("zz99"))
		assert.ErrorIs(t, err, bridge.ErrKeyMismatch)

		block, err := r.PendingBlock(stream.ID)
		require.NoError(t, err)
		assert.NotNil(t, block)
	})

	t.Run("Plain prose keeps the exchange pending", func(t *testing.T) {
		_, _, err := r.ImportReply(stream.ID, "I could not find any envelope to produce.")
		assert.ErrorIs(t, err, bridge.ErrNotStructured)

		block, err := r.PendingBlock(stream.ID)
		require.NoError(t, err)
		assert.NotNil(t, block)
	})

	t.Run("Accepted reply becomes an AI entry", func(t *testing.T) {
		imported, env, err := r.ImportReply(stream.ID, replyWithKey("ab12"))
		require.NoError(t, err)
		require.NotNil(t, imported)
		assert.True(t, env.IsStructured)

		assert.Equal(t, RoleAI, imported.Role)
		assert.Equal(t, 2, imported.SequenceID)
		assert.Contains(t, imported.PlainText(), "Your notes, tidied up.")
		require.NotNil(t, imported.AiMetadata)
		assert.Equal(t, "test-model", imported.AiMetadata.Model)
		assert.Equal(t, "ab12", imported.AiMetadata.BridgeKey)
		assert.Equal(t, "Organized the notes", imported.AiMetadata.Summary)
		require.Len(t, imported.ContextRefs, 1)
		assert.Equal(t, entry.ID, imported.ContextRefs[0].EntryID)

		// The exchange is settled
		block, err := r.PendingBlock(stream.ID)
		require.NoError(t, err)
		assert.Nil(t, block)
	})

	t.Run("From clipboard", func(t *testing.T) {
		require.NoError(t, r.StageEntry(entry, true))
		SetNextKeys(t, "cd34")
		_, err := r.ExportStream(stream.ID, bridge.DirectiveDump)
		require.NoError(t, err)

		require.NoError(t, clipboard.WriteText(replyWithKey("cd34")))
		imported, _, err := r.ImportFromClipboard(stream.ID)
		require.NoError(t, err)
		assert.Equal(t, RoleAI, imported.Role)
	})
}

func TestCancelExchange(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	clipboard.UseMemory(t)
	r := CurrentRepository()

	stream, err := r.CreateStream("Thinking", "")
	require.NoError(t, err)

	t.Run("Nothing to cancel", func(t *testing.T) {
		assert.ErrorIs(t, r.CancelExchange(stream.ID), bridge.ErrNoPending)
	})

	entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("A thought"))
	require.NoError(t, err)
	require.NoError(t, r.StageEntry(entry, true))
	_, err = r.ExportStream(stream.ID, bridge.DirectiveCritique)
	require.NoError(t, err)

	t.Run("Cancel restores staging", func(t *testing.T) {
		require.NoError(t, r.CancelExchange(stream.ID))

		staged, err := r.StagedEntries(stream.ID)
		require.NoError(t, err)
		require.Len(t, staged, 1)
		assert.Equal(t, entry.ID, staged[0].ID)

		block, err := r.PendingBlock(stream.ID)
		require.NoError(t, err)
		assert.Nil(t, block)
	})

	t.Run("Cancel skips deleted entries", func(t *testing.T) {
		_, err = r.ExportStream(stream.ID, bridge.DirectiveCritique)
		require.NoError(t, err)
		require.NoError(t, r.DeleteEntry(entry))

		require.NoError(t, r.CancelExchange(stream.ID))
		staged, err := r.StagedEntries(stream.ID)
		require.NoError(t, err)
		assert.Empty(t, staged)
	})
}
