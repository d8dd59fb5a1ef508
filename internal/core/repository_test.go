package core

import (
	"testing"

	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryStreams(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	r := CurrentRepository()

	t.Run("FindStream", func(t *testing.T) {
		stream, err := r.CreateStream("Travel", "Trip planning")
		require.NoError(t, err)

		found, err := r.FindStream(stream.ID)
		require.NoError(t, err)
		assert.Equal(t, "Travel", found.Title)

		_, err = r.FindStream("unknown")
		assert.ErrorIs(t, err, ErrStreamNotFound)
	})

	t.Run("FindStreamByPrefix", func(t *testing.T) {
		stream, err := r.CreateStream("Gardening", "")
		require.NoError(t, err)

		found, err := r.FindStreamByPrefix(stream.ID[:8])
		require.NoError(t, err)
		assert.Equal(t, stream.ID, found.ID)

		_, err = r.FindStreamByPrefix("zzzzzzzz")
		assert.ErrorIs(t, err, ErrStreamNotFound)
	})

	t.Run("DeleteStream cascades", func(t *testing.T) {
		stream, err := r.CreateStream("Doomed", "")
		require.NoError(t, err)
		entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Going down with the ship"))
		require.NoError(t, err)
		_, err = r.CommitEntry(entry, "checkpoint")
		require.NoError(t, err)

		require.NoError(t, r.DeleteStream(stream))

		orphans, err := QueryEntries(CurrentDB().Client(), "WHERE stream_id = ?", stream.ID)
		require.NoError(t, err)
		assert.Empty(t, orphans)
		versions, err := r.Versions(entry.ID)
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestRepositoryEntries(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	r := CurrentRepository()

	stream, err := r.CreateStream("Journal", "")
	require.NoError(t, err)

	t.Run("Sequence IDs are monotonic", func(t *testing.T) {
		first, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("One"))
		require.NoError(t, err)
		second, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Two"))
		require.NoError(t, err)
		assert.Equal(t, 1, first.SequenceID)
		assert.Equal(t, 2, second.SequenceID)

		entries, err := r.Entries(stream.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "One", entries[0].PlainText())
		assert.Equal(t, "Two", entries[1].PlainText())
	})

	t.Run("Sequence continues after deletion", func(t *testing.T) {
		entries, err := r.Entries(stream.ID)
		require.NoError(t, err)
		require.NoError(t, r.DeleteEntry(entries[len(entries)-1]))

		next, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Three"))
		require.NoError(t, err)
		// MAX+1 of the remaining entries, not a global counter
		assert.Equal(t, 2, next.SequenceID)
	})

	t.Run("Staging", func(t *testing.T) {
		entries, err := r.Entries(stream.ID)
		require.NoError(t, err)
		for _, entry := range entries {
			require.NoError(t, r.StageEntry(entry, true))
		}

		staged, err := r.StagedEntries(stream.ID)
		require.NoError(t, err)
		assert.Len(t, staged, len(entries))

		require.NoError(t, r.ClearStaging(stream.ID))
		staged, err = r.StagedEntries(stream.ID)
		require.NoError(t, err)
		assert.Empty(t, staged)
	})

	t.Run("Search", func(t *testing.T) {
		_, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("The quick brown fox"))
		require.NoError(t, err)

		results, err := r.SearchEntries("brown fox")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "The quick brown fox", results[0].PlainText())

		results, err = r.SearchEntries("no such text")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestRepositoryVersions(t *testing.T) {
	SetUpRepositoryFromTempDir(t)
	r := CurrentRepository()

	stream, err := r.CreateStream("Drafts", "")
	require.NoError(t, err)
	entry, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse("Draft v1"))
	require.NoError(t, err)

	t.Run("Commit bumps the head", func(t *testing.T) {
		version, err := r.CommitEntry(entry, "first draft")
		require.NoError(t, err)
		assert.Equal(t, 1, version.VersionNumber)
		assert.Equal(t, "first draft", version.CommitMessage)
		assert.Equal(t, 1, entry.VersionHead)

		require.NoError(t, r.EditEntry(entry, doctree.Parse("Draft v2")))
		version, err = r.CommitEntry(entry, "second draft")
		require.NoError(t, err)
		assert.Equal(t, 2, version.VersionNumber)

		versions, err := r.Versions(entry.ID)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		// Most recent first
		assert.Equal(t, 2, versions[0].VersionNumber)
		assert.Equal(t, "Draft v1", versions[1].ContentSnapshot.PlainText())
	})

	t.Run("Revert restores a snapshot without committing", func(t *testing.T) {
		require.NoError(t, r.RevertEntry(entry, 1))
		assert.Equal(t, "Draft v1", entry.PlainText())
		// The head still points at the last commit
		assert.Equal(t, 2, entry.VersionHead)

		versions, err := r.Versions(entry.ID)
		require.NoError(t, err)
		assert.Len(t, versions, 2)
	})

	t.Run("Diff against a snapshot", func(t *testing.T) {
		require.NoError(t, r.EditEntry(entry, doctree.Parse("Draft v3")))

		patch, err := r.DiffVersion(entry, 1)
		require.NoError(t, err)
		assert.Contains(t, patch, "-Draft v1")
		assert.Contains(t, patch, "+Draft v3")

		// Identical content produces an empty patch
		require.NoError(t, r.RevertEntry(entry, 1))
		patch, err = r.DiffVersion(entry, 1)
		require.NoError(t, err)
		assert.Empty(t, patch)
	})

	t.Run("Unknown version", func(t *testing.T) {
		err := r.RevertEntry(entry, 99)
		assert.Error(t, err)
	})
}
