package core

import (
	"errors"
	"fmt"

	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/resync"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

var (
	ErrStreamNotFound = errors.New("stream not found")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrNoStagedEntry  = errors.New("no staged entries")
)

var (
	// Lazy-load
	repositoryOnce      resync.Once
	repositorySingleton *Repository
)

// Repository exposes the storage operations over streams, entries,
// versions, and pending blocks.
type Repository struct{}

func CurrentRepository() *Repository {
	repositoryOnce.Do(func() {
		repositorySingleton = &Repository{}
	})
	return repositorySingleton
}

func (r *Repository) Close() error {
	return CurrentDB().Close()
}

/* Streams */

func (r *Repository) CreateStream(title string, description string) (*Stream, error) {
	stream := NewStream(title)
	stream.Describe(description)
	if err := stream.Save(); err != nil {
		return nil, fmt.Errorf("creating stream %q: %w", title, err)
	}
	CurrentLogger().Debugf("Created stream %s %q", stream.ID, title)
	return stream, nil
}

func (r *Repository) FindStream(id string) (*Stream, error) {
	stream, err := QueryStream(CurrentDB().Client(), "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, id)
	}
	return stream, nil
}

// FindStreamByPrefix resolves a stream from an ID prefix, the way users
// type shortened identifiers on the command line.
func (r *Repository) FindStreamByPrefix(prefix string) (*Stream, error) {
	streams, err := QueryStreams(CurrentDB().Client())
	if err != nil {
		return nil, err
	}
	var match *Stream
	for _, stream := range streams {
		if len(prefix) > 0 && len(stream.ID) >= len(prefix) && stream.ID[:len(prefix)] == prefix {
			if match != nil {
				return nil, fmt.Errorf("ambiguous stream prefix %q", prefix)
			}
			match = stream
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, prefix)
	}
	return match, nil
}

func (r *Repository) ListStreams() ([]*Stream, error) {
	return QueryStreams(CurrentDB().Client())
}

func (r *Repository) DeleteStream(stream *Stream) error {
	stream.MarkDeleted()
	return stream.Save()
}

/* Entries */

// AddEntry appends a new entry at the end of a stream.
func (r *Repository) AddEntry(streamID string, role string, content *doctree.Node) (*Entry, error) {
	entry := NewEntry(streamID, role, content)
	sequence, err := r.nextSequenceID(streamID)
	if err != nil {
		return nil, err
	}
	entry.SequenceID = sequence
	if err := entry.Save(); err != nil {
		return nil, fmt.Errorf("adding entry to stream %s: %w", streamID, err)
	}
	return entry, nil
}

func (r *Repository) nextSequenceID(streamID string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(sequence_id), 0) FROM entries WHERE stream_id = ?;`
	if err := CurrentDB().Client().QueryRow(query, streamID).Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *Repository) FindEntry(id string) (*Entry, error) {
	entry, err := QueryEntry(CurrentDB().Client(), "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return entry, nil
}

// FindEntryByPrefix resolves an entry from an ID prefix.
func (r *Repository) FindEntryByPrefix(prefix string) (*Entry, error) {
	entries, err := QueryEntries(CurrentDB().Client(),
		"WHERE id LIKE ? LIMIT 2", prefix+"%")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, prefix)
	}
	if len(entries) > 1 {
		return nil, fmt.Errorf("ambiguous entry prefix %q", prefix)
	}
	return entries[0], nil
}

// Entries returns the entries of a stream in sequence order.
func (r *Repository) Entries(streamID string) ([]*Entry, error) {
	return QueryEntries(CurrentDB().Client(),
		"WHERE stream_id = ? ORDER BY sequence_id ASC", streamID)
}

// StagedEntries returns the staged entries of a stream in sequence order.
func (r *Repository) StagedEntries(streamID string) ([]*Entry, error) {
	return QueryEntries(CurrentDB().Client(),
		"WHERE stream_id = ? AND is_staged = 1 ORDER BY sequence_id ASC", streamID)
}

// EditEntry replaces an entry's document tree wholesale.
func (r *Repository) EditEntry(entry *Entry, content *doctree.Node) error {
	entry.ReplaceContent(content)
	return entry.Save()
}

func (r *Repository) DeleteEntry(entry *Entry) error {
	entry.MarkDeleted()
	return entry.Save()
}

func (r *Repository) StageEntry(entry *Entry, staged bool) error {
	entry.SetStaged(staged)
	return entry.Save()
}

// ClearStaging un-stages every entry of a stream.
func (r *Repository) ClearStaging(streamID string) error {
	query := `UPDATE entries SET is_staged = 0 WHERE stream_id = ?;`
	_, err := CurrentDB().Client().Exec(query, streamID)
	return err
}

// SearchEntries matches stored content against a raw query, newest first.
func (r *Repository) SearchEntries(q string) ([]*Entry, error) {
	return QueryEntries(CurrentDB().Client(),
		"WHERE content LIKE ? ORDER BY created_at DESC LIMIT 50", "%"+q+"%")
}

/* Versions */

// CommitEntry snapshots the current content of an entry.
func (r *Repository) CommitEntry(entry *Entry, message string) (*EntryVersion, error) {
	version := NewEntryVersion(entry, message)

	db := CurrentDB()
	if err := db.BeginTransaction(); err != nil {
		return nil, err
	}
	defer db.RollbackTransaction()

	if err := version.Save(); err != nil {
		return nil, err
	}
	entry.VersionHead = version.VersionNumber
	entry.stale = true
	if err := entry.Save(); err != nil {
		return nil, err
	}

	if err := db.CommitTransaction(); err != nil {
		return nil, err
	}
	return version, nil
}

// Versions returns the versions of an entry, most recent first.
func (r *Repository) Versions(entryID string) ([]*EntryVersion, error) {
	return QueryVersions(CurrentDB().Client(),
		"WHERE entry_id = ? ORDER BY version_number DESC", entryID)
}

func (r *Repository) FindVersion(entryID string, number int) (*EntryVersion, error) {
	version, err := QueryVersion(CurrentDB().Client(),
		"WHERE entry_id = ? AND version_number = ?", entryID, number)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("entry %s has no version %d", entryID, number)
	}
	return version, nil
}

// DiffVersion returns a unified diff from a snapshot to the current content.
func (r *Repository) DiffVersion(entry *Entry, number int) (string, error) {
	version, err := r.FindVersion(entry.ID, number)
	if err != nil {
		return "", err
	}
	before := doctree.Render(version.ContentSnapshot) + "\n"
	after := doctree.Render(entry.Content) + "\n"
	name := fmt.Sprintf("entry-%d", entry.SequenceID)
	return godiffpatch.GeneratePatch(name, before, after), nil
}

// RevertEntry copies a snapshot back into the entry content.
// No new snapshot is taken; committing again is the user's call.
func (r *Repository) RevertEntry(entry *Entry, number int) error {
	version, err := r.FindVersion(entry.ID, number)
	if err != nil {
		return err
	}
	entry.ReplaceContent(version.ContentSnapshot.Clone())
	return entry.Save()
}

/* Pending blocks */

// PendingBlock returns the outstanding exchange of a stream, or nil.
func (r *Repository) PendingBlock(streamID string) (*PendingBlock, error) {
	return QueryPendingBlock(CurrentDB().Client(),
		"WHERE stream_id = ? ORDER BY created_at DESC LIMIT 1", streamID)
}
