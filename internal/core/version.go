package core

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/clock"
)

// EntryVersion is an immutable snapshot of an entry's content at commit time.
type EntryVersion struct {
	ID            string
	EntryID       string
	VersionNumber int

	ContentSnapshot *doctree.Node
	CommitMessage   string
	CommittedAt     time.Time

	new bool
}

func NewEntryVersion(entry *Entry, message string) *EntryVersion {
	return &EntryVersion{
		ID:              uuid.NewString(),
		EntryID:         entry.ID,
		VersionNumber:   entry.VersionHead + 1,
		ContentSnapshot: entry.Content.Clone(),
		CommitMessage:   message,
		CommittedAt:     clock.Now(),
		new:             true,
	}
}

func (v *EntryVersion) State() State {
	if v.new {
		return Added
	}
	return None
}

// Save persists the snapshot. Versions are append-only.
func (v *EntryVersion) Save() error {
	if v.State() != Added {
		return nil
	}
	if err := v.Insert(); err != nil {
		return err
	}
	v.new = false
	return nil
}

func (v *EntryVersion) Insert() error {
	query := `
		INSERT INTO entry_versions(
			id,
			entry_id,
			version_number,
			content_snapshot,
			commit_message,
			committed_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := CurrentDB().Client().Exec(query,
		v.ID,
		v.EntryID,
		v.VersionNumber,
		v.ContentSnapshot.ToJSON(),
		v.CommitMessage,
		timeToSQL(v.CommittedAt),
	)
	return err
}

/* Queries */

const versionColumns = `
	id, entry_id, version_number, content_snapshot, commit_message, committed_at`

func scanVersion(row interface{ Scan(dest ...any) error }) (*EntryVersion, error) {
	var v EntryVersion
	var snapshot string
	var committedAt string

	err := row.Scan(
		&v.ID,
		&v.EntryID,
		&v.VersionNumber,
		&snapshot,
		&v.CommitMessage,
		&committedAt,
	)
	if err != nil {
		return nil, err
	}

	v.ContentSnapshot, err = doctree.FromJSON(snapshot)
	if err != nil {
		return nil, fmt.Errorf("version %s carries invalid snapshot: %w", v.ID, err)
	}
	v.CommittedAt = timeFromSQL(committedAt)
	return &v, nil
}

// QueryVersion reads a single version matching the WHERE clause.
func QueryVersion(db SQLClient, whereClause string, args ...any) (*EntryVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM entry_versions ` + whereClause + `;`
	version, err := scanVersion(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return version, err
}

// QueryVersions reads every version matching the WHERE clause.
func QueryVersions(db SQLClient, whereClause string, args ...any) ([]*EntryVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM entry_versions ` + whereClause + `;`
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*EntryVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}
