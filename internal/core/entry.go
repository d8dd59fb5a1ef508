package core

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/clock"
)

// Roles an entry can carry.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// AiMetadata describes how an imported entry was produced.
type AiMetadata struct {
	Model     string `json:"model,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Directive string `json:"directive,omitempty"`
	BridgeKey string `json:"bridgeKey,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// Entry is one block of rich content inside a stream.
type Entry struct {
	ID       string
	StreamID string
	Role     string

	// Content is replaced wholesale on edit, never mutated node-by-node.
	Content *doctree.Node

	SequenceID  int
	VersionHead int
	IsStaged    bool

	// ContextRefs are the staged references of the exchange an AI entry
	// replies to. Empty for user entries.
	ContextRefs []bridge.StagedRef

	AiMetadata *AiMetadata

	CreatedAt time.Time
	UpdatedAt time.Time

	new     bool
	stale   bool
	deleted bool
}

func NewEntry(streamID string, role string, content *doctree.Node) *Entry {
	now := clock.Now()
	return &Entry{
		ID:        uuid.NewString(),
		StreamID:  streamID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		new:       true,
		stale:     true,
	}
}

// ReplaceContent swaps in a new document tree.
func (e *Entry) ReplaceContent(content *doctree.Node) {
	e.Content = content
	e.stale = true
}

func (e *Entry) SetStaged(staged bool) {
	if e.IsStaged != staged {
		e.IsStaged = staged
		e.stale = true
	}
}

// MarkDeleted marks the entry for deletion on the next save.
func (e *Entry) MarkDeleted() {
	e.deleted = true
}

// PlainText flattens the entry content for search results and summaries.
func (e *Entry) PlainText() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.PlainText()
}

func (e *Entry) State() State {
	if e.deleted {
		return Deleted
	}
	if e.new {
		return Added
	}
	if e.stale {
		return Modified
	}
	return None
}

func (e *Entry) Save() error {
	var err error
	switch e.State() {
	case Added:
		err = e.Insert()
	case Modified:
		e.UpdatedAt = clock.Now()
		err = e.Update()
	case Deleted:
		err = e.Delete()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	e.new = false
	e.stale = false
	return nil
}

func (e *Entry) Insert() error {
	query := `
		INSERT INTO entries(
			id,
			stream_id,
			role,
			content,
			sequence_id,
			version_head,
			is_staged,
			context_refs,
			ai_metadata,
			created_at,
			updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := CurrentDB().Client().Exec(query,
		e.ID,
		e.StreamID,
		e.Role,
		e.Content.ToJSON(),
		e.SequenceID,
		e.VersionHead,
		e.IsStaged,
		jsonToSQL(e.ContextRefs),
		aiMetadataToSQL(e.AiMetadata),
		timeToSQL(e.CreatedAt),
		timeToSQL(e.UpdatedAt),
	)
	return err
}

func (e *Entry) Update() error {
	query := `
		UPDATE entries
		SET
			content = ?,
			version_head = ?,
			is_staged = ?,
			context_refs = ?,
			ai_metadata = ?,
			updated_at = ?
		WHERE id = ?;
	`
	_, err := CurrentDB().Client().Exec(query,
		e.Content.ToJSON(),
		e.VersionHead,
		e.IsStaged,
		jsonToSQL(e.ContextRefs),
		aiMetadataToSQL(e.AiMetadata),
		timeToSQL(e.UpdatedAt),
		e.ID,
	)
	return err
}

func (e *Entry) Delete() error {
	query := `DELETE FROM entries WHERE id = ?;`
	_, err := CurrentDB().Client().Exec(query, e.ID)
	return err
}

/* Queries */

const entryColumns = `
	id, stream_id, role, content, sequence_id, version_head,
	is_staged, context_refs, ai_metadata, created_at, updated_at`

func scanEntry(row interface{ Scan(dest ...any) error }) (*Entry, error) {
	var e Entry
	var content string
	var contextRefs string
	var aiMetadata sql.NullString
	var createdAt string
	var updatedAt string

	err := row.Scan(
		&e.ID,
		&e.StreamID,
		&e.Role,
		&content,
		&e.SequenceID,
		&e.VersionHead,
		&e.IsStaged,
		&contextRefs,
		&aiMetadata,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Content, err = doctree.FromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("entry %s carries invalid content: %w", e.ID, err)
	}
	if contextRefs != "" {
		if err := json.Unmarshal([]byte(contextRefs), &e.ContextRefs); err != nil {
			return nil, fmt.Errorf("entry %s carries invalid context refs: %w", e.ID, err)
		}
	}
	if aiMetadata.Valid && aiMetadata.String != "" {
		var metadata AiMetadata
		if err := json.Unmarshal([]byte(aiMetadata.String), &metadata); err != nil {
			return nil, fmt.Errorf("entry %s carries invalid AI metadata: %w", e.ID, err)
		}
		e.AiMetadata = &metadata
	}
	e.CreatedAt = timeFromSQL(createdAt)
	e.UpdatedAt = timeFromSQL(updatedAt)
	return &e, nil
}

// QueryEntry reads a single entry matching the WHERE clause.
func QueryEntry(db SQLClient, whereClause string, args ...any) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ` + whereClause + `;`
	entry, err := scanEntry(db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// QueryEntries reads every entry matching the WHERE clause.
func QueryEntries(db SQLClient, whereClause string, args ...any) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ` + whereClause + `;`
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func aiMetadataToSQL(metadata *AiMetadata) any {
	if metadata == nil {
		return nil
	}
	return jsonToSQL(metadata)
}
