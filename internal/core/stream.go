package core

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/inkstream/inkstream/pkg/clock"
)

// Stream is a named sequence of entries.
type Stream struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Color       string
	Pinned      bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// EntryCount is populated by list queries, not persisted.
	EntryCount int

	new     bool
	stale   bool
	deleted bool
}

func NewStream(title string) *Stream {
	now := clock.Now()
	return &Stream{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		new:       true,
		stale:     true,
	}
}

func (s *Stream) Rename(title string) {
	if s.Title != title {
		s.Title = title
		s.stale = true
	}
}

func (s *Stream) Describe(description string) {
	if s.Description != description {
		s.Description = description
		s.stale = true
	}
}

func (s *Stream) SetPinned(pinned bool) {
	if s.Pinned != pinned {
		s.Pinned = pinned
		s.stale = true
	}
}

func (s *Stream) SetTags(tags []string) {
	s.Tags = tags
	s.stale = true
}

// MarkDeleted marks the stream for deletion on the next save.
func (s *Stream) MarkDeleted() {
	s.deleted = true
}

func (s *Stream) State() State {
	if s.deleted {
		return Deleted
	}
	if s.new {
		return Added
	}
	if s.stale {
		return Modified
	}
	return None
}

func (s *Stream) Save() error {
	var err error
	switch s.State() {
	case Added:
		err = s.Insert()
	case Modified:
		err = s.Update()
	case Deleted:
		err = s.Delete()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	s.new = false
	s.stale = false
	return nil
}

func (s *Stream) Insert() error {
	query := `
		INSERT INTO streams(
			id,
			title,
			description,
			tags,
			color,
			pinned,
			created_at,
			updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := CurrentDB().Client().Exec(query,
		s.ID,
		s.Title,
		s.Description,
		jsonToSQL(s.Tags),
		s.Color,
		s.Pinned,
		timeToSQL(s.CreatedAt),
		timeToSQL(s.UpdatedAt),
	)
	return err
}

func (s *Stream) Update() error {
	s.UpdatedAt = clock.Now()
	query := `
		UPDATE streams
		SET
			title = ?,
			description = ?,
			tags = ?,
			color = ?,
			pinned = ?,
			updated_at = ?
		WHERE id = ?;
	`
	_, err := CurrentDB().Client().Exec(query,
		s.Title,
		s.Description,
		jsonToSQL(s.Tags),
		s.Color,
		s.Pinned,
		timeToSQL(s.UpdatedAt),
		s.ID,
	)
	return err
}

func (s *Stream) Delete() error {
	// Entries, versions, and pending blocks follow through FK cascades
	query := `DELETE FROM streams WHERE id = ?;`
	_, err := CurrentDB().Client().Exec(query, s.ID)
	return err
}

// Touch bumps the update timestamp, moving the stream up in listings.
func (s *Stream) Touch() error {
	s.UpdatedAt = clock.Now()
	query := `UPDATE streams SET updated_at = ? WHERE id = ?;`
	_, err := CurrentDB().Client().Exec(query, timeToSQL(s.UpdatedAt), s.ID)
	return err
}

/* Queries */

// QueryStream reads a single stream matching the WHERE clause.
// No match returns (nil, nil) like the sql package's convention for rows.
func QueryStream(db SQLClient, whereClause string, args ...any) (*Stream, error) {
	var s Stream
	var tagsRaw string
	var createdAt string
	var updatedAt string

	query := `
		SELECT id, title, description, tags, color, pinned, created_at, updated_at
		FROM streams
		` + whereClause + `;`
	err := db.QueryRow(query, args...).Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&tagsRaw,
		&s.Color,
		&s.Pinned,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Tags = tagsFromSQL(tagsRaw)
	s.CreatedAt = timeFromSQL(createdAt)
	s.UpdatedAt = timeFromSQL(updatedAt)
	return &s, nil
}

// QueryStreams reads every stream, pinned first, then by last update.
func QueryStreams(db SQLClient) ([]*Stream, error) {
	query := `
		SELECT s.id, s.title, s.description, s.tags, s.color, s.pinned,
			s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM entries e WHERE e.stream_id = s.id) AS entry_count
		FROM streams s
		ORDER BY s.pinned DESC, s.updated_at DESC;`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []*Stream
	for rows.Next() {
		var s Stream
		var tagsRaw string
		var createdAt string
		var updatedAt string
		err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Description,
			&tagsRaw,
			&s.Color,
			&s.Pinned,
			&createdAt,
			&updatedAt,
			&s.EntryCount,
		)
		if err != nil {
			return nil, err
		}
		s.Tags = tagsFromSQL(tagsRaw)
		s.CreatedAt = timeFromSQL(createdAt)
		s.UpdatedAt = timeFromSQL(updatedAt)
		streams = append(streams, &s)
	}
	return streams, rows.Err()
}

func tagsFromSQL(raw string) []string {
	var tags []string
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}
