package core

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/pkg/clock"
)

// PendingBlock is the persisted record of one outstanding export.
// At most one exists per stream; it is the source of truth for the
// exchange state machine.
type PendingBlock struct {
	ID         string
	StreamID   string
	BridgeKey  string
	StagedRefs []bridge.StagedRef
	Directive  bridge.Directive
	CreatedAt  time.Time

	new bool
}

func NewPendingBlock(streamID string, prompt *bridge.Prompt) *PendingBlock {
	return &PendingBlock{
		ID:         uuid.NewString(),
		StreamID:   streamID,
		BridgeKey:  prompt.ExchangeKey,
		StagedRefs: prompt.StagedRefs,
		Directive:  prompt.Directive,
		CreatedAt:  clock.Now(),
		new:        true,
	}
}

// ToPending converts the persisted row into the exchange guard.
func (p *PendingBlock) ToPending() *bridge.Pending {
	return &bridge.Pending{
		Key:       p.BridgeKey,
		StreamID:  p.StreamID,
		Refs:      p.StagedRefs,
		Directive: p.Directive,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PendingBlock) State() State {
	if p.new {
		return Added
	}
	return None
}

// Save persists the block. Pending blocks are created and deleted, never updated.
func (p *PendingBlock) Save() error {
	if p.State() != Added {
		return nil
	}
	if err := p.Insert(); err != nil {
		return err
	}
	p.new = false
	return nil
}

func (p *PendingBlock) Insert() error {
	query := `
		INSERT INTO pending_blocks(
			id,
			stream_id,
			bridge_key,
			staged_refs,
			directive,
			created_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := CurrentDB().Client().Exec(query,
		p.ID,
		p.StreamID,
		p.BridgeKey,
		jsonToSQL(p.StagedRefs),
		string(p.Directive),
		timeToSQL(p.CreatedAt),
	)
	return err
}

func (p *PendingBlock) Delete() error {
	query := `DELETE FROM pending_blocks WHERE id = ?;`
	_, err := CurrentDB().Client().Exec(query, p.ID)
	return err
}

/* Queries */

// QueryPendingBlock reads the latest pending block matching the WHERE clause.
func QueryPendingBlock(db SQLClient, whereClause string, args ...any) (*PendingBlock, error) {
	var p PendingBlock
	var stagedRefs string
	var directive string
	var createdAt string

	query := `
		SELECT id, stream_id, bridge_key, staged_refs, directive, created_at
		FROM pending_blocks
		` + whereClause + `;`
	err := db.QueryRow(query, args...).Scan(
		&p.ID,
		&p.StreamID,
		&p.BridgeKey,
		&stagedRefs,
		&directive,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stagedRefs), &p.StagedRefs); err != nil {
		return nil, fmt.Errorf("pending block %s carries invalid staged refs: %w", p.ID, err)
	}
	p.Directive = bridge.Directive(directive)
	p.CreatedAt = timeFromSQL(createdAt)
	return &p, nil
}
