package core

import (
	"fmt"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/clipboard"
	"golang.org/x/text/unicode/norm"
)

// ExportStream serializes the staged entries of a stream into a prompt,
// records the pending exchange, and copies the prompt to the clipboard.
//
// Only legal while no exchange is pending on the stream.
func (r *Repository) ExportStream(streamID string, directive bridge.Directive) (*bridge.Prompt, error) {
	pending, err := r.PendingBlock(streamID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w (key %s)", bridge.ErrExchangePending, pending.BridgeKey)
	}

	entries, err := r.StagedEntries(streamID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoStagedEntry
	}

	var staged []bridge.StagedEntry
	for _, entry := range entries {
		staged = append(staged, bridge.StagedEntry{
			ID:        entry.ID,
			Role:      entry.Role,
			Sequence:  entry.SequenceID,
			Version:   entry.VersionHead,
			CreatedAt: entry.CreatedAt,
			Doc:       entry.Content,
		})
	}

	prompt, err := bridge.BuildPrompt(staged, directive)
	if err != nil {
		return nil, err
	}

	db := CurrentDB()
	if err := db.BeginTransaction(); err != nil {
		return nil, err
	}
	defer db.RollbackTransaction()

	block := NewPendingBlock(streamID, prompt)
	if err := block.Save(); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.SetStaged(false)
		if err := entry.Save(); err != nil {
			return nil, err
		}
	}

	if err := db.CommitTransaction(); err != nil {
		return nil, err
	}

	// The exchange is recorded at this point. A clipboard failure must still
	// reach the caller, along with the prompt to copy by hand.
	if err := clipboard.WriteText(prompt.Text); err != nil {
		return prompt, fmt.Errorf("writing prompt to clipboard: %w", err)
	}

	CurrentLogger().Infof("Exported %d entries with key %s (~%d tokens)",
		len(entries), prompt.ExchangeKey, prompt.ApproxTokens)
	return prompt, nil
}

// CancelExchange discards the pending exchange of a stream and re-marks
// its staged references as staged. No document content is modified.
func (r *Repository) CancelExchange(streamID string) error {
	block, err := r.PendingBlock(streamID)
	if err != nil {
		return err
	}
	if block == nil {
		return bridge.ErrNoPending
	}

	db := CurrentDB()
	if err := db.BeginTransaction(); err != nil {
		return err
	}
	defer db.RollbackTransaction()

	for _, ref := range block.StagedRefs {
		entry, err := QueryEntry(db.Client(), "WHERE id = ?", ref.EntryID)
		if err != nil {
			return err
		}
		if entry == nil {
			// The entry was deleted while the exchange was pending
			continue
		}
		entry.SetStaged(true)
		if err := entry.Save(); err != nil {
			return err
		}
	}
	if err := block.Delete(); err != nil {
		return err
	}

	return db.CommitTransaction()
}

// ImportReply validates a pasted reply against the pending exchange and,
// when accepted, splices it into the stream as a new AI entry.
//
// A rejected reply leaves the exchange pending; the returned envelope
// carries the warnings to surface.
func (r *Repository) ImportReply(streamID string, raw string) (*Entry, *bridge.Envelope, error) {
	block, err := r.PendingBlock(streamID)
	if err != nil {
		return nil, nil, err
	}
	if block == nil {
		return nil, nil, bridge.ErrNoPending
	}

	// Pasted text arrives in whatever normalization form the source
	// editor used
	raw = norm.NFC.String(raw)

	env, err := block.ToPending().Accept(raw)
	if err != nil {
		return nil, env, err
	}

	db := CurrentDB()
	if err := db.BeginTransaction(); err != nil {
		return nil, env, err
	}
	defer db.RollbackTransaction()

	entry := NewEntry(streamID, RoleAI, doctree.Parse(env.Content))
	sequence, err := r.nextSequenceID(streamID)
	if err != nil {
		return nil, env, err
	}
	entry.SequenceID = sequence
	entry.ContextRefs = block.StagedRefs
	entry.AiMetadata = &AiMetadata{
		Model:     env.ModelName,
		Directive: directiveName(env.Directive),
		BridgeKey: env.ExchangeKey,
		Summary:   env.Summary,
	}
	if err := entry.Save(); err != nil {
		return nil, env, err
	}
	if err := block.Delete(); err != nil {
		return nil, env, err
	}

	if err := db.CommitTransaction(); err != nil {
		return nil, env, err
	}

	CurrentLogger().Infof("Imported reply %s as entry %s", env.ExchangeKey, entry.ID)
	return entry, env, nil
}

// ImportFromClipboard imports whatever reply the clipboard holds.
func (r *Repository) ImportFromClipboard(streamID string) (*Entry, *bridge.Envelope, error) {
	raw, err := clipboard.ReadText()
	if err != nil {
		return nil, nil, fmt.Errorf("reading clipboard: %w", err)
	}
	return r.ImportReply(streamID, raw)
}

func directiveName(directive *bridge.Directive) string {
	if directive == nil {
		return ""
	}
	return string(*directive)
}
