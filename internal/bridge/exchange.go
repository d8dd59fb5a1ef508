package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/inkstream/inkstream/pkg/text"
)

var (
	// ErrExchangePending rejects a second export while one is outstanding.
	ErrExchangePending = errors.New("an exchange is already pending")
	// ErrNoPending rejects cancel or import without an outstanding export.
	ErrNoPending = errors.New("no pending exchange")
	// ErrKeyMismatch rejects a structured reply belonging to another exchange.
	ErrKeyMismatch = errors.New("bridge key mismatch")
	// ErrNotStructured rejects a reply failing envelope validation.
	ErrNotStructured = errors.New("reply is not a structured response")
	// ErrEmptyResponse rejects an empty paste before parsing begins.
	ErrEmptyResponse = errors.New("nothing to import")
)

// Pending is the record of one outstanding export awaiting its reply.
// A stream holds at most one; the exchange key gates the reply back in.
type Pending struct {
	Key       string
	StreamID  string
	Refs      []StagedRef
	Directive Directive
	CreatedAt time.Time
}

// KeyMismatchError reports a structurally valid reply carrying the wrong
// key, so the user understands the reply belongs to a different exchange.
type KeyMismatchError struct {
	Got  string
	Want string
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("bridge key mismatch: reply carries %q, exchange expects %q", e.Got, e.Want)
}

func (e *KeyMismatchError) Is(target error) bool {
	return target == ErrKeyMismatch
}

// Accept parses a raw reply and checks it against the pending exchange.
//
// The returned envelope is never nil for a non-blank input, even on error:
// a rejected reply still carries its warnings and fallback content so the
// caller can surface them while the exchange stays pending.
func (p *Pending) Accept(raw string) (*Envelope, error) {
	if text.IsBlank(raw) {
		return nil, ErrEmptyResponse
	}
	env := ParseResponse(raw)
	if !env.IsStructured {
		return env, ErrNotStructured
	}
	if env.ExchangeKey != p.Key {
		return env, &KeyMismatchError{Got: env.ExchangeKey, Want: p.Key}
	}
	return env, nil
}
