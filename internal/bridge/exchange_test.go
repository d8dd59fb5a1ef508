package bridge_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingExchange() *bridge.Pending {
	return &bridge.Pending{
		Key:      "k3y0",
		StreamID: "s1",
		Refs: []bridge.StagedRef{
			{EntryID: "e1", Version: 1},
		},
		Directive: bridge.DirectiveDump,
	}
}

func structuredReply(key string) string {
	return fmt.Sprintf(`<bridge-response bridge="%s" directive="DUMP">
<model>m</model>
<summary>s</summary>
<content>The merged document.</content>
</bridge-response>`, key)
}

func TestPendingAccept(t *testing.T) {
	pending := pendingExchange()

	env, err := pending.Accept(structuredReply("k3y0"))
	require.NoError(t, err)
	assert.True(t, env.IsStructured)
	assert.Equal(t, "The merged document.", env.Content)
}

func TestPendingAcceptEmptyInput(t *testing.T) {
	pending := pendingExchange()

	for _, raw := range []string{"", "   ", "\n\t"} {
		env, err := pending.Accept(raw)
		require.ErrorIs(t, err, bridge.ErrEmptyResponse)
		assert.Nil(t, env)
	}
}

func TestPendingAcceptUnstructured(t *testing.T) {
	pending := pendingExchange()

	env, err := pending.Accept("just some prose without any envelope")
	require.ErrorIs(t, err, bridge.ErrNotStructured)
	// The envelope still carries the fallback content and warnings
	require.NotNil(t, env)
	assert.Equal(t, "just some prose without any envelope", env.Content)
	assert.NotEmpty(t, env.Warnings)
}

func TestPendingAcceptKeyMismatch(t *testing.T) {
	pending := pendingExchange()

	env, err := pending.Accept(structuredReply("zzzz"))
	require.ErrorIs(t, err, bridge.ErrKeyMismatch)
	require.NotNil(t, env)
	assert.True(t, env.IsStructured)

	// The mismatch is reported distinctly with both keys
	var mismatch *bridge.KeyMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "zzzz", mismatch.Got)
	assert.Equal(t, "k3y0", mismatch.Want)
}

func TestPendingAcceptKeyGating(t *testing.T) {
	// Only the exact key is accepted
	pending := pendingExchange()

	for _, key := range []string{"K3Y0", "k3y", "k3y00", "aaaa"} {
		_, err := pending.Accept(structuredReply(key))
		assert.ErrorIs(t, err, bridge.ErrKeyMismatch, "key %q must not be accepted", key)
	}
	_, err := pending.Accept(structuredReply("k3y0"))
	assert.NoError(t, err)
}

func TestPendingAcceptMalformedIsNotAMismatch(t *testing.T) {
	// A malformed reply is reported as unstructured even when it embeds
	// a different key, so the user retries instead of hunting the wrong
	// exchange.
	pending := pendingExchange()

	_, err := pending.Accept("<!-- bridge: zzzz -->\nlegacy body")
	assert.ErrorIs(t, err, bridge.ErrNotStructured)
	assert.NotErrorIs(t, err, bridge.ErrKeyMismatch)
}
