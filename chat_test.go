package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageText(t *testing.T, msg openai.ChatCompletionMessageParamUnion) string {
	t.Helper()
	switch {
	case msg.OfSystem != nil:
		return msg.OfSystem.Content.OfString.Value
	case msg.OfUser != nil:
		return msg.OfUser.Content.OfString.Value
	case msg.OfAssistant != nil:
		return msg.OfAssistant.Content.OfString.Value
	}
	t.Fatal("unexpected message shape")
	return ""
}

func TestConverseFirstExchange(t *testing.T) {
	provider := &fakeProvider{
		completeFn: func([]openai.ChatCompletionMessageParamUnion) (string, error) {
			return "hi", nil
		},
	}
	r := newTestRelay(t, provider)
	ctx := context.Background()

	reply, err := r.converse(ctx, 100, "alice", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)

	// Empty memory means the provider saw only the system prompt and the new
	// user turn.
	require.Len(t, provider.completeCalls, 1)
	sent := provider.completeCalls[0]
	require.Len(t, sent, 2)
	require.NotNil(t, sent[0].OfSystem)
	assert.Equal(t, "دستیار alice هستی", messageText(t, sent[0]))
	require.NotNil(t, sent[1].OfUser)
	assert.Equal(t, "hello", messageText(t, sent[1]))

	entries, err := r.readContext(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, roleUser, entries[0].Role)
	assert.Equal(t, "hello", entries[0].Content)
	assert.Equal(t, roleAssistant, entries[1].Role)
	assert.Equal(t, "hi", entries[1].Content)
}

func TestConverseCarriesContextWindow(t *testing.T) {
	provider := &fakeProvider{
		completeFn: func([]openai.ChatCompletionMessageParamUnion) (string, error) {
			return "again", nil
		},
	}
	r := newTestRelay(t, provider)
	ctx := context.Background()

	require.NoError(t, r.appendExchange(ctx, 100, "hello", "hi"))

	_, err := r.converse(ctx, 100, "alice", "how are you")
	require.NoError(t, err)

	require.Len(t, provider.completeCalls, 1)
	sent := provider.completeCalls[0]
	// system prompt + two remembered turns + the new user turn
	require.Len(t, sent, 4)
	require.NotNil(t, sent[1].OfUser)
	assert.Equal(t, "hello", messageText(t, sent[1]))
	require.NotNil(t, sent[2].OfAssistant)
	assert.Equal(t, "hi", messageText(t, sent[2]))
	assert.Equal(t, "how are you", messageText(t, sent[3]))
}

func TestConverseProviderFailureWritesNothing(t *testing.T) {
	provider := &fakeProvider{
		completeFn: func([]openai.ChatCompletionMessageParamUnion) (string, error) {
			return "", errors.New("provider down")
		},
	}
	r := newTestRelay(t, provider)
	ctx := context.Background()

	_, err := r.converse(ctx, 100, "alice", "hello")
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)

	count, err := r.countMemoryEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestConverseWindowBoundsRequest(t *testing.T) {
	provider := &fakeProvider{
		completeFn: func([]openai.ChatCompletionMessageParamUnion) (string, error) {
			return "ok", nil
		},
	}
	r := newTestRelay(t, provider)
	r.config.ContextWindow = 2
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.appendExchange(ctx, 100, "q", "a"))
	}

	_, err := r.converse(ctx, 100, "alice", "latest")
	require.NoError(t, err)

	require.Len(t, provider.completeCalls, 1)
	// system prompt + 2 window entries + the new user turn
	assert.Len(t, provider.completeCalls[0], 4)
}
