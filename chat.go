package relay

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// converse runs one text exchange: system prompt, the recent context window,
// then the new user turn. Memory is written only after the provider answered,
// so a failed round leaves no trace.
func (r *Relay) converse(ctx context.Context, userID int64, username, text string) (string, error) {
	entries, err := r.readContext(ctx, userID, r.config.ContextWindow)
	if err != nil {
		return "", err
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(entries)+2)
	messages = append(messages, r.buildSystemPromptMessage(username))
	for _, entry := range entries {
		messages = append(messages, entryToMessage(entry))
	}
	messages = append(messages, openai.UserMessage(text))

	callCtx, cancel := r.providerContext(ctx)
	defer cancel()

	reply, err := r.provider.Complete(callCtx, messages)
	if err != nil {
		return "", generationErr("complete", err)
	}

	if err := r.appendExchange(ctx, userID, text, reply); err != nil {
		return "", err
	}

	r.logger.Info("exchange recorded",
		zap.Int64("UserID", userID),
		zap.Int("ContextMessages", len(entries)),
	)

	return reply, nil
}

// buildSystemPromptMessage fills the prompt template for this user.
func (r *Relay) buildSystemPromptMessage(username string) openai.ChatCompletionMessageParamUnion {
	prompt := strings.ReplaceAll(r.config.SystemPrompt, "{{USERNAME}}", username)
	return openai.SystemMessage(prompt)
}

func entryToMessage(entry memoryEntry) openai.ChatCompletionMessageParamUnion {
	switch entry.Role {
	case roleAssistant:
		return openai.AssistantMessage(entry.Content)
	case roleSystem:
		return openai.SystemMessage(entry.Content)
	default:
		return openai.UserMessage(entry.Content)
	}
}
