package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// fakeProvider records calls and answers from configurable stubs. A nil stub
// fails the call, which doubles as a "provider must not be contacted" check.
type fakeProvider struct {
	completeFn func(messages []openai.ChatCompletionMessageParamUnion) (string, error)
	generateFn func(prompt string) (string, error)
	describeFn func(prompt, imageDataURL string) (string, error)

	completeCalls [][]openai.ChatCompletionMessageParamUnion
	generateCalls []string
	describeCalls []string
}

func (f *fakeProvider) Complete(_ context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	f.completeCalls = append(f.completeCalls, messages)
	if f.completeFn == nil {
		return "", errors.New("unexpected Complete call")
	}
	return f.completeFn(messages)
}

func (f *fakeProvider) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.generateCalls = append(f.generateCalls, prompt)
	if f.generateFn == nil {
		return "", errors.New("unexpected GenerateImage call")
	}
	return f.generateFn(prompt)
}

func (f *fakeProvider) DescribeImage(_ context.Context, prompt, imageDataURL string) (string, error) {
	f.describeCalls = append(f.describeCalls, imageDataURL)
	if f.describeFn == nil {
		return "", errors.New("unexpected DescribeImage call")
	}
	return f.describeFn(prompt, imageDataURL)
}

// newTestRelay builds a Relay on a fresh in-memory database with the schema
// migrated, so each test starts from an empty store.
func newTestRelay(t *testing.T, provider Provider) *Relay {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One pooled connection, or every connection would see its own empty
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	r := New(context.Background(), zaptest.NewLogger(t), provider, db, "test-token", Config{
		SystemPrompt:    "دستیار {{USERNAME}} هستی",
		ContextWindow:   10,
		DailyImageLimit: 3,
		AdminIDs:        []int64{42},
	})
	require.NoError(t, r.setupDB())

	return r
}
