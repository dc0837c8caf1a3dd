package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	require.Equal(t, ErrorKindAuth, classifyStatus(401))
	require.Equal(t, ErrorKindAuth, classifyStatus(403))
	require.Equal(t, ErrorKindRateLimit, classifyStatus(429))
	require.Equal(t, ErrorKindBadRequest, classifyStatus(400))
	require.Equal(t, ErrorKindUpstream, classifyStatus(500))
	require.Equal(t, ErrorKindUpstream, classifyStatus(502))
}

func TestProviderErrorMessagesAreDistinct(t *testing.T) {
	kinds := []ErrorKind{ErrorKindAuth, ErrorKindRateLimit, ErrorKindBadRequest, ErrorKindUpstream}
	seen := map[string]bool{}
	for _, kind := range kinds {
		err := &ProviderError{Provider: "OpenAI", Kind: kind, Err: context.DeadlineExceeded}
		msg := err.Error()
		require.False(t, seen[msg], "duplicate message for kind %s", kind)
		seen[msg] = true
	}
}

func TestProviderErrorWording(t *testing.T) {
	authErr := &ProviderError{Provider: "OpenAI", Kind: ErrorKindAuth}
	require.Contains(t, authErr.Error(), "API key is invalid")

	rateErr := &ProviderError{Provider: "OpenAI", Kind: ErrorKindRateLimit}
	require.Contains(t, rateErr.Error(), "request limit exceeded")

	badErr := &ProviderError{Provider: "OpenAI", Kind: ErrorKindBadRequest}
	require.Contains(t, badErr.Error(), "invalid request")
}

func TestOpenAIWrapError(t *testing.T) {
	p := NewOpenAIProvider(Config{APIKey: "sk-test"})

	err := p.wrapError(&openai.APIError{HTTPStatusCode: 429, Message: "slow down"})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, ErrorKindRateLimit, provErr.Kind)

	err = p.wrapError(context.DeadlineExceeded)
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, ErrorKindUpstream, provErr.Kind)
}

func TestChatWithoutAPIKey(t *testing.T) {
	p := NewOpenAIProvider(Config{})
	_, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.ErrorIs(t, err, ErrMissingAPIKey)

	a := NewAnthropicProvider(Config{})
	_, err = a.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestValidateConfig(t *testing.T) {
	require.Error(t, NewOpenAIProvider(Config{}).ValidateConfig())
	require.NoError(t, NewOpenAIProvider(Config{APIKey: "sk-test"}).ValidateConfig())
}

func TestCleanTitle(t *testing.T) {
	require.Equal(t, "A short title", cleanTitle(`  "A short title"  `))
	require.Equal(t, "New Chat", cleanTitle("   "))
	long := strings.Repeat("x", 150)
	cleaned := cleanTitle(long)
	require.Len(t, cleaned, 103)
	require.True(t, strings.HasSuffix(cleaned, "..."))
}
