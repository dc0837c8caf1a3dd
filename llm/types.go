// Package llm defines the completion provider contract and its
// implementations for the hosted language-model APIs.
package llm

import (
	"context"
	"strings"
)

// Message is a single role-tagged turn sent to a provider.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is the common interface for all completion providers.
type Provider interface {
	// Chat sends the ordered turns and returns the completion text.
	// An empty model falls back to the configured default model.
	Chat(ctx context.Context, messages []Message, model string) (string, error)

	// GenerateTitle generates a short title for a conversation.
	GenerateTitle(ctx context.Context, messages []Message) (string, error)

	// Name returns the provider display name.
	Name() string

	// Models returns the list of supported models.
	Models() []string

	// ValidateConfig validates the provider configuration.
	ValidateConfig() error
}

// Config represents provider configuration.
type Config struct {
	ProviderName string // Display name for the provider
	APIKey       string
	BaseURL      string
	Model        string
	Models       []string // Available models list
	Timeout      int      // seconds
	MaxTokens    int
	Temperature  float64
}

// cleanTitle cleans up a generated title by removing quotes and extra
// whitespace.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, "\"'")
	title = strings.TrimSpace(title)

	if len(title) > 100 {
		title = title[:100] + "..."
	}
	if title == "" {
		title = "New Chat"
	}
	return title
}
