package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// AnthropicProvider implements the Provider interface for the Claude
// API.
type AnthropicProvider struct {
	client anthropic.Client
	config Config
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(config Config) *AnthropicProvider {
	opts := []option.RequestOption{}
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.Model == "" {
		config.Model = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	if config.ProviderName == "" {
		config.ProviderName = "Claude"
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		config: config,
	}
}

// Chat implements non-streaming chat. System turns are folded into
// the request's system field as the Claude API requires.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message, model string) (string, error) {
	if p.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	if model == "" {
		model = p.config.Model
	}

	var system []anthropic.TextBlockParam
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(p.config.MaxTokens),
		Temperature: anthropic.Float(p.config.Temperature),
		Messages:    turns,
	}
	if len(system) > 0 {
		params.System = system
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.wrapError(err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", &ProviderError{
			Provider: p.config.ProviderName,
			Kind:     ErrorKindUpstream,
			Err:      errors.New("no text content in response"),
		}
	}
	return out.String(), nil
}

func (p *AnthropicProvider) wrapError(err error) error {
	kind := ErrorKindUpstream
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		kind = classifyStatus(apiErr.StatusCode)
	}
	return &ProviderError{Provider: p.config.ProviderName, Kind: kind, Err: err}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return p.config.ProviderName
}

// Models returns supported models.
func (p *AnthropicProvider) Models() []string {
	if len(p.config.Models) > 0 {
		return p.config.Models
	}
	return []string{
		string(anthropic.ModelClaude3_7SonnetLatest),
		string(anthropic.ModelClaude3_5HaikuLatest),
	}
}

// GenerateTitle generates a short title based on the conversation.
func (p *AnthropicProvider) GenerateTitle(ctx context.Context, messages []Message) (string, error) {
	titlePrompt := []Message{
		{
			Role:    RoleSystem,
			Content: "Generate a short, descriptive title (3-8 words) for the conversation, in the conversation's language. Only output the title.",
		},
	}
	maxMessages := 4
	for i, msg := range messages {
		if i >= maxMessages {
			break
		}
		titlePrompt = append(titlePrompt, msg)
	}
	titlePrompt = append(titlePrompt, Message{
		Role:    RoleUser,
		Content: "Based on the above conversation, generate a short title (3-8 words):",
	})

	title, err := p.Chat(ctx, titlePrompt, "")
	if err != nil {
		return "", errors.Wrap(err, "failed to generate title")
	}
	return cleanTitle(title), nil
}

// ValidateConfig validates the configuration.
func (p *AnthropicProvider) ValidateConfig() error {
	if p.config.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

var _ Provider = (*AnthropicProvider)(nil)
