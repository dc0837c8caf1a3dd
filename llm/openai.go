package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI and
// OpenAI-compatible endpoints.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider. An empty API key is
// allowed here; it is rejected at request time.
func NewOpenAIProvider(config Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.Model == "" {
		config.Model = openai.GPT3Dot5Turbo
	}
	if config.ProviderName == "" {
		config.ProviderName = "OpenAI"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Chat implements non-streaming chat.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, model string) (string, error) {
	if p.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	if model == "" {
		model = p.config.Model
	}

	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    openaiMessages,
		MaxTokens:   p.config.MaxTokens,
		Temperature: float32(p.config.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{
			Provider: p.config.ProviderName,
			Kind:     ErrorKindUpstream,
			Err:      errors.New("no response from OpenAI"),
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// wrapError classifies an API failure into the shared taxonomy.
func (p *OpenAIProvider) wrapError(err error) error {
	kind := ErrorKindUpstream
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		kind = classifyStatus(apiErr.HTTPStatusCode)
	}
	return &ProviderError{Provider: p.config.ProviderName, Kind: kind, Err: err}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return p.config.ProviderName
}

// Models returns supported models.
func (p *OpenAIProvider) Models() []string {
	if len(p.config.Models) > 0 {
		return p.config.Models
	}
	return []string{
		openai.GPT3Dot5Turbo,
		openai.GPT4,
		openai.GPT4TurboPreview,
		"gpt-4-turbo",
	}
}

// GenerateTitle generates a short title based on the conversation.
func (p *OpenAIProvider) GenerateTitle(ctx context.Context, messages []Message) (string, error) {
	titlePrompt := []Message{
		{
			Role:    RoleSystem,
			Content: "You are a helpful assistant that generates short, concise titles for conversations. Generate a title in the same language as the conversation. The title should be 3-8 words, descriptive, and capture the main topic. Only output the title, nothing else.",
		},
	}

	// Limit context to the first few messages to avoid token issues
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
func (p *OpenAIProvider) ValidateConfig() error {
	if p.config.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

var _ Provider = (*OpenAIProvider)(nil)
