package deepseek

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
	"github.com/nexchat/nexchat-backend/internal/config"
	"github.com/nexchat/nexchat-backend/internal/providers"
)

// Provider talks to a DeepSeek (OpenAI-compatible) chat completion endpoint
type Provider struct {
	config config.ProviderConfig
	client *openai.Client
}

// NewProvider creates a new DeepSeek provider
func NewProvider(cfg config.ProviderConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("DeepSeek API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.config.Name
}

// Complete performs a non-streaming completion
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, chaterr.Provider("completion request failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, chaterr.Wrap(chaterr.KindProvider, "empty completion", providers.ErrNoChoices)
	}

	return &providers.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
	}, nil
}
