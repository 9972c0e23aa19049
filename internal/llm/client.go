// Package llm wraps chat-completion providers behind a single client used
// for query extraction and narrative generation.
package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/config"
)

// Provider identifies a resolved chat-completion backend. All supported
// backends speak the OpenAI chat API, so one client type covers them with
// only the base URL and model varying.
type Provider struct {
	Name    string
	Model   string
	BaseURL string
	APIKey  string
}

// Credential ladder checked in order when no provider is configured
// explicitly. The first environment variable with a value wins.
var providerLadder = []struct {
	envKey  string
	name    string
	model   string
	baseURL string
}{
	{"OPENAI_API_KEY", "openai", "gpt-4o-mini", ""},
	{"DEEPSEEK_API_KEY", "deepseek", "deepseek-chat", "https://api.deepseek.com/v1"},
	{"GITHUB_TOKEN", "github", "gpt-4o-mini", "https://models.inference.ai.azure.com"},
	{"GEMINI_API_KEY", "gemini", "gemini-2.0-flash-exp", "https://generativelanguage.googleapis.com/v1beta/openai/"},
}

// ResolveProvider picks the chat backend. Explicit config wins; otherwise
// the environment is walked in ladder order.
func ResolveProvider(cfg *config.LLMConfig) (Provider, error) {
	if cfg.APIKey != "" {
		p := Provider{
			Name:    cfg.Provider,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
		}
		if p.Name == "" {
			p.Name = "openai"
		}
		if p.Model == "" {
			p.Model = "gpt-4o-mini"
		}
		return p, nil
	}

	for _, rung := range providerLadder {
		key := os.Getenv(rung.envKey)
		if key == "" {
			continue
		}
		p := Provider{Name: rung.name, Model: rung.model, BaseURL: rung.baseURL, APIKey: key}
		if cfg.Model != "" {
			p.Model = cfg.Model
		}
		return p, nil
	}

	return Provider{}, fmt.Errorf("no language model credentials found: set OPENAI_API_KEY, DEEPSEEK_API_KEY, GITHUB_TOKEN, or GEMINI_API_KEY")
}

// Completer is the narrow chat surface the extractor and narrator consume.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client is a chat-completion client bound to one resolved provider.
type Client struct {
	api      *openai.Client
	provider Provider
	logger   *common.Logger
}

// NewClient resolves a provider and builds a client for it.
func NewClient(cfg *config.LLMConfig, logger *common.Logger) (*Client, error) {
	provider, err := ResolveProvider(cfg)
	if err != nil {
		return nil, err
	}

	apiConfig := openai.DefaultConfig(provider.APIKey)
	if provider.BaseURL != "" {
		apiConfig.BaseURL = provider.BaseURL
	}

	logger.Info().
		Str("provider", provider.Name).
		Str("model", provider.Model).
		Msg("Language model client initialized")

	return &Client{
		api:      openai.NewClientWithConfig(apiConfig),
		provider: provider,
		logger:   logger,
	}, nil
}

// ProviderName returns the resolved backend name.
func (c *Client) ProviderName() string {
	return c.provider.Name
}

// Complete sends one system plus user message pair and returns the raw
// completion text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.provider.Model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion via %s: %v", common.ErrExternalService, c.provider.Name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion via %s returned no choices", common.ErrExternalService, c.provider.Name)
	}
	return resp.Choices[0].Message.Content, nil
}
