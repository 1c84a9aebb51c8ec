package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/domain/gateway"

	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("language model returned no choices")

// OpenAICompleter sends single-turn chat completions to the OpenAI API
type OpenAICompleter struct {
	client       *openai.Client
	defaultModel string
}

func NewOpenAICompleter(cfg config.OpenAIConfig) *OpenAICompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAICompleter{
		client:       openai.NewClientWithConfig(clientCfg),
		defaultModel: cfg.ModelChat,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, req gateway.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
