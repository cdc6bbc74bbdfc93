// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"

	"github.com/liushuangls/go-anthropic/v2"
)

// Claude completes prompts with the Anthropic Messages API.
type Claude struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewClaude builds a completer. An empty baseURL uses the public API.
func NewClaude(apiKey, model, baseURL string, maxTokens int) *Claude {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Claude{
		client:    anthropic.NewClient(apiKey, opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends prompt as a single user turn under system.
func (c *Claude) Complete(ctx context.Context, system, prompt string) (Reply, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: system,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return Reply{}, err
	}
	for _, block := range resp.Content {
		if block.Text != nil && *block.Text != "" {
			return Reply{
				Text:  *block.Text,
				Usage: Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens},
			}, nil
		}
	}
	return Reply{}, ErrEmptyReply
}
