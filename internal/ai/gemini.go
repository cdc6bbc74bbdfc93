// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini completes prompts with the Google generative language API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGemini dials the API. Callers Close the completer when done.
func NewGemini(ctx context.Context, apiKey, model string, maxTokens int) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model, maxTokens: maxTokens}, nil
}

// Complete sends prompt with system as the model's system instruction.
func (c *Gemini) Complete(ctx context.Context, system, prompt string) (Reply, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	model.SetTemperature(0)
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.maxTokens))
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Reply{}, err
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	if b.Len() == 0 {
		return Reply{}, ErrEmptyReply
	}
	reply := Reply{Text: b.String()}
	if um := resp.UsageMetadata; um != nil {
		reply.Usage = Usage{InputTokens: int(um.PromptTokenCount), OutputTokens: int(um.CandidatesTokenCount)}
	}
	return reply, nil
}

// Close releases the underlying client.
func (c *Gemini) Close() error {
	return c.client.Close()
}
