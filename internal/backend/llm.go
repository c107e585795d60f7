package backend

import (
	"context"

	"paige/internal/llm"
)

// LLMClient answers prompts with a chat model directly.
type LLMClient struct {
	llm          llm.Client
	systemPrompt string
}

func NewLLMClient(c llm.Client, systemPrompt string) *LLMClient {
	return &LLMClient{llm: c, systemPrompt: systemPrompt}
}

func (c *LLMClient) Ask(ctx context.Context, prompt string) (string, error) {
	var msgs []llm.Message
	if c.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: c.systemPrompt})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})
	resp, err := c.llm.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
