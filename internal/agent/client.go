package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"insurance-ai-advisor/internal/dialogue"
)

// Per-1K-token prices in USD, mirrored from the provider price sheet.
// Models without an entry still report tokens, just with a zero cost.
var modelCosts = map[string]struct{ input, output float64 }{
	openai.GPT4oMini: {input: 0.00015, output: 0.00060},
	openai.GPT4o:     {input: 5.00 / 1000, output: 15.00 / 1000},
}

const usdToINR = 83.0

// Client wraps the OpenAI chat-completion API for the three provider roles
// (intent classification, profile extraction, reply generation). All calls
// run at temperature 0 with a 500-token cap.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

func NewClient(apiKey, model string, log *zap.Logger) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
		log:   log,
	}
}

// complete issues one system+user chat completion and reports its usage.
func (c *Client) complete(ctx context.Context, system, user string) (string, dialogue.Usage, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", dialogue.Usage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", dialogue.Usage{}, fmt.Errorf("chat completion returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	return output, c.usageFor(resp.Usage), nil
}

func (c *Client) usageFor(u openai.Usage) dialogue.Usage {
	price, ok := modelCosts[c.model]
	if !ok {
		return dialogue.Usage{TotalTokens: u.TotalTokens}
	}
	costUSD := float64(u.PromptTokens)/1000*price.input +
		float64(u.CompletionTokens)/1000*price.output
	return dialogue.Usage{
		TotalTokens: u.TotalTokens,
		CostINR:     round4(costUSD * usdToINR),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
