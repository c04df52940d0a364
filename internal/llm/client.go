package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"visionchat-backend/internal/chat"
)

// Invoker is the boundary to the multimodal chat model: ordered messages in,
// reply text out. The server depends on this interface so tests can swap in
// a fake.
type Invoker interface {
	Invoke(ctx context.Context, turns []chat.Turn) (string, error)
}

// Client invokes the OpenAI chat completion API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClient(apiKey, model string, temperature float32, maxTokens int) *Client {
	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Invoke sends the assembled turn sequence and returns the reply text. Any
// failure is terminal for the current request.
func (c *Client) Invoke(ctx context.Context, turns []chat.Turn) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    ConvertTurns(turns),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ConvertTurns maps turns onto the wire message format. User turns with
// content parts use MultiContent so text and image data URIs interleave;
// everything else is plain text content.
func ConvertTurns(turns []chat.Turn) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		if t.Role != chat.RoleUser {
			out = append(out, openai.ChatCompletionMessage{
				Role:    string(t.Role),
				Content: t.Text,
			})
			continue
		}
		parts := make([]openai.ChatMessagePart, 0, len(t.Parts))
		for _, p := range t.Parts {
			switch p.Kind {
			case chat.PartImage:
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: p.DataURI},
				})
			case chat.PartText:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: p.Text,
				})
			}
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	}
	return out
}
