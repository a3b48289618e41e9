// Package openai adapts the hosted chat completion API to the llm types.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/llm"
)

// Config is the client configuration.
type Config struct {
	APIKey string

	// BaseURL of the API, including the version segment
	// (e.g., "https://api.openai.com/v1").
	BaseURL string

	// Timeout for a single completion call. Zero means no client deadline.
	Timeout time.Duration
}

// Client performs chat completions. It is built once at process start and
// shared by every request; it carries no per-request state.
type Client struct {
	api    *goopenai.Client
	logger *zap.Logger
}

// New creates a Client.
func New(config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai: API key required")
	}

	clientConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Client{
		api:    goopenai.NewClientWithConfig(clientConfig),
		logger: logger,
	}, nil
}

// Complete sends one chat completion request.
func (c *Client) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	apiReq, err := toAPIRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.Debug("sending chat completion",
		zap.String("model", apiReq.Model),
		zap.Int("message_count", len(apiReq.Messages)),
		zap.Int("max_tokens", apiReq.MaxTokens),
	)

	apiResp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Warn("chat completion rejected",
				zap.Int("status", apiErr.HTTPStatusCode),
				zap.String("message", apiErr.Message),
			)
		}
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	c.logger.Debug("received chat completion",
		zap.String("id", apiResp.ID),
		zap.Int("choices", len(apiResp.Choices)),
		zap.Int("total_tokens", apiResp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	return fromAPIResponse(apiResp), nil
}

func toAPIRequest(req *llm.ChatRequest) (goopenai.ChatCompletionRequest, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for i, msg := range req.Messages {
		m, err := toAPIMessage(msg)
		if err != nil {
			return goopenai.ChatCompletionRequest{}, fmt.Errorf("message %d: %w", i, err)
		}
		messages = append(messages, m)
	}

	return goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, nil
}

// toAPIMessage uses plain string content for text-only messages and
// multi-part content as soon as an image block is present.
func toAPIMessage(msg llm.Message) (goopenai.ChatCompletionMessage, error) {
	out := goopenai.ChatCompletionMessage{Role: string(msg.Role)}

	if len(msg.Images()) == 0 {
		out.Content = msg.Text()
		return out, nil
	}

	parts := make([]goopenai.ChatMessagePart, 0, len(msg.Blocks))
	for _, b := range msg.Blocks {
		switch b.Type {
		case llm.BlockText:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: b.Text,
			})
		case llm.BlockImage:
			if b.Image == nil {
				return out, errors.New("image block without image")
			}
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    b.Image.DataURI(),
					Detail: goopenai.ImageURLDetailAuto,
				},
			})
		default:
			return out, fmt.Errorf("unknown block type %q", b.Type)
		}
	}
	out.MultiContent = parts
	return out, nil
}

func fromAPIResponse(resp goopenai.ChatCompletionResponse) *llm.ChatResponse {
	choices := make([]llm.Choice, 0, len(resp.Choices))
	for _, ch := range resp.Choices {
		choices = append(choices, llm.Choice{
			Index:        ch.Index,
			Message:      llm.TextMessage(llm.Role(ch.Message.Role), ch.Message.Content),
			FinishReason: string(ch.FinishReason),
		})
	}

	return &llm.ChatResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: choices,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
}
