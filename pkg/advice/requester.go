// Package advice turns a symptom description and an optional image into
// advice text from the hosted chat completion model.
package advice

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/llm"
)

// Persona is the fixed system message.
const Persona = "You are a medical assistant. You will take the user's description of their symptoms " +
	"and any provided image analysis to generate an informal diagnosis and advice for medications " +
	"or homemade remedies. For mental health issues, provide emotional reassurance."

// Completer performs one chat completion.
type Completer interface {
	Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}

// Sampling parameters sent with every request.
const (
	MaxTokens   = 400
	Temperature = 0.8
)

// Config selects the model. Sampling parameters are not configurable.
type Config struct {
	Model string
}

// Requester builds the conversation and performs the completion call.
// Each call is independent; the Requester keeps no state between calls.
type Requester struct {
	client Completer
	config Config
	logger *zap.Logger
}

// NewRequester creates a Requester around an explicitly constructed client.
func NewRequester(client Completer, config Config, logger *zap.Logger) *Requester {
	return &Requester{
		client: client,
		config: config,
		logger: logger,
	}
}

// BuildMessages returns the persona message followed by the user turn. An
// image rides on the user turn as one extra content block.
func BuildMessages(text string, img *llm.EncodedImage) []llm.Message {
	user := llm.TextMessage(llm.RoleUser, text)
	if img != nil {
		user.Blocks = append(user.Blocks, llm.ContentBlock{Type: llm.BlockImage, Image: img})
	}

	return []llm.Message{
		llm.TextMessage(llm.RoleSystem, Persona),
		user,
	}
}

// Request asks the model for advice. It validates text, makes at most one
// call and never retries.
func (r *Requester) Request(ctx context.Context, text string, img *llm.EncodedImage) Result {
	if strings.TrimSpace(text) == "" {
		return failure(InputError, MsgEmptyText, nil)
	}

	req := &llm.ChatRequest{
		Model:       r.config.Model,
		Messages:    BuildMessages(text, img),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	start := time.Now()
	resp, err := r.client.Complete(ctx, req)
	if err != nil {
		r.logger.Error("chat completion failed", zap.Error(err))
		return failure(ExternalServiceError, MsgServiceFailed, err)
	}

	advice, err := resp.FirstText()
	if err != nil {
		r.logger.Error("malformed chat completion", zap.String("id", resp.ID), zap.Error(err))
		return failure(ExternalServiceError, MsgServiceFailed, err)
	}

	r.logger.Info("advice generated",
		zap.String("model", resp.Model),
		zap.Bool("with_image", img != nil),
		zap.Int("advice_len", len(advice)),
		zap.Duration("duration", time.Since(start)),
	)

	return success(advice)
}
