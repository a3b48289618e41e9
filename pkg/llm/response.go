package llm

import (
	"errors"
	"strings"
)

// ErrNoChoices is returned when a completion response carries no choices.
var ErrNoChoices = errors.New("completion response has no choices")

// ErrEmptyContent is returned when the first choice carries no text.
var ErrEmptyContent = errors.New("completion response has empty content")

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"` // Model that generated the response
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one generated continuation.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"` // "stop", "length", ...
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstText returns the text of the first choice. A blank first choice is
// an error, not an empty answer.
func (r *ChatResponse) FirstText() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	text := r.Choices[0].Message.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}
