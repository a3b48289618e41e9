package llm

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Model       string    `json:"model"`       // Model identifier (e.g., "gpt-4o-mini")
	Messages    []Message `json:"messages"`    // System message first, user turn(s) after
	MaxTokens   int       `json:"max_tokens"`  // Response length cap
	Temperature float32   `json:"temperature"` // Sampling temperature
}
