// Package llm provides the internal representation of chat completion
// conversations, requests and responses exchanged with the hosted model.
package llm

// ErrorResponse is the JSON error body returned by the HTTP surfaces.
type ErrorResponse struct {
	Error string `json:"error"`
}
