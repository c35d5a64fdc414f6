package llm

import (
	"context"
	"strings"
)

// Message is the provider-facing form of a conversation entry: plain text only.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is what the relay hands to a provider.
type GenerateRequest struct {
	Model          string    `json:"model"`
	Messages       []Message `json:"messages"`
	ConversationID string    `json:"-"`
}

// Usage is token accounting reported by a provider at the end of a stream.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// StreamResponse is a LOCAL type for the llm package; the service translates
// it into wire chunks.
type StreamResponse struct {
	Content      string
	Done         bool
	FinishReason string
	Usage        *Usage
	Error        string
}

// LLMProvider defines the interface for interacting with a language model.
//
// GenerateStream must close ch on every return path and must stop sending
// once ctx is done. A returned error means the stream failed; chunks already
// sent remain valid.
type LLMProvider interface {
	Name() string
	Model() string
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
}

// send delivers one response unless the context is cancelled first.
func send(ctx context.Context, ch chan<- StreamResponse, resp StreamResponse) error {
	select {
	case ch <- resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func chooseModel(requested, fallback string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return fallback
}

// splitSystem separates system messages from the rest of the conversation
// for APIs that take the system prompt out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			if m.Content != "" {
				system = append(system, m.Content)
			}
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
