package model

import (
	"errors"
	"fmt"

	app_errors "relaychat/backend/internal/errors"
)

// Chunk types sent over the event stream.
const (
	ChunkContent = "content"
	ChunkDone    = "done"
	ChunkError   = "error"
)

// Error codes carried by error chunks.
const (
	CodeValidation = "validation_error"
	CodeProvider   = "provider_error"
	CodeInternal   = "internal_error"
)

// StreamDone is the data payload of the final SSE frame.
const StreamDone = "[DONE]"

// Usage reports token accounting when the provider supplies it.
type Usage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	TotalTokens      int64 `json:"totalTokens"`
}

// StreamChunkError describes a failure inside the stream.
type StreamChunkError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StreamChunk is the JSON payload of one `data:` frame.
type StreamChunk struct {
	Type         string      `json:"type"`
	ID           string      `json:"id,omitempty"`
	Model        string      `json:"model,omitempty"`
	Timestamp    int64       `json:"timestamp"`
	Role         Role        `json:"role,omitempty"`
	Delta        string      `json:"delta,omitempty"`
	Content      string      `json:"content,omitempty"`
	FinishReason string      `json:"finishReason,omitempty"`
	Usage        *Usage      `json:"usage,omitempty"`
	Error        *StreamChunkError `json:"error,omitempty"`
}

// IsError reports whether the chunk signals a failure.
func (c StreamChunk) IsError() bool {
	return c.Type == ChunkError
}

// Err converts an error chunk back into an error wrapping the matching sentinel.
func (c StreamChunk) Err() error {
	if !c.IsError() {
		return nil
	}
	msg := ""
	code := ""
	if c.Error != nil {
		msg = c.Error.Message
		code = c.Error.Code
	}
	var sentinel error
	switch code {
	case CodeValidation:
		sentinel = app_errors.ErrValidation
	case CodeProvider:
		sentinel = app_errors.ErrProvider
	default:
		sentinel = app_errors.ErrInternal
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// ErrorCode picks the wire code for an error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, app_errors.ErrValidation):
		return CodeValidation
	case errors.Is(err, app_errors.ErrProvider):
		return CodeProvider
	default:
		return CodeInternal
	}
}
