package model

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// PartTypeText is the only part type the relay reads. Every other type is
// carried through untouched.
const PartTypeText = "text"

// Part is one unit of message content.
type Part struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`

	// raw keeps the original JSON of non-text parts so they survive a
	// decode/encode round trip unchanged.
	raw json.RawMessage
}

// TextPart builds a text part.
func TextPart(content string) Part {
	return Part{Type: PartTypeText, Content: content}
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var head struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	p.Type = head.Type
	p.Content = head.Content
	p.raw = nil
	if head.Type != PartTypeText {
		p.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

func (p Part) MarshalJSON() ([]byte, error) {
	if p.Type != PartTypeText && len(p.raw) > 0 {
		return p.raw, nil
	}
	type plain Part
	return json.Marshal(plain(p))
}

// IsText reports whether the part carries plain text.
func (p Part) IsText() bool {
	return p.Type == PartTypeText
}

// Message is a single role-tagged entry in a conversation.
type Message struct {
	ID    string `json:"id,omitempty"`
	Role  Role   `json:"role" validate:"required,oneof=user assistant system"`
	Parts []Part `json:"parts"`
}

// Text concatenates the content of all text parts.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.IsText() {
			sb.WriteString(p.Content)
		}
	}
	return sb.String()
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Parts != nil {
		out.Parts = make([]Part, len(m.Parts))
		copy(out.Parts, m.Parts)
	}
	return out
}

// RequestData holds optional request metadata sent next to the messages.
type RequestData struct {
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatRequest is the body accepted by POST /api/chat.
type ChatRequest struct {
	Messages []Message   `json:"messages" validate:"required,dive"`
	Data     *RequestData `json:"data,omitempty"`
}

// ConversationID returns the optional conversation identifier.
func (r *ChatRequest) ConversationID() string {
	if r == nil || r.Data == nil {
		return ""
	}
	return r.Data.ConversationID
}

// ErrorResponse is the JSON body of every non-streamed error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ModelInfo describes the model the relay is bound to.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
