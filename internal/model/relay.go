package model

import "time"

// RelayStatus is the terminal state of one relay.
type RelayStatus string

const (
	RelayCompleted RelayStatus = "completed"
	RelayCancelled RelayStatus = "cancelled"
	RelayFailed    RelayStatus = "failed"
	RelayRejected  RelayStatus = "rejected"
)

// RelayRecord is the bookkeeping entry for a single POST /api/chat call.
// It stores no message content.
type RelayRecord struct {
	ID             string      `json:"id"`
	RequestID      string      `json:"request_id,omitempty"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	MessageCount   int         `json:"message_count"`
	ChunkCount     int         `json:"chunk_count"`
	ByteCount      int         `json:"byte_count"`
	Status         RelayStatus `json:"status"`
	Error          string      `json:"error,omitempty"`
	StartedAt      time.Time   `json:"started_at"`
	DurationMs     int64       `json:"duration_ms"`
}
