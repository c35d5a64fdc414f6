package interfaces

import (
	"context"

	"relaychat/backend/internal/model"
)

// The API layer depends on these contracts instead of the concrete services
// so handlers can be tested against mocks.

// ChatService relays a conversation to the configured provider.
type ChatService interface {
	Relay(ctx context.Context, req *model.ChatRequest, out chan<- model.StreamChunk)
}

// ModelService reports the model the relay is bound to.
type ModelService interface {
	Info() model.ModelInfo
}

// RelayLogService reads relay bookkeeping records.
type RelayLogService interface {
	List(ctx context.Context, limit int) ([]*model.RelayRecord, error)
	Get(ctx context.Context, relayID string) (*model.RelayRecord, error)
	ListByConversation(ctx context.Context, conversationID string) ([]*model.RelayRecord, error)
}
