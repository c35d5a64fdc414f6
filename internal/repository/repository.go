package repository

import (
	"context"

	"relaychat/backend/internal/model"
)

// Repository defines the interface for relay bookkeeping storage.
// Only metadata about each relay is kept, never message content.
type Repository interface {
	SaveRelay(ctx context.Context, record *model.RelayRecord) error
	GetRelay(ctx context.Context, relayID string) (*model.RelayRecord, error)
	ListRelays(ctx context.Context, limit int) ([]*model.RelayRecord, error)
	ListRelaysByConversation(ctx context.Context, conversationID string) ([]*model.RelayRecord, error)
}
