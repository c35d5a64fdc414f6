package repository

import (
	"context"

	"relaychat/backend/internal/model"
)

// noopRepository is used when no database path is configured. Writes are
// dropped and reads find nothing.
type noopRepository struct{}

func NewNoopRepository() Repository {
	return noopRepository{}
}

func (noopRepository) SaveRelay(context.Context, *model.RelayRecord) error { return nil }

func (noopRepository) GetRelay(context.Context, string) (*model.RelayRecord, error) {
	return nil, ErrNotFound
}

func (noopRepository) ListRelays(context.Context, int) ([]*model.RelayRecord, error) {
	return []*model.RelayRecord{}, nil
}

func (noopRepository) ListRelaysByConversation(context.Context, string) ([]*model.RelayRecord, error) {
	return []*model.RelayRecord{}, nil
}
