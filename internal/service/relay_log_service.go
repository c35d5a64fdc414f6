package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	app_errors "relaychat/backend/internal/errors"
	"relaychat/backend/internal/model"
	"relaychat/backend/internal/repository"
)

const (
	DefaultRelayListLimit = 50
	MaxRelayListLimit     = 500
)

// RelayLogService reads back the bookkeeping records written by ChatService.
type RelayLogService struct {
	repo repository.Repository
}

func NewRelayLogService(repo repository.Repository) *RelayLogService {
	return &RelayLogService{repo: repo}
}

// List returns the most recent relays, newest first. A non-positive limit
// selects the default and anything above the maximum is clamped.
func (s *RelayLogService) List(ctx context.Context, limit int) ([]*model.RelayRecord, error) {
	if limit <= 0 {
		limit = DefaultRelayListLimit
	}
	if limit > MaxRelayListLimit {
		limit = MaxRelayListLimit
	}
	records, err := s.repo.ListRelays(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list relays: %w", err)
	}
	return records, nil
}

func (s *RelayLogService) Get(ctx context.Context, relayID string) (*model.RelayRecord, error) {
	rec, err := s.repo.GetRelay(ctx, relayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: relay %s", app_errors.ErrNotFound, relayID)
		}
		return nil, fmt.Errorf("could not get relay: %w", err)
	}
	return rec, nil
}

// ListByConversation returns the relays of one conversation in the order
// they started.
func (s *RelayLogService) ListByConversation(ctx context.Context, conversationID string) ([]*model.RelayRecord, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id must not be empty", app_errors.ErrValidation)
	}
	records, err := s.repo.ListRelaysByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("could not list conversation relays: %w", err)
	}
	return records, nil
}
