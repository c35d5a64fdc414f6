package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"relaychat/backend/internal/model"
)

const relayColumns = "id, request_id, conversation_id, provider, model, message_count, chunk_count, byte_count, status, error, started_at, duration_ms"

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveRelay(ctx context.Context, rec *model.RelayRecord) error {
	query := "INSERT INTO relays (" + relayColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RequestID, rec.ConversationID, rec.Provider, rec.Model,
		rec.MessageCount, rec.ChunkCount, rec.ByteCount, string(rec.Status), rec.Error,
		rec.StartedAt.UTC(), rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("could not insert relay %s: %w", rec.ID, err)
	}
	return nil
}

func (r *sqliteRepository) GetRelay(ctx context.Context, relayID string) (*model.RelayRecord, error) {
	query := "SELECT " + relayColumns + " FROM relays WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, relayID)
	rec, err := scanRelay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *sqliteRepository) ListRelays(ctx context.Context, limit int) ([]*model.RelayRecord, error) {
	query := "SELECT " + relayColumns + " FROM relays ORDER BY started_at DESC LIMIT ?"
	return r.queryRelays(ctx, query, limit)
}

func (r *sqliteRepository) ListRelaysByConversation(ctx context.Context, conversationID string) ([]*model.RelayRecord, error) {
	query := "SELECT " + relayColumns + " FROM relays WHERE conversation_id = ? ORDER BY started_at ASC"
	return r.queryRelays(ctx, query, conversationID)
}

func (r *sqliteRepository) queryRelays(ctx context.Context, query string, args ...any) ([]*model.RelayRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := make([]*model.RelayRecord, 0)
	for rows.Next() {
		rec, err := scanRelay(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRelay(s scanner) (*model.RelayRecord, error) {
	var rec model.RelayRecord
	var status string
	var startedAt time.Time
	err := s.Scan(
		&rec.ID, &rec.RequestID, &rec.ConversationID, &rec.Provider, &rec.Model,
		&rec.MessageCount, &rec.ChunkCount, &rec.ByteCount, &status, &rec.Error,
		&startedAt, &rec.DurationMs,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = model.RelayStatus(status)
	rec.StartedAt = startedAt
	return &rec, nil
}
