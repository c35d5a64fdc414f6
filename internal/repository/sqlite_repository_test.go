package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/backend/internal/model"
	"relaychat/backend/internal/repository"
)

var relayCols = []string{
	"id", "request_id", "conversation_id", "provider", "model",
	"message_count", "chunk_count", "byte_count", "status", "error",
	"started_at", "duration_ms",
}

func setupRepo(t *testing.T) (repository.Repository, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewSQLiteRepository(db), mockDB
}

func TestSQLiteRepository_SaveRelay(t *testing.T) {
	repo, mockDB := setupRepo(t)
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := &model.RelayRecord{
		ID: "01J0RELAY", RequestID: "req-1", ConversationID: "conv-1",
		Provider: "openrouter", Model: "google/gemini-2.0-flash-001",
		MessageCount: 3, ChunkCount: 2, ByteCount: 5,
		Status: model.RelayCompleted, StartedAt: started, DurationMs: 120,
	}

	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO relays")).
		WithArgs("01J0RELAY", "req-1", "conv-1", "openrouter", "google/gemini-2.0-flash-001",
			3, 2, 5, "completed", "", started, int64(120)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveRelay(context.Background(), rec)

	require.NoError(t, err)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_GetRelay(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		rows := sqlmock.NewRows(relayCols).
			AddRow("r1", "req-1", "conv-1", "ollama", "llama3.2", 1, 4, 20, "failed", "boom", started, 40)
		mockDB.ExpectQuery(regexp.QuoteMeta("FROM relays WHERE id = ?")).WithArgs("r1").WillReturnRows(rows)

		rec, err := repo.GetRelay(ctx, "r1")

		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)
		assert.Equal(t, model.RelayFailed, rec.Status)
		assert.Equal(t, "boom", rec.Error)
		assert.Equal(t, 4, rec.ChunkCount)
		assert.Equal(t, started, rec.StartedAt)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectQuery(regexp.QuoteMeta("FROM relays WHERE id = ?")).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		rec, err := repo.GetRelay(ctx, "missing")

		assert.Nil(t, rec)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSQLiteRepository_ListRelays(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Newest first with limit", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		rows := sqlmock.NewRows(relayCols).
			AddRow("r2", "", "", "openrouter", "m", 1, 1, 1, "completed", "", started.Add(time.Second), 1).
			AddRow("r1", "", "", "openrouter", "m", 1, 1, 1, "cancelled", "", started, 1)
		mockDB.ExpectQuery(regexp.QuoteMeta("ORDER BY started_at DESC LIMIT ?")).WithArgs(2).WillReturnRows(rows)

		recs, err := repo.ListRelays(ctx, 2)

		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "r2", recs[0].ID)
		assert.Equal(t, model.RelayCancelled, recs[1].Status)
	})

	t.Run("By conversation returns empty slice", func(t *testing.T) {
		repo, mockDB := setupRepo(t)
		mockDB.ExpectQuery(regexp.QuoteMeta("WHERE conversation_id = ?")).WithArgs("conv-x").
			WillReturnRows(sqlmock.NewRows(relayCols))

		recs, err := repo.ListRelaysByConversation(ctx, "conv-x")

		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})
}

func TestNoopRepository(t *testing.T) {
	repo := repository.NewNoopRepository()
	ctx := context.Background()

	assert.NoError(t, repo.SaveRelay(ctx, &model.RelayRecord{ID: "x"}))
	_, err := repo.GetRelay(ctx, "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	recs, err := repo.ListRelays(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
