package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "relaychat/backend/internal/errors"
	"relaychat/backend/internal/llm/mocks"
	"relaychat/backend/internal/model"
	"relaychat/backend/internal/repository"
	mock_repo "relaychat/backend/internal/repository/mocks"
	"relaychat/backend/internal/service"
)

func TestModelService_Info(t *testing.T) {
	mockLLMProvider := mocks.NewMockLLMProvider(t)
	mockLLMProvider.On("Name").Return("openrouter").Once()
	mockLLMProvider.On("Model").Return("google/gemini-2.0-flash-001").Once()

	info := service.NewModelService(mockLLMProvider).Info()

	assert.Equal(t, model.ModelInfo{Provider: "openrouter", Model: "google/gemini-2.0-flash-001"}, info)
}

func TestRelayLogService_List(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"Default when zero", 0, service.DefaultRelayListLimit},
		{"Default when negative", -3, service.DefaultRelayListLimit},
		{"Passed through", 10, 10},
		{"Clamped to maximum", 10000, service.MaxRelayListLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mock_repo.NewMockRepository(t)
			expected := []*model.RelayRecord{{ID: "r1"}}
			repo.On("ListRelays", ctx, tc.wantLimit).Return(expected, nil).Once()

			records, err := service.NewRelayLogService(repo).List(ctx, tc.limit)

			require.NoError(t, err)
			assert.Equal(t, expected, records)
		})
	}

	t.Run("Repository failure", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		repo.On("ListRelays", ctx, mock.AnythingOfType("int")).Return(nil, errors.New("disk I/O error")).Once()

		records, err := service.NewRelayLogService(repo).List(ctx, 5)

		assert.Nil(t, records)
		assert.ErrorContains(t, err, "disk I/O error")
	})
}

func TestRelayLogService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		rec := &model.RelayRecord{ID: "r1", Status: model.RelayCompleted}
		repo.On("GetRelay", ctx, "r1").Return(rec, nil).Once()

		got, err := service.NewRelayLogService(repo).Get(ctx, "r1")

		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("Not found is translated", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		repo.On("GetRelay", ctx, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := service.NewRelayLogService(repo).Get(ctx, "missing")

		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestRelayLogService_ListByConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Blank id is a validation error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)

		_, err := service.NewRelayLogService(repo).ListByConversation(ctx, "  ")

		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		expected := []*model.RelayRecord{{ID: "r1"}, {ID: "r2"}}
		repo.On("ListRelaysByConversation", ctx, "conv-1").Return(expected, nil).Once()

		got, err := service.NewRelayLogService(repo).ListByConversation(ctx, "conv-1")

		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})
}
