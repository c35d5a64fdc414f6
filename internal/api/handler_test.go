// The `_test` suffix creates a "black box" test package that can only reach
// the exported identifiers of `api`.
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaychat/backend/internal/api"
	"relaychat/backend/internal/interfaces/mocks"
	"relaychat/backend/internal/model"
)

// setupChatHandler builds a handler whose service is a mock.
func setupChatHandler(t *testing.T) (*api.ChatHandler, *mocks.MockChatService) {
	mockChatSvc := mocks.NewMockChatService(t)
	handler := api.NewChatHandler(mockChatSvc, 8)
	return handler, mockChatSvc
}

// addChiURLParams simulates how the chi router injects URL parameters
// (e.g. `{relayID}`) into the request's context.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// relayReturns makes the mocked Relay emit the given chunks and close the channel.
func relayReturns(chunks ...model.StreamChunk) func(mock.Arguments) {
	return func(args mock.Arguments) {
		out := args.Get(2).(chan<- model.StreamChunk)
		for _, c := range chunks {
			out <- c
		}
		close(out)
	}
}

// sseData extracts the payload of every `data:` frame in order.
func sseData(body string) []string {
	var out []string
	for _, frame := range strings.Split(body, "\n\n") {
		if strings.HasPrefix(frame, "data: ") {
			out = append(out, strings.TrimPrefix(frame, "data: "))
		}
	}
	return out
}

const validBody = `{"messages":[{"id":"m1","role":"user","parts":[{"type":"text","content":"Hi"}]}],"data":{"conversationId":"conv-1"}}`

// TestChatHandler_HandleChat tests the POST /api/chat endpoint.
//
// GOAL: Verify the handler streams service chunks as SSE frames, and that a
// failure before any content becomes a plain JSON error instead of a stream.
func TestChatHandler_HandleChat(t *testing.T) {
	t.Run("Success - streams chunks and terminator", func(t *testing.T) {
		// ARRANGE
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("Relay", mock.Anything, mock.MatchedBy(func(r *model.ChatRequest) bool {
			return r.ConversationID() == "conv-1" && len(r.Messages) == 1 && r.Messages[0].Text() == "Hi"
		}), mock.Anything).
			Run(relayReturns(
				model.StreamChunk{Type: model.ChunkContent, ID: "r1", Delta: "Hel", Content: "Hel"},
				model.StreamChunk{Type: model.ChunkContent, ID: "r1", Delta: "lo", Content: "Hello"},
				model.StreamChunk{Type: model.ChunkDone, ID: "r1", Content: "Hello", FinishReason: "stop"},
			)).Once()

		// ACT
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(validBody))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))

		frames := sseData(rr.Body.String())
		require.Len(t, frames, 4)
		var first model.StreamChunk
		require.NoError(t, json.Unmarshal([]byte(frames[0]), &first))
		assert.Equal(t, "Hel", first.Delta)
		var last model.StreamChunk
		require.NoError(t, json.Unmarshal([]byte(frames[2]), &last))
		assert.Equal(t, model.ChunkDone, last.Type)
		assert.Equal(t, "[DONE]", frames[3])
	})

	t.Run("Success - long conversation id is passed through", func(t *testing.T) {
		// ARRANGE
		handler, mockChatSvc := setupChatHandler(t)
		longID := strings.Repeat("c", 300)
		mockChatSvc.On("Relay", mock.Anything, mock.MatchedBy(func(r *model.ChatRequest) bool {
			return r.ConversationID() == longID
		}), mock.Anything).
			Run(relayReturns(model.StreamChunk{Type: model.ChunkDone, ID: "r1"})).Once()
		body := strings.Replace(validBody, `"conv-1"`, `"`+longID+`"`, 1)

		// ACT
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.HasSuffix(rr.Body.String(), "data: [DONE]\n\n"))
	})

	t.Run("Failure - provider error before content is a JSON 500", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("Relay", mock.Anything, mock.Anything, mock.Anything).
			Run(relayReturns(model.StreamChunk{
				Type:  model.ChunkError,
				Error: &model.StreamChunkError{Message: "No auth credentials found", Code: model.CodeProvider},
			})).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(validBody))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"No auth credentials found"}`, rr.Body.String())
	})

	t.Run("Failure - error without message falls back", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("Relay", mock.Anything, mock.Anything, mock.Anything).
			Run(relayReturns(model.StreamChunk{Type: model.ChunkError})).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(validBody))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"message":"Internal Server Error"}`, rr.Body.String())
	})

	t.Run("Failure - service rejects the conversation", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("Relay", mock.Anything, mock.Anything, mock.Anything).
			Run(relayReturns(model.StreamChunk{
				Type:  model.ChunkError,
				Error: &model.StreamChunkError{Message: "last message has no parts", Code: model.CodeValidation},
			})).Once()

		body := `{"messages":[{"role":"user","parts":[]}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"last message has no parts"}`, rr.Body.String())
	})

	t.Run("Failure - error after content stays in the stream", func(t *testing.T) {
		handler, mockChatSvc := setupChatHandler(t)
		mockChatSvc.On("Relay", mock.Anything, mock.Anything, mock.Anything).
			Run(relayReturns(
				model.StreamChunk{Type: model.ChunkContent, Delta: "par", Content: "par"},
				model.StreamChunk{Type: model.ChunkError, Error: &model.StreamChunkError{Message: "connection reset", Code: model.CodeProvider}},
			)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(validBody))
		rr := httptest.NewRecorder()
		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		frames := sseData(rr.Body.String())
		require.Len(t, frames, 3)
		assert.Contains(t, frames[1], "connection reset")
		assert.Equal(t, "[DONE]", frames[2])
	})

	testCases := []struct {
		name string
		body string
	}{
		{"Malformed JSON", `{"messages":`},
		{"Missing messages", `{}`},
		{"Unknown role", `{"messages":[{"role":"robot","parts":[{"type":"text","content":"x"}]}]}`},
	}
	for _, tc := range testCases {
		t.Run("Failure - "+tc.name, func(t *testing.T) {
			// The mock has no expectations: the service must not be called.
			handler, _ := setupChatHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			handler.HandleChat(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}
