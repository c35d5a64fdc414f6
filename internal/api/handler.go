package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	app_errors "relaychat/backend/internal/errors"
	"relaychat/backend/internal/interfaces"
	"relaychat/backend/internal/model"
)

const maxChatBodyBytes = 4 << 20

// ChatHandler serves the relay endpoint.
type ChatHandler struct {
	service    interfaces.ChatService
	bufferSize int
}

func NewChatHandler(svc interfaces.ChatService, bufferSize int) *ChatHandler {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &ChatHandler{service: svc, bufferSize: bufferSize}
}

// HandleChat godoc
// @Summary      Relay a conversation
// @Description  Forwards the message list to the configured model and streams the reply as Server-Sent Events. Each data frame is a JSON StreamChunk and the stream ends with data: [DONE].
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body      model.ChatRequest  true  "Conversation to relay"
// @Success      200      {object}  model.StreamChunk
// @Failure      400      {object}  model.ErrorResponse
// @Failure      500      {object}  model.ErrorResponse
// @Router       /chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	// Cancelling this context stops the provider call when we stop writing.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	streamChan := make(chan model.StreamChunk, h.bufferSize)
	go h.service.Relay(ctx, &req, streamChan)

	// The status code depends on whether the relay fails before producing
	// anything, so nothing is written until the first chunk arrives.
	first, ok := <-streamChan
	if !ok {
		slog.Info("Relay ended without output, client likely disconnected", "request_id", middleware.GetReqID(r.Context()))
		return
	}
	if first.IsError() {
		respondWithStreamError(w, first)
		return
	}

	setStreamHeaders(w)
	w.WriteHeader(http.StatusOK)

	if err := writeStreamEvent(w, first); err != nil {
		slog.Warn("Client disconnected during stream", "error", err)
		return
	}
	for chunk := range streamChan {
		if err := writeStreamEvent(w, chunk); err != nil {
			slog.Warn("Client disconnected during stream", "error", err)
			return
		}
		if chunk.IsError() {
			slog.Warn("Relay ended with an error after streaming began", "relay_id", chunk.ID, "message", chunk.Error.Message)
		}
	}

	if r.Context().Err() != nil {
		slog.Info("Client disconnected before stream completion", "request_id", middleware.GetReqID(r.Context()))
		return
	}
	if err := writeStreamDone(w); err != nil {
		slog.Warn("Failed to finish stream", "error", err)
	}
}
