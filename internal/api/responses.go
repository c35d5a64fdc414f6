package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "relaychat/backend/internal/errors"
	"relaychat/backend/internal/model"
)

// This file contains helper functions for sending consistent HTTP responses,
// both plain JSON and Server-Sent Events.

const internalServerErrorMessage = "Internal Server Error"

// respondWithError is the centralized error handling function for the API layer.
// It maps business-layer errors to HTTP status codes and writes the standard
// `{ "message": ... }` body.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrProvider):
		statusCode = http.StatusInternalServerError
		message = err.Error()
	default:
		// Unhandled errors never leak implementation details.
		statusCode = http.StatusInternalServerError
		message = internalServerErrorMessage
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, model.ErrorResponse{Message: message})
}

// respondWithStreamError answers a relay that failed before any content was
// streamed. The chunk's own message is passed through as is.
func respondWithStreamError(w http.ResponseWriter, chunk model.StreamChunk) {
	statusCode := http.StatusInternalServerError
	message := ""
	if chunk.Error != nil {
		message = chunk.Error.Message
		if chunk.Error.Code == model.CodeValidation {
			statusCode = http.StatusBadRequest
		}
	}
	if message == "" {
		message = internalServerErrorMessage
	}

	slog.Error("Relay failed before streaming", "relay_id", chunk.ID, "status_code", statusCode, "message", message)

	respondWithJSON(w, statusCode, model.ErrorResponse{Message: message})
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, internalServerErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// setStreamHeaders prepares an uncached event stream response.
func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// writeStreamEvent is a generic helper to marshal data and write it to an SSE stream.
// It returns an error on write failure, which is a signal that the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		// The connection is still fine; only this payload is bad.
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// writeStreamDone writes the terminating `data: [DONE]` frame.
func writeStreamDone(w http.ResponseWriter) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", model.StreamDone); err != nil {
		return fmt.Errorf("failed to write stream terminator: %w", err)
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
