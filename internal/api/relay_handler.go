package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "relaychat/backend/internal/errors"
	"relaychat/backend/internal/interfaces"
)

// RelayHandler serves the relay bookkeeping records.
type RelayHandler struct {
	service interfaces.RelayLogService
}

func NewRelayHandler(svc interfaces.RelayLogService) *RelayHandler {
	return &RelayHandler{service: svc}
}

// HandleListRelays godoc
// @Summary      List recent relays
// @Description  Returns bookkeeping records of recent relays, newest first. Records never contain message content.
// @Tags         Relays
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of records (default 50, max 500)"
// @Success      200    {array}   model.RelayRecord
// @Failure      400    {object}  model.ErrorResponse
// @Failure      500    {object}  model.ErrorResponse
// @Router       /v1/relays [get]
func (h *RelayHandler) HandleListRelays(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, fmt.Errorf("%w: limit must be a non-negative integer", app_errors.ErrValidation))
			return
		}
		limit = n
	}

	records, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// HandleGetRelay godoc
// @Summary      Get one relay
// @Tags         Relays
// @Produce      json
// @Param        relayID  path      string  true  "Relay ID"
// @Success      200      {object}  model.RelayRecord
// @Failure      404      {object}  model.ErrorResponse
// @Router       /v1/relays/{relayID} [get]
func (h *RelayHandler) HandleGetRelay(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "relayID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// HandleListConversationRelays godoc
// @Summary      List relays of a conversation
// @Tags         Relays
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {array}   model.RelayRecord
// @Failure      400             {object}  model.ErrorResponse
// @Router       /v1/conversations/{conversationID}/relays [get]
func (h *RelayHandler) HandleListConversationRelays(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListByConversation(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}
