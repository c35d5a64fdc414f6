package api

import (
	"net/http"

	"relaychat/backend/internal/interfaces"
)

// ModelHandler exposes which model the relay is bound to.
type ModelHandler struct {
	service interfaces.ModelService
}

func NewModelHandler(svc interfaces.ModelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// HandleGetModel godoc
// @Summary      Current model
// @Description  Returns the provider and model identifier every relay is sent to.
// @Tags         Models
// @Produce      json
// @Success      200  {object}  model.ModelInfo
// @Router       /v1/model [get]
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Info())
}
