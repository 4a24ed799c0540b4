package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// ObservationHandler observações registradas nos lançamentos
type ObservationHandler struct {
	observationSvc service.ObservationService
}

// NewObservationHandler cria ObservationHandler
func NewObservationHandler(observationSvc service.ObservationService) *ObservationHandler {
	return &ObservationHandler{observationSvc: observationSvc}
}

// List GET /api/v1/casas/:casa_id/observacoes?etapa=
func (h *ObservationHandler) List(c *gin.Context) {
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.ObservationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.observationSvc.List(c.Request.Context(), casaID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}
