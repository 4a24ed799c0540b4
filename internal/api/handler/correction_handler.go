package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// CorrectionHandler correções privilegiadas
type CorrectionHandler struct {
	correctionSvc service.CorrectionService
}

// NewCorrectionHandler cria CorrectionHandler
func NewCorrectionHandler(correctionSvc service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{correctionSvc: correctionSvc}
}

// VoidLastLaunch POST /api/v1/casas/:casa_id/correcoes/anular
func (h *CorrectionHandler) VoidLastLaunch(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.VoidLaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.correctionSvc.VoidLastLaunch(c.Request.Context(), casaID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// SetServiceState PUT /api/v1/casas/:casa_id/correcoes/estado
func (h *CorrectionHandler) SetServiceState(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.SetServiceStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.correctionSvc.SetServiceState(c.Request.Context(), casaID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeactivateHouse POST /api/v1/casas/:casa_id/correcoes/desativar
func (h *CorrectionHandler) DeactivateHouse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.DeactivateHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.correctionSvc.DeactivateHouse(c.Request.Context(), casaID, &req, actor); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}
