package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// ActivationHandler ativação de casas por etapa
type ActivationHandler struct {
	activationSvc service.ActivationService
}

// NewActivationHandler cria ActivationHandler
func NewActivationHandler(activationSvc service.ActivationService) *ActivationHandler {
	return &ActivationHandler{activationSvc: activationSvc}
}

// GetActivation situação da casa na etapa
// GET /api/v1/casas/:casa_id/ativacao?etapa=
func (h *ActivationHandler) GetActivation(c *gin.Context) {
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var q dto.PhaseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.activationSvc.GetActivation(c.Request.Context(), casaID, q.Etapa)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// SetActivation liga ou desliga a casa na etapa
// PUT /api/v1/casas/:casa_id/ativacao
func (h *ActivationHandler) SetActivation(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.SetActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.activationSvc.SetActivation(c.Request.Context(), casaID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListServiceStates serviços da etapa com o status atual na casa
// GET /api/v1/casas/:casa_id/servicos?etapa=
func (h *ActivationHandler) ListServiceStates(c *gin.Context) {
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var q dto.PhaseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	states, err := h.activationSvc.ListServiceStates(c.Request.Context(), casaID, q.Etapa)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, states)
}
