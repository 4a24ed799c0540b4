package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// DashboardHandler painel da obra
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler cria DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Summary GET /api/v1/obras/:obra_id/dashboard?etapa=
func (h *DashboardHandler) Summary(c *gin.Context) {
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.dashboardSvc.Summary(c.Request.Context(), obraID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
