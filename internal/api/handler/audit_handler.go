package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// AuditHandler leitor da auditoria
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler cria AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// List registros filtrados e paginados, mais recente primeiro
// GET /api/v1/auditoria
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.auditSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = service.DefaultAuditPageSize
	}
	response.OKPage(c, list, total, page, pageSize)
}

// Filters usuários e ações disponíveis
// GET /api/v1/auditoria/filtros
func (h *AuditHandler) Filters(c *gin.Context) {
	result, err := h.auditSvc.Filters(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
