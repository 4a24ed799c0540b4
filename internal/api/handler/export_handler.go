package handler

import (
	"bytes"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler downloads em csv ou xlsx (?formato=)
type ExportHandler struct {
	exportSvc      service.ExportService
	observationSvc service.ObservationService
	auditSvc       service.AuditService
}

// NewExportHandler cria ExportHandler
func NewExportHandler(exportSvc service.ExportService, observationSvc service.ObservationService, auditSvc service.AuditService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, observationSvc: observationSvc, auditSvc: auditSvc}
}

// ExportLaunches histórico de lançamentos da casa
// GET /api/v1/casas/:casa_id/lancamentos/exportar
func (h *ExportHandler) ExportLaunches(c *gin.Context) {
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.LaunchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	var ex dto.ExportRequest
	if err := c.ShouldBindQuery(&ex); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportLaunches(c.Request.Context(), casaID, &req, ex.Formato)
	if err != nil {
		handleError(c, err)
		return
	}

	sendFile(c, buf, filename)
}

// ExportObservations observações da casa
// GET /api/v1/casas/:casa_id/observacoes/exportar
func (h *ExportHandler) ExportObservations(c *gin.Context) {
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.ObservationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.observationSvc.Export(c.Request.Context(), casaID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	sendFile(c, buf, filename)
}

// ExportAudit todos os registros do filtro, sem paginação
// GET /api/v1/auditoria/exportar
func (h *ExportHandler) ExportAudit(c *gin.Context) {
	var req dto.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	var ex dto.ExportRequest
	if err := c.ShouldBindQuery(&ex); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.auditSvc.Export(c.Request.Context(), &req, ex.Formato)
	if err != nil {
		handleError(c, err)
		return
	}

	sendFile(c, buf, filename)
}

func sendFile(c *gin.Context, buf *bytes.Buffer, filename string) {
	contentType := contentTypeCSV
	if strings.EqualFold(filepath.Ext(filename), "."+service.FormatXLSX) {
		contentType = contentTypeXLSX
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
