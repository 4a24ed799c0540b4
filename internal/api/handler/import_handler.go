package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// ImportHandler importação de planilhas (xlsx ou csv) no campo "arquivo"
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler cria ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportServices etapa do formulário vale para linhas sem coluna etapa
// POST /api/v1/obras/:obra_id/servicos/importar
func (h *ImportHandler) ImportServices(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	fh, err := c.FormFile("arquivo")
	if err != nil {
		badUpload(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badUpload(c, err)
		return
	}
	defer f.Close()

	result, err := h.importSvc.ImportServices(c.Request.Context(), obraID, c.PostForm("etapa"), fh.Filename, f, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportHouses POST /api/v1/obras/:obra_id/casas/importar
func (h *ImportHandler) ImportHouses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	fh, err := c.FormFile("arquivo")
	if err != nil {
		badUpload(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badUpload(c, err)
		return
	}
	defer f.Close()

	result, err := h.importSvc.ImportHouses(c.Request.Context(), obraID, fh.Filename, f, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

func badUpload(c *gin.Context, err error) {
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		response.BadRequest(c, 10001, "envie a planilha no campo arquivo")
		return
	}
	_ = c.Error(err)
	response.BadRequest(c, 10001, "falha ao ler o arquivo enviado")
}
