package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// maxPhotoBytes tamanho máximo da foto de conclusão
const maxPhotoBytes = 8 << 20

// LaunchHandler lançamentos de início e conclusão
type LaunchHandler struct {
	launchSvc service.LaunchService
}

// NewLaunchHandler cria LaunchHandler
func NewLaunchHandler(launchSvc service.LaunchService) *LaunchHandler {
	return &LaunchHandler{launchSvc: launchSvc}
}

// StartServices inicia um ou mais serviços da etapa
// POST /api/v1/casas/:casa_id/lancamentos/inicio
func (h *LaunchHandler) StartServices(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.StartServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.launchSvc.StartServices(c.Request.Context(), casaID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// FinishService conclui um serviço; multipart com foto opcional no campo "foto"
// POST /api/v1/casas/:casa_id/lancamentos/conclusao
func (h *LaunchHandler) FinishService(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.FinishServiceRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	result, err := h.launchSvc.FinishService(c.Request.Context(), casaID, &req, photo, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListLaunches histórico da casa, mais recente primeiro
// GET /api/v1/casas/:casa_id/lancamentos
func (h *LaunchHandler) ListLaunches(c *gin.Context) {
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.LaunchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	launches, err := h.launchSvc.ListLaunches(c.Request.Context(), casaID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, launches)
}

var errPhotoTooLarge = errors.New("foto excede 8 MB")

// readPhoto nil quando o campo "foto" não veio
func readPhoto(c *gin.Context) (*dto.PhotoUpload, error) {
	fh, err := c.FormFile("foto")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size > maxPhotoBytes {
		return nil, errPhotoTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxPhotoBytes {
		return nil, errPhotoTooLarge
	}

	return &dto.PhotoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
