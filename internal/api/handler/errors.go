package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/service"
	pkgerrors "acompanhamento-obras/pkg/errors"
	"acompanhamento-obras/pkg/response"
)

// Códigos de negócio do envelope de erro.
const (
	codeValidation   = 40000
	codeUnauthorized = 40100
	codeForbidden    = 40300
	codeNotFound     = 40400
	codeConflict     = 40900
)

// handleError converte o erro do serviço no envelope, pelo tipo de domínio.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefresh):
		response.Unauthorized(c, codeUnauthorized, err.Error())
		return
	}

	switch pkgerrors.Kind(err) {
	case pkgerrors.ErrValidation:
		response.BadRequest(c, codeValidation, err.Error())
	case pkgerrors.ErrPermissionDenied:
		response.Forbidden(c, codeForbidden, err.Error())
	case pkgerrors.ErrNotFound:
		response.NotFound(c, codeNotFound, err.Error())
	case pkgerrors.ErrConflict:
		response.Conflict(c, codeConflict, err.Error())
	case pkgerrors.ErrStorage:
		_ = c.Error(err)
		response.StorageError(c, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindError resposta padrão para falha de bind/validação do gin.
func bindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	response.BadRequest(c, 10001, "parâmetros inválidos")
}
