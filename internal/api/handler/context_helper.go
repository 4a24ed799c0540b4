package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/api/middleware"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/pkg/response"
)

// MustGetActor extrai o usuário resolvido pelo middleware LoadActor.
// Sem ele, escreve 401 e devolve false; o chamador deve apenas retornar.
func MustGetActor(c *gin.Context) (permission.Actor, bool) {
	v, exists := c.Get(middleware.CtxActor)
	if !exists {
		response.Unauthorized(c, 10002, "não autenticado")
		return permission.Actor{}, false
	}
	actor, ok := v.(permission.Actor)
	if !ok || actor.UserID == 0 {
		response.Unauthorized(c, 10002, "não autenticado")
		return permission.Actor{}, false
	}
	return actor, true
}

// tokenInfo JTI e expiração do token da requisição, para o logout.
func tokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(middleware.CtxTokenID)
	if jti == "" {
		response.Unauthorized(c, 10002, "não autenticado")
		return "", time.Time{}, false
	}
	var exp time.Time
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		exp, _ = v.(time.Time)
	}
	return jti, exp, true
}

// parseIDParam lê um id numérico do caminho; inválido responde 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" inválido")
		return 0, false
	}
	return id, true
}
