package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// AuthHandler autenticação e conta do próprio usuário
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler cria AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login autenticação por usuário e senha
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh troca o refresh token por um novo par
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revoga o token de acesso atual
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := tokenInfo(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Me perfil e permissões efetivas
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}

// ChangePassword troca da própria senha
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), &req, actor); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}
