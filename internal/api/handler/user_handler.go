package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// UserHandler administração de usuários
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler cria UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers usuários com resumo de permissões
// GET /api/v1/usuarios
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	users, err := h.userSvc.ListUsers(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, users)
}

// CreateUser cadastro de usuário
// POST /api/v1/usuarios
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, user)
}

// UpdateUser nome, papel, situação, permissões e reset de senha
// PUT /api/v1/usuarios/:username
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		response.BadRequest(c, 10001, "username inválido")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.UpdateUser(c.Request.Context(), username, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}
