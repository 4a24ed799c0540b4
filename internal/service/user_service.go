package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

var (
	ErrUserExists        = pkgerrors.New(pkgerrors.ErrConflict, "nome de usuário já existe")
	ErrUnknownPermission = pkgerrors.New(pkgerrors.ErrValidation, "permissão desconhecida")
	ErrInvalidRole       = pkgerrors.New(pkgerrors.ErrValidation, "papel inválido")
	ErrUserSelfDisable   = pkgerrors.New(pkgerrors.ErrValidation, "não é possível desativar o próprio usuário")
	ErrUserSelfRole      = pkgerrors.New(pkgerrors.ErrValidation, "não é possível alterar o próprio papel")
)

// UserService administração de usuários
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, actor permission.Actor) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, username string, req *dto.UpdateUserRequest, actor permission.Actor) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actor permission.Actor) ([]dto.UserResponse, error)
}

type userService struct {
	repo            *repository.Repository
	auditor         *auditor
	defaultPassword string
	logger          *zap.Logger
}

// NewUserService cria UserService. defaultPassword é usada ao resetar senha.
func NewUserService(repo *repository.Repository, aud *auditor, defaultPassword string, logger *zap.Logger) UserService {
	return &userService{repo: repo, auditor: aud, defaultPassword: defaultPassword, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, actor permission.Actor) (*dto.UserResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionUsers, AuditCreateUser); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrNameRequired
	}
	if !validRole(req.Role) {
		return nil, ErrInvalidRole
	}
	if len(req.Senha) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	overrides, err := encodeOverrides(req.Permissoes)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("falha ao consultar usuário", zap.String("username", username), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	hash, err := hashPassword(req.Senha)
	if err != nil {
		s.logger.Error("falha ao gerar hash de senha", zap.Error(err))
		return nil, err
	}
	user := &model.User{
		Username:   username,
		Nome:       strings.TrimSpace(req.Nome),
		SenhaHash:  hash,
		Role:       req.Role,
		Ativo:      true,
		Permissoes: overrides,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("falha ao criar usuário", zap.String("username", username), zap.Error(err))
		return nil, writeErr(err, ErrUserExists)
	}

	s.auditor.record(ctx, actor, AuditCreateUser, auditTarget{}, map[string]interface{}{
		"username":   username,
		"role":       user.Role,
		"permissoes": req.Permissoes,
	})
	resp := toUserResponse(user, s.logger)
	return &resp, nil
}

// ────────────────────── UpdateUser ──────────────────────

func (s *userService) UpdateUser(ctx context.Context, username string, req *dto.UpdateUserRequest, actor permission.Actor) (*dto.UserResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionUsers, AuditUpdateUser); err != nil {
		return nil, err
	}

	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("falha ao consultar usuário", zap.String("username", username), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	changes := map[string]interface{}{"username": user.Username}
	if req.Nome != nil {
		user.Nome = strings.TrimSpace(*req.Nome)
		changes["nome"] = user.Nome
	}
	if req.Role != nil && *req.Role != user.Role {
		if !validRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		if user.ID == actor.UserID {
			return nil, ErrUserSelfRole
		}
		user.Role = *req.Role
		changes["role"] = user.Role
	}
	if req.Ativo != nil {
		if !*req.Ativo && user.ID == actor.UserID {
			return nil, ErrUserSelfDisable
		}
		user.Ativo = *req.Ativo
		changes["ativo"] = user.Ativo
	}
	if req.Permissoes != nil {
		raw, err := encodeOverrides(req.Permissoes)
		if err != nil {
			return nil, err
		}
		user.Permissoes = raw
		changes["permissoes"] = req.Permissoes
	}
	if req.ResetarSenha {
		hash, err := hashPassword(s.defaultPassword)
		if err != nil {
			s.logger.Error("falha ao gerar hash de senha", zap.Error(err))
			return nil, err
		}
		user.SenhaHash = hash
		changes["senha_resetada"] = true
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("falha ao alterar usuário", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	s.auditor.record(ctx, actor, AuditUpdateUser, auditTarget{}, changes)
	resp := toUserResponse(user, s.logger)
	return &resp, nil
}

// ────────────────────── ListUsers ──────────────────────

func (s *userService) ListUsers(ctx context.Context, actor permission.Actor) ([]dto.UserResponse, error) {
	if err := s.auditor.requireView(ctx, actor, permission.FeatureAdminPanel, "listar_usuarios"); err != nil {
		return nil, err
	}
	list, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("falha ao listar usuários", zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i], s.logger))
	}
	return out, nil
}

// ── auxiliares ──

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleUser
}

// encodeOverrides recusa flags desconhecidas em vez de descartá-las
func encodeOverrides(overrides map[string]bool) (datatypes.JSON, error) {
	if len(overrides) == 0 {
		return nil, nil
	}
	var unknown []string
	for k := range overrides {
		if !permission.IsKnown(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, strings.Join(unknown, ", "))
	}
	raw, err := permission.EncodeOverrides(overrides)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
