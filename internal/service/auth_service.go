package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"acompanhamento-obras/config"
	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
	"acompanhamento-obras/pkg/jwt"
)

const minPasswordLen = 4

var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.ErrValidation, "usuário ou senha inválidos")
	ErrInvalidRefresh     = pkgerrors.New(pkgerrors.ErrValidation, "refresh token inválido ou expirado")
	ErrUserNotFound       = pkgerrors.New(pkgerrors.ErrNotFound, "usuário não encontrado")
	ErrUserInactive       = pkgerrors.New(pkgerrors.ErrPermissionDenied, "usuário inativo")
	ErrPasswordTooShort   = pkgerrors.New(pkgerrors.ErrValidation, "a nova senha deve ter pelo menos 4 caracteres")
	ErrPasswordMismatch   = pkgerrors.New(pkgerrors.ErrValidation, "a confirmação não confere com a nova senha")
	ErrWrongPassword      = pkgerrors.New(pkgerrors.ErrValidation, "senha atual incorreta")
)

// TokenBlacklist revogação de tokens de acesso (redis)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService autenticação e conta do próprio usuário
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	// Logout revoga o token de acesso até a sua expiração
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, actor permission.Actor) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest, actor permission.Actor) error
	// ResolveActor carrega o usuário do token com as permissões efetivas
	ResolveActor(ctx context.Context, userID int64) (permission.Actor, error)
	// SeedAdmin cria o administrador inicial quando não há usuários
	SeedAdmin(ctx context.Context) error
}

type authService struct {
	cfg       *config.AuthConfig
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	auditor   *auditor
	logger    *zap.Logger
}

// NewAuthService cria AuthService; blacklist nil desliga a revogação no logout
func NewAuthService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	aud *auditor,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		auditor:   aud,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("falha ao consultar usuário", zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	if !user.Ativo {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefresh
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		s.logger.Error("falha ao consultar usuário", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	if !user.Ativo {
		return nil, ErrUserInactive
	}
	return s.issueTokens(user)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Warn("falha ao revogar token", zap.String("jti", jti), zap.Error(err))
		return pkgerrors.Storage(err)
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, actor permission.Actor) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrUserNotFound, "usuário", actor.UserID)
	}
	resp := toUserResponse(user, s.logger)
	return &resp, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest, actor permission.Actor) error {
	if len(req.NovaSenha) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if req.NovaSenha != req.Confirmacao {
		return ErrPasswordMismatch
	}

	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		return lookupLogged(s.logger, err, ErrUserNotFound, "usuário", actor.UserID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.SenhaAtual)); err != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NovaSenha)
	if err != nil {
		s.logger.Error("falha ao gerar hash de senha", zap.Error(err))
		return err
	}
	user.SenhaHash = hash
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("falha ao gravar senha", zap.Int64("user_id", user.ID), zap.Error(err))
		return pkgerrors.Storage(err)
	}

	s.auditor.record(ctx, actor, AuditChangePassword, auditTarget{}, nil)
	return nil
}

// ────────────────────── ResolveActor ──────────────────────

func (s *authService) ResolveActor(ctx context.Context, userID int64) (permission.Actor, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return permission.Actor{}, lookupLogged(s.logger, err, ErrUserNotFound, "usuário", userID)
	}
	if !user.Ativo {
		return permission.Actor{}, ErrUserInactive
	}
	overrides, err := permission.ParseOverrides(user.Permissoes)
	if err != nil {
		s.logger.Warn("sobreposição de permissões ilegível, usando padrões do papel",
			zap.Int64("user_id", userID), zap.Error(err))
		overrides = nil
	}
	return permission.NewActor(user.ID, user.Username, user.Nome, user.Role, overrides), nil
}

// ────────────────────── SeedAdmin ──────────────────────

func (s *authService) SeedAdmin(ctx context.Context) error {
	n, err := s.repo.User.Count(ctx)
	if err != nil {
		return pkgerrors.Storage(err)
	}
	if n > 0 {
		return nil
	}

	username := s.cfg.SeedAdminUsername
	if username == "" {
		username = "admin"
	}
	hash, err := hashPassword(s.cfg.DefaultPassword)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:  username,
		Nome:      "Administrador",
		SenhaHash: hash,
		Role:      model.RoleAdmin,
		Ativo:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return pkgerrors.Storage(err)
	}
	s.logger.Warn("usuário administrador inicial criado, troque a senha", zap.String("username", username))
	return nil
}

// ── auxiliares ──

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("falha ao gerar access token", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("falha ao gerar refresh token", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user, s.logger),
	}, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// toUserResponse devolve as permissões efetivas e as sobreposições gravadas
func toUserResponse(u *model.User, logger *zap.Logger) dto.UserResponse {
	overrides, err := permission.ParseOverrides(u.Permissoes)
	if err != nil {
		logger.Warn("sobreposição de permissões ilegível", zap.Int64("user_id", u.ID), zap.Error(err))
		overrides = nil
	}
	perms := permission.EffectivePermissions(u.Role, overrides)
	return dto.UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Nome:          u.Nome,
		Role:          u.Role,
		Ativo:         u.Ativo,
		Permissoes:    perms.Map(),
		Sobreposicoes: overrides,
		Concedidas:    perms.Granted(),
		CreatedAt:     formatTime(u.CreatedAt),
	}
}
