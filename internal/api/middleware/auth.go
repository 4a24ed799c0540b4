package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/pkg/jwt"
	"acompanhamento-obras/pkg/response"
)

// Chaves gravadas no gin.Context pelos middlewares de autenticação.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxTokenID  = "token_jti"
	CtxTokenExp = "token_exp"
	CtxActor    = "actor"
)

// TokenChecker consulta a blacklist de tokens revogados no logout.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// ActorResolver carrega o usuário do token com as permissões efetivas.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID int64) (permission.Actor, error)
}

// JWTAuth valida o Access Token de "Authorization: Bearer <token>".
// checker nil desliga a consulta à blacklist.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "cabeçalho de autenticação ausente")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "cabeçalho de autenticação inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			msg := "token inválido"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expirado"
			}
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "tipo de token inválido")
			c.Abort()
			return
		}

		if checker != nil {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis fora do ar não derruba a autenticação
				logger.Warn("falha ao consultar blacklist de tokens", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "sessão encerrada, faça login novamente")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// LoadActor resolve o usuário do token a cada requisição, de modo que
// desativação e mudança de permissões valem sem novo login.
func LoadActor(resolver ActorResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get(CtxUserID)
		if !ok {
			response.Unauthorized(c, 10002, "não autenticado")
			c.Abort()
			return
		}
		id, ok := userID.(int64)
		if !ok || id <= 0 {
			response.Unauthorized(c, 10002, "não autenticado")
			c.Abort()
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), id)
		if err != nil {
			logger.Info("usuário do token recusado", zap.Int64("user_id", id), zap.Error(err))
			response.Unauthorized(c, 10002, err.Error())
			c.Abort()
			return
		}

		c.Set(CtxActor, actor)
		c.Next()
	}
}

// RequireView recusa com 403 quem não pode ver a tela.
func RequireView(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxActor)
		if !ok {
			response.Unauthorized(c, 10002, "não autenticado")
			c.Abort()
			return
		}
		actor, ok := v.(permission.Actor)
		if !ok {
			response.Unauthorized(c, 10002, "não autenticado")
			c.Abort()
			return
		}

		if !actor.Perms.CanView(feature) {
			response.Forbidden(c, 10003, "sem permissão para acessar esta área")
			c.Abort()
			return
		}

		c.Next()
	}
}
