package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"acompanhamento-obras/config"
	"acompanhamento-obras/internal/api/handler"
	"acompanhamento-obras/internal/api/middleware"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/pkg/jwt"
	"acompanhamento-obras/pkg/redis"
	"acompanhamento-obras/pkg/storage"
)

// Setup monta o engine gin com middlewares e rotas.
// rdb e db podem ser nil (sem Redis e sem health check do banco).
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	resolver middleware.ActorResolver,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── middlewares globais ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders(storage.PublicOrigin(&cfg.Storage)))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// interfaces só recebem o cliente quando ele existe
	var (
		tokenChecker middleware.TokenChecker
		rateChecker  middleware.RateChecker
	)
	if rdb != nil {
		tokenChecker = rdb
		rateChecker = rdb
	}

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "banco indisponível"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── fotos no disco local ──
	if cfg.Storage.Driver == config.StorageLocal && cfg.Storage.LocalDir != "" {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	view := middleware.RequireView

	v1 := r.Group("/api/v1")
	{
		// autenticação pública
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rateChecker, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, tokenChecker, logger))
		authorized.Use(middleware.LoadActor(resolver, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// usuários (edição checada no serviço)
			users := authorized.Group("/usuarios", view(permission.FeatureAdminPanel))
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.PUT("/:username", h.User.UpdateUser)
			}

			// obras e catálogo
			obras := authorized.Group("/obras")
			{
				obras.GET("", h.Catalog.ListProjects)
				obras.POST("", view(permission.FeatureServicesAdmin), h.Catalog.CreateProject)
				obras.DELETE("/:obra_id", view(permission.FeatureServicesAdmin), h.Catalog.DeleteProject)

				obras.GET("/:obra_id/etapas", h.Catalog.ListPhases)
				obras.POST("/:obra_id/etapas", view(permission.FeatureServicesAdmin), h.Catalog.CreatePhase)
				obras.DELETE("/:obra_id/etapas", view(permission.FeatureServicesAdmin), h.Catalog.DeletePhase)

				obras.GET("/:obra_id/servicos", h.Catalog.ListServices)
				obras.POST("/:obra_id/servicos", view(permission.FeatureServicesAdmin), h.Catalog.CreateService)
				obras.POST("/:obra_id/servicos/importar", view(permission.FeatureServicesAdmin), h.Import.ImportServices)

				obras.GET("/:obra_id/casas", h.Catalog.ListHouses)
				obras.POST("/:obra_id/casas", view(permission.FeatureServicesAdmin), h.Catalog.CreateHouse)
				obras.POST("/:obra_id/casas/importar", view(permission.FeatureServicesAdmin), h.Import.ImportHouses)

				obras.GET("/:obra_id/quantidades", view(permission.FeatureServicesAdmin), h.Catalog.ListPlannedQuantities)
				obras.PUT("/:obra_id/quantidades", view(permission.FeatureServicesAdmin), h.Catalog.SetPlannedQuantity)

				obras.GET("/:obra_id/dashboard", view(permission.FeatureDashboard), h.Dashboard.Summary)
			}

			authorized.DELETE("/servicos/:servico_id", view(permission.FeatureServicesAdmin), h.Catalog.DeleteService)

			// operação de campo por casa
			casas := authorized.Group("/casas/:casa_id")
			{
				casas.DELETE("", view(permission.FeatureServicesAdmin), h.Catalog.DeleteHouse)

				casas.GET("/ativacao", view(permission.FeatureActivation), h.Activation.GetActivation)
				casas.PUT("/ativacao", view(permission.FeatureActivation), h.Activation.SetActivation)
				casas.GET("/servicos", view(permission.FeatureLaunches), h.Activation.ListServiceStates)

				casas.GET("/lancamentos", view(permission.FeatureLaunches), h.Launch.ListLaunches)
				casas.GET("/lancamentos/exportar", view(permission.FeatureLaunches), h.Export.ExportLaunches)
				casas.POST("/lancamentos/inicio", view(permission.FeatureLaunches), h.Launch.StartServices)
				casas.POST("/lancamentos/conclusao", view(permission.FeatureLaunches), h.Launch.FinishService)

				casas.POST("/correcoes/anular", view(permission.FeatureLaunches), h.Correction.VoidLastLaunch)
				casas.PUT("/correcoes/estado", view(permission.FeatureLaunches), h.Correction.SetServiceState)
				casas.POST("/correcoes/desativar", view(permission.FeatureLaunches), h.Correction.DeactivateHouse)

				casas.GET("/observacoes", view(permission.FeatureLaunches), h.Observation.List)
				casas.GET("/observacoes/exportar", view(permission.FeatureLaunches), h.Export.ExportObservations)
			}

			// auditoria
			audit := authorized.Group("/auditoria", view(permission.FeatureLogs))
			{
				audit.GET("", h.Audit.List)
				audit.GET("/filtros", h.Audit.Filters)
				audit.GET("/exportar", h.Export.ExportAudit)
			}
		}
	}

	return r
}
