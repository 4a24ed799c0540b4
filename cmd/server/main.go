package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"acompanhamento-obras/config"
	"acompanhamento-obras/internal/api/handler"
	"acompanhamento-obras/internal/api/router"
	"acompanhamento-obras/internal/repository"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/database"
	"acompanhamento-obras/pkg/jwt"
	applogger "acompanhamento-obras/pkg/logger"
	"acompanhamento-obras/pkg/redis"
	"acompanhamento-obras/pkg/storage"
)

func main() {
	// 1. configuração
	cfg, err := config.Load(os.Getenv("OBRAS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// 2. log
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao iniciar log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("iniciando aplicação",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. banco (NewDB já aplica migrações ou AutoMigrate)
	db, err := database.NewDB(&cfg.Database, &cfg.Log, logger)
	if err != nil {
		logger.Fatal("falha ao abrir banco", zap.Error(err))
	}

	// 4. Redis opcional: sem ele, logout não revoga e o rate limit fica em memória
	var (
		rdb       *redis.Client
		blacklist service.TokenBlacklist
	)
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis indisponível, seguindo sem blacklist de tokens", zap.Error(err))
		rdb = nil
	} else {
		blacklist = rdb
	}

	// 5. JWT
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. fotos de conclusão
	initCtx, initCancel := context.WithTimeout(context.Background(), 15*time.Second)
	uploader, err := storage.New(initCtx, &cfg.Storage)
	initCancel()
	if err != nil {
		logger.Fatal("falha ao iniciar armazenamento de fotos", zap.Error(err))
	}

	// 7. Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, uploader, logger)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Auth.SeedAdmin(seedCtx); err != nil {
		logger.Error("falha ao criar administrador inicial", zap.Error(err))
	}
	seedCancel()

	h := handler.NewHandler(svc)

	// 8. rotas
	engine := router.Setup(cfg, h, svc.Auth, jwtMgr, rdb, db, logger)

	// 9. servidor HTTP com desligamento gracioso
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP no ar", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("servidor HTTP falhou", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("sinal recebido, encerrando", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("falha ao encerrar servidor", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("servidor encerrado")
}
