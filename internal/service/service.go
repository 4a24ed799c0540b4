package service

import (
	"go.uber.org/zap"

	"acompanhamento-obras/config"
	"acompanhamento-obras/internal/repository"
	"acompanhamento-obras/pkg/jwt"
	"acompanhamento-obras/pkg/storage"
)

// Service agrega todos os serviços
type Service struct {
	Auth        AuthService
	User        UserService
	Activation  ActivationService
	Launch      LaunchService
	Correction  CorrectionService
	Dashboard   DashboardService
	Catalog     CatalogService
	Import      ImportService
	Export      ExportService
	Observation ObservationService
	Audit       AuditService
}

// NewService monta o agregado. blacklist e uploader podem ser nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	uploader storage.Uploader,
	logger *zap.Logger,
) *Service {
	aud := newAuditor(repo, logger, cfg.Feature.AuditDenials)
	return &Service{
		Auth:        NewAuthService(&cfg.Auth, repo, jwtMgr, blacklist, aud, logger),
		User:        NewUserService(repo, aud, cfg.Auth.DefaultPassword, logger),
		Activation:  NewActivationService(repo, aud, logger),
		Launch:      NewLaunchService(repo, aud, uploader, cfg.Feature.StrictTransitions, logger),
		Correction:  NewCorrectionService(repo, aud, logger),
		Dashboard:   NewDashboardService(repo, logger),
		Catalog:     NewCatalogService(repo, aud, logger),
		Import:      NewImportService(repo, aud, cfg.Import.ChunkSize, cfg.Import.MaxRows, logger),
		Export:      NewExportService(repo, logger),
		Observation: NewObservationService(repo, logger),
		Audit:       NewAuditService(repo, logger),
	}
}
