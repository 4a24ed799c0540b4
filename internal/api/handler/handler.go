package handler

import "acompanhamento-obras/internal/service"

// Handler agregado de todos os handlers HTTP
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Activation  *ActivationHandler
	Launch      *LaunchHandler
	Correction  *CorrectionHandler
	Dashboard   *DashboardHandler
	Catalog     *CatalogHandler
	Import      *ImportHandler
	Export      *ExportHandler
	Observation *ObservationHandler
	Audit       *AuditHandler
}

// NewHandler monta o agregado a partir dos serviços
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Activation:  NewActivationHandler(svc.Activation),
		Launch:      NewLaunchHandler(svc.Launch),
		Correction:  NewCorrectionHandler(svc.Correction),
		Dashboard:   NewDashboardHandler(svc.Dashboard),
		Catalog:     NewCatalogHandler(svc.Catalog),
		Import:      NewImportHandler(svc.Import),
		Export:      NewExportHandler(svc.Export, svc.Observation, svc.Audit),
		Observation: NewObservationHandler(svc.Observation),
		Audit:       NewAuditHandler(svc.Audit),
	}
}
