package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

var (
	ErrProjectExists    = pkgerrors.New(pkgerrors.ErrConflict, "já existe obra com esse nome")
	ErrPhaseExists      = pkgerrors.New(pkgerrors.ErrConflict, "etapa já cadastrada nesta obra")
	ErrServiceExists    = pkgerrors.New(pkgerrors.ErrConflict, "serviço já cadastrado nesta etapa")
	ErrHouseExists      = pkgerrors.New(pkgerrors.ErrConflict, "lote já cadastrado nesta obra")
	ErrInvalidQuantity  = pkgerrors.New(pkgerrors.ErrValidation, "quantidade inválida")
	ErrNameRequired     = pkgerrors.New(pkgerrors.ErrValidation, "nome obrigatório")
	ErrReservedPhase    = pkgerrors.New(pkgerrors.ErrValidation, `"Todas" é reservado para o filtro de etapas`)
	ErrPhaseHasNoRecord = pkgerrors.New(pkgerrors.ErrNotFound, "etapa sem cadastro nem serviços nesta obra")
)

// Nomes de tabela usados na contagem de remoções em cascata
const (
	tableLaunches    = "lancamentos"
	tableStates      = "estado_servicos"
	tableActivations = "casa_ativacoes"
	tableQuantities  = "quantidades_planejadas"
	tableServices    = "servicos"
	tableHouses      = "casas"
	tablePhases      = "etapas"
	tableProjects    = "obras"
)

// CatalogService cadastro de obras, etapas, serviços, casas e quantitativos.
//
// Escrita exige editar serviços/admin. Exclusões pedem a palavra de
// confirmação e removem os dependentes na mesma transação.
type CatalogService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest, actor permission.Actor) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context) ([]dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, obraID int64, req *dto.DeleteRequest, actor permission.Actor) (*dto.CascadeResult, error)

	CreatePhase(ctx context.Context, obraID int64, req *dto.CreatePhaseRequest, actor permission.Actor) (*dto.PhaseResponse, error)
	ListPhases(ctx context.Context, obraID int64) (*dto.PhaseListResponse, error)
	DeletePhase(ctx context.Context, obraID int64, req *dto.DeletePhaseRequest, actor permission.Actor) (*dto.CascadeResult, error)

	CreateService(ctx context.Context, obraID int64, req *dto.CreateServiceRequest, actor permission.Actor) (*dto.ServiceResponse, error)
	ListServices(ctx context.Context, obraID int64, req *dto.ServiceListRequest) ([]dto.ServiceResponse, error)
	DeleteService(ctx context.Context, servicoID int64, req *dto.DeleteRequest, actor permission.Actor) (*dto.CascadeResult, error)

	CreateHouse(ctx context.Context, obraID int64, req *dto.CreateHouseRequest, actor permission.Actor) (*dto.HouseResponse, error)
	ListHouses(ctx context.Context, obraID int64) ([]dto.HouseResponse, error)
	DeleteHouse(ctx context.Context, casaID int64, req *dto.DeleteRequest, actor permission.Actor) (*dto.CascadeResult, error)

	SetPlannedQuantity(ctx context.Context, obraID int64, req *dto.PlannedQuantityRequest, actor permission.Actor) (*dto.PlannedQuantityResponse, error)
	ListPlannedQuantities(ctx context.Context, obraID int64) ([]dto.PlannedQuantityResponse, error)
}

type catalogService struct {
	repo    *repository.Repository
	auditor *auditor
	logger  *zap.Logger
}

// NewCatalogService cria CatalogService
func NewCatalogService(repo *repository.Repository, aud *auditor, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, auditor: aud, logger: logger}
}

// ────────────────────── Obras ──────────────────────

func (s *catalogService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, actor permission.Actor) (*dto.ProjectResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditCreateProject); err != nil {
		return nil, err
	}
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.repo.Project.GetByName(ctx, nome); err == nil {
		return nil, ErrProjectExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("falha ao consultar obra", zap.String("nome", nome), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	p := &model.Project{Nome: nome}
	if err := s.repo.Project.Create(ctx, p); err != nil {
		s.logger.Error("falha ao criar obra", zap.String("nome", nome), zap.Error(err))
		return nil, writeErr(err, ErrProjectExists)
	}

	s.auditor.record(ctx, actor, AuditCreateProject, auditTarget{ObraID: int64Ptr(p.ID)}, map[string]string{"nome": nome})
	resp := toProjectResponse(p)
	return &resp, nil
}

func (s *catalogService) ListProjects(ctx context.Context) ([]dto.ProjectResponse, error) {
	list, err := s.repo.Project.List(ctx)
	if err != nil {
		s.logger.Error("falha ao listar obras", zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	out := make([]dto.ProjectResponse, 0, len(list))
	for i := range list {
		out = append(out, toProjectResponse(&list[i]))
	}
	return out, nil
}

// DeleteProject remove lançamentos, estados, ativações, quantitativos, casas,
// etapas e serviços da obra, nessa ordem, e por fim a obra.
func (s *catalogService) DeleteProject(ctx context.Context, obraID int64, req *dto.DeleteRequest, actor permission.Actor) (*dto.CascadeResult, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditDeleteProject); err != nil {
		return nil, err
	}
	if !confirmed(req.Confirmacao) {
		return nil, ErrConfirmationRequired
	}

	project, err := s.repo.Project.GetByID(ctx, obraID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	removed := map[string]int64{}
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		houseIDs, err := r.House.IDsByProject(ctx, obraID)
		if err != nil {
			return pkgerrors.Storage(err)
		}
		serviceIDs, err := r.Service.OwnedIDsByProject(ctx, obraID)
		if err != nil {
			return pkgerrors.Storage(err)
		}
		phases, err := r.Phase.ListByProject(ctx, obraID)
		if err != nil {
			return pkgerrors.Storage(err)
		}
		phaseIDs := make([]int64, 0, len(phases))
		for _, p := range phases {
			phaseIDs = append(phaseIDs, p.ID)
		}

		steps := []struct {
			table string
			run   func() (int64, error)
		}{
			{tableLaunches, func() (int64, error) { return r.Launch.DeleteByHouses(ctx, houseIDs) }},
			{tableLaunches, func() (int64, error) { return r.Launch.DeleteByServices(ctx, serviceIDs) }},
			{tableStates, func() (int64, error) { return r.ServiceState.DeleteByHouses(ctx, houseIDs) }},
			{tableStates, func() (int64, error) { return r.ServiceState.DeleteByServices(ctx, serviceIDs) }},
			{tableActivations, func() (int64, error) { return r.Activation.DeleteByHouses(ctx, houseIDs) }},
			{tableQuantities, func() (int64, error) { return r.PlannedQuantity.DeleteByServices(ctx, serviceIDs) }},
			{tableQuantities, func() (int64, error) { return r.PlannedQuantity.DeleteByProject(ctx, obraID) }},
			{tableHouses, func() (int64, error) { return r.House.DeleteByProject(ctx, obraID) }},
			{tableServices, func() (int64, error) { return r.Service.DeleteByIDs(ctx, serviceIDs) }},
			// serviços legados que restarem não podem seguir apontando para as etapas
			{"", func() (int64, error) { return r.Service.UnlinkPhases(ctx, phaseIDs) }},
			{tablePhases, func() (int64, error) { return r.Phase.DeleteByProject(ctx, obraID) }},
			{tableProjects, func() (int64, error) { return r.Project.Delete(ctx, obraID) }},
		}
		for _, step := range steps {
			n, err := step.run()
			if err != nil {
				return pkgerrors.Storage(err)
			}
			if step.table != "" {
				removed[step.table] += n
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao excluir obra", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, err
	}

	s.auditor.record(ctx, actor, AuditDeleteProject, auditTarget{ObraID: int64Ptr(obraID)}, map[string]interface{}{
		"nome":      project.Nome,
		"removidos": removed,
	})
	return &dto.CascadeResult{Removidos: removed}, nil
}

// ────────────────────── Etapas ──────────────────────

func (s *catalogService) CreatePhase(ctx context.Context, obraID int64, req *dto.CreatePhaseRequest, actor permission.Actor) (*dto.PhaseResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditCreatePhase); err != nil {
		return nil, err
	}
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return nil, ErrNameRequired
	}
	if nome == model.AllPhases {
		return nil, ErrReservedPhase
	}
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	p := &model.Phase{ObraID: obraID, Nome: nome}
	if err := s.repo.Phase.Create(ctx, p); err != nil {
		s.logger.Error("falha ao criar etapa", zap.Int64("obra_id", obraID), zap.String("nome", nome), zap.Error(err))
		return nil, writeErr(err, ErrPhaseExists)
	}

	s.auditor.record(ctx, actor, AuditCreatePhase, auditTarget{ObraID: int64Ptr(obraID)}, map[string]string{"etapa": nome})
	return &dto.PhaseResponse{ID: p.ID, ObraID: p.ObraID, Nome: p.Nome}, nil
}

// ListPhases etapas cadastradas e a lista efetiva. Obra sem cadastro usa
// os rótulos de etapa dos serviços.
func (s *catalogService) ListPhases(ctx context.Context, obraID int64) (*dto.PhaseListResponse, error) {
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}
	registered, err := s.repo.Phase.ListByProject(ctx, obraID)
	if err != nil {
		s.logger.Error("falha ao listar etapas", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	labels, err := s.repo.Service.DistinctPhases(ctx, obraID)
	if err != nil {
		s.logger.Error("falha ao listar rótulos de etapa", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	resp := &dto.PhaseListResponse{Cadastradas: make([]dto.PhaseResponse, 0, len(registered))}
	seen := map[string]bool{}
	for _, p := range registered {
		resp.Cadastradas = append(resp.Cadastradas, dto.PhaseResponse{ID: p.ID, ObraID: p.ObraID, Nome: p.Nome})
		seen[p.Nome] = true
	}
	effective := make([]string, 0, len(registered)+len(labels))
	for name := range seen {
		effective = append(effective, name)
	}
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" && !seen[l] {
			seen[l] = true
			effective = append(effective, l)
		}
	}
	sort.Strings(effective)
	resp.Efetivas = effective
	return resp, nil
}

// DeletePhase remove as ativações da etapa, os serviços da etapa (com seus
// dependentes) e o cadastro da etapa, se houver.
func (s *catalogService) DeletePhase(ctx context.Context, obraID int64, req *dto.DeletePhaseRequest, actor permission.Actor) (*dto.CascadeResult, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditDeletePhase); err != nil {
		return nil, err
	}
	if !confirmed(req.Confirmacao) {
		return nil, ErrConfirmationRequired
	}
	etapa := strings.TrimSpace(req.Etapa)
	if etapa == "" || etapa == model.AllPhases {
		return nil, ErrPhaseRequired
	}
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	var phaseID int64
	phase, err := s.repo.Phase.GetByName(ctx, obraID, etapa)
	switch {
	case err == nil:
		phaseID = phase.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("falha ao consultar etapa", zap.Int64("obra_id", obraID), zap.String("etapa", etapa), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	serviceIDs, err := s.repo.Service.OwnedIDsByPhase(ctx, obraID, etapa)
	if err != nil {
		s.logger.Error("falha ao listar serviços da etapa", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	if phaseID == 0 && len(serviceIDs) == 0 {
		return nil, ErrPhaseHasNoRecord
	}

	removed := map[string]int64{}
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		n, err := r.Activation.DeleteByPhase(ctx, obraID, etapa)
		if err != nil {
			return pkgerrors.Storage(err)
		}
		removed[tableActivations] = n
		if err := cascadeServices(ctx, r, serviceIDs, removed); err != nil {
			return err
		}
		if phaseID != 0 {
			if _, err := r.Service.UnlinkPhases(ctx, []int64{phaseID}); err != nil {
				return pkgerrors.Storage(err)
			}
			n, err := r.Phase.Delete(ctx, phaseID)
			if err != nil {
				return pkgerrors.Storage(err)
			}
			removed[tablePhases] = n
		}
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao excluir etapa", zap.Int64("obra_id", obraID), zap.String("etapa", etapa), zap.Error(err))
		return nil, err
	}

	s.auditor.record(ctx, actor, AuditDeletePhase, auditTarget{ObraID: int64Ptr(obraID)}, map[string]interface{}{
		"etapa":     etapa,
		"removidos": removed,
	})
	return &dto.CascadeResult{Removidos: removed}, nil
}

// ────────────────────── Serviços ──────────────────────

func (s *catalogService) CreateService(ctx context.Context, obraID int64, req *dto.CreateServiceRequest, actor permission.Actor) (*dto.ServiceResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditCreateService); err != nil {
		return nil, err
	}
	nome := strings.TrimSpace(req.Nome)
	etapa := strings.TrimSpace(req.Etapa)
	if nome == "" {
		return nil, ErrNameRequired
	}
	if etapa == "" {
		return nil, ErrPhaseRequired
	}
	if etapa == model.AllPhases {
		return nil, ErrReservedPhase
	}
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	etapaID, err := s.phaseIDFor(ctx, obraID, etapa)
	if err != nil {
		return nil, err
	}

	svc := &model.Service{Nome: nome, Etapa: etapa, ObraID: int64Ptr(obraID), EtapaID: etapaID}
	if err := s.repo.Service.Create(ctx, svc); err != nil {
		s.logger.Error("falha ao criar serviço", zap.Int64("obra_id", obraID), zap.String("nome", nome), zap.Error(err))
		return nil, writeErr(err, ErrServiceExists)
	}

	s.auditor.record(ctx, actor, AuditCreateService, auditTarget{ObraID: int64Ptr(obraID), ServicoID: int64Ptr(svc.ID)}, map[string]string{
		"servico": nome,
		"etapa":   etapa,
	})
	resp := toServiceResponse(svc)
	return &resp, nil
}

func (s *catalogService) ListServices(ctx context.Context, obraID int64, req *dto.ServiceListRequest) ([]dto.ServiceResponse, error) {
	etapa := strings.TrimSpace(req.Etapa)
	if etapa == "" {
		etapa = model.AllPhases
	}
	list, err := s.repo.Service.ListByPhase(ctx, obraID, etapa)
	if err != nil {
		s.logger.Error("falha ao listar serviços", zap.Int64("obra_id", obraID), zap.String("etapa", etapa), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for i := range list {
		out = append(out, toServiceResponse(&list[i]))
	}
	return out, nil
}

func (s *catalogService) DeleteService(ctx context.Context, servicoID int64, req *dto.DeleteRequest, actor permission.Actor) (*dto.CascadeResult, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditDeleteService); err != nil {
		return nil, err
	}
	if !confirmed(req.Confirmacao) {
		return nil, ErrConfirmationRequired
	}
	svc, err := s.repo.Service.GetByID(ctx, servicoID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrServiceNotFound, "serviço", servicoID)
	}

	removed := map[string]int64{}
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		return cascadeServices(ctx, r, []int64{svc.ID}, removed)
	})
	if err != nil {
		s.logger.Error("falha ao excluir serviço", zap.Int64("servico_id", servicoID), zap.Error(err))
		return nil, err
	}

	s.auditor.record(ctx, actor, AuditDeleteService, auditTarget{ObraID: svc.ObraID, ServicoID: int64Ptr(svc.ID)}, map[string]interface{}{
		"servico":   svc.Nome,
		"etapa":     svc.Etapa,
		"removidos": removed,
	})
	return &dto.CascadeResult{Removidos: removed}, nil
}

// ────────────────────── Casas ──────────────────────

func (s *catalogService) CreateHouse(ctx context.Context, obraID int64, req *dto.CreateHouseRequest, actor permission.Actor) (*dto.HouseResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditCreateHouse); err != nil {
		return nil, err
	}
	lote := strings.TrimSpace(req.Lote)
	if lote == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	h := &model.House{
		ObraID:       obraID,
		Lote:         lote,
		CodTipologia: strings.TrimSpace(req.CodTipologia),
		Tipologia:    strings.TrimSpace(req.Tipologia),
	}
	if err := s.repo.House.Create(ctx, h); err != nil {
		s.logger.Error("falha ao criar casa", zap.Int64("obra_id", obraID), zap.String("lote", lote), zap.Error(err))
		return nil, writeErr(err, ErrHouseExists)
	}

	s.auditor.record(ctx, actor, AuditCreateHouse, auditTarget{ObraID: int64Ptr(obraID), CasaID: int64Ptr(h.ID)}, map[string]string{"lote": lote})
	resp := toHouseResponse(h)
	return &resp, nil
}

func (s *catalogService) ListHouses(ctx context.Context, obraID int64) ([]dto.HouseResponse, error) {
	list, err := s.repo.House.ListByProject(ctx, obraID)
	if err != nil {
		s.logger.Error("falha ao listar casas", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	out := make([]dto.HouseResponse, 0, len(list))
	for i := range list {
		out = append(out, toHouseResponse(&list[i]))
	}
	return out, nil
}

func (s *catalogService) DeleteHouse(ctx context.Context, casaID int64, req *dto.DeleteRequest, actor permission.Actor) (*dto.CascadeResult, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditDeleteHouse); err != nil {
		return nil, err
	}
	if !confirmed(req.Confirmacao) {
		return nil, ErrConfirmationRequired
	}
	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	removed := map[string]int64{}
	ids := []int64{house.ID}
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		n, err := r.Launch.DeleteByHouses(ctx, ids)
		if err != nil {
			return pkgerrors.Storage(err)
		}
		removed[tableLaunches] = n
		if n, err = r.ServiceState.DeleteByHouses(ctx, ids); err != nil {
			return pkgerrors.Storage(err)
		}
		removed[tableStates] = n
		if n, err = r.Activation.DeleteByHouses(ctx, ids); err != nil {
			return pkgerrors.Storage(err)
		}
		removed[tableActivations] = n
		if n, err = r.House.Delete(ctx, house.ID); err != nil {
			return pkgerrors.Storage(err)
		}
		removed[tableHouses] = n
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao excluir casa", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, err
	}

	s.auditor.record(ctx, actor, AuditDeleteHouse, auditTarget{ObraID: int64Ptr(house.ObraID), CasaID: int64Ptr(house.ID)}, map[string]interface{}{
		"lote":      house.Lote,
		"removidos": removed,
	})
	return &dto.CascadeResult{Removidos: removed}, nil
}

// ────────────────────── Quantitativos ──────────────────────

func (s *catalogService) SetPlannedQuantity(ctx context.Context, obraID int64, req *dto.PlannedQuantityRequest, actor permission.Actor) (*dto.PlannedQuantityResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditSetQuantity); err != nil {
		return nil, err
	}
	qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(req.Quantidade), ",", "."))
	if err != nil || qty.IsNegative() {
		return nil, ErrInvalidQuantity
	}

	svc, err := s.repo.Service.GetByID(ctx, req.ServicoID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrServiceNotFound, "serviço", req.ServicoID)
	}
	if svc.ObraID != nil && *svc.ObraID != obraID {
		return nil, ErrServiceNotInProject
	}

	q := &model.PlannedQuantity{
		ObraID:       obraID,
		ServicoID:    svc.ID,
		CodTipologia: strings.TrimSpace(req.CodTipologia),
		Quantidade:   qty,
		Unidade:      strings.TrimSpace(req.Unidade),
	}
	if err := s.repo.PlannedQuantity.Upsert(ctx, q); err != nil {
		s.logger.Error("falha ao gravar quantitativo", zap.Int64("servico_id", svc.ID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	s.auditor.record(ctx, actor, AuditSetQuantity, auditTarget{ObraID: int64Ptr(obraID), ServicoID: int64Ptr(svc.ID)}, map[string]string{
		"servico":       svc.Nome,
		"cod_tipologia": q.CodTipologia,
		"quantidade":    qty.String(),
		"unidade":       q.Unidade,
	})
	resp := toPlannedQuantityResponse(q)
	return &resp, nil
}

func (s *catalogService) ListPlannedQuantities(ctx context.Context, obraID int64) ([]dto.PlannedQuantityResponse, error) {
	list, err := s.repo.PlannedQuantity.ListByProject(ctx, obraID)
	if err != nil {
		s.logger.Error("falha ao listar quantitativos", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	out := make([]dto.PlannedQuantityResponse, 0, len(list))
	for i := range list {
		out = append(out, toPlannedQuantityResponse(&list[i]))
	}
	return out, nil
}

// ── auxiliares ──

// cascadeServices remove lançamentos, estados e quantitativos dos serviços
// e depois os próprios serviços, somando as contagens em removed.
func cascadeServices(ctx context.Context, r *repository.Repository, ids []int64, removed map[string]int64) error {
	steps := []struct {
		table string
		run   func() (int64, error)
	}{
		{tableLaunches, func() (int64, error) { return r.Launch.DeleteByServices(ctx, ids) }},
		{tableStates, func() (int64, error) { return r.ServiceState.DeleteByServices(ctx, ids) }},
		{tableQuantities, func() (int64, error) { return r.PlannedQuantity.DeleteByServices(ctx, ids) }},
		{tableServices, func() (int64, error) { return r.Service.DeleteByIDs(ctx, ids) }},
	}
	for _, step := range steps {
		n, err := step.run()
		if err != nil {
			return pkgerrors.Storage(err)
		}
		removed[step.table] += n
	}
	return nil
}

// phaseIDFor id da etapa cadastrada com esse nome, ou nil
func (s *catalogService) phaseIDFor(ctx context.Context, obraID int64, etapa string) (*int64, error) {
	phase, err := s.repo.Phase.GetByName(ctx, obraID, etapa)
	if err == nil {
		return int64Ptr(phase.ID), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	s.logger.Error("falha ao consultar etapa", zap.Int64("obra_id", obraID), zap.String("etapa", etapa), zap.Error(err))
	return nil, pkgerrors.Storage(err)
}

func toProjectResponse(p *model.Project) dto.ProjectResponse {
	return dto.ProjectResponse{ID: p.ID, Nome: p.Nome, CreatedAt: formatTime(p.CreatedAt)}
}

func toServiceResponse(svc *model.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:      svc.ID,
		Nome:    svc.Nome,
		Etapa:   svc.Etapa,
		ObraID:  svc.ObraID,
		EtapaID: svc.EtapaID,
		Legado:  svc.ObraID == nil,
	}
}

func toHouseResponse(h *model.House) dto.HouseResponse {
	return dto.HouseResponse{
		ID:           h.ID,
		ObraID:       h.ObraID,
		Lote:         h.Lote,
		CodTipologia: h.CodTipologia,
		Tipologia:    h.Tipologia,
		Ativa:        h.Ativa,
	}
}

func toPlannedQuantityResponse(q *model.PlannedQuantity) dto.PlannedQuantityResponse {
	return dto.PlannedQuantityResponse{
		ID:           q.ID,
		ServicoID:    q.ServicoID,
		CodTipologia: q.CodTipologia,
		Quantidade:   q.Quantidade.String(),
		Unidade:      q.Unidade,
	}
}
