package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// ActivationService liga e desliga casas nas etapas.
//
// Ativar grava a linha (casa, etapa) e semeia "Não iniciado" para cada
// serviço da etapa que ainda não tem estado, sem mexer nos existentes.
// Desativar preserva todo o estado. Qualquer usuário autenticado pode ativar.
type ActivationService interface {
	SetActivation(ctx context.Context, casaID int64, req *dto.SetActivationRequest, actor permission.Actor) (*dto.ActivationResponse, error)
	GetActivation(ctx context.Context, casaID int64, etapa string) (*dto.ActivationResponse, error)
	// ListServiceStates todos os serviços da etapa com o status atual na casa
	ListServiceStates(ctx context.Context, casaID int64, etapa string) ([]dto.ServiceStateResponse, error)
}

type activationService struct {
	repo    *repository.Repository
	auditor *auditor
	logger  *zap.Logger
}

// NewActivationService cria ActivationService
func NewActivationService(repo *repository.Repository, aud *auditor, logger *zap.Logger) ActivationService {
	return &activationService{repo: repo, auditor: aud, logger: logger}
}

// ────────────────────── SetActivation ──────────────────────

func (s *activationService) SetActivation(ctx context.Context, casaID int64, req *dto.SetActivationRequest, actor permission.Actor) (*dto.ActivationResponse, error) {
	etapa := strings.TrimSpace(req.Etapa)
	if etapa == "" || etapa == model.AllPhases {
		return nil, ErrPhaseRequired
	}
	active := req.Ativa != nil && *req.Ativa

	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	services, err := phaseServices(ctx, s.repo, house.ObraID, etapa)
	if err != nil {
		s.logger.Error("falha ao listar serviços da etapa", zap.Int64("obra_id", house.ObraID), zap.String("etapa", etapa), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	row := &model.Activation{CasaID: house.ID, Etapa: etapa, Ativa: active}
	if active {
		now := time.Now().UTC()
		row.AtivaEm = &now
		row.AtivaPor = actor.Label()
	}

	var seeded int64
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		if err := r.Activation.Upsert(ctx, row); err != nil {
			return pkgerrors.Storage(err)
		}
		if !active {
			return nil
		}
		ids := make([]int64, 0, len(services))
		for _, svc := range services {
			ids = append(ids, svc.ID)
		}
		n, err := r.ServiceState.SeedNotStarted(ctx, house.ID, ids)
		if err != nil {
			return pkgerrors.Storage(err)
		}
		seeded = n
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao gravar ativação", zap.Int64("casa_id", casaID), zap.String("etapa", etapa), zap.Error(err))
		return nil, err
	}

	acao := AuditDeactivatePhase
	if active {
		acao = AuditActivatePhase
	}
	s.auditor.record(ctx, actor, acao, auditTarget{ObraID: int64Ptr(house.ObraID), CasaID: int64Ptr(house.ID)}, map[string]interface{}{
		"lote":              house.Lote,
		"etapa":             etapa,
		"servicos_semeados": seeded,
	})

	return s.GetActivation(ctx, casaID, etapa)
}

// ────────────────────── GetActivation ──────────────────────

func (s *activationService) GetActivation(ctx context.Context, casaID int64, etapa string) (*dto.ActivationResponse, error) {
	etapa = strings.TrimSpace(etapa)
	if etapa == "" {
		return nil, ErrPhaseRequired
	}

	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	rows, err := s.repo.Activation.ListByHouse(ctx, house.ID)
	if err != nil {
		s.logger.Error("falha ao listar ativações", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	active, source, row := resolveActivation(house, rows, etapa)
	resp := &dto.ActivationResponse{
		CasaID: house.ID,
		Etapa:  etapa,
		Ativa:  active,
		Origem: source,
	}
	if row != nil {
		resp.AtivaEm = formatTimePtr(row.AtivaEm)
		resp.AtivaPor = row.AtivaPor
	}

	states, err := s.statesFor(ctx, house, etapa)
	if err != nil {
		return nil, err
	}
	resp.Servicos = states
	return resp, nil
}

// ────────────────────── ListServiceStates ──────────────────────

func (s *activationService) ListServiceStates(ctx context.Context, casaID int64, etapa string) ([]dto.ServiceStateResponse, error) {
	etapa = strings.TrimSpace(etapa)
	if etapa == "" {
		return nil, ErrPhaseRequired
	}
	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}
	return s.statesFor(ctx, house, etapa)
}

// ── auxiliares ──

func (s *activationService) statesFor(ctx context.Context, house *model.House, etapa string) ([]dto.ServiceStateResponse, error) {
	services, err := phaseServices(ctx, s.repo, house.ObraID, etapa)
	if err != nil {
		s.logger.Error("falha ao listar serviços da etapa", zap.Int64("obra_id", house.ObraID), zap.String("etapa", etapa), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	ids := make([]int64, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}

	stateByService := map[int64]model.ServiceState{}
	if len(ids) > 0 {
		states, err := s.repo.ServiceState.ListByHouse(ctx, house.ID, ids)
		if err != nil {
			s.logger.Error("falha ao listar estados", zap.Int64("casa_id", house.ID), zap.Error(err))
			return nil, pkgerrors.Storage(err)
		}
		for _, st := range states {
			stateByService[st.ServicoID] = st
		}
	}

	out := make([]dto.ServiceStateResponse, 0, len(services))
	for _, svc := range services {
		st, ok := stateByService[svc.ID]
		if !ok {
			st = model.ServiceState{CasaID: house.ID, ServicoID: svc.ID, Status: model.StatusNotStarted}
		}
		out = append(out, toServiceStateResponse(&svc, &st))
	}
	return out, nil
}

func toServiceStateResponse(svc *model.Service, st *model.ServiceState) dto.ServiceStateResponse {
	resp := dto.ServiceStateResponse{
		ServicoID:  svc.ID,
		Servico:    svc.Nome,
		Etapa:      svc.Etapa,
		Status:     st.Status,
		Executor:   st.Executor,
		DataInicio: formatDate(st.DataInicio),
		DataFim:    formatDate(st.DataFim),
	}
	if st.ID != 0 {
		resp.UpdatedAt = formatTime(st.UpdatedAt)
	}
	return resp
}
