package service

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// DashboardService painel de andamento, recalculado a cada leitura
type DashboardService interface {
	Summary(ctx context.Context, obraID int64, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService cria DashboardService
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

// ────────────────────── Summary ──────────────────────

func (s *dashboardService) Summary(ctx context.Context, obraID int64, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	etapa := strings.TrimSpace(req.Etapa)
	if etapa == "" {
		etapa = model.AllPhases
	}

	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	houses, err := s.repo.House.ListByProject(ctx, obraID)
	if err != nil {
		s.logger.Error("falha ao listar casas", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	services, err := phaseServices(ctx, s.repo, obraID, etapa)
	if err != nil {
		s.logger.Error("falha ao listar serviços", zap.Int64("obra_id", obraID), zap.String("etapa", etapa), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	houseIDs := make([]int64, 0, len(houses))
	for _, h := range houses {
		houseIDs = append(houseIDs, h.ID)
	}
	activations, err := s.repo.Activation.ListByHouses(ctx, houseIDs)
	if err != nil {
		s.logger.Error("falha ao listar ativações", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	states, err := s.repo.ServiceState.ListByHouses(ctx, houseIDs)
	if err != nil {
		s.logger.Error("falha ao listar estados", zap.Int64("obra_id", obraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	activationsByHouse := make(map[int64][]model.Activation, len(houses))
	for _, a := range activations {
		activationsByHouse[a.CasaID] = append(activationsByHouse[a.CasaID], a)
	}
	statusByHouse := make(map[int64]map[int64]string, len(houses))
	for _, st := range states {
		m, ok := statusByHouse[st.CasaID]
		if !ok {
			m = map[int64]string{}
			statusByHouse[st.CasaID] = m
		}
		m[st.ServicoID] = st.Status
	}

	resp := &dto.DashboardResponse{
		ObraID: obraID,
		Etapa:  etapa,
		Casas:  make([]dto.HouseProgress, 0, len(houses)),
		Contagem: map[string]int{
			model.StatusNotStarted: 0,
			model.StatusInProgress: 0,
			model.StatusDone:       0,
		},
	}

	var sum float64
	for i := range houses {
		h := &houses[i]
		active, _, _ := resolveActivation(h, activationsByHouse[h.ID], etapa)
		counts := CountStates(services, statusByHouse[h.ID])
		status := ClassifyHouse(active, counts)
		progress := ProgressPercent(counts)

		resp.Casas = append(resp.Casas, dto.HouseProgress{
			CasaID:       h.ID,
			Lote:         h.Lote,
			CodTipologia: h.CodTipologia,
			Status:       status,
			Progresso:    progress,
			Total:        counts.Total,
			Concluidos:   counts.Done,
			EmExecucao:   counts.InProgress,
		})
		resp.Contagem[status]++
		sum += progress
	}
	if len(houses) > 0 {
		resp.ProgressoMedio = math.Round(sum/float64(len(houses))*10) / 10
	}
	return resp, nil
}
