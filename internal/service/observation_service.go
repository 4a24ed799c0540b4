package service

import (
	"bytes"
	"context"
	"strings"

	"go.uber.org/zap"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// ObservationService observações lançadas no início e na conclusão dos
// serviços de uma casa. Lançamentos anulados não aparecem.
type ObservationService interface {
	List(ctx context.Context, casaID int64, req *dto.ObservationRequest) ([]dto.ObservationResponse, error)
	Export(ctx context.Context, casaID int64, req *dto.ObservationRequest) (*bytes.Buffer, string, error)
}

type observationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewObservationService cria ObservationService
func NewObservationService(repo *repository.Repository, logger *zap.Logger) ObservationService {
	return &observationService{repo: repo, logger: logger}
}

func (s *observationService) List(ctx context.Context, casaID int64, req *dto.ObservationRequest) ([]dto.ObservationResponse, error) {
	_, out, err := s.collect(ctx, casaID, req)
	return out, err
}

func (s *observationService) Export(ctx context.Context, casaID int64, req *dto.ObservationRequest) (*bytes.Buffer, string, error) {
	house, list, err := s.collect(ctx, casaID, req)
	if err != nil {
		return nil, "", err
	}

	t := table{
		title:  "Observações",
		header: []string{"Data registro", "Serviço", "Etapa", "Status", "Data", "Responsável", "Observações"},
	}
	for _, o := range list {
		t.rows = append(t.rows, []string{o.CreatedAt, o.Servico, o.Etapa, o.Status, o.Data, o.Responsavel, o.Observacoes})
	}

	buf, err := renderTable(t, req.Formato)
	if err != nil {
		s.logger.Error("falha ao gerar exportação de observações", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, "", err
	}
	return buf, exportFilename("observacoes_"+house.Lote, req.Formato), nil
}

func (s *observationService) collect(ctx context.Context, casaID int64, req *dto.ObservationRequest) (*model.House, []dto.ObservationResponse, error) {
	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	launches, err := s.repo.Launch.List(ctx, repository.LaunchFilter{CasaID: casaID, OnlyWithNotes: true})
	if err != nil {
		s.logger.Error("falha ao listar observações", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, nil, pkgerrors.Storage(err)
	}

	services, err := s.repo.Service.ListByPhase(ctx, house.ObraID, model.AllPhases)
	if err != nil {
		s.logger.Error("falha ao listar serviços", zap.Int64("obra_id", house.ObraID), zap.Error(err))
		return nil, nil, pkgerrors.Storage(err)
	}
	byID := make(map[int64]model.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	etapa := strings.TrimSpace(req.Etapa)
	filter := etapa != "" && etapa != model.AllPhases

	out := make([]dto.ObservationResponse, 0, len(launches))
	for i := range launches {
		l := &launches[i]
		svc := byID[l.ServicoID]
		if filter && svc.Etapa != etapa {
			continue
		}
		data := formatDate(l.DataConclusao)
		if data == "" {
			data = formatDate(l.DataInicio)
		}
		out = append(out, dto.ObservationResponse{
			LancamentoID: l.ID,
			Servico:      svc.Nome,
			Etapa:        svc.Etapa,
			Status:       l.Status,
			Data:         data,
			Responsavel:  l.Responsavel,
			Observacoes:  l.Observacoes,
			CreatedAt:    formatTime(l.CreatedAt),
		})
	}
	return house, out, nil
}
