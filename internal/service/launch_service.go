package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
	"acompanhamento-obras/pkg/storage"
)

// ── erros do motor de lançamentos ──

var (
	ErrNoServicesSelected  = pkgerrors.New(pkgerrors.ErrValidation, "selecione ao menos um serviço")
	ErrExecutorRequired    = pkgerrors.New(pkgerrors.ErrValidation, "executor obrigatório")
	ErrHouseNotActive      = pkgerrors.New(pkgerrors.ErrValidation, "casa não está ativa nesta etapa")
	ErrServiceNotInPhase   = pkgerrors.New(pkgerrors.ErrValidation, "serviço não pertence à etapa")
	ErrServiceNotInProject = pkgerrors.New(pkgerrors.ErrValidation, "serviço não pertence à obra da casa")
	ErrInvalidTransition   = pkgerrors.New(pkgerrors.ErrValidation, "transição de status inválida")
)

// LaunchService início e conclusão de serviços.
//
// Cada ação atualiza o estado atual (estado_servicos) e acrescenta um
// lançamento imutável por serviço. Com transições estritas, iniciar um
// serviço concluído ou concluir um serviço que não está em execução é
// recusado sem gravar nada.
type LaunchService interface {
	StartServices(ctx context.Context, casaID int64, req *dto.StartServicesRequest, actor permission.Actor) (*dto.StartServicesResponse, error)
	FinishService(ctx context.Context, casaID int64, req *dto.FinishServiceRequest, photo *dto.PhotoUpload, actor permission.Actor) (*dto.LaunchResponse, error)
	ListLaunches(ctx context.Context, casaID int64, req *dto.LaunchListRequest) ([]dto.LaunchResponse, error)
}

type launchService struct {
	repo     *repository.Repository
	auditor  *auditor
	uploader storage.Uploader
	strict   bool
	logger   *zap.Logger
}

// NewLaunchService cria LaunchService. uploader nil desliga o envio de fotos.
func NewLaunchService(repo *repository.Repository, aud *auditor, uploader storage.Uploader, strict bool, logger *zap.Logger) LaunchService {
	if uploader == nil {
		uploader = storage.NoopUploader{}
	}
	return &launchService{repo: repo, auditor: aud, uploader: uploader, strict: strict, logger: logger}
}

// ────────────────────── StartServices ──────────────────────

func (s *launchService) StartServices(ctx context.Context, casaID int64, req *dto.StartServicesRequest, actor permission.Actor) (*dto.StartServicesResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionLaunches, AuditStartServices); err != nil {
		return nil, err
	}

	etapa := strings.TrimSpace(req.Etapa)
	if etapa == "" || etapa == model.AllPhases {
		return nil, ErrPhaseRequired
	}
	names := uniqueNames(req.Servicos)
	if len(names) == 0 {
		return nil, ErrNoServicesSelected
	}
	executor := strings.TrimSpace(req.Executor)
	if executor == "" {
		return nil, ErrExecutorRequired
	}
	startDate, err := parseDate(req.DataInicio)
	if err != nil {
		return nil, err
	}

	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	activations, err := s.repo.Activation.ListByHouse(ctx, house.ID)
	if err != nil {
		s.logger.Error("falha ao listar ativações", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	if active, _, _ := resolveActivation(house, activations, etapa); !active {
		return nil, ErrHouseNotActive
	}

	candidates, err := phaseServices(ctx, s.repo, house.ObraID, etapa)
	if err != nil {
		s.logger.Error("falha ao listar serviços da etapa", zap.Int64("obra_id", house.ObraID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	byName := servicesByName(candidates)

	selected := make([]model.Service, 0, len(names))
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		svc, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotInPhase, name)
		}
		selected = append(selected, svc)
		ids = append(ids, svc.ID)
	}

	if s.strict {
		states, err := s.repo.ServiceState.ListByHouse(ctx, house.ID, ids)
		if err != nil {
			s.logger.Error("falha ao listar estados", zap.Int64("casa_id", casaID), zap.Error(err))
			return nil, pkgerrors.Storage(err)
		}
		for _, st := range states {
			if st.Status == model.StatusDone {
				return nil, fmt.Errorf("%w: serviço já concluído", ErrInvalidTransition)
			}
		}
	}

	notes := strings.TrimSpace(req.Observacoes)
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		for _, svc := range selected {
			start := startDate
			state := &model.ServiceState{
				CasaID:     house.ID,
				ServicoID:  svc.ID,
				Status:     model.StatusInProgress,
				Executor:   executor,
				DataInicio: &start,
			}
			if err := r.ServiceState.Upsert(ctx, state); err != nil {
				return pkgerrors.Storage(err)
			}
			launch := &model.Launch{
				ObraID:      house.ObraID,
				CasaID:      house.ID,
				ServicoID:   svc.ID,
				Responsavel: actor.Label(),
				Executor:    executor,
				Status:      model.StatusInProgress,
				DataInicio:  &start,
				Observacoes: notes,
			}
			if err := r.Launch.Create(ctx, launch); err != nil {
				return pkgerrors.Storage(err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao iniciar serviços", zap.Int64("casa_id", casaID), zap.Strings("servicos", names), zap.Error(err))
		return nil, err
	}

	s.auditor.record(ctx, actor, AuditStartServices, auditTarget{ObraID: int64Ptr(house.ObraID), CasaID: int64Ptr(house.ID)}, map[string]interface{}{
		"lote":        house.Lote,
		"etapa":       etapa,
		"servicos":    names,
		"executor":    executor,
		"data":        startDate.Format(dto.DateLayout),
		"observacoes": notes,
	})

	return &dto.StartServicesResponse{Iniciados: len(selected)}, nil
}

// ────────────────────── FinishService ──────────────────────

func (s *launchService) FinishService(ctx context.Context, casaID int64, req *dto.FinishServiceRequest, photo *dto.PhotoUpload, actor permission.Actor) (*dto.LaunchResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionLaunches, AuditFinishService); err != nil {
		return nil, err
	}

	finishDate, err := parseDate(req.DataConclusao)
	if err != nil {
		return nil, err
	}

	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}
	svc, err := s.repo.Service.GetByID(ctx, req.ServicoID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrServiceNotFound, "serviço", req.ServicoID)
	}
	if svc.ObraID != nil && *svc.ObraID != house.ObraID {
		return nil, ErrServiceNotInProject
	}
	if svc.ObraID == nil {
		// linha legada oculta por um serviço da obra com o mesmo nome
		candidates, err := phaseServices(ctx, s.repo, house.ObraID, svc.Etapa)
		if err != nil {
			s.logger.Error("falha ao listar serviços da etapa", zap.Int64("obra_id", house.ObraID), zap.Error(err))
			return nil, pkgerrors.Storage(err)
		}
		if !containsService(candidates, svc.ID) {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotInPhase, svc.Nome)
		}
	}

	current, err := s.repo.ServiceState.Get(ctx, house.ID, svc.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		current = &model.ServiceState{CasaID: house.ID, ServicoID: svc.ID, Status: model.StatusNotStarted}
	case err != nil:
		s.logger.Error("falha ao consultar estado", zap.Int64("casa_id", casaID), zap.Int64("servico_id", svc.ID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	if s.strict && current.Status != model.StatusInProgress {
		return nil, fmt.Errorf("%w: serviço está %q", ErrInvalidTransition, current.Status)
	}

	fotoPath := s.uploadPhoto(ctx, house, svc, photo)

	notes := strings.TrimSpace(req.Observacoes)
	launch := &model.Launch{
		ObraID:        house.ObraID,
		CasaID:        house.ID,
		ServicoID:     svc.ID,
		Responsavel:   actor.Label(),
		Status:        model.StatusDone,
		DataConclusao: &finishDate,
		Observacoes:   notes,
		FotoPath:      fotoPath,
	}
	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		state := &model.ServiceState{
			CasaID:     house.ID,
			ServicoID:  svc.ID,
			Status:     model.StatusDone,
			Executor:   current.Executor,
			DataInicio: current.DataInicio,
			DataFim:    &finishDate,
		}
		if err := r.ServiceState.Upsert(ctx, state); err != nil {
			return pkgerrors.Storage(err)
		}
		if err := r.Launch.Create(ctx, launch); err != nil {
			return pkgerrors.Storage(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao concluir serviço", zap.Int64("casa_id", casaID), zap.Int64("servico_id", svc.ID), zap.Error(err))
		return nil, err
	}

	s.auditor.record(ctx, actor, AuditFinishService, auditTarget{
		ObraID:    int64Ptr(house.ObraID),
		CasaID:    int64Ptr(house.ID),
		ServicoID: int64Ptr(svc.ID),
	}, map[string]interface{}{
		"lote":        house.Lote,
		"servico":     svc.Nome,
		"data":        finishDate.Format(dto.DateLayout),
		"observacoes": notes,
		"foto":        fotoPath,
	})

	resp := toLaunchResponse(launch)
	return &resp, nil
}

// ────────────────────── ListLaunches ──────────────────────

func (s *launchService) ListLaunches(ctx context.Context, casaID int64, req *dto.LaunchListRequest) ([]dto.LaunchResponse, error) {
	if _, err := s.repo.House.GetByID(ctx, casaID); err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	launches, err := s.repo.Launch.List(ctx, repository.LaunchFilter{
		CasaID:        casaID,
		ServicoID:     req.ServicoID,
		IncludeVoided: req.IncluirAnulados,
	})
	if err != nil {
		s.logger.Error("falha ao listar lançamentos", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	out := make([]dto.LaunchResponse, 0, len(launches))
	for i := range launches {
		out = append(out, toLaunchResponse(&launches[i]))
	}
	return out, nil
}

// ── auxiliares ──

// uploadPhoto envia a foto e devolve a referência; falha no envio não
// impede a conclusão e resulta em referência vazia.
func (s *launchService) uploadPhoto(ctx context.Context, house *model.House, svc *model.Service, photo *dto.PhotoUpload) string {
	if photo == nil || len(photo.Body) == 0 {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(photo.Filename))
	key := fmt.Sprintf("fotos/%d/%d/%d/%s-%s%s",
		house.ObraID, house.ID, svc.ID, time.Now().UTC().Format("20060102"), uuid.NewString(), ext)

	res, err := s.uploader.Upload(ctx, storage.UploadInput{
		Key:         key,
		Body:        photo.Body,
		ContentType: photo.ContentType,
	})
	if err != nil {
		s.logger.Warn("falha ao enviar foto, conclusão segue sem foto",
			zap.Int64("casa_id", house.ID),
			zap.Int64("servico_id", svc.ID),
			zap.Error(err),
		)
		return ""
	}
	return res.URL
}

// servicesByName indexa pelo nome os serviços já filtrados por effectiveServices.
func servicesByName(services []model.Service) map[string]model.Service {
	out := make(map[string]model.Service, len(services))
	for _, svc := range services {
		out[strings.TrimSpace(svc.Nome)] = svc
	}
	return out
}

func uniqueNames(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func toLaunchResponse(l *model.Launch) dto.LaunchResponse {
	return dto.LaunchResponse{
		ID:             l.ID,
		ObraID:         l.ObraID,
		CasaID:         l.CasaID,
		ServicoID:      l.ServicoID,
		Responsavel:    l.Responsavel,
		Executor:       l.Executor,
		Status:         l.Status,
		DataInicio:     formatDate(l.DataInicio),
		DataConclusao:  formatDate(l.DataConclusao),
		Observacoes:    l.Observacoes,
		FotoPath:       l.FotoPath,
		CreatedAt:      formatTime(l.CreatedAt),
		Anulado:        l.Anulado,
		AnuladoPor:     l.AnuladoPor,
		AnuladoEm:      formatTimePtr(l.AnuladoEm),
		AnulacaoMotivo: l.AnulacaoMotivo,
	}
}

func containsService(services []model.Service, id int64) bool {
	for _, svc := range services {
		if svc.ID == id {
			return true
		}
	}
	return false
}
