package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

var (
	ErrNoLaunchToVoid              = pkgerrors.New(pkgerrors.ErrNotFound, "nenhum lançamento ativo para anular")
	ErrInvalidStatus               = pkgerrors.New(pkgerrors.ErrValidation, "status inválido")
	ErrDoneRequiresEndDate         = pkgerrors.New(pkgerrors.ErrValidation, "status Concluído exige data de término")
	ErrInProgressRequiresStartDate = pkgerrors.New(pkgerrors.ErrValidation, "status Em execução exige data de início")
)

// CorrectionService correções privilegiadas (permissão corrigir_registros).
// Nenhuma correção passa pela máquina de estados normal.
type CorrectionService interface {
	// VoidLastLaunch anula o último lançamento ativo do par (casa, serviço).
	// O estado atual não é alterado.
	VoidLastLaunch(ctx context.Context, casaID int64, req *dto.VoidLaunchRequest, actor permission.Actor) (*dto.LaunchResponse, error)
	SetServiceState(ctx context.Context, casaID int64, req *dto.SetServiceStateRequest, actor permission.Actor) (*dto.ServiceStateResponse, error)
	// DeactivateHouse desliga apenas o flag legado; ativações por etapa ficam como estão.
	DeactivateHouse(ctx context.Context, casaID int64, req *dto.DeactivateHouseRequest, actor permission.Actor) error
}

type correctionService struct {
	repo    *repository.Repository
	auditor *auditor
	logger  *zap.Logger
}

// NewCorrectionService cria CorrectionService
func NewCorrectionService(repo *repository.Repository, aud *auditor, logger *zap.Logger) CorrectionService {
	return &correctionService{repo: repo, auditor: aud, logger: logger}
}

// ────────────────────── VoidLastLaunch ──────────────────────

func (s *correctionService) VoidLastLaunch(ctx context.Context, casaID int64, req *dto.VoidLaunchRequest, actor permission.Actor) (*dto.LaunchResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionCorrections, AuditVoidLaunch); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Motivo)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	last, err := s.repo.Launch.LastActive(ctx, house.ID, req.ServicoID)
	if err != nil {
		return nil, lookupLogged(s.logger, err, ErrNoLaunchToVoid, "lançamento", req.ServicoID)
	}

	now := time.Now().UTC()
	if err := s.repo.Launch.Void(ctx, last.ID, actor.Label(), now, reason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoLaunchToVoid
		}
		s.logger.Error("falha ao anular lançamento", zap.Int64("lancamento_id", last.ID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	last.Anulado = true
	last.AnuladoPor = actor.Label()
	last.AnuladoEm = &now
	last.AnulacaoMotivo = reason

	s.auditor.record(ctx, actor, AuditVoidLaunch, auditTarget{
		ObraID:    int64Ptr(house.ObraID),
		CasaID:    int64Ptr(house.ID),
		ServicoID: int64Ptr(req.ServicoID),
	}, map[string]interface{}{
		"lancamento_id": last.ID,
		"status":        last.Status,
		"motivo":        reason,
	})

	resp := toLaunchResponse(last)
	return &resp, nil
}

// ────────────────────── SetServiceState ──────────────────────

func (s *correctionService) SetServiceState(ctx context.Context, casaID int64, req *dto.SetServiceStateRequest, actor permission.Actor) (*dto.ServiceStateResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionCorrections, AuditEditServiceState); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Motivo)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if !model.ValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	start, err := parseOptionalDate(req.DataInicio)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(req.DataFim)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case model.StatusDone:
		if end == nil {
			return nil, ErrDoneRequiresEndDate
		}
	case model.StatusInProgress:
		if start == nil {
			return nil, ErrInProgressRequiresStartDate
		}
		end = nil
	default:
		end = nil
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

	state := &model.ServiceState{
		CasaID:     house.ID,
		ServicoID:  svc.ID,
		Status:     req.Status,
		Executor:   strings.TrimSpace(req.Executor),
		DataInicio: start,
		DataFim:    end,
	}
	if err := s.repo.ServiceState.Upsert(ctx, state); err != nil {
		s.logger.Error("falha ao editar estado", zap.Int64("casa_id", casaID), zap.Int64("servico_id", svc.ID), zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}

	s.auditor.record(ctx, actor, AuditEditServiceState, auditTarget{
		ObraID:    int64Ptr(house.ObraID),
		CasaID:    int64Ptr(house.ID),
		ServicoID: int64Ptr(svc.ID),
	}, map[string]interface{}{
		"lote":        house.Lote,
		"servico":     svc.Nome,
		"status":      state.Status,
		"executor":    state.Executor,
		"data_inicio": formatDate(state.DataInicio),
		"data_fim":    formatDate(state.DataFim),
		"motivo":      reason,
	})

	resp := toServiceStateResponse(svc, state)
	return &resp, nil
}

// ────────────────────── DeactivateHouse ──────────────────────

func (s *correctionService) DeactivateHouse(ctx context.Context, casaID int64, req *dto.DeactivateHouseRequest, actor permission.Actor) error {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionCorrections, AuditDeactivateHouse); err != nil {
		return err
	}
	reason := strings.TrimSpace(req.Motivo)
	if reason == "" {
		return ErrReasonRequired
	}

	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	if err := s.repo.House.SetLegacyActive(ctx, house.ID, false); err != nil {
		s.logger.Error("falha ao desativar casa", zap.Int64("casa_id", casaID), zap.Error(err))
		return pkgerrors.Storage(err)
	}

	s.auditor.record(ctx, actor, AuditDeactivateHouse, auditTarget{ObraID: int64Ptr(house.ObraID), CasaID: int64Ptr(house.ID)}, map[string]interface{}{
		"lote":   house.Lote,
		"motivo": reason,
	})
	return nil
}
