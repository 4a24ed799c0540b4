package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

const defaultImportChunk = 500

// ImportService importação em lote de serviços e casas.
//
// As linhas são gravadas por upsert com as mesmas chaves dos formulários,
// em blocos, dentro de uma única transação.
type ImportService interface {
	ImportServices(ctx context.Context, obraID int64, etapa, filename string, r io.Reader, actor permission.Actor) (*dto.ImportResponse, error)
	ImportHouses(ctx context.Context, obraID int64, filename string, r io.Reader, actor permission.Actor) (*dto.ImportResponse, error)
	// UpsertServices grava linhas já interpretadas; devolve quantas foram enviadas
	UpsertServices(ctx context.Context, obraID int64, rows []ServiceRow, actor permission.Actor) (int, error)
	UpsertHouses(ctx context.Context, obraID int64, rows []HouseRow, actor permission.Actor) (int, error)
}

type importService struct {
	repo      *repository.Repository
	auditor   *auditor
	chunkSize int
	maxRows   int
	logger    *zap.Logger
}

// NewImportService cria ImportService; maxRows <= 0 desliga o limite
func NewImportService(repo *repository.Repository, aud *auditor, chunkSize, maxRows int, logger *zap.Logger) ImportService {
	if chunkSize <= 0 {
		chunkSize = defaultImportChunk
	}
	return &importService{repo: repo, auditor: aud, chunkSize: chunkSize, maxRows: maxRows, logger: logger}
}

// ────────────────────── ImportServices ──────────────────────

func (s *importService) ImportServices(ctx context.Context, obraID int64, etapa, filename string, r io.Reader, actor permission.Actor) (*dto.ImportResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditImportServices); err != nil {
		return nil, err
	}
	etapa = strings.TrimSpace(etapa)
	if etapa == model.AllPhases {
		etapa = ""
	}

	sh, err := s.read(filename, r)
	if err != nil {
		return nil, err
	}
	rows, skipped, err := parseServiceRows(sh, etapa)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrImportNoValidRows
	}

	n, err := s.UpsertServices(ctx, obraID, rows, actor)
	if err != nil {
		return nil, err
	}
	return &dto.ImportResponse{Lidos: len(sh.rows), Processados: n, Ignorados: skipped + len(rows) - n}, nil
}

func (s *importService) UpsertServices(ctx context.Context, obraID int64, rows []ServiceRow, actor permission.Actor) (int, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditImportServices); err != nil {
		return 0, err
	}
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return 0, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	phases, err := s.repo.Phase.ListByProject(ctx, obraID)
	if err != nil {
		s.logger.Error("falha ao listar etapas", zap.Int64("obra_id", obraID), zap.Error(err))
		return 0, pkgerrors.Storage(err)
	}
	phaseIDs := make(map[string]int64, len(phases))
	for _, p := range phases {
		phaseIDs[p.Nome] = p.ID
	}

	type key struct{ nome, etapa string }
	seen := make(map[key]bool, len(rows))
	records := make([]model.Service, 0, len(rows))
	for _, row := range rows {
		k := key{strings.TrimSpace(row.Nome), strings.TrimSpace(row.Etapa)}
		if k.nome == "" || k.etapa == "" || k.etapa == model.AllPhases || seen[k] {
			continue
		}
		seen[k] = true
		svc := model.Service{Nome: k.nome, Etapa: k.etapa, ObraID: int64Ptr(obraID)}
		if id, ok := phaseIDs[k.etapa]; ok {
			svc.EtapaID = int64Ptr(id)
		}
		records = append(records, svc)
	}
	if len(records) == 0 {
		return 0, ErrImportNoValidRows
	}

	err = withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		for start := 0; start < len(records); start += s.chunkSize {
			end := min(start+s.chunkSize, len(records))
			if _, err := r.Service.UpsertBatch(ctx, records[start:end]); err != nil {
				return pkgerrors.Storage(err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao importar serviços", zap.Int64("obra_id", obraID), zap.Int("linhas", len(records)), zap.Error(err))
		return 0, err
	}

	s.auditor.record(ctx, actor, AuditImportServices, auditTarget{ObraID: int64Ptr(obraID)}, map[string]int{"total": len(records)})
	s.logger.Info("serviços importados", zap.Int64("obra_id", obraID), zap.Int("total", len(records)))
	return len(records), nil
}

// ────────────────────── ImportHouses ──────────────────────

func (s *importService) ImportHouses(ctx context.Context, obraID int64, filename string, r io.Reader, actor permission.Actor) (*dto.ImportResponse, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditImportHouses); err != nil {
		return nil, err
	}

	sh, err := s.read(filename, r)
	if err != nil {
		return nil, err
	}
	rows, skipped, err := parseHouseRows(sh)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrImportNoValidRows
	}

	n, err := s.UpsertHouses(ctx, obraID, rows, actor)
	if err != nil {
		return nil, err
	}
	return &dto.ImportResponse{Lidos: len(sh.rows), Processados: n, Ignorados: skipped + len(rows) - n}, nil
}

func (s *importService) UpsertHouses(ctx context.Context, obraID int64, rows []HouseRow, actor permission.Actor) (int, error) {
	if err := s.auditor.requireEdit(ctx, actor, permission.ActionServicesAdmin, AuditImportHouses); err != nil {
		return 0, err
	}
	if _, err := s.repo.Project.GetByID(ctx, obraID); err != nil {
		return 0, lookupLogged(s.logger, err, ErrProjectNotFound, "obra", obraID)
	}

	// a última ocorrência do lote define a tipologia
	index := make(map[string]int, len(rows))
	records := make([]model.House, 0, len(rows))
	for _, row := range rows {
		lote := strings.TrimSpace(row.Lote)
		if lote == "" {
			continue
		}
		h := model.House{
			ObraID:       obraID,
			Lote:         lote,
			CodTipologia: strings.TrimSpace(row.CodTipologia),
			Tipologia:    strings.TrimSpace(row.Tipologia),
		}
		if i, ok := index[lote]; ok {
			records[i] = h
			continue
		}
		index[lote] = len(records)
		records = append(records, h)
	}
	if len(records) == 0 {
		return 0, ErrImportNoValidRows
	}

	err := withTx(ctx, s.repo, s.logger, func(r *repository.Repository) error {
		for start := 0; start < len(records); start += s.chunkSize {
			end := min(start+s.chunkSize, len(records))
			if _, err := r.House.UpsertBatch(ctx, records[start:end]); err != nil {
				return pkgerrors.Storage(err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao importar casas", zap.Int64("obra_id", obraID), zap.Int("linhas", len(records)), zap.Error(err))
		return 0, err
	}

	s.auditor.record(ctx, actor, AuditImportHouses, auditTarget{ObraID: int64Ptr(obraID)}, map[string]int{"total": len(records)})
	s.logger.Info("casas importadas", zap.Int64("obra_id", obraID), zap.Int("total", len(records)))
	return len(records), nil
}

func (s *importService) read(filename string, r io.Reader) (*sheet, error) {
	sh, err := readSheet(filename, r)
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && len(sh.rows) > s.maxRows {
		return nil, ErrImportTooManyRows
	}
	return sh, nil
}
