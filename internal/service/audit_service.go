package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// DefaultAuditPageSize tamanho de página quando o filtro não informa
const DefaultAuditPageSize = 50

// AuditService leitura da auditoria (tela de logs)
type AuditService interface {
	List(ctx context.Context, req *dto.AuditListRequest) ([]dto.AuditEntryResponse, int64, error)
	Filters(ctx context.Context) (*dto.AuditFiltersResponse, error)
	// Export todos os registros do filtro, sem paginação
	Export(ctx context.Context, req *dto.AuditListRequest, format string) (*bytes.Buffer, string, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService cria AuditService
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) List(ctx context.Context, req *dto.AuditListRequest) ([]dto.AuditEntryResponse, int64, error) {
	f, err := auditFilter(req)
	if err != nil {
		return nil, 0, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultAuditPageSize
	}

	list, total, err := s.repo.Audit.List(ctx, f)
	if err != nil {
		s.logger.Error("falha ao listar auditoria", zap.Error(err))
		return nil, 0, pkgerrors.Storage(err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for i := range list {
		out = append(out, toAuditEntryResponse(&list[i]))
	}
	return out, total, nil
}

func (s *auditService) Filters(ctx context.Context) (*dto.AuditFiltersResponse, error) {
	users, err := s.repo.Audit.DistinctUsers(ctx)
	if err != nil {
		s.logger.Error("falha ao listar usuários da auditoria", zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	actions, err := s.repo.Audit.DistinctActions(ctx)
	if err != nil {
		s.logger.Error("falha ao listar ações da auditoria", zap.Error(err))
		return nil, pkgerrors.Storage(err)
	}
	return &dto.AuditFiltersResponse{Usuarios: users, Acoes: actions}, nil
}

func (s *auditService) Export(ctx context.Context, req *dto.AuditListRequest, format string) (*bytes.Buffer, string, error) {
	f, err := auditFilter(req)
	if err != nil {
		return nil, "", err
	}
	f.Page, f.PageSize = 0, 0

	list, _, err := s.repo.Audit.List(ctx, f)
	if err != nil {
		s.logger.Error("falha ao listar auditoria", zap.Error(err))
		return nil, "", pkgerrors.Storage(err)
	}

	t := table{
		title:  "Auditoria",
		header: []string{"Data/hora", "Usuário", "Ação", "Obra", "Casa", "Serviço", "Detalhes"},
	}
	for i := range list {
		e := &list[i]
		t.rows = append(t.rows, []string{
			formatTime(e.Timestamp),
			e.Usuario,
			e.Acao,
			idString(e.ObraID),
			idString(e.CasaID),
			idString(e.ServicoID),
			string(e.Detalhes),
		})
	}

	buf, err := renderTable(t, format)
	if err != nil {
		s.logger.Error("falha ao gerar exportação da auditoria", zap.Error(err))
		return nil, "", err
	}
	return buf, exportFilename("auditoria", format), nil
}

// auditFilter datas AAAA-MM-DD; o dia final é inclusivo
func auditFilter(req *dto.AuditListRequest) (repository.AuditFilter, error) {
	f := repository.AuditFilter{
		Usuario:  strings.TrimSpace(req.Usuario),
		Acao:     strings.TrimSpace(req.Acao),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	from, err := parseOptionalDate(req.De)
	if err != nil {
		return f, err
	}
	to, err := parseOptionalDate(req.Ate)
	if err != nil {
		return f, err
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	f.From, f.To = from, to
	return f, nil
}

func toAuditEntryResponse(e *model.AuditEntry) dto.AuditEntryResponse {
	resp := dto.AuditEntryResponse{
		ID:        e.ID,
		Ts:        formatTime(e.Timestamp),
		Usuario:   e.Usuario,
		Acao:      e.Acao,
		ObraID:    e.ObraID,
		CasaID:    e.CasaID,
		ServicoID: e.ServicoID,
	}
	if len(e.Detalhes) > 0 {
		resp.Detalhes = json.RawMessage(e.Detalhes)
	}
	return resp
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
