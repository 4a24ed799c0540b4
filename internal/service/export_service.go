package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// Formatos de exportação
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrExportGenerateFail = errors.New("falha ao gerar arquivo exportado")

// ExportService exporta o histórico de lançamentos de uma casa.
//
// Arquivos saem como bytes.Buffer; o handler define os cabeçalhos HTTP e
// escreve a resposta.
type ExportService interface {
	ExportLaunches(ctx context.Context, casaID int64, req *dto.LaunchListRequest, format string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService cria ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportLaunches ──────────────────────

func (s *exportService) ExportLaunches(ctx context.Context, casaID int64, req *dto.LaunchListRequest, format string) (*bytes.Buffer, string, error) {
	house, err := s.repo.House.GetByID(ctx, casaID)
	if err != nil {
		return nil, "", lookupLogged(s.logger, err, ErrHouseNotFound, "casa", casaID)
	}

	launches, err := s.repo.Launch.List(ctx, repository.LaunchFilter{
		CasaID:        casaID,
		ServicoID:     req.ServicoID,
		IncludeVoided: req.IncluirAnulados,
	})
	if err != nil {
		s.logger.Error("falha ao listar lançamentos", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, "", pkgerrors.Storage(err)
	}

	names, err := serviceNames(ctx, s.repo, house.ObraID)
	if err != nil {
		s.logger.Error("falha ao listar serviços", zap.Int64("obra_id", house.ObraID), zap.Error(err))
		return nil, "", pkgerrors.Storage(err)
	}

	t := table{
		title:  "Lançamentos",
		header: []string{"Data registro", "Serviço", "Status", "Executor", "Início", "Conclusão", "Responsável", "Observações", "Foto", "Anulado", "Motivo anulação"},
	}
	for i := range launches {
		l := &launches[i]
		t.rows = append(t.rows, []string{
			formatTime(l.CreatedAt),
			names[l.ServicoID],
			l.Status,
			l.Executor,
			formatDate(l.DataInicio),
			formatDate(l.DataConclusao),
			l.Responsavel,
			l.Observacoes,
			l.FotoPath,
			yesNo(l.Anulado),
			l.AnulacaoMotivo,
		})
	}

	buf, err := renderTable(t, format)
	if err != nil {
		s.logger.Error("falha ao gerar exportação", zap.Int64("casa_id", casaID), zap.Error(err))
		return nil, "", err
	}
	return buf, exportFilename("lancamentos_"+house.Lote, format), nil
}

// ── tabela exportável ──

// table conteúdo tabular comum às exportações csv e xlsx
type table struct {
	title  string
	header []string
	rows   [][]string
}

// renderTable gera csv (separador ";", com BOM para o Excel) ou xlsx
func renderTable(t table, format string) (*bytes.Buffer, error) {
	switch normalizeFormat(format) {
	case FormatXLSX:
		return renderXLSX(t)
	default:
		return renderCSV(t)
	}
}

func renderCSV(t table) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\ufeff")
	w := csv.NewWriter(buf)
	w.Comma = ';'
	if err := w.Write(t.header); err != nil {
		return nil, ErrExportGenerateFail
	}
	if err := w.WriteAll(t.rows); err != nil {
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

func renderXLSX(t table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := t.title
	if sheetName == "" {
		sheetName = "Dados"
	}
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range t.header {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
		f.SetColWidth(sheetName, colName(i), colName(i), 18)
	}
	if len(t.header) > 0 {
		f.SetCellStyle(sheetName, "A1", cell(colName(len(t.header)-1), 1), headerStyle)
	}

	for r, row := range t.rows {
		for c, v := range row {
			f.SetCellValue(sheetName, cell(colName(c), r+2), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

func normalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), FormatXLSX) {
		return FormatXLSX
	}
	return FormatCSV
}

// exportFilename base sem espaços, com a extensão do formato
func exportFilename(base, format string) string {
	base = strings.Join(strings.Fields(base), "_")
	return fmt.Sprintf("%s.%s", base, normalizeFormat(format))
}

// serviceNames servico_id → nome, incluindo as linhas legadas da obra
func serviceNames(ctx context.Context, repo *repository.Repository, obraID int64) (map[int64]string, error) {
	list, err := repo.Service.ListByPhase(ctx, obraID, model.AllPhases)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(list))
	for _, svc := range list {
		out[svc.ID] = svc.Nome
	}
	return out, nil
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

// ── auxiliares de célula ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
