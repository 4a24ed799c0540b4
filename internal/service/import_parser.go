package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	pkgerrors "acompanhamento-obras/pkg/errors"
)

var (
	ErrImportUnsupportedFormat = pkgerrors.New(pkgerrors.ErrValidation, "formato não suportado, envie .xlsx ou .csv")
	ErrImportNoData            = pkgerrors.New(pkgerrors.ErrValidation, "planilha sem linhas de dados")
	ErrImportBadHeader         = pkgerrors.New(pkgerrors.ErrValidation, "cabeçalho sem as colunas obrigatórias")
	ErrImportNoValidRows       = pkgerrors.New(pkgerrors.ErrValidation, "nenhuma linha válida encontrada")
	ErrImportTooManyRows       = pkgerrors.New(pkgerrors.ErrValidation, "planilha excede o limite de linhas")
)

// sheet planilha lida: cabeçalho normalizado (minúsculo, sem espaços nas
// pontas) e linhas de dados
type sheet struct {
	header []string
	rows   [][]string
}

// col índice da primeira coluna cujo nome está em names, ou -1
func (s *sheet) col(names ...string) int {
	for _, n := range names {
		for i, h := range s.header {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readSheet lê .xlsx (primeira aba) ou .csv conforme a extensão do arquivo
func readSheet(filename string, r io.Reader) (*sheet, error) {
	var raw [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrValidation, fmt.Sprintf("não foi possível ler a planilha: %v", err))
		}
		defer f.Close()
		raw, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrValidation, fmt.Sprintf("falha ao ler a aba: %v", err))
		}
	case ".csv":
		var err error
		raw, err = readCSV(r)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrValidation, fmt.Sprintf("não foi possível ler o csv: %v", err))
		}
	default:
		return nil, ErrImportUnsupportedFormat
	}

	if len(raw) < 2 {
		return nil, ErrImportNoData
	}
	s := &sheet{header: make([]string, len(raw[0])), rows: raw[1:]}
	for i, h := range raw[0] {
		s.header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	return s, nil
}

// readCSV aceita separador ";" (Excel em pt-BR) ou ",", escolhido pela
// primeira linha
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}

	cr := csv.NewReader(bytes.NewReader(data))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// ServiceRow linha de importação de serviços
type ServiceRow struct {
	Nome  string
	Etapa string
}

// HouseRow linha de importação de casas
type HouseRow struct {
	Lote         string
	CodTipologia string
	Tipologia    string
}

// parseServiceRows exige a coluna "servico"; "etapa" vazia ou ausente usa
// defaultPhase. Devolve as linhas válidas e quantas foram ignoradas.
func parseServiceRows(s *sheet, defaultPhase string) ([]ServiceRow, int, error) {
	nameIdx := s.col("servico", "serviço")
	if nameIdx < 0 {
		return nil, 0, ErrImportBadHeader
	}
	phaseIdx := s.col("etapa")

	out := make([]ServiceRow, 0, len(s.rows))
	skipped := 0
	for _, row := range s.rows {
		nome := cellAt(row, nameIdx)
		etapa := cellAt(row, phaseIdx)
		if etapa == "" {
			etapa = defaultPhase
		}
		if nome == "" || etapa == "" {
			skipped++
			continue
		}
		out = append(out, ServiceRow{Nome: nome, Etapa: etapa})
	}
	return out, skipped, nil
}

// parseHouseRows aceita "lote" pronto ou quadra + lote, que compõe
// "QD {quadra} LT {lote}".
func parseHouseRows(s *sheet) ([]HouseRow, int, error) {
	blockIdx := s.col("quadra", "qd", "q")
	lotIdx := s.col("lote", "lt", "l")
	if lotIdx < 0 {
		return nil, 0, ErrImportBadHeader
	}
	codIdx := s.col("cod_tipologia")
	typIdx := s.col("tipologia")

	out := make([]HouseRow, 0, len(s.rows))
	skipped := 0
	for _, row := range s.rows {
		lote := cellAt(row, lotIdx)
		if blockIdx >= 0 {
			quadra := cellAt(row, blockIdx)
			if quadra == "" || lote == "" {
				skipped++
				continue
			}
			lote = fmt.Sprintf("QD %s LT %s", quadra, lote)
		}
		if lote == "" {
			skipped++
			continue
		}
		out = append(out, HouseRow{
			Lote:         lote,
			CodTipologia: cellAt(row, codIdx),
			Tipologia:    cellAt(row, typIdx),
		})
	}
	return out, skipped, nil
}
