package dto

import "encoding/json"

// AuditListRequest filtros do leitor de auditoria (datas em AAAA-MM-DD, fim inclusivo)
type AuditListRequest struct {
	Usuario  string `form:"usuario"`
	Acao     string `form:"acao"`
	De       string `form:"de"`
	Ate      string `form:"ate"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// AuditEntryResponse registro de auditoria
type AuditEntryResponse struct {
	ID        int64           `json:"id"`
	Ts        string          `json:"ts"`
	Usuario   string          `json:"usuario"`
	Acao      string          `json:"acao"`
	ObraID    *int64          `json:"obra_id,omitempty"`
	CasaID    *int64          `json:"casa_id,omitempty"`
	ServicoID *int64          `json:"servico_id,omitempty"`
	Detalhes  json.RawMessage `json:"detalhes,omitempty"`
}

// AuditFiltersResponse valores disponíveis para os filtros
type AuditFiltersResponse struct {
	Usuarios []string `json:"usuarios"`
	Acoes    []string `json:"acoes"`
}

// ExportRequest formato do arquivo exportado
type ExportRequest struct {
	Formato string `form:"formato" binding:"omitempty,oneof=csv xlsx"`
}
