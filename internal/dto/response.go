package dto

// Formatos de data usados nas respostas e nos filtros
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05Z"
)

// DeleteRequest confirmação digitada exigida pelas exclusões em cascata
type DeleteRequest struct {
	Confirmacao string `json:"confirmacao" binding:"required"`
}

// CascadeResult linhas removidas por tabela
type CascadeResult struct {
	Removidos map[string]int64 `json:"removidos"`
}

// ImportResponse resultado de importação em lote
type ImportResponse struct {
	Lidos       int `json:"lidos"`
	Processados int `json:"processados"`
	Ignorados   int `json:"ignorados"`
}
