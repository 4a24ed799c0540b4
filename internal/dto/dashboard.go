package dto

// DashboardRequest etapa vazia equivale a "Todas"
type DashboardRequest struct {
	Etapa string `form:"etapa"`
}

// HouseProgress situação consolidada de uma casa
type HouseProgress struct {
	CasaID       int64   `json:"casa_id"`
	Lote         string  `json:"lote"`
	CodTipologia string  `json:"cod_tipologia,omitempty"`
	Status       string  `json:"status"`
	Progresso    float64 `json:"progresso"`
	Total        int     `json:"total"`
	Concluidos   int     `json:"concluidos"`
	EmExecucao   int     `json:"em_execucao"`
}

// DashboardResponse painel da obra
type DashboardResponse struct {
	ObraID         int64           `json:"obra_id"`
	Etapa          string          `json:"etapa"`
	Casas          []HouseProgress `json:"casas"`
	Contagem       map[string]int  `json:"contagem"`
	ProgressoMedio float64         `json:"progresso_medio"`
}
