package dto

// ObservationRequest filtro opcional de etapa
type ObservationRequest struct {
	Etapa   string `form:"etapa"`
	Formato string `form:"formato" binding:"omitempty,oneof=csv xlsx"`
}

// ObservationResponse observação registrada num lançamento
type ObservationResponse struct {
	LancamentoID int64  `json:"lancamento_id"`
	Servico      string `json:"servico"`
	Etapa        string `json:"etapa"`
	Status       string `json:"status"`
	Data         string `json:"data,omitempty"`
	Responsavel  string `json:"responsavel"`
	Observacoes  string `json:"observacoes"`
	CreatedAt    string `json:"created_at"`
}
