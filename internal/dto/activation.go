package dto

// Origem da decisão de ativação
const (
	ActivationSourcePhase  = "etapa"
	ActivationSourceLegacy = "legado"
	ActivationSourceNone   = "nenhuma"
)

// SetActivationRequest liga ou desliga a casa numa etapa
type SetActivationRequest struct {
	Etapa string `json:"etapa" binding:"required,max=150"`
	Ativa *bool  `json:"ativa" binding:"required"`
}

// ActivationResponse situação da casa na etapa
type ActivationResponse struct {
	CasaID   int64                  `json:"casa_id"`
	Etapa    string                 `json:"etapa"`
	Ativa    bool                   `json:"ativa"`
	Origem   string                 `json:"origem"`
	AtivaEm  string                 `json:"ativa_em,omitempty"`
	AtivaPor string                 `json:"ativa_por,omitempty"`
	Servicos []ServiceStateResponse `json:"servicos"`
}

// ServiceStateResponse estado atual de um serviço na casa.
// Sem linha gravada, o status é "Não iniciado".
type ServiceStateResponse struct {
	ServicoID  int64  `json:"servico_id"`
	Servico    string `json:"servico"`
	Etapa      string `json:"etapa"`
	Status     string `json:"status"`
	Executor   string `json:"executor"`
	DataInicio string `json:"data_inicio,omitempty"`
	DataFim    string `json:"data_fim,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// PhaseQuery filtro de etapa por query string
type PhaseQuery struct {
	Etapa string `form:"etapa" binding:"required"`
}
