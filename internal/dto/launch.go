package dto

// StartServicesRequest início de um ou mais serviços da etapa
type StartServicesRequest struct {
	Etapa       string   `json:"etapa"       binding:"required,max=150"`
	Servicos    []string `json:"servicos"    binding:"required,min=1,dive,required"`
	Executor    string   `json:"executor"    binding:"required,max=150"`
	DataInicio  string   `json:"data_inicio" binding:"required"`
	Observacoes string   `json:"observacoes" binding:"omitempty,max=2000"`
}

// StartServicesResponse quantidade iniciada
type StartServicesResponse struct {
	Iniciados int `json:"iniciados"`
}

// FinishServiceRequest conclusão de um serviço; a foto chega como arquivo
// multipart e é opcional
type FinishServiceRequest struct {
	ServicoID     int64  `form:"servico_id"     json:"servico_id"     binding:"required"`
	DataConclusao string `form:"data_conclusao" json:"data_conclusao" binding:"required"`
	Observacoes   string `form:"observacoes"    json:"observacoes"    binding:"omitempty,max=2000"`
}

// PhotoUpload arquivo de foto já lido
type PhotoUpload struct {
	Filename    string
	ContentType string
	Body        []byte
}

// LaunchListRequest histórico de lançamentos da casa
type LaunchListRequest struct {
	ServicoID       *int64 `form:"servico_id"`
	IncluirAnulados bool   `form:"incluir_anulados"`
}

// LaunchResponse lançamento
type LaunchResponse struct {
	ID             int64  `json:"id"`
	ObraID         int64  `json:"obra_id"`
	CasaID         int64  `json:"casa_id"`
	ServicoID      int64  `json:"servico_id"`
	Responsavel    string `json:"responsavel"`
	Executor       string `json:"executor"`
	Status         string `json:"status"`
	DataInicio     string `json:"data_inicio,omitempty"`
	DataConclusao  string `json:"data_conclusao,omitempty"`
	Observacoes    string `json:"observacoes"`
	FotoPath       string `json:"foto_path,omitempty"`
	CreatedAt      string `json:"created_at"`
	Anulado        bool   `json:"anulado"`
	AnuladoPor     string `json:"anulado_por,omitempty"`
	AnuladoEm      string `json:"anulado_em,omitempty"`
	AnulacaoMotivo string `json:"anulacao_motivo,omitempty"`
}

// ── correções ──

// VoidLaunchRequest anulação do último lançamento de um serviço
type VoidLaunchRequest struct {
	ServicoID int64  `json:"servico_id" binding:"required"`
	Motivo    string `json:"motivo"     binding:"max=1000"`
}

// SetServiceStateRequest edição direta do estado de um serviço
type SetServiceStateRequest struct {
	ServicoID  int64  `json:"servico_id"  binding:"required"`
	Status     string `json:"status"      binding:"required"`
	Executor   string `json:"executor"    binding:"omitempty,max=150"`
	DataInicio string `json:"data_inicio"`
	DataFim    string `json:"data_fim"`
	Motivo     string `json:"motivo"      binding:"max=1000"`
}

// DeactivateHouseRequest desativação do flag legado da casa
type DeactivateHouseRequest struct {
	Motivo string `json:"motivo" binding:"max=1000"`
}
