package dto

// ── obras ──

// CreateProjectRequest nova obra
type CreateProjectRequest struct {
	Nome string `json:"nome" binding:"required,max=150"`
}

// ProjectResponse obra
type ProjectResponse struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	CreatedAt string `json:"created_at"`
}

// ── etapas ──

// CreatePhaseRequest nova etapa da obra
type CreatePhaseRequest struct {
	Nome string `json:"nome" binding:"required,max=150"`
}

// PhaseResponse etapa cadastrada
type PhaseResponse struct {
	ID     int64  `json:"id"`
	ObraID int64  `json:"obra_id"`
	Nome   string `json:"nome"`
}

// PhaseListResponse etapas cadastradas e a lista efetiva (cadastradas mais
// rótulos usados pelos serviços)
type PhaseListResponse struct {
	Cadastradas []PhaseResponse `json:"cadastradas"`
	Efetivas    []string        `json:"efetivas"`
}

// DeletePhaseRequest exclusão de etapa pelo nome
type DeletePhaseRequest struct {
	Etapa       string `json:"etapa"       binding:"required"`
	Confirmacao string `json:"confirmacao" binding:"required"`
}

// ── serviços ──

// CreateServiceRequest novo serviço
type CreateServiceRequest struct {
	Nome  string `json:"nome"  binding:"required,max=200"`
	Etapa string `json:"etapa" binding:"required,max=150"`
}

// ServiceListRequest filtro por etapa ("Todas" ou vazio para todas)
type ServiceListRequest struct {
	Etapa string `form:"etapa"`
}

// ServiceResponse serviço
type ServiceResponse struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Etapa   string `json:"etapa"`
	ObraID  *int64 `json:"obra_id"`
	EtapaID *int64 `json:"etapa_id,omitempty"`
	Legado  bool   `json:"legado"` // obra_id nulo
}

// ── casas ──

// CreateHouseRequest nova casa
type CreateHouseRequest struct {
	Lote         string `json:"lote"          binding:"required,max=100"`
	CodTipologia string `json:"cod_tipologia" binding:"omitempty,max=50"`
	Tipologia    string `json:"tipologia"     binding:"omitempty,max=150"`
}

// HouseResponse casa
type HouseResponse struct {
	ID           int64  `json:"id"`
	ObraID       int64  `json:"obra_id"`
	Lote         string `json:"lote"`
	CodTipologia string `json:"cod_tipologia"`
	Tipologia    string `json:"tipologia"`
	Ativa        bool   `json:"ativa"`
}

// ── quantitativos ──

// PlannedQuantityRequest quantidade prevista de um serviço (por tipologia)
type PlannedQuantityRequest struct {
	ServicoID    int64  `json:"servico_id"    binding:"required"`
	CodTipologia string `json:"cod_tipologia" binding:"omitempty,max=50"`
	Quantidade   string `json:"quantidade"    binding:"required"`
	Unidade      string `json:"unidade"       binding:"omitempty,max=20"`
}

// PlannedQuantityResponse quantidade prevista
type PlannedQuantityResponse struct {
	ID           int64  `json:"id"`
	ServicoID    int64  `json:"servico_id"`
	CodTipologia string `json:"cod_tipologia"`
	Quantidade   string `json:"quantidade"`
	Unidade      string `json:"unidade"`
}
