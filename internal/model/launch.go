package model

import "time"

// Launch lançamento (evento de início ou fim), tabela lancamentos
//
// Nunca é apagado; correção é feita anulando com motivo.
type Launch struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"                     json:"id"`
	ObraID         int64      `gorm:"not null;index"                               json:"obra_id"`
	CasaID         int64      `gorm:"not null;index:idx_lanc_casa_servico,priority:1" json:"casa_id"`
	ServicoID      int64      `gorm:"not null;index:idx_lanc_casa_servico,priority:2" json:"servico_id"`
	Responsavel    string     `gorm:"type:varchar(100);not null"                   json:"responsavel"`
	Executor       string     `gorm:"type:varchar(150);not null;default:''"        json:"executor"`
	Status         string     `gorm:"type:varchar(20);not null"                    json:"status"`
	DataInicio     *time.Time `gorm:"type:date"                                    json:"data_inicio"`
	DataConclusao  *time.Time `gorm:"type:date"                                    json:"data_conclusao"`
	Observacoes    string     `gorm:"type:text;not null;default:''"                json:"observacoes"`
	FotoPath       string     `gorm:"type:varchar(500);not null;default:''"        json:"foto_path"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime"                      json:"created_at"`
	Anulado        bool       `gorm:"not null;default:false"                       json:"anulado"`
	AnuladoPor     string     `gorm:"type:varchar(100);not null;default:''"        json:"anulado_por"`
	AnuladoEm      *time.Time `json:"anulado_em"`
	AnulacaoMotivo string     `gorm:"type:text;not null;default:''"                json:"anulacao_motivo"`
}

// TableName nome da tabela
func (Launch) TableName() string { return "lancamentos" }
