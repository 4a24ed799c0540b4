package model

import "github.com/shopspring/decimal"

// PlannedQuantity quantitativo previsto de um serviço por tipologia,
// tabela quantidades_planejadas. CodTipologia vazio vale para todas.
type PlannedQuantity struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"                                          json:"id"`
	ObraID       int64           `gorm:"not null;index"                                                    json:"obra_id"`
	ServicoID    int64           `gorm:"not null;uniqueIndex:uq_qtd_servico_tipologia,priority:1"          json:"servico_id"`
	CodTipologia string          `gorm:"type:varchar(50);not null;default:'';uniqueIndex:uq_qtd_servico_tipologia,priority:2" json:"cod_tipologia"`
	Quantidade   decimal.Decimal `gorm:"type:numeric(14,3);not null"                                       json:"quantidade"`
	Unidade      string          `gorm:"type:varchar(20);not null;default:''"                              json:"unidade"`
	Timestamps
}

// TableName nome da tabela
func (PlannedQuantity) TableName() string { return "quantidades_planejadas" }
