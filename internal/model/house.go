package model

// House casa (lote), tabela casas
type House struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"                                       json:"id"`
	ObraID       int64  `gorm:"not null;uniqueIndex:uq_casas_obra_lote,priority:1"             json:"obra_id"`
	Lote         string `gorm:"type:varchar(100);not null;uniqueIndex:uq_casas_obra_lote,priority:2" json:"lote"`
	CodTipologia string `gorm:"type:varchar(50);not null;default:''"                           json:"cod_tipologia"`
	Tipologia    string `gorm:"type:varchar(150);not null;default:''"                          json:"tipologia"`
	// Ativa flag legado, anterior à ativação por etapa. Só vale quando a casa
	// não tem linha em casa_ativacoes para a etapa consultada.
	Ativa bool `gorm:"not null;default:false" json:"ativa"`
	Timestamps
}

// TableName nome da tabela
func (House) TableName() string { return "casas" }
