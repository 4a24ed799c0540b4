package model

import "time"

// Activation participação de uma casa numa etapa, tabela casa_ativacoes
type Activation struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"                                           json:"id"`
	CasaID    int64      `gorm:"not null;uniqueIndex:uq_ativacoes_casa_etapa,priority:1"            json:"casa_id"`
	Etapa     string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_ativacoes_casa_etapa,priority:2" json:"etapa"`
	Ativa     bool       `gorm:"not null;default:false"                                             json:"ativa"`
	AtivaEm   *time.Time `json:"ativa_em"`
	AtivaPor  string     `gorm:"type:varchar(100);not null;default:''"                              json:"ativa_por"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime"                                            json:"updated_at"`
}

// TableName nome da tabela
func (Activation) TableName() string { return "casa_ativacoes" }
