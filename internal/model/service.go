package model

import "time"

// Service serviço de uma etapa, tabela servicos
//
// ObraID nulo marca linha legada que vale para qualquer obra com a mesma
// etapa. EtapaID só é preenchido quando a etapa está cadastrada.
type Service struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                                              json:"id"`
	Nome      string    `gorm:"type:varchar(200);not null;uniqueIndex:uq_servicos_nome_etapa_obra,priority:1" json:"nome"`
	Etapa     string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_servicos_nome_etapa_obra,priority:2;index" json:"etapa"`
	ObraID    *int64    `gorm:"uniqueIndex:uq_servicos_nome_etapa_obra,priority:3"                    json:"obra_id"`
	EtapaID   *int64    `gorm:"index"                                                                 json:"etapa_id,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"                                               json:"created_at"`
}

// TableName nome da tabela
func (Service) TableName() string { return "servicos" }
