package model

import "time"

// Phase etapa cadastrada, tabela etapas
type Phase struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                                     json:"id"`
	ObraID    int64     `gorm:"not null;uniqueIndex:uq_etapas_obra_nome,priority:1"          json:"obra_id"`
	Nome      string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_etapas_obra_nome,priority:2" json:"nome"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"                                      json:"created_at"`
}

// TableName nome da tabela
func (Phase) TableName() string { return "etapas" }
