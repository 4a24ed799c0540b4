package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntry registro de auditoria, tabela auditoria
type AuditEntry struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"           json:"id"`
	Timestamp time.Time      `gorm:"column:ts;not null;index"           json:"ts"`
	Usuario   string         `gorm:"type:varchar(100);not null;index"   json:"usuario"`
	Acao      string         `gorm:"type:varchar(60);not null;index"    json:"acao"`
	ObraID    *int64         `json:"obra_id"`
	CasaID    *int64         `json:"casa_id"`
	ServicoID *int64         `json:"servico_id"`
	Detalhes  datatypes.JSON `json:"detalhes"`
}

// TableName nome da tabela
func (AuditEntry) TableName() string { return "auditoria" }
