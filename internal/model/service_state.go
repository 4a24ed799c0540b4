package model

import "time"

// ServiceState estado atual de um serviço numa casa, tabela estado_servicos
type ServiceState struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"                                      json:"id"`
	CasaID     int64      `gorm:"not null;uniqueIndex:uq_estado_casa_servico,priority:1"        json:"casa_id"`
	ServicoID  int64      `gorm:"not null;uniqueIndex:uq_estado_casa_servico,priority:2;index"  json:"servico_id"`
	Status     string     `gorm:"type:varchar(20);not null"                                     json:"status"`
	Executor   string     `gorm:"type:varchar(150);not null;default:''"                         json:"executor"`
	DataInicio *time.Time `gorm:"type:date"                                                     json:"data_inicio"`
	DataFim    *time.Time `gorm:"type:date"                                                     json:"data_fim"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime"                                       json:"updated_at"`
}

// TableName nome da tabela
func (ServiceState) TableName() string { return "estado_servicos" }
