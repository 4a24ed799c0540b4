package model

import "time"

// Status de um serviço numa casa. Os rótulos são gravados literalmente.
const (
	StatusNotStarted = "Não iniciado"
	StatusInProgress = "Em execução"
	StatusDone       = "Concluído"
)

// ValidStatus informa se s é um dos três rótulos aceitos.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Papéis de usuário
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AllPhases filtro de etapa que considera todas as etapas da obra.
const AllPhases = "Todas"

// Timestamps campos de auditoria comuns às tabelas mutáveis
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
