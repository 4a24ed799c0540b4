package model

import "gorm.io/datatypes"

// User usuário, tabela usuarios
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Username  string `gorm:"type:varchar(100);not null;uniqueIndex"       json:"username"`
	Nome      string `gorm:"type:varchar(150);not null;default:''"        json:"nome"`
	SenhaHash string `gorm:"type:varchar(255);not null"                   json:"-"`
	Role      string `gorm:"type:varchar(20);not null;default:'user'"     json:"role"`
	Ativo     bool   `gorm:"not null;default:true"                        json:"ativo"`
	// Permissoes mapa de sobreposição flag→bool sobre os padrões do papel.
	Permissoes datatypes.JSON `json:"permissoes"`
	Timestamps
}

// TableName nome da tabela
func (User) TableName() string { return "usuarios" }
