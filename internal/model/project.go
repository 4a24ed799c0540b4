package model

import "time"

// Project obra, tabela obras
type Project struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Nome      string    `gorm:"type:varchar(150);not null;uniqueIndex"    json:"nome"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"                   json:"created_at"`
}

// TableName nome da tabela
func (Project) TableName() string { return "obras" }
