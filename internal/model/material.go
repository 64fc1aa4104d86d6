package model

import "github.com/google/uuid"

// RawMaterial is an "insumo": stock bought in and consumed by products.
type RawMaterial struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	Quantity float64   `gorm:"column:quantidade;default:0" json:"quantidade"`
	UnitCost float64   `gorm:"column:valor_unitario;default:0" json:"valor_unitario"`
}

func (RawMaterial) TableName() string { return "insumos" }

type MaterialInput struct {
	Name     string  `json:"nome" validate:"required"`
	Quantity float64 `json:"quantidade" validate:"gte=0"`
	UnitCost float64 `json:"valor_unitario" validate:"gte=0"`
}
