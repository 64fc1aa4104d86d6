package model

import (
	"time"

	"github.com/google/uuid"
)

type Sale struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Total  float64   `gorm:"column:total;not null" json:"total"` // as sent by the client, never recomputed
	Date   time.Time `gorm:"column:data" json:"data"`
}

func (Sale) TableName() string { return "vendas" }

// SaleProduct captures the unit price at sale time so later price changes
// do not rewrite history.
type SaleProduct struct {
	BaseModel
	SaleID    uuid.UUID `gorm:"column:venda_id;type:uuid;not null;index" json:"venda_id"`
	ProductID uuid.UUID `gorm:"column:produto_id;type:uuid;not null;index" json:"produto_id"`
	Quantity  float64   `gorm:"column:quantidade;not null" json:"quantidade"`
	UnitPrice float64   `gorm:"column:preco_unitario;default:0" json:"preco_unitario"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"produto,omitempty"`
}

func (SaleProduct) TableName() string { return "venda_produto" }

type SaleLine struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"nome"`
	SalePrice float64   `json:"preco_venda"`
	Quantity  float64   `json:"quantidade"`
	UnitPrice float64   `json:"preco_unitario"`
	LinkID    uuid.UUID `json:"rel_id"`
}

type SaleView struct {
	Sale
	Products []SaleLine `json:"produtos"`
}

type SaleLineInput struct {
	ID        uuid.UUID `json:"id" validate:"uuid_required"`
	Quantity  float64   `json:"quantidade" validate:"gt=0"`
	UnitPrice *float64  `json:"preco_unitario,omitempty" validate:"omitempty,gte=0"`
	SalePrice *float64  `json:"preco_venda,omitempty" validate:"omitempty,gte=0"`
}

// Price resolves the captured unit price from the submitted line only:
// preco_unitario, then preco_venda, then 0. Zero counts as omitted.
func (l SaleLineInput) Price() float64 {
	if l.UnitPrice != nil && *l.UnitPrice != 0 {
		return *l.UnitPrice
	}
	if l.SalePrice != nil && *l.SalePrice != 0 {
		return *l.SalePrice
	}
	return 0
}

type SaleInput struct {
	Total    float64         `json:"total" validate:"gte=0"`
	Date     *time.Time      `json:"data,omitempty"`
	Products []SaleLineInput `json:"produtos" validate:"dive"`
}
