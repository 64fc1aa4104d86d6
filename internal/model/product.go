package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	SalePrice float64   `gorm:"column:preco_venda;default:0" json:"preco_venda"`
	// TotalCost is computed by the client at write time and stored as sent.
	TotalCost float64 `gorm:"column:custo_total;default:0" json:"custo_total"`
}

func (Product) TableName() string { return "produtos" }

// ProductMaterial links a product to the raw material it consumes per unit.
// It has no user_id of its own; tenancy comes from the parent product.
type ProductMaterial struct {
	BaseModel
	ProductID  uuid.UUID    `gorm:"column:produto_id;type:uuid;not null;index" json:"produto_id"`
	MaterialID uuid.UUID    `gorm:"column:insumo_id;type:uuid;not null;index" json:"insumo_id"`
	Quantity   float64      `gorm:"column:quantidade;not null" json:"quantidade"`
	Material   *RawMaterial `gorm:"foreignKey:MaterialID" json:"insumo,omitempty"`
}

func (ProductMaterial) TableName() string { return "produto_insumo" }

// MaterialLine is a ProductMaterial reshaped for reads.
type MaterialLine struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"nome"`
	UnitCost float64   `json:"valor_unitario"`
	Quantity float64   `json:"quantidade"`
	LinkID   uuid.UUID `json:"rel_id"`
}

type ProductView struct {
	Product
	Materials []MaterialLine `json:"insumos"`
}

type ProductMaterialInput struct {
	ID       uuid.UUID `json:"id" validate:"uuid_required"`
	Quantity float64   `json:"quantidade" validate:"gt=0"`
}

type ProductInput struct {
	Name      string                 `json:"nome" validate:"required"`
	SalePrice float64                `json:"preco_venda" validate:"gte=0"`
	TotalCost float64                `json:"custo_total" validate:"gte=0"`
	Materials []ProductMaterialInput `json:"insumos" validate:"dive"`
}
