package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles the UUID primary key and creation timestamp shared by
// every table of the hosted schema.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate keeps a caller-assigned ID so compensating re-inserts restore
// the original row identity.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// All lists the tables owned by this service, in migration order.
func All() []interface{} {
	return []interface{}{
		&RawMaterial{},
		&Product{},
		&ProductMaterial{},
		&Sale{},
		&SaleProduct{},
		&AuthUser{},
		&RevokedToken{},
	}
}
