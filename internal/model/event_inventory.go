package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventProductInventory is the per-event stock row for one product, distinct
// from the catalog record. CurrentQty only moves through explicit stock
// operations; MinQty ≤ InitialQty holds after every load and update.
//
// Cost of a recipe-bearing row is resolved once at load time (override or sum
// of supply costs) and cannot be edited afterwards. ProfitMargin is recomputed
// whenever cost or sale price changes.
type EventProductInventory struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`

	InitialQty   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentQty   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinQty       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ProfitMargin decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// HasRecipe is snapshotted at load time so later catalog edits do not
	// change how this row's cost is governed.
	HasRecipe bool `gorm:"not null;default:false"`
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Event   *Event   `gorm:"foreignKey:EventID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

// EventSupplyInventory is the per-event stock row for one supply.
type EventSupplyInventory struct {
	EventID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplyID uuid.UUID `gorm:"type:uuid;primaryKey"`

	InitialQty decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentQty decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinQty     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	IsActive   bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Event  *Event  `gorm:"foreignKey:EventID"`
	Supply *Supply `gorm:"foreignKey:SupplyID"`
}
