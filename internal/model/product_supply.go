package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSupply is one recipe line: the quantity of a supply consumed to
// produce one unit of a product. The (product, supply) pair is unique.
type ProductSupply struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_supply"`
	SupplyID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_supply"`
	QtyPerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Supply  *Supply  `gorm:"foreignKey:SupplyID"`
}
