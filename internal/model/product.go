package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item sold at events. HasRecipe is derived: true while
// at least one ProductSupply row exists for the product.
type Product struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Name is stored lowercased and trimmed; unique among active products.
	Name      string `gorm:"type:varchar(100);index;not null"`
	HasRecipe bool   `gorm:"not null;default:false"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Supplies []ProductSupply `gorm:"foreignKey:ProductID"`
}
