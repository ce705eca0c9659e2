package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supply units of measure.
const (
	UnitKilogramo = "kg"
	UnitGramo     = "g"
	UnitLitro     = "lt"
	UnitMililitro = "ml"
	UnitUnidad    = "unidad"
	UnitPaquete   = "paquete"
)

// Supply is an ingredient consumed by product recipes. Cost is the catalog
// default; an event may override it in its own supply inventory.
type Supply struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Name is stored lowercased and trimmed; unique among active supplies.
	Name      string          `gorm:"type:varchar(100);index;not null"`
	Unit      string          `gorm:"type:varchar(20);not null;default:'unidad'"`
	Cost      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
