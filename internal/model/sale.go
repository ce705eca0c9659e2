package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods.
const (
	MethodEfectivo      = "EFECTIVO"
	MethodTransferencia = "TRANSFERENCIA"
)

// Sale statuses. Cancellation is a one-way COMPLETED → CANCELLED flip.
const (
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
)

// Sale is the financial record mirroring an order's monetary outcome,
// independent of fulfillment status. Exactly one sale exists per order: it is
// created synchronously inside the order-creation transaction and is never
// constructible on its own.
type Sale struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Method    string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Order *Order `gorm:"foreignKey:OrderID"`
}
