package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle states. The only legal transitions are
// PENDING → IN_PROGRESS → COMPLETED and PENDING → CANCELLED.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Order belongs to exactly one event and one creating user. OrderNumber is
// scoped to the event (max existing + 1, starting at 1) and unique within it.
// TotalAmount is frozen at creation time.
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_order_number"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`

	OrderNumber  int             `gorm:"not null;uniqueIndex:idx_event_order_number"`
	Status       string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Observations *string         `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Event *Event      `gorm:"foreignKey:EventID"`
	User  *User       `gorm:"foreignKey:CreatedBy"`
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem references one product; UnitPrice is snapshotted from the event
// inventory's sale price at order creation and never recomputed. Status
// mirrors the parent order's stage at item granularity.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`

	Qty       int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
