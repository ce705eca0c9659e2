package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is a time-boxed sales occasion (festival, fair) that scopes its own
// inventory, orders and sales. Events are never physically deleted: they are
// deactivated, or closed once finished. IsClosed is terminal — a closed event
// accepts no further mutation of any kind.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Name is stored lowercased and trimmed; unique among active events.
	Name      string    `gorm:"type:varchar(100);index;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	IsClosed  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
