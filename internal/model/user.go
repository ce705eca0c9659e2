package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Valid role names.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
	RoleCocina = "cocina"
)

// User is an operator account. Roles gate access: admin manages catalog,
// inventory and users; cajero creates and views its own orders; cocina drives
// the fulfillment endpoints.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserName     string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	Roles        pq.StringArray `gorm:"type:text[];not null"`
	IsActive     bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
