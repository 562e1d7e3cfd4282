package models

import (
	"time"

	"github.com/google/uuid"
)

// User role enums.
const (
	RoleInvestor = "INVESTOR"
	RoleIssuer   = "ISSUER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the three provisioned roles.
func ValidRole(role string) bool {
	return role == RoleInvestor || role == RoleIssuer || role == RoleAdmin
}
