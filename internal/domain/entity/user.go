package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleAnalista  = "analista"
	RoleBodeguero = "bodeguero"
)

// User usuario de la consola de reabastecimiento.
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string // bcrypt hash
	AvatarURL    string
	Role         string // admin, analista, bodeguero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
