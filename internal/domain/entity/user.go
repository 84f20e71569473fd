package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Actor identidad del llamador, provista por la capa de autenticación.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor puede aprobar, rechazar y administrar el catálogo.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
