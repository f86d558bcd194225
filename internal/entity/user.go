package entity

import (
	"context"
	"errors"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAgent   Role = "agente"
	RoleAuditor Role = "auditor"
)

// User vem da coleção "users"; este serviço só lê.
type User struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Role     Role   `json:"role"`
	Email    string `json:"email,omitempty"`
}

func (u *User) DisplayName() string {
	return strings.TrimSpace(u.Nombre + " " + u.Apellido)
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
