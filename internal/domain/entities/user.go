package entities

import (
	"strings"
	"time"
)

// Role separates customers from staff.
type Role string

const (
	RoleCustomer Role = "cliente"
	RoleStaff    Role = "colaborador"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleStaff
}

// User is a registered customer with its business identity.
type User struct {
	ID           string    `json:"id"`
	LegalName    string    `json:"legal_name"`
	TaxID        string    `json:"tax_id"`
	StateTaxID   string    `json:"state_tax_id"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName follows the portal rule: username, then legal name, then the email local part.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.LegalName != "" {
		return u.LegalName
	}
	return emailLocalPart(u.Email)
}

// Actor is whoever performs an operation.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (a *Actor) IsStaff() bool {
	return a != nil && a.Role == RoleStaff
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
