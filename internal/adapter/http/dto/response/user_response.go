package response

import (
	"time"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase"
)

type UserResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	LegalName   string    `json:"legal_name"`
	TaxID       string    `json:"tax_id"`
	StateTaxID  string    `json:"state_tax_id"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PostalCode  string    `json:"postal_code"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ActorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Actor     ActorResponse `json:"actor"`
}

func FromUser(u entities.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName(),
		LegalName:   u.LegalName,
		TaxID:       u.TaxID,
		StateTaxID:  u.StateTaxID,
		Address:     u.Address,
		City:        u.City,
		State:       u.State,
		PostalCode:  u.PostalCode,
		Phone:       u.Phone,
		Email:       u.Email,
		Username:    u.Username,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromUsers(users []entities.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

func FromActor(a entities.Actor) ActorResponse {
	return ActorResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

func FromSession(s usecase.Session) SessionResponse {
	return SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, Actor: FromActor(s.Actor)}
}

// MeResponse describes the session owner. Staff have no directory record, so User is nil for them.
type MeResponse struct {
	Actor ActorResponse `json:"actor"`
	User  *UserResponse `json:"user"`
}
