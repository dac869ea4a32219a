package request

import (
	"strings"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase"
)

// ProfileRequest carries the business identity a customer registers or edits.
type ProfileRequest struct {
	LegalName  string `json:"legal_name"`
	TaxID      string `json:"tax_id"`
	StateTaxID string `json:"state_tax_id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email" binding:"omitempty,email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

type RegisterRequest struct {
	ProfileRequest
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=cliente colaborador"`
}

func (r ProfileRequest) ToInput() usecase.ProfileInput {
	return usecase.ProfileInput{
		LegalName:  strings.TrimSpace(r.LegalName),
		TaxID:      strings.TrimSpace(r.TaxID),
		StateTaxID: strings.TrimSpace(r.StateTaxID),
		Address:    strings.TrimSpace(r.Address),
		City:       strings.TrimSpace(r.City),
		State:      strings.TrimSpace(r.State),
		PostalCode: strings.TrimSpace(r.PostalCode),
		Phone:      strings.TrimSpace(r.Phone),
		Email:      strings.TrimSpace(r.Email),
		Username:   strings.TrimSpace(r.Username),
		Password:   r.Password,
	}
}

func (r RegisterRequest) ToInput() usecase.RegisterInput {
	in := r.ProfileRequest.ToInput()
	in.Password = r.Password
	return in
}

// ResolveRole defaults to the customer role.
func (r LoginRequest) ResolveRole() entities.Role {
	if r.Role == "" {
		return entities.RoleCustomer
	}
	return entities.Role(r.Role)
}
