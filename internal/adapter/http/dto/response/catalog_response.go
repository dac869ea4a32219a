package response

import (
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/domain/lifecycle"
)

type CatalogResponse struct {
	Categories []string           `json:"categories"`
	Units      []string           `json:"units"`
	Products   []entities.Product `json:"products"`
}

type PaymentOptionsResponse struct {
	Methods []entities.PaymentMethod `json:"methods"`
	Terms   []string                 `json:"terms"`
	PixKeys []entities.PixKey        `json:"pix_keys"`
}

type CartResponse struct {
	Items    []LineItemResponse `json:"items"`
	Subtotal float64            `json:"subtotal"`
}

func FromCart(c entities.Cart) CartResponse {
	return CartResponse{
		Items:    FromLineItems(c.Items),
		Subtotal: lifecycle.ComputeTotal(c.Items),
	}
}
