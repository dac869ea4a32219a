package request

import (
	"strings"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase"
)

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Unit      string `json:"unit"`
	Quantity  Number `json:"quantity"`
	UnitPrice Number `json:"unit_price"`
}

// FinalizeRequest closes the cart into a quote.
type FinalizeRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	PaymentTerm     string `json:"payment_term"`
	DiscountPercent Number `json:"discount_percent"`
	PixKeyID        string `json:"pix_key_id"`
}

func (r TransitionRequest) ResolveStatus() entities.QuoteStatus {
	return entities.QuoteStatus(strings.TrimSpace(r.Status))
}

func (r CartItemRequest) ToInput() usecase.CartItemInput {
	return usecase.CartItemInput{
		ProductID: strings.TrimSpace(r.ProductID),
		Unit:      strings.ToUpper(strings.TrimSpace(r.Unit)),
		Quantity:  r.Quantity.Float64(),
		UnitPrice: r.UnitPrice.Float64(),
	}
}

func (r FinalizeRequest) ToInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		PaymentMethod:    entities.PaymentMethod(strings.TrimSpace(r.PaymentMethod)),
		PaymentTermLabel: strings.TrimSpace(r.PaymentTerm),
		DiscountPercent:  r.DiscountPercent.Float64(),
		PixKeyID:         strings.TrimSpace(r.PixKeyID),
	}
}
