package interfaces

import (
	"context"

	"portal_orcamentos/internal/domain/entities"
)

// ICartRepository stores one cart per user. A missing cart loads as empty.
type ICartRepository interface {
	LoadCart(ctx context.Context, userID string) (entities.Cart, error)
	SaveCart(ctx context.Context, cart entities.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
