package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"portal_orcamentos/internal/domain/catalog"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase/interfaces"

	"go.uber.org/zap"
)

type CartItemInput struct {
	ProductID string
	Unit      string
	Quantity  float64
	UnitPrice float64
}

// CheckoutInput is FinalizeInput without the items, which come from the cart.
type CheckoutInput struct {
	PaymentMethod    entities.PaymentMethod
	PaymentTermLabel string
	DiscountPercent  float64
	PixKeyID         string
}

type ICartUseCase interface {
	Get(ctx context.Context, actor *entities.Actor) (entities.Cart, error)
	AddItem(ctx context.Context, actor *entities.Actor, in CartItemInput) (entities.Cart, error)
	RemoveItem(ctx context.Context, actor *entities.Actor, index int) (entities.Cart, error)
	Clear(ctx context.Context, actor *entities.Actor) error
	Checkout(ctx context.Context, actor *entities.Actor, in CheckoutInput) (entities.Quote, error)
}

type CartUseCase struct {
	repo    interfaces.ICartRepository
	catalog *catalog.Catalog
	quotes  IQuoteUseCase
	log     *zap.Logger
}

var _ ICartUseCase = (*CartUseCase)(nil)

func NewCartUseCase(repo interfaces.ICartRepository, cat *catalog.Catalog, quotes IQuoteUseCase, log *zap.Logger) *CartUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartUseCase{repo: repo, catalog: cat, quotes: quotes, log: log.Named("cart.usecase")}
}

func (u *CartUseCase) Get(ctx context.Context, actor *entities.Actor) (entities.Cart, error) {
	if err := customerOnly(actor); err != nil {
		return entities.Cart{}, err
	}
	return u.load(ctx, actor.ID)
}

// AddItem appends a catalog product. The unit defaults to the product's and the
// quantity must be positive.
func (u *CartUseCase) AddItem(ctx context.Context, actor *entities.Actor, in CartItemInput) (entities.Cart, error) {
	if err := customerOnly(actor); err != nil {
		return entities.Cart{}, err
	}
	product, ok := u.catalog.Get(strings.TrimSpace(in.ProductID))
	if !ok {
		return entities.Cart{}, fmt.Errorf("%w: unknown product %q", ErrInvalidItem, in.ProductID)
	}
	unit := strings.ToUpper(strings.TrimSpace(in.Unit))
	if unit == "" {
		unit = product.DefaultUnit
	}
	if !entities.ValidUnit(unit) {
		return entities.Cart{}, fmt.Errorf("%w: unit %q", ErrInvalidItem, in.Unit)
	}
	if !(in.Quantity > 0) || math.IsInf(in.Quantity, 0) {
		return entities.Cart{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	}
	price := in.UnitPrice
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		price = 0
	}
	if math.IsInf(in.Quantity*price, 0) {
		return entities.Cart{}, fmt.Errorf("%w: line total out of range", ErrInvalidItem)
	}

	cart, err := u.load(ctx, actor.ID)
	if err != nil {
		return entities.Cart{}, err
	}
	cart.Items = append(cart.Items, entities.LineItem{
		ProductID:   product.ID,
		Code:        product.Code,
		Name:        product.Name,
		Unit:        unit,
		Quantity:    in.Quantity,
		UnitPrice:   price,
		Category:    product.Category,
		Color:       product.Color,
		Description: product.Description,
	})
	if err := u.repo.SaveCart(ctx, cart); err != nil {
		return entities.Cart{}, err
	}
	return cart, nil
}

func (u *CartUseCase) RemoveItem(ctx context.Context, actor *entities.Actor, index int) (entities.Cart, error) {
	if err := customerOnly(actor); err != nil {
		return entities.Cart{}, err
	}
	cart, err := u.load(ctx, actor.ID)
	if err != nil {
		return entities.Cart{}, err
	}
	if index < 0 || index >= len(cart.Items) {
		return entities.Cart{}, fmt.Errorf("%w: no item at %d", ErrInvalidItem, index)
	}
	items := make([]entities.LineItem, 0, len(cart.Items)-1)
	items = append(items, cart.Items[:index]...)
	cart.Items = append(items, cart.Items[index+1:]...)
	if err := u.repo.SaveCart(ctx, cart); err != nil {
		return entities.Cart{}, err
	}
	return cart, nil
}

func (u *CartUseCase) Clear(ctx context.Context, actor *entities.Actor) error {
	if err := customerOnly(actor); err != nil {
		return err
	}
	return u.repo.DeleteCart(ctx, actor.ID)
}

// Checkout finalizes the cart into a new quote and empties it. A failure to clear the
// cart does not undo the quote.
func (u *CartUseCase) Checkout(ctx context.Context, actor *entities.Actor, in CheckoutInput) (entities.Quote, error) {
	cart, err := u.Get(ctx, actor)
	if err != nil {
		return entities.Quote{}, err
	}
	if len(cart.Items) == 0 {
		return entities.Quote{}, ErrEmptyCart
	}

	q, err := u.quotes.Finalize(ctx, actor, FinalizeInput{
		Items:            cart.Items,
		PaymentMethod:    in.PaymentMethod,
		PaymentTermLabel: in.PaymentTermLabel,
		DiscountPercent:  in.DiscountPercent,
		PixKeyID:         in.PixKeyID,
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if err := u.repo.DeleteCart(ctx, actor.ID); err != nil {
		u.log.Warn("cart not cleared after checkout", zap.String("quote_id", q.ID), zap.String("actor_id", actor.ID), zap.Error(err))
	}
	return q, nil
}

func (u *CartUseCase) load(ctx context.Context, userID string) (entities.Cart, error) {
	cart, err := u.repo.LoadCart(ctx, userID)
	if err != nil {
		return entities.Cart{}, err
	}
	cart.UserID = userID
	if cart.Items == nil {
		cart.Items = []entities.LineItem{}
	}
	return cart, nil
}

func customerOnly(actor *entities.Actor) error {
	if actor == nil || actor.IsStaff() || actor.ID == "" {
		return ErrForbidden
	}
	return nil
}
