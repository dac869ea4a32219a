package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"portal_orcamentos/internal/domain/catalog"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/domain/lifecycle"
	mock_interfaces "portal_orcamentos/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func newCartFixture(t *testing.T, carts map[string]entities.Cart) (*CartUseCase, *quoteFixture, *mock_interfaces.MockICartRepository) {
	t.Helper()
	qf := newQuoteFixture(t, lifecycle.PolicyPermissive)
	repo := mock_interfaces.NewMockICartRepository(gomock.NewController(t))

	repo.EXPECT().LoadCart(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, userID string) (entities.Cart, error) {
		return carts[userID], nil
	}).AnyTimes()
	repo.EXPECT().SaveCart(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c entities.Cart) error {
		carts[c.UserID] = c
		return nil
	}).AnyTimes()
	repo.EXPECT().DeleteCart(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, userID string) error {
		delete(carts, userID)
		return nil
	}).AnyTimes()

	return NewCartUseCase(repo, catalog.New(), qf.uc, nil), qf, repo
}

func TestCartUseCase_AddAndRemove(t *testing.T) {
	carts := map[string]entities.Cart{}
	uc, _, _ := newCartFixture(t, carts)
	ctx := context.Background()

	cart, err := uc.AddItem(ctx, testCustomer, CartItemInput{ProductID: "P-0001", Quantity: 2, UnitPrice: 3.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Unit != "UN" || cart.Items[0].Code != "BUZ-AFRICANO" {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	cart, err = uc.AddItem(ctx, testCustomer, CartItemInput{ProductID: "P-0003", Unit: "kg", Quantity: 1, UnitPrice: math.NaN()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Items[1].Unit != "KG" || cart.Items[1].UnitPrice != 0 {
		t.Fatalf("unexpected item: %+v", cart.Items[1])
	}

	cart, err = uc.RemoveItem(ctx, testCustomer, 0)
	if err != nil || len(cart.Items) != 1 || cart.Items[0].ProductID != "P-0003" {
		t.Fatalf("unexpected cart after remove: %+v %v", cart, err)
	}

	if _, err := uc.RemoveItem(ctx, testCustomer, 5); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestCartUseCase_InvalidItems(t *testing.T) {
	uc, _, _ := newCartFixture(t, map[string]entities.Cart{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   CartItemInput
	}{
		{"unknown product", CartItemInput{ProductID: "P-9999", Quantity: 1}},
		{"bad unit", CartItemInput{ProductID: "P-0001", Unit: "TON", Quantity: 1}},
		{"zero quantity", CartItemInput{ProductID: "P-0001"}},
		{"nan quantity", CartItemInput{ProductID: "P-0001", Quantity: math.NaN()}},
		{"overflowing line", CartItemInput{ProductID: "P-0001", Quantity: 1e200, UnitPrice: 1e200}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.AddItem(ctx, testCustomer, tc.in); !errors.Is(err, ErrInvalidItem) {
				t.Fatalf("expected ErrInvalidItem, got %v", err)
			}
		})
	}

	if _, err := uc.Get(ctx, testStaff); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for staff, got %v", err)
	}
}

func TestCartUseCase_Checkout(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		uc, _, _ := newCartFixture(t, map[string]entities.Cart{})
		_, err := uc.Checkout(context.Background(), testCustomer, CheckoutInput{PaymentMethod: entities.PaymentMethodCash})
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("creates quote and clears cart", func(t *testing.T) {
		carts := map[string]entities.Cart{
			testCustomer.ID: {UserID: testCustomer.ID, Items: []entities.LineItem{{ProductID: "P-0002", Quantity: 4, UnitPrice: 2}}},
		}
		uc, qf, _ := newCartFixture(t, carts)
		qf.captureNotifications()

		q, err := uc.Checkout(context.Background(), testCustomer, CheckoutInput{PaymentMethod: entities.PaymentMethodCash, PaymentTermLabel: "Á Vista"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Items) != 1 || len(q.DueDates) != 1 || !q.DueDates[0].Equal(testNow) {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if _, ok := carts[testCustomer.ID]; ok {
			t.Fatalf("expected cart cleared")
		}
		if len(qf.stored) != 1 {
			t.Fatalf("expected quote stored")
		}
	})

	t.Run("failed finalize keeps cart", func(t *testing.T) {
		carts := map[string]entities.Cart{
			testCustomer.ID: {UserID: testCustomer.ID, Items: []entities.LineItem{{ProductID: "P-0002", Quantity: 1}}},
		}
		uc, _, _ := newCartFixture(t, carts)
		_, err := uc.Checkout(context.Background(), testCustomer, CheckoutInput{PaymentMethod: "Cheque"})
		if !errors.Is(err, ErrInvalidPaymentMethod) {
			t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
		}
		if len(carts[testCustomer.ID].Items) != 1 {
			t.Fatalf("cart should be untouched")
		}
	})
}
