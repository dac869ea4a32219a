package request

import (
	"encoding/json"
	"testing"

	"portal_orcamentos/internal/domain/entities"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: `10`, want: 10},
		{in: `"2,5"`, want: 2.5},
		{in: `" 3.75 "`, want: 3.75},
		{in: `""`, want: 0},
		{in: `null`, want: 0},
		{in: `"abc"`, wantErr: true},
		{in: `true`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tc.in), &n)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Float64() != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, n.Float64())
			}
		})
	}
}

func TestCartItemRequest_ToInput(t *testing.T) {
	var r CartItemRequest
	if err := json.Unmarshal([]byte(`{"product_id":" P-0001 ","unit":"kg","quantity":"2","unit_price":"1,5"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	in := r.ToInput()
	if in.ProductID != "P-0001" || in.Unit != "KG" || in.Quantity != 2 || in.UnitPrice != 1.5 {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestFinalizeRequest_ToInput(t *testing.T) {
	r := FinalizeRequest{PaymentMethod: " Pix ", PaymentTerm: "30/45 dias", DiscountPercent: 5, PixKeyID: "pix2"}
	in := r.ToInput()
	if in.PaymentMethod != entities.PaymentMethodPix || in.DiscountPercent != 5 || in.PixKeyID != "pix2" {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestLoginRequest_ResolveRole(t *testing.T) {
	if got := (LoginRequest{}).ResolveRole(); got != entities.RoleCustomer {
		t.Fatalf("expected customer role, got %q", got)
	}
	if got := (LoginRequest{Role: "colaborador"}).ResolveRole(); got != entities.RoleStaff {
		t.Fatalf("expected staff role, got %q", got)
	}
}

func TestRegisterRequest_ToInput(t *testing.T) {
	var r RegisterRequest
	if err := json.Unmarshal([]byte(`{"email":" compras@acme.com ","password":"segredo","state":"sp"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	in := r.ToInput()
	if in.Email != "compras@acme.com" || in.Password != "segredo" || in.State != "sp" {
		t.Fatalf("unexpected input: %+v", in)
	}
}
