package response

import (
	"testing"
	"time"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase"
)

func TestFromQuote(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	from := entities.StatusUnderReview
	q := entities.Quote{
		ID:    "q1",
		Owner: entities.OwnerRef{UserID: "u1", Email: "compras@acme.com", Name: "acme"},
		Items: []entities.LineItem{
			{ProductID: "P-0001", Unit: "UN", Quantity: 4, UnitPrice: 25},
			{ProductID: "P-0002", Unit: "KG", Quantity: 2, UnitPrice: 50},
		},
		DiscountPercent:  10,
		PaymentMethod:    entities.PaymentMethodBoleto,
		PaymentTermLabel: "30/45 dias",
		DueDates:         []time.Time{now.AddDate(0, 0, 30), now.AddDate(0, 0, 45)},
		Status:           entities.StatusConfirmed,
		History: []entities.AuditEntry{
			{ID: "h1", Action: "created", ToStatus: entities.StatusUnderReview},
			{ID: "h2", Action: "confirmed", FromStatus: &from, ToStatus: entities.StatusConfirmed},
		},
		Attachments: []entities.Attachment{{ID: "a1", Name: "nf.pdf", Kind: entities.AttachmentDocument}},
		CreatedAt:   now,
		Version:     3,
	}

	res := FromQuote(q)
	if res.Subtotal != 200 || res.NetTotal != 180 {
		t.Fatalf("unexpected totals: subtotal=%v net=%v", res.Subtotal, res.NetTotal)
	}
	if res.Items[0].Total != 100 {
		t.Fatalf("unexpected line total: %+v", res.Items[0])
	}
	if res.CanDelete || !res.CanCancel {
		t.Fatalf("confirmed quote should be cancellable only: %+v", res)
	}
	if res.DueDatesLabel != "09/04/2025 • 24/04/2025" {
		t.Fatalf("unexpected due dates label: %q", res.DueDatesLabel)
	}
	if res.History[0].FromStatus != nil || *res.History[1].FromStatus != "Em conferência" {
		t.Fatalf("unexpected history: %+v", res.History)
	}
	if res.Attachments[0].DownloadURL != "/v1/quotes/q1/attachments/a1" {
		t.Fatalf("unexpected download url: %q", res.Attachments[0].DownloadURL)
	}
}

func TestFromQuote_EmptyCollections(t *testing.T) {
	res := FromQuote(entities.Quote{ID: "q1", Status: entities.StatusUnderReview})
	if res.Items == nil || res.History == nil || res.Attachments == nil || res.DueDates == nil {
		t.Fatalf("collections must render as empty arrays: %+v", res)
	}
	if !res.CanDelete || res.CanCancel {
		t.Fatalf("quote under review should be deletable only: %+v", res)
	}
}

func TestDueDatesLabel(t *testing.T) {
	if got := DueDatesLabel(nil, "Acordado"); got != "a combinar" {
		t.Fatalf("expected a combinar, got %q", got)
	}
	if got := DueDatesLabel([]time.Time{}, "30 dias"); got != "-" {
		t.Fatalf("expected -, got %q", got)
	}
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := DueDatesLabel([]time.Time{day}, "Á Vista"); got != "02/01/2025" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestFromSession(t *testing.T) {
	exp := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	res := FromSession(usecase.Session{
		Token:     "tok",
		ExpiresAt: exp,
		Actor:     entities.Actor{ID: "u1", Name: "acme", Email: "compras@acme.com", Role: entities.RoleCustomer},
	})
	if res.Token != "tok" || res.Actor.Role != "cliente" || !res.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected session: %+v", res)
	}
}

func TestFromUser(t *testing.T) {
	res := FromUser(entities.User{ID: "u1", Email: "compras@acme.com", LegalName: "ACME LTDA", PasswordHash: "secret"})
	if res.DisplayName != "ACME LTDA" {
		t.Fatalf("unexpected display name: %q", res.DisplayName)
	}
}

func TestFromCart(t *testing.T) {
	res := FromCart(entities.Cart{UserID: "u1", Items: []entities.LineItem{{Quantity: 3, UnitPrice: 2}}})
	if res.Subtotal != 6 || len(res.Items) != 1 {
		t.Fatalf("unexpected cart: %+v", res)
	}
}
