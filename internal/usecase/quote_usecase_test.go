package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/audit"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/domain/lifecycle"
	"portal_orcamentos/internal/usecase/interfaces"
	mock_interfaces "portal_orcamentos/internal/usecase/interfaces/mocks"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/mock/gomock"
)

var (
	testNow      = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	testCustomer = &entities.Actor{ID: "u1", Name: "ACME Compras", Email: "compras@acme.com", Role: entities.RoleCustomer}
	testOther    = &entities.Actor{ID: "u2", Name: "Outra", Email: "outra@x.com", Role: entities.RoleCustomer}
	testStaff    = &entities.Actor{ID: "s1", Name: "Ana", Email: "ana@loja.com", Role: entities.RoleStaff}
)

type quoteFixture struct {
	uc       *QuoteUseCase
	repo     *mock_interfaces.MockIQuoteRepository
	blobs    *mock_interfaces.MockIBlobStore
	notifier *mock_interfaces.MockINotifier
	clock    *clock.FakeClock
	stored   []entities.Quote
	saves    int
	sent     []entities.Notification
}

func newQuoteFixture(t *testing.T, policy lifecycle.TransitionPolicy, seed ...entities.Quote) *quoteFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	f := &quoteFixture{
		repo:     mock_interfaces.NewMockIQuoteRepository(ctrl),
		blobs:    mock_interfaces.NewMockIBlobStore(ctrl),
		notifier: mock_interfaces.NewMockINotifier(ctrl),
		clock:    clock.NewFakeClock(testNow),
		stored:   seed,
	}
	f.repo.EXPECT().LoadQuotes(gomock.Any()).DoAndReturn(func(context.Context) []entities.Quote {
		out := make([]entities.Quote, len(f.stored))
		copy(out, f.stored)
		return out
	}).AnyTimes()
	f.repo.EXPECT().SaveQuotes(gomock.Any(), gomock.Any()).Do(func(_ context.Context, quotes []entities.Quote) {
		f.stored = quotes
		f.saves++
	}).AnyTimes()

	f.uc = NewQuoteUseCase(f.repo, f.blobs, f.notifier, nil, audit.NewBuilder(node, f.clock), f.clock, QuoteUseCaseConfig{
		Policy:           policy,
		FallbackAddress:  "cliente@exemplo.com",
		AttachmentPrefix: "att:",
	}, nil)
	return f
}

func (f *quoteFixture) captureNotifications() {
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n entities.Notification) error {
		f.sent = append(f.sent, n)
		return nil
	}).AnyTimes()
}

func seedQuote(id string, status entities.QuoteStatus) entities.Quote {
	return entities.Quote{
		ID:     id,
		Owner:  entities.OwnerRef{UserID: testCustomer.ID, Email: testCustomer.Email, Name: testCustomer.Name},
		Items:  []entities.LineItem{{ProductID: "P-0001", Quantity: 2, UnitPrice: 10}},
		Status: status,
		History: []entities.AuditEntry{
			{ID: "h0", Timestamp: testNow, Action: audit.ActionCreated, ToStatus: entities.StatusUnderReview},
		},
		CreatedAt: testNow,
		Version:   1,
	}
}

func upload(name, mediaType, content string) UploadFile {
	return UploadFile{
		Name:      name,
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestQuoteUseCase_Finalize(t *testing.T) {
	items := []entities.LineItem{{ProductID: "P-0002", Quantity: 3, UnitPrice: 12.5}}

	t.Run("staff cannot finalize", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive)
		_, err := f.uc.Finalize(context.Background(), testStaff, FinalizeInput{Items: items, PaymentMethod: entities.PaymentMethodCash})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive)
		_, err := f.uc.Finalize(context.Background(), testCustomer, FinalizeInput{PaymentMethod: entities.PaymentMethodCash})
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("invalid payment method", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive)
		_, err := f.uc.Finalize(context.Background(), testCustomer, FinalizeInput{Items: items, PaymentMethod: "Cheque"})
		if !errors.Is(err, ErrInvalidPaymentMethod) {
			t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
		}
	})

	t.Run("unknown pix key", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive)
		_, err := f.uc.Finalize(context.Background(), testCustomer, FinalizeInput{Items: items, PaymentMethod: entities.PaymentMethodPix, PixKeyID: "pix9"})
		if !errors.Is(err, ErrInvalidPaymentMethod) {
			t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
		}
		if f.saves != 0 {
			t.Fatalf("expected no save")
		}
	})

	t.Run("success", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("old", entities.StatusConfirmed))
		f.captureNotifications()

		q, err := f.uc.Finalize(context.Background(), testCustomer, FinalizeInput{
			Items:            items,
			PaymentMethod:    entities.PaymentMethodPix,
			PaymentTermLabel: "30/45/60 dias",
			DiscountPercent:  150,
			PixKeyID:         "pix2",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID == "" || q.Status != entities.StatusUnderReview || q.Version != 1 {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if q.DiscountPercent != 100 {
			t.Fatalf("expected clamped discount, got %v", q.DiscountPercent)
		}
		if q.Pix == nil || q.Pix.ID != "pix2" {
			t.Fatalf("expected pix snapshot, got %+v", q.Pix)
		}
		want := []time.Time{testNow.AddDate(0, 0, 30), testNow.AddDate(0, 0, 45), testNow.AddDate(0, 0, 60)}
		if len(q.DueDates) != 3 || !q.DueDates[0].Equal(want[0]) || !q.DueDates[2].Equal(want[2]) {
			t.Fatalf("unexpected due dates: %v", q.DueDates)
		}
		if len(q.History) != 1 || q.History[0].Action != audit.ActionCreated || q.History[0].FromStatus != nil || q.History[0].ToStatus != entities.StatusUnderReview {
			t.Fatalf("unexpected history: %+v", q.History)
		}
		if len(f.stored) != 2 || f.stored[0].ID != q.ID {
			t.Fatalf("expected new quote prepended, got %d quotes", len(f.stored))
		}
		if len(f.sent) != 1 || f.sent[0].To != testCustomer.Email {
			t.Fatalf("unexpected notifications: %+v", f.sent)
		}

		// due dates are a snapshot: a later clock does not change them
		f.clock.Advance(72 * time.Hour)
		again, _ := f.uc.GetByID(context.Background(), testCustomer, q.ID)
		if !again.DueDates[0].Equal(want[0]) {
			t.Fatalf("due dates changed: %v", again.DueDates)
		}
	})
}

func TestQuoteUseCase_CancelFlow(t *testing.T) {
	f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusAwaitingPayment))
	f.captureNotifications()
	ctx := context.Background()

	_, err := f.uc.Cancel(ctx, testCustomer, "q1", "")
	if !errors.Is(err, ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}
	if f.saves != 0 || f.stored[0].Status != entities.StatusAwaitingPayment || len(f.stored[0].History) != 1 {
		t.Fatalf("state changed on failed cancel: %+v", f.stored[0])
	}

	q, err := f.uc.Cancel(ctx, testCustomer, "q1", "customer withdrew")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != entities.StatusCancelled || q.CancelReason != "customer withdrew" {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if len(q.History) != 2 {
		t.Fatalf("expected exactly one new entry, got %d", len(q.History))
	}
	last := q.History[1]
	if last.Action != audit.ActionCancelled || last.Extra[audit.ExtraReason] != "customer withdrew" {
		t.Fatalf("unexpected entry: %+v", last)
	}
	if last.FromStatus == nil || *last.FromStatus != entities.StatusAwaitingPayment {
		t.Fatalf("unexpected from status: %v", last.FromStatus)
	}
	if lifecycle.CanCancel(q.Status) || lifecycle.CanDelete(q.Status) {
		t.Fatalf("cancelled quote must be neither cancellable nor deletable")
	}
	if q.Version != 2 {
		t.Fatalf("expected version bump, got %d", q.Version)
	}
	if len(f.sent) != 1 || !strings.Contains(f.sent[0].Body, "customer withdrew") {
		t.Fatalf("expected notification with reason, got %+v", f.sent)
	}

	_, err = f.uc.Cancel(ctx, testCustomer, "q1", "again")
	if !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable on terminal quote, got %v", err)
	}
}

func TestQuoteUseCase_CancelRules(t *testing.T) {
	t.Run("still deletable", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusUnderReview))
		_, err := f.uc.Cancel(context.Background(), testCustomer, "q1", "mudei de ideia")
		if !errors.Is(err, ErrNotCancellable) {
			t.Fatalf("expected ErrNotCancellable, got %v", err)
		}
	})

	t.Run("other customer", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		_, err := f.uc.Cancel(context.Background(), testOther, "q1", "x")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("staff may cancel", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusOrderPicked))
		f.captureNotifications()
		q, err := f.uc.Cancel(context.Background(), testStaff, "q1", "sem estoque")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.History[len(q.History)-1].ActorID == nil || *q.History[len(q.History)-1].ActorID != testStaff.ID {
			t.Fatalf("expected staff actor on entry")
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive)
		_, err := f.uc.Cancel(context.Background(), testCustomer, "nope", "x")
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})
}

func TestQuoteUseCase_Delete(t *testing.T) {
	t.Run("owner deletes quote in review", func(t *testing.T) {
		q := seedQuote("q1", entities.StatusQuoteUpdated)
		q.Attachments = []entities.Attachment{{ID: "a1", BlobKey: "att:q1:a1"}}
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, q, seedQuote("q2", entities.StatusUnderReview))
		f.blobs.EXPECT().DeleteBlob(gomock.Any(), "att:q1:a1").Return(nil)

		if err := f.uc.Delete(context.Background(), testCustomer, "q1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.stored) != 1 || f.stored[0].ID != "q2" {
			t.Fatalf("expected q1 removed, got %+v", f.stored)
		}
	})

	t.Run("owner matched by email", func(t *testing.T) {
		q := seedQuote("q1", entities.StatusUnderReview)
		q.Owner.UserID = ""
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, q)
		actor := &entities.Actor{ID: "other-id", Email: "COMPRAS@acme.com", Role: entities.RoleCustomer}
		if err := f.uc.Delete(context.Background(), actor, "q1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("past confirmation", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		err := f.uc.Delete(context.Background(), testCustomer, "q1")
		if !errors.Is(err, ErrNotDeletable) {
			t.Fatalf("expected ErrNotDeletable, got %v", err)
		}
		if f.saves != 0 || len(f.stored) != 1 {
			t.Fatalf("state changed on failed delete")
		}
	})

	t.Run("corrupt status is deletable", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", "???"))
		if err := f.uc.Delete(context.Background(), testCustomer, "q1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusUnderReview))
		if err := f.uc.Delete(context.Background(), testOther, "q1"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if err := f.uc.Delete(context.Background(), testStaff, "q1"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for staff, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive)
		if err := f.uc.Delete(context.Background(), testCustomer, "q1"); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})
}

func TestQuoteUseCase_Transition(t *testing.T) {
	t.Run("customer forbidden", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusUnderReview))
		_, err := f.uc.Transition(context.Background(), testCustomer, "q1", entities.StatusConfirmed)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("permissive allows any known status", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusFinalized))
		f.captureNotifications()

		metrics := mock_interfaces.NewMockIQuoteMetrics(gomock.NewController(t))
		metrics.EXPECT().ObserveTransition(string(entities.StatusFinalized), string(entities.StatusUnderReview))
		metrics.EXPECT().ObserveOperation(audit.ActionChangedStatus, "ok")
		f.uc.metrics = metrics

		q, err := f.uc.Transition(context.Background(), testStaff, "q1", entities.StatusUnderReview)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		last := q.History[len(q.History)-1]
		if q.Status != entities.StatusUnderReview || last.Action != audit.ActionChangedStatus || *last.FromStatus != entities.StatusFinalized {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if len(f.sent) != 1 || !strings.Contains(f.sent[0].Body, string(entities.StatusFinalized)) {
			t.Fatalf("expected notification with old status, got %+v", f.sent)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusUnderReview))
		_, err := f.uc.Transition(context.Background(), testStaff, "q1", "Enviado")
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
		if f.saves != 0 {
			t.Fatalf("expected no save")
		}
	})

	t.Run("strict blocks skipping", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyStrict, seedQuote("q1", entities.StatusUnderReview))
		_, err := f.uc.Transition(context.Background(), testStaff, "q1", entities.StatusFinalized)
		if !errors.Is(err, ErrTransitionNotAllowed) {
			t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
		}
	})

	t.Run("strict confirm from review", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyStrict, seedQuote("q1", entities.StatusUnderReview))
		f.captureNotifications()
		if _, err := f.uc.Confirm(context.Background(), testStaff, "q1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.uc.MarkUpdated(context.Background(), testStaff, "q1"); !errors.Is(err, ErrTransitionNotAllowed) {
			t.Fatalf("expected ErrTransitionNotAllowed after confirmation, got %v", err)
		}
	})

	t.Run("fallback address", func(t *testing.T) {
		q := seedQuote("q1", entities.StatusUnderReview)
		q.Owner.Email = ""
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, q)
		f.captureNotifications()
		if _, err := f.uc.MarkUpdated(context.Background(), testStaff, "q1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.sent) != 1 || f.sent[0].To != "cliente@exemplo.com" {
			t.Fatalf("expected fallback address, got %+v", f.sent)
		}
	})

	t.Run("notifier failure does not fail the operation", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusUnderReview))
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
		q, err := f.uc.Confirm(context.Background(), testStaff, "q1")
		if err != nil || q.Status != entities.StatusConfirmed {
			t.Fatalf("unexpected result: %+v %v", q, err)
		}
	})
}

func TestQuoteUseCase_AddAttachments(t *testing.T) {
	t.Run("batch produces one entry", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		f.captureNotifications()
		f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

		files := []UploadFile{
			upload("a.jpg", "image/jpeg", "aaa"),
			upload("b.png", "", "bb"),
			upload("c.jpg", "image/jpeg", "c"),
		}
		q, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", entities.AttachmentPhoto, files)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Attachments) != 3 {
			t.Fatalf("expected 3 attachments, got %d", len(q.Attachments))
		}
		for i, name := range []string{"a.jpg", "b.png", "c.jpg"} {
			if q.Attachments[i].Name != name {
				t.Fatalf("upload order not preserved: %+v", q.Attachments)
			}
		}
		if q.Attachments[1].MediaType != "image/*" || q.Attachments[0].Size != 3 {
			t.Fatalf("unexpected attachment metadata: %+v", q.Attachments)
		}
		if len(q.History) != 2 {
			t.Fatalf("expected exactly one entry for the batch, got %d", len(q.History))
		}
		last := q.History[1]
		if last.Action != audit.ActionAttachedPhotos || last.Extra[audit.ExtraCount] != 3 || last.FromStatus != nil || last.ToStatus != entities.StatusConfirmed {
			t.Fatalf("unexpected entry: %+v", last)
		}
		if len(f.sent) != 1 || len(f.sent[0].Attachments) != 3 {
			t.Fatalf("expected one notification bundling all files, got %+v", f.sent)
		}
	})

	t.Run("document default media type", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		f.captureNotifications()
		f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), []byte("%PDF")).Return(nil)

		q, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", entities.AttachmentDocument, []UploadFile{upload("nf.pdf", "", "%PDF")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Attachments[0].MediaType != "application/octet-stream" || q.History[1].Action != audit.ActionAttachedDocument {
			t.Fatalf("unexpected quote: %+v", q)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		q, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", entities.AttachmentPhoto, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.History) != 1 || f.saves != 0 {
			t.Fatalf("expected no change")
		}
	})

	t.Run("one failing read aborts the batch", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		var storedKey string
		f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), []byte("a")).DoAndReturn(func(_ context.Context, key string, _ []byte) error {
			storedKey = key
			return nil
		})
		f.blobs.EXPECT().DeleteBlob(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string) error {
			if key != storedKey {
				t.Fatalf("deleted %q, stored %q", key, storedKey)
			}
			return nil
		})

		broken := UploadFile{Name: "broken.jpg", Open: func() (io.ReadCloser, error) { return nil, errors.New("disk") }}
		_, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", entities.AttachmentPhoto, []UploadFile{upload("a.jpg", "", "a"), broken})
		if err == nil {
			t.Fatalf("expected error")
		}
		if f.saves != 0 || len(f.stored[0].Attachments) != 0 || len(f.stored[0].History) != 1 {
			t.Fatalf("partial batch committed: %+v", f.stored[0])
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		var storedKey string
		f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), []byte("a")).DoAndReturn(func(_ context.Context, key string, _ []byte) error {
			storedKey = key
			return nil
		})
		f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), []byte("huge")).Return(fmt.Errorf("%w: 500000 bytes", interfaces.ErrBlobTooLarge))
		f.blobs.EXPECT().DeleteBlob(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string) error {
			if key != storedKey {
				t.Fatalf("deleted %q, stored %q", key, storedKey)
			}
			return nil
		})

		files := []UploadFile{upload("a.pdf", "", "a"), upload("scan.pdf", "", "huge")}
		_, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", entities.AttachmentDocument, files)
		if !errors.Is(err, ErrAttachmentTooLarge) {
			t.Fatalf("expected ErrAttachmentTooLarge, got %v", err)
		}
		if f.saves != 0 {
			t.Fatalf("partial batch committed: %+v", f.stored[0])
		}
	})

	t.Run("customer forbidden", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		_, err := f.uc.AddAttachments(context.Background(), testCustomer, "q1", entities.AttachmentPhoto, []UploadFile{upload("a", "", "a")})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("invalid kind", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, seedQuote("q1", entities.StatusConfirmed))
		_, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", "video", []UploadFile{upload("a", "", "a")})
		if !errors.Is(err, ErrInvalidAttachment) {
			t.Fatalf("expected ErrInvalidAttachment, got %v", err)
		}
	})
}

func TestQuoteUseCase_AddReceipts(t *testing.T) {
	paidBy := func(method entities.PaymentMethod) entities.Quote {
		q := seedQuote("q1", entities.StatusUnderReview)
		q.PaymentMethod = method
		return q
	}

	t.Run("owner attaches boleto receipt", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, paidBy(entities.PaymentMethodBoleto))
		f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), []byte("%PDF")).Return(nil)

		q, err := f.uc.AddReceipts(context.Background(), testCustomer, "q1", []UploadFile{upload("comprovante.pdf", "application/pdf", "%PDF")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Attachments) != 1 || q.Attachments[0].Kind != entities.AttachmentReceipt || q.Attachments[0].MediaType != "application/pdf" {
			t.Fatalf("unexpected attachments: %+v", q.Attachments)
		}
		last := q.History[len(q.History)-1]
		if last.Action != audit.ActionAttachedReceipt || last.Extra[audit.ExtraCount] != 1 || last.ActorID == nil || *last.ActorID != testCustomer.ID {
			t.Fatalf("unexpected entry: %+v", last)
		}
		if f.saves != 1 {
			t.Fatalf("expected one save, got %d", f.saves)
		}
	})

	t.Run("cash quote takes no receipt", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, paidBy(entities.PaymentMethodCash))
		_, err := f.uc.AddReceipts(context.Background(), testCustomer, "q1", []UploadFile{upload("a.pdf", "", "a")})
		if !errors.Is(err, ErrReceiptNotAccepted) {
			t.Fatalf("expected ErrReceiptNotAccepted, got %v", err)
		}
	})

	t.Run("other customer", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, paidBy(entities.PaymentMethodPix))
		_, err := f.uc.AddReceipts(context.Background(), testOther, "q1", []UploadFile{upload("a.pdf", "", "a")})
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("staff forbidden", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, paidBy(entities.PaymentMethodPix))
		_, err := f.uc.AddReceipts(context.Background(), testStaff, "q1", []UploadFile{upload("a.pdf", "", "a")})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("staff cannot upload the receipt kind", func(t *testing.T) {
		f := newQuoteFixture(t, lifecycle.PolicyPermissive, paidBy(entities.PaymentMethodPix))
		_, err := f.uc.AddAttachments(context.Background(), testStaff, "q1", entities.AttachmentReceipt, []UploadFile{upload("a.pdf", "", "a")})
		if !errors.Is(err, ErrInvalidAttachment) {
			t.Fatalf("expected ErrInvalidAttachment, got %v", err)
		}
	})
}

func TestQuoteUseCase_MonotonicHistory(t *testing.T) {
	f := newQuoteFixture(t, lifecycle.PolicyPermissive)
	f.captureNotifications()
	f.blobs.EXPECT().PutBlob(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()

	q, err := f.uc.Finalize(ctx, testCustomer, FinalizeInput{
		Items:         []entities.LineItem{{ProductID: "P-0001", Quantity: 1, UnitPrice: 5}},
		PaymentMethod: entities.PaymentMethodBoleto,
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	steps := []struct {
		name    string
		run     func() error
		entries int
	}{
		{"mark updated", func() error { _, err := f.uc.MarkUpdated(ctx, testStaff, q.ID); return err }, 1},
		{"confirm", func() error { _, err := f.uc.Confirm(ctx, testStaff, q.ID); return err }, 1},
		{"attach batch", func() error {
			_, err := f.uc.AddAttachments(ctx, testStaff, q.ID, entities.AttachmentPhoto, []UploadFile{upload("1", "", "1"), upload("2", "", "2"), upload("3", "", "3"), upload("4", "", "4")})
			return err
		}, 1},
		{"empty attach", func() error {
			_, err := f.uc.AddAttachments(ctx, testStaff, q.ID, entities.AttachmentPhoto, nil)
			return err
		}, 0},
		{"transition", func() error {
			_, err := f.uc.Transition(ctx, testStaff, q.ID, entities.StatusAwaitingPayment)
			return err
		}, 1},
		{"cancel without reason", func() error {
			_, err := f.uc.Cancel(ctx, testCustomer, q.ID, " ")
			if errors.Is(err, ErrMissingReason) {
				return nil
			}
			return err
		}, 0},
		{"delete refused", func() error {
			if err := f.uc.Delete(ctx, testCustomer, q.ID); !errors.Is(err, ErrNotDeletable) {
				return errors.New("expected ErrNotDeletable")
			}
			return nil
		}, 0},
		{"cancel", func() error { _, err := f.uc.Cancel(ctx, testCustomer, q.ID, "desisti"); return err }, 1},
	}

	prev := 1
	for _, s := range steps {
		if err := s.run(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		cur, err := f.uc.GetByID(ctx, testStaff, q.ID)
		if err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if len(cur.History) != prev+s.entries {
			t.Fatalf("%s: expected %d entries, got %d", s.name, prev+s.entries, len(cur.History))
		}
		prev = len(cur.History)
	}
}

func TestQuoteUseCase_Visibility(t *testing.T) {
	mine := seedQuote("q1", entities.StatusUnderReview)
	theirs := seedQuote("q2", entities.StatusUnderReview)
	theirs.Owner = entities.OwnerRef{UserID: testOther.ID, Email: testOther.Email}
	f := newQuoteFixture(t, lifecycle.PolicyPermissive, mine, theirs)
	ctx := context.Background()

	list, err := f.uc.ListVisible(ctx, testCustomer)
	if err != nil || len(list) != 1 || list[0].ID != "q1" {
		t.Fatalf("unexpected customer list: %+v %v", list, err)
	}
	list, _ = f.uc.ListVisible(ctx, testStaff)
	if len(list) != 2 {
		t.Fatalf("staff should see all quotes, got %d", len(list))
	}
	if _, err := f.uc.ListVisible(ctx, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.uc.GetByID(ctx, testCustomer, "q2"); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound for foreign quote, got %v", err)
	}
}

func TestQuoteUseCase_OpenAttachment(t *testing.T) {
	q := seedQuote("q1", entities.StatusConfirmed)
	q.Attachments = []entities.Attachment{{ID: "a1", Name: "nf.pdf", BlobKey: "att:q1:a1"}}
	f := newQuoteFixture(t, lifecycle.PolicyPermissive, q)

	f.blobs.EXPECT().GetBlob(gomock.Any(), "att:q1:a1").Return([]byte("pdf"), true, nil)
	a, data, err := f.uc.OpenAttachment(context.Background(), testCustomer, "q1", "a1")
	if err != nil || a.Name != "nf.pdf" || string(data) != "pdf" {
		t.Fatalf("unexpected result: %+v %q %v", a, data, err)
	}

	if _, _, err := f.uc.OpenAttachment(context.Background(), testCustomer, "q1", "zz"); !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
}
