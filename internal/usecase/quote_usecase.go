package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/audit"
	"portal_orcamentos/internal/domain/catalog"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/domain/lifecycle"
	"portal_orcamentos/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPhotoMediaType    = "image/*"
	defaultDocumentMediaType = "application/octet-stream"
	defaultPaymentTerm       = "30 dias"
)

// FinalizeInput carries the checkout choices for a new quote.
type FinalizeInput struct {
	Items            []entities.LineItem
	PaymentMethod    entities.PaymentMethod
	PaymentTermLabel string
	DiscountPercent  float64
	PixKeyID         string
}

// UploadFile is one file of an attachment batch. Open is called once.
type UploadFile struct {
	Name      string
	MediaType string
	Open      func() (io.ReadCloser, error)
}

// IQuoteUseCase exposes the quote lifecycle operations.
type IQuoteUseCase interface {
	Finalize(ctx context.Context, actor *entities.Actor, in FinalizeInput) (entities.Quote, error)
	Transition(ctx context.Context, actor *entities.Actor, quoteID string, to entities.QuoteStatus) (entities.Quote, error)
	MarkUpdated(ctx context.Context, actor *entities.Actor, quoteID string) (entities.Quote, error)
	Confirm(ctx context.Context, actor *entities.Actor, quoteID string) (entities.Quote, error)
	Cancel(ctx context.Context, actor *entities.Actor, quoteID, reason string) (entities.Quote, error)
	Delete(ctx context.Context, actor *entities.Actor, quoteID string) error
	AddAttachments(ctx context.Context, actor *entities.Actor, quoteID string, kind entities.AttachmentKind, files []UploadFile) (entities.Quote, error)
	AddReceipts(ctx context.Context, actor *entities.Actor, quoteID string, files []UploadFile) (entities.Quote, error)
	OpenAttachment(ctx context.Context, actor *entities.Actor, quoteID, attachmentID string) (entities.Attachment, []byte, error)
	ListVisible(ctx context.Context, actor *entities.Actor) ([]entities.Quote, error)
	GetByID(ctx context.Context, actor *entities.Actor, quoteID string) (entities.Quote, error)
	Subscribe(fn func()) (unsubscribe func())
}

// QuoteUseCaseConfig holds the tunables of QuoteUseCase.
type QuoteUseCaseConfig struct {
	Policy           lifecycle.TransitionPolicy
	FallbackAddress  string
	AttachmentPrefix string
}

type QuoteUseCase struct {
	repo     interfaces.IQuoteRepository
	blobs    interfaces.IBlobStore
	notifier interfaces.INotifier
	metrics  interfaces.IQuoteMetrics
	audit    *audit.Builder
	clock    clock.Clock
	cfg      QuoteUseCaseConfig
	log      *zap.Logger

	// mu serialises load-mutate-save so there is one logical writer per process.
	mu sync.Mutex
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(
	repo interfaces.IQuoteRepository,
	blobs interfaces.IBlobStore,
	notifier interfaces.INotifier,
	metrics interfaces.IQuoteMetrics,
	builder *audit.Builder,
	clk clock.Clock,
	cfg QuoteUseCaseConfig,
	log *zap.Logger,
) *QuoteUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Policy == "" {
		cfg.Policy = lifecycle.PolicyPermissive
	}
	return &QuoteUseCase{
		repo:     repo,
		blobs:    blobs,
		notifier: notifier,
		metrics:  metrics,
		audit:    builder,
		clock:    clk,
		cfg:      cfg,
		log:      log.Named("quote.usecase"),
	}
}

func (u *QuoteUseCase) Finalize(ctx context.Context, actor *entities.Actor, in FinalizeInput) (entities.Quote, error) {
	if actor == nil || actor.IsStaff() || strings.TrimSpace(actor.ID) == "" {
		return entities.Quote{}, ErrForbidden
	}
	if len(in.Items) == 0 {
		return entities.Quote{}, ErrEmptyCart
	}
	if !in.PaymentMethod.Valid() {
		return entities.Quote{}, ErrInvalidPaymentMethod
	}

	var pix *entities.PixKey
	if in.PaymentMethod == entities.PaymentMethodPix {
		id := in.PixKeyID
		if id == "" {
			id = catalog.PixKeys()[0].ID
		}
		key, ok := catalog.FindPixKey(id)
		if !ok {
			return entities.Quote{}, fmt.Errorf("%w: unknown pix key %q", ErrInvalidPaymentMethod, id)
		}
		pix = &key
	}

	term := strings.TrimSpace(in.PaymentTermLabel)
	if term == "" {
		term = defaultPaymentTerm
	}

	now := u.clock.Now()
	items := make([]entities.LineItem, len(in.Items))
	copy(items, in.Items)

	q := entities.Quote{
		ID: uuid.NewString(),
		Owner: entities.OwnerRef{
			UserID: actor.ID,
			Email:  strings.ToLower(strings.TrimSpace(actor.Email)),
			Name:   actor.Name,
		},
		Items:            items,
		DiscountPercent:  lifecycle.ClampDiscount(in.DiscountPercent),
		PaymentMethod:    in.PaymentMethod,
		Pix:              pix,
		PaymentTermLabel: term,
		DueDates:         lifecycle.ComputeDueDates(term, now),
		Status:           entities.StatusUnderReview,
		Attachments:      []entities.Attachment{},
		CreatedAt:        now,
		Version:          1,
	}
	q.History = audit.Append(nil, u.audit.MakeEntry(actor, audit.ActionCreated, nil, entities.StatusUnderReview, nil))

	u.mu.Lock()
	quotes := u.repo.LoadQuotes(ctx)
	u.repo.SaveQuotes(ctx, append([]entities.Quote{q}, quotes...))
	u.mu.Unlock()

	u.log.Info("quote created", zap.String("quote_id", q.ID), zap.String("actor_id", actor.ID), zap.Int("items", len(items)))
	u.metrics.ObserveOperation("finalize", "ok")
	u.notify(ctx, q, "Orçamento recebido",
		fmt.Sprintf("Recebemos seu orçamento %s com %d item(ns). Status: %s.", q.ID, len(items), q.Status), nil)
	return q, nil
}

func (u *QuoteUseCase) Transition(ctx context.Context, actor *entities.Actor, quoteID string, to entities.QuoteStatus) (entities.Quote, error) {
	if !actor.IsStaff() {
		return entities.Quote{}, ErrForbidden
	}
	return u.changeStatus(ctx, actor, quoteID, to, audit.ActionChangedStatus, u.cfg.Policy.Check)
}

// MarkUpdated sends the quote back to the customer as "Orçamento atualizado".
func (u *QuoteUseCase) MarkUpdated(ctx context.Context, actor *entities.Actor, quoteID string) (entities.Quote, error) {
	if !actor.IsStaff() {
		return entities.Quote{}, ErrForbidden
	}
	return u.changeStatus(ctx, actor, quoteID, entities.StatusQuoteUpdated, audit.ActionMarkedForUpdate, u.checkReview)
}

func (u *QuoteUseCase) Confirm(ctx context.Context, actor *entities.Actor, quoteID string) (entities.Quote, error) {
	if !actor.IsStaff() {
		return entities.Quote{}, ErrForbidden
	}
	return u.changeStatus(ctx, actor, quoteID, entities.StatusConfirmed, audit.ActionConfirmed, u.checkReview)
}

// checkReview gates the staff shortcuts. Under the strict policy they only apply
// while the quote is still in review.
func (u *QuoteUseCase) checkReview(from, to entities.QuoteStatus) error {
	if u.cfg.Policy != lifecycle.PolicyStrict {
		return nil
	}
	if from.Known() && from.Index() < entities.StatusConfirmed.Index() {
		return nil
	}
	return fmt.Errorf("%w: %q -> %q", lifecycle.ErrTransitionBlocked, from, to)
}

func (u *QuoteUseCase) changeStatus(
	ctx context.Context,
	actor *entities.Actor,
	quoteID string,
	to entities.QuoteStatus,
	action string,
	check func(from, to entities.QuoteStatus) error,
) (entities.Quote, error) {
	var from entities.QuoteStatus
	updated, err := u.mutate(ctx, quoteID, func(q *entities.Quote) error {
		from = q.Status
		if err := check(from, to); err != nil {
			return mapLifecycleError(err)
		}
		q.Status = to
		q.History = audit.Append(q.History, u.audit.MakeEntry(actor, action, audit.StatusPtr(from), to, nil))
		return nil
	})
	if err != nil {
		u.metrics.ObserveOperation(action, "error")
		return entities.Quote{}, err
	}

	u.log.Info("quote status changed",
		zap.String("quote_id", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor_id", actor.ID))
	u.metrics.ObserveTransition(string(from), string(to))
	u.metrics.ObserveOperation(action, "ok")

	at := updated.History[len(updated.History)-1].Timestamp
	u.notify(ctx, updated, "Atualização do orçamento",
		fmt.Sprintf("Seu orçamento %s mudou de %q para %q em %s.", updated.ID, from, to, at.Format("02/01/2006 15:04")), nil)
	return updated, nil
}

// Cancel requires a reason and is only offered past confirmation and before a
// terminal status.
func (u *QuoteUseCase) Cancel(ctx context.Context, actor *entities.Actor, quoteID, reason string) (entities.Quote, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.Quote{}, ErrMissingReason
	}
	if actor == nil {
		return entities.Quote{}, ErrForbidden
	}

	var from entities.QuoteStatus
	updated, err := u.mutate(ctx, quoteID, func(q *entities.Quote) error {
		if !actor.IsStaff() && !lifecycle.IsOwner(q.Owner, actor.ID, actor.Email) {
			return ErrForbidden
		}
		if !lifecycle.CanCancel(q.Status) {
			return ErrNotCancellable
		}
		from = q.Status
		q.Status = entities.StatusCancelled
		q.CancelReason = reason
		q.History = audit.Append(q.History, u.audit.MakeEntry(actor, audit.ActionCancelled, audit.StatusPtr(from), entities.StatusCancelled,
			map[string]any{audit.ExtraReason: reason}))
		return nil
	})
	if err != nil {
		u.metrics.ObserveOperation("cancel", "error")
		return entities.Quote{}, err
	}

	u.log.Info("quote cancelled", zap.String("quote_id", updated.ID), zap.String("from", string(from)), zap.String("actor_id", actor.ID))
	u.metrics.ObserveTransition(string(from), string(entities.StatusCancelled))
	u.metrics.ObserveOperation("cancel", "ok")
	u.notify(ctx, updated, "Orçamento cancelado",
		fmt.Sprintf("Seu orçamento %s foi cancelado. Motivo: %s", updated.ID, reason), nil)
	return updated, nil
}

// Delete physically removes a quote still in review. Only the owner may do it and
// no history entry survives.
func (u *QuoteUseCase) Delete(ctx context.Context, actor *entities.Actor, quoteID string) error {
	if actor == nil {
		return ErrForbidden
	}
	quoteID = strings.TrimSpace(quoteID)

	u.mu.Lock()
	quotes := u.repo.LoadQuotes(ctx)
	idx := indexOfQuote(quotes, quoteID)
	if idx < 0 {
		u.mu.Unlock()
		return ErrQuoteNotFound
	}
	q := quotes[idx]
	if !lifecycle.IsOwner(q.Owner, actor.ID, actor.Email) {
		u.mu.Unlock()
		return ErrForbidden
	}
	if !lifecycle.CanDelete(q.Status) {
		u.mu.Unlock()
		u.metrics.ObserveOperation("delete", "error")
		return ErrNotDeletable
	}
	rest := make([]entities.Quote, 0, len(quotes)-1)
	rest = append(rest, quotes[:idx]...)
	rest = append(rest, quotes[idx+1:]...)
	u.repo.SaveQuotes(ctx, rest)
	u.mu.Unlock()

	u.dropBlobs(ctx, q.ID, q.Attachments)

	u.log.Info("quote deleted", zap.String("quote_id", q.ID), zap.String("actor_id", actor.ID))
	u.metrics.ObserveOperation("delete", "ok")
	return nil
}

// AddAttachments stores a batch of files and records exactly one history entry for
// it. Reads and uploads fail fast: if any file fails nothing is attached.
// An empty batch is a no-op.
func (u *QuoteUseCase) AddAttachments(ctx context.Context, actor *entities.Actor, quoteID string, kind entities.AttachmentKind, files []UploadFile) (entities.Quote, error) {
	if !actor.IsStaff() {
		return entities.Quote{}, ErrForbidden
	}
	if !kind.Valid() || kind == entities.AttachmentReceipt {
		return entities.Quote{}, fmt.Errorf("%w: kind %q", ErrInvalidAttachment, kind)
	}

	current, err := u.find(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if len(files) == 0 {
		return current, nil
	}

	action := audit.ActionAttachedPhotos
	if kind == entities.AttachmentDocument {
		action = audit.ActionAttachedDocument
	}
	updated, attachments, err := u.attach(ctx, actor, current.ID, kind, action, files)
	if err != nil {
		u.metrics.ObserveOperation("attach", "error")
		return entities.Quote{}, err
	}

	u.log.Info("attachments added", zap.String("quote_id", updated.ID), zap.String("kind", string(kind)), zap.Int("count", len(attachments)))
	u.metrics.ObserveOperation("attach", "ok")
	u.notify(ctx, updated, "Novos anexos no orçamento",
		fmt.Sprintf("Adicionamos %d anexo(s) ao seu orçamento %s.", len(attachments), updated.ID), attachments)
	return updated, nil
}

// AddReceipts lets the owner attach payment receipts to a quote paid by Pix or
// boleto. Like AddAttachments the batch lands whole or not at all.
func (u *QuoteUseCase) AddReceipts(ctx context.Context, actor *entities.Actor, quoteID string, files []UploadFile) (entities.Quote, error) {
	if actor == nil || actor.Role != entities.RoleCustomer {
		return entities.Quote{}, ErrForbidden
	}

	current, err := u.find(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if !lifecycle.IsOwner(current.Owner, actor.ID, actor.Email) {
		return entities.Quote{}, ErrQuoteNotFound
	}
	if !current.PaymentMethod.TakesReceipt() {
		return entities.Quote{}, fmt.Errorf("%w: %s", ErrReceiptNotAccepted, current.PaymentMethod)
	}
	if len(files) == 0 {
		return current, nil
	}

	updated, attachments, err := u.attach(ctx, actor, current.ID, entities.AttachmentReceipt, audit.ActionAttachedReceipt, files)
	if err != nil {
		u.metrics.ObserveOperation("receipt", "error")
		return entities.Quote{}, err
	}

	u.log.Info("receipts added", zap.String("quote_id", updated.ID), zap.String("actor_id", actor.ID), zap.Int("count", len(attachments)))
	u.metrics.ObserveOperation("receipt", "ok")
	return updated, nil
}

// attach stores the files, then appends them to the quote with one history entry.
// Blobs already written are removed when any step fails.
func (u *QuoteUseCase) attach(ctx context.Context, actor *entities.Actor, quoteID string, kind entities.AttachmentKind, action string, files []UploadFile) (entities.Quote, []entities.Attachment, error) {
	now := u.clock.Now()
	attachments := make([]entities.Attachment, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			data, err := readUpload(f)
			if err != nil {
				return err
			}
			id := uuid.NewString()
			key := u.cfg.AttachmentPrefix + quoteID + ":" + id
			if err := u.blobs.PutBlob(gctx, key, data); err != nil {
				if errors.Is(err, interfaces.ErrBlobTooLarge) {
					return fmt.Errorf("%w: %q is %d bytes", ErrAttachmentTooLarge, f.Name, len(data))
				}
				return fmt.Errorf("store attachment %q: %w", f.Name, err)
			}
			attachments[i] = entities.Attachment{
				ID:        id,
				Name:      f.Name,
				MediaType: mediaTypeOrDefault(f.MediaType, kind),
				Kind:      kind,
				Size:      int64(len(data)),
				BlobKey:   key,
				CreatedAt: now,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.dropBlobs(ctx, quoteID, attachments)
		u.log.Warn("attachment batch rejected", zap.String("quote_id", quoteID), zap.Int("count", len(files)), zap.Error(err))
		return entities.Quote{}, nil, err
	}

	updated, err := u.mutate(ctx, quoteID, func(q *entities.Quote) error {
		merged := make([]entities.Attachment, 0, len(q.Attachments)+len(attachments))
		merged = append(merged, q.Attachments...)
		q.Attachments = append(merged, attachments...)
		q.History = audit.Append(q.History, u.audit.MakeEntry(actor, action, nil, q.Status,
			map[string]any{audit.ExtraCount: len(attachments)}))
		return nil
	})
	if err != nil {
		u.dropBlobs(ctx, quoteID, attachments)
		return entities.Quote{}, nil, err
	}
	return updated, attachments, nil
}

func (u *QuoteUseCase) OpenAttachment(ctx context.Context, actor *entities.Actor, quoteID, attachmentID string) (entities.Attachment, []byte, error) {
	q, err := u.GetByID(ctx, actor, quoteID)
	if err != nil {
		return entities.Attachment{}, nil, err
	}
	for _, a := range q.Attachments {
		if a.ID != attachmentID {
			continue
		}
		data, ok, err := u.blobs.GetBlob(ctx, a.BlobKey)
		if err != nil {
			return entities.Attachment{}, nil, err
		}
		if !ok {
			return entities.Attachment{}, nil, ErrAttachmentNotFound
		}
		return a, data, nil
	}
	return entities.Attachment{}, nil, ErrAttachmentNotFound
}

// ListVisible returns what the actor may see: staff everything, customers what they own.
func (u *QuoteUseCase) ListVisible(ctx context.Context, actor *entities.Actor) ([]entities.Quote, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return lifecycle.VisibleTo(u.repo.LoadQuotes(ctx), actor), nil
}

// GetByID hides quotes the actor cannot see behind ErrQuoteNotFound.
func (u *QuoteUseCase) GetByID(ctx context.Context, actor *entities.Actor, quoteID string) (entities.Quote, error) {
	if actor == nil {
		return entities.Quote{}, ErrForbidden
	}
	q, err := u.find(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if !actor.IsStaff() && !lifecycle.IsOwner(q.Owner, actor.ID, actor.Email) {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) Subscribe(fn func()) func() {
	return u.repo.Subscribe(fn)
}

func (u *QuoteUseCase) find(ctx context.Context, quoteID string) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	quotes := u.repo.LoadQuotes(ctx)
	idx := indexOfQuote(quotes, quoteID)
	if idx < 0 {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return quotes[idx], nil
}

// mutate applies fn to the stored quote under the writer lock and saves the whole
// collection. On error nothing is written.
func (u *QuoteUseCase) mutate(ctx context.Context, quoteID string, fn func(q *entities.Quote) error) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)

	u.mu.Lock()
	defer u.mu.Unlock()

	quotes := u.repo.LoadQuotes(ctx)
	idx := indexOfQuote(quotes, quoteID)
	if idx < 0 {
		return entities.Quote{}, ErrQuoteNotFound
	}

	q := quotes[idx]
	if err := fn(&q); err != nil {
		return entities.Quote{}, err
	}
	q.Version++

	next := make([]entities.Quote, len(quotes))
	copy(next, quotes)
	next[idx] = q
	u.repo.SaveQuotes(ctx, next)
	return q, nil
}

func (u *QuoteUseCase) notify(ctx context.Context, q entities.Quote, subject, body string, attachments []entities.Attachment) {
	to := strings.TrimSpace(q.Owner.Email)
	if to == "" {
		to = u.cfg.FallbackAddress
	}
	err := u.notifier.Notify(ctx, entities.Notification{
		To:          to,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
	})
	if err != nil {
		u.log.Warn("notification not delivered", zap.String("quote_id", q.ID), zap.String("to", to), zap.Error(err))
	}
}

func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrUnknownStatus):
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	case errors.Is(err, lifecycle.ErrTransitionBlocked):
		return fmt.Errorf("%w: %v", ErrTransitionNotAllowed, err)
	default:
		return err
	}
}

func indexOfQuote(quotes []entities.Quote, id string) int {
	for i := range quotes {
		if quotes[i].ID == id {
			return i
		}
	}
	return -1
}

// dropBlobs removes the payloads of attachments. Entries without a blob key were
// never stored and are skipped.
func (u *QuoteUseCase) dropBlobs(ctx context.Context, quoteID string, attachments []entities.Attachment) {
	for _, a := range attachments {
		if a.BlobKey == "" {
			continue
		}
		if err := u.blobs.DeleteBlob(ctx, a.BlobKey); err != nil {
			u.log.Warn("attachment blob not removed", zap.String("quote_id", quoteID), zap.String("key", a.BlobKey), zap.Error(err))
		}
	}
}

func readUpload(f UploadFile) ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("%w: %q has no content", ErrInvalidAttachment, f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", f.Name, err)
	}
	return data, nil
}

func mediaTypeOrDefault(mediaType string, kind entities.AttachmentKind) string {
	if mt := strings.TrimSpace(mediaType); mt != "" {
		return mt
	}
	if kind == entities.AttachmentPhoto {
		return defaultPhotoMediaType
	}
	return defaultDocumentMediaType
}

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(string, string) {}
func (noopMetrics) ObserveOperation(string, string) {}
