package entities

import "time"

// PaymentMethod is the way the customer intends to pay for a quote.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Dinheiro"
	PaymentMethodPix    PaymentMethod = "Pix"
	PaymentMethodBoleto PaymentMethod = "Boleto"
)

var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodPix, PaymentMethodBoleto}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// TakesReceipt reports whether the customer pays outside the store and can prove
// it with a receipt.
func (m PaymentMethod) TakesReceipt() bool {
	return m == PaymentMethodPix || m == PaymentMethodBoleto
}

// PaymentTerms lists the term labels offered at checkout.
var PaymentTerms = []string{"30 dias", "30/45 dias", "30/45/60 dias", "Á Vista", "Acordado"}

// PixKey is the receiving account shown to the customer when paying by Pix.
type PixKey struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Key     string `json:"key"`
	Bank    string `json:"bank"`
	Holder  string `json:"holder"`
	Branch  string `json:"branch"`
	Account string `json:"account"`
}

// LineItem is a priced product line of a quote or cart.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Category    string  `json:"category,omitempty"`
	Color       string  `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
}

// OwnerRef identifies the customer owning a quote. Either field establishes ownership.
type OwnerRef struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// AttachmentKind is the upload category. Staff upload photos and documents, the
// owner uploads payment receipts.
type AttachmentKind string

const (
	AttachmentPhoto    AttachmentKind = "photo"
	AttachmentDocument AttachmentKind = "document"
	AttachmentReceipt  AttachmentKind = "receipt"
)

func (k AttachmentKind) Valid() bool {
	return k == AttachmentPhoto || k == AttachmentDocument || k == AttachmentReceipt
}

// Attachment is an uploaded artifact. The payload lives in the blob store under BlobKey.
type Attachment struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	MediaType string         `json:"media_type"`
	Kind      AttachmentKind `json:"kind"`
	Size      int64          `json:"size"`
	BlobKey   string         `json:"blob_key"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditEntry is one immutable history record of a quote.
type AuditEntry struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	ActorID    *string        `json:"actor_id"`
	ActorName  *string        `json:"actor_name"`
	Action     string         `json:"action"`
	FromStatus *QuoteStatus   `json:"from_status"`
	ToStatus   QuoteStatus    `json:"to_status"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Quote is a customer's priced order request (orçamento).
//
// Totals are never stored: they are derived from Items and DiscountPercent.
// History and Attachments are append-only.
type Quote struct {
	ID               string        `json:"id"`
	Owner            OwnerRef      `json:"owner"`
	Items            []LineItem    `json:"items"`
	DiscountPercent  float64       `json:"discount_percent"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Pix              *PixKey       `json:"pix,omitempty"`
	PaymentTermLabel string        `json:"payment_term_label"`
	DueDates         []time.Time   `json:"due_dates"`
	Status           QuoteStatus   `json:"status"`
	History          []AuditEntry  `json:"history"`
	Attachments      []Attachment  `json:"attachments"`
	CancelReason     string        `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	Version          int64         `json:"version"`
}
