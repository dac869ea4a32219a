package response

import (
	"strings"
	"time"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/domain/lifecycle"
)

const dueDateLayout = "02/01/2006"

type LineItemResponse struct {
	ProductID   string  `json:"product_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Category    string  `json:"category,omitempty"`
	Color       string  `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
}

type HistoryEntryResponse struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	ActorID    *string        `json:"actor_id"`
	ActorName  *string        `json:"actor_name"`
	Action     string         `json:"action"`
	FromStatus *string        `json:"from_status"`
	ToStatus   string         `json:"to_status"`
	Extra      map[string]any `json:"extra,omitempty"`
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MediaType   string    `json:"media_type"`
	Kind        string    `json:"kind"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"download_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuoteResponse struct {
	ID               string                 `json:"id"`
	OwnerID          string                 `json:"owner_id"`
	OwnerEmail       string                 `json:"owner_email"`
	OwnerName        string                 `json:"owner_name"`
	Items            []LineItemResponse     `json:"items"`
	Subtotal         float64                `json:"subtotal"`
	DiscountPercent  float64                `json:"discount_percent"`
	NetTotal         float64                `json:"net_total"`
	PaymentMethod    string                 `json:"payment_method"`
	Pix              *entities.PixKey       `json:"pix,omitempty"`
	PaymentTermLabel string                 `json:"payment_term_label"`
	DueDates         []time.Time            `json:"due_dates"`
	DueDatesLabel    string                 `json:"due_dates_label"`
	Status           string                 `json:"status"`
	CanDelete        bool                   `json:"can_delete"`
	CanCancel        bool                   `json:"can_cancel"`
	CancelReason     string                 `json:"cancel_reason,omitempty"`
	History          []HistoryEntryResponse `json:"history"`
	Attachments      []AttachmentResponse   `json:"attachments"`
	CreatedAt        time.Time              `json:"created_at"`
	Version          int64                  `json:"version"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	subtotal := lifecycle.ComputeTotal(q.Items)
	resp := QuoteResponse{
		ID:               q.ID,
		OwnerID:          q.Owner.UserID,
		OwnerEmail:       q.Owner.Email,
		OwnerName:        q.Owner.Name,
		Items:            FromLineItems(q.Items),
		Subtotal:         subtotal,
		DiscountPercent:  lifecycle.ClampDiscount(q.DiscountPercent),
		NetTotal:         lifecycle.ComputeNetTotal(subtotal, q.DiscountPercent),
		PaymentMethod:    string(q.PaymentMethod),
		Pix:              q.Pix,
		PaymentTermLabel: q.PaymentTermLabel,
		DueDates:         q.DueDates,
		DueDatesLabel:    DueDatesLabel(q.DueDates, q.PaymentTermLabel),
		Status:           string(q.Status),
		CanDelete:        lifecycle.CanDelete(q.Status),
		CanCancel:        lifecycle.CanCancel(q.Status),
		CancelReason:     q.CancelReason,
		History:          make([]HistoryEntryResponse, 0, len(q.History)),
		Attachments:      make([]AttachmentResponse, 0, len(q.Attachments)),
		CreatedAt:        q.CreatedAt,
		Version:          q.Version,
	}
	if resp.DueDates == nil {
		resp.DueDates = []time.Time{}
	}

	for _, e := range q.History {
		entry := HistoryEntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			ActorID:   e.ActorID,
			ActorName: e.ActorName,
			Action:    e.Action,
			ToStatus:  string(e.ToStatus),
			Extra:     e.Extra,
		}
		if e.FromStatus != nil {
			from := string(*e.FromStatus)
			entry.FromStatus = &from
		}
		resp.History = append(resp.History, entry)
	}

	for _, a := range q.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:          a.ID,
			Name:        a.Name,
			MediaType:   a.MediaType,
			Kind:        string(a.Kind),
			Size:        a.Size,
			DownloadURL: "/v1/quotes/" + q.ID + "/attachments/" + a.ID,
			CreatedAt:   a.CreatedAt,
		})
	}
	return resp
}

func FromQuotes(quotes []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, FromQuote(q))
	}
	return out
}

func FromLineItems(items []entities.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{
			ProductID:   it.ProductID,
			Code:        it.Code,
			Name:        it.Name,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       lifecycle.LineTotal(it),
			Category:    it.Category,
			Color:       it.Color,
			Description: it.Description,
		})
	}
	return out
}

// DueDatesLabel renders due dates as "dd/mm/yyyy • dd/mm/yyyy". Quotes on an agreed
// term read "a combinar"; anything else without dates reads "-".
func DueDatesLabel(dates []time.Time, termLabel string) string {
	if len(dates) == 0 {
		if lifecycle.IsNegotiatedTerm(termLabel) {
			return "a combinar"
		}
		return "-"
	}
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format(dueDateLayout))
	}
	return strings.Join(parts, " • ")
}
