// Package lifecycle holds the pure quote lifecycle rules: deletion and
// cancellation eligibility, totals and ownership. Nothing here performs I/O.
package lifecycle

import (
	"math"
	"strings"

	"portal_orcamentos/internal/domain/entities"
)

// IsTerminal reports whether no further transitions are expected from status.
func IsTerminal(status entities.QuoteStatus) bool {
	return status == entities.StatusFinalized || status == entities.StatusCancelled
}

// CanDelete is true while status sits strictly before "Confirmado" in the canonical
// order. Unknown statuses are deletable so corrupt records can still be removed.
func CanDelete(status entities.QuoteStatus) bool {
	idx := status.Index()
	return idx == -1 || idx < entities.StatusConfirmed.Index()
}

// CanCancel is offered only past the confirmation threshold and before a terminal status.
func CanCancel(status entities.QuoteStatus) bool {
	return !CanDelete(status) && !IsTerminal(status)
}

// LineTotal is unit price times quantity. A non-finite factor or product counts as zero.
func LineTotal(it entities.LineItem) float64 {
	return finite(finite(it.UnitPrice) * finite(it.Quantity))
}

// ComputeTotal sums the line totals. A sum that overflows counts as zero.
func ComputeTotal(items []entities.LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += LineTotal(it)
	}
	return finite(total)
}

// ComputeNetTotal applies a discount percentage clamped to [0,100]. Never negative.
func ComputeNetTotal(subtotal, discountPercent float64) float64 {
	net := finite(finite(subtotal) * (1 - ClampDiscount(discountPercent)/100))
	return math.Max(0, net)
}

func ClampDiscount(pct float64) float64 {
	pct = finite(pct)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// IsOwner matches the user against the quote owner by id, or by email ignoring case.
func IsOwner(owner entities.OwnerRef, userID, userEmail string) bool {
	oe := strings.ToLower(strings.TrimSpace(owner.Email))
	ue := strings.ToLower(strings.TrimSpace(userEmail))
	if oe != "" && ue != "" && oe == ue {
		return true
	}
	return owner.UserID != "" && userID != "" && owner.UserID == userID
}

// VisibleTo filters quotes down to what the actor may see: staff see everything,
// customers only what they own.
func VisibleTo(quotes []entities.Quote, actor *entities.Actor) []entities.Quote {
	if actor == nil {
		return nil
	}
	if actor.IsStaff() {
		return quotes
	}
	out := make([]entities.Quote, 0, len(quotes))
	for _, q := range quotes {
		if IsOwner(q.Owner, actor.ID, actor.Email) {
			out = append(out, q)
		}
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
