package interfaces

import (
	"context"

	"portal_orcamentos/internal/domain/entities"
)

// IQuoteRepository is the quote side of the persistence gateway.
//
// Persistence is best-effort: a failed read yields an empty collection and a failed
// write is a no-op. Neither surfaces an error; the gateway logs and counts them.
// Every save publishes a change to subscribers.
type IQuoteRepository interface {
	LoadQuotes(ctx context.Context) []entities.Quote
	SaveQuotes(ctx context.Context, quotes []entities.Quote)
	Subscribe(fn func()) (unsubscribe func())
}
