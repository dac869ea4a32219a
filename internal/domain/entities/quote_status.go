package entities

// QuoteStatus represents the lifecycle of a quote (orçamento).
//
// The values are the labels shown to customers and persisted as-is. The order of
// StatusFlow is significant: deletion eligibility is decided by position relative
// to StatusConfirmed.
type QuoteStatus string

const (
	StatusUnderReview      QuoteStatus = "Em conferência"
	StatusQuoteUpdated     QuoteStatus = "Orçamento atualizado"
	StatusConfirmed        QuoteStatus = "Confirmado"
	StatusAwaitingPayment  QuoteStatus = "Aguardando pagamento"
	StatusPaymentConfirmed QuoteStatus = "Pagamento confirmado"
	StatusOrderPicked      QuoteStatus = "Pedido separado"
	StatusReadyForPickup   QuoteStatus = "Pronto para retirada"
	StatusFinalized        QuoteStatus = "Finalizado"
	StatusCancelled        QuoteStatus = "Cancelado"
)

// StatusFlow is the canonical status order.
var StatusFlow = []QuoteStatus{
	StatusUnderReview,
	StatusQuoteUpdated,
	StatusConfirmed,
	StatusAwaitingPayment,
	StatusPaymentConfirmed,
	StatusOrderPicked,
	StatusReadyForPickup,
	StatusFinalized,
	StatusCancelled,
}

// Index returns the position of s in StatusFlow, or -1 when s is not a known status.
func (s QuoteStatus) Index() int {
	for i, v := range StatusFlow {
		if v == s {
			return i
		}
	}
	return -1
}

func (s QuoteStatus) Known() bool {
	return s.Index() >= 0
}

func (s QuoteStatus) String() string {
	return string(s)
}
