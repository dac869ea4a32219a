package interfaces

// IQuoteMetrics records lifecycle counters.
type IQuoteMetrics interface {
	ObserveTransition(from, to string)
	ObserveOperation(operation, result string)
}
