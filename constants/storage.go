package constants

// Namespaced keys for persisted local state.
const (
	HistoryKey     = "NEXY_AI_HISTORY"
	PriceAlertsKey = "NEXY_AI_PRICE_ALERTS"
)
