package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionRate is the base-to-display exchange rate used by the currency
// overlay. It is ephemeral: fetched (or substituted by the fallback) per
// display session and never persisted with a quote.
type ConversionRate struct {
	Rate       decimal.Decimal `json:"rate"`
	FetchedAt  time.Time       `json:"lastUpdated"`
	IsFallback bool            `json:"isFallback"`
}
