package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code a quote's prices are displayed in.
//
// Prices are always stored in the base currency; a different display
// currency is a projection produced by the conversion use case, never a
// mutation of the stored quote.

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

// BaseCurrency is the currency prices are stored in.
const BaseCurrency = CurrencyINR

func (c Currency) Valid() bool {
	switch c {
	case CurrencyINR, CurrencyUSD:
		return true
	}
	return false
}

// PriceQuantity is one volume-pricing tier: the unit price that applies at
// a given order quantity. Both values are strictly positive once validated.
type PriceQuantity struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// QuotePart is a single line item of a quote. Parts are immutable once
// added; the only mutation path is removal followed by re-adding.
//
// ID is assigned at add-time and is the removal key. PartName is also kept
// unique (trimmed, case-sensitive) within a quote so that either identity
// scheme stays coherent.
type QuotePart struct {
	ID              string          `json:"id"`
	PartName        string          `json:"partName"`
	MOQ             int             `json:"moq"`
	PriceQuantities []PriceQuantity `json:"priceQuantities"`
}

// Clone returns a deep copy. Projections and repositories hand out clones
// so callers can never alias stored tier slices.
func (p QuotePart) Clone() QuotePart {
	out := p
	out.PriceQuantities = make([]PriceQuantity, len(p.PriceQuantities))
	copy(out.PriceQuantities, p.PriceQuantities)
	return out
}

// CloneParts deep-copies a part list.
func CloneParts(parts []QuotePart) []QuotePart {
	if parts == nil {
		return nil
	}
	out := make([]QuotePart, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.Clone())
	}
	return out
}

// Quote is the aggregate and unit of persistence. It exclusively owns its
// parts and their price tiers; nothing is shared by reference across quotes.
//
// Identity (ID, QuoteNumber) and the timestamps are assigned by whichever
// repository persists the quote, never by the caller.
type Quote struct {
	ID          string      `json:"id"`
	ClientName  string      `json:"clientName"`
	QuoteNumber string      `json:"quoteNumber"`
	Currency    Currency    `json:"currency"`
	ValidUntil  time.Time   `json:"validUntil"`
	Status      QuoteStatus `json:"status"`
	Parts       []QuotePart `json:"parts"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// QuoteFormData carries the caller-editable fields for create and update.
// Status is deliberately absent: creation always starts at DRAFT and status
// changes go through the dedicated status operation.
type QuoteFormData struct {
	ClientName string      `json:"clientName"`
	Currency   Currency    `json:"currency"`
	ValidUntil time.Time   `json:"validUntil"`
	Parts      []QuotePart `json:"parts"`
}

// IsExpired reports whether ValidUntil has elapsed, compared at day
// granularity: a quote stays valid only while ValidUntil is strictly in
// the future, so one valid until today is already expired.
func (q Quote) IsExpired(now time.Time) bool {
	if q.ValidUntil.IsZero() {
		return false
	}
	until := truncateToDay(q.ValidUntil)
	today := truncateToDay(now)
	return !until.After(today)
}

// DisplayStatus is the presentation status: EXPIRED when ValidUntil has
// elapsed, otherwise the stored status. EXPIRED is never persisted and the
// editability gate does not consult it.
func (q Quote) DisplayStatus(now time.Time) QuoteStatus {
	if q.IsExpired(now) {
		return QuoteStatusExpired
	}
	return q.Status
}

// Editable reports whether the quote's editable fields (clientName,
// currency, validUntil, parts) may currently be changed.
func (q Quote) Editable() bool {
	return q.Status == QuoteStatusDraft
}

// Part looks a part up by its id.
func (q Quote) Part(partID string) (QuotePart, bool) {
	for _, p := range q.Parts {
		if p.ID == partID {
			return p, true
		}
	}
	return QuotePart{}, false
}

// HasPartNamed reports whether a part with the given trimmed name exists.
func (q Quote) HasPartNamed(name string) bool {
	name = strings.TrimSpace(name)
	for _, p := range q.Parts {
		if p.PartName == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the quote.
func (q Quote) Clone() Quote {
	out := q
	out.Parts = CloneParts(q.Parts)
	return out
}

// FormData projects the quote's editable fields, deep-copied.
func (q Quote) FormData() QuoteFormData {
	return QuoteFormData{
		ClientName: q.ClientName,
		Currency:   q.Currency,
		ValidUntil: q.ValidUntil,
		Parts:      CloneParts(q.Parts),
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
