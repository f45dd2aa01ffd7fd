package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
)

// Wire payloads for the quotation API. Dates travel as strings; prices as
// JSON numbers or strings, both of which decimal accepts.

type pricePayload struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type partPayload struct {
	ID              string         `json:"id,omitempty"`
	PartName        string         `json:"partName"`
	MOQ             int            `json:"moq"`
	PriceQuantities []pricePayload `json:"priceQuantities"`
}

type quotePayload struct {
	ID          string        `json:"id"`
	ClientName  string        `json:"clientName"`
	QuoteNumber string        `json:"quoteNumber"`
	Currency    string        `json:"currency"`
	ValidUntil  string        `json:"validUntil"`
	Status      string        `json:"status"`
	Parts       []partPayload `json:"parts"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

type quoteFormPayload struct {
	ClientName string        `json:"clientName"`
	Currency   string        `json:"currency"`
	ValidUntil string        `json:"validUntil"`
	Parts      []partPayload `json:"parts"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type convRatePayload struct {
	Rate        decimal.Decimal `json:"rate"`
	LastUpdated string          `json:"lastUpdated"`
	IsFallback  bool            `json:"isFallback"`
}

type apiErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeEnvelope unmarshals a response body that may or may not wrap its
// payload in a {"data": ...} envelope. The rest of the client never
// branches on transport shape; it is normalized right here.
func decodeEnvelope(body []byte, v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		body = env.Data
	}
	return json.Unmarshal(body, v)
}

func toFormPayload(form entities.QuoteFormData) quoteFormPayload {
	return quoteFormPayload{
		ClientName: form.ClientName,
		Currency:   string(form.Currency),
		ValidUntil: form.ValidUntil.UTC().Format(time.RFC3339),
		Parts:      toPartPayloads(form.Parts),
	}
}

func toPartPayloads(parts []entities.QuotePart) []partPayload {
	out := make([]partPayload, 0, len(parts))
	for _, p := range parts {
		pp := partPayload{ID: p.ID, PartName: p.PartName, MOQ: p.MOQ}
		for _, pq := range p.PriceQuantities {
			pp.PriceQuantities = append(pp.PriceQuantities, pricePayload(pq))
		}
		out = append(out, pp)
	}
	return out
}

func fromQuotePayload(p quotePayload) entities.Quote {
	parts := make([]entities.QuotePart, 0, len(p.Parts))
	for _, pp := range p.Parts {
		part := entities.QuotePart{ID: pp.ID, PartName: pp.PartName, MOQ: pp.MOQ}
		for _, pq := range pp.PriceQuantities {
			part.PriceQuantities = append(part.PriceQuantities, entities.PriceQuantity(pq))
		}
		parts = append(parts, part)
	}
	return entities.Quote{
		ID:          p.ID,
		ClientName:  p.ClientName,
		QuoteNumber: p.QuoteNumber,
		Currency:    entities.Currency(p.Currency),
		ValidUntil:  parseWireTime(p.ValidUntil),
		Status:      entities.QuoteStatus(p.Status),
		Parts:       parts,
		CreatedAt:   parseWireTime(p.CreatedAt),
		UpdatedAt:   parseWireTime(p.UpdatedAt),
	}
}

// parseWireTime accepts the timestamp shapes observed from the backend:
// RFC3339 (with or without sub-seconds) and bare dates.
func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
