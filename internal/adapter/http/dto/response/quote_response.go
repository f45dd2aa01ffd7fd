package response

import (
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
)

type PriceQuantityResponse struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type QuotePartResponse struct {
	ID              string                  `json:"id"`
	PartName        string                  `json:"partName"`
	MOQ             int                     `json:"moq"`
	PriceQuantities []PriceQuantityResponse `json:"priceQuantities"`
}

type QuoteResponse struct {
	ID          string              `json:"id"`
	ClientName  string              `json:"clientName"`
	QuoteNumber string              `json:"quoteNumber"`
	Currency    string              `json:"currency"`
	ValidUntil  string              `json:"validUntil"`
	Status      string              `json:"status"`
	Parts       []QuotePartResponse `json:"parts"`
	CreatedAt   string              `json:"createdAt"`
	UpdatedAt   string              `json:"updatedAt"`
}

// QuoteListResponse wraps the collection in the data envelope some backend
// versions emit; the client side normalizes it away.
type QuoteListResponse struct {
	Data []QuoteResponse `json:"data"`
}

type ConvRateResponse struct {
	Rate        decimal.Decimal `json:"rate"`
	LastUpdated string          `json:"lastUpdated"`
	IsFallback  bool            `json:"isFallback"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	parts := make([]QuotePartResponse, 0, len(q.Parts))
	for _, p := range q.Parts {
		pr := QuotePartResponse{ID: p.ID, PartName: p.PartName, MOQ: p.MOQ}
		for _, pq := range p.PriceQuantities {
			pr.PriceQuantities = append(pr.PriceQuantities, PriceQuantityResponse{
				Quantity: pq.Quantity,
				Price:    pq.Price,
			})
		}
		parts = append(parts, pr)
	}
	return QuoteResponse{
		ID:          q.ID,
		ClientName:  q.ClientName,
		QuoteNumber: q.QuoteNumber,
		Currency:    string(q.Currency),
		ValidUntil:  q.ValidUntil.UTC().Format(time.RFC3339),
		Status:      string(q.Status),
		Parts:       parts,
		CreatedAt:   q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func FromQuotes(quotes []entities.Quote) QuoteListResponse {
	out := QuoteListResponse{Data: make([]QuoteResponse, 0, len(quotes))}
	for _, q := range quotes {
		out.Data = append(out.Data, FromQuote(q))
	}
	return out
}
