package request

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
)

var (
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrInvalidValidUntil = errors.New("invalid validUntil date")
	ErrInvalidStatus     = errors.New("invalid status")
)

type PriceQuantityRequest struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type QuotePartRequest struct {
	ID              string                 `json:"id"`
	PartName        string                 `json:"partName" binding:"required"`
	MOQ             int                    `json:"moq" binding:"required"`
	PriceQuantities []PriceQuantityRequest `json:"priceQuantities" binding:"required"`
}

// QuoteRequest is the create/update payload of the quotation API. The
// backend stand-in checks payload shape only; the business rules (status
// gate, transitions, part validation) are enforced by the calling side, as
// the real backend also assumes.
type QuoteRequest struct {
	ClientName string             `json:"clientName" binding:"required"`
	Currency   string             `json:"currency" binding:"required"`
	ValidUntil string             `json:"validUntil" binding:"required"`
	Parts      []QuotePartRequest `json:"parts"`
}

func (r QuoteRequest) ToFormData() (entities.QuoteFormData, error) {
	currency := entities.Currency(strings.ToUpper(strings.TrimSpace(r.Currency)))
	if !currency.Valid() {
		return entities.QuoteFormData{}, ErrInvalidCurrency
	}
	validUntil, err := parseDate(r.ValidUntil)
	if err != nil {
		return entities.QuoteFormData{}, ErrInvalidValidUntil
	}

	parts := make([]entities.QuotePart, 0, len(r.Parts))
	for _, pr := range r.Parts {
		part := entities.QuotePart{
			ID:       strings.TrimSpace(pr.ID),
			PartName: strings.TrimSpace(pr.PartName),
			MOQ:      pr.MOQ,
		}
		for _, pq := range pr.PriceQuantities {
			part.PriceQuantities = append(part.PriceQuantities, entities.PriceQuantity{
				Quantity: pq.Quantity,
				Price:    pq.Price,
			})
		}
		parts = append(parts, part)
	}

	return entities.QuoteFormData{
		ClientName: strings.TrimSpace(r.ClientName),
		Currency:   currency,
		ValidUntil: validUntil,
		Parts:      parts,
	}, nil
}

// StatusRequest is the PATCH /quotations/{id}/status payload.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ResolveStatus accepts only storable statuses; EXPIRED is derived and can
// never be written.
func (r StatusRequest) ResolveStatus() (entities.QuoteStatus, error) {
	status := entities.QuoteStatus(strings.ToUpper(strings.TrimSpace(r.Status)))
	if !status.Valid() || status == entities.QuoteStatusExpired {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidValidUntil
}
