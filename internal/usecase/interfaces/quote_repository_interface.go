package interfaces

import (
	"context"

	"quotebuilder/internal/domain/entities"
)

// ListFilter narrows and pages a quote listing. Zero values mean "no
// filter" / "no paging". Status may be the derived EXPIRED, which backing
// stores resolve against ValidUntil since it is never stored.
type ListFilter struct {
	Status     entities.QuoteStatus
	ClientName string
	Page       int
	Limit      int
}

// IQuoteRepository abstracts quote persistence. Realizations include the
// external quotation REST API, DynamoDB, and the in-memory store; the
// business rules above this port are identical for all of them.
//
// Conventions:
//   - Every call is context-bound, fallible, and non-retrying: one call,
//     one outcome, all-or-nothing.
//   - The repository is the sole authority for identity: Create assigns
//     id, quoteNumber, createdAt and updatedAt.
//   - Getters return a zero-ID quote (and nil error) for "not found".
//   - Status transitions and the editability gate are enforced by the
//     caller, not assumed enforced here.

type IQuoteRepository interface {
	List(ctx context.Context, filter ListFilter) ([]entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	Create(ctx context.Context, form entities.QuoteFormData) (entities.Quote, error)
	Update(ctx context.Context, id string, form entities.QuoteFormData) (entities.Quote, error)
	UpdateStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error)
	Delete(ctx context.Context, id string) error
}
