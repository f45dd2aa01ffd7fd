package interfaces

import (
	"context"

	"quotebuilder/internal/domain/entities"
)

// IRateSource abstracts the external exchange-rate provider. It may be slow
// or fail; callers degrade to a fallback rate rather than blocking display.
type IRateSource interface {
	FetchRate(ctx context.Context) (entities.ConversionRate, error)
}
