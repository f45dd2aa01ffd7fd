package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase/interfaces"
)

var ErrUnknownDisplayCurrency = errors.New("unknown display currency")

// DefaultFallbackRate approximates INR to USD, used when the live rate
// source is unreachable.
var DefaultFallbackRate = decimal.RequireFromString("0.012")

// PartsProjection is a display-only copy of a quote's parts with prices in
// the requested currency. The stored quote is never touched: persistence
// keeps operating on the original base-currency prices.
type PartsProjection struct {
	Parts    []entities.QuotePart
	Currency entities.Currency
	// Rate is the applied conversion; zero value when Converted is false.
	Rate      entities.ConversionRate
	Converted bool
}

// IConversionUseCase produces display projections and owns the per-session
// rate cache.
type IConversionUseCase interface {
	DisplayParts(ctx context.Context, quote entities.Quote, display entities.Currency) (PartsProjection, error)
	InvalidateRate()
}

type ConversionUseCase struct {
	source   interfaces.IRateSource
	fallback decimal.Decimal

	mu     sync.Mutex
	cached *entities.ConversionRate
}

var _ IConversionUseCase = (*ConversionUseCase)(nil)

func NewConversionUseCase(source interfaces.IRateSource, fallback decimal.Decimal) *ConversionUseCase {
	if fallback.Sign() <= 0 {
		fallback = DefaultFallbackRate
	}
	return &ConversionUseCase{source: source, fallback: fallback}
}

// DisplayParts converts the quote's stored prices for display. When the
// display currency equals the base currency the parts pass through
// unchanged (still deep-copied). Rate-source failure never blocks display:
// it degrades to the fallback rate with IsFallback set so the caller can
// warn the user.
//
// Converted prices are round(stored * rate, 2).
func (u *ConversionUseCase) DisplayParts(ctx context.Context, quote entities.Quote, display entities.Currency) (PartsProjection, error) {
	if display == "" {
		display = quote.Currency
	}
	if !display.Valid() {
		return PartsProjection{}, ErrUnknownDisplayCurrency
	}

	parts := entities.CloneParts(quote.Parts)
	if display == entities.BaseCurrency {
		return PartsProjection{Parts: parts, Currency: display}, nil
	}

	rate := u.sessionRate(ctx)
	for pi := range parts {
		for ti := range parts[pi].PriceQuantities {
			stored := parts[pi].PriceQuantities[ti].Price
			parts[pi].PriceQuantities[ti].Price = stored.Mul(rate.Rate).Round(2)
		}
	}

	return PartsProjection{Parts: parts, Currency: display, Rate: rate, Converted: true}, nil
}

// InvalidateRate drops the cached rate so the next non-identity projection
// fetches again.
func (u *ConversionUseCase) InvalidateRate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cached = nil
}

// sessionRate returns the cached rate, fetching at most once per session.
// A failed fetch caches the fallback so display rendering does not hammer a
// dead rate source; InvalidateRate forces a retry.
func (u *ConversionUseCase) sessionRate(ctx context.Context) entities.ConversionRate {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cached != nil {
		return *u.cached
	}

	rate, err := u.source.FetchRate(ctx)
	if err != nil || rate.Rate.Sign() <= 0 {
		log.Printf("[conversion][usecase] rate fetch failed, using fallback rate=%s err=%v", u.fallback, err)
		rate = entities.ConversionRate{Rate: u.fallback, FetchedAt: time.Now().UTC(), IsFallback: true}
	}
	u.cached = &rate
	return rate
}
