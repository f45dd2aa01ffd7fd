package export

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func exportQuote() entities.Quote {
	return entities.Quote{
		ID:          "q-1",
		QuoteNumber: "Q-0001",
		ClientName:  "Acme",
		Currency:    entities.CurrencyINR,
		ValidUntil:  time.Now().UTC().AddDate(0, 1, 0),
		Status:      entities.QuoteStatusDraft,
		Parts: []entities.QuotePart{
			{
				ID: "p-a", PartName: "Part A", MOQ: 10,
				PriceQuantities: []entities.PriceQuantity{
					{Quantity: 100, Price: dec("5")},
					{Quantity: 500, Price: dec("4")},
				},
			},
			{
				ID: "p-b", PartName: "Part B", MOQ: 25,
				PriceQuantities: []entities.PriceQuantity{
					{Quantity: 250, Price: dec("9")},
				},
			},
		},
	}
}

func TestWrite_BaseCurrency(t *testing.T) {
	q := exportQuote()
	proj := usecase.PartsProjection{Parts: q.Parts, Currency: entities.CurrencyINR}

	var buf strings.Builder
	if err := Write(&buf, q, proj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"QUOTATION Q-0001",
		"Client:      Acme",
		"Currency:    INR",
		"100 units",
		"250 units",
		"500 units",
		"₹5.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}

	// Part B has no tier at 100 or 500; those cells render as a dash.
	if !strings.Contains(out, "—") {
		t.Fatalf("expected absence dash in output:\n%s", out)
	}
	// Columns appear in ascending quantity order.
	if strings.Index(out, "100 units") > strings.Index(out, "250 units") {
		t.Fatalf("columns out of order:\n%s", out)
	}
	if strings.Contains(out, "Rate:") {
		t.Fatalf("identity projection must not print a rate:\n%s", out)
	}
}

func TestWrite_ConvertedWithFallbackWarning(t *testing.T) {
	q := exportQuote()
	proj := usecase.PartsProjection{
		Parts:    q.Parts,
		Currency: entities.CurrencyUSD,
		Rate: entities.ConversionRate{
			Rate:       dec("0.012"),
			FetchedAt:  time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC),
			IsFallback: true,
		},
		Converted: true,
	}

	var buf strings.Builder
	if err := Write(&buf, q, proj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Currency:    USD") {
		t.Fatalf("expected display currency USD:\n%s", out)
	}
	if !strings.Contains(out, "Rate:        0.012") {
		t.Fatalf("expected rate line:\n%s", out)
	}
	if !strings.Contains(out, "WARNING: live exchange rate unavailable") {
		t.Fatalf("expected fallback warning:\n%s", out)
	}
	if !strings.Contains(out, "$") {
		t.Fatalf("expected dollar symbol for USD prices:\n%s", out)
	}
}

func TestWrite_NoParts(t *testing.T) {
	q := exportQuote()
	q.Parts = nil
	proj := usecase.PartsProjection{Currency: entities.CurrencyINR}

	var buf strings.Builder
	if err := Write(&buf, q, proj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No parts added yet.") {
		t.Fatalf("expected empty-parts line:\n%s", buf.String())
	}
}
