package validation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePart_Valid(t *testing.T) {
	part, errs := ValidatePart(PartInput{
		PartName: "  Widget  ",
		MOQ:      "10",
		Tiers: []TierInput{
			{Quantity: "100", Price: "5"},
			{Quantity: "50", Price: "6.50"},
		},
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if part.PartName != "Widget" {
		t.Fatalf("expected trimmed name, got %q", part.PartName)
	}
	if part.MOQ != 10 {
		t.Fatalf("expected MOQ 10, got %d", part.MOQ)
	}
	if part.ID != "" {
		t.Fatalf("validator must not assign an id, got %q", part.ID)
	}

	// Tiers come back sorted ascending by quantity.
	if part.PriceQuantities[0].Quantity != 50 || part.PriceQuantities[1].Quantity != 100 {
		t.Fatalf("expected tiers sorted by quantity, got %+v", part.PriceQuantities)
	}
	if !part.PriceQuantities[0].Price.Equal(decimal.RequireFromString("6.50")) {
		t.Fatalf("price did not follow its tier through the sort: %+v", part.PriceQuantities)
	}
}

func TestValidatePart_CollectsAllErrors(t *testing.T) {
	part, errs := ValidatePart(PartInput{
		PartName: "   ",
		MOQ:      "-2",
		Tiers: []TierInput{
			{Quantity: "0", Price: "5"},
			{Quantity: "50", Price: "-1"},
		},
	})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if !errs.Has("partName") || !errs.Has("moq") {
		t.Fatalf("missing name or moq error: %v", errs)
	}
	if !errs.Has("quantity-0") {
		t.Fatalf("missing quantity error for first tier: %v", errs)
	}
	if !errs.Has("price-1") {
		t.Fatalf("missing price error for second tier: %v", errs)
	}
	if part.PartName != "" || part.MOQ != 0 || part.PriceQuantities != nil {
		t.Fatalf("expected zero part on any violation, got %+v", part)
	}
}

func TestValidatePart_CoercesUnparsableNumbers(t *testing.T) {
	_, errs := ValidatePart(PartInput{
		PartName: "Widget",
		MOQ:      "abc",
		Tiers:    []TierInput{{Quantity: "ten", Price: "cheap"}},
	})
	if len(errs) != 3 {
		t.Fatalf("expected coerced zeros to fail positivity, got %v", errs)
	}
	for _, code := range []string{CodeInvalidMOQ, CodeInvalidQuantity, CodeInvalidPrice} {
		found := false
		for _, fe := range errs {
			if fe.Code == code {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected code %s in %v", code, errs)
		}
	}
}

func TestValidatePart_DuplicateQuantitiesTolerated(t *testing.T) {
	part, errs := ValidatePart(PartInput{
		PartName: "Widget",
		MOQ:      "1",
		Tiers: []TierInput{
			{Quantity: "100", Price: "5"},
			{Quantity: "100", Price: "4"},
		},
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(part.PriceQuantities) != 2 {
		t.Fatalf("expected both tiers kept, got %+v", part.PriceQuantities)
	}
	// Entry order among equal quantities is preserved.
	if !part.PriceQuantities[0].Price.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected stable order for equal quantities, got %+v", part.PriceQuantities)
	}
}

func TestValidatePart_NoTiers(t *testing.T) {
	part, errs := ValidatePart(PartInput{PartName: "Widget", MOQ: "5"})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for an empty tier list, got %v", errs)
	}
	if !errs.Has("tiers") || errs[0].Code != CodeEmptyTiers {
		t.Fatalf("expected EMPTY_TIERS on the tiers field, got %v", errs)
	}
	if part.PartName != "" {
		t.Fatalf("expected zero part, got %+v", part)
	}
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{
		{Field: "partName", Code: CodeEmptyName, Message: "Part name is required"},
	}
	want := "validation failed: partName: Part name is required"
	if errs.Error() != want {
		t.Fatalf("got %q, want %q", errs.Error(), want)
	}
}
