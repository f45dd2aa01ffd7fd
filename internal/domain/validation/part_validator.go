// Package validation turns raw part form input into validated QuoteParts.
//
// The rules mirror the add-part flow: every violation is collected before
// anything is accepted, unparsable numeric input is coerced to zero (and
// then fails the positivity check instead of raising a parse error), and
// accepted tiers are sorted ascending by quantity. A part needs at least
// one tier. Duplicate quantities across tiers are tolerated.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
)

// Field error codes.
const (
	CodeEmptyName       = "EMPTY_NAME"
	CodeInvalidMOQ      = "INVALID_MOQ"
	CodeEmptyTiers      = "EMPTY_TIERS"
	CodeInvalidQuantity = "INVALID_QUANTITY"
	CodeInvalidPrice    = "INVALID_PRICE"
)

// TierInput is one candidate quantity/price pair, as entered.
type TierInput struct {
	Quantity string
	Price    string
}

// PartInput is the raw add-part form payload.
type PartInput struct {
	PartName string
	MOQ      string
	Tiers    []TierInput
}

// FieldError is a single rule violation. Field follows the form's keying
// scheme: "partName", "moq", "tiers", "quantity-<i>", "price-<i>".
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrors is the complete set of violations for one submission.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether a violation was recorded for the given field key.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ValidatePart checks every rule independently and either returns a
// validated part (tiers sorted ascending by quantity) or the full set of
// field errors. It never returns a partial result: on any violation the
// returned part is the zero value.
//
// The part ID is left empty; identity is assigned by the caller at
// add-time.
func ValidatePart(in PartInput) (entities.QuotePart, FieldErrors) {
	var errs FieldErrors

	name := strings.TrimSpace(in.PartName)
	if name == "" {
		errs = append(errs, FieldError{Field: "partName", Code: CodeEmptyName, Message: "Part name is required"})
	}

	moq := coerceInt(in.MOQ)
	if moq <= 0 {
		errs = append(errs, FieldError{Field: "moq", Code: CodeInvalidMOQ, Message: "MOQ must be a positive number"})
	}

	if len(in.Tiers) == 0 {
		errs = append(errs, FieldError{Field: "tiers", Code: CodeEmptyTiers, Message: "At least one price tier is required"})
	}

	tiers := make([]entities.PriceQuantity, 0, len(in.Tiers))
	for i, t := range in.Tiers {
		qty := coerceInt(t.Quantity)
		price := coerceDecimal(t.Price)
		if qty <= 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("quantity-%d", i),
				Code:    CodeInvalidQuantity,
				Message: "Quantity must be greater than 0",
			})
		}
		if price.Sign() <= 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("price-%d", i),
				Code:    CodeInvalidPrice,
				Message: "Price must be greater than 0",
			})
		}
		tiers = append(tiers, entities.PriceQuantity{Quantity: qty, Price: price})
	}

	if len(errs) > 0 {
		return entities.QuotePart{}, errs
	}

	// Stable sort keeps entry order among equal quantities, which makes the
	// pricing table's first-at-quantity lookup deterministic.
	sort.SliceStable(tiers, func(a, b int) bool {
		return tiers[a].Quantity < tiers[b].Quantity
	})

	return entities.QuotePart{
		PartName:        name,
		MOQ:             moq,
		PriceQuantities: tiers,
	}, nil
}

// coerceInt parses s as an integer, coercing unparsable input to 0.
func coerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// coerceDecimal parses s as a decimal, coercing unparsable input to 0.
func coerceDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
