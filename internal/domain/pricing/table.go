// Package pricing builds the unified price table shown for a quote:
// one column per distinct quantity appearing in any part's tiers, one row
// per part. It is a pure projection with no side effects.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
)

// Cell is one (part, quantity) intersection. OK distinguishes a real price
// from "no price at that tier"; a zero price and an absent tier must never
// be confused.
type Cell struct {
	Price decimal.Decimal
	OK    bool
}

// Row is one part's prices across the unified quantity columns.
type Row struct {
	PartID   string
	PartName string
	MOQ      int
	Cells    []Cell
}

// Table is the unified pricing matrix. Quantities are the distinct tier
// quantities across all parts, ascending; Rows follow part insertion order.
type Table struct {
	Quantities []int
	Rows       []Row
}

// PriceAt returns the part's price at exactly the given quantity. When a
// part carries duplicate tiers at the same quantity, the first one in tier
// order wins.
func PriceAt(p entities.QuotePart, quantity int) (decimal.Decimal, bool) {
	for _, pq := range p.PriceQuantities {
		if pq.Quantity == quantity {
			return pq.Price, true
		}
	}
	return decimal.Decimal{}, false
}

// BuildTable derives the table for the given parts. Column ordering is
// driven purely by quantity value, so permuting the part list changes row
// order only, never the columns.
func BuildTable(parts []entities.QuotePart) Table {
	seen := make(map[int]struct{})
	quantities := make([]int, 0)
	for _, p := range parts {
		for _, pq := range p.PriceQuantities {
			if _, ok := seen[pq.Quantity]; ok {
				continue
			}
			seen[pq.Quantity] = struct{}{}
			quantities = append(quantities, pq.Quantity)
		}
	}
	sort.Ints(quantities)

	rows := make([]Row, 0, len(parts))
	for _, p := range parts {
		row := Row{
			PartID:   p.ID,
			PartName: p.PartName,
			MOQ:      p.MOQ,
			Cells:    make([]Cell, 0, len(quantities)),
		}
		for _, qty := range quantities {
			price, ok := PriceAt(p, qty)
			row.Cells = append(row.Cells, Cell{Price: price, OK: ok})
		}
		rows = append(rows, row)
	}

	return Table{Quantities: quantities, Rows: rows}
}

// Lookup returns the cell for a part id and quantity.
func (t Table) Lookup(partID string, quantity int) (Cell, bool) {
	col := -1
	for i, qty := range t.Quantities {
		if qty == quantity {
			col = i
			break
		}
	}
	if col < 0 {
		return Cell{}, false
	}
	for _, row := range t.Rows {
		if row.PartID == partID {
			return row.Cells[col], true
		}
	}
	return Cell{}, false
}
