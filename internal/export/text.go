// Package export renders a quote as a plain-text document: header fields,
// then the unified pricing table. It is a pure projection of an already
// loaded quote; absent tiers are rendered as an explicit dash, never as a
// zero price.
package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/domain/pricing"
	"quotebuilder/internal/usecase"
)

const absentCell = "—"

func currencySymbol(c entities.Currency) string {
	if c == entities.CurrencyINR {
		return "₹"
	}
	return "$"
}

// Write renders the quote using the display projection's parts and
// currency. When the projection was produced with the fallback rate, a
// warning line makes that visible in the document itself.
func Write(w io.Writer, q entities.Quote, proj usecase.PartsProjection) error {
	now := time.Now().UTC()
	symbol := currencySymbol(proj.Currency)

	fmt.Fprintf(w, "QUOTATION %s\n", q.QuoteNumber)
	fmt.Fprintf(w, "Client:      %s\n", q.ClientName)
	fmt.Fprintf(w, "Status:      %s\n", q.DisplayStatus(now))
	fmt.Fprintf(w, "Currency:    %s\n", proj.Currency)
	fmt.Fprintf(w, "Valid until: %s\n", q.ValidUntil.Format("2006-01-02"))
	if proj.Converted {
		fmt.Fprintf(w, "Rate:        %s (as of %s)\n", proj.Rate.Rate, proj.Rate.FetchedAt.Format("2006-01-02 15:04"))
		if proj.Rate.IsFallback {
			fmt.Fprintln(w, "WARNING: live exchange rate unavailable, prices use an approximate fallback rate")
		}
	}
	fmt.Fprintln(w)

	if len(proj.Parts) == 0 {
		fmt.Fprintln(w, "No parts added yet.")
		return nil
	}

	table := pricing.BuildTable(proj.Parts)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	headers := []string{"PART", "MOQ"}
	for _, qty := range table.Quantities {
		headers = append(headers, fmt.Sprintf("%d units", qty))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range table.Rows {
		cols := []string{row.PartName, fmt.Sprintf("%d", row.MOQ)}
		for _, cell := range row.Cells {
			if cell.OK {
				cols = append(cols, symbol+cell.Price.StringFixed(2))
			} else {
				cols = append(cols, absentCell)
			}
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}

	return tw.Flush()
}
