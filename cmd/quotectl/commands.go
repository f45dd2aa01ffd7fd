package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/domain/validation"
	"quotebuilder/internal/export"
	"quotebuilder/internal/usecase"
	"quotebuilder/internal/usecase/interfaces"
)

type app struct {
	quotes     usecase.IQuoteUseCase
	conversion usecase.IConversionUseCase
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	status := fs.String("status", "", "filter by status (DRAFT, SENT, APPROVED, REJECTED, EXPIRED)")
	client := fs.String("client", "", "filter by client name substring")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	fs.Parse(args)

	quotes, err := a.quotes.List(ctx, interfaces.ListFilter{
		Status:     entities.QuoteStatus(strings.ToUpper(*status)),
		ClientName: *client,
		Page:       *page,
		Limit:      *limit,
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tCLIENT\tSTATUS\tVALID UNTIL\tPARTS\tID")
	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			q.QuoteNumber, q.ClientName, q.DisplayStatus(now),
			q.ValidUntil.Format("2006-01-02"), len(q.Parts), q.ID)
	}
	return tw.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := newFlagSet("show")
	id := fs.String("id", "", "quote id")
	currency := fs.String("currency", "", "display currency (defaults to the quote's)")
	fs.Parse(args)

	return a.render(ctx, *id, *currency, os.Stdout)
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	id := fs.String("id", "", "quote id")
	currency := fs.String("currency", "", "display currency (defaults to the quote's)")
	out := fs.String("o", "", "output file (stdout when empty)")
	fs.Parse(args)

	if *out == "" {
		return a.render(ctx, *id, *currency, os.Stdout)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.render(ctx, *id, *currency, f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func (a *app) render(ctx context.Context, id, currency string, w *os.File) error {
	q, err := a.quotes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	proj, err := a.conversion.DisplayParts(ctx, q, entities.Currency(strings.ToUpper(currency)))
	if err != nil {
		return err
	}
	return export.Write(w, q, proj)
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := newFlagSet("create")
	client := fs.String("client", "", "client name")
	currency := fs.String("currency", string(entities.BaseCurrency), "quote currency (INR or USD)")
	valid := fs.String("valid", "", "valid-until date (YYYY-MM-DD)")
	fs.Parse(args)

	validUntil, err := time.Parse("2006-01-02", *valid)
	if err != nil {
		return fmt.Errorf("parse -valid: %w", err)
	}

	q, err := a.quotes.CreateQuote(ctx, entities.QuoteFormData{
		ClientName: *client,
		Currency:   entities.Currency(strings.ToUpper(*currency)),
		ValidUntil: validUntil,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", q.QuoteNumber, q.ID)
	return nil
}

func (a *app) addPart(ctx context.Context, args []string) error {
	fs := newFlagSet("add-part")
	id := fs.String("id", "", "quote id")
	name := fs.String("name", "", "part name")
	moq := fs.String("moq", "", "minimum order quantity")
	tiers := fs.String("tiers", "", "price tiers as qty:price[,qty:price...]")
	fs.Parse(args)

	input := validation.PartInput{PartName: *name, MOQ: *moq}
	for _, pair := range strings.Split(*tiers, ",") {
		if pair = strings.TrimSpace(pair); pair == "" {
			continue
		}
		qty, price, _ := strings.Cut(pair, ":")
		input.Tiers = append(input.Tiers, validation.TierInput{Quantity: qty, Price: price})
	}

	q, err := a.quotes.AddPart(ctx, *id, input)
	if err != nil {
		if verrs, ok := err.(validation.FieldErrors); ok {
			for _, fe := range verrs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}
	fmt.Printf("%s now has %d part(s)\n", q.QuoteNumber, len(q.Parts))
	return nil
}

func (a *app) removePart(ctx context.Context, args []string) error {
	fs := newFlagSet("remove-part")
	id := fs.String("id", "", "quote id")
	part := fs.String("part", "", "part id")
	fs.Parse(args)

	q, err := a.quotes.RemovePart(ctx, *id, *part)
	if err != nil {
		return err
	}
	fmt.Printf("%s now has %d part(s)\n", q.QuoteNumber, len(q.Parts))
	return nil
}

func (a *app) changeStatus(ctx context.Context, cmd string, args []string) error {
	fs := newFlagSet(cmd)
	id := fs.String("id", "", "quote id")
	fs.Parse(args)

	var (
		q   entities.Quote
		err error
	)
	switch cmd {
	case "send":
		q, err = a.quotes.SendQuote(ctx, *id)
	case "approve":
		q, err = a.quotes.ApproveQuote(ctx, *id)
	case "reject":
		q, err = a.quotes.RejectQuote(ctx, *id)
	case "reopen":
		q, err = a.quotes.ReopenQuote(ctx, *id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", q.QuoteNumber, q.Status)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	id := fs.String("id", "", "quote id")
	fs.Parse(args)

	if err := a.quotes.DeleteQuote(ctx, *id); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}
