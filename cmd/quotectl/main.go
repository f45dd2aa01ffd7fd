// Command quotectl drives the quote builder against the quotation API:
// create and edit quotes, walk their status lifecycle, and export the
// pricing table as a text document.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"quotebuilder/internal/adapter/api"
	"quotebuilder/internal/config"
	"quotebuilder/internal/infrastructure/auth"
	"quotebuilder/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	var tokens api.TokenSource
	if cfg.JWTSecret != "" {
		minter, err := auth.NewHS256Minter(cfg.JWTSecret)
		if err != nil {
			fatalf("configure token minting: %v", err)
		}
		tokens = minter
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, tokens)
	app := &app{
		quotes:     usecase.NewQuoteUseCase(client),
		conversion: usecase.NewConversionUseCase(client, cfg.FallbackRate),
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "list":
		err = app.list(ctx, args)
	case "show":
		err = app.show(ctx, args)
	case "create":
		err = app.create(ctx, args)
	case "add-part":
		err = app.addPart(ctx, args)
	case "remove-part":
		err = app.removePart(ctx, args)
	case "send", "approve", "reject", "reopen":
		err = app.changeStatus(ctx, cmd, args)
	case "delete":
		err = app.delete(ctx, args)
	case "export":
		err = app.export(ctx, args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: quotectl <command> [flags]

Commands:
  list        List quotations (-status, -client, -page, -limit)
  show        Show one quotation with its pricing table (-id, -currency)
  create      Create a draft quotation (-client, -currency, -valid)
  add-part    Add a part to a draft (-id, -name, -moq, -tiers qty:price[,qty:price...])
  remove-part Remove a part from a draft (-id, -part)
  send        DRAFT -> SENT (-id)
  approve     SENT -> APPROVED (-id)
  reject      SENT -> REJECTED (-id)
  reopen      REJECTED -> DRAFT (-id)
  delete      Delete a quotation (-id)
  export      Write the quote document to a file (-id, -currency, -o)

Environment: QUOTE_API_BASE_URL, QUOTE_API_JWT_SECRET, QUOTE_API_TIMEOUT,
CONV_FALLBACK_RATE (see internal/config).
`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "quotectl: "+format+"\n", args...)
	os.Exit(1)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}
