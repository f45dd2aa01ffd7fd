// Command quotation-api runs a local stand-in for the external quotation
// backend, serving the REST surface the quote-builder client expects.
package main

import (
	"quotebuilder/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	routes.Run()
}
