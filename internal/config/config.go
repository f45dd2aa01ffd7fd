// Package config provides runtime configuration for the CLI client and the
// local quotation API stand-in.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the knobs both binaries read from the environment.
type Config struct {
	// Client side.
	APIBaseURL  string
	JWTSecret   string
	HTTPTimeout time.Duration
	// FallbackRate is applied when the live conversion rate is unreachable.
	FallbackRate decimal.Decimal

	// Quotation API stand-in.
	HTTPAddr string
	// Backend selects the backing store: "memory" or "dynamodb".
	Backend string
	// ConvRate is the rate the stand-in serves on /convrate.
	ConvRate decimal.Decimal
	// ConvRateUnavailable forces the stand-in to answer /convrate with an
	// error so fallback handling can be exercised end to end.
	ConvRateUnavailable bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(n) * time.Second
}

func boolenv(key string) bool {
	switch getenv(key, "") {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func decenv(key, def string) decimal.Decimal {
	v := getenv(key, def)
	d, err := decimal.NewFromString(v)
	if err != nil || d.Sign() <= 0 {
		return decimal.RequireFromString(def)
	}
	return d
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		APIBaseURL:          getenv("QUOTE_API_BASE_URL", "http://localhost:3000/api"),
		JWTSecret:           os.Getenv("QUOTE_API_JWT_SECRET"),
		HTTPTimeout:         durenvs("QUOTE_API_TIMEOUT", 10),
		FallbackRate:        decenv("CONV_FALLBACK_RATE", "0.012"),
		HTTPAddr:            getenv("HTTP_ADDR", ":3000"),
		Backend:             getenv("QUOTE_BACKEND", "memory"),
		ConvRate:            decenv("CONV_RATE", "0.012"),
		ConvRateUnavailable: boolenv("CONV_RATE_UNAVAILABLE"),
	}
}
