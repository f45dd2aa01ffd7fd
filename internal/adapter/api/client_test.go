package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase/interfaces"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() (string, error) { return s.token, nil }

func sampleQuoteJSON() string {
	return `{
		"id": "q-1",
		"clientName": "Acme",
		"quoteNumber": "Q-0001",
		"currency": "INR",
		"validUntil": "2026-12-31",
		"status": "DRAFT",
		"parts": [{
			"id": "p-1",
			"partName": "Widget",
			"moq": 10,
			"priceQuantities": [{"quantity": 50, "price": 6.5}, {"quantity": 100, "price": "5"}]
		}],
		"createdAt": "2026-03-15T12:00:00Z",
		"updatedAt": "2026-03-15T12:00:00.123Z"
	}`
}

func TestClient_List(t *testing.T) {
	t.Run("bare array body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/quotations" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("status"); got != "SENT" {
				t.Fatalf("expected status query, got %q", got)
			}
			if got := r.URL.Query().Get("clientName"); got != "acme" {
				t.Fatalf("expected clientName query, got %q", got)
			}
			w.Write([]byte("[" + sampleQuoteJSON() + "]"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		quotes, err := c.List(context.Background(), interfaces.ListFilter{Status: entities.QuoteStatusSent, ClientName: "acme"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 1 || quotes[0].ID != "q-1" {
			t.Fatalf("unexpected quotes: %+v", quotes)
		}
	})

	t.Run("data envelope body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": [` + sampleQuoteJSON() + `]}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		quotes, err := c.List(context.Background(), interfaces.ListFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(quotes) != 1 {
			t.Fatalf("envelope body not normalized: %+v", quotes)
		}
	})
}

func TestClient_GetByID(t *testing.T) {
	t.Run("decodes the quote", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/quotations/q-1" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(sampleQuoteJSON()))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		q, err := c.GetByID(context.Background(), "q-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ClientName != "Acme" || q.Status != entities.QuoteStatusDraft {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if q.ValidUntil.IsZero() {
			t.Fatalf("bare date validUntil not parsed")
		}
		tiers := q.Parts[0].PriceQuantities
		// Prices arrive as JSON numbers or strings; both must decode.
		if !tiers[0].Price.Equal(decimal.RequireFromString("6.5")) || !tiers[1].Price.Equal(decimal.RequireFromString("5")) {
			t.Fatalf("unexpected tier prices: %+v", tiers)
		}
	})

	t.Run("404 maps to the zero quote", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"QUOTE_NOT_FOUND","message":"quote not found"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		q, err := c.GetByID(context.Background(), "q-missing")
		if err != nil {
			t.Fatalf("expected nil error for 404, got %v", err)
		}
		if q.ID != "" {
			t.Fatalf("expected zero quote, got %+v", q)
		}
	})

	t.Run("unexpected status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		if _, err := c.GetByID(context.Background(), "q-1"); err == nil {
			t.Fatalf("expected error for 502")
		}
	})
}

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/quotations" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload quoteFormPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if payload.ClientName != "Acme" || payload.Currency != "INR" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(sampleQuoteJSON()))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	q, err := c.Create(context.Background(), entities.QuoteFormData{
		ClientName: "Acme",
		Currency:   entities.CurrencyINR,
		ValidUntil: time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.QuoteNumber != "Q-0001" {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestClient_UpdateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/quotations/q-1/status" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload statusPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if payload.Status != "SENT" {
			t.Fatalf("unexpected status payload: %+v", payload)
		}
		w.Write([]byte(sampleQuoteJSON()))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	if _, err := c.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Delete(t *testing.T) {
	t.Run("204", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		if err := c.Delete(context.Background(), "q-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("404 is treated as done", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, nil)
		if err := c.Delete(context.Background(), "q-gone"); err != nil {
			t.Fatalf("expected idempotent delete, got %v", err)
		}
	})
}

func TestClient_FetchRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convrate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"rate": 0.012, "lastUpdated": "2026-03-15T12:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)
	rate, err := c.FetchRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Rate.Equal(decimal.RequireFromString("0.012")) || rate.IsFallback {
		t.Fatalf("unexpected rate: %+v", rate)
	}
	if rate.FetchedAt.IsZero() {
		t.Fatalf("lastUpdated not parsed")
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("expected bearer header, got %q", got)
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, staticTokens{token: "test-token"})
	if _, err := c.List(context.Background(), interfaces.ListFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseWireTime(t *testing.T) {
	cases := []struct {
		in   string
		zero bool
	}{
		{"2026-03-15T12:00:00Z", false},
		{"2026-03-15T12:00:00.123456Z", false},
		{"2026-03-15", false},
		{"", true},
		{"not a time", true},
	}
	for _, tc := range cases {
		got := parseWireTime(tc.in)
		if got.IsZero() != tc.zero {
			t.Fatalf("parseWireTime(%q): got %v", tc.in, got)
		}
	}
}
