// Package api implements the quote repository and rate source ports
// against the external quotation REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase/interfaces"
)

// TokenSource supplies the bearer token attached to every request. The
// client does not care how credentials are produced.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the quotation backend. One call, one outcome: nothing is
// retried here, failures propagate to the caller.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
}

var (
	_ interfaces.IQuoteRepository = (*Client)(nil)
	_ interfaces.IRateSource      = (*Client)(nil)
)

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) List(ctx context.Context, filter interfaces.ListFilter) ([]entities.Quote, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.ClientName != "" {
		query.Set("clientName", filter.ClientName)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var payload []quotePayload
	status, err := c.do(ctx, http.MethodGet, "/quotations", query, nil, &payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.statusError("list quotations", status)
	}

	quotes := make([]entities.Quote, 0, len(payload))
	for _, p := range payload {
		quotes = append(quotes, fromQuotePayload(p))
	}
	return quotes, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	var payload quotePayload
	status, err := c.do(ctx, http.MethodGet, "/quotations/"+url.PathEscape(id), nil, nil, &payload)
	if err != nil {
		return entities.Quote{}, err
	}
	switch status {
	case http.StatusOK:
		return fromQuotePayload(payload), nil
	case http.StatusNotFound:
		return entities.Quote{}, nil
	default:
		return entities.Quote{}, c.statusError("get quotation", status)
	}
}

func (c *Client) Create(ctx context.Context, form entities.QuoteFormData) (entities.Quote, error) {
	var payload quotePayload
	status, err := c.do(ctx, http.MethodPost, "/quotations", nil, toFormPayload(form), &payload)
	if err != nil {
		return entities.Quote{}, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return entities.Quote{}, c.statusError("create quotation", status)
	}
	return fromQuotePayload(payload), nil
}

func (c *Client) Update(ctx context.Context, id string, form entities.QuoteFormData) (entities.Quote, error) {
	var payload quotePayload
	status, err := c.do(ctx, http.MethodPut, "/quotations/"+url.PathEscape(id), nil, toFormPayload(form), &payload)
	if err != nil {
		return entities.Quote{}, err
	}
	switch status {
	case http.StatusOK:
		return fromQuotePayload(payload), nil
	case http.StatusNotFound:
		return entities.Quote{}, nil
	default:
		return entities.Quote{}, c.statusError("update quotation", status)
	}
}

func (c *Client) UpdateStatus(ctx context.Context, id string, newStatus entities.QuoteStatus) (entities.Quote, error) {
	var payload quotePayload
	status, err := c.do(ctx, http.MethodPatch, "/quotations/"+url.PathEscape(id)+"/status", nil, statusPayload{Status: string(newStatus)}, &payload)
	if err != nil {
		return entities.Quote{}, err
	}
	switch status {
	case http.StatusOK:
		return fromQuotePayload(payload), nil
	case http.StatusNotFound:
		return entities.Quote{}, nil
	default:
		return entities.Quote{}, c.statusError("update quotation status", status)
	}
}

func (c *Client) Delete(ctx context.Context, id string) error {
	status, err := c.do(ctx, http.MethodDelete, "/quotations/"+url.PathEscape(id), nil, nil, nil)
	if err != nil {
		return err
	}
	// Deleting an already-gone quote is treated as done.
	switch status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return c.statusError("delete quotation", status)
	}
}

func (c *Client) FetchRate(ctx context.Context) (entities.ConversionRate, error) {
	var payload convRatePayload
	status, err := c.do(ctx, http.MethodGet, "/convrate", nil, nil, &payload)
	if err != nil {
		return entities.ConversionRate{}, err
	}
	if status != http.StatusOK {
		return entities.ConversionRate{}, c.statusError("fetch conversion rate", status)
	}
	return entities.ConversionRate{
		Rate:       payload.Rate,
		FetchedAt:  parseWireTime(payload.LastUpdated),
		IsFallback: payload.IsFallback,
	}, nil
}

// do performs one request and decodes a 2xx body into out (when non-nil),
// normalizing the optional data envelope. It returns the HTTP status so
// callers can map the not-found convention themselves.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return 0, fmt.Errorf("mint bearer token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[api][client] %s %s failed err=%v", method, path, err)
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && out != nil {
		if err := decodeEnvelope(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	if resp.StatusCode >= 400 {
		c.rememberErrorBody(method, path, resp.StatusCode, raw)
	}
	return resp.StatusCode, nil
}

// rememberErrorBody logs the backend's error payload so operators see the
// reason, while callers still get the normalized status handling.
func (c *Client) rememberErrorBody(method, path string, status int, raw []byte) {
	var payload apiErrorPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		log.Printf("[api][client] %s %s status=%d code=%s message=%q", method, path, status, payload.Code, payload.Message)
		return
	}
	log.Printf("[api][client] %s %s status=%d", method, path, status)
}

func (c *Client) statusError(op string, status int) error {
	return fmt.Errorf("quotation api: %s: unexpected status %d", op, status)
}
