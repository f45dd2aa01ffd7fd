package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"quotebuilder/internal/adapter/http/dto/request"
	"quotebuilder/internal/adapter/http/dto/response"
	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase/interfaces"
	"quotebuilder/pkg"
)

var (
	errInvalidQuotePayload = pkg.NewDomainErrorSimple("INVALID_QUOTE_INPUT", "Invalid quotation payload", http.StatusBadRequest)
	errQuoteNotFound       = pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quotation not found", http.StatusNotFound)
)

// QuoteHandler serves the quotation API surface of the local backend
// stand-in. It speaks directly to the repository port: business rules
// (transition table, editability gate) are the calling side's job, exactly
// as the real backend assumes.

type QuoteHandler struct {
	repo interfaces.IQuoteRepository
}

func NewQuoteHandler(repo interfaces.IQuoteRepository) *QuoteHandler {
	return &QuoteHandler{repo: repo}
}

func (h *QuoteHandler) ListQuotations(c *gin.Context) {
	filter := interfaces.ListFilter{
		Status:     entities.QuoteStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		ClientName: strings.TrimSpace(c.Query("clientName")),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		appErr := pkg.NewDomainErrorSimple("INVALID_STATUS", "Unknown status filter", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	quotes, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		appErr := internalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuotes(quotes))
}

func (h *QuoteHandler) GetQuotation(c *gin.Context) {
	q, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := internalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if q.ID == "" {
		c.JSON(errQuoteNotFound.HTTPStatus, errQuoteNotFound.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

func (h *QuoteHandler) CreateQuotation(c *gin.Context) {
	var payload request.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}
	form, err := payload.ToFormData()
	if err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}

	q, err := h.repo.Create(c.Request.Context(), form)
	if err != nil {
		appErr := internalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(q))
}

func (h *QuoteHandler) UpdateQuotation(c *gin.Context) {
	var payload request.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}
	form, err := payload.ToFormData()
	if err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}

	q, err := h.repo.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		appErr := internalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if q.ID == "" {
		c.JSON(errQuoteNotFound.HTTPStatus, errQuoteNotFound.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

func (h *QuoteHandler) UpdateQuotationStatus(c *gin.Context) {
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}
	status, err := payload.ResolveStatus()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_STATUS", "Unknown or non-storable status", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	q, err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		appErr := internalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	if q.ID == "" {
		c.JSON(errQuoteNotFound.HTTPStatus, errQuoteNotFound.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

func (h *QuoteHandler) DeleteQuotation(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		appErr := internalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.Status(http.StatusNoContent)
}

func internalError(err error) *pkg.AppError {
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

func intQuery(c *gin.Context, key string) int {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ConvRateHandler serves the conversion-rate endpoint. The rate is fixed by
// configuration; Unavailable simulates a dead rate provider so callers can
// exercise their fallback path.

type ConvRateHandler struct {
	Rate        decimal.Decimal
	Unavailable bool
	now         func() time.Time
}

func NewConvRateHandler(rate decimal.Decimal, unavailable bool) *ConvRateHandler {
	return &ConvRateHandler{Rate: rate, Unavailable: unavailable, now: func() time.Time { return time.Now().UTC() }}
}

func (h *ConvRateHandler) GetConvRate(c *gin.Context) {
	if h.Unavailable {
		appErr := pkg.NewDomainErrorSimple("RATE_UNAVAILABLE", "Conversion rate source unavailable", http.StatusServiceUnavailable)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.ConvRateResponse{
		Rate:        h.Rate,
		LastUpdated: h.now().Format(time.RFC3339),
		IsFallback:  false,
	})
}
