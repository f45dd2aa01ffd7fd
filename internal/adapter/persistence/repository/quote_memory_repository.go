package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase/interfaces"
)

// QuoteMemoryRepository keeps quotes in process memory. It backs the local
// quotation API stand-in and tests, playing the role the browser's local
// storage played in earlier versions of the quote builder.
//
// Everything crossing the boundary is deep-copied so callers can never
// alias stored parts.

type QuoteMemoryRepository struct {
	mu     sync.RWMutex
	quotes map[string]entities.Quote
	seq    int

	// now is swappable for expiry-dependent list tests.
	now func() time.Time
}

var _ interfaces.IQuoteRepository = (*QuoteMemoryRepository)(nil)

func NewQuoteMemoryRepository() *QuoteMemoryRepository {
	return &QuoteMemoryRepository{
		quotes: make(map[string]entities.Quote),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *QuoteMemoryRepository) Create(_ context.Context, form entities.QuoteFormData) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.seq++
	q := entities.Quote{
		ID:          uuid.NewString(),
		ClientName:  form.ClientName,
		QuoteNumber: fmt.Sprintf("Q-%04d", r.seq),
		Currency:    form.Currency,
		ValidUntil:  form.ValidUntil,
		Status:      entities.QuoteStatusDraft,
		Parts:       entities.CloneParts(form.Parts),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.quotes[q.ID] = q
	return q.Clone(), nil
}

func (r *QuoteMemoryRepository) GetByID(_ context.Context, id string) (entities.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	return q.Clone(), nil
}

func (r *QuoteMemoryRepository) List(_ context.Context, filter interfaces.ListFilter) ([]entities.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	out := make([]entities.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		if !matchesStatus(q, filter.Status, now) {
			continue
		}
		if filter.ClientName != "" &&
			!strings.Contains(strings.ToLower(q.ClientName), strings.ToLower(filter.ClientName)) {
			continue
		}
		out = append(out, q.Clone())
	}

	// Newest first; ID breaks creation-time ties for a stable page order.
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})

	return paginate(out, filter.Page, filter.Limit), nil
}

func (r *QuoteMemoryRepository) Update(_ context.Context, id string, form entities.QuoteFormData) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	q.ClientName = form.ClientName
	q.Currency = form.Currency
	q.ValidUntil = form.ValidUntil
	q.Parts = entities.CloneParts(form.Parts)
	q.UpdatedAt = r.now()
	r.quotes[id] = q
	return q.Clone(), nil
}

func (r *QuoteMemoryRepository) UpdateStatus(_ context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	q.Status = status
	q.UpdatedAt = r.now()
	r.quotes[id] = q
	return q.Clone(), nil
}

func (r *QuoteMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.quotes, id)
	return nil
}

// matchesStatus resolves the derived EXPIRED filter against ValidUntil;
// every other status matches the stored value directly.
func matchesStatus(q entities.Quote, status entities.QuoteStatus, now time.Time) bool {
	switch status {
	case "":
		return true
	case entities.QuoteStatusExpired:
		return q.IsExpired(now)
	default:
		return q.Status == status
	}
}

func paginate(quotes []entities.Quote, page, limit int) []entities.Quote {
	if limit <= 0 {
		return quotes
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(quotes) {
		return []entities.Quote{}
	}
	end := start + limit
	if end > len(quotes) {
		end = len(quotes)
	}
	return quotes[start:end]
}
