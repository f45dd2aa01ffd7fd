package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/domain/validation"
	"quotebuilder/internal/usecase/interfaces"
)

var (
	ErrQuoteNotFound       = errors.New("quote not found")
	ErrInvalidQuoteID      = errors.New("invalid quote id")
	ErrInvalidClientName   = errors.New("invalid client name")
	ErrInvalidCurrency     = errors.New("invalid currency")
	ErrInvalidValidUntil   = errors.New("invalid valid-until date")
	ErrQuoteNotEditable    = errors.New("quote is not editable in its current status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvalidStatusFilter = errors.New("unknown status filter")
	ErrDuplicatePartName   = errors.New("part name already used in this quote")
	ErrPartNotFound        = errors.New("part not found")
	ErrOperationInFlight   = errors.New("another operation on this quote is still in flight")
)

// IQuoteUseCase exposes the quote-builder operations.
//
// Business rules enforced here, not assumed of any backing store:
//   - editable fields change only while the quote is DRAFT
//   - status changes follow the transition table and are checked before the
//     repository is called
//   - part identity is assigned at add-time and part names stay unique
//   - at most one mutating call per quote is in flight at a time

type IQuoteUseCase interface {
	List(ctx context.Context, filter interfaces.ListFilter) ([]entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	CreateQuote(ctx context.Context, form entities.QuoteFormData) (entities.Quote, error)
	UpdateDetails(ctx context.Context, id string, form entities.QuoteFormData) (entities.Quote, error)
	AddPart(ctx context.Context, id string, input validation.PartInput) (entities.Quote, error)
	RemovePart(ctx context.Context, id, partID string) (entities.Quote, error)
	ChangeStatus(ctx context.Context, id string, next entities.QuoteStatus) (entities.Quote, error)
	SendQuote(ctx context.Context, id string) (entities.Quote, error)
	ApproveQuote(ctx context.Context, id string) (entities.Quote, error)
	RejectQuote(ctx context.Context, id string) (entities.Quote, error)
	ReopenQuote(ctx context.Context, id string) (entities.Quote, error)
	DeleteQuote(ctx context.Context, id string) error
}

type QuoteUseCase struct {
	repo interfaces.IQuoteRepository

	mu       sync.Mutex
	inflight map[string]bool
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, inflight: make(map[string]bool)}
}

func (u *QuoteUseCase) List(ctx context.Context, filter interfaces.ListFilter) ([]entities.Quote, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatusFilter
	}
	return u.repo.List(ctx, filter)
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, form entities.QuoteFormData) (entities.Quote, error) {
	form, err := normalizeForm(form)
	if err != nil {
		return entities.Quote{}, err
	}
	return u.repo.Create(ctx, form)
}

// UpdateDetails replaces the editable fields of a DRAFT quote. The current
// aggregate is re-read first so the gate checks the persisted status, not
// whatever the caller happens to hold.
func (u *QuoteUseCase) UpdateDetails(ctx context.Context, id string, form entities.QuoteFormData) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	form, err := normalizeForm(form)
	if err != nil {
		return entities.Quote{}, err
	}

	if err := u.begin(id); err != nil {
		return entities.Quote{}, err
	}
	defer u.end(id)

	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if cur.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	if !cur.Editable() {
		return entities.Quote{}, ErrQuoteNotEditable
	}

	updated, err := u.repo.Update(ctx, id, form)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return updated, nil
}

// AddPart validates the candidate part atomically, assigns its identity and
// appends it. Validation failures surface as validation.FieldErrors.
func (u *QuoteUseCase) AddPart(ctx context.Context, id string, input validation.PartInput) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	part, verrs := validation.ValidatePart(input)
	if verrs != nil {
		return entities.Quote{}, verrs
	}

	if err := u.begin(id); err != nil {
		return entities.Quote{}, err
	}
	defer u.end(id)

	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if cur.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	if !cur.Editable() {
		return entities.Quote{}, ErrQuoteNotEditable
	}
	if cur.HasPartNamed(part.PartName) {
		return entities.Quote{}, ErrDuplicatePartName
	}

	part.ID = uuid.NewString()
	form := cur.FormData()
	form.Parts = append(form.Parts, part)

	updated, err := u.repo.Update(ctx, id, form)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return updated, nil
}

func (u *QuoteUseCase) RemovePart(ctx context.Context, id, partID string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	partID = strings.TrimSpace(partID)
	if partID == "" {
		return entities.Quote{}, ErrPartNotFound
	}

	if err := u.begin(id); err != nil {
		return entities.Quote{}, err
	}
	defer u.end(id)

	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if cur.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	if !cur.Editable() {
		return entities.Quote{}, ErrQuoteNotEditable
	}
	if _, ok := cur.Part(partID); !ok {
		return entities.Quote{}, ErrPartNotFound
	}

	form := cur.FormData()
	kept := form.Parts[:0]
	for _, p := range form.Parts {
		if p.ID != partID {
			kept = append(kept, p)
		}
	}
	form.Parts = kept

	updated, err := u.repo.Update(ctx, id, form)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return updated, nil
}

// ChangeStatus validates the transition against the persisted status before
// any repository call is made. On repository failure nothing local has been
// mutated, so the caller's aggregate keeps its prior status.
func (u *QuoteUseCase) ChangeStatus(ctx context.Context, id string, next entities.QuoteStatus) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	if !next.Valid() || next == entities.QuoteStatusExpired {
		return entities.Quote{}, ErrInvalidTransition
	}

	if err := u.begin(id); err != nil {
		return entities.Quote{}, err
	}
	defer u.end(id)

	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if cur.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	if !cur.Status.CanTransitionTo(next) {
		return entities.Quote{}, ErrInvalidTransition
	}

	updated, err := u.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return updated, nil
}

func (u *QuoteUseCase) SendQuote(ctx context.Context, id string) (entities.Quote, error) {
	return u.ChangeStatus(ctx, id, entities.QuoteStatusSent)
}

func (u *QuoteUseCase) ApproveQuote(ctx context.Context, id string) (entities.Quote, error) {
	return u.ChangeStatus(ctx, id, entities.QuoteStatusApproved)
}

func (u *QuoteUseCase) RejectQuote(ctx context.Context, id string) (entities.Quote, error) {
	return u.ChangeStatus(ctx, id, entities.QuoteStatusRejected)
}

// ReopenQuote reverts a rejected quote to DRAFT for rework.
func (u *QuoteUseCase) ReopenQuote(ctx context.Context, id string) (entities.Quote, error) {
	return u.ChangeStatus(ctx, id, entities.QuoteStatusDraft)
}

func (u *QuoteUseCase) DeleteQuote(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidQuoteID
	}

	if err := u.begin(id); err != nil {
		return err
	}
	defer u.end(id)

	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur.ID == "" {
		return ErrQuoteNotFound
	}
	return u.repo.Delete(ctx, id)
}

// begin marks a mutating operation on the quote as in flight, rejecting
// re-entrant calls until end releases it. This is the headless equivalent
// of disabling the triggering control while a submit is pending.
func (u *QuoteUseCase) begin(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inflight[id] {
		return ErrOperationInFlight
	}
	u.inflight[id] = true
	return nil
}

func (u *QuoteUseCase) end(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inflight, id)
}

// normalizeForm trims and validates the caller-editable fields and makes
// sure every supplied part carries an id and a unique name.
func normalizeForm(form entities.QuoteFormData) (entities.QuoteFormData, error) {
	form.ClientName = strings.TrimSpace(form.ClientName)
	if form.ClientName == "" {
		return entities.QuoteFormData{}, ErrInvalidClientName
	}
	if !form.Currency.Valid() {
		return entities.QuoteFormData{}, ErrInvalidCurrency
	}
	if form.ValidUntil.IsZero() {
		return entities.QuoteFormData{}, ErrInvalidValidUntil
	}

	seen := make(map[string]struct{}, len(form.Parts))
	parts := entities.CloneParts(form.Parts)
	for i := range parts {
		name := strings.TrimSpace(parts[i].PartName)
		if name == "" {
			return entities.QuoteFormData{}, validation.FieldErrors{{
				Field: "partName", Code: validation.CodeEmptyName, Message: "Part name is required",
			}}
		}
		if _, dup := seen[name]; dup {
			return entities.QuoteFormData{}, ErrDuplicatePartName
		}
		seen[name] = struct{}{}
		parts[i].PartName = name
		if parts[i].ID == "" {
			parts[i].ID = uuid.NewString()
		}
	}
	form.Parts = parts
	return form, nil
}
