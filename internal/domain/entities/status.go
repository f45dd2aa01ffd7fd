package entities

// QuoteStatus represents the lifecycle of a quotation.
//
// Domain notes:
//   - A quote is created at DRAFT and is editable only while it stays there.
//   - EXPIRED is derived from ValidUntil for display; it is never stored and
//     never a transition target.

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusApproved QuoteStatus = "APPROVED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

// statusTransitions is the complete transition table. Anything not listed
// is rejected; APPROVED is terminal.
var statusTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:    {QuoteStatusSent},
	QuoteStatusSent:     {QuoteStatusApproved, QuoteStatusRejected},
	QuoteStatusRejected: {QuoteStatusDraft},
	QuoteStatusApproved: {},
}

// Valid reports whether s is a known status value, including the derived
// EXPIRED used in display and list filters.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change s -> next is allowed.
// EXPIRED is never a valid target: it is not a stored status.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	if next == QuoteStatusExpired {
		return false
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionsFrom returns the allowed targets from s, for presentation.
func TransitionsFrom(s QuoteStatus) []QuoteStatus {
	allowed := statusTransitions[s]
	out := make([]QuoteStatus, len(allowed))
	copy(out, allowed)
	return out
}
