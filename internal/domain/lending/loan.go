package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/shared"
)

// LoanStatus is derived from the return date
type LoanStatus string

const (
	LoanStatusOpen   LoanStatus = "open"
	LoanStatusClosed LoanStatus = "closed"
)

// Lending errors
var (
	ErrItemUnavailable = shared.NewConflictError("ITEM_UNAVAILABLE", "Item is not available for loan")
	ErrAlreadyReturned = shared.NewConflictError("ALREADY_RETURNED", "Loan has already been returned")
	ErrLoanHasFines    = shared.NewConflictError("LOAN_HAS_FINES", "Loan has fines and cannot be deleted")
)

// Loan records one item borrowed by one member. It is open until ReturnedOn
// is set and can never be reopened.
type Loan struct {
	shared.BaseEntity
	ItemID     uuid.UUID
	MemberID   uuid.UUID
	StartDate  time.Time
	DueDate    time.Time
	ReturnedOn *time.Time
	Damaged    bool
}

// NewLoan creates an open loan. Dates are truncated to calendar days.
func NewLoan(itemID, memberID uuid.UUID, startDate, dueDate time.Time) (*Loan, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("item_id is required")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewValidationError("member_id is required")
	}
	if startDate.IsZero() {
		return nil, shared.NewValidationError("start_date is required")
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("due_date is required")
	}

	start := shared.DateOf(startDate)
	due := shared.DateOf(dueDate)
	if due.Before(start) {
		return nil, shared.NewValidationError("due_date cannot be before start_date")
	}

	return &Loan{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		MemberID:   memberID,
		StartDate:  start,
		DueDate:    due,
	}, nil
}

// IsOpen reports whether the item has not come back yet
func (l *Loan) IsOpen() bool {
	return l.ReturnedOn == nil
}

// Status returns open or closed
func (l *Loan) Status() LoanStatus {
	if l.IsOpen() {
		return LoanStatusOpen
	}
	return LoanStatusClosed
}

// IsOverdue reports whether an open loan is past its due date on the given day
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.IsOpen() && l.DueDate.Before(shared.DateOf(asOf))
}

// Close marks the loan returned on the given day. A closed loan is never
// modified again.
func (l *Loan) Close(returnedOn time.Time, damaged bool) error {
	if !l.IsOpen() {
		return ErrAlreadyReturned
	}
	day := shared.DateOf(returnedOn)
	l.ReturnedOn = &day
	l.Damaged = damaged
	l.Touch()
	return nil
}
