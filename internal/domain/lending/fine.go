package lending

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
)

// DefaultDamageReason is recorded on fines issued for damaged returns
const DefaultDamageReason = "item damaged"

// DefaultDamageAmount is the amount charged for a damaged return
const DefaultDamageAmount = "50.00"

// Fine is a monetary penalty attached to a loan
type Fine struct {
	shared.BaseEntity
	LoanID   uuid.UUID
	Reason   string
	Amount   valueobject.Money
	IssuedOn time.Time
}

// NewFine creates a fine for loanID
func NewFine(loanID uuid.UUID, reason string, amount valueobject.Money, issuedOn time.Time) (*Fine, error) {
	reason = strings.TrimSpace(reason)
	if loanID == uuid.Nil {
		return nil, shared.NewValidationError("loan_id is required")
	}
	if reason == "" {
		return nil, shared.NewValidationError("fine reason is required")
	}
	if len(reason) > 255 {
		return nil, shared.NewValidationError("fine reason cannot exceed 255 characters")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("fine amount must be positive")
	}
	if issuedOn.IsZero() {
		return nil, shared.NewValidationError("fine date is required")
	}
	return &Fine{
		BaseEntity: shared.NewBaseEntity(),
		LoanID:     loanID,
		Reason:     reason,
		Amount:     amount,
		IssuedOn:   shared.DateOf(issuedOn),
	}, nil
}

// DamagePolicy holds the fixed fine charged for a damaged return
type DamagePolicy struct {
	Reason string
	Amount valueobject.Money
}

// DefaultDamagePolicy charges 50.00 in the given currency
func DefaultDamagePolicy(currency valueobject.Currency) DamagePolicy {
	return DamagePolicy{
		Reason: DefaultDamageReason,
		Amount: valueobject.MustNewMoneyFromString(DefaultDamageAmount, currency),
	}
}

// FineFor builds the damage fine for a loan returned on the given day
func (p DamagePolicy) FineFor(loan *Loan, returnedOn time.Time) (*Fine, error) {
	return NewFine(loan.ID, p.Reason, p.Amount, returnedOn)
}
