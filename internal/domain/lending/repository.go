package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoanDetails is a loan joined with the display fields of its item and
// member
type LoanDetails struct {
	Loan
	ItemCode         string
	ItemTitle        string
	ItemCreator      string
	MemberName       string
	MembershipNumber string
}

// FineDetails is a fine joined with its loan and the display fields of the
// loan's item and member
type FineDetails struct {
	Fine
	ItemID           uuid.UUID
	ItemCode         string
	ItemTitle        string
	MemberID         uuid.UUID
	MemberName       string
	MembershipNumber string
	LoanStartDate    time.Time
	LoanDueDate      time.Time
	LoanReturnedOn   *time.Time
}

// LoanRepository defines the interface for loan persistence
type LoanRepository interface {
	// FindByID finds a loan by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)

	// FindDetailsByID finds a loan with its joined display fields
	FindDetailsByID(ctx context.Context, id uuid.UUID) (*LoanDetails, error)

	// FindAllDetails lists every loan, most recent first
	FindAllDetails(ctx context.Context) ([]LoanDetails, error)

	// FindOpenDetails lists open loans by ascending due date
	FindOpenDetails(ctx context.Context) ([]LoanDetails, error)

	// FindOverdueDetails lists open loans due before asOf by ascending due date
	FindOverdueDetails(ctx context.Context, asOf time.Time) ([]LoanDetails, error)

	// Create inserts an open loan. A second open loan for the same item
	// returns ErrItemUnavailable.
	Create(ctx context.Context, loan *Loan) error

	// CloseIfOpen persists the closure only while the stored loan is still
	// open; it reports whether the row changed
	CloseIfOpen(ctx context.Context, loan *Loan) (bool, error)

	// Delete removes a loan. A loan with fines returns ErrLoanHasFines.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteIfOpen removes the loan only while it has no return date; it
	// reports whether the row was removed
	DeleteIfOpen(ctx context.Context, id uuid.UUID) (bool, error)
}

// FineRepository defines the interface for fine persistence
type FineRepository interface {
	// FindDetailsByID finds a fine with its loan, item and member fields
	FindDetailsByID(ctx context.Context, id uuid.UUID) (*FineDetails, error)

	// FindAllDetails lists fines, most recent first
	FindAllDetails(ctx context.Context) ([]FineDetails, error)

	// FindDetailsByLoanID lists the fines of a loan, oldest first
	FindDetailsByLoanID(ctx context.Context, loanID uuid.UUID) ([]FineDetails, error)

	// Create inserts a fine; an unknown loan returns a not-found error
	Create(ctx context.Context, fine *Fine) error

	// Delete removes a fine
	Delete(ctx context.Context, id uuid.UUID) error
}
