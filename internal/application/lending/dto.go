package lending

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// CreateLoanRequest represents a request to lend an item to a member
type CreateLoanRequest struct {
	MemberID  uuid.UUID `json:"member_id"`
	ItemID    uuid.UUID `json:"item_id"`
	StartDate string    `json:"start_date" binding:"required,calendar_date"`
	DueDate   string    `json:"due_date" binding:"required,calendar_date"`
}

// ReturnLoanRequest represents a request to close a loan
type ReturnLoanRequest struct {
	Damaged bool `json:"damaged"`
}

// RecordFineRequest represents a request to record a fine by hand
type RecordFineRequest struct {
	LoanID   uuid.UUID `json:"loan_id"`
	Reason   string    `json:"reason" binding:"required,max=255"`
	Amount   string    `json:"amount" binding:"required,decimal"`
	IssuedOn string    `json:"issued_on" binding:"omitempty,calendar_date"`
}

// OverdueFilter selects the reference day of the overdue view
type OverdueFilter struct {
	AsOf string `form:"as_of" binding:"omitempty,calendar_date"`
}

// LoanResponse represents a loan with its item and member display fields
type LoanResponse struct {
	ID               uuid.UUID `json:"id"`
	ItemID           uuid.UUID `json:"item_id"`
	ItemCode         string    `json:"item_code"`
	ItemTitle        string    `json:"item_title"`
	ItemCreator      string    `json:"item_creator"`
	MemberID         uuid.UUID `json:"member_id"`
	MemberName       string    `json:"member_name"`
	MembershipNumber string    `json:"membership_number"`
	StartDate        string    `json:"start_date"`
	DueDate          string    `json:"due_date"`
	ReturnedOn       *string   `json:"returned_on"`
	Damaged          bool      `json:"damaged"`
	Status           string    `json:"status"`
	Overdue          bool      `json:"overdue"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FineResponse represents a fine with its loan, item and member display
// fields
type FineResponse struct {
	ID               uuid.UUID `json:"id"`
	LoanID           uuid.UUID `json:"loan_id"`
	Reason           string    `json:"reason"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	IssuedOn         string    `json:"issued_on"`
	ItemID           uuid.UUID `json:"item_id"`
	ItemCode         string    `json:"item_code"`
	ItemTitle        string    `json:"item_title"`
	MemberID         uuid.UUID `json:"member_id"`
	MemberName       string    `json:"member_name"`
	MembershipNumber string    `json:"membership_number"`
	LoanStartDate    string    `json:"loan_start_date"`
	LoanDueDate      string    `json:"loan_due_date"`
	LoanReturnedOn   *string   `json:"loan_returned_on"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToLoanResponse converts loan details; Overdue is judged on asOf
func ToLoanResponse(d *lending.LoanDetails, asOf time.Time) LoanResponse {
	resp := LoanResponse{
		ID:               d.ID,
		ItemID:           d.ItemID,
		ItemCode:         d.ItemCode,
		ItemTitle:        d.ItemTitle,
		ItemCreator:      d.ItemCreator,
		MemberID:         d.MemberID,
		MemberName:       d.MemberName,
		MembershipNumber: d.MembershipNumber,
		StartDate:        d.StartDate.Format(DateLayout),
		DueDate:          d.DueDate.Format(DateLayout),
		Damaged:          d.Damaged,
		Status:           string(d.Status()),
		Overdue:          d.IsOverdue(asOf),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.ReturnedOn != nil {
		returned := d.ReturnedOn.Format(DateLayout)
		resp.ReturnedOn = &returned
	}
	return resp
}

// ToLoanResponses converts a slice of loan details
func ToLoanResponses(details []lending.LoanDetails, asOf time.Time) []LoanResponse {
	responses := make([]LoanResponse, len(details))
	for i := range details {
		responses[i] = ToLoanResponse(&details[i], asOf)
	}
	return responses
}

// ToFineResponse converts fine details
func ToFineResponse(d *lending.FineDetails) FineResponse {
	resp := FineResponse{
		ID:               d.ID,
		LoanID:           d.LoanID,
		Reason:           d.Reason,
		Amount:           d.Amount.Amount().StringFixed(2),
		Currency:         string(d.Amount.Currency()),
		IssuedOn:         d.IssuedOn.Format(DateLayout),
		ItemID:           d.ItemID,
		ItemCode:         d.ItemCode,
		ItemTitle:        d.ItemTitle,
		MemberID:         d.MemberID,
		MemberName:       d.MemberName,
		MembershipNumber: d.MembershipNumber,
		LoanStartDate:    d.LoanStartDate.Format(DateLayout),
		LoanDueDate:      d.LoanDueDate.Format(DateLayout),
		CreatedAt:        d.CreatedAt,
	}
	if d.LoanReturnedOn != nil {
		returned := d.LoanReturnedOn.Format(DateLayout)
		resp.LoanReturnedOn = &returned
	}
	return resp
}

// ToFineResponses converts a slice of fine details
func ToFineResponses(details []lending.FineDetails) []FineResponse {
	responses := make([]FineResponse, len(details))
	for i := range details {
		responses[i] = ToFineResponse(&details[i])
	}
	return responses
}

// ParseDate parses a calendar date in DateLayout. An empty value yields the
// zero time so the domain constructors report it as missing.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
