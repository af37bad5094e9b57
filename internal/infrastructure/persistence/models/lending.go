package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LoanModel is the persistence model for the Loan domain entity.
// ux_loans_open_item allows at most one open loan per item.
type LoanModel struct {
	BaseModel
	ItemID     uuid.UUID    `gorm:"type:uuid;not null;index:ux_loans_open_item,unique,where:returned_on IS NULL"`
	Item       *ItemModel   `gorm:"foreignKey:ItemID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	MemberID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_loans_member_id"`
	Member     *MemberModel `gorm:"foreignKey:MemberID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	StartDate  time.Time    `gorm:"type:date;not null"`
	DueDate    time.Time    `gorm:"type:date;not null;index:idx_loans_due_date"`
	ReturnedOn *time.Time   `gorm:"type:date"`
	Damaged    bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// ToDomain converts the persistence model to a domain Loan entity.
func (m *LoanModel) ToDomain() *lending.Loan {
	loan := &lending.Loan{
		BaseEntity: m.BaseModel.entity(),
		ItemID:     m.ItemID,
		MemberID:   m.MemberID,
		StartDate:  shared.DateOf(m.StartDate),
		DueDate:    shared.DateOf(m.DueDate),
		Damaged:    m.Damaged,
	}
	if m.ReturnedOn != nil {
		returned := shared.DateOf(*m.ReturnedOn)
		loan.ReturnedOn = &returned
	}
	return loan
}

// FromDomain populates the persistence model from a domain Loan entity.
func (m *LoanModel) FromDomain(l *lending.Loan) {
	m.BaseModel = baseOf(l.BaseEntity)
	m.ItemID = l.ItemID
	m.MemberID = l.MemberID
	m.StartDate = l.StartDate
	m.DueDate = l.DueDate
	m.ReturnedOn = l.ReturnedOn
	m.Damaged = l.Damaged
}

// LoanModelFromDomain creates a new persistence model from a domain Loan entity.
func LoanModelFromDomain(l *lending.Loan) *LoanModel {
	m := &LoanModel{}
	m.FromDomain(l)
	return m
}

// LoanDetailsRow is the flat result of loans joined with items and members
type LoanDetailsRow struct {
	ID               uuid.UUID
	ItemID           uuid.UUID
	MemberID         uuid.UUID
	StartDate        time.Time
	DueDate          time.Time
	ReturnedOn       *time.Time
	Damaged          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ItemCode         string
	ItemTitle        string
	ItemCreator      string
	MemberName       string
	MembershipNumber string
}

// ToDomain converts the row to the domain read model
func (r *LoanDetailsRow) ToDomain() *lending.LoanDetails {
	loan := LoanModel{
		BaseModel:  BaseModel{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		ItemID:     r.ItemID,
		MemberID:   r.MemberID,
		StartDate:  r.StartDate,
		DueDate:    r.DueDate,
		ReturnedOn: r.ReturnedOn,
		Damaged:    r.Damaged,
	}
	return &lending.LoanDetails{
		Loan:             *loan.ToDomain(),
		ItemCode:         r.ItemCode,
		ItemTitle:        r.ItemTitle,
		ItemCreator:      r.ItemCreator,
		MemberName:       r.MemberName,
		MembershipNumber: r.MembershipNumber,
	}
}

// FineModel is the persistence model for the Fine domain entity.
type FineModel struct {
	BaseModel
	LoanID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_fines_loan_id"`
	Loan     *LoanModel      `gorm:"foreignKey:LoanID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Reason   string          `gorm:"type:varchar(255);not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency string          `gorm:"type:varchar(3);not null"`
	IssuedOn time.Time       `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (FineModel) TableName() string {
	return "fines"
}

// ToDomain converts the persistence model to a domain Fine entity.
func (m *FineModel) ToDomain() (*lending.Fine, error) {
	amount, err := valueobject.NewMoney(m.Amount, valueobject.Currency(m.Currency))
	if err != nil {
		return nil, err
	}
	return &lending.Fine{
		BaseEntity: m.BaseModel.entity(),
		LoanID:     m.LoanID,
		Reason:     m.Reason,
		Amount:     amount,
		IssuedOn:   shared.DateOf(m.IssuedOn),
	}, nil
}

// FromDomain populates the persistence model from a domain Fine entity.
func (m *FineModel) FromDomain(f *lending.Fine) {
	m.BaseModel = baseOf(f.BaseEntity)
	m.LoanID = f.LoanID
	m.Reason = f.Reason
	m.Amount = f.Amount.Amount()
	m.Currency = string(f.Amount.Currency())
	m.IssuedOn = f.IssuedOn
}

// FineModelFromDomain creates a new persistence model from a domain Fine entity.
func FineModelFromDomain(f *lending.Fine) *FineModel {
	m := &FineModel{}
	m.FromDomain(f)
	return m
}

// FineDetailsRow is the flat result of fines joined with loans, items and
// members
type FineDetailsRow struct {
	ID               uuid.UUID
	LoanID           uuid.UUID
	Reason           string
	Amount           decimal.Decimal
	Currency         string
	IssuedOn         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
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

// ToDomain converts the row to the domain read model
func (r *FineDetailsRow) ToDomain() (*lending.FineDetails, error) {
	fine := FineModel{
		BaseModel: BaseModel{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		LoanID:    r.LoanID,
		Reason:    r.Reason,
		Amount:    r.Amount,
		Currency:  r.Currency,
		IssuedOn:  r.IssuedOn,
	}
	domain, err := fine.ToDomain()
	if err != nil {
		return nil, err
	}
	details := &lending.FineDetails{
		Fine:             *domain,
		ItemID:           r.ItemID,
		ItemCode:         r.ItemCode,
		ItemTitle:        r.ItemTitle,
		MemberID:         r.MemberID,
		MemberName:       r.MemberName,
		MembershipNumber: r.MembershipNumber,
		LoanStartDate:    shared.DateOf(r.LoanStartDate),
		LoanDueDate:      shared.DateOf(r.LoanDueDate),
	}
	if r.LoanReturnedOn != nil {
		returned := shared.DateOf(*r.LoanReturnedOn)
		details.LoanReturnedOn = &returned
	}
	return details, nil
}
