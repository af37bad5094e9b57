package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const loanDetailsColumns = "loans.id, loans.item_id, loans.member_id, loans.start_date, loans.due_date, " +
	"loans.returned_on, loans.damaged, loans.created_at, loans.updated_at, " +
	"items.code AS item_code, items.title AS item_title, items.creator AS item_creator, " +
	"members.name AS member_name, members.number AS membership_number"

// GormLoanRepository implements LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("loan")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDetailsByID finds a loan with its joined display fields
func (r *GormLoanRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*lending.LoanDetails, error) {
	rows, err := r.scanDetails(r.detailsQuery(ctx).Where("loans.id = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("loan")
	}
	return &rows[0], nil
}

// FindAllDetails lists every loan, most recent first
func (r *GormLoanRepository) FindAllDetails(ctx context.Context) ([]lending.LoanDetails, error) {
	return r.scanDetails(r.detailsQuery(ctx).Order("loans.created_at DESC"))
}

// FindOpenDetails lists open loans by ascending due date
func (r *GormLoanRepository) FindOpenDetails(ctx context.Context) ([]lending.LoanDetails, error) {
	return r.scanDetails(r.detailsQuery(ctx).
		Where("loans.returned_on IS NULL").
		Order("loans.due_date ASC, loans.created_at ASC"))
}

// FindOverdueDetails lists open loans due strictly before asOf
func (r *GormLoanRepository) FindOverdueDetails(ctx context.Context, asOf time.Time) ([]lending.LoanDetails, error) {
	return r.scanDetails(r.detailsQuery(ctx).
		Where("loans.returned_on IS NULL AND loans.due_date < ?", shared.DateOf(asOf)).
		Order("loans.due_date ASC, loans.created_at ASC"))
}

// Create inserts an open loan. The partial unique index on item_id rejects a
// second open loan for the same item.
func (r *GormLoanRepository) Create(ctx context.Context, loan *lending.Loan) error {
	model := models.LoanModelFromDomain(loan)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error
	switch {
	case err == nil:
		return nil
	case isDuplicateKey(err):
		return lending.ErrItemUnavailable
	case isForeignKeyViolation(err):
		return shared.NewNotFoundError("item or member")
	default:
		return err
	}
}

// CloseIfOpen persists the closure only while the stored loan is still open
func (r *GormLoanRepository) CloseIfOpen(ctx context.Context, loan *lending.Loan) (bool, error) {
	if loan.ReturnedOn == nil {
		return false, shared.NewValidationError("loan has no return date")
	}
	result := r.db.WithContext(ctx).Model(&models.LoanModel{}).
		Where("id = ? AND returned_on IS NULL", loan.ID).
		Updates(map[string]any{
			"returned_on": *loan.ReturnedOn,
			"damaged":     loan.Damaged,
			"updated_at":  loan.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

var loanConstraints = constraintErrors{foreignKey: lending.ErrLoanHasFines}

// Delete removes a loan; recorded fines block the delete
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanModel{}, "id = ?", id)
	if result.Error != nil {
		return loanConstraints.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("loan")
	}
	return nil
}

// DeleteIfOpen removes the loan only while it is still open and reports
// whether a row was removed
func (r *GormLoanRepository) DeleteIfOpen(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND returned_on IS NULL", id).
		Delete(&models.LoanModel{})
	if result.Error != nil {
		return false, loanConstraints.translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *GormLoanRepository) detailsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loans").
		Select(loanDetailsColumns).
		Joins("JOIN items ON items.id = loans.item_id").
		Joins("JOIN members ON members.id = loans.member_id")
}

func (r *GormLoanRepository) scanDetails(query *gorm.DB) ([]lending.LoanDetails, error) {
	var rows []models.LoanDetailsRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	details := make([]lending.LoanDetails, len(rows))
	for i := range rows {
		details[i] = *rows[i].ToDomain()
	}
	return details, nil
}

var _ lending.LoanRepository = (*GormLoanRepository)(nil)
