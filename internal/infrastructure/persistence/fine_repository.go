package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFineRepository implements FineRepository using GORM
type GormFineRepository struct {
	db *gorm.DB
}

// NewGormFineRepository creates a new GormFineRepository
func NewGormFineRepository(db *gorm.DB) *GormFineRepository {
	return &GormFineRepository{db: db}
}

const fineDetailsColumns = "fines.id, fines.loan_id, fines.reason, fines.amount, fines.currency, " +
	"fines.issued_on, fines.created_at, fines.updated_at, " +
	"loans.item_id, loans.member_id, loans.start_date AS loan_start_date, " +
	"loans.due_date AS loan_due_date, loans.returned_on AS loan_returned_on, " +
	"items.code AS item_code, items.title AS item_title, " +
	"members.name AS member_name, members.number AS membership_number"

var fineConstraints = constraintErrors{
	foreignKey: shared.NewNotFoundError("loan"),
}

// FindDetailsByID finds a fine with its joined display fields
func (r *GormFineRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*lending.FineDetails, error) {
	rows, err := r.scanDetails(r.detailsQuery(ctx).Where("fines.id = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("fine")
	}
	return &rows[0], nil
}

// FindAllDetails lists fines, most recent first
func (r *GormFineRepository) FindAllDetails(ctx context.Context) ([]lending.FineDetails, error) {
	return r.scanDetails(r.detailsQuery(ctx).Order("fines.issued_on DESC, fines.created_at DESC"))
}

// FindDetailsByLoanID lists the fines of a loan, oldest first
func (r *GormFineRepository) FindDetailsByLoanID(ctx context.Context, loanID uuid.UUID) ([]lending.FineDetails, error) {
	return r.scanDetails(r.detailsQuery(ctx).
		Where("fines.loan_id = ?", loanID).
		Order("fines.issued_on ASC, fines.created_at ASC"))
}

// Create inserts a fine
func (r *GormFineRepository) Create(ctx context.Context, fine *lending.Fine) error {
	model := models.FineModelFromDomain(fine)
	return fineConstraints.translate(
		r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error,
	)
}

// Delete removes a fine
func (r *GormFineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FineModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("fine")
	}
	return nil
}

func (r *GormFineRepository) detailsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("fines").
		Select(fineDetailsColumns).
		Joins("JOIN loans ON loans.id = fines.loan_id").
		Joins("JOIN items ON items.id = loans.item_id").
		Joins("JOIN members ON members.id = loans.member_id")
}

func (r *GormFineRepository) scanDetails(query *gorm.DB) ([]lending.FineDetails, error) {
	var rows []models.FineDetailsRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	details := make([]lending.FineDetails, 0, len(rows))
	for i := range rows {
		d, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

var _ lending.FineRepository = (*GormFineRepository)(nil)
