package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("member")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists members in registration order
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Member, error) {
	var rows []models.MemberModel
	query := applyPaging(r.db.WithContext(ctx).Model(&models.MemberModel{}).Order("sequence ASC"), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]membership.Member, len(rows))
	for i := range rows {
		members[i] = *rows[i].ToDomain()
	}
	return members, nil
}

// ExistsByPersonalID checks whether any member holds the identifier
func (r *GormMemberRepository) ExistsByPersonalID(ctx context.Context, personalID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("personal_id = ?", personalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByPersonalIDExcludingID checks whether a member other than id holds the identifier
func (r *GormMemberRepository) ExistsByPersonalIDExcludingID(ctx context.Context, personalID string, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("personal_id = ? AND id <> ?", personalID, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

const memberSequenceName = "members"

// NextSequence reserves the next membership sequence from the counter row.
// The row is seeded from the members table on first use; the increment
// takes a row lock, so concurrent callers always receive distinct values.
func (r *GormMemberRepository) NextSequence(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"INSERT INTO sequences (name, value) SELECT ?, COALESCE(MAX(sequence), 0) FROM members WHERE 1 = 1 ON CONFLICT (name) DO NOTHING",
			memberSequenceName,
		).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SequenceModel{}).
			Where("name = ?", memberSequenceName).
			Update("value", gorm.Expr("value + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.SequenceModel{}).
			Select("value").
			Where("name = ?", memberSequenceName).
			Scan(&next).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Create inserts a member. Both the sequence and the personal identifier are
// unique, so a duplicate-key error is told apart by looking the identifier up.
func (r *GormMemberRepository) Create(ctx context.Context, member *membership.Member) error {
	model := models.MemberModelFromDomain(member)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error
	if err == nil {
		return nil
	}
	if !isDuplicateKey(err) {
		return err
	}
	taken, lookupErr := r.ExistsByPersonalID(ctx, member.PersonalID)
	if lookupErr != nil {
		return lookupErr
	}
	if taken {
		return membership.ErrDuplicateIdentifier
	}
	return membership.ErrNumberTaken
}

// Update writes name and personal identifier only
func (r *GormMemberRepository) Update(ctx context.Context, member *membership.Member) error {
	result := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"name":        member.Name,
			"personal_id": member.PersonalID,
			"updated_at":  member.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return membership.ErrDuplicateIdentifier
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("member")
	}
	return nil
}

// Delete removes a member; loans still referencing it block the delete
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MemberModel{}, "id = ?", id)
	if result.Error != nil {
		return constraintErrors{foreignKey: membership.ErrMemberInUse}.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("member")
	}
	return nil
}

var _ membership.MemberRepository = (*GormMemberRepository)(nil)
