package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

var itemConstraints = constraintErrors{
	duplicate:  catalog.ErrDuplicateCode,
	foreignKey: catalog.ErrItemInUse,
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("item")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists items ordered by code
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var rows []models.ItemModel
	query := applyPaging(r.db.WithContext(ctx).Model(&models.ItemModel{}).Order("code ASC"), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// ExistsByCode checks whether any item holds the code
func (r *GormItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByCodeExcludingID checks whether an item other than id holds the code
func (r *GormItemRepository) ExistsByCodeExcludingID(ctx context.Context, code string, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("code = ? AND id <> ?", code, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	return itemConstraints.translate(
		r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error,
	)
}

// Update writes the descriptive fields only, never the state
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"code":       item.Code,
			"title":      item.Title,
			"creator":    item.Creator,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return itemConstraints.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("item")
	}
	return nil
}

// Delete removes an item; loans still referencing it block the delete
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemModel{}, "id = ?", id)
	if result.Error != nil {
		return itemConstraints.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("item")
	}
	return nil
}

// IsAvailable reports whether the item is available
func (r *GormItemRepository) IsAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).Select("state").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, shared.NewNotFoundError("item")
		}
		return false, err
	}
	return model.State == catalog.ItemStateAvailable, nil
}

// SetState unconditionally writes the state
func (r *GormItemRepository) SetState(ctx context.Context, id uuid.UUID, state catalog.ItemState) error {
	if !state.IsValid() {
		return catalog.ErrInvalidState.WithMessage("unknown item state %q", state)
	}
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"state": state, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("item")
	}
	return nil
}

// SetStateIf writes to only when the stored state is from. The check and the
// write are one statement, so two callers can never both move the same item.
func (r *GormItemRepository) SetStateIf(ctx context.Context, id uuid.UUID, from, to catalog.ItemState) (bool, error) {
	if !to.IsValid() {
		return false, catalog.ErrInvalidState.WithMessage("unknown item state %q", to)
	}
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("id = ? AND state = ?", id, from).
		Updates(map[string]any{"state": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// applyPaging applies the optional offset/limit window
func applyPaging(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
