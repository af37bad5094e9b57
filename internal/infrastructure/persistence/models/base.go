package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/shared"
)

// BaseModel holds the columns every table shares.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseOf(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

func (m BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// All lists the models in foreign key order for AutoMigrate.
func All() []any {
	return []any{&ItemModel{}, &MemberModel{}, &SequenceModel{}, &LoanModel{}, &FineModel{}}
}
