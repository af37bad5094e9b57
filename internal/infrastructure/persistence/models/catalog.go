package models

import (
	"github.com/library/backend/internal/domain/catalog"
)

// ItemModel is the persistence model for the Item domain entity.
type ItemModel struct {
	BaseModel
	Code    string            `gorm:"type:varchar(50);not null;uniqueIndex:ux_items_code"`
	Title   string            `gorm:"type:varchar(200);not null"`
	Creator string            `gorm:"type:varchar(200);not null"`
	State   catalog.ItemState `gorm:"type:varchar(20);not null;default:'available';index"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item entity.
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseEntity: m.BaseModel.entity(),
		Code:       m.Code,
		Title:      m.Title,
		Creator:    m.Creator,
		State:      m.State,
	}
}

// FromDomain populates the persistence model from a domain Item entity.
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.BaseModel = baseOf(i.BaseEntity)
	m.Code = i.Code
	m.Title = i.Title
	m.Creator = i.Creator
	m.State = i.State
}

// ItemModelFromDomain creates a new persistence model from a domain Item entity.
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
