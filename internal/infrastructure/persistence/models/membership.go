package models

import (
	"github.com/library/backend/internal/domain/membership"
)

// MemberModel is the persistence model for the Member domain entity.
// The unique index on sequence serialises concurrent registrations.
type MemberModel struct {
	BaseModel
	Sequence   int64  `gorm:"not null;uniqueIndex:ux_members_sequence"`
	Number     string `gorm:"type:varchar(20);not null;uniqueIndex:ux_members_number"`
	Name       string `gorm:"type:varchar(200);not null"`
	PersonalID string `gorm:"type:varchar(30);not null;uniqueIndex:ux_members_personal_id"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member entity.
func (m *MemberModel) ToDomain() *membership.Member {
	return &membership.Member{
		BaseEntity: m.BaseModel.entity(),
		Sequence:   m.Sequence,
		Number:     m.Number,
		Name:       m.Name,
		PersonalID: m.PersonalID,
	}
}

// FromDomain populates the persistence model from a domain Member entity.
func (m *MemberModel) FromDomain(mem *membership.Member) {
	m.BaseModel = baseOf(mem.BaseEntity)
	m.Sequence = mem.Sequence
	m.Number = mem.Number
	m.Name = mem.Name
	m.PersonalID = mem.PersonalID
}

// MemberModelFromDomain creates a new persistence model from a domain Member entity.
func MemberModelFromDomain(mem *membership.Member) *MemberModel {
	m := &MemberModel{}
	m.FromDomain(mem)
	return m
}

// SequenceModel is a named monotonic counter
type SequenceModel struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}
