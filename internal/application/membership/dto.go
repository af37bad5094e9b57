package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/membership"
)

// RegisterMemberRequest represents a request to register a borrower
type RegisterMemberRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	PersonalID string `json:"personal_id" binding:"required,min=1,max=30"`
}

// UpdateMemberRequest represents a request to edit a member
type UpdateMemberRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	PersonalID string `json:"personal_id" binding:"required,min=1,max=30"`
}

// MemberListFilter holds the paging window for member listings
type MemberListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID               uuid.UUID `json:"id"`
	MembershipNumber string    `json:"membership_number"`
	Name             string    `json:"name"`
	PersonalID       string    `json:"personal_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToMemberResponse converts a domain Member
func ToMemberResponse(m *membership.Member) MemberResponse {
	return MemberResponse{
		ID:               m.ID,
		MembershipNumber: m.Number,
		Name:             m.Name,
		PersonalID:       m.PersonalID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// ToMemberResponses converts a slice of domain Members
func ToMemberResponses(members []membership.Member) []MemberResponse {
	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = ToMemberResponse(&members[i])
	}
	return responses
}
