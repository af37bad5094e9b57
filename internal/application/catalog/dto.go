package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
)

// CreateItemRequest represents a request to add an item to the catalog
type CreateItemRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Creator string `json:"creator" binding:"required,min=1,max=200"`
}

// UpdateItemRequest represents a request to edit an item's descriptive fields
type UpdateItemRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Creator string `json:"creator" binding:"required,min=1,max=200"`
}

// ItemListFilter holds the paging window for item listings
type ItemListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Creator   string    `json:"creator"`
	State     string    `json:"state"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityResponse reports whether an item can be lent
type AvailabilityResponse struct {
	ID        uuid.UUID `json:"id"`
	Available bool      `json:"available"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Code:      item.Code,
		Title:     item.Title,
		Creator:   item.Creator,
		State:     string(item.State),
		Available: item.IsAvailable(),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain Items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}
