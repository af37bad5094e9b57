package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ItemService handles catalog maintenance. It never changes an item's state;
// that is owned by the lending engine.
type ItemService struct {
	itemRepo catalog.ItemRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Create adds an available item
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := catalog.NewItem(req.Code, req.Title, req.Creator)
	if err != nil {
		return nil, err
	}

	exists, err := s.itemRepo.ExistsByCode(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrDuplicateCode
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Item created", zap.String("item_id", item.ID.String()), zap.String("code", item.Code))
	response := ToItemResponse(item)
	return &response, nil
}

// GetByID returns an item
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List returns items ordered by code
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindAll(ctx, pageFilter(filter.Page, filter.PageSize))
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Update edits code, title and creator
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Code, req.Title, req.Creator); err != nil {
		return nil, err
	}

	exists, err := s.itemRepo.ExistsByCodeExcludingID(ctx, item.Code, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrDuplicateCode
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes an item that no loan references
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Item deleted", zap.String("item_id", id.String()))
	return nil
}

// IsAvailable reports whether the item can be lent right now
func (s *ItemService) IsAvailable(ctx context.Context, id uuid.UUID) (*AvailabilityResponse, error) {
	available, err := s.itemRepo.IsAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{ID: id, Available: available}, nil
}

func pageFilter(page, pageSize int) shared.Filter {
	if pageSize <= 0 {
		return shared.Filter{}
	}
	if page < 1 {
		page = 1
	}
	return shared.Filter{Offset: (page - 1) * pageSize, Limit: pageSize}.Normalize()
}
