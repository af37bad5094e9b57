package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindAll lists items ordered by code
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// ExistsByCode checks whether any item holds the code
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ExistsByCodeExcludingID checks whether an item other than id holds the code
	ExistsByCodeExcludingID(ctx context.Context, code string, id uuid.UUID) (bool, error)

	// Create inserts a new item
	Create(ctx context.Context, item *Item) error

	// Update writes the descriptive fields only, never the state
	Update(ctx context.Context, item *Item) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// IsAvailable reports whether the item is available
	IsAvailable(ctx context.Context, id uuid.UUID) (bool, error)

	// SetState unconditionally writes the state
	SetState(ctx context.Context, id uuid.UUID, state ItemState) error

	// SetStateIf writes to only when the current state is from; it reports
	// whether a row was changed
	SetStateIf(ctx context.Context, id uuid.UUID, from, to ItemState) (bool, error)
}
