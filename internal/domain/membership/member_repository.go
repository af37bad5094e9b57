package membership

import (
	"context"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/shared"
)

// MemberRepository defines the interface for member persistence
type MemberRepository interface {
	// FindByID finds a member by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindAll lists members in registration order
	FindAll(ctx context.Context, filter shared.Filter) ([]Member, error)

	// ExistsByPersonalID checks whether any member holds the identifier
	ExistsByPersonalID(ctx context.Context, personalID string) (bool, error)

	// ExistsByPersonalIDExcludingID checks whether a member other than id holds the identifier
	ExistsByPersonalIDExcludingID(ctx context.Context, personalID string, id uuid.UUID) (bool, error)

	// NextSequence reserves the next membership sequence. A reserved value
	// is never handed out again, even after the member holding it is removed.
	NextSequence(ctx context.Context) (int64, error)

	// Create inserts a member. A clash on the sequence returns ErrNumberTaken,
	// a clash on the personal identifier returns ErrDuplicateIdentifier.
	Create(ctx context.Context, member *Member) error

	// Update writes name and personal identifier only
	Update(ctx context.Context, member *Member) error

	// Delete removes a member
	Delete(ctx context.Context, id uuid.UUID) error
}
