package membership

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/library/backend/internal/domain/shared"
)

// NumberPrefix prefixes every membership number token
const NumberPrefix = "MBR"

const (
	maxNameLength       = 200
	maxPersonalIDLength = 30
)

// Registry errors
var (
	ErrDuplicateIdentifier = shared.NewConflictError("DUPLICATE_IDENTIFIER", "A member with this personal identifier already exists")
	ErrMemberInUse         = shared.NewConflictError("MEMBER_IN_USE", "Member is referenced by loans and cannot be removed")
	// ErrNumberTaken is returned by the repository when a concurrent
	// registration claimed the same sequence first.
	ErrNumberTaken = shared.NewConflictError("MEMBERSHIP_NUMBER_TAKEN", "Membership number was assigned concurrently")
)

// FormatNumber renders a sequence as the fixed-width membership token
func FormatNumber(sequence int64) string {
	return fmt.Sprintf("%s-%06d", NumberPrefix, sequence)
}

// Member is a registered borrower. Sequence is assigned once, in
// registration order, and never changes.
type Member struct {
	shared.BaseEntity
	Sequence   int64
	Number     string
	Name       string
	PersonalID string
}

// NewMember creates a member holding the given sequence
func NewMember(name, personalID string, sequence int64) (*Member, error) {
	if sequence <= 0 {
		return nil, shared.NewValidationError("membership sequence must be positive")
	}
	name, personalID, err := normalizeMemberFields(name, personalID)
	if err != nil {
		return nil, err
	}
	return &Member{
		BaseEntity: shared.NewBaseEntity(),
		Sequence:   sequence,
		Number:     FormatNumber(sequence),
		Name:       name,
		PersonalID: personalID,
	}, nil
}

// Update changes name and personal identifier
func (m *Member) Update(name, personalID string) error {
	name, personalID, err := normalizeMemberFields(name, personalID)
	if err != nil {
		return err
	}
	m.Name = name
	m.PersonalID = personalID
	m.Touch()
	return nil
}

func normalizeMemberFields(name, personalID string) (string, string, error) {
	name = strings.TrimSpace(name)
	personalID = strings.TrimSpace(personalID)

	if name == "" {
		return "", "", shared.NewValidationError("member name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", "", shared.NewValidationError("member name cannot exceed 200 characters")
	}
	if personalID == "" {
		return "", "", shared.NewValidationError("personal identifier is required")
	}
	if utf8.RuneCountInString(personalID) > maxPersonalIDLength {
		return "", "", shared.NewValidationError("personal identifier cannot exceed 30 characters")
	}
	return name, personalID, nil
}
