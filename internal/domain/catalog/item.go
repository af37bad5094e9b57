package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/library/backend/internal/domain/shared"
)

// ItemState is the availability of a catalog item
type ItemState string

const (
	ItemStateAvailable ItemState = "available"
	ItemStateLoaned    ItemState = "loaned"
)

// IsValid reports whether s is a known state
func (s ItemState) IsValid() bool {
	return s == ItemStateAvailable || s == ItemStateLoaned
}

const (
	maxCodeLength    = 50
	maxTitleLength   = 200
	maxCreatorLength = 200
)

// Catalog errors
var (
	ErrDuplicateCode = shared.NewConflictError("DUPLICATE_CODE", "An item with this code already exists")
	ErrItemInUse     = shared.NewConflictError("ITEM_IN_USE", "Item is referenced by loans and cannot be removed")
	ErrInvalidState  = shared.NewConflictError("INVALID_ITEM_STATE", "Item is not in the expected state")
)

// Item is a single lendable catalog entry. There is exactly one physical
// copy per item; State tracks whether it is on loan.
type Item struct {
	shared.BaseEntity
	Code    string
	Title   string
	Creator string
	State   ItemState
}

// NewItem creates an available item
func NewItem(code, title, creator string) (*Item, error) {
	code, title, creator, err := normalizeItemFields(code, title, creator)
	if err != nil {
		return nil, err
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Title:      title,
		Creator:    creator,
		State:      ItemStateAvailable,
	}, nil
}

// Update replaces the descriptive fields. State is left untouched.
func (i *Item) Update(code, title, creator string) error {
	code, title, creator, err := normalizeItemFields(code, title, creator)
	if err != nil {
		return err
	}
	i.Code = code
	i.Title = title
	i.Creator = creator
	i.Touch()
	return nil
}

// IsAvailable reports whether the item can be lent
func (i *Item) IsAvailable() bool {
	return i.State == ItemStateAvailable
}

func normalizeItemFields(code, title, creator string) (string, string, string, error) {
	code = strings.TrimSpace(code)
	title = strings.TrimSpace(title)
	creator = strings.TrimSpace(creator)

	switch {
	case code == "":
		return "", "", "", shared.NewValidationError("item code is required")
	case utf8.RuneCountInString(code) > maxCodeLength:
		return "", "", "", shared.NewValidationError("item code cannot exceed 50 characters")
	case title == "":
		return "", "", "", shared.NewValidationError("item title is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return "", "", "", shared.NewValidationError("item title cannot exceed 200 characters")
	case creator == "":
		return "", "", "", shared.NewValidationError("item creator is required")
	case utf8.RuneCountInString(creator) > maxCreatorLength:
		return "", "", "", shared.NewValidationError("item creator cannot exceed 200 characters")
	}
	return code, title, creator, nil
}
