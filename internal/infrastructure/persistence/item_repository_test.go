package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormItemRepository_CreateAndFind(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormItemRepository(db.DB)
	ctx := context.Background()

	item := seedItem(t, repo, "BK-001")

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "BK-001", found.Code)
	assert.Equal(t, catalog.ItemStateAvailable, found.State)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestGormItemRepository_DuplicateCode(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormItemRepository(db.DB)
	seedItem(t, repo, "BK-001")

	dup, err := catalog.NewItem("BK-001", "Other", "Someone")
	require.NoError(t, err)

	err = repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, catalog.ErrDuplicateCode)
}

func TestGormItemRepository_FindAllOrderedByCode(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormItemRepository(db.DB)
	ctx := context.Background()
	for _, code := range []string{"C-3", "A-1", "B-2"} {
		seedItem(t, repo, code)
	}

	items, err := repo.FindAll(ctx, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A-1", "B-2", "C-3"}, []string{items[0].Code, items[1].Code, items[2].Code})

	page, err := repo.FindAll(ctx, shared.Filter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B-2", page[0].Code)
}

func TestGormItemRepository_SetStateIf(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormItemRepository(db.DB)
	ctx := context.Background()
	item := seedItem(t, repo, "BK-001")

	flipped, err := repo.SetStateIf(ctx, item.ID, catalog.ItemStateAvailable, catalog.ItemStateLoaned)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.SetStateIf(ctx, item.ID, catalog.ItemStateAvailable, catalog.ItemStateLoaned)
	require.NoError(t, err)
	assert.False(t, flipped, "second flip must lose")

	available, err := repo.IsAvailable(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, available)

	flipped, err = repo.SetStateIf(ctx, uuid.New(), catalog.ItemStateAvailable, catalog.ItemStateLoaned)
	require.NoError(t, err)
	assert.False(t, flipped)
}

func TestGormItemRepository_UpdateKeepsState(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormItemRepository(db.DB)
	ctx := context.Background()
	item := seedItem(t, repo, "BK-001")
	require.NoError(t, repo.SetState(ctx, item.ID, catalog.ItemStateLoaned))

	require.NoError(t, item.Update("BK-009", "New title", "New author"))
	require.NoError(t, repo.Update(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "BK-009", found.Code)
	assert.Equal(t, "New title", found.Title)
	assert.Equal(t, catalog.ItemStateLoaned, found.State)
}

func TestGormItemRepository_Delete(t *testing.T) {
	db := newTestDatabase(t)
	items := NewGormItemRepository(db.DB)
	members := NewGormMemberRepository(db.DB)
	loans := NewGormLoanRepository(db.DB)
	ctx := context.Background()

	free := seedItem(t, items, "BK-001")
	require.NoError(t, items.Delete(ctx, free.ID))
	assert.True(t, shared.IsNotFound(items.Delete(ctx, free.ID)))

	used := seedItem(t, items, "BK-002")
	member := seedMember(t, members, "Ada", "ID-1")
	seedLoan(t, loans, used, member, day(2024, 5, 1), day(2024, 5, 15))

	err := items.Delete(ctx, used.ID)
	assert.ErrorIs(t, err, catalog.ErrItemInUse)
}
