package persistence

import (
	"context"
	"testing"

	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormMemberRepository_NextSequence(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMemberRepository(db.DB)
	ctx := context.Background()

	next, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	// 1 was handed out above and is never reissued.
	first := seedMember(t, repo, "Ada", "ID-1")
	second := seedMember(t, repo, "Grace", "ID-2")
	assert.Equal(t, int64(2), first.Sequence)
	assert.Equal(t, int64(3), second.Sequence)
	assert.Equal(t, membership.FormatNumber(3), second.Number)
	assert.Equal(t, "MBR-000003", second.Number)

	next, err = repo.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)
}

func TestGormMemberRepository_CreateConflicts(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMemberRepository(db.DB)
	ctx := context.Background()
	seedMember(t, repo, "Ada", "ID-1")

	t.Run("sequence already assigned", func(t *testing.T) {
		clash, err := membership.NewMember("Grace", "ID-2", 1)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, clash), membership.ErrNumberTaken)
	})

	t.Run("personal identifier already registered", func(t *testing.T) {
		clash, err := membership.NewMember("Ada Again", "ID-1", 5)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, clash), membership.ErrDuplicateIdentifier)
	})
}

func TestGormMemberRepository_UpdateAndExists(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMemberRepository(db.DB)
	ctx := context.Background()
	ada := seedMember(t, repo, "Ada", "ID-1")
	grace := seedMember(t, repo, "Grace", "ID-2")

	taken, err := repo.ExistsByPersonalIDExcludingID(ctx, "ID-2", ada.ID)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ExistsByPersonalIDExcludingID(ctx, "ID-2", grace.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, ada.Update("Ada Lovelace", "ID-9"))
	require.NoError(t, repo.Update(ctx, ada))

	found, err := repo.FindByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", found.Name)
	assert.Equal(t, "ID-9", found.PersonalID)
	assert.Equal(t, ada.Number, found.Number)

	require.NoError(t, grace.Update("Grace", "ID-9"))
	assert.ErrorIs(t, repo.Update(ctx, grace), membership.ErrDuplicateIdentifier)
}

func TestGormMemberRepository_FindAllInRegistrationOrder(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMemberRepository(db.DB)
	seedMember(t, repo, "Zoe", "ID-1")
	seedMember(t, repo, "Ada", "ID-2")

	members, err := repo.FindAll(context.Background(), shared.Filter{})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Zoe", members[0].Name)
	assert.Equal(t, "Ada", members[1].Name)
}

func TestGormMemberRepository_Delete(t *testing.T) {
	db := newTestDatabase(t)
	items := NewGormItemRepository(db.DB)
	members := NewGormMemberRepository(db.DB)
	loans := NewGormLoanRepository(db.DB)
	ctx := context.Background()

	idle := seedMember(t, members, "Ada", "ID-1")
	require.NoError(t, members.Delete(ctx, idle.ID))
	assert.True(t, shared.IsNotFound(members.Delete(ctx, idle.ID)))

	borrower := seedMember(t, members, "Grace", "ID-2")
	assert.Equal(t, int64(2), borrower.Sequence, "a removed member's number is not reissued")
	seedLoan(t, loans, seedItem(t, items, "BK-1"), borrower, day(2024, 5, 1), day(2024, 5, 2))
	assert.ErrorIs(t, members.Delete(ctx, borrower.ID), membership.ErrMemberInUse)
}
