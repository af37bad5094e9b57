package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loanFixture struct {
	items   *GormItemRepository
	members *GormMemberRepository
	loans   *GormLoanRepository
	fines   *GormFineRepository
}

func newLoanFixture(t *testing.T) loanFixture {
	db := newTestDatabase(t)
	return loanFixture{
		items:   NewGormItemRepository(db.DB),
		members: NewGormMemberRepository(db.DB),
		loans:   NewGormLoanRepository(db.DB),
		fines:   NewGormFineRepository(db.DB),
	}
}

func TestGormLoanRepository_CreateAndDetails(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	item := seedItem(t, f.items, "BK-001")
	member := seedMember(t, f.members, "Ada", "ID-1")
	loan := seedLoan(t, f.loans, item, member, day(2024, 5, 1), day(2024, 5, 15))

	details, err := f.loans.FindDetailsByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, details.ID)
	assert.Equal(t, "BK-001", details.ItemCode)
	assert.Equal(t, "Title BK-001", details.ItemTitle)
	assert.Equal(t, "Author BK-001", details.ItemCreator)
	assert.Equal(t, "Ada", details.MemberName)
	assert.Equal(t, member.Number, details.MembershipNumber)
	assert.True(t, details.StartDate.Equal(day(2024, 5, 1)))
	assert.True(t, details.DueDate.Equal(day(2024, 5, 15)))
	assert.Nil(t, details.ReturnedOn)

	_, err = f.loans.FindDetailsByID(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestGormLoanRepository_SecondOpenLoanRejected(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	item := seedItem(t, f.items, "BK-001")
	ada := seedMember(t, f.members, "Ada", "ID-1")
	grace := seedMember(t, f.members, "Grace", "ID-2")
	first := seedLoan(t, f.loans, item, ada, day(2024, 5, 1), day(2024, 5, 15))

	second, err := lending.NewLoan(item.ID, grace.ID, day(2024, 5, 2), day(2024, 5, 16))
	require.NoError(t, err)
	assert.ErrorIs(t, f.loans.Create(ctx, second), lending.ErrItemUnavailable)

	// once the first loan closes the item may be lent again
	require.NoError(t, first.Close(day(2024, 5, 3), false))
	closed, err := f.loans.CloseIfOpen(ctx, first)
	require.NoError(t, err)
	require.True(t, closed)
	assert.NoError(t, f.loans.Create(ctx, second))
}

func TestGormLoanRepository_CreateUnknownReferences(t *testing.T) {
	f := newLoanFixture(t)
	member := seedMember(t, f.members, "Ada", "ID-1")

	loan, err := lending.NewLoan(uuid.New(), member.ID, day(2024, 5, 1), day(2024, 5, 2))
	require.NoError(t, err)
	assert.True(t, shared.IsNotFound(f.loans.Create(context.Background(), loan)))
}

func TestGormLoanRepository_CloseIfOpen(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	loan := seedLoan(t, f.loans, seedItem(t, f.items, "BK-001"), seedMember(t, f.members, "Ada", "ID-1"),
		day(2024, 5, 1), day(2024, 5, 15))

	stale := *loan
	require.NoError(t, loan.Close(day(2024, 5, 10), true))
	closed, err := f.loans.CloseIfOpen(ctx, loan)
	require.NoError(t, err)
	assert.True(t, closed)

	// a second writer holding a stale open copy must not overwrite the closure
	require.NoError(t, stale.Close(day(2024, 5, 12), false))
	closed, err = f.loans.CloseIfOpen(ctx, &stale)
	require.NoError(t, err)
	assert.False(t, closed)

	stored, err := f.loans.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReturnedOn)
	assert.True(t, stored.ReturnedOn.Equal(day(2024, 5, 10)))
	assert.True(t, stored.Damaged)
	assert.Equal(t, lending.LoanStatusClosed, stored.Status())
}

func TestGormLoanRepository_Listings(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	ada := seedMember(t, f.members, "Ada", "ID-1")

	late := seedLoan(t, f.loans, seedItem(t, f.items, "BK-1"), ada, day(2024, 4, 1), day(2024, 4, 20))
	soon := seedLoan(t, f.loans, seedItem(t, f.items, "BK-2"), ada, day(2024, 5, 1), day(2024, 5, 10))
	later := seedLoan(t, f.loans, seedItem(t, f.items, "BK-3"), ada, day(2024, 5, 1), day(2024, 6, 1))
	returned := seedLoan(t, f.loans, seedItem(t, f.items, "BK-4"), ada, day(2024, 3, 1), day(2024, 3, 5))
	require.NoError(t, returned.Close(day(2024, 3, 9), false))
	_, err := f.loans.CloseIfOpen(ctx, returned)
	require.NoError(t, err)

	all, err := f.loans.FindAllDetails(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	open, err := f.loans.FindOpenDetails(ctx)
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, []uuid.UUID{late.ID, soon.ID, later.ID}, []uuid.UUID{open[0].ID, open[1].ID, open[2].ID})

	overdue, err := f.loans.FindOverdueDetails(ctx, day(2024, 5, 10))
	require.NoError(t, err)
	require.Len(t, overdue, 1, "a loan due on the as-of date is not yet overdue")
	assert.Equal(t, late.ID, overdue[0].ID)

	overdue, err = f.loans.FindOverdueDetails(ctx, day(2024, 5, 11))
	require.NoError(t, err)
	assert.Len(t, overdue, 2)
}

func TestGormLoanRepository_Delete(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	ada := seedMember(t, f.members, "Ada", "ID-1")
	plain := seedLoan(t, f.loans, seedItem(t, f.items, "BK-1"), ada, day(2024, 5, 1), day(2024, 5, 2))
	fined := seedLoan(t, f.loans, seedItem(t, f.items, "BK-2"), ada, day(2024, 5, 1), day(2024, 5, 2))

	fine, err := lending.NewFine(fined.ID, "late", valueobject.MustNewMoneyFromString("5.00", "USD"), day(2024, 5, 3))
	require.NoError(t, err)
	require.NoError(t, f.fines.Create(ctx, fine))

	require.NoError(t, f.loans.Delete(ctx, plain.ID))
	assert.True(t, shared.IsNotFound(f.loans.Delete(ctx, plain.ID)))
	assert.ErrorIs(t, f.loans.Delete(ctx, fined.ID), lending.ErrLoanHasFines)
}

func TestGormLoanRepository_DeleteIfOpen(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	ada := seedMember(t, f.members, "Ada", "ID-1")
	item := seedItem(t, f.items, "BK-001")

	open := seedLoan(t, f.loans, item, ada, day(2024, 5, 1), day(2024, 5, 15))
	deleted, err := f.loans.DeleteIfOpen(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// a delete acting on a stale open read must not remove a returned loan
	returned := seedLoan(t, f.loans, item, ada, day(2024, 5, 2), day(2024, 5, 16))
	require.NoError(t, returned.Close(day(2024, 5, 3), false))
	closed, err := f.loans.CloseIfOpen(ctx, returned)
	require.NoError(t, err)
	require.True(t, closed)

	deleted, err = f.loans.DeleteIfOpen(ctx, returned.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	_, err = f.loans.FindByID(ctx, returned.ID)
	assert.NoError(t, err)

	deleted, err = f.loans.DeleteIfOpen(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}
