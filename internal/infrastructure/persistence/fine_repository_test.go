package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFineRepository(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	ada := seedMember(t, f.members, "Ada", "ID-1")
	book := seedItem(t, f.items, "BK-1")
	first := seedLoan(t, f.loans, book, ada, day(2024, 5, 1), day(2024, 5, 2))
	second := seedLoan(t, f.loans, seedItem(t, f.items, "BK-2"), ada, day(2024, 5, 1), day(2024, 5, 2))

	record := func(loanID uuid.UUID, reason, amount string, d int) *lending.Fine {
		fine, err := lending.NewFine(loanID, reason, valueobject.MustNewMoneyFromString(amount, valueobject.USD), day(2024, 5, d))
		require.NoError(t, err)
		require.NoError(t, f.fines.Create(ctx, fine))
		return fine
	}
	damage := record(first.ID, "item damaged", "50.00", 4)
	record(first.ID, "late", "2.50", 3)
	record(second.ID, "lost sleeve", "7.25", 5)

	t.Run("find by id keeps the amount", func(t *testing.T) {
		found, err := f.fines.FindDetailsByID(ctx, damage.ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Amount().Equal(decimal.RequireFromString("50")))
		assert.Equal(t, valueobject.USD, found.Amount.Currency())
		assert.Equal(t, "item damaged", found.Reason)
		assert.True(t, found.IssuedOn.Equal(day(2024, 5, 4)))
	})

	t.Run("details carry the loan, item and member", func(t *testing.T) {
		found, err := f.fines.FindDetailsByID(ctx, damage.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.LoanID)
		assert.Equal(t, book.ID, found.ItemID)
		assert.Equal(t, "BK-1", found.ItemCode)
		assert.Equal(t, book.Title, found.ItemTitle)
		assert.Equal(t, ada.ID, found.MemberID)
		assert.Equal(t, "Ada", found.MemberName)
		assert.Equal(t, ada.Number, found.MembershipNumber)
		assert.True(t, found.LoanStartDate.Equal(day(2024, 5, 1)))
		assert.True(t, found.LoanDueDate.Equal(day(2024, 5, 2)))
		assert.Nil(t, found.LoanReturnedOn)

		_, err = f.fines.FindDetailsByID(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("by loan oldest first", func(t *testing.T) {
		fines, err := f.fines.FindDetailsByLoanID(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, fines, 2)
		assert.Equal(t, "late", fines[0].Reason)
		assert.Equal(t, "item damaged", fines[1].Reason)
	})

	t.Run("all most recent first", func(t *testing.T) {
		fines, err := f.fines.FindAllDetails(ctx)
		require.NoError(t, err)
		require.Len(t, fines, 3)
		assert.Equal(t, "lost sleeve", fines[0].Reason)
		assert.Equal(t, "BK-2", fines[0].ItemCode)
	})

	t.Run("unknown loan", func(t *testing.T) {
		fine, err := lending.NewFine(uuid.New(), "late", valueobject.MustNewMoneyFromString("1.00", valueobject.USD), day(2024, 5, 1))
		require.NoError(t, err)
		assert.True(t, shared.IsNotFound(f.fines.Create(ctx, fine)))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.fines.Delete(ctx, damage.ID))
		_, err := f.fines.FindDetailsByID(ctx, damage.ID)
		assert.True(t, shared.IsNotFound(err))
		assert.True(t, shared.IsNotFound(f.fines.Delete(ctx, damage.ID)))
	})
}
