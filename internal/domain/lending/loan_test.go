package lending

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewLoan(t *testing.T) {
	itemID := uuid.New()
	memberID := uuid.New()

	t.Run("truncates dates and starts open", func(t *testing.T) {
		start := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
		due := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

		loan, err := NewLoan(itemID, memberID, start, due)
		require.NoError(t, err)

		assert.Equal(t, day(2024, 3, 1), loan.StartDate)
		assert.Equal(t, day(2024, 3, 15), loan.DueDate)
		assert.True(t, loan.IsOpen())
		assert.Equal(t, LoanStatusOpen, loan.Status())
		assert.False(t, loan.Damaged)
		assert.NotEqual(t, uuid.Nil, loan.ID)
	})

	t.Run("same-day loan is allowed", func(t *testing.T) {
		_, err := NewLoan(itemID, memberID, day(2024, 3, 1), day(2024, 3, 1))
		assert.NoError(t, err)
	})

	tests := []struct {
		name     string
		itemID   uuid.UUID
		memberID uuid.UUID
		start    time.Time
		due      time.Time
	}{
		{"missing item", uuid.Nil, memberID, day(2024, 3, 1), day(2024, 3, 2)},
		{"missing member", itemID, uuid.Nil, day(2024, 3, 1), day(2024, 3, 2)},
		{"missing start", itemID, memberID, time.Time{}, day(2024, 3, 2)},
		{"missing due", itemID, memberID, day(2024, 3, 1), time.Time{}},
		{"due before start", itemID, memberID, day(2024, 3, 10), day(2024, 3, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoan(tt.itemID, tt.memberID, tt.start, tt.due)
			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		})
	}
}

func TestLoan_Close(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), day(2024, 3, 1), day(2024, 3, 15))
	require.NoError(t, err)

	require.NoError(t, loan.Close(time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC), true))
	require.NotNil(t, loan.ReturnedOn)
	assert.Equal(t, day(2024, 3, 20), *loan.ReturnedOn)
	assert.True(t, loan.Damaged)
	assert.Equal(t, LoanStatusClosed, loan.Status())

	err = loan.Close(day(2024, 3, 21), false)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.Equal(t, day(2024, 3, 20), *loan.ReturnedOn)
	assert.True(t, loan.Damaged)
}

func TestLoan_IsOverdue(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), day(2024, 3, 1), day(2024, 3, 15))
	require.NoError(t, err)

	assert.False(t, loan.IsOverdue(day(2024, 3, 15)))
	assert.True(t, loan.IsOverdue(day(2024, 3, 16)))

	require.NoError(t, loan.Close(day(2024, 3, 20), false))
	assert.False(t, loan.IsOverdue(day(2024, 3, 30)))
}

func TestNewFine(t *testing.T) {
	amount := valueobject.MustNewMoneyFromString("12.5", valueobject.USD)

	fine, err := NewFine(uuid.New(), " late ", amount, time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "late", fine.Reason)
	assert.Equal(t, "12.50", fine.Amount.Amount().StringFixed(2))
	assert.Equal(t, day(2024, 4, 2), fine.IssuedOn)

	zero := valueobject.MustNewMoneyFromString("0", valueobject.USD)
	tests := []struct {
		name   string
		loanID uuid.UUID
		reason string
		amount valueobject.Money
		date   time.Time
	}{
		{"missing loan", uuid.Nil, "late", amount, day(2024, 4, 2)},
		{"missing reason", uuid.New(), "  ", amount, day(2024, 4, 2)},
		{"zero amount", uuid.New(), "late", zero, day(2024, 4, 2)},
		{"missing date", uuid.New(), "late", amount, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFine(tt.loanID, tt.reason, tt.amount, tt.date)
			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		})
	}
}

func TestDamagePolicy_FineFor(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), day(2024, 3, 1), day(2024, 3, 15))
	require.NoError(t, err)

	policy := DefaultDamagePolicy(valueobject.USD)
	fine, err := policy.FineFor(loan, day(2024, 3, 14))
	require.NoError(t, err)

	assert.Equal(t, loan.ID, fine.LoanID)
	assert.Equal(t, "item damaged", fine.Reason)
	assert.Equal(t, "50.00", fine.Amount.Amount().StringFixed(2))
	assert.Equal(t, valueobject.USD, fine.Amount.Currency())
	assert.Equal(t, day(2024, 3, 14), fine.IssuedOn)
}
