package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
)

// newTestDatabase opens a private in-memory SQLite database with the lending
// schema applied
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func seedItem(t *testing.T, repo *GormItemRepository, code string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(code, "Title "+code, "Author "+code)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func seedMember(t *testing.T, repo *GormMemberRepository, name, personalID string) *membership.Member {
	t.Helper()
	ctx := context.Background()
	seq, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	member, err := membership.NewMember(name, personalID, seq)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, member))
	return member
}

func seedLoan(t *testing.T, repo *GormLoanRepository, item *catalog.Item, member *membership.Member, start, due time.Time) *lending.Loan {
	t.Helper()
	loan, err := lending.NewLoan(item.ID, member.ID, start, due)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), loan))
	return loan
}
