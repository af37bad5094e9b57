package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked PostgreSQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "file::memory:?_foreign_keys=1&_busy_timeout=5000"},
		{":memory:", "file::memory:?_foreign_keys=1&_busy_timeout=5000"},
		{"/var/lib/library.db", "file:/var/lib/library.db?_foreign_keys=1&_busy_timeout=5000"},
		{"file:lib.db?cache=shared", "file:lib.db?cache=shared&_foreign_keys=1&_busy_timeout=5000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SQLiteDSN(tt.path), tt.path)
	}
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_SQLiteLifecycle(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.Ping())
	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("rollback on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_SetStateIfSQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormItemRepository(db.DB)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "items" SET "state"=$1,"updated_at"=$2 WHERE id = $3 AND state = $4`)).
		WithArgs(catalog.ItemStateLoaned, sqlmock.AnyArg(), id, catalog.ItemStateAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	flipped, err := repo.SetStateIf(context.Background(), id, catalog.ItemStateAvailable, catalog.ItemStateLoaned)
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLoanRepository_CloseIfOpenSQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormLoanRepository(db.DB)

	loan, err := lending.NewLoan(uuid.New(), uuid.New(), day(2024, 5, 1), day(2024, 5, 2))
	require.NoError(t, err)
	require.NoError(t, loan.Close(day(2024, 5, 3), false))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "loans" SET "damaged"=$1,"returned_on"=$2,"updated_at"=$3 WHERE id = $4 AND returned_on IS NULL`)).
		WithArgs(false, day(2024, 5, 3), sqlmock.AnyArg(), loan.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	closed, err := repo.CloseIfOpen(context.Background(), loan)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormItemRepository_ConcurrentSetStateIf(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormItemRepository(db.DB)
	item := seedItem(t, repo, "BK-001")

	const workers = 8
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flipped, err := repo.SetStateIf(context.Background(), item.ID, catalog.ItemStateAvailable, catalog.ItemStateLoaned)
			assert.NoError(t, err)
			if flipped {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
}

func TestGormMemberRepository_ConcurrentNextSequence(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormMemberRepository(db.DB)

	const workers = 10
	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := repo.NextSequence(context.Background())
			assert.NoError(t, err)
			results <- next
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for v := range results {
		assert.False(t, seen[v], "sequence %d handed out twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers)
}
