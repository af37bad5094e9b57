// Package integration runs the lending core against a real PostgreSQL
// database started with testcontainers and migrated with the versioned
// schema under migrations/.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/library/backend/internal/infrastructure/migration"
	"github.com/library/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// lendingTables are emptied between tests. Dropping the sequences row
// restarts membership numbering at MBR-000001.
var lendingTables = []string{"fines", "loans", "members", "items", "sequences"}

// postgresContainer is started once per package and migrated once
var postgresContainer struct {
	sync.Mutex
	container testcontainers.Container
	dsn       string
}

// TestDB is a connection to the shared, freshly truncated database
type TestDB struct {
	DB *gorm.DB
}

// NewSharedTestDB connects to the package container, starting and
// migrating it on first use. Every table is truncated before returning.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn, err := sharedDSN()
	require.NoError(t, err, "start PostgreSQL container")

	db, sqlDB := connect(t, dsn)
	t.Cleanup(func() { _ = sqlDB.Close() })

	truncate := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(lendingTables, ", "))
	require.NoError(t, db.Exec(truncate).Error, "truncate lending tables")
	return &TestDB{DB: db}
}

func sharedDSN() (string, error) {
	postgresContainer.Lock()
	defer postgresContainer.Unlock()

	if postgresContainer.container != nil {
		return postgresContainer.dsn, nil
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("library_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("library123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err == nil {
		err = migrate(dsn)
	}
	if err != nil {
		_ = container.Terminate(ctx)
		return "", err
	}

	postgresContainer.container = container
	postgresContainer.dsn = dsn
	return dsn, nil
}

// migrate applies the embedded schema; closing the migrator closes its connection
func migrate(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, nil)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// connect opens GORM with the options the server uses
func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(level),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	return db, sqlDB
}

// CleanupSharedContainer terminates the package container. Call it from TestMain.
func CleanupSharedContainer() {
	postgresContainer.Lock()
	defer postgresContainer.Unlock()

	if postgresContainer.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = postgresContainer.container.Terminate(ctx)
	postgresContainer.container = nil
	postgresContainer.dsn = ""
}
