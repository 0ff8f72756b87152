package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/udharokhata/credit-ledger/internal/schema"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory store, fully migrated. One connection
// only: an in-memory SQLite database exists per connection, so a second
// pooled connection would see an empty schema.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	conn, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := sqlite.Wrap(conn)
	require.NoError(t, schema.NewManager(db).Migrate(context.Background()))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
