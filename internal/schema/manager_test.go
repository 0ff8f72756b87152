package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	conn, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := sqlite.Wrap(conn)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sqlite.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Conn(context.Background()).Raw("SELECT COUNT(*) FROM "+table).Scan(&n).Error)
	return n
}

func TestMigrateFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))

	version, err := m.userVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, TargetVersion, version)

	for _, table := range []string{
		"customers", "customer_credits", "customer_payments",
		"customer_credit_logs", "customer_payment_logs", "schema_migrations",
	} {
		cols, err := m.tableColumns(ctx, table)
		require.NoError(t, err)
		assert.NotEmpty(t, cols, "table %s missing", table)
	}

	// Both version transitions recorded.
	assert.Equal(t, int64(2), countRows(t, db, "schema_migrations"))
}

// Migrating twice must be indistinguishable from migrating once: same
// columns, same row counts, same version history.
func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))

	conn := db.Conn(ctx)
	require.NoError(t, conn.Exec(
		`INSERT INTO customers (name, created_at) VALUES ('Ram', datetime('now'))`).Error)
	require.NoError(t, conn.Exec(
		`INSERT INTO customer_credits (customer_id, amount, date) VALUES (1, 500, '2026-01-01')`).Error)

	colsBefore, err := m.tableColumns(ctx, "customer_payments")
	require.NoError(t, err)

	require.NoError(t, m.Migrate(ctx))

	colsAfter, err := m.tableColumns(ctx, "customer_payments")
	require.NoError(t, err)
	assert.Equal(t, colsBefore, colsAfter)

	assert.Equal(t, int64(1), countRows(t, db, "customers"))
	assert.Equal(t, int64(1), countRows(t, db, "customer_credits"))
	assert.Equal(t, int64(2), countRows(t, db, "schema_migrations"))
}

// A store created by an older build lacks later columns; EnsureSchema adds
// them and backfills the ordering columns without losing rows.
func TestEnsureSchemaUpgradesOldTable(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()
	conn := db.Conn(ctx)

	require.NoError(t, conn.Exec(
		`CREATE TABLE customers (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`).Error)
	require.NoError(t, conn.Exec(`INSERT INTO customers (name) VALUES ('Old Row')`).Error)

	require.NoError(t, m.EnsureSchema(ctx))

	cols, err := m.tableColumns(ctx, "customers")
	require.NoError(t, err)
	for _, col := range []string{"mobile", "address", "note", "created_at"} {
		assert.True(t, cols[col], "column %s not added", col)
	}

	// Backfill leaves no NULL created_at behind.
	var createdAt string
	require.NoError(t, conn.Raw(`SELECT created_at FROM customers WHERE name = 'Old Row'`).Scan(&createdAt).Error)
	assert.NotEmpty(t, createdAt)
}

func TestMigrateLegacyTransactions(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()
	conn := db.Conn(ctx)

	require.NoError(t, conn.Exec(
		`CREATE TABLE transactions (
		   id INTEGER PRIMARY KEY AUTOINCREMENT,
		   customer_id INTEGER NOT NULL,
		   type TEXT NOT NULL,
		   amount REAL NOT NULL,
		   note TEXT,
		   date TEXT,
		   created_at TEXT
		 )`).Error)
	require.NoError(t, conn.Exec(
		`INSERT INTO transactions (customer_id, type, amount, note, date, created_at) VALUES
		 (1, 'credit',  500, 'rice',    '2026-01-01', '2026-01-01 10:00:00'),
		 (1, 'payment', 200, 'partial', '2026-01-05', '2026-01-05 11:00:00'),
		 (2, 'credit',  300, NULL,      '2026-01-07', '2026-01-07 12:00:00')`).Error)

	require.NoError(t, m.Migrate(ctx))

	assert.Equal(t, int64(2), countRows(t, db, "customer_credits"))
	assert.Equal(t, int64(1), countRows(t, db, "customer_payments"))

	var note string
	require.NoError(t, conn.Raw(
		`SELECT note FROM customer_payments WHERE customer_id = 1`).Scan(&note).Error)
	assert.Equal(t, "partial", note)

	// A second migration must not double-import.
	require.NoError(t, m.Migrate(ctx))
	assert.Equal(t, int64(2), countRows(t, db, "customer_credits"))
	assert.Equal(t, int64(1), countRows(t, db, "customer_payments"))
}

func TestMigrateLegacySkippedWhenSplitTablesPopulated(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))
	conn := db.Conn(ctx)
	require.NoError(t, conn.Exec(
		`INSERT INTO customer_credits (customer_id, amount, date) VALUES (1, 999, '2026-01-01')`).Error)

	require.NoError(t, conn.Exec(
		`CREATE TABLE transactions (
		   id INTEGER PRIMARY KEY AUTOINCREMENT,
		   customer_id INTEGER NOT NULL, type TEXT NOT NULL, amount REAL NOT NULL,
		   note TEXT, date TEXT, created_at TEXT
		 )`).Error)
	require.NoError(t, conn.Exec(
		`INSERT INTO transactions (customer_id, type, amount) VALUES (1, 'credit', 500)`).Error)

	require.NoError(t, m.Migrate(ctx))

	// The legacy row stays put; the existing split data is authoritative.
	assert.Equal(t, int64(1), countRows(t, db, "customer_credits"))
}

func TestSeedDemoData(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))
	require.NoError(t, m.SeedDemoData(ctx))

	assert.Equal(t, int64(2), countRows(t, db, "customers"))
	assert.Equal(t, int64(1), countRows(t, db, "customer_credits"))
	assert.Equal(t, int64(1), countRows(t, db, "customer_payments"))

	// Seeding again is a no-op.
	require.NoError(t, m.SeedDemoData(ctx))
	assert.Equal(t, int64(2), countRows(t, db, "customers"))
}

func TestSeedDemoDataRefusesNonEmptyStore(t *testing.T) {
	db := openTestDB(t)
	m := NewManager(db)
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx))
	require.NoError(t, db.Conn(ctx).Exec(
		`INSERT INTO customers (name, created_at) VALUES ('Real Customer', datetime('now'))`).Error)

	require.NoError(t, m.SeedDemoData(ctx))
	assert.Equal(t, int64(1), countRows(t, db, "customers"))
	assert.Equal(t, int64(0), countRows(t, db, "customer_credits"))
}
