package backup

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udharokhata/credit-ledger/internal/model"
	"github.com/udharokhata/credit-ledger/internal/repository"
	"github.com/udharokhata/credit-ledger/internal/schema"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db        *sqlite.DB
	engine    *Engine
	customers *repository.CustomerRepository
	credits   *repository.CreditRepository
	payments  *repository.PaymentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := sqlite.Wrap(conn)
	m := schema.NewManager(db)
	require.NoError(t, m.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	return &fixture{
		db:        db,
		engine:    NewEngine(db, m),
		customers: repository.NewCustomerRepository(db),
		credits:   repository.NewCreditRepository(db),
		payments:  repository.NewPaymentRepository(db),
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func (f *fixture) seedLedger(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	ramID, err := f.customers.Insert(ctx, model.CustomerCreateRequest{
		Name: "राम प्रसाद", Mobile: strPtr("9812345678"),
	})
	require.NoError(t, err)
	sitaID, err := f.customers.Insert(ctx, model.CustomerCreateRequest{
		Name: "Sita", Note: strPtr("pays on time; trusted"),
	})
	require.NoError(t, err)

	creditID, err := f.credits.Insert(ctx, model.CreditCreateRequest{
		CustomerID: ramID, Amount: 500, Note: strPtr("चामल"), Date: strPtr("2026-01-10"),
	})
	require.NoError(t, err)
	_, err = f.credits.Insert(ctx, model.CreditCreateRequest{
		CustomerID: ramID, Amount: 120.5, Date: strPtr("2026-01-12"),
	})
	require.NoError(t, err)
	_, err = f.credits.Insert(ctx, model.CreditCreateRequest{
		CustomerID: sitaID, Amount: 300, Date: strPtr("2026-01-15"),
	})
	require.NoError(t, err)

	_, err = f.payments.Insert(ctx, model.PaymentCreateRequest{
		CustomerID: ramID, Amount: 200, Note: strPtr("partial"), Date: strPtr("2026-01-20"),
	})
	require.NoError(t, err)
	_, err = f.payments.Insert(ctx, model.PaymentCreateRequest{
		CustomerID: sitaID, Amount: 300, Date: strPtr("2026-01-21"),
	})
	require.NoError(t, err)

	// One amount edit so the backup carries an audit log row.
	require.NoError(t, f.credits.Update(ctx, creditID, model.CreditUpdateRequest{Amount: floatPtr(450)}))

	return ramID, sitaID
}

// Export into a fresh store must reproduce balances, row counts and audit
// history exactly.
func TestBackupRoundTrip(t *testing.T) {
	src := newFixture(t)
	ramID, sitaID := src.seedLedger(t)
	ctx := context.Background()

	script, err := src.engine.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, script, "DELETE FROM customers;")
	assert.Contains(t, script, "schema_migrations")

	dst := newFixture(t)
	require.NoError(t, dst.engine.Import(ctx, "ledger-backup-2026-08-29.sql", []byte(script)))

	ramBalance, err := dst.customers.Balance(ctx, ramID)
	require.NoError(t, err)
	assert.Equal(t, 450.0+120.5-200.0, ramBalance)

	sitaBalance, err := dst.customers.Balance(ctx, sitaID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sitaBalance)

	ram, err := dst.customers.GetByID(ctx, ramID)
	require.NoError(t, err)
	assert.Equal(t, "राम प्रसाद", ram.Name)

	credits, err := dst.credits.ListForCustomer(ctx, ramID)
	require.NoError(t, err)
	require.Len(t, credits, 2)

	var edited *model.Credit
	for _, c := range credits {
		if c.Amount == 450 {
			edited = c
		}
	}
	require.NotNil(t, edited)
	logs, err := dst.credits.Logs(ctx, edited.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 500.0, *logs[0].OldAmount)
}

// Import replaces existing data rather than merging with it. The stray row
// may share an id with an imported customer, so replacement is asserted by
// name, not id.
func TestImportReplacesExistingData(t *testing.T) {
	src := newFixture(t)
	src.seedLedger(t)
	ctx := context.Background()

	script, err := src.engine.Export(ctx)
	require.NoError(t, err)

	dst := newFixture(t)
	_, err = dst.customers.Insert(ctx, model.CustomerCreateRequest{Name: "Stray"})
	require.NoError(t, err)

	require.NoError(t, dst.engine.Import(ctx, "backup.sql", []byte(script)))

	strays, err := dst.customers.Count(ctx, "stray")
	require.NoError(t, err)
	assert.Equal(t, int64(0), strays)

	count, err := dst.customers.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

// A script whose final statement is malformed must leave the store exactly
// as it was before the import.
func TestImportRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.seedLedger(t)
	ctx := context.Background()

	before, err := f.customers.Count(ctx, "")
	require.NoError(t, err)

	bad := strings.Join([]string{
		"DELETE FROM customers;",
		"INSERT INTO customers (id, name) VALUES (77, 'Ghost');",
		"INSERT INTO no_such_table (id) VALUES (1);",
	}, "\n")
	err = f.engine.Import(ctx, "bad.sql", []byte(bad))
	require.Error(t, err)

	after, err := f.customers.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = f.customers.GetByID(ctx, 77)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImportRejectsNonSQLFile(t *testing.T) {
	f := newFixture(t)

	err := f.engine.Import(context.Background(), "backup.txt", []byte("DELETE FROM customers;"))
	assert.ErrorIs(t, err, ErrNotSQLFile)

	// Nothing ran.
	count, err := f.customers.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

// A note containing a semicolon and a quote must survive export and import
// unmangled.
func TestRoundTripPreservesAwkwardStrings(t *testing.T) {
	src := newFixture(t)
	ctx := context.Background()

	id, err := src.customers.Insert(ctx, model.CustomerCreateRequest{
		Name: "O'Brien", Note: strPtr("owes rice; will pay 'soon'"),
	})
	require.NoError(t, err)

	script, err := src.engine.Export(ctx)
	require.NoError(t, err)

	dst := newFixture(t)
	require.NoError(t, dst.engine.Import(ctx, "backup.sql", []byte(script)))

	got, err := dst.customers.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "O'Brien", got.Name)
	require.NotNil(t, got.Note)
	assert.Equal(t, "owes rice; will pay 'soon'", *got.Note)
}

func TestRenderValueLiterals(t *testing.T) {
	assert.Equal(t, "NULL", renderValue(nil))
	assert.Equal(t, "42", renderValue(int64(42)))
	assert.Equal(t, "1", renderValue(true))
	assert.Equal(t, "0", renderValue(false))
	assert.Equal(t, "'it''s'", renderValue("it's"))

	// Integral REALs print without a trailing .0, fractional ones keep it.
	assert.Equal(t, "500", renderValue(500.0))
	assert.Equal(t, "120.5", renderValue(120.5))
	assert.Equal(t, "NULL", renderValue(math.NaN()))
	assert.Equal(t, "NULL", renderValue(math.Inf(1)))
}

func TestSplitStatements(t *testing.T) {
	script := strings.Join([]string{
		"-- credit-ledger backup",
		"PRAGMA foreign_keys=OFF;",
		"BEGIN;",
		"DELETE FROM customers;",
		"INSERT INTO customers (id, name, note) VALUES (1, 'Ram', 'a;b');",
		"COMMIT;",
		"PRAGMA foreign_keys=ON;",
	}, "\n")

	statements := splitStatements(script)
	require.Len(t, statements, 2)
	assert.Equal(t, "DELETE FROM customers", statements[0])
	assert.Contains(t, statements[1], "'a;b'")
}

func TestExportToFileAndImportFile(t *testing.T) {
	src := newFixture(t)
	src.seedLedger(t)
	ctx := context.Background()

	dir := t.TempDir()
	path, err := src.engine.ExportToFile(ctx, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".sql"))

	dst := newFixture(t)
	require.NoError(t, dst.engine.ImportFile(ctx, path))

	count, err := dst.customers.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
