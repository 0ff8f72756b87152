// Package schema brings the store to the current schema version without data
// loss, regardless of which historical version it started at. Migration
// failure is fatal to startup: there is no degraded mode on a half-migrated
// store.
package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/udharokhata/credit-ledger/pkg/logger"
	"github.com/udharokhata/credit-ledger/pkg/nepali"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
)

// TargetVersion is the current schema version recorded in PRAGMA
// user_version and schema_migrations.
const TargetVersion = 2

type Manager struct {
	db *sqlite.DB
}

func NewManager(db *sqlite.DB) *Manager {
	return &Manager{db: db}
}

// EnsureSchema creates missing tables, adds columns introduced by later
// versions, backfills columns used for ordering, then creates indexes.
// Safe to run any number of times.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	conn := m.db.Conn(ctx)

	for _, ddl := range []string{createCustomersTable, createCreditsTable, createPaymentsTable} {
		if err := conn.Exec(ddl).Error; err != nil {
			return err
		}
	}

	if err := m.ensureCustomerColumns(ctx); err != nil {
		return err
	}
	if err := m.ensureCreditColumns(ctx); err != nil {
		return err
	}
	if err := m.ensurePaymentColumns(ctx); err != nil {
		return err
	}

	// Indexes last: the indexed columns may not exist until the ALTERs above,
	// and an index over an all-NULL column is useless before backfill.
	for _, ddl := range createIndexes {
		if err := conn.Exec(ddl).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) ensureCustomerColumns(ctx context.Context) error {
	cols, err := m.tableColumns(ctx, "customers")
	if err != nil {
		return err
	}
	conn := m.db.Conn(ctx)
	for _, add := range []struct{ name, ddl string }{
		{"mobile", `ALTER TABLE customers ADD COLUMN mobile TEXT`},
		{"address", `ALTER TABLE customers ADD COLUMN address TEXT`},
		{"note", `ALTER TABLE customers ADD COLUMN note TEXT`},
	} {
		if !cols[add.name] {
			if err := conn.Exec(add.ddl).Error; err != nil {
				return err
			}
		}
	}
	if !cols["created_at"] {
		if err := conn.Exec(`ALTER TABLE customers ADD COLUMN created_at TEXT`).Error; err != nil {
			return err
		}
	}
	// created_at feeds the default list ordering; no row may be left NULL.
	return conn.Exec(`UPDATE customers SET created_at = COALESCE(created_at, datetime('now'))`).Error
}

func (m *Manager) ensureCreditColumns(ctx context.Context) error {
	cols, err := m.tableColumns(ctx, "customer_credits")
	if err != nil {
		return err
	}
	conn := m.db.Conn(ctx)
	for _, add := range []struct{ name, ddl string }{
		{"note", `ALTER TABLE customer_credits ADD COLUMN note TEXT`},
		{"date", `ALTER TABLE customer_credits ADD COLUMN date TEXT`},
		{"created_at", `ALTER TABLE customer_credits ADD COLUMN created_at TEXT`},
		{"expected_payment_date", `ALTER TABLE customer_credits ADD COLUMN expected_payment_date TEXT`},
	} {
		if !cols[add.name] {
			if err := conn.Exec(add.ddl).Error; err != nil {
				return err
			}
		}
	}
	if err := conn.Exec(`UPDATE customer_credits SET date = COALESCE(date, substr(created_at, 1, 10), date('now'))`).Error; err != nil {
		return err
	}
	return conn.Exec(`UPDATE customer_credits SET created_at = COALESCE(created_at, datetime('now'))`).Error
}

func (m *Manager) ensurePaymentColumns(ctx context.Context) error {
	cols, err := m.tableColumns(ctx, "customer_payments")
	if err != nil {
		return err
	}
	conn := m.db.Conn(ctx)
	for _, add := range []struct{ name, ddl string }{
		{"note", `ALTER TABLE customer_payments ADD COLUMN note TEXT`},
		{"date", `ALTER TABLE customer_payments ADD COLUMN date TEXT`},
		{"created_at", `ALTER TABLE customer_payments ADD COLUMN created_at TEXT`},
		{"is_verified", `ALTER TABLE customer_payments ADD COLUMN is_verified INTEGER NOT NULL DEFAULT 0`},
		{"verified_at", `ALTER TABLE customer_payments ADD COLUMN verified_at TEXT`},
		{"attachment_uri", `ALTER TABLE customer_payments ADD COLUMN attachment_uri TEXT`},
		{"attachment_name", `ALTER TABLE customer_payments ADD COLUMN attachment_name TEXT`},
		{"attachment_mime", `ALTER TABLE customer_payments ADD COLUMN attachment_mime TEXT`},
	} {
		if !cols[add.name] {
			if err := conn.Exec(add.ddl).Error; err != nil {
				return err
			}
		}
	}
	if err := conn.Exec(`UPDATE customer_payments SET date = COALESCE(date, substr(created_at, 1, 10), date('now'))`).Error; err != nil {
		return err
	}
	return conn.Exec(`UPDATE customer_payments SET created_at = COALESCE(created_at, datetime('now'))`).Error
}

// Migrate advances the store to TargetVersion, recording each transition in
// schema_migrations. Audit-log tables are (re-)created on every pass so
// databases that predate logging pick them up.
func (m *Manager) Migrate(ctx context.Context) error {
	conn := m.db.Conn(ctx)

	if err := conn.Exec(createSchemaMigrationsTable).Error; err != nil {
		return err
	}

	version, err := m.userVersion(ctx)
	if err != nil {
		return err
	}

	if version < 1 {
		if err := m.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := m.setVersion(ctx, 1); err != nil {
			return err
		}
		version = 1
	} else {
		// Already versioned, but older installs may still be missing columns.
		if err := m.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := m.setVersion(ctx, 2); err != nil {
			return err
		}
		version = 2
	}

	if err := m.migrateLegacyTransactions(ctx); err != nil {
		return err
	}

	for _, ddl := range []string{createCreditLogsTable, createPaymentLogsTable} {
		if err := conn.Exec(ddl).Error; err != nil {
			return err
		}
	}
	for _, ddl := range createLogIndexes {
		if err := conn.Exec(ddl).Error; err != nil {
			return err
		}
	}

	if version != TargetVersion {
		if err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", TargetVersion)).Error; err != nil {
			return err
		}
	}

	logger.Info("schema migrated", "version", version)
	return nil
}

// migrateLegacyTransactions is a compatibility shim for installs that
// predate the credit/payment table split and kept everything in a single
// "transactions" table with a type discriminator. It runs at most once: if
// either split table already holds data, the legacy rows stay where they are
// so a re-run can never double-import.
func (m *Manager) migrateLegacyTransactions(ctx context.Context) error {
	conn := m.db.Conn(ctx)

	var name string
	err := conn.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='transactions'`).Scan(&name).Error
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}

	var credits, payments int64
	if err := conn.Raw(`SELECT COUNT(*) FROM customer_credits`).Scan(&credits).Error; err != nil {
		return err
	}
	if err := conn.Raw(`SELECT COUNT(*) FROM customer_payments`).Scan(&payments).Error; err != nil {
		return err
	}
	if credits > 0 || payments > 0 {
		return nil
	}

	logger.Info("migrating legacy transactions table")
	if err := conn.Exec(
		`INSERT INTO customer_credits (customer_id, amount, note, date, created_at)
		 SELECT customer_id, amount, note, date, created_at FROM transactions WHERE type = 'credit'`,
	).Error; err != nil {
		return err
	}
	return conn.Exec(
		`INSERT INTO customer_payments (customer_id, amount, note, date, created_at)
		 SELECT customer_id, amount, note, date, created_at FROM transactions WHERE type = 'payment'`,
	).Error
}

// SeedDemoData inserts two demo customers with one credit and one payment.
// It refuses to touch a store with any real customer row; the dev-build gate
// is the caller's job.
func (m *Manager) SeedDemoData(ctx context.Context) error {
	conn := m.db.Conn(ctx)

	var count int64
	if err := conn.Raw(`SELECT COUNT(*) FROM customers`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	today := time.Now().In(nepali.Kathmandu).Format("2006-01-02")

	type seedCustomer struct{ name, mobile, address string }
	seeds := []seedCustomer{
		{"राम प्रसाद", "9812345678", "काठमाडौं"},
		{"सीता देवी", "9800000000", "ललितपुर"},
	}
	ids := make([]int64, 0, len(seeds))
	for _, s := range seeds {
		if err := conn.Exec(
			`INSERT INTO customers (name, mobile, address, note) VALUES (?, ?, ?, ?)`,
			s.name, s.mobile, s.address, "Demo",
		).Error; err != nil {
			return err
		}
		var id int64
		if err := conn.Raw(`SELECT last_insert_rowid()`).Scan(&id).Error; err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if err := conn.Exec(
		`INSERT INTO customer_credits (customer_id, amount, note, date) VALUES (?, ?, ?, ?)`,
		ids[0], 500.0, "चामल", today,
	).Error; err != nil {
		return err
	}
	if err := conn.Exec(
		`INSERT INTO customer_payments (customer_id, amount, note, date) VALUES (?, ?, ?, ?)`,
		ids[1], 200.0, "आंशिक भुक्तानी", today,
	).Error; err != nil {
		return err
	}
	logger.Info("seeded demo data")
	return nil
}

func (m *Manager) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := m.db.Conn(ctx).Raw(fmt.Sprintf("PRAGMA table_info(%s)", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	cols := make(map[string]bool, len(rows))
	for _, r := range rows {
		cols[r.Name] = true
	}
	return cols, nil
}

func (m *Manager) userVersion(ctx context.Context) (int, error) {
	var v int
	err := m.db.Conn(ctx).Raw("PRAGMA user_version").Scan(&v).Error
	return v, err
}

// setVersion bumps PRAGMA user_version and appends to schema_migrations.
// INSERT OR IGNORE keeps the record append-only and re-runnable.
func (m *Manager) setVersion(ctx context.Context, version int) error {
	conn := m.db.Conn(ctx)
	if err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)).Error; err != nil {
		return err
	}
	return conn.Exec(
		`INSERT OR IGNORE INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`,
		version,
	).Error
}
