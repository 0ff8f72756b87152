package schema

// Baseline DDL. Every statement is idempotent; older installs that predate a
// column get it through the ALTER TABLE path in EnsureSchema instead.

const createCustomersTable = `
  CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    mobile TEXT,
    address TEXT,
    note TEXT,
    created_at TEXT DEFAULT (datetime('now'))
  );`

const createCreditsTable = `
  CREATE TABLE IF NOT EXISTS customer_credits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL,
    amount REAL NOT NULL,
    note TEXT,
    expected_payment_date TEXT,
    date TEXT NOT NULL,
    created_at TEXT DEFAULT (datetime('now')),
    FOREIGN KEY (customer_id) REFERENCES customers (id)
  );`

const createPaymentsTable = `
  CREATE TABLE IF NOT EXISTS customer_payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL,
    amount REAL NOT NULL,
    note TEXT,
    is_verified INTEGER NOT NULL DEFAULT 0,
    verified_at TEXT,
    attachment_uri TEXT,
    attachment_name TEXT,
    attachment_mime TEXT,
    date TEXT NOT NULL,
    created_at TEXT DEFAULT (datetime('now')),
    FOREIGN KEY (customer_id) REFERENCES customers (id)
  );`

const createSchemaMigrationsTable = `
  CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TEXT DEFAULT (datetime('now'))
  );`

const createCreditLogsTable = `
  CREATE TABLE IF NOT EXISTS customer_credit_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    credit_id INTEGER NOT NULL,
    customer_id INTEGER NOT NULL,
    old_amount REAL,
    new_amount REAL,
    changed_at TEXT DEFAULT (datetime('now')),
    FOREIGN KEY (credit_id) REFERENCES customer_credits (id),
    FOREIGN KEY (customer_id) REFERENCES customers (id)
  );`

const createPaymentLogsTable = `
  CREATE TABLE IF NOT EXISTS customer_payment_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    payment_id INTEGER NOT NULL,
    customer_id INTEGER NOT NULL,
    old_amount REAL,
    new_amount REAL,
    changed_at TEXT DEFAULT (datetime('now')),
    FOREIGN KEY (payment_id) REFERENCES customer_payments (id),
    FOREIGN KEY (customer_id) REFERENCES customers (id)
  );`

var createIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_credits_customer_id ON customer_credits (customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_customer_id ON customer_payments (customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_credits_date ON customer_credits (date);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_date ON customer_payments (date);`,
}

var createLogIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_credit_logs_credit_id ON customer_credit_logs (credit_id);`,
	`CREATE INDEX IF NOT EXISTS idx_payment_logs_payment_id ON customer_payment_logs (payment_id);`,
}
